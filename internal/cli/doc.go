// Package cli wires together the Cobra command tree for the revu binary.
//
// It defines the root command and all subcommands (review, branches,
// config, models, version), binds flags, reads configuration, and streams
// review responses to the terminal with deterministic exit codes.
package cli
