// Package config loads and persists revu configuration.
//
// Effective config merges defaults, the JSON config file in the platform
// config directory, REVU_* environment variables, and CLI flag overrides,
// in that order.
package config
