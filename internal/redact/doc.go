// Package redact scrubs likely secrets from diff bundles before they are
// sent to a model provider.
//
// Detection is heuristic pattern matching, not a guarantee. Matched
// material is replaced with a [REDACTED] placeholder in place.
package redact
