// Package gitdiff collects labeled diff bundles from a git repository.
//
// A [Bundle] holds ordered, labeled sections of raw diff text: staged and
// unstaged working-tree changes, or a three-dot branch comparison. Branch
// names resolve with a remote-tracking fallback, so "feature/x" finds
// "origin/feature/x" when no local branch exists.
package gitdiff
