// Revu streams AI code reviews of local git diffs to the terminal.
//
// It collects staged and unstaged changes, or a three-dot comparison
// between two branches, wraps them in a fixed review prompt, and relays
// the model's response fragment by fragment as it arrives.
//
// Usage:
//
//	revu review                      # review staged + unstaged changes
//	revu review branch feature/x     # review feature/x against the base branch
//	revu review branch feature/x dev # review feature/x against dev
//	revu branches                    # list branches (local + remote, de-duplicated)
//
// See https://github.com/dshills/revu for full documentation.
package main
