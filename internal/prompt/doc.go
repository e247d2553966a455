// Package prompt builds the fixed instructional review prompt around a
// diff bundle. No I/O, no side effects.
package prompt
