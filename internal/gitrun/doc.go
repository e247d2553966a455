// Package gitrun spawns git processes and captures their output.
//
// It is the only package that touches os/exec. Output is capped at
// [MaxOutputBytes]; non-zero exits surface as [ProcessError], with git's
// exit code 128 classified as [ErrNotARepository].
package gitrun
