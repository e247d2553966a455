package gitrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// MaxOutputBytes is the default ceiling on captured stdout for a single
// git invocation. Diffs larger than the ceiling are refused rather than
// truncated.
const MaxOutputBytes = 10 << 20 // 10 MiB

// notRepoExitCode is git's conventional exit code outside a repository.
const notRepoExitCode = 128

// ErrOutputTooLarge is returned when a git invocation produces more than
// MaxOutputBytes of output.
var ErrOutputTooLarge = errors.New("git output exceeds size limit")

// ErrNotARepository is returned when git reports the working directory is
// not inside a repository (exit code 128).
var ErrNotARepository = errors.New("not a git repository")

// ProcessError describes a git invocation that exited non-zero.
type ProcessError struct {
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("git exited with code %d", e.ExitCode)
	}
	return fmt.Sprintf("git exited with code %d: %s", e.ExitCode, stderr)
}

// Runner invokes git in a given working directory and captures stdout.
// The zero value uses "git" from PATH.
type Runner struct {
	// GitPath overrides the git binary location. Empty means "git".
	GitPath string

	// MaxOutput caps captured stdout per invocation. Zero or negative
	// means MaxOutputBytes.
	MaxOutput int
}

// Run spawns exactly one git process with the given arguments rooted at
// dir, and returns its stdout. A non-zero exit yields a *ProcessError,
// except exit code 128 which is classified as ErrNotARepository. There is
// no retry; git operations are local and idempotent to re-invoke.
func (r *Runner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	gitPath := r.GitPath
	if gitPath == "" {
		gitPath = "git"
	}

	limit := r.MaxOutput
	if limit <= 0 {
		limit = MaxOutputBytes
	}

	cmd := exec.CommandContext(ctx, gitPath, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	capped := &capWriter{w: &stdout, remaining: limit}
	cmd.Stdout = capped
	cmd.Stderr = &stderr

	err := cmd.Run()
	if capped.overflowed {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), ErrOutputTooLarge)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if code == notRepoExitCode {
				return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), ErrNotARepository, strings.TrimSpace(stderr.String()))
			}
			return "", &ProcessError{ExitCode: code, Stderr: stderr.String()}
		}
		return "", fmt.Errorf("running git %s: %w", strings.Join(args, " "), err)
	}

	return stdout.String(), nil
}

// capWriter writes through to w up to remaining bytes, then swallows the
// rest. The caller detects overflow by checking whether the buffer filled.
type capWriter struct {
	w          *bytes.Buffer
	remaining  int
	overflowed bool
}

func (c *capWriter) Write(p []byte) (int, error) {
	n := len(p)
	if n > c.remaining {
		n = c.remaining
		c.overflowed = true
	}
	c.w.Write(p[:n])
	c.remaining -= n
	return len(p), nil
}
