package gitrun

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"testing"
)

func skipIfNoGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func TestRun_CapturesStdout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a unix shell")
	}
	r := &Runner{GitPath: "sh"}
	out, err := r.Run(context.Background(), t.TempDir(), "-c", "printf hello")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out != "hello" {
		t.Errorf("stdout = %q, want %q", out, "hello")
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a unix shell")
	}
	r := &Runner{GitPath: "sh"}
	_, err := r.Run(context.Background(), t.TempDir(), "-c", "echo bad >&2; exit 3")
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	var pe *ProcessError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want *ProcessError", err)
	}
	if pe.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", pe.ExitCode)
	}
	if !strings.Contains(pe.Stderr, "bad") {
		t.Errorf("Stderr = %q, want it to contain %q", pe.Stderr, "bad")
	}
}

func TestRun_Exit128IsNotARepository(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a unix shell")
	}
	r := &Runner{GitPath: "sh"}
	_, err := r.Run(context.Background(), t.TempDir(), "-c", "exit 128")
	if !errors.Is(err, ErrNotARepository) {
		t.Errorf("err = %v, want ErrNotARepository", err)
	}
}

func TestRun_NotARepository_RealGit(t *testing.T) {
	skipIfNoGit(t)
	r := &Runner{}
	_, err := r.Run(context.Background(), t.TempDir(), "rev-parse", "--verify", "HEAD")
	if !errors.Is(err, ErrNotARepository) {
		t.Errorf("err = %v, want ErrNotARepository", err)
	}
}

func TestRun_OutputTooLarge(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a unix shell")
	}
	r := &Runner{GitPath: "sh"}
	_, err := r.Run(context.Background(), t.TempDir(), "-c", "head -c 10485761 /dev/zero")
	if !errors.Is(err, ErrOutputTooLarge) {
		t.Errorf("err = %v, want ErrOutputTooLarge", err)
	}
}

func TestRun_MaxOutputOverride(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a unix shell")
	}
	r := &Runner{GitPath: "sh", MaxOutput: 4}

	out, err := r.Run(context.Background(), t.TempDir(), "-c", "printf abcd")
	if err != nil {
		t.Fatalf("Run at the limit error: %v", err)
	}
	if out != "abcd" {
		t.Errorf("stdout = %q, want %q", out, "abcd")
	}

	_, err = r.Run(context.Background(), t.TempDir(), "-c", "printf abcde")
	if !errors.Is(err, ErrOutputTooLarge) {
		t.Errorf("err = %v, want ErrOutputTooLarge when output exceeds MaxOutput", err)
	}
}

func TestRun_MissingBinary(t *testing.T) {
	r := &Runner{GitPath: "definitely-not-a-real-binary"}
	_, err := r.Run(context.Background(), t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	var pe *ProcessError
	if errors.As(err, &pe) {
		t.Errorf("missing binary should not be a *ProcessError, got %v", pe)
	}
}

func TestCapWriter_UnderLimit(t *testing.T) {
	var buf bytes.Buffer
	w := &capWriter{w: &buf, remaining: 10}
	n, err := w.Write([]byte("hello"))
	if err != nil || n != 5 {
		t.Fatalf("Write = (%d, %v), want (5, nil)", n, err)
	}
	if w.overflowed {
		t.Error("should not overflow under the limit")
	}
	if buf.String() != "hello" {
		t.Errorf("captured %q, want %q", buf.String(), "hello")
	}
}

func TestCapWriter_ExactLimit(t *testing.T) {
	var buf bytes.Buffer
	w := &capWriter{w: &buf, remaining: 5}
	w.Write([]byte("hello"))
	if w.overflowed {
		t.Error("writing exactly the limit should not overflow")
	}
}

func TestCapWriter_OverLimit(t *testing.T) {
	var buf bytes.Buffer
	w := &capWriter{w: &buf, remaining: 3}
	n, err := w.Write([]byte("hello"))
	if err != nil || n != 5 {
		t.Fatalf("Write = (%d, %v), want (5, nil): overflow must not break the pipe", n, err)
	}
	if !w.overflowed {
		t.Error("should overflow past the limit")
	}
	if buf.String() != "hel" {
		t.Errorf("captured %q, want %q", buf.String(), "hel")
	}
}

func TestProcessError_Message(t *testing.T) {
	pe := &ProcessError{ExitCode: 2, Stderr: "fatal: bad revision\n"}
	msg := pe.Error()
	if !strings.Contains(msg, "2") || !strings.Contains(msg, "bad revision") {
		t.Errorf("Error() = %q, want exit code and stderr present", msg)
	}

	bare := &ProcessError{ExitCode: 7}
	if !strings.Contains(bare.Error(), "7") {
		t.Errorf("Error() = %q, want exit code present", bare.Error())
	}
}
