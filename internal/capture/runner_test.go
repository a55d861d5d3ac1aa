// SPDX-License-Identifier: MPL-2.0

package capture

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("capture tests use a POSIX shell")
	}
	r := NewRunner(nil)
	r.Shell = "/bin/sh"
	return r
}

func TestRunPipeCapturesOutput(t *testing.T) {
	r := newTestRunner(t)

	capture, err := r.Run(context.Background(), "echo hello", Options{})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if capture.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", capture.ExitCode)
	}
	if got := strings.TrimSpace(string(capture.Raw)); got != "hello" {
		t.Errorf("expected output %q, got %q", "hello", got)
	}
}

func TestRunPipeInterleavesStderr(t *testing.T) {
	r := newTestRunner(t)

	capture, err := r.Run(context.Background(), "echo out; echo err >&2", Options{})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	text := string(capture.Raw)
	if !strings.Contains(text, "out") || !strings.Contains(text, "err") {
		t.Errorf("expected both streams captured, got %q", text)
	}
}

func TestRunSurfacesNonzeroExit(t *testing.T) {
	r := newTestRunner(t)

	capture, err := r.Run(context.Background(), "echo partial; exit 3", Options{})
	if err != nil {
		t.Fatalf("nonzero exit must not be an error, got %v", err)
	}
	if capture.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", capture.ExitCode)
	}
	if !strings.Contains(string(capture.Raw), "partial") {
		t.Errorf("expected output before exit to be captured, got %q", capture.Raw)
	}
}

func TestRunTimeoutKillsCommand(t *testing.T) {
	r := newTestRunner(t)

	start := time.Now()
	_, err := r.Run(context.Background(), "echo begin; sleep 5", Options{Timeout: 200 * time.Millisecond})
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if elapsed > 3*time.Second {
		t.Errorf("timeout took too long to fire: %v", elapsed)
	}
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected *TimeoutError, got %T", err)
	}
	if !strings.Contains(string(timeoutErr.Partial), "begin") {
		t.Errorf("expected partial output in timeout error, got %q", timeoutErr.Partial)
	}
}

func TestRunEmptyCommandFails(t *testing.T) {
	r := newTestRunner(t)

	_, err := r.Run(context.Background(), "   ", Options{})
	if !errors.Is(err, ErrExecution) {
		t.Errorf("expected ErrExecution for empty command, got %v", err)
	}
}

func TestRunBadShellFails(t *testing.T) {
	r := newTestRunner(t)
	r.Shell = "/nonexistent/shell"

	_, err := r.Run(context.Background(), "echo hi", Options{})
	if !errors.Is(err, ErrExecution) {
		t.Errorf("expected ErrExecution for missing shell, got %v", err)
	}
}

func TestRunPTYPreservesWinsize(t *testing.T) {
	r := newTestRunner(t)

	capture, err := r.Run(context.Background(), "stty size", Options{UsePTY: true, Width: 60})
	if err != nil {
		if errors.Is(err, ErrPTYUnsupported) {
			t.Skip("pty unavailable on this platform")
		}
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(string(capture.Raw), "60") {
		t.Errorf("expected pty width 60 reported by stty, got %q", capture.Raw)
	}
}

func TestRunPTYTimeout(t *testing.T) {
	r := newTestRunner(t)

	_, err := r.Run(context.Background(), "sleep 5", Options{UsePTY: true, Timeout: 200 * time.Millisecond})
	if err != nil && errors.Is(err, ErrPTYUnsupported) {
		t.Skip("pty unavailable on this platform")
	}
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestCaptureBufferFoldsRaw(t *testing.T) {
	c := &Capture{Raw: []byte("\x1b[32mok\x1b[0m\n")}
	buf := c.Buffer(80)

	if buf.Height() != 1 || buf.Text()[0] != "ok" {
		t.Fatalf("unexpected buffer contents: %v", buf.Text())
	}
}
