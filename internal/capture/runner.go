// SPDX-License-Identifier: MPL-2.0

package capture

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"termframe/internal/term"
	"termframe/pkg/outputspec"
)

// Options controls one command capture.
type Options struct {
	// Timeout bounds execution; zero falls back to outputspec.DefaultTimeout.
	Timeout time.Duration
	// UsePTY runs the command under a pseudo-terminal.
	UsePTY bool
	// Width is the terminal column count used for winsize and folding.
	Width int
	// Dir is the working directory; empty means the process default.
	Dir string
}

// Capture is the raw result of running a command: the byte stream read from
// the child (including any ANSI sequences in PTY mode) and its exit code.
type Capture struct {
	Raw      []byte
	ExitCode int
}

// Buffer folds the raw output into a styled cell grid at the given width.
func (c *Capture) Buffer(width int) *term.Buffer {
	return term.Fold(c.Raw, width)
}

// Runner executes capture commands through the host shell.
type Runner struct {
	// Shell overrides shell auto-detection.
	Shell string

	logger *log.Logger
}

// NewRunner creates a Runner logging through the given logger.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Runner{logger: logger.WithPrefix("capture")}
}

// Run executes command and returns its captured output. A nonzero exit is
// reported through Capture.ExitCode, not an error. On timeout the returned
// error is a *TimeoutError carrying the partial output.
func (r *Runner) Run(ctx context.Context, command string, opts Options) (*Capture, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, &ExecutionError{Cmd: command, Err: fmt.Errorf("empty command")}
	}

	shell, args, err := r.resolveShell()
	if err != nil {
		return nil, &ExecutionError{Cmd: command, Err: err}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = outputspec.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	width := opts.Width
	if width <= 0 {
		width = outputspec.DefaultTerminalWidth
	}

	if opts.UsePTY {
		r.logger.Debug("running command with pty", "cmd", command, "width", width)
		return r.runPTY(ctx, shell, args, command, width, timeout, opts.Dir)
	}
	r.logger.Debug("running command with pipe", "cmd", command)
	return r.runPipe(ctx, shell, args, command, timeout, opts.Dir)
}

// runPipe captures stdout and stderr through plain pipes, interleaved into
// a single stream the way they would appear on a terminal.
func (r *Runner) runPipe(ctx context.Context, shell string, args []string, command string, timeout time.Duration, dir string) (*Capture, error) {
	cmd := exec.CommandContext(ctx, shell, append(args, command)...)
	cmd.Dir = dir
	cmd.Env = os.Environ()

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	setProcessGroup(cmd)
	cmd.Cancel = func() error { return killProcessTree(cmd) }
	cmd.WaitDelay = 2 * time.Second

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, &TimeoutError{Cmd: command, Timeout: timeout, Partial: buf.Bytes()}
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			r.logger.Debug("command exited nonzero", "cmd", command, "code", exitErr.ExitCode())
			return &Capture{Raw: buf.Bytes(), ExitCode: exitErr.ExitCode()}, nil
		}
		return nil, &ExecutionError{Cmd: command, Err: err}
	}
	return &Capture{Raw: buf.Bytes()}, nil
}

// resolveShell determines which shell runs capture commands and the
// arguments that precede the command string.
func (r *Runner) resolveShell() (string, []string, error) {
	shell := r.Shell
	if shell == "" {
		var err error
		shell, err = defaultShell()
		if err != nil {
			return "", nil, err
		}
	}

	base := strings.TrimSuffix(filepath.Base(shell), ".exe")
	switch base {
	case "cmd":
		return shell, []string{"/C"}, nil
	case "powershell", "pwsh":
		return shell, []string{"-NoProfile", "-Command"}, nil
	default:
		// Assume POSIX shell
		return shell, []string{"-c"}, nil
	}
}

// defaultShell picks a shell for the host platform.
func defaultShell() (string, error) {
	if runtime.GOOS == "windows" {
		if pwsh, err := exec.LookPath("pwsh"); err == nil {
			return pwsh, nil
		}
		if ps, err := exec.LookPath("powershell"); err == nil {
			return ps, nil
		}
		return exec.LookPath("cmd")
	}
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell, nil
	}
	if bash, err := exec.LookPath("bash"); err == nil {
		return bash, nil
	}
	if sh, err := exec.LookPath("sh"); err == nil {
		return sh, nil
	}
	return "", fmt.Errorf("no shell found")
}
