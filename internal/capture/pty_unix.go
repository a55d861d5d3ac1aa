// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package capture

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// runPTY executes the command attached to a pseudo-terminal sized to the
// requested width, reading the master end until EOF or timeout. The PTY
// preserves ANSI color that pipe capture would lose.
func (r *Runner) runPTY(ctx context.Context, shell string, args []string, command string, width int, timeout time.Duration, dir string) (*Capture, error) {
	cmd := exec.Command(shell, append(args, command)...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		fmt.Sprintf("COLUMNS=%d", width),
	)
	setProcessGroup(cmd)

	master, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 24, Cols: uint16(width)})
	if err != nil {
		return nil, &ExecutionError{Cmd: command, Err: err}
	}
	defer master.Close()

	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		// On Linux the read fails with EIO once the slave side closes;
		// that is the normal EOF signal for a PTY master.
		_, _ = io.Copy(&buf, master)
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		_ = killProcessTree(cmd)
		_ = master.Close()
		<-done
		_ = cmd.Wait()
		return nil, &TimeoutError{Cmd: command, Timeout: timeout, Partial: buf.Bytes()}
	}

	capture := &Capture{Raw: buf.Bytes()}
	if err := cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			capture.ExitCode = exitErr.ExitCode()
			return capture, nil
		}
		return nil, &ExecutionError{Cmd: command, Err: err}
	}
	return capture, nil
}

// setProcessGroup places the child in its own process group so the whole
// tree can be terminated together on timeout.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessTree terminates the child's process group.
func killProcessTree(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
