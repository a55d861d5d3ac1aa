// SPDX-License-Identifier: MPL-2.0

//go:build windows

package capture

import (
	"context"
	"os/exec"
	"time"
)

// runPTY is unavailable on Windows; creack/pty has no ConPTY backend here.
// Callers fall back to pipe capture or surface ErrPTYUnsupported.
func (r *Runner) runPTY(_ context.Context, _ string, _ []string, command string, _ int, _ time.Duration, _ string) (*Capture, error) {
	return nil, &ExecutionError{Cmd: command, Err: ErrPTYUnsupported}
}

func setProcessGroup(*exec.Cmd) {}

// killProcessTree terminates the child process. Grandchildren are not
// tracked on Windows.
func killProcessTree(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
