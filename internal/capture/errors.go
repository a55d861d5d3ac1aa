// SPDX-License-Identifier: MPL-2.0

package capture

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrExecution is the sentinel error wrapped by ExecutionError.
	ErrExecution = errors.New("command execution failed")
	// ErrTimeout is the sentinel error wrapped by TimeoutError.
	ErrTimeout = errors.New("command timed out")
	// ErrPTYUnsupported is returned when PTY capture is requested on a
	// platform without pseudo-terminal support.
	ErrPTYUnsupported = errors.New("pty capture is not supported on this platform")
)

// ExecutionError reports that a command failed to spawn or that reading its
// output failed. Nonzero exits are not ExecutionErrors.
// It wraps ErrExecution for errors.Is() compatibility.
type ExecutionError struct {
	Cmd string
	Err error
}

// Error implements the error interface for ExecutionError.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("executing %q: %v", e.Cmd, e.Err)
}

// Unwrap returns ErrExecution for errors.Is() compatibility.
func (e *ExecutionError) Unwrap() error { return ErrExecution }

// TimeoutError reports that a command outlived its timeout and was killed.
// Partial holds whatever output was captured before termination so callers
// can still report it for diagnostics. It wraps ErrTimeout.
type TimeoutError struct {
	Cmd     string
	Timeout time.Duration
	Partial []byte
}

// Error implements the error interface for TimeoutError.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command %q timed out after %s", e.Cmd, e.Timeout)
}

// Unwrap returns ErrTimeout for errors.Is() compatibility.
func (e *TimeoutError) Unwrap() error { return ErrTimeout }
