// SPDX-License-Identifier: MPL-2.0

// Package capture produces terminal cell buffers, either by executing a
// shell command or by highlighting a literal snippet.
//
// Command capture has two modes. Pipe mode wires stdout/stderr to a plain
// buffer; programs that detect a non-interactive stream may drop color,
// which is accepted behavior. PTY mode runs the child under a
// pseudo-terminal sized to the requested width so ANSI styling survives,
// at the cost of extra control sequences and the risk of a child blocking
// on terminal input, which the timeout bounds.
//
// A nonzero exit status is not an error: the captured output and exit code
// are both surfaced. Only spawn failure, I/O failure and timeout expiry
// fail a capture.
package capture
