// SPDX-License-Identifier: MPL-2.0

// Package term models captured terminal output as a grid of styled cells.
//
// Fold converts a raw byte stream (including ANSI SGR escape sequences) into
// a Buffer by running a small state machine: control sequences update the
// current pen style, printable runs are stamped into cells with that style,
// and lines wrap at a fixed column width. Only SGR sequences affect styling;
// cursor movement and other control sequences are consumed and dropped.
//
// Theme maps the 16-color ANSI palette plus default foreground/background
// onto concrete RGB values for rendering. The named themes mirror the
// terminal themes commonly used for documentation exports.
package term
