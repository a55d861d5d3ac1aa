// SPDX-License-Identifier: MPL-2.0

// Package scan discovers screenshot directives embedded in documentation.
//
// A markdown image whose alt text is a backtick-quoted command declares an
// output job:
//
//	![`termframe --help`](img/help.svg "Optional title")
//
// An HTML comment immediately above it overrides settings for that one
// image:
//
//	<!-- TERMFRAME TERMINAL_WIDTH=60 USE_PTY=true -->
//
// Recognized keys: SKIP, MIN_PCT_DIFF, SKIP_CHANGE_REGEX, TERMINAL_WIDTH,
// TERMINAL_THEME, USE_PTY, TIMEOUT. Duplicate jobs that differ only in
// their destination path are collapsed into one capture with several
// outputs. Commands starting with entries from the ignore list (rm, cp,
// mv, sudo) are dropped with a warning.
package scan
