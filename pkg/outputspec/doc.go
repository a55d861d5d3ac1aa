// SPDX-License-Identifier: MPL-2.0

// Package outputspec defines the unit of work for screenshot generation:
// what to capture (a shell command or a literal snippet), how to present it
// (width, theme, title), where to write it (one or more image paths), and
// when to overwrite (difference threshold, skip-change regex).
//
// The capture source is a closed sum type (Command | Snippet) so that an
// OutputSpec with both or neither source is unrepresentable once built;
// the config layer enforces the exactly-one rule while decoding records.
package outputspec
