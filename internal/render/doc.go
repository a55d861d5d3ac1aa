// SPDX-License-Identifier: MPL-2.0

// Package render turns a terminal cell buffer into image files.
//
// Layout happens once: NewFrame computes a vector document (window
// geometry, background rects, styled text runs) from the buffer and theme.
// The SVG encoder serializes that document; the PNG encoder rasterizes the
// same document with embedded Go Mono faces; the PDF encoder wraps the
// rasterized page. PNG and PDF are pure functions of the vector document,
// never an independent layout pass, so all formats of one buffer agree.
//
// Every encoder is deterministic: integer layout, pinned PDF creation
// date, no timestamps or random identifiers. Identical buffer and options
// always produce byte-identical files, which the change decision engine
// relies on.
package render
