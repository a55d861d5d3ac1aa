// SPDX-License-Identifier: MPL-2.0

// Package writer persists accepted images. Writes go to a temporary file
// in the destination directory followed by a rename, so a documentation
// build watching the tree never observes a half-written image.
package writer
