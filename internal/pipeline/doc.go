// SPDX-License-Identifier: MPL-2.0

// Package pipeline wires one output spec through capture, render, change
// decision and write: (command | snippet) -> cell buffer -> images ->
// verdict per destination path.
//
// Each spec is processed independently; a failing job never aborts its
// siblings. RenderAll fans jobs out over a bounded worker pool. The only
// resource jobs share is the destination filesystem, where the writer's
// atomic rename keeps concurrent output well-defined.
package pipeline
