// Package painter computes the pixel edits still needed to reproduce target
// images on a shared canvas.
//
// An Image places a palette-indexed bitmap at a world anchor. Recompute walks
// the bitmap in the image's traversal strategy, compares every cell with the
// canvas snapshot and emits a Task for each cell that still has to be
// painted. The queue is rebuilt from scratch on every pass and never patched.
//
// # Diff Rules
//
// For each cell, in strategy order:
//
//  1. Colors disabled in the image's color order are skipped
//  2. Cells already showing their target color are skipped
//  3. Transparent cells (index 0) are skipped unless DrawTransparentPixels
//     is set, in which case they become erase tasks
//
// With DrawColorsInOrder the queue is then stably sorted by color priority,
// so cells of the same color keep their spatial order.
//
// # Fleet
//
// A Fleet is the ordered set of active images. Fleet order is
// user-adjustable and affects listing and planning only. Every state change
// made through the fleet is handed to a Sink for persistence; sink failures
// are returned to the caller and never retried.
//
// # Progress
//
// Progress summaries are pure functions of bitmap areas and queue lengths:
// done/total cells, an integer percent and an ETA in whole hours derived
// from a pixels-per-hour rate.
//
// # Geometry Editing
//
// Editor implements interactive move and resize as a two-state machine. A
// session captures the image geometry and pointer origin; moves compute a
// preview box; ending the session commits the anchor, resamples the bitmap
// if the size changed and resynchronizes the color order.
//
// # Concurrency
//
// Nothing in this package is safe for concurrent use. Callers serialize all
// operations on a fleet and its images, and load canvas snapshots before a
// diff pass starts.
package painter
