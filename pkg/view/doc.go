// Package view coordinates a mind-map editing session.
//
// A [Coordinator] owns the forest, the explicit session [State] (selection,
// drag source, mode and transform) and the layout strategies. Every editing
// operation follows the same pipeline:
//
//	apply mutation → normalize → RequestRedraw → saver.Notify
//
// RequestRedraw only marks the frame dirty. [Coordinator.Flush] is the frame
// boundary: it runs at most one layout and connector pass no matter how many
// mutations happened since the previous frame, and returns the [Frame] to
// draw. A pass that hits a detached node keeps the frame dirty and is
// retried on the next Flush.
//
// The coordinator is not safe for concurrent use. Callers serialize access
// (the TUI event loop, or the HTTP server's mutex). A [Debouncer] coalesces
// save notifications and runs the save through a caller-supplied dispatch
// function so that it executes on the owner's context.
package view
