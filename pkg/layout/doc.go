// Package layout assigns positions to the visible nodes of a [tree.Forest].
//
// # Strategies
//
// Two interchangeable [Strategy] implementations are provided:
//
//   - [Flow]: an indented outline. Positions are owned by a rendering
//     surface and only queried through a [Measurer]. The default
//     [IndentMeasurer] simulates such a surface: every node is offset from
//     its parent by one indent step and one row, and absolute positions are
//     resolved by summing offsets up the parent chain.
//
//   - [Radial]: recursive angular subdivision. Roots share the full circle in
//     proportion to their leaf counts, starting at the origin angle. Each
//     node sits at the midpoint of its span on ring depth × RingSpacing, and
//     its visible children split the span by leaf count again.
//
// # Failure semantics
//
// A pass never applies partially. If a visible node cannot be measured the
// flow strategy returns [ErrDetached] and an empty layout; callers retry on
// the next frame. An empty forest yields an empty layout and no error.
//
// # Coordinates
//
// All coordinates are untransformed surface units. Zoom and pan are applied
// by the caller to the whole frame, never per node.
package layout
