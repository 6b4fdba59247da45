// Package tree provides the node forest that backs a mind map.
//
// # Overview
//
// A mind map is an ordered forest of rooted trees. Each [Node] carries a text
// label, an optional display color and a collapsed flag, and owns an ordered
// slice of children. The [Forest] owns the ordered root sequence and an index
// from node ID to node.
//
// The model is strictly a forest: every non-root node has exactly one parent
// and no node is ever its own ancestor. Structural edits are expressed as
// methods on [Forest] (see mutate.go) and each one finishes with
// [Forest.Normalize], which re-derives parent pointers, the ID index and the
// "has children" markers. Nothing observes the forest for changes; callers
// that need to react to an edit do so explicitly after calling the method.
//
// # Visibility
//
// A collapsed node keeps its children in the model but hides them from layout
// and rendering. [VisibleChildren] and [LeafCount] apply this rule:
//
//	f := tree.New(a)
//	tree.LeafCount(a)      // number of visually terminal descendants
//	tree.VisibleChildren(a) // nil when a.Collapsed
//
// Leaf counts are recomputed on every call. Trees are small and edited
// constantly, so there is no cache to invalidate.
//
// # Concurrency
//
// A Forest is not safe for concurrent use. All edits happen on a single
// execution context (the editor's event loop or a server holding a lock).
package tree
