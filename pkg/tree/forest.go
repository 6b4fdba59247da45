package tree

import "github.com/google/uuid"

// Forest is the ordered set of root nodes together with an ID index.
//
// The zero value is an empty, usable forest.
type Forest struct {
	roots []*Node
	index map[string]*Node
}

// New creates a forest from the given roots and normalizes it.
func New(roots ...*Node) *Forest {
	f := &Forest{roots: roots}
	f.Normalize()
	return f
}

// Roots returns the root sequence. The slice must not be modified.
func (f *Forest) Roots() []*Node { return f.roots }

// Empty reports whether the forest has no roots.
func (f *Forest) Empty() bool { return len(f.roots) == 0 }

// Len returns the total number of nodes, hidden ones included.
func (f *Forest) Len() int { return len(f.index) }

// First returns the first root, or nil for an empty forest.
func (f *Forest) First() *Node {
	if len(f.roots) == 0 {
		return nil
	}
	return f.roots[0]
}

// Find returns the node with the given ID.
func (f *Forest) Find(id string) (*Node, bool) {
	n, ok := f.index[id]
	return n, ok
}

// Contains reports whether n is a node of this forest.
func (f *Forest) Contains(n *Node) bool {
	if n == nil {
		return false
	}
	return f.index[n.ID] == n
}

// Siblings returns the sequence n belongs to: its parent's children, or the
// root sequence for roots.
func (f *Forest) Siblings(n *Node) []*Node {
	if n.parent != nil {
		return n.parent.Children
	}
	return f.roots
}

// Depth returns the number of ancestors of n (roots have depth 0).
func (f *Forest) Depth(n *Node) int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// IsAncestor reports whether a is a proper ancestor of b.
func IsAncestor(a, b *Node) bool {
	for p := b.parent; p != nil; p = p.parent {
		if p == a {
			return true
		}
	}
	return false
}

// WalkFunc is called for each node in pre-order. Returning false skips the
// node's children.
type WalkFunc func(n *Node, depth int) bool

// Walk visits every node in pre-order, hidden nodes included.
func (f *Forest) Walk(fn WalkFunc) {
	for _, r := range f.roots {
		walk(r, 0, fn, false)
	}
}

// WalkVisible visits every node that is not hidden by a collapsed ancestor.
func (f *Forest) WalkVisible(fn WalkFunc) {
	for _, r := range f.roots {
		walk(r, 0, fn, true)
	}
}

func walk(n *Node, depth int, fn WalkFunc, visibleOnly bool) {
	if !fn(n, depth) {
		return
	}
	kids := n.Children
	if visibleOnly {
		kids = VisibleChildren(n)
	}
	for _, k := range kids {
		walk(k, depth+1, fn, visibleOnly)
	}
}

// Normalize re-derives parent pointers, the ID index and the has-children
// markers. Nodes without an ID, or whose ID is already taken, get a fresh one.
func (f *Forest) Normalize() {
	f.index = make(map[string]*Node)
	for _, r := range f.roots {
		r.parent = nil
		f.normalize(r)
	}
}

func (f *Forest) normalize(n *Node) {
	if _, taken := f.index[n.ID]; n.ID == "" || taken {
		n.ID = uuid.NewString()
	}
	f.index[n.ID] = n
	n.hasChildren = len(n.Children) > 0
	for _, k := range n.Children {
		k.parent = n
		f.normalize(k)
	}
}

// Replace swaps the whole forest for the given roots.
func (f *Forest) Replace(roots []*Node) {
	f.roots = roots
	f.Normalize()
}

// Clone returns a deep copy of the forest. Node IDs are preserved.
func (f *Forest) Clone() *Forest {
	roots := make([]*Node, len(f.roots))
	for i, r := range f.roots {
		roots[i] = r.clone()
	}
	return New(roots...)
}

// Equal reports whether two forests are structurally equal: same text, color
// and collapsed flag at every node, same child order and count. IDs are not
// compared.
func Equal(a, b *Forest) bool {
	if len(a.roots) != len(b.roots) {
		return false
	}
	for i := range a.roots {
		if !nodesEqual(a.roots[i], b.roots[i]) {
			return false
		}
	}
	return true
}

// siblingSlice returns a pointer to the slice holding n.
func (f *Forest) siblingSlice(n *Node) *[]*Node {
	if n.parent != nil {
		return &n.parent.Children
	}
	return &f.roots
}
