package tree

import "github.com/google/uuid"

// DefaultText is the label given to nodes created by insert operations when
// the caller does not supply one.
const DefaultText = "New node"

// Node is a single labeled entry in the hierarchy.
//
// Children are exclusively owned by the node. Use the mutation methods on
// [Forest] to restructure the tree; editing Children directly is allowed while
// building a tree before handing it to [New], or if [Forest.Normalize] is
// called afterwards.
type Node struct {
	ID        string  // Stable identity, assigned on creation
	Text      string  // User-editable label
	Color     string  // Display color override ("" = theme default)
	Collapsed bool    // Hide the subtree from layout and rendering
	Children  []*Node // Ordered children

	parent      *Node
	hasChildren bool
}

// NewNode creates a detached node with a fresh ID.
func NewNode(text string) *Node {
	return &Node{ID: uuid.NewString(), Text: text}
}

// Parent returns the node's parent, or nil for roots and detached nodes.
func (n *Node) Parent() *Node { return n.parent }

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.parent == nil }

// HasChildren reports the marker derived by the last normalization pass:
// true when the node has at least one child in the model, collapsed or not.
func (n *Node) HasChildren() bool { return n.hasChildren }

// VisibleChildren returns the children shown by layout and rendering.
// A collapsed node has none.
func VisibleChildren(n *Node) []*Node {
	if n == nil || n.Collapsed {
		return nil
	}
	return n.Children
}

// LeafCount returns the number of visually terminal nodes in n's subtree:
// 1 when n has no visible children, otherwise the sum over visible children.
func LeafCount(n *Node) int {
	kids := VisibleChildren(n)
	if len(kids) == 0 {
		return 1
	}
	total := 0
	for _, k := range kids {
		total += LeafCount(k)
	}
	return total
}

// clone deep-copies n and its subtree, keeping IDs.
func (n *Node) clone() *Node {
	c := &Node{ID: n.ID, Text: n.Text, Color: n.Color, Collapsed: n.Collapsed}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, k := range n.Children {
			c.Children[i] = k.clone()
		}
	}
	return c
}

func nodesEqual(a, b *Node) bool {
	if a.Text != b.Text || a.Color != b.Color || a.Collapsed != b.Collapsed {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !nodesEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
