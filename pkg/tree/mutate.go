package tree

import "slices"

// Structural edits. Every method is a silent no-op when its target cannot be
// resolved (nil, or not part of this forest); nothing here returns an error.
// Each successful edit ends with Normalize.

// AddRoot appends a new root node.
func (f *Forest) AddRoot(text string) *Node {
	n := NewNode(text)
	f.roots = append(f.roots, n)
	f.Normalize()
	return n
}

// InsertChild appends a new node as the last child of target and returns it.
// Returns nil if target is not in the forest.
func (f *Forest) InsertChild(target *Node, text string) *Node {
	if !f.Contains(target) {
		return nil
	}
	n := NewNode(text)
	target.Children = append(target.Children, n)
	f.Normalize()
	return n
}

// InsertSibling inserts a new node immediately after target in target's
// sequence (the root sequence for roots) and returns it.
func (f *Forest) InsertSibling(target *Node, text string) *Node {
	if !f.Contains(target) {
		return nil
	}
	n := NewNode(text)
	seq := f.siblingSlice(target)
	i := slices.Index(*seq, target)
	*seq = slices.Insert(*seq, i+1, n)
	f.Normalize()
	return n
}

// MoveUp swaps target with its previous sibling.
// Reports false when target is already first.
func (f *Forest) MoveUp(target *Node) bool {
	return f.swap(target, -1)
}

// MoveDown swaps target with its next sibling.
// Reports false when target is already last.
func (f *Forest) MoveDown(target *Node) bool {
	return f.swap(target, +1)
}

func (f *Forest) swap(target *Node, dir int) bool {
	if !f.Contains(target) {
		return false
	}
	seq := *f.siblingSlice(target)
	i := slices.Index(seq, target)
	j := i + dir
	if j < 0 || j >= len(seq) {
		return false
	}
	seq[i], seq[j] = seq[j], seq[i]
	f.Normalize()
	return true
}

// Reparent moves dragged so that it directly follows dropTarget in
// dropTarget's sequence. The dragged subtree travels unchanged.
//
// No-op when dragged == dropTarget, when either node is not in the forest,
// or when dropTarget lies inside the dragged subtree.
func (f *Forest) Reparent(dragged, dropTarget *Node) bool {
	if dragged == dropTarget || !f.Contains(dragged) || !f.Contains(dropTarget) {
		return false
	}
	if IsAncestor(dragged, dropTarget) {
		return false
	}

	src := f.siblingSlice(dragged)
	*src = slices.DeleteFunc(*src, func(n *Node) bool { return n == dragged })

	dst := f.siblingSlice(dropTarget)
	i := slices.Index(*dst, dropTarget)
	*dst = slices.Insert(*dst, i+1, dragged)

	f.Normalize()
	return true
}

// ToggleFold flips target's collapsed flag. With recursive set, every
// descendant is forced to the same new value, discarding any fold state set
// individually deeper in the subtree.
func (f *Forest) ToggleFold(target *Node, recursive bool) bool {
	if !f.Contains(target) {
		return false
	}
	collapsed := !target.Collapsed
	target.Collapsed = collapsed
	if recursive {
		var force func(n *Node)
		force = func(n *Node) {
			for _, k := range n.Children {
				k.Collapsed = collapsed
				force(k)
			}
		}
		force(target)
	}
	f.Normalize()
	return true
}

// Delete removes target and its subtree. It returns the node that should
// receive the selection next: the previous sibling, else the next sibling,
// else the parent. The returned node is nil when the forest became empty.
func (f *Forest) Delete(target *Node) (*Node, bool) {
	if !f.Contains(target) {
		return nil, false
	}
	parent := target.parent
	seq := f.siblingSlice(target)
	i := slices.Index(*seq, target)
	*seq = slices.Delete(*seq, i, i+1)
	target.parent = nil

	var next *Node
	switch {
	case i > 0:
		next = (*seq)[i-1]
	case len(*seq) > 0:
		next = (*seq)[0]
	default:
		next = parent
	}
	f.Normalize()
	return next, true
}

// SetText replaces target's label.
func (f *Forest) SetText(target *Node, text string) bool {
	if !f.Contains(target) || target.Text == text {
		return false
	}
	target.Text = text
	return true
}

// SetColor replaces target's display color. An empty color restores the
// theme default.
func (f *Forest) SetColor(target *Node, color string) bool {
	if !f.Contains(target) || target.Color == color {
		return false
	}
	target.Color = color
	return true
}
