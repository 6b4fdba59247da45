package tree

import (
	"slices"
	"testing"

	"pgregory.net/rapid"
)

// genForest draws a random forest with up to maxNodes nodes. Each new node is
// attached either as a root or under a previously drawn node.
func genForest(t *rapid.T, maxNodes int) *Forest {
	count := rapid.IntRange(1, maxNodes).Draw(t, "nodes")
	var roots []*Node
	var all []*Node
	for i := 0; i < count; i++ {
		node := NewNode(rapid.StringMatching(`[a-z]{1,6}`).Draw(t, "text"))
		node.Collapsed = rapid.Float64Range(0, 1).Draw(t, "collapse") < 0.15
		if len(all) == 0 || rapid.Bool().Draw(t, "root") && len(roots) < 3 {
			roots = append(roots, node)
		} else {
			p := all[rapid.IntRange(0, len(all)-1).Draw(t, "parent")]
			p.Children = append(p.Children, node)
		}
		all = append(all, node)
	}
	return New(roots...)
}

func allNodes(f *Forest) []*Node {
	var out []*Node
	f.Walk(func(n *Node, _ int) bool { out = append(out, n); return true })
	return out
}

func countModelLeaves(n *Node) int {
	if len(n.Children) == 0 {
		return 1
	}
	total := 0
	for _, k := range n.Children {
		total += countModelLeaves(k)
	}
	return total
}

func TestPropertyLeafCountMatchesLeaves(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := genForest(t, 40)
		for _, node := range allNodes(f) {
			node.Collapsed = false
		}
		for _, node := range allNodes(f) {
			if got, want := LeafCount(node), countModelLeaves(node); got != want {
				t.Fatalf("LeafCount(%s) = %d, want %d", node.Text, got, want)
			}
		}
	})
}

func TestPropertyMoveUpDownInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := genForest(t, 30)
		nodes := allNodes(f)
		target := nodes[rapid.IntRange(0, len(nodes)-1).Draw(t, "target")]
		before := slices.Clone(f.Siblings(target))
		idx := slices.Index(before, target)

		moved := f.MoveUp(target)
		if idx == 0 {
			if moved {
				t.Fatal("first sibling moved up")
			}
			return
		}
		if !moved || !f.MoveDown(target) {
			t.Fatal("interior move failed")
		}
		if !slices.Equal(f.Siblings(target), before) {
			t.Fatal("up then down did not restore order")
		}
	})
}

func TestPropertyReparentPreservesSubtree(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := genForest(t, 30)
		nodes := allNodes(f)
		dragged := nodes[rapid.IntRange(0, len(nodes)-1).Draw(t, "dragged")]
		target := nodes[rapid.IntRange(0, len(nodes)-1).Draw(t, "target")]
		kids := slices.Clone(dragged.Children)
		total := f.Len()

		ok := f.Reparent(dragged, target)
		if dragged == target || IsAncestor(dragged, target) {
			if ok {
				t.Fatal("invalid reparent succeeded")
			}
			return
		}
		if !ok {
			t.Fatal("valid reparent failed")
		}
		if !slices.Equal(dragged.Children, kids) {
			t.Fatal("dragged children changed")
		}
		sibs := f.Siblings(dragged)
		if i := slices.Index(sibs, target); i < 0 || i+1 >= len(sibs) || sibs[i+1] != dragged {
			t.Fatal("dragged node does not follow the drop target")
		}
		if f.Len() != total {
			t.Fatalf("node count changed: %d -> %d", total, f.Len())
		}
	})
}
