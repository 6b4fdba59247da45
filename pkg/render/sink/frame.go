package sink

import (
	"github.com/matzehuels/mindmap/pkg/connector"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/tree"
	"github.com/matzehuels/mindmap/pkg/view"
)

// visible is a node in pre-order together with its depth.
type visible struct {
	node  *tree.Node
	depth int
}

func visibleNodes(f *tree.Forest) []visible {
	if f == nil {
		return nil
	}
	var out []visible
	f.WalkVisible(func(n *tree.Node, depth int) bool {
		out = append(out, visible{n, depth})
		return true
	})
	return out
}

// geometry returns what to draw for fr. Plain frames are laid out as an
// outline without connectors.
func geometry(fr view.Frame) (layout.Layout, []connector.Connector) {
	if fr.Mode != view.Plain || fr.Forest == nil {
		return fr.Layout, fr.Connectors
	}
	l, err := layout.NewFlow(nil).Layout(fr.Forest)
	if err != nil {
		return layout.Layout{Mode: layout.ModeFlow}, nil
	}
	return l, nil
}
