package layout

import (
	"fmt"
	"math"

	apperr "github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// Mode identifies the strategy that produced a [Layout].
type Mode string

const (
	ModeFlow   Mode = "flow"
	ModeRadial Mode = "radial"
)

// ErrDetached is returned when a visible node has no measurable position,
// typically because the surface has not caught up with a mutation yet.
var ErrDetached = apperr.New(apperr.ErrCodeDetached, "layout surface detached")

// Layout is the result of one layout pass. Positions are only meaningful for
// the Mode that computed them.
type Layout struct {
	Mode      Mode
	Positions map[string]Box  // by node ID, visible nodes only
	Spans     map[string]Span // radial only
	Width     float64
	Height    float64
}

func newLayout(mode Mode) Layout {
	return Layout{
		Mode:      mode,
		Positions: make(map[string]Box),
		Spans:     make(map[string]Span),
	}
}

// Position returns the box assigned to the node with the given ID.
func (l Layout) Position(id string) (Box, bool) {
	b, ok := l.Positions[id]
	return b, ok
}

// Empty reports whether the pass positioned nothing.
func (l Layout) Empty() bool { return len(l.Positions) == 0 }

// Strategy computes positions for every visible node of a forest.
type Strategy interface {
	Layout(f *tree.Forest) (Layout, error)
}

// StrategyFunc adapts a function to [Strategy].
type StrategyFunc func(f *tree.Forest) (Layout, error)

// Layout calls fn(f).
func (fn StrategyFunc) Layout(f *tree.Forest) (Layout, error) { return fn(f) }

// Measurer reports the untransformed label box of a node as placed by a
// rendering surface. ok is false when the node is not on the surface.
type Measurer interface {
	Measure(n *tree.Node) (b Box, ok bool)
}

// Reflower is implemented by measurers that must settle the surface before
// positions can be read.
type Reflower interface {
	Reflow(f *tree.Forest)
}

// extent grows the frame of l to cover every box, never below minSize.
func (l *Layout) extent(minSize float64) {
	w, h := 0.0, 0.0
	for _, b := range l.Positions {
		w = math.Max(w, b.Right())
		h = math.Max(h, b.Bottom())
	}
	l.Width = math.Max(math.Ceil(w), minSize)
	l.Height = math.Max(math.Ceil(h), minSize)
}

func detached(n *tree.Node) error {
	return fmt.Errorf("%w: node %s (%q) not measured", ErrDetached, n.ID, n.Text)
}
