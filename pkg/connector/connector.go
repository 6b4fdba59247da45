// Package connector derives the parent/child connector geometry of a laid
// out forest.
//
// Every connector is a four point orthogonal elbow: horizontal out of the
// parent anchor, vertical along the column halfway between both anchors,
// horizontal into the child anchor. In flow layouts anchors sit just
// outside the label edges; in radial layouts they are the node centers.
//
// The set is rebuilt from scratch on every pass and ordered by a pre-order
// walk over parents, then by child order.
package connector

import (
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// DefaultGap is the distance between a label edge and a flow anchor.
const DefaultGap = 6

// Connector links a parent to one of its visible children.
type Connector struct {
	From   string // parent node ID
	To     string // child node ID
	Points [4]layout.Point
}

// Start returns the parent-side anchor.
func (c Connector) Start() layout.Point { return c.Points[0] }

// End returns the child-side anchor.
func (c Connector) End() layout.Point { return c.Points[3] }

// Option configures [Build].
type Option func(*builder)

// WithGap sets the flow anchor gap.
func WithGap(g float64) Option { return func(b *builder) { b.gap = g } }

type builder struct {
	gap float64
}

// Build returns one connector per visible parent/child pair whose endpoints
// both have a position in l. Collapsed parents produce nothing.
func Build(f *tree.Forest, l layout.Layout, opts ...Option) []Connector {
	b := builder{gap: DefaultGap}
	for _, opt := range opts {
		opt(&b)
	}

	var out []Connector
	f.WalkVisible(func(parent *tree.Node, _ int) bool {
		kids := tree.VisibleChildren(parent)
		if len(kids) == 0 {
			return true
		}
		pb, ok := l.Position(parent.ID)
		if !ok {
			return true
		}
		for _, child := range kids {
			cb, ok := l.Position(child.ID)
			if !ok {
				continue
			}
			from, to := b.anchors(l.Mode, pb, cb)
			out = append(out, Connector{
				From:   parent.ID,
				To:     child.ID,
				Points: Elbow(from, to),
			})
		}
		return true
	})
	return out
}

func (b builder) anchors(mode layout.Mode, parent, child layout.Box) (from, to layout.Point) {
	if mode == layout.ModeRadial {
		return parent.Center(), child.Center()
	}
	from = layout.Point{X: parent.Right() + b.gap, Y: parent.CenterY()}
	to = layout.Point{X: child.X - b.gap, Y: child.CenterY()}
	return from, to
}

// Elbow returns the two-bend path from a to b with the vertical segment on
// the column halfway between them.
func Elbow(a, b layout.Point) [4]layout.Point {
	mx := (a.X + b.X) / 2
	return [4]layout.Point{
		a,
		{X: mx, Y: a.Y},
		{X: mx, Y: b.Y},
		b,
	}
}

// Touching returns the connectors with id at either end.
func Touching(cs []Connector, id string) []Connector {
	var out []Connector
	for _, c := range cs {
		if c.From == id || c.To == id {
			out = append(out, c)
		}
	}
	return out
}
