package layout

import "github.com/matzehuels/mindmap/pkg/tree"

// Flow lays nodes out as an indented outline. It does not compute positions
// itself; it reads them from its [Measurer].
type Flow struct {
	Measurer Measurer
	// MinSize is the smallest frame edge.
	MinSize float64
}

// NewFlow returns a flow strategy reading positions from m. A nil m uses an
// [IndentMeasurer] with default metrics.
func NewFlow(m Measurer) *Flow {
	if m == nil {
		m = NewIndentMeasurer(DefaultMetrics())
	}
	return &Flow{Measurer: m, MinSize: 10}
}

// Layout measures every visible node. If any of them cannot be measured the
// pass is abandoned and nothing is returned.
func (fl *Flow) Layout(f *tree.Forest) (Layout, error) {
	l := newLayout(ModeFlow)
	if f.Empty() {
		l.extent(fl.MinSize)
		return l, nil
	}
	if r, ok := fl.Measurer.(Reflower); ok {
		r.Reflow(f)
	}

	var missing *tree.Node
	f.WalkVisible(func(n *tree.Node, _ int) bool {
		if missing != nil {
			return false
		}
		b, ok := fl.Measurer.Measure(n)
		if !ok {
			missing = n
			return false
		}
		l.Positions[n.ID] = b
		return true
	})
	if missing != nil {
		return Layout{Mode: ModeFlow}, detached(missing)
	}
	l.extent(fl.MinSize)
	return l, nil
}

// IndentMeasurer simulates a flow surface: one row per visible node, each
// row indented one step further than its parent's. It records every node's
// offset relative to its parent and resolves absolute positions by walking
// the parent chain, so a node added after the last Reflow is not measurable.
type IndentMeasurer struct {
	Metrics Metrics
	Indent  float64 // horizontal step per depth level
	RowGap  float64 // vertical space between rows
	Margin  float64 // offset of the first root from the container

	offsets map[*tree.Node]Box
}

// NewIndentMeasurer returns a measurer with the default indent.
func NewIndentMeasurer(m Metrics) *IndentMeasurer {
	return &IndentMeasurer{
		Metrics: m.orDefault(),
		Indent:  40,
		RowGap:  6,
		Margin:  10,
	}
}

// Reflow places every visible node of f.
func (im *IndentMeasurer) Reflow(f *tree.Forest) {
	im.offsets = make(map[*tree.Node]Box)
	abs := make(map[*tree.Node]Box)
	pitch := im.Metrics.LineHeight + im.RowGap
	row := 0
	f.WalkVisible(func(n *tree.Node, depth int) bool {
		w, h := im.Metrics.LabelSize(n.Text)
		b := Box{
			X: im.Margin + float64(depth)*im.Indent,
			Y: im.Margin + float64(row)*pitch,
			W: w,
			H: h,
		}
		abs[n] = b
		if p := n.Parent(); p != nil {
			pb := abs[p]
			b = b.Translate(-pb.X, -pb.Y)
		}
		im.offsets[n] = b
		row++
		return true
	})
}

// Measure resolves the absolute box of n by summing offsets up its
// ancestor chain.
func (im *IndentMeasurer) Measure(n *tree.Node) (Box, bool) {
	b, ok := im.offsets[n]
	if !ok {
		return Box{}, false
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		pb, ok := im.offsets[p]
		if !ok {
			return Box{}, false
		}
		b = b.Translate(pb.X, pb.Y)
	}
	return b, true
}

var (
	_ Measurer = (*IndentMeasurer)(nil)
	_ Reflower = (*IndentMeasurer)(nil)
	_ Strategy = (*Flow)(nil)
)
