package layout

import (
	"math"

	"github.com/matzehuels/mindmap/pkg/tree"
)

// Default radial parameters.
const (
	DefaultRingSpacing = 160
	DefaultCenter      = 1200
	DefaultOrigin      = -math.Pi
	DefaultRadialSize  = 2400
)

// Radial places nodes on concentric rings around (CenterX, CenterY).
type Radial struct {
	Metrics     Metrics
	RingSpacing float64
	CenterX     float64
	CenterY     float64
	// Origin is the angle at which the first root's span starts.
	Origin float64
	// MinSize is the smallest frame edge.
	MinSize float64
}

// RadialOption configures a [Radial] strategy.
type RadialOption func(*Radial)

// WithRingSpacing sets the radius step between depth levels.
func WithRingSpacing(d float64) RadialOption { return func(r *Radial) { r.RingSpacing = d } }

// WithCenter moves the ring center.
func WithCenter(x, y float64) RadialOption {
	return func(r *Radial) { r.CenterX, r.CenterY = x, y }
}

// WithMetrics sets the label metrics.
func WithMetrics(m Metrics) RadialOption { return func(r *Radial) { r.Metrics = m.orDefault() } }

// WithOrigin sets the start angle of the first root.
func WithOrigin(theta float64) RadialOption { return func(r *Radial) { r.Origin = theta } }

// NewRadial returns a radial strategy with the default 2400×2400 workspace.
func NewRadial(opts ...RadialOption) *Radial {
	r := &Radial{
		Metrics:     DefaultMetrics(),
		RingSpacing: DefaultRingSpacing,
		CenterX:     DefaultCenter,
		CenterY:     DefaultCenter,
		Origin:      DefaultOrigin,
		MinSize:     DefaultRadialSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Layout assigns every visible node a span and a position. Roots share the
// full circle by leaf count; the total is floored at 1 so an empty forest
// never divides by zero.
func (r *Radial) Layout(f *tree.Forest) (Layout, error) {
	l := newLayout(ModeRadial)
	roots := f.Roots()

	total := 0
	for _, root := range roots {
		total += tree.LeafCount(root)
	}
	total = max(total, 1)

	start := r.Origin
	for _, root := range roots {
		span := 2 * math.Pi * float64(tree.LeafCount(root)) / float64(total)
		r.place(&l, root, 0, Span{Start: start, End: start + span})
		start += span
	}
	l.extent(r.MinSize)
	return l, nil
}

func (r *Radial) place(l *Layout, n *tree.Node, depth int, s Span) {
	theta := s.Mid()
	radius := float64(depth) * r.RingSpacing
	w, h := r.Metrics.LabelSize(n.Text)
	l.Positions[n.ID] = centeredBox(
		r.CenterX+radius*math.Cos(theta),
		r.CenterY+radius*math.Sin(theta),
		w, h,
	)
	l.Spans[n.ID] = s

	kids := tree.VisibleChildren(n)
	if len(kids) == 0 {
		return
	}
	weight := float64(tree.LeafCount(n))
	at := s.Start
	for i, k := range kids {
		end := at + s.Width()*float64(tree.LeafCount(k))/weight
		if i == len(kids)-1 {
			end = s.End
		}
		r.place(l, k, depth+1, Span{Start: at, End: end})
		at = end
	}
}

var _ Strategy = (*Radial)(nil)
