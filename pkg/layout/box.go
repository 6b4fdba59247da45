package layout

// Box is the untransformed label rectangle of a node. X and Y address the
// top-left corner; Y grows downwards.
type Box struct {
	X, Y float64
	W, H float64
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.W }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.H }

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 { return b.X + b.W/2 }

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 { return b.Y + b.H/2 }

// Center returns the center point of the box.
func (b Box) Center() Point { return Point{X: b.CenterX(), Y: b.CenterY()} }

// Translate returns b shifted by (dx, dy).
func (b Box) Translate(dx, dy float64) Box {
	b.X += dx
	b.Y += dy
	return b
}

// centeredBox returns a w×h box whose center is (cx, cy).
func centeredBox(cx, cy, w, h float64) Box {
	return Box{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// Point is a position in surface units.
type Point struct {
	X, Y float64
}

// Span is the angular interval [Start, End) assigned to a node by the radial
// strategy, in radians.
type Span struct {
	Start, End float64
}

// Width returns the angular size of the span.
func (s Span) Width() float64 { return s.End - s.Start }

// Mid returns the angle at the middle of the span.
func (s Span) Mid() float64 { return (s.Start + s.End) / 2 }
