package view

import (
	"fmt"

	"github.com/matzehuels/mindmap/pkg/layout"
)

// Zoom and pan steps.
const (
	ZoomStep = 1.1
	PanStep  = 50
)

// Zoom bounds. Scales outside them are clamped.
const (
	MinScale = 0.1
	MaxScale = 8.0
)

// ClampScale bounds s to [MinScale, MaxScale]. A non-positive or NaN s
// yields 1.
func ClampScale(s float64) float64 {
	if !(s > 0) {
		return 1
	}
	return min(max(s, MinScale), MaxScale)
}

// Direction is a pan direction.
type Direction int

const (
	PanLeft Direction = iota
	PanRight
	PanUp
	PanDown
)

// Transform is the zoom/pan applied to the whole frame. Positions are
// always computed untransformed; Apply maps them to the screen.
type Transform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Identity returns the transform that leaves positions unchanged.
func Identity() Transform { return Transform{Scale: 1} }

// ZoomIn scales up by one step, up to MaxScale.
func (t Transform) ZoomIn() Transform {
	t.Scale = ClampScale(t.Scale * ZoomStep)
	return t
}

// ZoomOut scales down by one step, down to MinScale.
func (t Transform) ZoomOut() Transform {
	t.Scale = ClampScale(t.Scale / ZoomStep)
	return t
}

// Pan moves the view one step. Panning left shifts the content right.
func (t Transform) Pan(d Direction) Transform {
	switch d {
	case PanLeft:
		t.OffsetX += PanStep
	case PanRight:
		t.OffsetX -= PanStep
	case PanUp:
		t.OffsetY += PanStep
	case PanDown:
		t.OffsetY -= PanStep
	}
	return t
}

// Apply maps an untransformed point to screen coordinates: scale about the
// origin, then translate.
func (t Transform) Apply(p layout.Point) layout.Point {
	return layout.Point{
		X: p.X*t.Scale + t.OffsetX,
		Y: p.Y*t.Scale + t.OffsetY,
	}
}

// CSS returns the transform in CSS notation.
func (t Transform) CSS() string {
	return fmt.Sprintf("translate(%gpx, %gpx) scale(%g)", t.OffsetX, t.OffsetY, t.Scale)
}
