package view

import (
	"math"
	"testing"

	"github.com/matzehuels/mindmap/pkg/layout"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestZoom(t *testing.T) {
	tr := Identity().ZoomIn()
	if !approx(tr.Scale, 1.1) {
		t.Errorf("ZoomIn scale = %v, want 1.1", tr.Scale)
	}
	tr = tr.ZoomOut()
	if !approx(tr.Scale, 1) {
		t.Errorf("ZoomIn then ZoomOut = %v, want 1", tr.Scale)
	}
	tr = Identity().ZoomOut().ZoomOut()
	if !approx(tr.Scale, 1/1.21) {
		t.Errorf("two ZoomOuts = %v", tr.Scale)
	}
}

func TestZoomBounds(t *testing.T) {
	tr := Identity()
	for range 200 {
		tr = tr.ZoomIn()
	}
	if tr.Scale != MaxScale {
		t.Errorf("scale after 200 ZoomIns = %v, want %v", tr.Scale, MaxScale)
	}
	for range 400 {
		tr = tr.ZoomOut()
	}
	if tr.Scale != MinScale {
		t.Errorf("scale after 400 ZoomOuts = %v, want %v", tr.Scale, MinScale)
	}
}

func TestClampScale(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{2, 2},
		{200, MaxScale},
		{0.001, MinScale},
		{0, 1},
		{-3, 1},
		{math.NaN(), 1},
		{math.Inf(1), MaxScale},
	}
	for _, tt := range tests {
		if got := ClampScale(tt.in); got != tt.want {
			t.Errorf("ClampScale(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPan(t *testing.T) {
	tests := []struct {
		dir    Direction
		dx, dy float64
	}{
		{PanLeft, 50, 0},
		{PanRight, -50, 0},
		{PanUp, 0, 50},
		{PanDown, 0, -50},
	}
	for _, tt := range tests {
		tr := Identity().Pan(tt.dir)
		if tr.OffsetX != tt.dx || tr.OffsetY != tt.dy {
			t.Errorf("Pan(%d) = (%v, %v), want (%v, %v)", tt.dir, tr.OffsetX, tr.OffsetY, tt.dx, tt.dy)
		}
		if tr.Scale != 1 {
			t.Errorf("Pan changed scale to %v", tr.Scale)
		}
	}
}

func TestApply(t *testing.T) {
	tr := Transform{Scale: 2, OffsetX: 10, OffsetY: -5}
	got := tr.Apply(layout.Point{X: 3, Y: 4})
	if got.X != 16 || got.Y != 3 {
		t.Errorf("Apply = %+v, want {16 3}", got)
	}
	if p := Identity().Apply(layout.Point{X: 7, Y: 9}); p.X != 7 || p.Y != 9 {
		t.Errorf("identity moved the point: %+v", p)
	}
}

func TestCSS(t *testing.T) {
	tr := Transform{Scale: 1.5, OffsetX: 50, OffsetY: -50}
	if got, want := tr.CSS(), "translate(50px, -50px) scale(1.5)"; got != want {
		t.Errorf("CSS() = %q, want %q", got, want)
	}
}
