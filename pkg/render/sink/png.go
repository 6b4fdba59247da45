package sink

import (
	"context"

	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/view"
)

// PNGOption configures RenderPNG.
type PNGOption func(*pngRenderer)

const defaultPNGScale = 2.0

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
}

// WithPNGSVGOptions sets the options of the SVG pass the PNG is rasterized from.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the pixel density; 2 doubles the SVG dimensions.
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG rasterizes RenderSVG's output with rsvg-convert.
func RenderPNG(ctx context.Context, fr view.Frame, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: defaultPNGScale}
	for _, apply := range opts {
		apply(&r)
	}
	svg := RenderSVG(fr, r.svgOpts...)
	return render.ToPNG(ctx, svg, r.scale)
}
