package sink

import (
	"context"

	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/view"
)

// RenderPDF renders the frame as PDF via SVG conversion.
func RenderPDF(ctx context.Context, fr view.Frame, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(fr, opts...))
}
