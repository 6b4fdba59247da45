// Package sink renders whole mind-map frames.
//
// # Overview
//
// A "sink" transforms a [view.Frame] into a final output format:
//
//   - SVG: label boxes, labels and #888 polyline connectors
//   - JSON: positions and connector points for external tools
//   - PDF and PNG: the SVG converted by rsvg-convert
//   - Text: the frame rasterized onto a character grid for terminals
//
// Plain frames carry no geometry. Sinks draw them as an indented list of
// labels without connectors.
//
// # SVG Output
//
//	svg := sink.RenderSVG(frame,
//	    sink.WithStyle(styles.Bare{}),
//	    sink.WithTransform(),
//	)
//
// [WithTransform] wraps the content in a group carrying the frame's
// zoom/pan; without it the SVG shows untransformed positions.
//
// # PDF and PNG Output
//
//	pdf, err := sink.RenderPDF(ctx, frame, opts...)
//	png, err := sink.RenderPNG(ctx, frame, sink.WithScale(2), opts...)
//
// Both require librsvg (see [render.ToPDF]).
//
// [view.Frame]: github.com/matzehuels/mindmap/pkg/view.Frame
// [render.ToPDF]: github.com/matzehuels/mindmap/pkg/render.ToPDF
package sink
