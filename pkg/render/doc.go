// Package render turns laid-out mind-map frames into output files.
//
// # Overview
//
// Rendering is split into small packages:
//
//   - [styles]: how a single node, label and connector is drawn in SVG
//   - [sink]: whole-frame renderers (SVG, JSON, PNG, PDF, terminal text)
//   - [nodelink]: Graphviz node-link export of the forest (DOT and SVG)
//
// This package itself holds the format conversion shared by all of them.
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// from librsvg:
//
//	svg := sink.RenderSVG(frame)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// When rsvg-convert is not installed both return an error with code
// UNSUPPORTED.
//
// [styles]: github.com/matzehuels/mindmap/pkg/render/styles
// [sink]: github.com/matzehuels/mindmap/pkg/render/sink
// [nodelink]: github.com/matzehuels/mindmap/pkg/render/nodelink
package render
