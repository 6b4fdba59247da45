// Package nodelink renders a mind-map forest as a Graphviz node-link
// diagram.
//
// # Overview
//
// Where the sinks draw a frame exactly as the editor lays it out, this
// package hands the forest to Graphviz and lets dot pick positions. Nodes
// appear as rounded boxes connected by arrows from parent to child.
//
// # Usage
//
// Convert a forest to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(f, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0) // 2x scale
//
// # Options
//
//   - ShowFolded: also emit nodes hidden by collapsed ancestors
//   - Direction: Graphviz rankdir (default "LR", like the outline)
//
// Collapsed nodes with children are drawn dashed. Node colors become the
// font color.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
