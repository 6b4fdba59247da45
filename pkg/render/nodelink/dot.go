package nodelink

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// Options configures node-link diagram generation.
type Options struct {
	// ShowFolded includes nodes hidden by collapsed ancestors.
	ShowFolded bool
	// Direction is the Graphviz rankdir. Empty means "LR".
	Direction string
}

// graphAttrs are written once at the top of every graph.
var graphAttrs = []string{
	`bgcolor="transparent"`,
	`node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14, margin="0.2,0.1"]`,
	`edge [color="#888888", arrowsize=0.6]`,
	`ranksep=0.5`,
	`nodesep=0.3`,
}

// ToDOT writes f as a Graphviz digraph, one DOT node per map node named by
// its ID, one edge per parent link. Folded subtrees are left out unless
// opts.ShowFolded is set.
func ToDOT(f *tree.Forest, opts Options) string {
	var b strings.Builder
	b.WriteString("digraph G {\n")
	fmt.Fprintf(&b, "  rankdir=%s;\n", cmp.Or(opts.Direction, "LR"))
	for _, a := range graphAttrs {
		fmt.Fprintf(&b, "  %s;\n", a)
	}

	walk := f.WalkVisible
	if opts.ShowFolded {
		walk = f.Walk
	}
	walk(func(n *tree.Node, _ int) bool {
		fmt.Fprintf(&b, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n), ", "))
		if p := n.Parent(); p != nil {
			fmt.Fprintf(&b, "  %q -> %q;\n", p.ID, n.ID)
		}
		return true
	})
	b.WriteString("}\n")
	return b.String()
}

func nodeAttrs(n *tree.Node) []string {
	attrs := []string{"label=" + strconv.Quote(n.Text)}
	if n.Collapsed && n.HasChildren() {
		attrs = append(attrs, `style="rounded,filled,dashed"`)
	}
	if n.Color != "" {
		attrs = append(attrs, "fontcolor="+strconv.Quote(n.Color))
	}
	return attrs
}

// RenderSVG lays out dot with the embedded Graphviz and returns the SVG with
// a pixel-sized header.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse dot: %w", err)
	}
	defer g.Close()

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("start graphviz: %w", err)
	}
	defer gv.Close()

	var out bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &out); err != nil {
		return nil, fmt.Errorf("graphviz svg: %w", err)
	}
	return normalizeViewBox(out.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one
// whose viewBox starts at the origin and whose size is in pixels.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, errW := strconv.ParseFloat(string(match[3]), 64)
	h, errH := strconv.ParseFloat(string(match[4]), 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF converts the Graphviz SVG of dot to PDF.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG converts the Graphviz SVG of dot to PNG at scale.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
