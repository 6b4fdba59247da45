package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	mmio "github.com/matzehuels/mindmap/pkg/io"
	"github.com/matzehuels/mindmap/pkg/observability"
	"github.com/matzehuels/mindmap/pkg/render/nodelink"
	"github.com/matzehuels/mindmap/pkg/render/sink"
	"github.com/matzehuels/mindmap/pkg/render/styles"
	"github.com/matzehuels/mindmap/pkg/view"
)

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; the first failure cancels the rest.
func Render(ctx context.Context, fr view.Frame, opts Options) (artifacts map[string][]byte, err error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Layout().OnRenderStart(ctx, opts.Formats)
	defer func() {
		observability.Layout().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	svgOpts, err := buildSVGOptions(opts)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	artifacts = make(map[string][]byte, len(opts.Formats))
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(gctx, fr, format, svgOpts, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, fr view.Frame, format string, svgOpts []sink.SVGOption, opts Options) ([]byte, error) {
	if opts.Style == StyleNodeLink {
		if data, ok, err := renderNodeLink(ctx, fr, format, opts); ok {
			return data, err
		}
	}
	switch format {
	case FormatSVG:
		return sink.RenderSVG(fr, svgOpts...), nil
	case FormatPNG:
		return sink.RenderPNG(ctx, fr, sink.WithScale(opts.Scale), sink.WithPNGSVGOptions(svgOpts...))
	case FormatPDF:
		return sink.RenderPDF(ctx, fr, svgOpts...)
	case FormatJSON:
		var jsonOpts []sink.JSONOption
		if opts.ShowFolded {
			jsonOpts = append(jsonOpts, sink.WithJSONHidden())
		}
		return sink.RenderJSON(fr, append(jsonOpts, sink.WithJSONIndent())...)
	case FormatText:
		var textOpts []sink.TextOption
		if opts.Selection {
			textOpts = append(textOpts, sink.WithTextSelection())
		}
		return []byte(sink.RenderText(fr, textOpts...)), nil
	case FormatDOT:
		return []byte(toDOT(fr, opts)), nil
	case FormatMarkdown:
		return []byte(mmio.Markdown(fr.Forest.Roots())), nil
	}
	return nil, ValidateFormat(format)
}

// renderNodeLink draws the graphic formats through Graphviz. ok is false
// for formats it does not handle.
func renderNodeLink(ctx context.Context, fr view.Frame, format string, opts Options) (data []byte, ok bool, err error) {
	switch format {
	case FormatSVG:
		data, err = nodelink.RenderSVG(ctx, toDOT(fr, opts))
	case FormatPNG:
		data, err = nodelink.RenderPNG(ctx, toDOT(fr, opts), opts.Scale)
	case FormatPDF:
		data, err = nodelink.RenderPDF(ctx, toDOT(fr, opts))
	default:
		return nil, false, nil
	}
	return data, true, err
}

func toDOT(fr view.Frame, opts Options) string {
	return nodelink.ToDOT(fr.Forest, nodelink.Options{ShowFolded: opts.ShowFolded})
}

// buildSVGOptions builds SVG rendering options. The node-link style takes
// the frame theme's defaults.
func buildSVGOptions(opts Options) ([]sink.SVGOption, error) {
	name := opts.Style
	if name == StyleNodeLink {
		name = DefaultStyle
	}
	style, err := styles.Parse(name)
	if err != nil {
		return nil, err
	}
	svgOpts := []sink.SVGOption{sink.WithStyle(style)}
	if opts.Transform {
		svgOpts = append(svgOpts, sink.WithTransform())
	}
	if opts.Selection {
		svgOpts = append(svgOpts, sink.WithSelection())
	}
	return svgOpts, nil
}
