package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/mindmap/pkg/render/styles"
	"github.com/matzehuels/mindmap/pkg/view"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style     styles.Style
	transform bool
	selection bool
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithTransform() SVGOption           { return func(r *svgRenderer) { r.transform = true } }

// WithSelection highlights the frame's selected node.
func WithSelection() SVGOption { return func(r *svgRenderer) { r.selection = true } }

// RenderSVG renders fr as a standalone SVG document. Connectors are drawn
// first so that labels stay on top.
func RenderSVG(fr view.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{style: styles.Simple{}}
	for _, opt := range opts {
		opt(&r)
	}

	l, conns := geometry(fr)
	w, h := l.Width, l.Height
	if r.transform {
		t := fr.Transform
		w, h = w*t.Scale+t.OffsetX, h*t.Scale+t.OffsetY
	}
	w, h = max(w, 1), max(h, 1)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" data-mode="%s">`+"\n",
		w, h, w, h, fr.Mode)
	r.style.RenderDefs(&buf)

	if r.transform {
		t := fr.Transform
		fmt.Fprintf(&buf, `  <g transform="translate(%g %g) scale(%g)">`+"\n", t.OffsetX, t.OffsetY, t.Scale)
	}

	for _, c := range conns {
		r.style.RenderConnector(&buf, styles.Connector{FromID: c.From, ToID: c.To, Points: c.Points[:]})
	}

	nodes := make([]styles.Node, 0, len(l.Positions))
	for _, v := range visibleNodes(fr.Forest) {
		b, ok := l.Position(v.node.ID)
		if !ok {
			continue
		}
		nodes = append(nodes, styles.Node{
			ID:       v.node.ID,
			Label:    v.node.Text,
			Color:    v.node.Color,
			X:        b.X,
			Y:        b.Y,
			W:        b.W,
			H:        b.H,
			CX:       b.CenterX(),
			CY:       b.CenterY(),
			Selected: r.selection && v.node.ID == fr.Selection,
			Folded:   v.node.Collapsed && v.node.HasChildren(),
		})
	}
	for _, n := range nodes {
		r.style.RenderNode(&buf, n)
	}
	for _, n := range nodes {
		r.style.RenderText(&buf, n)
	}

	if r.transform {
		buf.WriteString("  </g>\n")
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
