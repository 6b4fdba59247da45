package styles

import (
	"bytes"
	"fmt"
)

// Connector stroke as drawn by every style.
const (
	ConnectorStroke = "#888"
	ConnectorWidth  = 1
)

const defaultTextColor = "#222"

// Simple draws each label inside a rounded white box.
type Simple struct{}

func (Simple) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <style>
    .node { fill: white; stroke: #333; stroke-width: 1; }
    .node.selected { stroke: #1e88e5; stroke-width: 2; }
    .node.folded { stroke-dasharray: 4 2; }
    .label { font-family: sans-serif; dominant-baseline: central; text-anchor: middle; }
  </style>
`)
}

func (Simple) RenderNode(buf *bytes.Buffer, n Node) {
	fmt.Fprintf(buf, `  <rect id="node-%s" class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="4" ry="4"/>`+"\n",
		EscapeXML(n.ID), nodeClass(n), n.X, n.Y, n.W, n.H)
}

func (Simple) RenderConnector(buf *bytes.Buffer, c Connector) { renderPolyline(buf, c) }

func (Simple) RenderText(buf *bytes.Buffer, n Node) { renderLabel(buf, n) }

// Bare draws labels without boxes. The selected label is underlined.
type Bare struct{}

func (Bare) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <style>
    .label { font-family: sans-serif; dominant-baseline: central; text-anchor: middle; }
    .label.selected { text-decoration: underline; }
  </style>
`)
}

func (Bare) RenderNode(*bytes.Buffer, Node) {}

func (Bare) RenderConnector(buf *bytes.Buffer, c Connector) { renderPolyline(buf, c) }

func (Bare) RenderText(buf *bytes.Buffer, n Node) { renderLabel(buf, n) }

func nodeClass(n Node) string {
	class := "node"
	if n.Selected {
		class += " selected"
	}
	if n.Folded {
		class += " folded"
	}
	return class
}

func renderPolyline(buf *bytes.Buffer, c Connector) {
	if len(c.Points) < 2 {
		return
	}
	var pts bytes.Buffer
	for i, p := range c.Points {
		if i > 0 {
			pts.WriteByte(' ')
		}
		fmt.Fprintf(&pts, "%.2f,%.2f", p.X, p.Y)
	}
	fmt.Fprintf(buf, `  <polyline class="connector" data-from="%s" data-to="%s" points="%s" fill="none" stroke="%s" stroke-width="%d" stroke-linejoin="round" stroke-linecap="round"/>`+"\n",
		EscapeXML(c.FromID), EscapeXML(c.ToID), pts.String(), ConnectorStroke, ConnectorWidth)
}

func renderLabel(buf *bytes.Buffer, n Node) {
	color := n.Color
	if color == "" {
		color = defaultTextColor
	}
	class := "label"
	if n.Selected {
		class += " selected"
	}
	size := n.FontSize
	if size <= 0 {
		size = FontSize(n.H)
	}
	fmt.Fprintf(buf, `  <text class="%s" data-node="%s" x="%.2f" y="%.2f" font-size="%.1f" fill="%s">%s</text>`+"\n",
		class, EscapeXML(n.ID), n.CX, n.CY, size, EscapeXML(color), EscapeXML(n.Label))
}
