// Package styles draws single mind-map elements as SVG fragments.
//
// A [Style] receives one node or connector at a time and appends markup to a
// buffer; [sink.RenderSVG] decides order and framing. Two styles ship:
//
//   - [Simple]: rounded label boxes and grey polyline connectors
//   - [Bare]: labels and connectors only, no boxes
//
// [sink.RenderSVG]: github.com/matzehuels/mindmap/pkg/render/sink.RenderSVG
package styles

import (
	"bytes"

	apperr "github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/layout"
)

// Style defines the visual appearance of a rendered frame.
type Style interface {
	// RenderDefs writes SVG <defs> and <style> content.
	RenderDefs(buf *bytes.Buffer)
	// RenderNode writes the shape behind a node label.
	RenderNode(buf *bytes.Buffer, n Node)
	// RenderConnector writes one parent-child connector.
	RenderConnector(buf *bytes.Buffer, c Connector)
	// RenderText writes a node's label.
	RenderText(buf *bytes.Buffer, n Node)
}

// Node contains all data needed to render a single node.
type Node struct {
	ID         string  // Node identifier
	Label      string  // Display text
	Color      string  // Label color, "" for the theme default
	X, Y, W, H float64 // Label box
	CX, CY     float64 // Center coordinates (for text)
	FontSize   float64
	Selected   bool
	Folded     bool // collapsed with hidden children
}

// Connector contains the polyline of one parent-child connector.
type Connector struct {
	FromID, ToID string
	Points       []layout.Point
}

// Style names accepted by [Parse].
const (
	NameSimple = "simple"
	NameBare   = "bare"
)

// Parse returns the style registered under name.
func Parse(name string) (Style, error) {
	switch name {
	case "", NameSimple:
		return Simple{}, nil
	case NameBare:
		return Bare{}, nil
	}
	return nil, apperr.New(apperr.ErrCodeInvalidInput, "unknown style %q (want simple or bare)", name)
}
