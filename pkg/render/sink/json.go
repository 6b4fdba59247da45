package sink

import (
	json "github.com/goccy/go-json"

	"github.com/matzehuels/mindmap/pkg/tree"
	"github.com/matzehuels/mindmap/pkg/view"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	indent bool
	hidden bool
}

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// WithJSONHidden also lists nodes hidden by folds, without positions.
func WithJSONHidden() JSONOption { return func(r *jsonRenderer) { r.hidden = true } }

type jsonOutput struct {
	Mode       string          `json:"mode"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Transform  jsonTransform   `json:"transform"`
	Selection  string          `json:"selection,omitempty"`
	Nodes      []jsonNode      `json:"nodes"`
	Connectors []jsonConnector `json:"connectors"`
}

type jsonTransform struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

type jsonNode struct {
	ID        string   `json:"id"`
	Parent    string   `json:"parent,omitempty"`
	Label     string   `json:"label"`
	Color     string   `json:"color,omitempty"`
	Depth     int      `json:"depth"`
	Collapsed bool     `json:"collapsed,omitempty"`
	Hidden    bool     `json:"hidden,omitempty"`
	Box       *jsonBox `json:"box,omitempty"`
}

type jsonBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonConnector struct {
	From   string       `json:"from"`
	To     string       `json:"to"`
	Points [][2]float64 `json:"points"`
}

// RenderJSON exports the frame's geometry. Nodes are listed in outline
// order; connectors in the order they were built.
func RenderJSON(fr view.Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	l, conns := geometry(fr)
	out := jsonOutput{
		Mode:   fr.Mode.String(),
		Width:  l.Width,
		Height: l.Height,
		Transform: jsonTransform{
			Scale:   fr.Transform.Scale,
			OffsetX: fr.Transform.OffsetX,
			OffsetY: fr.Transform.OffsetY,
		},
		Selection:  fr.Selection,
		Nodes:      []jsonNode{},
		Connectors: make([]jsonConnector, 0, len(conns)),
	}

	if fr.Forest != nil {
		visit := fr.Forest.WalkVisible
		if r.hidden {
			visit = fr.Forest.Walk
		}
		visit(func(n *tree.Node, depth int) bool {
			jn := jsonNode{
				ID:        n.ID,
				Label:     n.Text,
				Color:     n.Color,
				Depth:     depth,
				Collapsed: n.Collapsed,
			}
			if p := n.Parent(); p != nil {
				jn.Parent = p.ID
			}
			if b, ok := l.Position(n.ID); ok {
				jn.Box = &jsonBox{X: b.X, Y: b.Y, Width: b.W, Height: b.H}
			} else {
				jn.Hidden = !isVisible(n)
			}
			out.Nodes = append(out.Nodes, jn)
			return true
		})
	}

	for _, c := range conns {
		jc := jsonConnector{From: c.From, To: c.To, Points: make([][2]float64, len(c.Points))}
		for i, p := range c.Points {
			jc.Points[i] = [2]float64{p.X, p.Y}
		}
		out.Connectors = append(out.Connectors, jc)
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

func isVisible(n *tree.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Collapsed {
			return false
		}
	}
	return true
}
