package io

import (
	"bytes"
	"strings"
	"testing"

	apperr "github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/tree"
)

func TestDecodeJSONDocument(t *testing.T) {
	data := `{
	  "version": 1,
	  "viewMode": "radial",
	  "scale": 1.21, "offsetX": -50, "offsetY": 100,
	  "tree": [
	    {"text": "Project", "color": "#c00", "collapsed": true, "children": [
	      {"text": "Design", "color": "", "collapsed": false, "children": []}
	    ]},
	    {"text": "Notes", "color": "", "collapsed": false, "children": []}
	  ]
	}`
	doc, err := DecodeJSON([]byte(data))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if doc.ViewMode != ViewRadial {
		t.Errorf("ViewMode = %q, want radial", doc.ViewMode)
	}
	if doc.Scale == nil || *doc.Scale != 1.21 {
		t.Errorf("Scale = %v", doc.Scale)
	}
	if doc.OffsetX == nil || *doc.OffsetX != -50 || doc.OffsetY == nil || *doc.OffsetY != 100 {
		t.Errorf("offsets = %v, %v", doc.OffsetX, doc.OffsetY)
	}
	if len(doc.Roots) != 2 {
		t.Fatalf("roots = %d, want 2", len(doc.Roots))
	}
	p := doc.Roots[0]
	if p.Text != "Project" || p.Color != "#c00" || !p.Collapsed || len(p.Children) != 1 {
		t.Errorf("first root = %+v", p)
	}
	if p.Children[0].Text != "Design" {
		t.Errorf("child text = %q", p.Children[0].Text)
	}
}

func TestDecodeJSONLenientFields(t *testing.T) {
	tests := []struct {
		name      string
		node      string
		text      string
		color     string
		collapsed bool
		children  int
	}{
		{"empty object", `{}`, DefaultImportText, "", false, 0},
		{"numeric text", `{"text": 42}`, DefaultImportText, "", false, 0},
		{"null text", `{"text": null}`, DefaultImportText, "", false, 0},
		{"empty text kept", `{"text": ""}`, "", "", false, 0},
		{"numeric color", `{"text": "a", "color": 7}`, "a", "", false, 0},
		{"truthy collapsed number", `{"collapsed": 1}`, DefaultImportText, "", true, 0},
		{"truthy collapsed string", `{"collapsed": "yes"}`, DefaultImportText, "", true, 0},
		{"falsy collapsed string", `{"collapsed": ""}`, DefaultImportText, "", false, 0},
		{"children not array", `{"children": {"text": "x"}}`, DefaultImportText, "", false, 0},
		{"non-object node", `"just text"`, DefaultImportText, "", false, 0},
		{"nested defaults", `{"children": [{}, 3]}`, DefaultImportText, "", false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := DecodeJSON([]byte(`{"tree": [` + tt.node + `]}`))
			if err != nil {
				t.Fatalf("DecodeJSON() error = %v", err)
			}
			if len(doc.Roots) != 1 {
				t.Fatalf("roots = %d, want 1", len(doc.Roots))
			}
			n := doc.Roots[0]
			if n.Text != tt.text || n.Color != tt.color || n.Collapsed != tt.collapsed || len(n.Children) != tt.children {
				t.Errorf("node = {%q %q %v %d}, want {%q %q %v %d}",
					n.Text, n.Color, n.Collapsed, len(n.Children),
					tt.text, tt.color, tt.collapsed, tt.children)
			}
		})
	}
}

func TestDecodeJSONViewState(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		mode  string
		scale bool
	}{
		{"missing everything", `{}`, ViewNormal, false},
		{"unknown mode", `{"viewMode": "tree"}`, ViewNormal, false},
		{"plain mode", `{"viewMode": "plain"}`, ViewPlain, false},
		{"non-string mode", `{"viewMode": 2}`, ViewNormal, false},
		{"string scale ignored", `{"scale": "2"}`, ViewNormal, false},
		{"numeric scale", `{"scale": 0.5}`, ViewNormal, true},
		{"top-level array", `[1, 2]`, ViewNormal, false},
		{"top-level null", `null`, ViewNormal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := DecodeJSON([]byte(tt.data))
			if err != nil {
				t.Fatalf("DecodeJSON() error = %v", err)
			}
			if doc.ViewMode != tt.mode {
				t.Errorf("ViewMode = %q, want %q", doc.ViewMode, tt.mode)
			}
			if (doc.Scale != nil) != tt.scale {
				t.Errorf("Scale present = %v, want %v", doc.Scale != nil, tt.scale)
			}
			if len(doc.Roots) != 0 {
				t.Errorf("roots = %d, want 0", len(doc.Roots))
			}
		})
	}
}

func TestDecodeJSONInvalid(t *testing.T) {
	for _, data := range []string{``, `{`, `{"tree": [}`, `not json`} {
		_, err := DecodeJSON([]byte(data))
		if !apperr.Is(err, apperr.ErrCodeInvalidJSON) {
			t.Errorf("DecodeJSON(%q) error = %v, want INVALID_JSON", data, err)
		}
	}
}

func TestEncodeJSON(t *testing.T) {
	root := tree.NewNode("Project")
	root.Children = []*tree.Node{tree.NewNode("Leaf")}
	doc := Document{ViewMode: "bogus", OffsetX: Float(12), Roots: []*tree.Node{root}}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, doc); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`"version": 1`,
		`"viewMode": "normal"`,
		`"scale": 1`,
		`"offsetX": 12`,
		`"offsetY": 0`,
		`"children": []`,
		`"text": "Leaf"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	b := &tree.Node{Text: "B", Color: "red", Collapsed: true, Children: []*tree.Node{{Text: "x"}}}
	a := &tree.Node{Text: "A", Children: []*tree.Node{b, {Text: "C"}}}
	f := tree.New(a, &tree.Node{Text: "D"})

	data, err := EncodeJSON(Document{ViewMode: ViewPlain, Scale: Float(1.1), Roots: f.Roots()})
	if err != nil {
		t.Fatalf("EncodeJSON() error = %v", err)
	}
	doc, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if !tree.Equal(f, tree.New(doc.Roots...)) {
		t.Error("round trip changed the forest")
	}
	if doc.ViewMode != ViewPlain || *doc.Scale != 1.1 {
		t.Errorf("view state = %q %v", doc.ViewMode, *doc.Scale)
	}
}
