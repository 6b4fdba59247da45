package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/mindmap/pkg/tree"
)

func forest() (*tree.Forest, *tree.Node, *tree.Node) {
	hidden := tree.NewNode("hidden")
	folded := tree.NewNode("Folded")
	folded.Children = []*tree.Node{hidden}
	folded.Collapsed = true
	root := tree.NewNode("Root")
	root.Color = "tomato"
	root.Children = []*tree.Node{tree.NewNode("Child"), folded}
	return tree.New(root), root, hidden
}

func TestToDOT(t *testing.T) {
	f, root, hidden := forest()
	dot := ToDOT(f, Options{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=LR;",
		`label="Root"`,
		`fontcolor="tomato"`,
		`style="rounded,filled,dashed"`,
		`"` + root.ID + `" -> "`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, hidden.ID) {
		t.Error("hidden node emitted without ShowFolded")
	}
	if got := strings.Count(dot, "->"); got != 2 {
		t.Errorf("edges = %d, want 2", got)
	}
}

func TestToDOTOptions(t *testing.T) {
	f, _, hidden := forest()
	dot := ToDOT(f, Options{ShowFolded: true, Direction: "TB"})
	if !strings.Contains(dot, "rankdir=TB;") {
		t.Error("direction ignored")
	}
	if !strings.Contains(dot, hidden.ID) || strings.Count(dot, "->") != 3 {
		t.Error("ShowFolded should emit the hidden subtree")
	}
}

func TestToDOTQuotesLabels(t *testing.T) {
	n := tree.NewNode(`say "hi"`)
	dot := ToDOT(tree.New(n), Options{})
	if !strings.Contains(dot, `label="say \"hi\""`) {
		t.Errorf("label not quoted:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("header not normalized: %s", out)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Error("svg without viewBox should pass through")
	}
}

func TestRenderSVG(t *testing.T) {
	f, _, _ := forest()
	svg, err := RenderSVG(context.Background(), ToDOT(f, Options{}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "<svg") || !strings.Contains(string(svg), "Root") {
		t.Error("graphviz output missing content")
	}
}
