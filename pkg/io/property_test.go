package io

import (
	"testing"

	"github.com/matzehuels/mindmap/pkg/tree"
	"pgregory.net/rapid"
)

func genRoots(t *rapid.T, text *rapid.Generator[string], attrs bool) []*tree.Node {
	count := rapid.IntRange(0, 30).Draw(t, "nodes")
	var roots, all []*tree.Node
	for i := 0; i < count; i++ {
		n := &tree.Node{Text: text.Draw(t, "text")}
		if attrs {
			n.Color = rapid.SampledFrom([]string{"", "red", "#00ff00"}).Draw(t, "color")
			n.Collapsed = rapid.Bool().Draw(t, "collapsed")
		}
		if len(all) == 0 || rapid.Bool().Draw(t, "root") {
			roots = append(roots, n)
		} else {
			p := all[rapid.IntRange(0, len(all)-1).Draw(t, "parent")]
			p.Children = append(p.Children, n)
		}
		all = append(all, n)
	}
	return roots
}

func TestPropertyJSONRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := tree.New(genRoots(t, rapid.String(), true)...)
		data, err := EncodeJSON(Document{Roots: f.Roots()})
		if err != nil {
			t.Fatal(err)
		}
		doc, err := DecodeJSON(data)
		if err != nil {
			t.Fatal(err)
		}
		if !tree.Equal(f, tree.New(doc.Roots...)) {
			t.Fatal("JSON round trip is not structurally equal")
		}
	})
}

func TestPropertyMarkdownRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		label := rapid.StringMatching(`[A-Za-z0-9]([A-Za-z0-9 ]{0,8}[A-Za-z0-9])?`)
		f := tree.New(genRoots(t, label, false)...)
		back := tree.New(ParseMarkdown(Markdown(f.Roots()))...)
		if !tree.Equal(f, back) {
			t.Fatalf("markdown round trip changed the forest:\n%s", Markdown(f.Roots()))
		}
	})
}
