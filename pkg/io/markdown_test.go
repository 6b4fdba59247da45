package io

import (
	"strings"
	"testing"

	"github.com/matzehuels/mindmap/pkg/tree"
)

// outline renders roots as "text(children...)" for compact comparison.
func outline(nodes []*tree.Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.Text
		if len(n.Children) > 0 {
			parts[i] += "(" + outline(n.Children) + ")"
		}
	}
	return strings.Join(parts, " ")
}

func TestParseMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "flat",
			in:   "- a\n- b\n",
			want: "a b",
		},
		{
			name: "nested",
			in:   "- a\n  - b\n    - c\n  - d\n- e\n",
			want: "a(b(c) d) e",
		},
		{
			name: "star bullets",
			in:   "* a\n  * b\n",
			want: "a(b)",
		},
		{
			name: "blank and malformed lines skipped",
			in:   "# Title\n\n- a\nplain text\n  - b\n-nospace\n",
			want: "a(b)",
		},
		{
			name: "jump back several levels",
			in:   "- a\n  - b\n    - c\n      - d\n- e\n",
			want: "a(b(c(d))) e",
		},
		{
			name: "odd indent nests under previous",
			in:   "- a\n   - b\n - c\n",
			want: "a(b c)",
		},
		{
			name: "deeper jump attaches to last node",
			in:   "- a\n      - b\n  - c\n",
			want: "a(b c)",
		},
		{
			name: "windows line endings",
			in:   "- a\r\n  - b\r\n",
			want: "a(b)",
		},
		{
			name: "empty label",
			in:   "- \n- b\n",
			want: " b",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outline(ParseMarkdown(tt.in)); got != tt.want {
				t.Errorf("ParseMarkdown() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseMarkdownDefaults(t *testing.T) {
	roots := ParseMarkdown("- a\n  - b\n")
	a := roots[0]
	if a.Color != "" || a.Collapsed {
		t.Errorf("parsed node should have default attributes: %+v", a)
	}
	if a.ID == "" || a.Children[0].ID == a.ID {
		t.Error("parsed nodes need distinct IDs")
	}
}

func TestWriteMarkdown(t *testing.T) {
	hidden := &tree.Node{Text: "hidden"}
	b := &tree.Node{Text: "  B  ", Collapsed: true, Children: []*tree.Node{hidden}}
	a := &tree.Node{Text: "A", Children: []*tree.Node{b, {Text: "C"}}}

	want := "- A\n  - B\n    - hidden\n  - C\n- D\n"
	if got := Markdown([]*tree.Node{a, {Text: "D"}}); got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}
}

func TestReadMarkdownHasNoViewState(t *testing.T) {
	doc, err := ReadMarkdown(strings.NewReader("- a\n"))
	if err != nil {
		t.Fatalf("ReadMarkdown() error = %v", err)
	}
	if doc.ViewMode != "" || doc.Scale != nil {
		t.Errorf("markdown should not carry view state: %+v", doc)
	}
	if len(doc.Roots) != 1 {
		t.Errorf("roots = %d", len(doc.Roots))
	}
}
