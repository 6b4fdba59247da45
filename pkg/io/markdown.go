package io

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/matzehuels/mindmap/pkg/tree"
)

var bulletRegex = regexp.MustCompile(`^(\s*)[-*]\s+(.*)$`)

// ParseMarkdown builds a forest from a bulleted outline. Depth is the
// number of leading whitespace characters divided by two; a line indented
// no deeper than the current parent closes that parent.
func ParseMarkdown(text string) []*tree.Node {
	type frame struct {
		children *[]*tree.Node
		indent   float64
	}
	var roots []*tree.Node
	stack := []frame{{children: &roots, indent: -1}}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := bulletRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		indent := float64(len(m[1])) / 2

		for indent <= stack[len(stack)-1].indent {
			stack = stack[:len(stack)-1]
		}
		n := tree.NewNode(m[2])
		top := stack[len(stack)-1]
		*top.children = append(*top.children, n)
		stack = append(stack, frame{children: &n.Children, indent: indent})
	}
	return roots
}

// ReadMarkdown parses an outline from r into a document without view
// state. ReadMarkdown does not close r.
func ReadMarkdown(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read: %w", err)
	}
	return Document{Version: Version, Roots: ParseMarkdown(string(data))}, nil
}

// WriteMarkdown writes every node of roots, folded ones included, as an
// indented bullet list.
func WriteMarkdown(w io.Writer, roots []*tree.Node) error {
	bw := bufio.NewWriter(w)
	var write func(nodes []*tree.Node, depth int)
	write = func(nodes []*tree.Node, depth int) {
		for _, n := range nodes {
			bw.WriteString(strings.Repeat("  ", depth))
			bw.WriteString("- ")
			bw.WriteString(strings.TrimSpace(n.Text))
			bw.WriteByte('\n')
			write(n.Children, depth+1)
		}
	}
	write(roots, 0)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Markdown returns the outline text of roots.
func Markdown(roots []*tree.Node) string {
	var sb strings.Builder
	_ = WriteMarkdown(&sb, roots)
	return sb.String()
}
