package io

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperr "github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/tree"
)

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"map.json", FormatJSON},
		{"MAP.JSON", FormatJSON},
		{"notes.md", FormatMarkdown},
		{"notes.txt", FormatMarkdown},
		{"noext", FormatMarkdown},
	}
	for _, tt := range tests {
		if got := FormatForPath(tt.path); got != tt.want {
			t.Errorf("FormatForPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "MD": FormatMarkdown, "markdown": FormatMarkdown} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("yaml"); !apperr.Is(err, apperr.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormat(yaml) error = %v", err)
	}
}

func TestExportName(t *testing.T) {
	tests := []struct {
		name  string
		roots []*tree.Node
		want  string
	}{
		{"first root", []*tree.Node{{Text: " Roadmap "}, {Text: "other"}}, "Roadmap.md"},
		{"empty forest", nil, "mindmap.md"},
		{"blank label", []*tree.Node{{Text: "   "}}, "mindmap.md"},
		{"separators replaced", []*tree.Node{{Text: "a/b"}}, "a-b.md"},
		{"overlong label", []*tree.Node{{Text: strings.Repeat("x", 600)}}, "mindmap.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExportName(tree.New(tt.roots...)); got != tt.want {
				t.Errorf("ExportName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	a := &tree.Node{Text: "A", Color: "blue", Children: []*tree.Node{{Text: "B"}}}
	f := tree.New(a)
	doc := Document{ViewMode: ViewRadial, Roots: f.Roots()}

	jsonPath := filepath.Join(dir, "map.json")
	if err := WriteFile(jsonPath, doc); err != nil {
		t.Fatalf("WriteFile(json) error = %v", err)
	}
	got, err := ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("ReadFile(json) error = %v", err)
	}
	if !tree.Equal(f, tree.New(got.Roots...)) || got.ViewMode != ViewRadial {
		t.Error("json file round trip lost data")
	}

	mdPath := filepath.Join(dir, "map.md")
	if err := WriteFile(mdPath, doc); err != nil {
		t.Fatalf("WriteFile(md) error = %v", err)
	}
	data, _ := os.ReadFile(mdPath)
	if string(data) != "- A\n  - B\n" {
		t.Errorf("markdown file = %q", data)
	}
	got, err = ReadFile(mdPath)
	if err != nil {
		t.Fatalf("ReadFile(md) error = %v", err)
	}
	if outline(got.Roots) != "A(B)" || got.ViewMode != "" {
		t.Errorf("markdown file read = %q mode %q", outline(got.Roots), got.ViewMode)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.json"))
	if !apperr.Is(err, apperr.ErrCodeNotFound) {
		t.Errorf("ReadFile() error = %v, want NOT_FOUND", err)
	}
}
