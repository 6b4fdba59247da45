package io

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperr "github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// Format names a document codec.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts "json", "md" and "markdown".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return "", apperr.New(apperr.ErrCodeInvalidFormat, "unknown document format %q (want json or markdown)", s)
}

// FormatForPath returns FormatJSON for a ".json" extension and
// FormatMarkdown for anything else.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatMarkdown
}

// Decode decodes data in the given format.
func Decode(format Format, data []byte) (Document, error) {
	if format == FormatJSON {
		return DecodeJSON(data)
	}
	return ReadMarkdown(bytes.NewReader(data))
}

// Encode encodes doc in the given format.
func Encode(format Format, doc Document) ([]byte, error) {
	if format == FormatJSON {
		return EncodeJSON(doc)
	}
	return []byte(Markdown(doc.Roots)), nil
}

// ReadFile loads the document at path, choosing the codec by extension.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, apperr.Wrap(apperr.ErrCodeNotFound, err, "open %s", path)
		}
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	return Decode(FormatForPath(path), data)
}

// WriteFile stores doc at path, choosing the codec by extension.
func WriteFile(path string, doc Document) error {
	data, err := Encode(FormatForPath(path), doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// DefaultExportName is used when the forest has no usable first label.
const DefaultExportName = "mindmap"

// ExportName returns the Markdown download name for f: the trimmed text of
// the first node plus ".md". Labels that do not make a usable relative file
// name fall back to DefaultExportName.
func ExportName(f *tree.Forest) string {
	name := ""
	if first := f.First(); first != nil {
		name = strings.TrimSpace(first.Text)
	}
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == 0 {
			return '-'
		}
		return r
	}, name)
	if name == "" || apperr.ValidatePath(name+".md") != nil {
		name = DefaultExportName
	}
	return name + ".md"
}
