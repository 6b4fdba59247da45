package io

import (
	"bytes"
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	apperr "github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// Version is the document version written by [WriteJSON].
const Version = 1

// DefaultImportText replaces node text that is missing or not a string.
const DefaultImportText = "Node"

// View modes as stored in documents.
const (
	ViewNormal = "normal"
	ViewPlain  = "plain"
	ViewRadial = "radial"
)

// NormalizeViewMode maps anything that is not a known view mode to
// [ViewNormal].
func NormalizeViewMode(s string) string {
	switch s {
	case ViewNormal, ViewPlain, ViewRadial:
		return s
	}
	return ViewNormal
}

// Document is a decoded mind-map session. Pointer fields are nil when the
// source did not carry a usable value. An empty ViewMode means the source
// had no view state at all (Markdown).
type Document struct {
	Version  int
	ViewMode string
	Scale    *float64
	OffsetX  *float64
	OffsetY  *float64
	Roots    []*tree.Node
}

// Float returns a pointer to v, for building documents.
func Float(v float64) *float64 { return &v }

type wireDoc struct {
	Version  int        `json:"version"`
	ViewMode string     `json:"viewMode"`
	Scale    float64    `json:"scale"`
	OffsetX  float64    `json:"offsetX"`
	OffsetY  float64    `json:"offsetY"`
	Tree     []wireNode `json:"tree"`
}

type wireNode struct {
	Text      string     `json:"text"`
	Color     string     `json:"color"`
	Collapsed bool       `json:"collapsed"`
	Children  []wireNode `json:"children"`
}

type rawDoc struct {
	ViewMode json.RawMessage `json:"viewMode"`
	Scale    json.RawMessage `json:"scale"`
	OffsetX  json.RawMessage `json:"offsetX"`
	OffsetY  json.RawMessage `json:"offsetY"`
	Tree     json.RawMessage `json:"tree"`
}

type rawNode struct {
	Text      json.RawMessage `json:"text"`
	Color     json.RawMessage `json:"color"`
	Collapsed json.RawMessage `json:"collapsed"`
	Children  json.RawMessage `json:"children"`
}

// DecodeJSON decodes a JSON document. It fails only on invalid JSON.
func DecodeJSON(data []byte) (Document, error) {
	if !json.Valid(data) {
		var v any
		err := json.Unmarshal(data, &v)
		return Document{}, apperr.Wrap(apperr.ErrCodeInvalidJSON, err, "invalid JSON document")
	}

	doc := Document{Version: Version, ViewMode: ViewNormal}
	var raw rawDoc
	if json.Unmarshal(data, &raw) != nil {
		// Valid JSON that is not an object: an empty session.
		return doc, nil
	}

	if s, ok := asString(raw.ViewMode); ok {
		doc.ViewMode = NormalizeViewMode(s)
	}
	doc.Scale = asNumber(raw.Scale)
	doc.OffsetX = asNumber(raw.OffsetX)
	doc.OffsetY = asNumber(raw.OffsetY)

	var items []json.RawMessage
	if isArray(raw.Tree) && json.Unmarshal(raw.Tree, &items) == nil {
		doc.Roots = decodeNodes(items)
	}
	return doc, nil
}

// ReadJSON decodes a JSON document from r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read: %w", err)
	}
	return DecodeJSON(data)
}

func decodeNodes(items []json.RawMessage) []*tree.Node {
	nodes := make([]*tree.Node, 0, len(items))
	for _, item := range items {
		nodes = append(nodes, decodeNode(item))
	}
	return nodes
}

func decodeNode(data json.RawMessage) *tree.Node {
	var raw rawNode
	if isObject(data) {
		_ = json.Unmarshal(data, &raw)
	}

	n := tree.NewNode(DefaultImportText)
	if s, ok := asString(raw.Text); ok {
		n.Text = s
	}
	if s, ok := asString(raw.Color); ok {
		n.Color = s
	}
	n.Collapsed = truthy(raw.Collapsed)

	var kids []json.RawMessage
	if isArray(raw.Children) && json.Unmarshal(raw.Children, &kids) == nil {
		n.Children = decodeNodes(kids)
	}
	return n
}

func firstByte(raw json.RawMessage) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}

func isObject(raw json.RawMessage) bool { return firstByte(raw) == '{' }
func isArray(raw json.RawMessage) bool  { return firstByte(raw) == '[' }

func asString(raw json.RawMessage) (string, bool) {
	if firstByte(raw) != '"' {
		return "", false
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return "", false
	}
	return s, true
}

func asNumber(raw json.RawMessage) *float64 {
	c := firstByte(raw)
	if c != '-' && (c < '0' || c > '9') {
		return nil
	}
	var v float64
	if json.Unmarshal(raw, &v) != nil {
		return nil
	}
	return &v
}

// truthy follows the loose boolean reading of the stored flag: false, 0,
// "", null and a missing field are false; everything else is true.
func truthy(raw json.RawMessage) bool {
	if len(bytes.TrimSpace(raw)) == 0 {
		return false
	}
	var v any
	if json.Unmarshal(raw, &v) != nil {
		return false
	}
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}

// EncodeJSON encodes doc as an indented JSON document. Missing transform
// values are written as identity (scale 1, offsets 0).
func EncodeJSON(doc Document) ([]byte, error) {
	out := wireDoc{
		Version:  Version,
		ViewMode: NormalizeViewMode(doc.ViewMode),
		Scale:    1,
		Tree:     encodeNodes(doc.Roots),
	}
	if doc.Scale != nil {
		out.Scale = *doc.Scale
	}
	if doc.OffsetX != nil {
		out.OffsetX = *doc.OffsetX
	}
	if doc.OffsetY != nil {
		out.OffsetY = *doc.OffsetY
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "encode document")
	}
	return data, nil
}

// WriteJSON encodes doc and writes it to w.
func WriteJSON(w io.Writer, doc Document) error {
	data, err := EncodeJSON(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func encodeNodes(nodes []*tree.Node) []wireNode {
	out := make([]wireNode, len(nodes))
	for i, n := range nodes {
		out[i] = wireNode{
			Text:      n.Text,
			Color:     n.Color,
			Collapsed: n.Collapsed,
			Children:  encodeNodes(n.Children),
		}
	}
	return out
}
