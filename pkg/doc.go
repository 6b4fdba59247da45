// Package pkg holds the libraries behind the mindmap editor.
//
// # Overview
//
// A mind map is a forest of labelled nodes. The same forest is shown in one
// of three view modes: an indented outline with elbow connectors, a plain
// text hierarchy, or a radial map with the roots in the middle. Editing
// happens through a view coordinator that owns the forest, the selection and
// the viewport, and hands surfaces a frame to draw after each change.
//
// # Architecture
//
// The data flow of an interactive session:
//
//	user intent (key, HTTP request)
//	         ↓
//	    [view] coordinator → [tree] mutation
//	         ↓
//	    [layout] flow or radial positions
//	         ↓
//	    [connector] elbow polylines
//	         ↓
//	    [render/sink] SVG, PNG, PDF, JSON, text
//
// Every change schedules a debounced save through [view.Persister] into a
// [storage] backend. Batch jobs skip the coordinator and go through
// [pipeline] instead: load a document, lay it out, render the artifacts.
//
// # Quick Start
//
// Lay out a small outline and draw it as SVG:
//
//	import (
//	    "github.com/matzehuels/mindmap/pkg/io"
//	    "github.com/matzehuels/mindmap/pkg/render/sink"
//	    "github.com/matzehuels/mindmap/pkg/tree"
//	    "github.com/matzehuels/mindmap/pkg/view"
//	)
//
//	roots := io.ParseMarkdown("- Trip\n  - Pack\n  - Book\n")
//	c := view.New(tree.New(roots...), view.WithMode(view.Radial))
//	c.InsertChild() // under the selected root
//	svg := sink.RenderSVG(c.Flush(), sink.WithSelection())
//
// # Main Packages
//
// ## Model
//
// [tree] - Nodes, the forest and its structural edits. Edits on unknown
// nodes are silent no-ops.
//
// [io] - The JSON document and the Markdown outline. Decoding is lenient:
// malformed nodes are skipped, not rejected.
//
// ## Geometry
//
// [layout] - The flow (outline) and radial strategies. Flow positions come
// from a [layout.Measurer]; radial positions are computed from leaf counts.
//
// [connector] - Parent-to-child elbow polylines derived from a layout.
//
// ## Session
//
// [view] - The coordinator: selection, drag and drop, modes, zoom and pan,
// frame boundaries, debounced saving.
//
// [storage] - Snapshot stores: file, SQLite, Redis, MongoDB and a null store.
//
// ## Output
//
// [render/sink] - Frame renderers. [render/nodelink] draws the tree through
// Graphviz. [render/styles] holds the SVG themes. [render] converts SVG to
// PDF and PNG.
//
// [pipeline] - load → layout → render with a content-addressed artifact
// cache, shared by the CLI and the HTTP server.
//
// [server] - The HTTP API over one editing session.
//
// ## Support
//
// [config] - The TOML configuration file.
//
// [errors] - Error codes, validation and HTTP status mapping.
//
// [observability] - Hooks for layout, storage and HTTP events.
//
// [buildinfo] - Version information of the binary.
package pkg
