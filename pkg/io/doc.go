// Package io reads and writes mind-map documents.
//
// # JSON document
//
// The JSON form carries the whole editing session:
//
//	{
//	  "version": 1,
//	  "viewMode": "normal",
//	  "scale": 1, "offsetX": 0, "offsetY": 0,
//	  "tree": [
//	    {"text": "Project", "color": "", "collapsed": false, "children": [...]}
//	  ]
//	}
//
// Decoding is lenient per field: a node whose text is not a string becomes
// "Node", a non-string color is dropped, collapsed follows truthiness, and a
// non-array children field means no children. An unknown viewMode becomes
// "normal". Non-numeric scale and offsets are reported as absent so the
// caller keeps its current transform. Only syntactically invalid JSON is an
// error, in which case nothing is returned.
//
// # Markdown outline
//
// One bullet per node, two spaces of indent per depth level:
//
//	roots := io.ParseMarkdown("- Project\n  - Design\n  - Build\n")
//
// Lines that are blank or do not look like a bullet are skipped. Color and
// fold state are not represented.
//
// # Files
//
// [ReadFile] picks the codec by extension: ".json" is a JSON document,
// anything else is parsed as a Markdown outline. [ExportName] derives the
// download name of a Markdown export from the first node.
package io
