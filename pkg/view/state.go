package view

import (
	"github.com/matzehuels/mindmap/pkg/connector"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// State is everything about a session that is not the forest itself.
// Node references are IDs so that a state survives reloads of equal trees.
type State struct {
	Selection  string // selected node ID, "" for none
	DragSource string // node ID picked up by StartDrag, "" when idle
	Mode       Mode
	Transform  Transform
}

// Frame is what a surface draws after a frame boundary.
type Frame struct {
	Forest     *tree.Forest
	Mode       Mode
	Layout     layout.Layout // empty in Plain mode
	Connectors []connector.Connector
	Transform  Transform
	Selection  string
	// Stale is set when the last pass could not measure every node. Layout
	// and Connectors then come from the previous pass of the same mode.
	Stale bool
}
