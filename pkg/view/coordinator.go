package view

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindmap/pkg/connector"
	apperr "github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/io"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/observability"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// Coordinator owns a forest and its session state.
type Coordinator struct {
	forest *tree.Forest
	state  State

	flow    layout.Strategy
	radial  layout.Strategy
	gap     float64
	newText string

	saver  Notifier
	logger *log.Logger

	dirty bool
	frame Frame
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for load and storage diagnostics.
func WithLogger(l *log.Logger) Option { return func(c *Coordinator) { c.logger = l } }

// WithSaver sets the notifier told about every change.
func WithSaver(n Notifier) Option { return func(c *Coordinator) { c.saver = n } }

// WithFlow replaces the outline layout strategy.
func WithFlow(s layout.Strategy) Option { return func(c *Coordinator) { c.flow = s } }

// WithRadial replaces the radial layout strategy.
func WithRadial(s layout.Strategy) Option { return func(c *Coordinator) { c.radial = s } }

// WithConnectorGap sets the flow connector gap.
func WithConnectorGap(g float64) Option { return func(c *Coordinator) { c.gap = g } }

// WithDefaultText sets the label of inserted nodes.
func WithDefaultText(s string) Option { return func(c *Coordinator) { c.newText = s } }

// WithMode sets the initial mode.
func WithMode(m Mode) Option { return func(c *Coordinator) { c.state.Mode = m } }

type noopNotifier struct{}

func (noopNotifier) Notify() {}

// New creates a coordinator for f. A nil f starts with an empty forest.
// The first root is selected and the first frame is pending.
func New(f *tree.Forest, opts ...Option) *Coordinator {
	if f == nil {
		f = tree.New()
	}
	c := &Coordinator{
		forest:  f,
		state:   State{Mode: Outline, Transform: Identity()},
		gap:     connector.DefaultGap,
		newText: tree.DefaultText,
		saver:   noopNotifier{},
		dirty:   true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.flow == nil {
		c.flow = layout.NewFlow(nil)
	}
	if c.radial == nil {
		c.radial = layout.NewRadial()
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	c.selectFirst()
	return c
}

// Forest returns the edited forest.
func (c *Coordinator) Forest() *tree.Forest { return c.forest }

// State returns a copy of the session state.
func (c *Coordinator) State() State { return c.state }

// Mode returns the active mode.
func (c *Coordinator) Mode() Mode { return c.state.Mode }

// Transform returns the zoom/pan transform.
func (c *Coordinator) Transform() Transform { return c.state.Transform }

// Dirty reports whether the next Flush will run a pass.
func (c *Coordinator) Dirty() bool { return c.dirty }

// RequestRedraw marks the frame dirty. Nothing is computed until Flush.
func (c *Coordinator) RequestRedraw() { c.dirty = true }

// changed is the tail of every operation: redraw, then schedule a save.
func (c *Coordinator) changed() {
	c.RequestRedraw()
	c.saver.Notify()
}

// --- selection -------------------------------------------------------------

// Current returns the node operations act on: the selection if it still
// resolves, else the first root. Nil for an empty forest.
func (c *Coordinator) Current() *tree.Node {
	if n, ok := c.forest.Find(c.state.Selection); ok {
		return n
	}
	return c.forest.First()
}

// Select selects the node with the given ID.
func (c *Coordinator) Select(id string) bool {
	if _, ok := c.forest.Find(id); !ok {
		return false
	}
	if c.state.Selection != id {
		c.state.Selection = id
		c.RequestRedraw()
	}
	return true
}

func (c *Coordinator) selectNode(n *tree.Node) {
	if n == nil {
		c.state.Selection = ""
		return
	}
	c.state.Selection = n.ID
}

func (c *Coordinator) selectFirst() { c.selectNode(c.forest.First()) }

// SelectNext moves the selection to the next visible node in outline
// order. SelectPrev moves it to the previous one.
func (c *Coordinator) SelectNext() bool { return c.selectVisible(+1) }

// SelectPrev moves the selection to the previous visible node.
func (c *Coordinator) SelectPrev() bool { return c.selectVisible(-1) }

func (c *Coordinator) selectVisible(dir int) bool {
	var order []*tree.Node
	c.forest.WalkVisible(func(n *tree.Node, _ int) bool {
		order = append(order, n)
		return true
	})
	cur := c.Current()
	for i, n := range order {
		if n != cur {
			continue
		}
		j := i + dir
		if j < 0 || j >= len(order) {
			return false
		}
		return c.Select(order[j].ID)
	}
	return false
}

// --- mutations -------------------------------------------------------------

// AddRoot appends a root and selects it.
func (c *Coordinator) AddRoot() *tree.Node {
	n := c.forest.AddRoot(c.newText)
	c.selectNode(n)
	c.changed()
	return n
}

// InsertChild appends a child to the current node and selects it.
func (c *Coordinator) InsertChild() *tree.Node {
	n := c.forest.InsertChild(c.Current(), c.newText)
	if n == nil {
		return nil
	}
	c.selectNode(n)
	c.changed()
	return n
}

// InsertSibling inserts a node right after the current node and selects it.
func (c *Coordinator) InsertSibling() *tree.Node {
	n := c.forest.InsertSibling(c.Current(), c.newText)
	if n == nil {
		return nil
	}
	c.selectNode(n)
	c.changed()
	return n
}

// MoveUp swaps the current node with its previous sibling.
func (c *Coordinator) MoveUp() bool { return c.move(c.forest.MoveUp) }

// MoveDown swaps the current node with its next sibling.
func (c *Coordinator) MoveDown() bool { return c.move(c.forest.MoveDown) }

func (c *Coordinator) move(op func(*tree.Node) bool) bool {
	n := c.Current()
	if !op(n) {
		return false
	}
	c.selectNode(n)
	c.changed()
	return true
}

// ToggleFold folds or unfolds the current node. With recursive set the new
// state is forced onto every descendant.
func (c *Coordinator) ToggleFold(recursive bool) bool {
	n := c.Current()
	if !c.forest.ToggleFold(n, recursive) {
		return false
	}
	c.selectNode(n)
	c.changed()
	return true
}

// StartDrag picks up the node with the given ID and selects it.
func (c *Coordinator) StartDrag(id string) bool {
	if !c.Select(id) {
		return false
	}
	c.state.DragSource = id
	return true
}

// CancelDrag drops nothing.
func (c *Coordinator) CancelDrag() { c.state.DragSource = "" }

// Dragging reports whether a drag is in progress.
func (c *Coordinator) Dragging() bool { return c.state.DragSource != "" }

// Drop moves the dragged node right after the node with targetID. Invalid
// drops (onto itself, into its own subtree, unknown IDs, no drag) are
// silent no-ops. The drag ends either way.
func (c *Coordinator) Drop(targetID string) bool {
	dragged, ok := c.forest.Find(c.state.DragSource)
	c.state.DragSource = ""
	if !ok {
		return false
	}
	target, ok := c.forest.Find(targetID)
	if !ok || !c.forest.Reparent(dragged, target) {
		return false
	}
	c.selectNode(dragged)
	c.changed()
	return true
}

// SetText replaces the current node's label.
func (c *Coordinator) SetText(text string) (bool, error) {
	if err := apperr.ValidateNodeText(text); err != nil {
		return false, err
	}
	if !c.forest.SetText(c.Current(), text) {
		return false, nil
	}
	c.changed()
	return true, nil
}

// SetColor replaces the current node's color. "" restores the default.
func (c *Coordinator) SetColor(color string) (bool, error) {
	if err := apperr.ValidateColor(color); err != nil {
		return false, err
	}
	if !c.forest.SetColor(c.Current(), color) {
		return false, nil
	}
	c.changed()
	return true, nil
}

// Delete removes the current node and its subtree and selects the nearest
// remaining node.
func (c *Coordinator) Delete() bool {
	next, ok := c.forest.Delete(c.Current())
	if !ok {
		return false
	}
	c.selectNode(next)
	c.changed()
	return true
}

// --- view ------------------------------------------------------------------

// CycleMode advances Outline → Plain → Radial → Outline.
func (c *Coordinator) CycleMode() Mode {
	c.SetMode(c.state.Mode.Next())
	return c.state.Mode
}

// SetMode switches the active mode. Positions from the previous mode are
// discarded.
func (c *Coordinator) SetMode(m Mode) {
	if m == c.state.Mode {
		return
	}
	c.state.Mode = m
	c.frame = Frame{}
	c.changed()
}

// ZoomIn scales the view up by one step.
func (c *Coordinator) ZoomIn() { c.setTransform(c.state.Transform.ZoomIn()) }

// ZoomOut scales the view down by one step.
func (c *Coordinator) ZoomOut() { c.setTransform(c.state.Transform.ZoomOut()) }

// Pan moves the view one step in direction d.
func (c *Coordinator) Pan(d Direction) { c.setTransform(c.state.Transform.Pan(d)) }

// ResetView restores the identity transform.
func (c *Coordinator) ResetView() { c.setTransform(Identity()) }

func (c *Coordinator) setTransform(t Transform) {
	c.state.Transform = t
	c.changed()
}

// --- frames ----------------------------------------------------------------

// Flush is the frame boundary. If anything changed since the last frame it
// runs one layout pass for the active mode and rebuilds the connectors.
func (c *Coordinator) Flush() Frame {
	if !c.dirty {
		return c.currentFrame(c.frame.Stale)
	}

	if c.state.Mode == Plain {
		c.frame = Frame{}
		c.dirty = false
		return c.currentFrame(false)
	}

	strategy, mode := c.flow, layout.ModeFlow
	if c.state.Mode == Radial {
		strategy, mode = c.radial, layout.ModeRadial
	}

	ctx := context.Background()
	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, string(mode), c.forest.Len())
	l, err := strategy.Layout(c.forest)
	observability.Layout().OnLayoutComplete(ctx, string(mode), len(l.Positions), time.Since(start), err)

	if err != nil {
		if !errors.Is(err, layout.ErrDetached) {
			c.logger.Error("layout failed", "mode", c.state.Mode, "err", err)
		} else {
			c.logger.Debug("layout skipped", "mode", c.state.Mode, "err", err)
		}
		return c.currentFrame(true)
	}

	c.frame.Layout = l
	c.frame.Connectors = connector.Build(c.forest, l, connector.WithGap(c.gap))
	c.dirty = false
	return c.currentFrame(false)
}

func (c *Coordinator) currentFrame(stale bool) Frame {
	c.frame.Forest = c.forest
	c.frame.Mode = c.state.Mode
	c.frame.Transform = c.state.Transform
	c.frame.Selection = c.state.Selection
	c.frame.Stale = stale
	return c.frame
}

// --- documents -------------------------------------------------------------

// Snapshot returns the session as a document. The roots are a deep copy, so
// the document can be encoded after the caller releases the coordinator.
func (c *Coordinator) Snapshot() io.Document {
	t := c.state.Transform
	return io.Document{
		Version:  io.Version,
		ViewMode: c.state.Mode.String(),
		Scale:    io.Float(t.Scale),
		OffsetX:  io.Float(t.OffsetX),
		OffsetY:  io.Float(t.OffsetY),
		Roots:    c.forest.Clone().Roots(),
	}
}

// Load replaces the whole forest with doc. View state is applied only where
// the document carries it; a stored scale is clamped to the zoom bounds. The first node is selected, the frame redrawn
// and a save scheduled.
func (c *Coordinator) Load(doc io.Document) {
	c.forest.Replace(doc.Roots)
	if doc.ViewMode != "" {
		m, err := ParseMode(doc.ViewMode)
		if err != nil {
			m = Outline
		}
		if m != c.state.Mode {
			c.frame = Frame{}
		}
		c.state.Mode = m
	}
	if doc.Scale != nil {
		c.state.Transform.Scale = ClampScale(*doc.Scale)
	}
	if doc.OffsetX != nil {
		c.state.Transform.OffsetX = *doc.OffsetX
	}
	if doc.OffsetY != nil {
		c.state.Transform.OffsetY = *doc.OffsetY
	}
	c.state.DragSource = ""
	c.selectFirst()
	c.changed()
}

// LoadData decodes data and loads it. A decode failure is logged and leaves
// the session untouched.
func (c *Coordinator) LoadData(format io.Format, data []byte) error {
	doc, err := io.Decode(format, data)
	if err != nil {
		c.logger.Error("load failed, keeping current map", "format", format, "err", err)
		return err
	}
	c.Load(doc)
	return nil
}

// LoadFile loads the document at path, choosing the codec by extension.
func (c *Coordinator) LoadFile(path string) error {
	doc, err := io.ReadFile(path)
	if err != nil {
		c.logger.Error("load failed, keeping current map", "path", path, "err", err)
		return err
	}
	c.Load(doc)
	return nil
}

// ExportName returns the Markdown download name of the session.
func (c *Coordinator) ExportName() string { return io.ExportName(c.forest) }
