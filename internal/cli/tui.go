package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	apperr "github.com/matzehuels/mindmap/pkg/errors"
	mmio "github.com/matzehuels/mindmap/pkg/io"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/render/sink"
	"github.com/matzehuels/mindmap/pkg/tree"
	"github.com/matzehuels/mindmap/pkg/view"
)

// Editor styles
var (
	editorSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	editorNodeStyle     = lipgloss.NewStyle().Foreground(colorText)
	editorDragStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorWarn)
	editorStatusStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	editorErrorStyle    = lipgloss.NewStyle().Foreground(colorFail)
)

// =============================================================================
// Key Bindings
// =============================================================================

type editorKeys struct {
	Up, Down              key.Binding
	Child, Sibling, Root  key.Binding
	Edit, Color           key.Binding
	Fold, FoldAll         key.Binding
	MoveUp, MoveDown      key.Binding
	Delete                key.Binding
	Drag, Drop            key.Binding
	Mode                  key.Binding
	ZoomIn, ZoomOut       key.Binding
	PanLeft, PanRight     key.Binding
	PanUp, PanDown, Reset key.Binding
	Export, Save          key.Binding
	Help, Quit            key.Binding
}

func defaultEditorKeys() editorKeys {
	b := func(desc string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], desc))
	}
	return editorKeys{
		Up:       b("previous", "up", "k"),
		Down:     b("next", "down", "j"),
		Child:    b("add child", "tab"),
		Sibling:  b("add sibling", "enter"),
		Root:     b("add root", "a"),
		Edit:     b("edit text", "e", "f2"),
		Color:    b("color", "c"),
		Fold:     b("fold", " "),
		FoldAll:  b("fold subtree", "z"),
		MoveUp:   b("move up", "K", "alt+up"),
		MoveDown: b("move down", "J", "alt+down"),
		Delete:   b("delete", "d", "delete"),
		Drag:     b("pick up", "x"),
		Drop:     b("drop after", "p"),
		Mode:     b("mode", "m"),
		ZoomIn:   b("zoom in", "+", "="),
		ZoomOut:  b("zoom out", "-"),
		PanLeft:  b("pan", "shift+left"),
		PanRight: b("pan", "shift+right"),
		PanUp:    b("pan", "shift+up"),
		PanDown:  b("pan", "shift+down"),
		Reset:    b("reset view", "0"),
		Export:   b("export md", "ctrl+e"),
		Save:     b("save", "ctrl+s"),
		Help:     b("help", "?"),
		Quit:     b("quit", "q", "ctrl+c"),
	}
}

// ShortHelp implements help.KeyMap.
func (k editorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Child, k.Sibling, k.Edit, k.Fold, k.Mode, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k editorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.MoveUp, k.MoveDown, k.Drag, k.Drop},
		{k.Child, k.Sibling, k.Root, k.Edit, k.Color, k.Delete},
		{k.Fold, k.FoldAll, k.Mode, k.ZoomIn, k.ZoomOut, k.Reset},
		{k.Export, k.Save, k.Help, k.Quit},
	}
}

// =============================================================================
// Messages
// =============================================================================

// runMsg carries a function onto the event loop. The save debouncer uses it
// so that saves never race with edits.
type runMsg struct{ fn func() }

// statusMsg replaces the status line.
type statusMsg struct {
	text string
	err  bool
}

// =============================================================================
// EditorModel
// =============================================================================

type inputTarget int

const (
	inputNone inputTarget = iota
	inputText
	inputColor
)

// EditorModel is the bubbletea model of "mindmap edit". It owns the
// coordinator; every mutation happens in Update.
type EditorModel struct {
	coord  *view.Coordinator
	frame  view.Frame
	keys   editorKeys
	help   help.Model
	input  textinput.Model
	target inputTarget

	hooks editorHooks

	width, height int
	status        statusMsg
}

// editorHooks connect the editor to persistence. Nil hooks are skipped.
type editorHooks struct {
	// Save writes the session now and describes where it went.
	Save func() (string, error)
	// Quit runs before the program exits.
	Quit func()
}

// NewEditorModel creates the editor for c.
func NewEditorModel(c *view.Coordinator, hooks editorHooks) EditorModel {
	in := textinput.New()
	in.CharLimit = 4096
	m := EditorModel{
		coord:  c,
		keys:   defaultEditorKeys(),
		help:   help.New(),
		input:  in,
		hooks:  hooks,
		width:  80,
		height: 24,
	}
	m.frame = c.Flush()
	return m
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
	case runMsg:
		msg.fn()
	case statusMsg:
		m.status = msg
	case tea.KeyMsg:
		if m.target != inputNone && msg.Type != tea.KeyCtrlC {
			cmd = m.updateInput(msg)
		} else {
			cmd = m.updateKeys(msg)
		}
	}
	if m.coord.Dirty() {
		m.frame = m.coord.Flush()
	}
	return m, cmd
}

func (m *EditorModel) updateKeys(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	c := m.coord
	m.status = statusMsg{}

	switch {
	case key.Matches(msg, k.Quit):
		if m.hooks.Quit != nil {
			m.hooks.Quit()
		}
		return tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.Up):
		c.SelectPrev()
	case key.Matches(msg, k.Down):
		c.SelectNext()
	case key.Matches(msg, k.Child):
		if c.InsertChild() == nil {
			c.AddRoot()
		}
	case key.Matches(msg, k.Sibling):
		if c.InsertSibling() == nil {
			c.AddRoot()
		}
	case key.Matches(msg, k.Root):
		c.AddRoot()
	case key.Matches(msg, k.Edit):
		return m.startInput(inputText)
	case key.Matches(msg, k.Color):
		return m.startInput(inputColor)
	case key.Matches(msg, k.Fold):
		c.ToggleFold(false)
	case key.Matches(msg, k.FoldAll):
		c.ToggleFold(true)
	case key.Matches(msg, k.MoveUp):
		c.MoveUp()
	case key.Matches(msg, k.MoveDown):
		c.MoveDown()
	case key.Matches(msg, k.Delete):
		c.Delete()
	case key.Matches(msg, k.Drag):
		if cur := c.Current(); cur != nil && c.StartDrag(cur.ID) {
			m.status = statusMsg{text: "moving " + cur.Text + ": select a node and press p, esc cancels"}
		}
	case key.Matches(msg, k.Drop):
		if cur := c.Current(); cur != nil && c.Dragging() {
			if !c.Drop(cur.ID) {
				m.status = statusMsg{text: "cannot drop there", err: true}
			}
		}
	case msg.Type == tea.KeyEsc:
		c.CancelDrag()
	case key.Matches(msg, k.Mode):
		mode := c.CycleMode()
		m.status = statusMsg{text: mode.Icon() + " " + mode.String()}
	case key.Matches(msg, k.ZoomIn):
		c.ZoomIn()
	case key.Matches(msg, k.ZoomOut):
		c.ZoomOut()
	case key.Matches(msg, k.PanLeft):
		c.Pan(view.PanLeft)
	case key.Matches(msg, k.PanRight):
		c.Pan(view.PanRight)
	case key.Matches(msg, k.PanUp):
		c.Pan(view.PanUp)
	case key.Matches(msg, k.PanDown):
		c.Pan(view.PanDown)
	case key.Matches(msg, k.Reset):
		c.ResetView()
	case key.Matches(msg, k.Save):
		if m.hooks.Save != nil {
			where, err := m.hooks.Save()
			if err != nil {
				m.status = statusMsg{text: apperr.UserMessage(err), err: true}
			} else {
				m.status = statusMsg{text: "saved to " + where}
			}
		}
	case key.Matches(msg, k.Export):
		return exportMarkdown(c)
	}
	return nil
}

func (m *EditorModel) startInput(t inputTarget) tea.Cmd {
	cur := m.coord.Current()
	if cur == nil {
		return nil
	}
	m.target = t
	if t == inputText {
		m.input.Prompt = "text: "
		m.input.Placeholder = ""
		m.input.SetValue(cur.Text)
	} else {
		m.input.Prompt = "color: "
		m.input.Placeholder = "#rrggbb or a name, empty for default"
		m.input.SetValue(cur.Color)
	}
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *EditorModel) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.endInput()
		return nil
	case tea.KeyEnter:
		var err error
		if m.target == inputText {
			_, err = m.coord.SetText(m.input.Value())
		} else {
			_, err = m.coord.SetColor(strings.TrimSpace(m.input.Value()))
		}
		if err != nil {
			m.status = statusMsg{text: apperr.UserMessage(err), err: true}
			return nil
		}
		m.endInput()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *EditorModel) endInput() {
	m.target = inputNone
	m.input.Blur()
	m.input.SetValue("")
}

// exportMarkdown writes the map as an outline named after its first node.
func exportMarkdown(c *view.Coordinator) tea.Cmd {
	doc := c.Snapshot()
	name := c.ExportName()
	return func() tea.Msg {
		if err := mmio.WriteFile(name, doc); err != nil {
			return statusMsg{text: err.Error(), err: true}
		}
		return statusMsg{text: "exported " + name}
	}
}

// =============================================================================
// View
// =============================================================================

func (m EditorModel) View() string {
	var b strings.Builder

	mode := m.coord.Mode()
	title := StyleTitle.Render("mindmap") + " " + StyleDim.Render(mode.Icon()+" "+mode.String())
	if m.coord.Dragging() {
		title += " " + editorDragStyle.Render("moving")
	}
	if m.frame.Stale {
		title += " " + editorErrorStyle.Render("stale layout")
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	footer := m.footer()
	bodyHeight := m.height - 3 - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	b.WriteString(m.body(bodyHeight))
	b.WriteString("\n")
	b.WriteString(footer)
	return b.String()
}

func (m EditorModel) footer() string {
	var lines []string
	if m.target != inputNone {
		lines = append(lines, m.input.View())
	}
	if m.status.text != "" {
		style := editorStatusStyle
		if m.status.err {
			style = editorErrorStyle
		}
		lines = append(lines, style.Render(m.status.text))
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

// body renders the frame into a height-line viewport.
func (m EditorModel) body(height int) string {
	if m.coord.Forest().Empty() {
		return StyleDim.Render("empty map: press a to add a node")
	}
	if m.frame.Mode == view.Plain {
		return m.outline(height)
	}
	t := m.frame.Transform
	cellW := sink.DefaultCellWidth / t.Scale
	cellH := float64(sink.DefaultFlowCellHeight)
	if m.frame.Mode == view.Radial {
		cellH = sink.DefaultRadialCellHeight
	}
	cellH /= t.Scale
	cols, rows := sink.GridSize(m.frame, cellW, cellH)

	// Keep the selection in view, then apply the pan.
	top, left := 0, 0
	if box, ok := m.frame.Layout.Position(m.frame.Selection); ok {
		top = int(box.CenterY()/cellH) - height/2
		left = int(box.X/cellW) - m.width/3
		if m.frame.Layout.Mode == layout.ModeRadial {
			left = int(box.CenterX()/cellW) - m.width/2
		}
	}
	top -= int(t.OffsetY / cellH)
	left -= int(t.OffsetX / cellW)
	top = clampInt(top, 0, max(rows-height, 0))
	left = clampInt(left, 0, max(cols-m.width, 0))

	canvas := sink.RenderText(m.frame,
		sink.WithCellSize(cellW, cellH),
		sink.WithViewport(left, top, max(m.width, 1), max(height, 1)),
		sink.WithTextSelection())
	var out []string
	for _, line := range strings.Split(strings.TrimSuffix(canvas, "\n"), "\n") {
		out = append(out, m.highlight(cropCells(line, 0, m.width)))
	}
	return strings.Join(out, "\n")
}

// highlight styles the bracketed selection on a canvas line.
func (m EditorModel) highlight(line string) string {
	i := strings.IndexByte(line, '[')
	j := strings.LastIndexByte(line, ']')
	if i < 0 || j < i {
		return line
	}
	return line[:i] + editorSelectedStyle.Render(line[i:j+1]) + line[j+1:]
}

// outline renders the plain mode: one colored line per visible node.
func (m EditorModel) outline(height int) string {
	type row struct {
		node  *tree.Node
		depth int
	}
	var rows []row
	sel := 0
	m.coord.Forest().WalkVisible(func(n *tree.Node, depth int) bool {
		if n.ID == m.frame.Selection {
			sel = len(rows)
		}
		rows = append(rows, row{n, depth})
		return true
	})

	top := clampInt(sel-height/2, 0, max(len(rows)-height, 0))
	var out []string
	for i := top; i < len(rows) && i < top+height; i++ {
		r := rows[i]
		label := r.node.Text
		if r.node.Collapsed && r.node.HasChildren() {
			label += " +"
		}
		style := editorNodeStyle
		if c := r.node.Color; strings.HasPrefix(c, "#") {
			style = style.Foreground(lipgloss.Color(c))
		}
		if r.node.ID == m.frame.Selection {
			style = editorSelectedStyle
			label = "▸ " + label
		} else {
			label = "  " + label
		}
		out = append(out, strings.Repeat("  ", r.depth)+style.Render(label))
	}
	return strings.Join(out, "\n")
}

// cropCells returns the cells [left, left+width) of s.
func cropCells(s string, left, width int) string {
	var b strings.Builder
	pos := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if pos >= left && pos+w <= left+width {
			b.WriteRune(r)
		}
		pos += w
		if pos >= left+width {
			break
		}
	}
	return b.String()
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// String describes the model for debugging.
func (m EditorModel) String() string {
	return fmt.Sprintf("editor{mode=%s nodes=%d sel=%s}", m.coord.Mode(), m.coord.Forest().Len(), m.frame.Selection)
}
