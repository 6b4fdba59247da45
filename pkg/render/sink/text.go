package sink

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/render/styles"
	"github.com/matzehuels/mindmap/pkg/view"
)

// Default character cell sizes, in layout units.
const (
	DefaultCellWidth        = 8
	DefaultFlowCellHeight   = 30
	DefaultRadialCellHeight = 16
)

// TextOption configures [RenderText].
type TextOption func(*textRenderer)

type textRenderer struct {
	cellW, cellH float64
	maxLabel     int
	selection    bool

	// viewport in cells; zero width means the whole frame
	vx, vy, vw, vh int
}

// WithCellSize sets how many layout units one character cell covers.
func WithCellSize(w, h float64) TextOption {
	return func(r *textRenderer) { r.cellW, r.cellH = w, h }
}

// WithMaxLabel truncates labels to n cells.
func WithMaxLabel(n int) TextOption { return func(r *textRenderer) { r.maxLabel = n } }

// WithTextSelection brackets the selected label.
func WithTextSelection() TextOption { return func(r *textRenderer) { r.selection = true } }

// WithViewport rasterizes only the w by h cells whose top-left cell is
// (col, row). Only that grid is allocated. The output keeps blank leading
// rows and columns so that line i is row row+i.
func WithViewport(col, row, w, h int) TextOption {
	return func(r *textRenderer) { r.vx, r.vy, r.vw, r.vh = col, row, w, h }
}

// GridSize returns the number of columns and rows RenderText needs for the
// whole of fr at the given cell size.
func GridSize(fr view.Frame, cellW, cellH float64) (cols, rows int) {
	return int(math.Ceil(fr.Layout.Width/cellW)) + 1, int(math.Ceil(fr.Layout.Height/cellH)) + 1
}

// RenderText rasterizes fr onto a character grid using box-drawing glyphs
// for connectors. Plain frames render as an indented list. The result has
// no trailing spaces and ends with a newline unless it is empty.
func RenderText(fr view.Frame, opts ...TextOption) string {
	r := textRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if fr.Mode == view.Plain {
		return r.outline(fr)
	}

	l, conns := fr.Layout, fr.Connectors
	if r.cellW <= 0 {
		r.cellW = DefaultCellWidth
	}
	if r.cellH <= 0 {
		r.cellH = DefaultFlowCellHeight
		if l.Mode == layout.ModeRadial {
			r.cellH = DefaultRadialCellHeight
		}
	}

	var c *canvas
	if r.vw > 0 && r.vh > 0 {
		c = newCanvas(r.vw, r.vh)
		c.keepOrigin = true
	} else {
		r.vx, r.vy = 0, 0
		c = newCanvas(GridSize(fr, r.cellW, r.cellH))
	}
	for _, conn := range conns {
		p := conn.Points
		c.hline(r.col(p[0].X), r.col(p[1].X), r.row(p[0].Y))
		c.vline(r.col(p[1].X), r.row(p[1].Y), r.row(p[2].Y))
		c.hline(r.col(p[2].X), r.col(p[3].X), r.row(p[3].Y))
	}
	for _, v := range visibleNodes(fr.Forest) {
		b, ok := l.Position(v.node.ID)
		if !ok {
			continue
		}
		label := r.label(fr, v.node.ID, v.node.Text, v.node.Collapsed && v.node.HasChildren())
		w := runewidth.StringWidth(label)
		col := r.col(b.X)
		if l.Mode == layout.ModeRadial {
			col = r.col(b.CenterX()) - w/2
		}
		c.text(col, r.row(b.CenterY()), label)
	}
	return c.String()
}

func (r textRenderer) col(x float64) int { return int(math.Round(x/r.cellW)) - r.vx }
func (r textRenderer) row(y float64) int { return int(math.Floor(y/r.cellH)) - r.vy }

func (r textRenderer) label(fr view.Frame, id, text string, folded bool) string {
	if r.maxLabel > 0 {
		text = styles.TruncateLabel(text, r.maxLabel)
	}
	if folded {
		text += " +"
	}
	if r.selection && id == fr.Selection {
		text = "[" + text + "]"
	}
	return text
}

func (r textRenderer) outline(fr view.Frame) string {
	var b strings.Builder
	for _, v := range visibleNodes(fr.Forest) {
		b.WriteString(strings.Repeat("  ", v.depth))
		b.WriteString("- ")
		b.WriteString(r.label(fr, v.node.ID, v.node.Text, v.node.Collapsed && v.node.HasChildren()))
		b.WriteByte('\n')
	}
	return b.String()
}

// Line directions, combined into box-drawing glyphs.
const (
	up uint8 = 1 << iota
	down
	left
	right
)

var glyphs = map[uint8]rune{
	left: '─', right: '─', left | right: '─',
	up: '│', down: '│', up | down: '│',
	down | right: '┌', down | left: '┐', up | right: '└', up | left: '┘',
	up | down | right: '├', up | down | left: '┤',
	left | right | down: '┬', left | right | up: '┴',
	up | down | left | right: '┼',
}

// canvas is a character grid. Text cells win over line cells; a zero text
// cell after a wide rune marks its continuation.
type canvas struct {
	w, h  int
	lines [][]uint8
	chars [][]rune
	used  [][]bool

	keepOrigin bool // no trimming of blank leading rows and columns
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: max(w, 1), h: max(h, 1)}
	c.lines = make([][]uint8, c.h)
	c.chars = make([][]rune, c.h)
	c.used = make([][]bool, c.h)
	for y := range c.h {
		c.lines[y] = make([]uint8, c.w)
		c.chars[y] = make([]rune, c.w)
		c.used[y] = make([]bool, c.w)
	}
	return c
}

func (c *canvas) in(x, y int) bool { return x >= 0 && y >= 0 && x < c.w && y < c.h }

func (c *canvas) mark(x, y int, dir uint8) {
	if c.in(x, y) {
		c.lines[y][x] |= dir
	}
}

func (c *canvas) hline(x0, x1, y int) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y < 0 || y >= c.h {
		return
	}
	for x := max(x0, -1); x <= min(x1, c.w); x++ {
		if x > x0 {
			c.mark(x, y, left)
		}
		if x < x1 {
			c.mark(x, y, right)
		}
	}
}

func (c *canvas) vline(x, y0, y1 int) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if x < 0 || x >= c.w {
		return
	}
	for y := max(y0, -1); y <= min(y1, c.h); y++ {
		if y > y0 {
			c.mark(x, y, up)
		}
		if y < y1 {
			c.mark(x, y, down)
		}
	}
}

func (c *canvas) text(x, y int, s string) {
	if y < 0 || y >= c.h {
		return
	}
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if c.in(x, y) {
			c.chars[y][x] = r
			c.used[y][x] = true
		}
		for i := 1; i < w; i++ {
			if c.in(x+i, y) {
				c.chars[y][x+i] = 0
				c.used[y][x+i] = true
			}
		}
		x += w
	}
}

// leftmost returns the first column holding anything.
func (c *canvas) leftmost() int {
	minCol := c.w
	for y := range c.h {
		for x := range c.w {
			if c.used[y][x] || c.lines[y][x] != 0 {
				minCol = min(minCol, x)
				break
			}
		}
	}
	return minCol
}

func (c *canvas) String() string {
	rows := make([]string, 0, c.h)
	minCol := 0
	if !c.keepOrigin {
		minCol = c.leftmost()
	}
	for y := range c.h {
		var b strings.Builder
		for x := minCol; x < c.w; x++ {
			switch {
			case c.used[y][x]:
				if r := c.chars[y][x]; r != 0 {
					b.WriteRune(r)
				}
			case c.lines[y][x] != 0:
				b.WriteRune(glyphs[c.lines[y][x]])
			default:
				b.WriteByte(' ')
			}
		}
		rows = append(rows, strings.TrimRight(b.String(), " "))
	}
	for !c.keepOrigin && len(rows) > 0 && rows[0] == "" {
		rows = rows[1:]
	}
	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return ""
	}
	return strings.Join(rows, "\n") + "\n"
}
