package layout

import "github.com/mattn/go-runewidth"

// Metrics converts label text into surface units.
type Metrics struct {
	// CharWidth is the width of one terminal cell.
	CharWidth float64
	// LineHeight is the height of one label row.
	LineHeight float64
	// PadX is added on both sides of every label.
	PadX float64
}

// DefaultMetrics returns the metrics used when none are configured.
func DefaultMetrics() Metrics {
	return Metrics{CharWidth: 8, LineHeight: 24, PadX: 4}
}

// LabelSize returns the width and height of a label holding text. Wide
// runes count as two cells; an empty label still occupies one cell.
func (m Metrics) LabelSize(text string) (w, h float64) {
	cells := runewidth.StringWidth(text)
	if cells == 0 {
		cells = 1
	}
	return float64(cells)*m.CharWidth + 2*m.PadX, m.LineHeight
}

func (m Metrics) orDefault() Metrics {
	if m.CharWidth <= 0 || m.LineHeight <= 0 {
		return DefaultMetrics()
	}
	return m
}
