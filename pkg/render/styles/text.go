package styles

import (
	"bytes"
	"encoding/xml"

	"github.com/mattn/go-runewidth"
)

const (
	fontHeightRatio = 0.6
	fontSizeMin     = 8.0
	fontSizeMax     = 24.0
)

// FontSize returns the label font size for a box of height h.
func FontSize(h float64) float64 {
	return max(fontSizeMin, min(fontSizeMax, h*fontHeightRatio))
}

// TruncateLabel shortens label to at most maxCells terminal cells, marking
// the cut with "..". Labels that fit are returned unchanged.
func TruncateLabel(label string, maxCells int) string {
	maxCells = max(maxCells, 3)
	if runewidth.StringWidth(label) <= maxCells {
		return label
	}
	return runewidth.Truncate(label, maxCells, "..")
}

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
