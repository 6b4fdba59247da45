package view

import (
	apperr "github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/io"
)

// Mode is the active visualization.
type Mode int

const (
	// Outline is the indented flow layout with connectors.
	Outline Mode = iota
	// Plain shows the text hierarchy only: no layout, no connectors.
	Plain
	// Radial is the radial layout with connectors.
	Radial
)

// String returns the name stored in documents.
func (m Mode) String() string {
	switch m {
	case Plain:
		return io.ViewPlain
	case Radial:
		return io.ViewRadial
	default:
		return io.ViewNormal
	}
}

// Next returns the mode that follows m in the cycle
// Outline → Plain → Radial → Outline.
func (m Mode) Next() Mode {
	switch m {
	case Outline:
		return Plain
	case Plain:
		return Radial
	default:
		return Outline
	}
}

// Icon is the glyph shown on the mode toggle.
func (m Mode) Icon() string {
	switch m {
	case Plain:
		return "🧠"
	case Radial:
		return "🌀"
	default:
		return "📃"
	}
}

// ParseMode accepts the document names ("normal", "plain", "radial") and
// "outline" as an alias of "normal".
func ParseMode(s string) (Mode, error) {
	switch s {
	case io.ViewNormal, "outline":
		return Outline, nil
	case io.ViewPlain:
		return Plain, nil
	case io.ViewRadial:
		return Radial, nil
	}
	return Outline, apperr.New(apperr.ErrCodeInvalidMode, "unknown view mode %q", s)
}
