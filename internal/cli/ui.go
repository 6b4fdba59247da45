package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// stdout receives all user-facing output. Logs go to the logger instead.
var stdout io.Writer = os.Stdout

// Palette. Adaptive colors keep the output readable on light terminals.
var (
	colorAccent = lipgloss.AdaptiveColor{Light: "30", Dark: "44"}
	colorOK     = lipgloss.AdaptiveColor{Light: "28", Dark: "78"}
	colorWarn   = lipgloss.AdaptiveColor{Light: "130", Dark: "214"}
	colorFail   = lipgloss.AdaptiveColor{Light: "160", Dark: "203"}
	colorText   = lipgloss.AdaptiveColor{Light: "235", Dark: "253"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "244", Dark: "245"}
	colorFaint  = lipgloss.AdaptiveColor{Light: "250", Dark: "240"}
)

var (
	// StyleTitle renders headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	// StyleHighlight renders addresses and file names worth noticing.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorFaint)
	// StyleNumber renders counts.
	StyleNumber = lipgloss.NewStyle().Foreground(colorAccent)

	styleValue       = lipgloss.NewStyle().Foreground(colorText)
	styleKey         = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorAccent).Italic(true)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
)

// mark is the leading glyph of a status line.
type mark struct {
	glyph string
	style lipgloss.Style
	body  lipgloss.Style
}

var (
	plain    = lipgloss.NewStyle()
	markOK   = mark{"✓", lipgloss.NewStyle().Foreground(colorOK), plain}
	markFail = mark{"✗", lipgloss.NewStyle().Foreground(colorFail), plain}
	markWarn = mark{"!", lipgloss.NewStyle().Foreground(colorWarn), lipgloss.NewStyle().Foreground(colorWarn)}
	markInfo = mark{"›", lipgloss.NewStyle().Foreground(colorMuted), plain}
)

func say(m mark, format string, args ...any) {
	fmt.Fprintln(stdout, m.style.Render(m.glyph)+" "+m.body.Render(fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) { say(markOK, format, args...) }
func printError(format string, args ...any)   { say(markFail, format, args...) }
func printWarning(format string, args ...any) { say(markWarn, format, args...) }
func printInfo(format string, args ...any)    { say(markInfo, format, args...) }

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written file under the preceding status line.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+styleValue.Render(value))
}

// printStats summarizes a map: its size, how much of it is folded away and
// whether the artifacts came from the cache.
func printStats(nodeCount, visibleCount int, cached bool) {
	parts := []string{fmt.Sprintf("%d nodes", nodeCount)}
	if hidden := nodeCount - visibleCount; hidden > 0 {
		parts = append(parts, fmt.Sprintf("%d folded away", hidden))
	}
	if cached {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorOK).Render("cached"))
	} else {
		parts = append(parts, "fresh")
	}
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() { fmt.Fprintln(stdout) }
