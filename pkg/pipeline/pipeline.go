// Package pipeline renders stored mind maps without an editing session.
//
// A run has three steps. Load decodes a JSON document or a Markdown outline,
// from bytes or from a file. GenerateFrame replays the document into a view
// coordinator and flushes one frame in the requested mode. Render draws that
// frame once per output format, the formats in parallel.
//
// The render, convert and watch commands and the HTTP server all drive these
// steps through a [Runner], which keeps rendered artifacts in a
// [storage.Store] keyed by document hash and render options:
//
//	runner := pipeline.NewRunner(store, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "plan.md",
//	    Mode:    "radial",
//	    Formats: []string{"svg", "txt"},
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("plan.svg", res.Artifacts["svg"], 0o644)
package pipeline

import (
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	apperr "github.com/matzehuels/mindmap/pkg/errors"
	mmio "github.com/matzehuels/mindmap/pkg/io"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/render/styles"
	"github.com/matzehuels/mindmap/pkg/view"
)

// Output format names, as accepted by --format and /api/render/{format}.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
	FormatJSON     = "json"
	FormatText     = "txt"
	FormatDOT      = "dot"
	FormatMarkdown = "md"
)

const (
	DefaultPNGScale = 2.0
	DefaultStyle    = styles.NameSimple
)

// StyleNodeLink draws SVG, PNG and PDF output as a Graphviz node-link
// diagram instead of through the frame layout.
const StyleNodeLink = "nodelink"

// ValidFormats holds every name in the Format constants.
var ValidFormats = map[string]bool{
	FormatSVG: true, FormatPNG: true, FormatPDF: true, FormatJSON: true,
	FormatText: true, FormatDOT: true, FormatMarkdown: true,
}

// ValidStyles holds the SVG theme names and StyleNodeLink.
var ValidStyles = map[string]bool{
	styles.NameSimple: true,
	styles.NameBare:   true,
	StyleNodeLink:     true,
}

// Options drives one run. Zero values mean "use the default"; the JSON tags
// let the server accept options in request bodies.
type Options struct {
	Input       string `json:"input,omitempty"`
	InputFormat string `json:"input_format,omitempty"` // json or markdown; "" picks by extension
	Data        []byte `json:"-"`                      // wins over Input

	Mode        string  `json:"mode,omitempty"` // "" keeps the document's view mode
	CharWidth   float64 `json:"char_width,omitempty"`
	LineHeight  float64 `json:"line_height,omitempty"`
	Indent      float64 `json:"indent,omitempty"`
	RingSpacing float64 `json:"ring_spacing,omitempty"`
	Gap         float64 `json:"gap,omitempty"`
	CenterX     float64 `json:"center_x,omitempty"`
	CenterY     float64 `json:"center_y,omitempty"`

	Formats    []string `json:"formats,omitempty"`
	Style      string   `json:"style,omitempty"`
	Transform  bool     `json:"transform,omitempty"` // apply the document's zoom and pan
	Selection  bool     `json:"selection,omitempty"`
	ShowFolded bool     `json:"show_folded,omitempty"`
	Scale      float64  `json:"scale,omitempty"` // PNG only
	Refresh    bool     `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result is what Execute produced.
type Result struct {
	Document  mmio.Document
	Frame     view.Frame
	Artifacts map[string][]byte // by format name
	Stats     Stats
	CacheInfo CacheInfo
}

type Stats struct {
	NodeCount    int
	VisibleCount int
	LoadTime     time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

type CacheInfo struct {
	RenderHit bool // every artifact was served from the cache
}

// ValidateFormat rejects names outside ValidFormats. Names are case sensitive.
func ValidateFormat(format string) error {
	if ValidFormats[format] {
		return nil
	}
	return apperr.New(apperr.ErrCodeInvalidFormat,
		"unknown format %q (want one of %s)", format, strings.Join(FormatNames(), ", "))
}

// ValidateFormats stops at the first unknown name.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func ValidateStyle(style string) error {
	if ValidStyles[style] {
		return nil
	}
	return apperr.New(apperr.ErrCodeInvalidInput,
		"unknown style %q (want one of %s)", style, strings.Join(slices.Sorted(maps.Keys(ValidStyles)), ", "))
}

// ValidateMode accepts "" and anything view.ParseMode accepts.
func ValidateMode(mode string) error {
	if mode == "" {
		return nil
	}
	_, err := view.ParseMode(mode)
	return err
}

// FormatNames lists ValidFormats in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// ValidateAndSetDefaults runs the checks of all three steps. Only the first
// call does any work.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	for _, check := range []func() error{o.ValidateForLoad, o.ValidateForLayout, o.ValidateForRender} {
		if err := check(); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// ValidateForLoad requires Input or Data and canonicalizes InputFormat.
func (o *Options) ValidateForLoad() error {
	o.setLogger()
	if len(o.Data) == 0 && o.Input == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "nothing to load: give an input file or data")
	}
	if o.InputFormat == "" {
		return nil
	}
	f, err := mmio.ParseFormat(o.InputFormat)
	if err != nil {
		return err
	}
	o.InputFormat = string(f)
	return nil
}

func (o *Options) ValidateForLayout() error {
	o.setLogger()
	if slices.ContainsFunc([]float64{o.CharWidth, o.LineHeight, o.Indent, o.RingSpacing, o.Gap},
		func(v float64) bool { return v < 0 }) {
		return apperr.New(apperr.ErrCodeInvalidInput, "layout sizes must not be negative")
	}
	return ValidateMode(o.Mode)
}

// SetRenderDefaults fills Formats, Style and Scale when unset.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultPNGScale
	}
	o.setLogger()
}

func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Metrics returns the label metrics implied by the options.
func (o *Options) Metrics() layout.Metrics {
	m := layout.DefaultMetrics()
	if o.CharWidth > 0 {
		m.CharWidth = o.CharWidth
	}
	if o.LineHeight > 0 {
		m.LineHeight = o.LineHeight
	}
	return m
}

// Strategies returns the flow and radial strategies implied by the options.
func (o *Options) Strategies() (flow, radial layout.Strategy) {
	im := layout.NewIndentMeasurer(o.Metrics())
	if o.Indent > 0 {
		im.Indent = o.Indent
	}
	ropts := []layout.RadialOption{layout.WithMetrics(o.Metrics())}
	if o.RingSpacing > 0 {
		ropts = append(ropts, layout.WithRingSpacing(o.RingSpacing))
	}
	if o.CenterX > 0 && o.CenterY > 0 {
		ropts = append(ropts, layout.WithCenter(o.CenterX, o.CenterY))
	}
	return layout.NewFlow(im), layout.NewRadial(ropts...)
}

// CoordinatorOptions returns the view options implied by the options.
func (o *Options) CoordinatorOptions() []view.Option {
	flow, radial := o.Strategies()
	opts := []view.Option{view.WithFlow(flow), view.WithRadial(radial), view.WithLogger(o.Logger)}
	if o.Gap > 0 {
		opts = append(opts, view.WithConnectorGap(o.Gap))
	}
	return opts
}
