// Package cli implements the mindmap command-line interface.
//
// # Commands
//
//   - edit: interactive terminal editor for one map
//   - render: render a map file to svg, png, pdf, json, txt, dot or md
//   - convert: convert between the JSON document and the Markdown outline
//   - serve: serve an editing session over HTTP
//   - watch: re-render a map file whenever it changes
//   - store: inspect or clear the persisted editing session
//   - cache: manage the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging and
// --log-format to switch from the human-readable text lines to JSON or
// logfmt, which suits "serve" behind a log collector. The logger is carried
// in the command context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	apperr "github.com/matzehuels/mindmap/pkg/errors"
)

// newLogger creates a logger that writes to w at the given level, with
// "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logFormats maps --log-format values to formatters.
var logFormats = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"json":   log.JSONFormatter,
	"logfmt": log.LogfmtFormatter,
}

// parseLogFormat resolves a --log-format value. Empty means text.
func parseLogFormat(s string) (log.Formatter, error) {
	if s == "" {
		return log.TextFormatter, nil
	}
	f, ok := logFormats[s]
	if !ok {
		return 0, apperr.New(apperr.ErrCodeInvalidInput, "invalid log format %q (must be one of: text, json, logfmt)", s)
	}
	return f, nil
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered trip.md (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context carrying l.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
