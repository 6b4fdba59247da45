package pipeline

import (
	"cmp"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	mmio "github.com/matzehuels/mindmap/pkg/io"
	"github.com/matzehuels/mindmap/pkg/storage"
	"github.com/matzehuels/mindmap/pkg/tree"
	"github.com/matzehuels/mindmap/pkg/view"
)

// Runner executes pipelines against an artifact cache. The render command,
// the watch loop and the HTTP server share one implementation through it.
// A Runner keeps no per-run state, so concurrent runs are fine as long as
// the cache store is safe for concurrent use.
type Runner struct {
	Cache  storage.Store
	Logger *log.Logger
}

// NewRunner returns a runner over c. A nil c disables caching; a nil logger
// means log.Default().
func NewRunner(c storage.Store, logger *log.Logger) *Runner {
	if c == nil {
		c = storage.NewNullStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute loads opts.Input, lays it out in opts.Mode and renders every
// requested format, reusing cached artifacts of an identical document.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	res := &Result{}
	t := time.Now()
	doc, err := Load(opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	res.Document = doc
	res.Stats.LoadTime = time.Since(t)

	t = time.Now()
	fr, err := GenerateFrame(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	res.Frame = fr
	res.Stats.LayoutTime = time.Since(t)
	res.Stats.NodeCount = fr.Forest.Len()
	res.Stats.VisibleCount = countVisible(fr)
	r.Logger.Info("laid out map", "mode", fr.Mode, "nodes", res.Stats.NodeCount,
		"visible", res.Stats.VisibleCount, "took", res.Stats.LayoutTime)

	t = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, DocumentKey(doc), fr, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Artifacts = artifacts
	res.Stats.RenderTime = time.Since(t)
	res.CacheInfo.RenderHit = hit
	r.Logger.Info("rendered map", "formats", opts.Formats, "cached", hit, "took", res.Stats.RenderTime)

	return res, nil
}

// RenderWithCacheInfo renders fr, serving each format from the cache when
// possible. docKey identifies the document the frame was built from; an
// empty docKey disables caching. The bool reports whether every artifact
// came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, docKey string, fr view.Frame, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	if docKey == "" || opts.Refresh {
		artifacts, err := Render(ctx, fr, opts)
		return artifacts, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, ArtifactKey(docKey, format, fr.Mode, opts))
		if err == nil && hit {
			artifacts[format] = data
			continue
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(ctx, fr, sub)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		if err := r.Cache.Set(ctx, ArtifactKey(docKey, format, fr.Mode, opts), data); err != nil {
			r.Logger.Warn("cache artifact", "format", format, "err", err)
		}
	}
	return artifacts, false, nil
}

// Render is RenderWithCacheInfo without the hit flag.
func (r *Runner) Render(ctx context.Context, docKey string, fr view.Frame, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, docKey, fr, opts)
	return artifacts, err
}

// Close closes the artifact cache.
func (r *Runner) Close() error {
	if r.Cache == nil {
		return nil
	}
	return r.Cache.Close()
}

func (r *Runner) applyLogger(opts *Options) {
	opts.Logger = cmp.Or(opts.Logger, r.Logger)
}

// DocumentKey hashes the canonical JSON encoding of doc. It is the cache
// namespace of every artifact rendered from doc.
func DocumentKey(doc mmio.Document) string {
	data, err := mmio.EncodeJSON(doc)
	if err != nil {
		return ""
	}
	return storage.Hash(data)
}

// ArtifactKey returns the cache key of one rendered format.
func ArtifactKey(docKey, format string, mode view.Mode, opts Options) string {
	parts := []string{
		docKey, format, mode.String(), opts.Style,
		strconv.FormatBool(opts.Transform),
		strconv.FormatBool(opts.Selection),
		strconv.FormatBool(opts.ShowFolded),
		strconv.FormatFloat(opts.Scale, 'g', -1, 64),
		strconv.FormatFloat(opts.CharWidth, 'g', -1, 64),
		strconv.FormatFloat(opts.LineHeight, 'g', -1, 64),
		strconv.FormatFloat(opts.Indent, 'g', -1, 64),
		strconv.FormatFloat(opts.RingSpacing, 'g', -1, 64),
		strconv.FormatFloat(opts.Gap, 'g', -1, 64),
		strconv.FormatFloat(opts.CenterX, 'g', -1, 64),
		strconv.FormatFloat(opts.CenterY, 'g', -1, 64),
	}
	return "render:" + storage.Hash([]byte(strings.Join(parts, "|")))
}

func countVisible(fr view.Frame) int {
	n := 0
	fr.Forest.WalkVisible(func(*tree.Node, int) bool { n++; return true })
	return n
}
