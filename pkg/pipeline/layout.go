package pipeline

import (
	"context"

	apperr "github.com/matzehuels/mindmap/pkg/errors"
	mmio "github.com/matzehuels/mindmap/pkg/io"
	"github.com/matzehuels/mindmap/pkg/view"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateFrame replays doc into a fresh coordinator and flushes one frame.
// A non-empty opts.Mode overrides the document's view mode.
func GenerateFrame(ctx context.Context, doc mmio.Document, opts Options) (view.Frame, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return view.Frame{}, err
	}
	if err := ctx.Err(); err != nil {
		return view.Frame{}, err
	}

	c := view.New(nil, opts.CoordinatorOptions()...)
	c.Load(doc)
	if opts.Mode != "" {
		m, _ := view.ParseMode(opts.Mode)
		c.SetMode(m)
	}

	fr := c.Flush()
	if fr.Stale {
		return fr, apperr.New(apperr.ErrCodeDetached, "layout pass could not place every node")
	}
	return fr, nil
}
