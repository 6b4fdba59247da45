// Package observability lets an embedding program watch the editor at work.
//
// Three event families exist: layout passes and renders, snapshot store
// traffic, and requests served by the HTTP API. Each family has an interface,
// a no-op implementation that is installed by default, and a setter. Code
// that emits events never checks whether anyone is listening.
//
// Install hooks once, before serving:
//
//	observability.SetStorageHooks(metrics.StorageHooks())
//	observability.SetHTTPHooks(metrics.HTTPHooks())
//
// Emitting an event:
//
//	observability.Layout().OnLayoutStart(ctx, "radial", f.Len())
//	l, err := strategy.Layout(f)
//	observability.Layout().OnLayoutComplete(ctx, "radial", len(l.Positions), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// LayoutHooks observes layout passes and frame renders.
type LayoutHooks interface {
	OnLayoutStart(ctx context.Context, mode string, nodeCount int)
	// positioned is the number of nodes that received a position.
	OnLayoutComplete(ctx context.Context, mode string, positioned int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// StorageHooks observes snapshot store reads and writes.
type StorageHooks interface {
	// found is false when the key did not exist.
	OnLoad(ctx context.Context, backend, key string, found bool, size int, err error)
	OnSave(ctx context.Context, backend, key string, size int, duration time.Duration, err error)
}

// HTTPHooks observes the API server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// NoopLayoutHooks ignores every event.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, string, int)                          {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, int, time.Duration, error) {}
func (NoopLayoutHooks) OnRenderStart(context.Context, []string)                             {}
func (NoopLayoutHooks) OnRenderComplete(context.Context, []string, time.Duration, error)    {}

// NoopStorageHooks ignores every event.
type NoopStorageHooks struct{}

func (NoopStorageHooks) OnLoad(context.Context, string, string, bool, int, error)          {}
func (NoopStorageHooks) OnSave(context.Context, string, string, int, time.Duration, error) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// slot holds the installed hooks of one family.
type slot[H any] struct {
	mu   sync.RWMutex
	cur  H
	noop H
}

func newSlot[H any](noop H) *slot[H] { return &slot[H]{cur: noop, noop: noop} }

func (s *slot[H]) get() H {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// set ignores a nil h.
func (s *slot[H]) set(h H) {
	if any(h) == nil {
		return
	}
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[H]) reset() {
	s.mu.Lock()
	s.cur = s.noop
	s.mu.Unlock()
}

var (
	layoutSlot  = newSlot[LayoutHooks](NoopLayoutHooks{})
	storageSlot = newSlot[StorageHooks](NoopStorageHooks{})
	httpSlot    = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetLayoutHooks installs h. A nil h is ignored.
func SetLayoutHooks(h LayoutHooks) { layoutSlot.set(h) }

// SetStorageHooks installs h. A nil h is ignored.
func SetStorageHooks(h StorageHooks) { storageSlot.set(h) }

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) { httpSlot.set(h) }

// Layout returns the installed layout hooks.
func Layout() LayoutHooks { return layoutSlot.get() }

// Storage returns the installed storage hooks.
func Storage() StorageHooks { return storageSlot.get() }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.get() }

// Reset puts the no-op hooks back in every family. Tests call it in cleanup.
func Reset() {
	layoutSlot.reset()
	storageSlot.reset()
	httpSlot.reset()
}
