// Package server exposes an editing session over HTTP.
//
// A [Server] owns one [view.Coordinator]. Every request runs under a single
// mutex, so the coordinator sees the same serialized event stream it would
// see from a terminal UI. Edits schedule a debounced save through a
// [view.Debouncer] whose dispatch takes the same mutex.
//
// Routes:
//
//	GET    /health                    liveness probe and build info
//	GET    /api/map                   current document (JSON)
//	PUT    /api/map                   replace the document (JSON or Markdown)
//	GET    /api/map/export            download as Markdown or JSON
//	GET    /api/frame                 layout of the current frame (JSON)
//	GET    /api/render/{format}       render the current frame
//	POST   /api/nodes                 insert a node
//	PATCH  /api/nodes/{id}            set text and/or color
//	DELETE /api/nodes/{id}            delete a subtree
//	POST   /api/nodes/{id}/select     select a node
//	POST   /api/nodes/{id}/move       move up or down among siblings
//	POST   /api/nodes/{id}/fold       toggle folding
//	POST   /api/nodes/{id}/drop       reparent after another node
//	PUT    /api/view                  change mode, zoom or pan
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	mmio "github.com/matzehuels/mindmap/pkg/io"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/view"
)

// Server serves one editing session.
type Server struct {
	mu        sync.Mutex
	coord     *view.Coordinator
	persister *view.Persister
	saver     *view.Debouncer
	runner    *pipeline.Runner
	render    pipeline.Options
	logger    *log.Logger
	delay     time.Duration
	viewOpts  []view.Option
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and session logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithPersister saves the session through p after every edit.
func WithPersister(p *view.Persister) Option { return func(s *Server) { s.persister = p } }

// WithSaveDelay sets the save debounce delay.
func WithSaveDelay(d time.Duration) Option { return func(s *Server) { s.delay = d } }

// WithRunner renders through r, so repeated renders of an unchanged map are
// served from its cache.
func WithRunner(r *pipeline.Runner) Option { return func(s *Server) { s.runner = r } }

// WithRenderOptions sets the layout sizes and render style used by
// /api/render.
func WithRenderOptions(opts pipeline.Options) Option {
	return func(s *Server) { s.render = opts }
}

// WithViewOptions passes extra options to the coordinator.
func WithViewOptions(opts ...view.Option) Option {
	return func(s *Server) { s.viewOpts = append(s.viewOpts, opts...) }
}

// New creates a server around a fresh coordinator.
func New(opts ...Option) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, s.logger)
	}

	var saver view.Notifier
	if s.persister != nil {
		s.saver = view.NewDebouncer(s.delay, s.save, s.locked)
		saver = s.saver
	}
	vopts := append([]view.Option{view.WithLogger(s.logger)}, s.viewOpts...)
	if saver != nil {
		vopts = append(vopts, view.WithSaver(saver))
	}
	s.coord = view.New(nil, vopts...)
	return s
}

// Restore loads the persisted session, if any. Without a persister it does
// nothing.
func (s *Server) Restore(ctx context.Context) (bool, error) {
	if s.persister == nil {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persister.Restore(ctx, s.coord)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(hooks)

	r.Get("/health", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/map", s.getMap)
		r.Put("/map", s.putMap)
		r.Get("/map/export", s.exportMap)
		r.Get("/frame", s.getFrame)
		r.Get("/render/{format}", s.renderFrame)
		r.Put("/view", s.putView)

		r.Route("/nodes", func(r chi.Router) {
			r.Post("/", s.createNode)
			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", s.updateNode)
				r.Delete("/", s.deleteNode)
				r.Post("/select", s.selectNode)
				r.Post("/move", s.moveNode)
				r.Post("/fold", s.foldNode)
				r.Post("/drop", s.dropNode)
			})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down and
// flushes a pending save.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		s.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close runs any pending save and stops the debouncer.
func (s *Server) Close() {
	if s.saver == nil {
		return
	}
	s.locked(s.saver.Flush)
	s.saver.Stop()
}

// locked runs fn under the session mutex. The debouncer dispatches through
// it.
func (s *Server) locked(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// save must run with s.mu held.
func (s *Server) save() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = s.persister.Save(ctx, s.coord)
}

// Load replaces the session with data decoded in format. On error the
// session is left untouched.
func (s *Server) Load(format mmio.Format, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coord.LoadData(format, data)
}
