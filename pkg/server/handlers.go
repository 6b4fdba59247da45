package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/matzehuels/mindmap/pkg/buildinfo"
	apperr "github.com/matzehuels/mindmap/pkg/errors"
	mmio "github.com/matzehuels/mindmap/pkg/io"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/render/sink"
	"github.com/matzehuels/mindmap/pkg/tree"
	"github.com/matzehuels/mindmap/pkg/view"
)

// maxBody bounds uploaded documents and request bodies.
const maxBody = 4 << 20

// =============================================================================
// Request / Response Types
// =============================================================================

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type nodeResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Color     string `json:"color,omitempty"`
	Collapsed bool   `json:"collapsed"`
	Children  int    `json:"children"`
}

// createRequest inserts after After, else under Parent, else as a new root.
type createRequest struct {
	Parent string  `json:"parent,omitempty"`
	After  string  `json:"after,omitempty"`
	Text   *string `json:"text,omitempty"`
	Color  *string `json:"color,omitempty"`
}

type updateRequest struct {
	Text  *string `json:"text,omitempty"`
	Color *string `json:"color,omitempty"`
}

type moveRequest struct {
	Direction string `json:"direction"` // up or down
}

type foldRequest struct {
	Recursive bool `json:"recursive"`
}

type dropRequest struct {
	Target string `json:"target"`
}

type movedResponse struct {
	Moved bool `json:"moved"`
}

type viewRequest struct {
	Mode  *string `json:"mode,omitempty"`
	Zoom  string  `json:"zoom,omitempty"` // in or out
	Pan   string  `json:"pan,omitempty"`  // left, right, up or down
	Reset bool    `json:"reset,omitempty"`
}

type viewResponse struct {
	Mode      string  `json:"mode"`
	Scale     float64 `json:"scale"`
	OffsetX   float64 `json:"offsetX"`
	OffsetY   float64 `json:"offsetY"`
	Selection string  `json:"selection,omitempty"`
	CSS       string  `json:"css"`
}

// =============================================================================
// Document Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) getMap(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	doc := s.coord.Snapshot()
	s.mu.Unlock()

	data, err := mmio.EncodeJSON(doc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// putMap replaces the session with the uploaded document. The format comes
// from ?format=, else from the Content-Type, else JSON.
func (s *Server) putMap(w http.ResponseWriter, r *http.Request) {
	format, err := requestFormat(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		s.writeError(w, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read body"))
		return
	}

	s.mu.Lock()
	err = s.coord.LoadData(format, data)
	doc := s.coord.Snapshot()
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	out, err := mmio.EncodeJSON(doc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

func (s *Server) exportMap(w http.ResponseWriter, r *http.Request) {
	format := mmio.FormatMarkdown
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := mmio.ParseFormat(q)
		if err != nil {
			s.writeError(w, err)
			return
		}
		format = f
	}

	s.mu.Lock()
	doc := s.coord.Snapshot()
	name := s.coord.ExportName()
	s.mu.Unlock()

	data, err := mmio.Encode(format, doc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	contentType := "text/markdown; charset=utf-8"
	if format == mmio.FormatJSON {
		contentType = "application/json"
		name = strings.TrimSuffix(name, ".md") + ".json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// =============================================================================
// Frame Handlers
// =============================================================================

func (s *Server) getFrame(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	fr := s.coord.Flush()
	data, err := sink.RenderJSON(fr)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if fr.Stale {
		w.Header().Set("X-Frame-Stale", "true")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) renderFrame(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}
	opts := s.render
	opts.Formats = []string{format}
	opts.Selection = r.URL.Query().Get("selection") != "0"
	opts.Transform = r.URL.Query().Get("transform") == "1"

	s.mu.Lock()
	fr := s.coord.Flush()
	key := pipeline.DocumentKey(s.coord.Snapshot())
	if key != "" && opts.Selection {
		key += ":" + fr.Selection
	}
	if fr.Stale {
		key = ""
	}
	artifacts, err := s.runner.Render(r.Context(), key, fr, opts)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	w.Write(artifacts[format])
}

// =============================================================================
// Node Handlers
// =============================================================================

func (s *Server) createNode(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := validateAttrs(req.Text, req.Color); err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var n *tree.Node
	switch {
	case req.After != "":
		if !s.coord.Select(req.After) {
			s.writeError(w, notFound(req.After))
			return
		}
		n = s.coord.InsertSibling()
	case req.Parent != "":
		if !s.coord.Select(req.Parent) {
			s.writeError(w, notFound(req.Parent))
			return
		}
		n = s.coord.InsertChild()
	default:
		n = s.coord.AddRoot()
	}
	if err := s.applyAttrs(req.Text, req.Color); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toNodeResponse(n))
}

func (s *Server) updateNode(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := validateAttrs(req.Text, req.Color); err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.selectParam(w, r)
	if !ok {
		return
	}
	if err := s.applyAttrs(req.Text, req.Color); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toNodeResponse(n))
}

func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selectParam(w, r); !ok {
		return
	}
	s.coord.Delete()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) selectNode(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.selectParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toNodeResponse(n))
}

func (s *Server) moveNode(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Direction != "up" && req.Direction != "down" {
		s.writeError(w, apperr.New(apperr.ErrCodeInvalidInput, "direction must be up or down, got %q", req.Direction))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selectParam(w, r); !ok {
		return
	}
	var moved bool
	if req.Direction == "up" {
		moved = s.coord.MoveUp()
	} else {
		moved = s.coord.MoveDown()
	}
	writeJSON(w, http.StatusOK, movedResponse{Moved: moved})
}

func (s *Server) foldNode(w http.ResponseWriter, r *http.Request) {
	var req foldRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.selectParam(w, r)
	if !ok {
		return
	}
	s.coord.ToggleFold(req.Recursive)
	writeJSON(w, http.StatusOK, toNodeResponse(n))
}

// dropNode drags the node in the path onto req.Target. Invalid targets are
// answered with moved=false, not an error.
func (s *Server) dropNode(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	if !s.coord.StartDrag(id) {
		s.writeError(w, notFound(id))
		return
	}
	writeJSON(w, http.StatusOK, movedResponse{Moved: s.coord.Drop(req.Target)})
}

// =============================================================================
// View Handler
// =============================================================================

func (s *Server) putView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if !s.decode(w, r, &req) {
		return
	}
	var mode *view.Mode
	if req.Mode != nil {
		m, err := view.ParseMode(*req.Mode)
		if err != nil {
			s.writeError(w, err)
			return
		}
		mode = &m
	}
	pan, err := parsePan(req.Pan)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if mode != nil {
		s.coord.SetMode(*mode)
	}
	switch req.Zoom {
	case "":
	case "in":
		s.coord.ZoomIn()
	case "out":
		s.coord.ZoomOut()
	default:
		s.writeError(w, apperr.New(apperr.ErrCodeInvalidInput, "zoom must be in or out, got %q", req.Zoom))
		return
	}
	if pan != nil {
		s.coord.Pan(*pan)
	}
	if req.Reset {
		s.coord.ResetView()
	}

	st := s.coord.State()
	writeJSON(w, http.StatusOK, viewResponse{
		Mode:      st.Mode.String(),
		Scale:     st.Transform.Scale,
		OffsetX:   st.Transform.OffsetX,
		OffsetY:   st.Transform.OffsetY,
		Selection: st.Selection,
		CSS:       st.Transform.CSS(),
	})
}

// =============================================================================
// Helpers
// =============================================================================

// selectParam selects the node named by the {id} path parameter. It writes
// a 404 and reports false when the node does not exist. Callers hold s.mu.
func (s *Server) selectParam(w http.ResponseWriter, r *http.Request) (*tree.Node, bool) {
	id := chi.URLParam(r, "id")
	if !s.coord.Select(id) {
		s.writeError(w, notFound(id))
		return nil, false
	}
	return s.coord.Current(), true
}

// applyAttrs sets text and color on the current node. Callers hold s.mu.
func (s *Server) applyAttrs(text, color *string) error {
	if text != nil {
		if _, err := s.coord.SetText(*text); err != nil {
			return err
		}
	}
	if color != nil {
		if _, err := s.coord.SetColor(*color); err != nil {
			return err
		}
	}
	return nil
}

func validateAttrs(text, color *string) error {
	if text != nil {
		if err := apperr.ValidateNodeText(*text); err != nil {
			return err
		}
	}
	if color != nil {
		return apperr.ValidateColor(*color)
	}
	return nil
}

// decode reads an optional JSON body into v. An empty body leaves v as is.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	s.writeError(w, apperr.Wrap(apperr.ErrCodeInvalidJSON, err, "invalid request body"))
	return false
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: apperr.UserMessage(err), Code: string(apperr.GetCode(err))})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func notFound(id string) error {
	return apperr.New(apperr.ErrCodeNotFound, "no node with id %q", id)
}

func toNodeResponse(n *tree.Node) nodeResponse {
	return nodeResponse{
		ID:        n.ID,
		Text:      n.Text,
		Color:     n.Color,
		Collapsed: n.Collapsed,
		Children:  len(n.Children),
	}
}

func requestFormat(r *http.Request) (mmio.Format, error) {
	if q := r.URL.Query().Get("format"); q != "" {
		return mmio.ParseFormat(q)
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/markdown") {
		return mmio.FormatMarkdown, nil
	}
	return mmio.FormatJSON, nil
}

func parsePan(s string) (*view.Direction, error) {
	var d view.Direction
	switch s {
	case "":
		return nil, nil
	case "left":
		d = view.PanLeft
	case "right":
		d = view.PanRight
	case "up":
		d = view.PanUp
	case "down":
		d = view.PanDown
	default:
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "pan must be left, right, up or down, got %q", s)
	}
	return &d, nil
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	case pipeline.FormatJSON:
		return "application/json"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case pipeline.FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
