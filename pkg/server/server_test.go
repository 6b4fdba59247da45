package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	json "github.com/goccy/go-json"

	"github.com/matzehuels/mindmap/pkg/storage"
	"github.com/matzehuels/mindmap/pkg/view"
)

const outline = "- Trip\n  - Packing\n  - Route\n"

func newTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	opts = append([]Option{WithLogger(log.New(io.Discard))}, opts...)
	s := New(opts...)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return s, ts
}

func do(t *testing.T, method, url, contentType, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func loadOutline(t *testing.T, ts *httptest.Server) {
	t.Helper()
	resp := do(t, http.MethodPut, ts.URL+"/api/map", "text/markdown", outline)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT /api/map status = %d", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/health", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	var body healthResponse
	decodeBody(t, resp, &body)
	if body.Status != "ok" || body.Build.Version == "" {
		t.Errorf("health = %+v", body)
	}
}

func TestPutAndGetMap(t *testing.T) {
	s, ts := newTestServer(t)
	loadOutline(t, ts)

	if got := s.coord.Forest().Len(); got != 3 {
		t.Errorf("forest has %d nodes, want 3", got)
	}
	if cur := s.coord.Current(); cur == nil || cur.Text != "Trip" {
		t.Error("load should select the first node")
	}

	resp := do(t, http.MethodGet, ts.URL+"/api/map", "", "")
	var doc struct {
		Version  int    `json:"version"`
		ViewMode string `json:"viewMode"`
		Tree     []struct {
			Text     string            `json:"text"`
			Children []json.RawMessage `json:"children"`
		} `json:"tree"`
	}
	decodeBody(t, resp, &doc)
	if doc.Version != 1 || doc.ViewMode != "normal" || len(doc.Tree) != 1 || len(doc.Tree[0].Children) != 2 {
		t.Errorf("GET /api/map = %+v", doc)
	}
}

func TestPutMapInvalidKeepsState(t *testing.T) {
	s, ts := newTestServer(t)
	loadOutline(t, ts)

	resp := do(t, http.MethodPut, ts.URL+"/api/map", "application/json", "{broken")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	var e errorResponse
	decodeBody(t, resp, &e)
	if e.Code != "INVALID_JSON" {
		t.Errorf("code = %q", e.Code)
	}
	if s.coord.Forest().Len() != 3 {
		t.Error("invalid upload must leave the map untouched")
	}
}

func TestExportMap(t *testing.T) {
	_, ts := newTestServer(t)
	loadOutline(t, ts)

	resp := do(t, http.MethodGet, ts.URL+"/api/map/export", "", "")
	body, _ := io.ReadAll(resp.Body)
	if string(body) != outline {
		t.Errorf("markdown export = %q", body)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, `"Trip.md"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/map/export?format=json", "", "")
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, `"Trip.json"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	resp = do(t, http.MethodGet, ts.URL+"/api/map/export?format=yaml", "", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown export format status = %d", resp.StatusCode)
	}
}

func TestNodeLifecycle(t *testing.T) {
	s, ts := newTestServer(t)
	loadOutline(t, ts)
	root := s.coord.Forest().First()

	resp := do(t, http.MethodPost, ts.URL+"/api/nodes", "application/json",
		`{"parent":"`+root.ID+`","text":"Tickets","color":"#3366ff"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created nodeResponse
	decodeBody(t, resp, &created)
	if created.Text != "Tickets" || created.Color != "#3366ff" {
		t.Errorf("created = %+v", created)
	}
	if len(root.Children) != 3 || root.Children[2].ID != created.ID {
		t.Error("new child should be appended under the parent")
	}

	resp = do(t, http.MethodPatch, ts.URL+"/api/nodes/"+created.ID, "application/json", `{"text":"Train tickets"}`)
	var updated nodeResponse
	decodeBody(t, resp, &updated)
	if updated.Text != "Train tickets" {
		t.Errorf("updated = %+v", updated)
	}

	resp = do(t, http.MethodPost, ts.URL+"/api/nodes/"+created.ID+"/move", "application/json", `{"direction":"up"}`)
	var moved movedResponse
	decodeBody(t, resp, &moved)
	if !moved.Moved || root.Children[1].ID != created.ID {
		t.Error("move up should swap with the previous sibling")
	}

	resp = do(t, http.MethodDelete, ts.URL+"/api/nodes/"+created.ID, "", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	if s.coord.Forest().Len() != 3 {
		t.Errorf("Len() = %d after delete", s.coord.Forest().Len())
	}
}

func TestCreateRootAndSibling(t *testing.T) {
	s, ts := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/api/nodes", "application/json", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create root status = %d", resp.StatusCode)
	}
	var first nodeResponse
	decodeBody(t, resp, &first)

	resp = do(t, http.MethodPost, ts.URL+"/api/nodes", "application/json", `{"after":"`+first.ID+`","text":"Second"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create sibling status = %d", resp.StatusCode)
	}
	roots := s.coord.Forest().Roots()
	if len(roots) != 2 || roots[1].Text != "Second" {
		t.Errorf("roots = %d", len(roots))
	}
}

func TestNodeErrors(t *testing.T) {
	_, ts := newTestServer(t)
	loadOutline(t, ts)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"unknown node", http.MethodPatch, "/api/nodes/nope", `{"text":"x"}`, http.StatusNotFound},
		{"unknown parent", http.MethodPost, "/api/nodes", `{"parent":"nope"}`, http.StatusNotFound},
		{"multiline text", http.MethodPost, "/api/nodes", `{"text":"a\nb"}`, http.StatusBadRequest},
		{"bad color", http.MethodPost, "/api/nodes", `{"color":"#12"}`, http.StatusBadRequest},
		{"bad body", http.MethodPost, "/api/nodes", `{`, http.StatusBadRequest},
		{"bad direction", http.MethodPost, "/api/nodes/nope/move", `{"direction":"left"}`, http.StatusBadRequest},
		{"unknown drag", http.MethodPost, "/api/nodes/nope/drop", `{"target":"x"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, ts.URL+tt.path, "application/json", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestFoldAndDrop(t *testing.T) {
	s, ts := newTestServer(t)
	loadOutline(t, ts)
	root := s.coord.Forest().First()
	packing, route := root.Children[0], root.Children[1]

	resp := do(t, http.MethodPost, ts.URL+"/api/nodes/"+root.ID+"/fold", "", "")
	var folded nodeResponse
	decodeBody(t, resp, &folded)
	if !folded.Collapsed {
		t.Error("fold should collapse the node")
	}

	resp = do(t, http.MethodPost, ts.URL+"/api/nodes/"+packing.ID+"/drop", "application/json", `{"target":"`+route.ID+`"}`)
	var moved movedResponse
	decodeBody(t, resp, &moved)
	if !moved.Moved || root.Children[1] != packing {
		t.Error("drop should place the dragged node after the target")
	}

	resp = do(t, http.MethodPost, ts.URL+"/api/nodes/"+root.ID+"/drop", "application/json", `{"target":"`+packing.ID+`"}`)
	decodeBody(t, resp, &moved)
	if moved.Moved {
		t.Error("dropping into the own subtree must be a no-op")
	}
	if s.coord.Dragging() {
		t.Error("a drop always ends the drag")
	}
}

func TestFrameAndRender(t *testing.T) {
	_, ts := newTestServer(t)
	loadOutline(t, ts)

	resp := do(t, http.MethodGet, ts.URL+"/api/frame", "", "")
	var frame struct {
		Mode       string            `json:"mode"`
		Nodes      []json.RawMessage `json:"nodes"`
		Connectors []json.RawMessage `json:"connectors"`
	}
	decodeBody(t, resp, &frame)
	if frame.Mode != "normal" || len(frame.Nodes) != 3 || len(frame.Connectors) != 2 {
		t.Errorf("frame = mode %q, %d nodes, %d connectors", frame.Mode, len(frame.Nodes), len(frame.Connectors))
	}

	for _, format := range []string{"svg", "txt", "dot", "md", "json"} {
		resp := do(t, http.MethodGet, ts.URL+"/api/render/"+format, "", "")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("render %s status = %d", format, resp.StatusCode)
			continue
		}
		body, _ := io.ReadAll(resp.Body)
		if !bytes.Contains(body, []byte("Packing")) {
			t.Errorf("render %s does not mention a label", format)
		}
	}
	resp = do(t, http.MethodGet, ts.URL+"/api/render/gif", "", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown format status = %d", resp.StatusCode)
	}
}

func TestPutView(t *testing.T) {
	s, ts := newTestServer(t)
	loadOutline(t, ts)

	resp := do(t, http.MethodPut, ts.URL+"/api/view", "application/json", `{"mode":"radial","zoom":"in","pan":"left"}`)
	var v viewResponse
	decodeBody(t, resp, &v)
	if v.Mode != "radial" || v.OffsetX != view.PanStep || v.Scale <= 1 {
		t.Errorf("view = %+v", v)
	}
	if s.coord.Mode() != view.Radial {
		t.Error("mode not applied")
	}

	resp = do(t, http.MethodPut, ts.URL+"/api/view", "application/json", `{"reset":true}`)
	decodeBody(t, resp, &v)
	if v.Scale != 1 || v.OffsetX != 0 {
		t.Errorf("reset view = %+v", v)
	}

	resp = do(t, http.MethodPut, ts.URL+"/api/view", "application/json", `{"mode":"tower"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad mode status = %d", resp.StatusCode)
	}
}

func TestPersistedSession(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	p := view.NewPersister(store, "", logger)

	s, ts := newTestServer(t, WithPersister(p), WithSaveDelay(10*time.Millisecond))
	loadOutline(t, ts)
	s.Close()

	restored := New(WithLogger(logger), WithPersister(p))
	defer restored.Close()
	ok, err := restored.Restore(context.Background())
	if err != nil || !ok {
		t.Fatalf("Restore() = %v, %v", ok, err)
	}
	if restored.coord.Forest().Len() != 3 {
		t.Errorf("restored %d nodes, want 3", restored.coord.Forest().Len())
	}
}

func TestConcurrentReadsAndEdits(t *testing.T) {
	s := New(WithLogger(log.New(io.Discard)))
	t.Cleanup(s.Close)
	if err := s.Load("markdown", []byte(outline)); err != nil {
		t.Fatal(err)
	}
	var rootID string
	s.locked(func() { rootID = s.coord.Current().ID })
	h := s.Handler()

	serve := func(method, target, body string) int {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	const rounds = 200
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if code := serve(http.MethodGet, "/api/map", ""); code != http.StatusOK {
				t.Errorf("GET /api/map = %d", code)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if code := serve(http.MethodGet, "/api/map/export", ""); code != http.StatusOK {
				t.Errorf("GET /api/map/export = %d", code)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			body := fmt.Sprintf(`{"text":"Trip %d"}`, i)
			if code := serve(http.MethodPatch, "/api/nodes/"+rootID, body); code != http.StatusOK {
				t.Errorf("PATCH = %d", code)
				return
			}
			serve(http.MethodPost, "/api/nodes", fmt.Sprintf(`{"parent":%q}`, rootID))
		}
	}()
	wg.Wait()

	var text string
	s.locked(func() { text = s.coord.Current().Text })
	if text == "" {
		t.Error("session lost its selection")
	}
}
