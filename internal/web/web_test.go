package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"colcal/internal/agenda"
	"colcal/internal/config"
	"colcal/internal/grid"
	"colcal/internal/model"
	"colcal/internal/view"
)

func newTestServer(t *testing.T, printed bool, refresh func(context.Context) error) (*Server, *config.Config) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Capture.Output = filepath.Join(t.TempDir(), "preview.png")

	opts, err := cfg.GridOptions()
	if err != nil {
		t.Fatal(err)
	}
	g, err := grid.New(opts)
	if err != nil {
		t.Fatal(err)
	}
	v := view.New(g)
	if printed {
		events := []model.Event{
			{StartHour: 9, EndHour: 10, Title: "Standup"},
			{StartHour: 9, StartMinutes: 30, EndHour: 11, Title: "Review"},
		}
		if _, err := v.Print(events, agenda.Single("Today"), nil); err != nil {
			t.Fatal(err)
		}
	}
	return NewServer(cfg, v, refresh), cfg
}

func get(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, false, nil)
	rec := get(t, s.Handler(), http.MethodGet, "/health")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("GET /health = %d %q", rec.Code, rec.Body.String())
	}
}

func TestNotRenderedYet(t *testing.T) {
	s, _ := newTestServer(t, false, nil)
	for _, path := range []string{"/calendar", "/calendar.svg", "/api/layout"} {
		if rec := get(t, s.Handler(), http.MethodGet, path); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("GET %s = %d, want 503", path, rec.Code)
		}
	}
}

func TestLayoutJSON(t *testing.T) {
	s, _ := newTestServer(t, true, nil)
	rec := get(t, s.Handler(), http.MethodGet, "/api/layout")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/layout = %d", rec.Code)
	}

	var snap view.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Result.Columns) != 1 {
		t.Fatalf("columns = %d, want 1", len(snap.Result.Columns))
	}
	if got := len(snap.Result.Columns[0].Lanes); got != 2 {
		t.Errorf("lanes = %d, want 2", got)
	}
	if snap.RowCount != 36 {
		t.Errorf("RowCount = %d, want 36", snap.RowCount)
	}
}

func TestCalendarPages(t *testing.T) {
	s, _ := newTestServer(t, true, nil)

	rec := get(t, s.Handler(), http.MethodGet, "/calendar")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /calendar = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `data-ready="true"`) || !strings.Contains(rec.Body.String(), "Standup") {
		t.Errorf("unexpected HTML body: %s", rec.Body.String())
	}

	rec = get(t, s.Handler(), http.MethodGet, "/calendar.svg")
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}

	rec = get(t, s.Handler(), http.MethodGet, "/")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/calendar" {
		t.Errorf("GET / = %d -> %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestPointer(t *testing.T) {
	s, _ := newTestServer(t, true, nil)
	rec := get(t, s.Handler(), http.MethodGet, "/api/pointer")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/pointer = %d", rec.Code)
	}
	var st view.PointerState
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.At.IsZero() {
		t.Error("pointer was never ticked")
	}
}

func TestRefresh(t *testing.T) {
	t.Run("view rerun", func(t *testing.T) {
		s, _ := newTestServer(t, true, nil)
		if rec := get(t, s.Handler(), http.MethodPost, "/api/refresh"); rec.Code != http.StatusOK {
			t.Errorf("POST /api/refresh = %d", rec.Code)
		}
		if rec := get(t, s.Handler(), http.MethodGet, "/api/refresh"); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET /api/refresh = %d, want 405", rec.Code)
		}
	})

	t.Run("hook error", func(t *testing.T) {
		called := false
		s, _ := newTestServer(t, true, func(context.Context) error {
			called = true
			return errors.New("upstream down")
		})
		rec := get(t, s.Handler(), http.MethodPost, "/api/refresh")
		if !called {
			t.Fatal("refresh hook not called")
		}
		if rec.Code != http.StatusBadGateway || !strings.Contains(rec.Body.String(), "upstream down") {
			t.Errorf("POST /api/refresh = %d %s", rec.Code, rec.Body.String())
		}
	})
}

func TestPreview(t *testing.T) {
	s, cfg := newTestServer(t, false, nil)

	if rec := get(t, s.Handler(), http.MethodGet, "/preview.png"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /preview.png before capture = %d, want 404", rec.Code)
	}

	png := []byte("\x89PNG\r\n\x1a\nfake")
	if err := os.WriteFile(cfg.Capture.Output, png, 0o644); err != nil {
		t.Fatal(err)
	}
	rec := get(t, s.Handler(), http.MethodGet, "/preview.png")
	if rec.Code != http.StatusOK || rec.Body.String() != string(png) {
		t.Errorf("GET /preview.png = %d, %d bytes", rec.Code, rec.Body.Len())
	}
}

func TestBasicAuth(t *testing.T) {
	s, cfg := newTestServer(t, true, nil)
	cfg.BasicAuth = &config.BasicAuthConfig{Username: "admin", Password: "s3cret"}
	h := s.Handler()

	if rec := get(t, h, http.MethodGet, "/health"); rec.Code != http.StatusOK {
		t.Errorf("GET /health = %d, want 200 without credentials", rec.Code)
	}
	rec := get(t, h, http.MethodGet, "/api/layout")
	if rec.Code != http.StatusUnauthorized || rec.Header().Get("WWW-Authenticate") == "" {
		t.Errorf("GET /api/layout without credentials = %d", rec.Code)
	}

	tests := []struct {
		user, pass string
		want       int
	}{
		{"admin", "s3cret", http.StatusOK},
		{"admin", "wrong", http.StatusUnauthorized},
		{"root", "s3cret", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/layout", nil)
		req.SetBasicAuth(tt.user, tt.pass)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%s:%s -> %d, want %d", tt.user, tt.pass, rec.Code, tt.want)
		}
	}
}

func TestBasicAuth_EmptyPasswordDisables(t *testing.T) {
	s, cfg := newTestServer(t, true, nil)
	cfg.BasicAuth = &config.BasicAuthConfig{Username: "admin"}
	if rec := get(t, s.Handler(), http.MethodGet, "/api/layout"); rec.Code != http.StatusOK {
		t.Errorf("GET /api/layout = %d, want 200", rec.Code)
	}
}
