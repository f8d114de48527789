package web

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"colcal/internal/config"
	appLog "colcal/internal/log"
	"colcal/internal/render"
	"colcal/internal/view"
)

const shutdownTimeout = 5 * time.Second

// Server exposes the calendar view over HTTP.
//
//	GET  /health        liveness, never behind auth
//	GET  /calendar      HTML page (captured for the PNG preview)
//	GET  /calendar.svg  SVG rendering
//	GET  /api/layout    last layout as JSON
//	GET  /api/pointer   current-time marker as JSON
//	POST /api/refresh   reload sources (or rerun the last layout)
//	GET  /preview.png   last captured PNG
type Server struct {
	cfg         *config.Config
	view        *view.View
	previewPath string
	refresh     func(ctx context.Context) error
	mux         *http.ServeMux
}

// NewServer constructs a new Server. refresh may be nil, in which case
// /api/refresh reruns the view's last layout.
func NewServer(cfg *config.Config, v *view.View, refresh func(ctx context.Context) error) *Server {
	s := &Server{
		cfg:         cfg,
		view:        v,
		previewPath: cfg.Capture.Output,
		refresh:     refresh,
		mux:         http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Listen, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password disables auth.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="colcal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /calendar", s.handleCalendarHTML)
	s.mux.HandleFunc("GET /calendar.svg", s.handleCalendarSVG)
	s.mux.HandleFunc("GET /api/layout", s.handleLayout)
	s.mux.HandleFunc("GET /api/pointer", s.handlePointer)
	s.mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	s.mux.HandleFunc("GET /preview.png", s.handlePreview)
	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/calendar", http.StatusFound)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleCalendarHTML(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.view.Last()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "calendar not rendered yet")
		return
	}
	var buf bytes.Buffer
	if err := render.HTML(&buf, s.view.Grid(), snap, s.view.Pointer()); err != nil {
		appLog.Error("render html failed", err)
		writeError(w, http.StatusInternalServerError, "failed to render calendar")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleCalendarSVG(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.view.Last()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "calendar not rendered yet")
		return
	}
	var buf bytes.Buffer
	if err := render.SVG(&buf, s.view.Grid(), snap, s.view.Pointer()); err != nil {
		appLog.Error("render svg failed", err)
		writeError(w, http.StatusInternalServerError, "failed to render calendar")
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleLayout(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.view.Last()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "calendar not rendered yet")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handlePointer(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.view.Pointer())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var err error
	if s.refresh != nil {
		err = s.refresh(r.Context())
	} else {
		_, err = s.view.Refresh()
	}
	if err != nil {
		appLog.Error("api refresh failed", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	snap, _ := s.view.Last()
	writeJSON(w, http.StatusOK, snap)
}

// handlePreview serves the last captured PNG; http.ServeFile answers 404
// when no capture has been made.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, s.previewPath)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
