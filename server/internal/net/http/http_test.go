package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"skyfleet/server/internal/app"
	"skyfleet/server/internal/config"
	"skyfleet/server/internal/net/router"
	"skyfleet/server/internal/net/session"
	"skyfleet/server/internal/net/ws"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	a := app.New(nil)
	if _, err := a.AddMap(app.MapSpec{ID: "map-1", Config: config.Default()}); err != nil {
		t.Fatalf("unexpected error registering map: %v", err)
	}
	mgr := session.NewManager(a, a.PlayerStore, a.TokenVerify, a.Publisher)
	r := router.New()
	session.RegisterHandlers(r, mgr)
	wsHandler := ws.NewHandler(mgr, r, nil)
	return NewRouter(a, wsHandler, config.Observability{})
}

func TestHealthzReturnsOK(t *testing.T) {
	handler := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}

func TestDiagnosticsReturnsJSON(t *testing.T) {
	handler := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/diagnostics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type: %q", ct)
	}
}

func TestMetricsIsServed(t *testing.T) {
	handler := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPprofTraceDisabledByDefault(t *testing.T) {
	handler := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/trace", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected trace to be disabled by default, got %d", rec.Code)
	}
}

func TestPprofIndexIsServed(t *testing.T) {
	handler := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
