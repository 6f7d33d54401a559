// Package http builds the chi router exposing the server's HTTP surface:
// health/diagnostics endpoints, the WebSocket upgrade route, Prometheus
// metrics, and the pprof debug routes. Grounded on the teacher's
// main.go (/health, /diagnostics, /join as plain handlers) and
// internal/net/http_handlers.go (the gated /debug/pprof/trace route),
// rebuilt on go-chi/chi and go-chi/cors rather than a bare
// http.ServeMux since the rest of the pack reaches for chi for exactly
// this purpose. /metrics is served by the app's telemetry.Collector
// rather than the global prometheus registry, so tests never collide on
// metric names across independently constructed Apps.
package http

import (
	"encoding/json"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"skyfleet/server/internal/app"
	"skyfleet/server/internal/config"
	"skyfleet/server/internal/net/ws"
)

// diagnosticsPlayer is one row of the /diagnostics player list, mirroring
// the shape of the teacher's own diagnosticsPlayer summary struct.
type diagnosticsPlayer struct {
	ClientID string  `json:"clientId"`
	MapID    string  `json:"mapId"`
	Health   float64 `json:"health"`
	Shield   float64 `json:"shield"`
}

// NewRouter builds the full HTTP surface for a. wsHandler serves the
// upgrade at /ws. obs gates the operator-only /debug/pprof/trace endpoint,
// mirroring the teacher's EnablePprofTrace toggle; the other /debug/pprof
// routes are always mounted.
func NewRouter(a *app.App, wsHandler *ws.Handler, obs config.Observability) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Get("/debug/pprof/", pprof.Index)
	r.Get("/debug/pprof/cmdline", pprof.Cmdline)
	r.Get("/debug/pprof/profile", pprof.Profile)
	r.Get("/debug/pprof/symbol", pprof.Symbol)
	r.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
	r.Handle("/debug/pprof/heap", pprof.Handler("heap"))
	r.Handle("/debug/pprof/allocs", pprof.Handler("allocs"))
	if obs.EnablePprofTrace {
		r.Get("/debug/pprof/trace", pprof.Trace)
	} else {
		r.Get("/debug/pprof/trace", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "pprof trace disabled", http.StatusNotFound)
		})
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	r.Get("/diagnostics", func(w http.ResponseWriter, req *http.Request) {
		var players []diagnosticsPlayer
		for mapID, m := range a.Maps() {
			for _, p := range m.Store().Players() {
				players = append(players, diagnosticsPlayer{
					ClientID: p.ClientID,
					MapID:    mapID,
					Health:   p.Health,
					Shield:   p.Shield,
				})
			}
		}
		payload := struct {
			Status     string              `json:"status"`
			ServerTime int64               `json:"serverTime"`
			Players    []diagnosticsPlayer `json:"players"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			Players:    players,
		}
		data, err := json.Marshal(payload)
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	r.Handle("/metrics", a.Telemetry.Handler())
	r.Get("/ws", wsHandler.ServeHTTP)

	return r
}
