// Command server is the process entrypoint: it wires the logging
// router, builds the App with one default map, starts every map's tick
// loop, and serves the HTTP/WebSocket surface. Grounded on the teacher's
// main.go (logging.NewRouter construction, starting the simulation
// goroutine, then serving HTTP), generalized to the App/Map split.
package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skyfleet/server/internal/app"
	"skyfleet/server/internal/config"
	nethttp "skyfleet/server/internal/net/http"
	"skyfleet/server/internal/net/session"
	"skyfleet/server/internal/net/router"
	"skyfleet/server/internal/net/ws"
	"skyfleet/server/internal/telemetry"
	"skyfleet/server/logging"
	loggingsinks "skyfleet/server/logging/sinks"
)

func main() {
	logConfig := logging.DefaultConfig()
	sinks := map[string]logging.Sink{
		"console": loggingsinks.NewConsole(os.Stdout, logging.ConsoleConfig{}),
	}
	logRouter, err := logging.NewRouter(logConfig, logging.SystemClock{}, stdlog.Default(), sinks)
	if err != nil {
		stdlog.Fatalf("failed to construct logging router: %v", err)
	}
	defer func() {
		if cerr := logRouter.Close(context.Background()); cerr != nil {
			stdlog.Printf("failed to close logging router: %v", cerr)
		}
	}()

	cfg := config.Default()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			stdlog.Fatalf("failed to load config from %s: %v", path, err)
		}
		cfg = loaded
	}

	a := app.New(logRouter)
	a.Metrics = telemetry.WrapMetrics(logRouter.Metrics())
	if _, err := a.AddMap(app.MapSpec{ID: "map-1", Config: cfg}); err != nil {
		stdlog.Fatalf("failed to register map-1: %v", err)
	}

	sessions := session.NewManager(a, a.PlayerStore, a.TokenVerify, a.Publisher)
	sessions.Telemetry = a.Telemetry
	msgRouter := router.New()
	session.RegisterHandlers(msgRouter, sessions)
	wsHandler := ws.NewHandler(sessions, msgRouter, stdlog.Default())

	httpServer := &http.Server{
		Addr:    ":8080",
		Handler: nethttp.NewRouter(a, wsHandler, cfg.Observability),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(config.PersistInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sessions.PersistAll(ctx)
			}
		}
	}()

	go func() {
		if err := a.Run(ctx); err != nil {
			stdlog.Printf("simulation stopped: %v", err)
		}
	}()

	go func() {
		stdlog.Printf("listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			stdlog.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		stdlog.Printf("http server shutdown error: %v", err)
	}
}
