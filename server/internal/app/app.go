// Package app is the composition root: it builds every map's simulation
// from static configuration, starts one supervised tick goroutine per
// map, and owns the logging router's lifecycle. Grounded on the
// teacher's main.go (logging.NewRouter wiring, hub.RunSimulation started
// in its own goroutine, a stop channel closed on shutdown), generalized
// from a single Hub to an errgroup-supervised set of Maps.
package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"skyfleet/server/internal/config"
	"skyfleet/server/internal/hazard"
	"skyfleet/server/internal/ports"
	"skyfleet/server/internal/ports/memory"
	"skyfleet/server/internal/sim"
	"skyfleet/server/internal/telemetry"
	"skyfleet/server/logging"
	loggingsimulation "skyfleet/server/logging/simulation"
)

// MapSpec describes one map instance to start: its id, the config row it
// runs under, and any static hazard regions on it.
type MapSpec struct {
	ID      string
	Config  config.Config
	Hazards []hazard.Region
}

// App owns the set of running maps and the shared ports every map's
// session layer depends on.
type App struct {
	Publisher   logging.Publisher
	PlayerStore ports.PlayerStore
	TokenVerify ports.TokenVerifier

	// Metrics, when set before AddMap is called, is attached to every
	// map so its tick scheduler can report per-tick counters. Left nil
	// in tests that don't care about telemetry.
	Metrics telemetry.Metrics

	// Telemetry is the Prometheus collector backing /metrics. New always
	// constructs one so a map always has somewhere to report tick
	// duration and entity counts, even outside of cmd/server.
	Telemetry *telemetry.Collector

	maps map[string]*sim.Map
}

// New constructs an App with the zero-config in-memory port defaults,
// matching the teacher's no-database-required stance (main.go never
// talks to a real store either).
func New(pub logging.Publisher) *App {
	if pub == nil {
		pub = logging.NopPublisher{}
	}
	return &App{
		Publisher:   pub,
		PlayerStore: memory.NewPlayerStore(),
		TokenVerify: memory.NewTokenVerifier(),
		Telemetry:   telemetry.NewCollector(),
		maps:        make(map[string]*sim.Map),
	}
}

// AddMap constructs and registers a Map from spec. It must be called
// before Run.
func (a *App) AddMap(spec MapSpec) (*sim.Map, error) {
	if spec.ID == "" {
		return nil, fmt.Errorf("app: map spec requires a non-empty ID")
	}
	if _, exists := a.maps[spec.ID]; exists {
		return nil, fmt.Errorf("app: map %q already registered", spec.ID)
	}
	m := sim.NewMap(spec.ID, spec.Config, a.Publisher, spec.Hazards, nil)
	if a.Metrics != nil {
		m.SetMetrics(a.Metrics)
	}
	if a.Telemetry != nil {
		m.SetCollector(a.Telemetry)
	}
	a.maps[spec.ID] = m
	return m, nil
}

// Map looks up a previously-registered map by id.
func (a *App) Map(id string) (*sim.Map, bool) {
	m, ok := a.maps[id]
	return m, ok
}

// Maps returns every registered map, for the network layer to wire
// routes against.
func (a *App) Maps() map[string]*sim.Map {
	return a.maps
}

// Run starts every registered map's tick loop in its own supervised
// goroutine and blocks until ctx is canceled. Deliberately does not use
// errgroup.WithContext: that would cancel every other map's context the
// moment one map's goroutine returns, turning one map's crash into an
// outage for all of them. Each map instead gets its own restart loop
// (runMap) and the plain ctx passed in, so a panic is isolated to the
// map that caused it.
func (a *App) Run(ctx context.Context) error {
	var group errgroup.Group

	for id, m := range a.maps {
		id, m := id, m
		group.Go(func() error {
			a.runMap(ctx, id, m)
			return nil
		})
	}

	return group.Wait()
}

// runMap drives m's tick loop until ctx is canceled, restarting it after
// any panic rather than letting one bad tick take the map down for good.
func (a *App) runMap(ctx context.Context, id string, m *sim.Map) {
	for ctx.Err() == nil {
		if crashed := a.runMapOnce(ctx, id, m); crashed != nil {
			loggingsimulation.MapCrashed(ctx, a.Publisher, id, crashed.Error())
		}
	}
}

// runMapOnce runs one attempt at m.RunLoop, recovering a panic into a
// returned error instead of propagating it.
func (a *App) runMapOnce(ctx context.Context, id string, m *sim.Map) error {
	return recoverPanic(id, func() { m.RunLoop(ctx) })
}

// recoverPanic runs fn and turns any panic into an error tagged with id,
// the map that owned the panicking goroutine.
func recoverPanic(id string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("app: map %q tick loop panicked: %v", id, r)
		}
	}()
	fn()
	return nil
}
