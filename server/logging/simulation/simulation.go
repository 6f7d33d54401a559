// Package simulation provides typed constructors for tick-scheduler events:
// overrun detection and resync alarms.
package simulation

import (
	"context"
	"time"

	"skyfleet/server/logging"
)

const (
	EventTickOverrun logging.EventType = "simulation.tick_overrun"
	EventTickAlarm   logging.EventType = "simulation.tick_alarm"
	EventMapStarted  logging.EventType = "simulation.map_started"
	EventMapStopped  logging.EventType = "simulation.map_stopped"
	EventMapCrashed  logging.EventType = "simulation.map_crashed"
)

// TickOverrun publishes a single tick whose step duration exceeded budget.
func TickOverrun(ctx context.Context, pub logging.Publisher, tick uint64, mapID string, budget, actual time.Duration) {
	pub.Publish(ctx, logging.Event{
		Type:     EventTickOverrun,
		Tick:     tick,
		Time:     time.Now(),
		MapID:    mapID,
		Actor:    logging.EntityRef{Kind: logging.EntityKindMap, ID: mapID},
		Severity: logging.SeverityWarn,
		Category: logging.CategorySimulation,
		Payload:  map[string]any{"budgetMs": budget.Milliseconds(), "actualMs": actual.Milliseconds()},
	})
}

// TickAlarm publishes a sustained overrun streak: the scheduler has fallen
// far enough behind that it is catching up rather than ticking live.
func TickAlarm(ctx context.Context, pub logging.Publisher, tick uint64, mapID string, streak int, ratio float64) {
	pub.Publish(ctx, logging.Event{
		Type:     EventTickAlarm,
		Tick:     tick,
		Time:     time.Now(),
		MapID:    mapID,
		Actor:    logging.EntityRef{Kind: logging.EntityKindMap, ID: mapID},
		Severity: logging.SeverityError,
		Category: logging.CategorySimulation,
		Payload:  map[string]any{"streak": streak, "ratio": ratio},
	})
}

// MapStarted publishes the start of a map's tick scheduler goroutine.
func MapStarted(ctx context.Context, pub logging.Publisher, mapID string) {
	pub.Publish(ctx, logging.Event{
		Type:     EventMapStarted,
		Time:     time.Now(),
		MapID:    mapID,
		Actor:    logging.EntityRef{Kind: logging.EntityKindMap, ID: mapID},
		Severity: logging.SeverityInfo,
		Category: logging.CategorySimulation,
	})
}

// MapStopped publishes a map's tick scheduler goroutine returning.
func MapStopped(ctx context.Context, pub logging.Publisher, mapID string) {
	pub.Publish(ctx, logging.Event{
		Type:     EventMapStopped,
		Time:     time.Now(),
		MapID:    mapID,
		Actor:    logging.EntityRef{Kind: logging.EntityKindMap, ID: mapID},
		Severity: logging.SeverityInfo,
		Category: logging.CategorySimulation,
	})
}

// MapCrashed publishes a map's tick scheduler goroutine recovering from a
// panic. The caller restarts the loop immediately after; this event is
// the only record that the restart happened.
func MapCrashed(ctx context.Context, pub logging.Publisher, mapID string, reason string) {
	pub.Publish(ctx, logging.Event{
		Type:     EventMapCrashed,
		Time:     time.Now(),
		MapID:    mapID,
		Actor:    logging.EntityRef{Kind: logging.EntityKindMap, ID: mapID},
		Severity: logging.SeverityError,
		Category: logging.CategorySimulation,
		Payload:  map[string]any{"reason": reason},
	})
}
