// Package lifecycle provides typed constructors for session and entity
// lifecycle events: join, disconnect, respawn.
package lifecycle

import (
	"context"
	"time"

	"skyfleet/server/logging"
)

const (
	EventPlayerJoined     logging.EventType = "lifecycle.player_joined"
	EventPlayerDisconnected logging.EventType = "lifecycle.player_disconnected"
	EventPlayerRespawned  logging.EventType = "lifecycle.player_respawned"
	EventNPCSpawned       logging.EventType = "lifecycle.npc_spawned"
)

// PlayerJoined publishes a successful session establishment.
func PlayerJoined(ctx context.Context, pub logging.Publisher, mapID string, player logging.EntityRef) {
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerJoined,
		Time:     time.Now(),
		MapID:    mapID,
		Actor:    player,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
	})
}

// PlayerDisconnected publishes session teardown, with the reason recorded
// for operators debugging unexpected churn.
func PlayerDisconnected(ctx context.Context, pub logging.Publisher, mapID string, player logging.EntityRef, reason string) {
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerDisconnected,
		Time:     time.Now(),
		MapID:    mapID,
		Actor:    player,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  map[string]any{"reason": reason},
	})
}

// PlayerRespawned publishes a successful respawn after destruction.
func PlayerRespawned(ctx context.Context, pub logging.Publisher, tick uint64, mapID string, player logging.EntityRef) {
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerRespawned,
		Tick:     tick,
		Time:     time.Now(),
		MapID:    mapID,
		Actor:    player,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
	})
}
