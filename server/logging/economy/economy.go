// Package economy provides typed constructors for economy-category events:
// reward grants, skipped reward replays and cargo pickups.
package economy

import (
	"context"
	"time"

	"skyfleet/server/logging"
)

const (
	EventRewardGranted  logging.EventType = "economy.reward_granted"
	EventRewardSkipped  logging.EventType = "economy.reward_skipped"
	EventCargoSpawned   logging.EventType = "economy.cargo_spawned"
	EventCargoCollected logging.EventType = "economy.cargo_collected"
)

// RewardGranted publishes a successful, first-time reward grant for a
// killOpId. Callers must only emit this once per killOpId; the reward
// pipeline's idempotency guarantee depends on it.
func RewardGranted(ctx context.Context, pub logging.Publisher, tick uint64, mapID string, recipient logging.EntityRef, killOpID string, credits, experience, honor int64) {
	pub.Publish(ctx, logging.Event{
		Type:      EventRewardGranted,
		Tick:      tick,
		Time:      time.Now(),
		MapID:     mapID,
		Actor:     recipient,
		Severity:  logging.SeverityInfo,
		Category:  logging.CategoryEconomy,
		CommandID: killOpID,
		Payload:   map[string]any{"credits": credits, "experience": experience, "honor": honor},
	})
}

// RewardSkipped publishes a replayed killOpId that was rejected by the
// idempotency guard.
func RewardSkipped(ctx context.Context, pub logging.Publisher, tick uint64, mapID string, recipient logging.EntityRef, killOpID string) {
	pub.Publish(ctx, logging.Event{
		Type:      EventRewardSkipped,
		Tick:      tick,
		Time:      time.Now(),
		MapID:     mapID,
		Actor:     recipient,
		Severity:  logging.SeverityDebug,
		Category:  logging.CategoryEconomy,
		CommandID: killOpID,
	})
}

// CargoCollected publishes a successful cargo box pickup.
func CargoCollected(ctx context.Context, pub logging.Publisher, tick uint64, mapID string, collector, box logging.EntityRef) {
	pub.Publish(ctx, logging.Event{
		Type:     EventCargoCollected,
		Tick:     tick,
		Time:     time.Now(),
		MapID:    mapID,
		Actor:    collector,
		Targets:  []logging.EntityRef{box},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
	})
}
