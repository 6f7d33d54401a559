// Package ai provides typed constructors for NPC behavior-state events.
package ai

import (
	"context"
	"time"

	"skyfleet/server/logging"
)

const (
	EventStateTransition logging.EventType = "ai.state_transition"
)

// StateTransition publishes an NPC switching behavior states, e.g.
// cruise -> aggressive on aggro acquisition, or aggressive -> flee on a
// low-health threshold crossing.
func StateTransition(ctx context.Context, pub logging.Publisher, tick uint64, mapID string, npc logging.EntityRef, from, to string) {
	pub.Publish(ctx, logging.Event{
		Type:     EventStateTransition,
		Tick:     tick,
		Time:     time.Now(),
		MapID:    mapID,
		Actor:    npc,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryAI,
		Payload:  map[string]any{"from": from, "to": to},
	})
}
