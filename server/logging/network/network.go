// Package network provides typed constructors for transport-layer events:
// rate limiting, malformed messages, and slow-consumer disconnects.
package network

import (
	"context"
	"time"

	"skyfleet/server/logging"
)

const (
	EventRateLimited   logging.EventType = "network.rate_limited"
	EventMessageRejected logging.EventType = "network.message_rejected"
	EventSlowConsumer  logging.EventType = "network.slow_consumer"
)

// RateLimited publishes a dropped inbound message due to token bucket
// exhaustion for the given connection.
func RateLimited(ctx context.Context, pub logging.Publisher, mapID string, player logging.EntityRef, messageType string) {
	pub.Publish(ctx, logging.Event{
		Type:     EventRateLimited,
		Time:     time.Now(),
		MapID:    mapID,
		Actor:    player,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryNetwork,
		Payload:  map[string]any{"messageType": messageType},
	})
}

// MessageRejected publishes a message that failed routing or validation,
// with the reason given back to the client alongside.
func MessageRejected(ctx context.Context, pub logging.Publisher, mapID string, player logging.EntityRef, messageType, reason string) {
	pub.Publish(ctx, logging.Event{
		Type:     EventMessageRejected,
		Time:     time.Now(),
		MapID:    mapID,
		Actor:    player,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryNetwork,
		Payload:  map[string]any{"messageType": messageType, "reason": reason},
	})
}

// SlowConsumer publishes a forced disconnect of a connection whose outbound
// buffer could not drain before the write deadline.
func SlowConsumer(ctx context.Context, pub logging.Publisher, mapID string, player logging.EntityRef) {
	pub.Publish(ctx, logging.Event{
		Type:     EventSlowConsumer,
		Time:     time.Now(),
		MapID:    mapID,
		Actor:    player,
		Severity: logging.SeverityError,
		Category: logging.CategoryNetwork,
	})
}
