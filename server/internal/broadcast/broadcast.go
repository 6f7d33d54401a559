// Package broadcast implements the Broadcaster: serialize-once fan-out
// of outbound frames to connected players, with an interest-scoped
// radius variant for hot channels. Grounded on the teacher's
// Hub.broadcastState (serialize once, copy the subscriber set under
// lock, skip write errors as closed sockets) generalized from a single
// global broadcast to an explicit broadcastToMap/broadcastNear split.
package broadcast

import (
	"sync"

	"skyfleet/server/internal/state"
)

// DefaultGlobalRadius is used for map-wide interest-scoped channels like
// NPC spawn announcements.
const DefaultGlobalRadius = 50000.0

// DefaultLocalRadius is used for local effect channels like explosions.
const DefaultLocalRadius = 2000.0

// Sender is the minimal per-connection write capability a Broadcaster
// needs; satisfied by a WebSocket connection wrapper.
type Sender interface {
	// Send writes a pre-serialized frame. Implementations must report a
	// closed or broken connection as an error so the Broadcaster can
	// evict it.
	Send(data []byte) error
}

// Broadcaster fans out pre-serialized frames to every player on one map,
// or to those within a radius of a point.
type Broadcaster struct {
	mu      sync.Mutex
	senders map[string]Sender
}

// New constructs an empty Broadcaster.
func New() *Broadcaster {
	return &Broadcaster{senders: make(map[string]Sender)}
}

// Register associates clientID with its connection sender.
func (b *Broadcaster) Register(clientID string, sender Sender) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.senders[clientID] = sender
}

// Unregister removes clientID, e.g. on disconnect.
func (b *Broadcaster) Unregister(clientID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.senders, clientID)
}

func (b *Broadcaster) snapshot() map[string]Sender {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]Sender, len(b.senders))
	for id, s := range b.senders {
		out[id] = s
	}
	return out
}

// ToMap sends data to every registered player except exclude (pass "" to
// exclude no one), evicting any sender whose write fails.
func (b *Broadcaster) ToMap(data []byte, exclude string) {
	for clientID, sender := range b.snapshot() {
		if clientID == exclude {
			continue
		}
		if err := sender.Send(data); err != nil {
			b.Unregister(clientID)
		}
	}
}

// Near sends data only to players in store within radius of pos, using a
// squared-distance test to avoid a sqrt per candidate.
func (b *Broadcaster) Near(store *state.Store, pos state.Vec2, radius float64, data []byte, exclude string) {
	radiusSq := radius * radius
	for clientID, sender := range b.snapshot() {
		if clientID == exclude {
			continue
		}
		player, ok := store.Player(clientID)
		if !ok {
			continue
		}
		dx := player.Position.X - pos.X
		dy := player.Position.Y - pos.Y
		if dx*dx+dy*dy > radiusSq {
			continue
		}
		if err := sender.Send(data); err != nil {
			b.Unregister(clientID)
		}
	}
}
