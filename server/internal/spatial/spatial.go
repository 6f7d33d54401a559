// Package spatial implements proximity queries used by the NPC AI: "who is
// near this point". The default
// implementation is a naive O(N·M) scan over entity positions; Query is an
// interface so a grid or quadtree can replace it without touching callers.
package spatial

import "skyfleet/server/internal/state"

// Point is anything with a world-space position.
type Point struct {
	X, Y float64
}

// Query answers proximity questions against a Store's live entities.
type Query interface {
	// PlayersWithin returns the clientIds of players within radius of center.
	PlayersWithin(store *state.Store, center Point, radius float64) []string
	// NPCsWithin returns the ids of NPCs within radius of center.
	NPCsWithin(store *state.Store, center Point, radius float64) []string
	// NearestNPC returns the id of the closest NPC to center within radius,
	// and false if none qualify.
	NearestNPC(store *state.Store, center Point, radius float64) (string, bool)
	// NearestPlayer returns the id of the closest player to center within
	// radius, and false if none qualify.
	NearestPlayer(store *state.Store, center Point, radius float64) (string, bool)
}

// Naive is the default O(N·M) Query implementation: a linear scan with a
// squared-distance comparison to avoid a sqrt per pair.
type Naive struct{}

// PlayersWithin implements Query.
func (Naive) PlayersWithin(store *state.Store, center Point, radius float64) []string {
	r2 := radius * radius
	var out []string
	for id, p := range store.Players() {
		if withinSquared(center, p.Position, r2) {
			out = append(out, id)
		}
	}
	return out
}

// NPCsWithin implements Query.
func (Naive) NPCsWithin(store *state.Store, center Point, radius float64) []string {
	r2 := radius * radius
	var out []string
	for id, n := range store.NPCs() {
		if withinSquared(center, n.Position, r2) {
			out = append(out, id)
		}
	}
	return out
}

// NearestNPC implements Query.
func (Naive) NearestNPC(store *state.Store, center Point, radius float64) (string, bool) {
	r2 := radius * radius
	bestID := ""
	bestDist := r2
	found := false
	for id, n := range store.NPCs() {
		dx := n.Position.X - center.X
		dy := n.Position.Y - center.Y
		d2 := dx*dx + dy*dy
		if d2 <= bestDist {
			bestDist = d2
			bestID = id
			found = true
		}
	}
	return bestID, found
}

// NearestPlayer implements Query.
func (Naive) NearestPlayer(store *state.Store, center Point, radius float64) (string, bool) {
	r2 := radius * radius
	bestID := ""
	bestDist := r2
	found := false
	for id, p := range store.Players() {
		dx := p.Position.X - center.X
		dy := p.Position.Y - center.Y
		d2 := dx*dx + dy*dy
		if d2 <= bestDist {
			bestDist = d2
			bestID = id
			found = true
		}
	}
	return bestID, found
}

func withinSquared(center Point, pos state.Vec2, r2 float64) bool {
	dx := pos.X - center.X
	dy := pos.Y - center.Y
	return dx*dx+dy*dy <= r2
}
