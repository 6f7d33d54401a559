// Package hazard implements the HazardManager: environmental
// damage-over-time applied to players standing inside a hazard region.
// The per-second-rate-times-tick-duration delta is grounded on the
// teacher's burning status effect (internal/effects/contract_burning_damage.go),
// generalized from a timed status effect instance to a static world
// region a player simply occupies or doesn't.
package hazard

import (
	"time"

	"skyfleet/server/internal/state"
)

// Region is a circular area that damages any player inside it every
// tick, removed the instant the player leaves or disconnects.
type Region struct {
	ID              string
	Center          state.Vec2
	Radius          float64
	DamagePerSecond float64
}

// Tick is one player's damage-over-time exposure for the current tick.
type Tick struct {
	PlayerID string
	Damage   float64
}

// Manager tracks the static hazard regions for one map and which players
// currently occupy them.
type Manager struct {
	regions map[string]Region
	inside  map[string]string // playerID -> regionID
}

// NewManager constructs a Manager with the given regions.
func NewManager(regions []Region) *Manager {
	m := &Manager{regions: make(map[string]Region, len(regions)), inside: make(map[string]string)}
	for _, r := range regions {
		m.regions[r.ID] = r
	}
	return m
}

// Advance evaluates hazard exposure for every live player this tick,
// returning the damage to apply for players currently inside a region.
// Players who left their region (or disconnected) are forgotten.
func (m *Manager) Advance(store *state.Store, dt time.Duration) []Tick {
	var ticks []Tick
	seen := make(map[string]bool, len(m.inside))

	for playerID, player := range store.Players() {
		if player.IsDead {
			delete(m.inside, playerID)
			continue
		}
		region, ok := m.regionContaining(player.Position)
		if !ok {
			delete(m.inside, playerID)
			continue
		}
		m.inside[playerID] = region.ID
		seen[playerID] = true
		ticks = append(ticks, Tick{PlayerID: playerID, Damage: region.DamagePerSecond * dt.Seconds()})
	}

	for playerID := range m.inside {
		if !seen[playerID] {
			delete(m.inside, playerID)
		}
	}

	return ticks
}

func (m *Manager) regionContaining(pos state.Vec2) (Region, bool) {
	for _, r := range m.regions {
		dx := pos.X - r.Center.X
		dy := pos.Y - r.Center.Y
		if dx*dx+dy*dy <= r.Radius*r.Radius {
			return r, true
		}
	}
	return Region{}, false
}
