// Package combat implements the per-player CombatManager: the session
// state machine that locks a target NPC and fires projectiles at a
// configured cadence until stopped. The staged-intent shape mirrors the
// teacher's ability-gate pattern (stage an intent only if the gate
// allows it) without depending on its effect-contract types.
package combat

import (
	"time"

	"skyfleet/server/internal/apperr"
	"skyfleet/server/internal/state"
)

// FireCadence is the interval between automatic shots while a combat
// session is active.
const FireCadence = 600 * time.Millisecond

// RestartCooldown is how long after stop_combat a new incoming hit must
// wait before it is allowed to auto-start a fresh session.
const RestartCooldown = 3 * time.Second

// Manager owns combat session lifecycle for one map.
type Manager struct {
	store *state.Store
}

// NewManager constructs a Manager bound to store.
func NewManager(store *state.Store) *Manager {
	return &Manager{store: store}
}

// StartCombat begins a session for playerID against targetID, rejecting a
// second concurrent session for the same player and an unknown target.
func (m *Manager) StartCombat(playerID, targetID string, now time.Time) (*state.CombatSession, error) {
	if _, ok := m.store.NPC(targetID); !ok {
		return nil, apperr.ErrNPCNotFound
	}
	if _, ok := m.store.Session(playerID); ok {
		return nil, apperr.ErrMultipleCombatSessions
	}

	sess := &state.CombatSession{PlayerID: playerID, TargetID: targetID, LastAttackAt: now}
	m.store.SetSession(sess)
	return sess, nil
}

// StopCombat ends playerID's session, if any, and records the stop time on
// the player so RestartCooldown can be enforced.
func (m *Manager) StopCombat(player *state.Player, now time.Time) {
	m.store.RemoveSession(player.ClientID)
	player.LastCombatStop = now
}

// ShouldFire reports whether sess is due to fire at now, advancing
// LastAttackAt when it does.
func (m *Manager) ShouldFire(sess *state.CombatSession, now time.Time) bool {
	if now.Sub(sess.LastAttackAt) < FireCadence {
		return false
	}
	sess.LastAttackAt = now
	return true
}

// CanAutoStart reports whether damage received should be allowed to start
// a fresh combat session automatically, per the restart cooldown.
func CanAutoStart(player *state.Player, now time.Time) bool {
	if player.LastCombatStop.IsZero() {
		return true
	}
	return now.Sub(player.LastCombatStop) >= RestartCooldown
}

// Tick advances every active session for the map, invoking fire for each
// session that is due. Sessions whose target no longer exists are dropped.
func (m *Manager) Tick(now time.Time, fire func(playerID, targetID string)) {
	for playerID, p := range m.store.Players() {
		sess, ok := m.store.Session(playerID)
		if !ok {
			continue
		}
		if _, ok := m.store.NPC(sess.TargetID); !ok {
			m.store.RemoveSession(playerID)
			continue
		}
		if p.IsDead {
			m.store.RemoveSession(playerID)
			continue
		}
		if m.ShouldFire(sess, now) {
			fire(playerID, sess.TargetID)
		}
	}
}
