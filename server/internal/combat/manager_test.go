package combat

import (
	"testing"
	"time"

	"skyfleet/server/internal/apperr"
	"skyfleet/server/internal/state"
)

func TestStartCombatRejectsUnknownTarget(t *testing.T) {
	store := state.NewStore()
	m := NewManager(store)

	_, err := m.StartCombat("p1", "npc_missing", time.Now())
	if err != apperr.ErrNPCNotFound {
		t.Fatalf("expected ErrNPCNotFound, got %v", err)
	}
}

func TestStartCombatRejectsSecondSession(t *testing.T) {
	store := state.NewStore()
	store.AddNPC(&state.NPC{ID: "npc_1"})
	store.AddNPC(&state.NPC{ID: "npc_2"})
	m := NewManager(store)

	if _, err := m.StartCombat("p1", "npc_1", time.Now()); err != nil {
		t.Fatalf("unexpected error on first start: %v", err)
	}
	if _, err := m.StartCombat("p1", "npc_2", time.Now()); err != apperr.ErrMultipleCombatSessions {
		t.Fatalf("expected ErrMultipleCombatSessions, got %v", err)
	}
}

func TestShouldFireRespectsCadence(t *testing.T) {
	sess := &state.CombatSession{LastAttackAt: time.Now()}
	m := &Manager{}
	if m.ShouldFire(sess, sess.LastAttackAt.Add(100*time.Millisecond)) {
		t.Fatal("expected fire to be withheld before cadence elapses")
	}
	if !m.ShouldFire(sess, sess.LastAttackAt.Add(FireCadence+time.Millisecond)) {
		t.Fatal("expected fire once cadence elapses")
	}
}

func TestCanAutoStartRespectsCooldown(t *testing.T) {
	now := time.Now()
	player := &state.Player{LastCombatStop: now}
	if CanAutoStart(player, now.Add(1*time.Second)) {
		t.Fatal("expected auto-start to be denied inside cooldown window")
	}
	if !CanAutoStart(player, now.Add(RestartCooldown+time.Millisecond)) {
		t.Fatal("expected auto-start to be allowed after cooldown elapses")
	}
}
