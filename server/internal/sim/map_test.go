package sim

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"skyfleet/server/internal/config"
	"skyfleet/server/internal/hazard"
	"skyfleet/server/internal/state"
	"skyfleet/server/stats"
)

func newTestMap() *Map {
	cfg := config.Default()
	return NewMap("map-1", cfg, nil, nil, rand.New(rand.NewSource(7)))
}

func addPlayer(m *Map, id string, pos state.Vec2) *state.Player {
	p := &state.Player{
		ClientID:  id,
		ShipClass: "fighter",
		Position:  pos,
		Health:    100,
		Shield:    60,
		Stats:     stats.DefaultComponent(stats.ArchetypeFighter),
	}
	m.store.AddPlayer(p)
	return p
}

func addNPC(m *Map, id, npcType string, pos state.Vec2) *state.NPC {
	class := m.cfg.NPCClasses[npcType]
	comp := stats.NewComponent(stats.ArchetypeBase(class.BaseHealth, class.BaseShield))
	comp.Resolve(0)
	n := &state.NPC{
		ID:       id,
		Type:     npcType,
		Position: pos,
		Health:   comp.GetDerived(stats.DerivedMaxHealth),
		Shield:   comp.GetDerived(stats.DerivedMaxShield),
		Stats:    comp,
		Behavior: state.BehaviorCruise,
	}
	m.store.AddNPC(n)
	return n
}

func TestTickFiresCombatSessionAndDamagesTarget(t *testing.T) {
	m := newTestMap()
	now := time.Now()
	addPlayer(m, "p1", state.Vec2{X: 0, Y: 0})
	npc := addNPC(m, "npc1", "Scouter", state.Vec2{X: 10, Y: 0})

	if err := m.StartCombat("p1", "npc1", now); err != nil {
		t.Fatalf("unexpected error starting combat: %v", err)
	}

	healthBefore := npc.Health

	// Combat.FireCadence is 600ms; tick forward a couple of seconds so at
	// least one shot is fired and has time to land.
	for i := 0; i < 60; i++ {
		now = now.Add(config.TickInterval)
		m.Tick(context.Background(), now, config.TickInterval)
	}

	if _, ok := m.store.NPC("npc1"); ok && npc.Health >= healthBefore {
		t.Fatal("expected the target NPC to have taken damage or been destroyed")
	}
}

func TestTickQueuesRespawnAfterNPCDestroyed(t *testing.T) {
	m := newTestMap()
	now := time.Now()
	addNPC(m, "npc1", "Scouter", state.Vec2{X: 0, Y: 0})

	npc, _ := m.store.NPC("npc1")
	npc.Health = 0.5
	m.currentNow = now
	m.damage.ApplyToNPC(context.Background(), 1, m.ID, npc, 100, "p1", now)

	if _, ok := m.store.NPC("npc1"); ok {
		t.Fatal("expected the NPC to have been removed on death")
	}
	if len(m.respawnQueue) != 1 {
		t.Fatalf("expected one queued respawn, got %d", len(m.respawnQueue))
	}

	m.lastRespawnRun = time.Time{}
	m.runRespawns(context.Background(), now.Add(config.NPCRespawnDelay+time.Second))

	if len(m.store.NPCs()) != 1 {
		t.Fatalf("expected the respawn to have spawned a replacement NPC, got %d NPCs", len(m.store.NPCs()))
	}
}

func TestPickSpawnPositionRespectsMinDistance(t *testing.T) {
	m := newTestMap()
	addPlayer(m, "p1", state.Vec2{X: 0, Y: 0})

	for i := 0; i < 20; i++ {
		pos := m.pickSpawnPosition()
		dx, dy := pos.X, pos.Y
		if dx*dx+dy*dy < config.NPCMinSpawnDistance*config.NPCMinSpawnDistance {
			t.Fatalf("spawn position %v is within the minimum distance of a player", pos)
		}
	}
}

func TestHazardDamageAppliesThroughTick(t *testing.T) {
	cfg := config.Default()
	regions := []hazard.Region{{ID: "nebula", Center: state.Vec2{X: 0, Y: 0}, Radius: 100, DamagePerSecond: 40}}
	m := NewMap("map-1", cfg, nil, regions, rand.New(rand.NewSource(1)))

	now := time.Now()
	p := addPlayer(m, "p1", state.Vec2{X: 0, Y: 0})
	p.Shield = 0
	healthBefore := p.Health

	m.Tick(context.Background(), now, config.TickInterval)

	if p.Health >= healthBefore {
		t.Fatalf("expected hazard exposure to damage the player, health went from %.2f to %.2f", healthBefore, p.Health)
	}
}

func TestWeaponDamageScalesWithUpgrades(t *testing.T) {
	class := config.ShipClass{BaseWeaponDamage: 10, DamageUpgradeStep: 0.1}
	base := weaponDamage(class, state.Upgrades{})
	upgraded := weaponDamage(class, state.Upgrades{Damage: 5})
	if upgraded <= base {
		t.Fatalf("expected upgraded damage %.2f to exceed base %.2f", upgraded, base)
	}
}
