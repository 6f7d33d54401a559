package reward

import (
	"context"
	"math/rand"
	"testing"

	"skyfleet/server/internal/config"
	"skyfleet/server/internal/state"
	"skyfleet/server/logging"
)

func newTestGrantor(t *testing.T, seed int64) (*Grantor, *state.Store, *state.Player) {
	t.Helper()
	store := state.NewStore()
	player := &state.Player{ClientID: "p1"}
	store.AddPlayer(player)
	g := NewGrantor(store, logging.NopPublisher{}, rand.New(rand.NewSource(seed)))
	return g, store, player
}

func TestApplyGrantsCurrenciesOnce(t *testing.T) {
	g, _, player := newTestGrantor(t, 1)
	npc := config.NPCClass{Rewards: config.Reward{Credits: 50, Experience: 10, Honor: 5}}

	grant, err := g.Apply(context.Background(), 1, "map1", "p1", npc, "k1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if grant.Credits != 50 || player.Inventory.Credits != 50 {
		t.Fatalf("expected 50 credits granted, got grant=%d inventory=%d", grant.Credits, player.Inventory.Credits)
	}
}

func TestApplySuppressesDuplicateKillOp(t *testing.T) {
	g, _, player := newTestGrantor(t, 1)
	npc := config.NPCClass{Rewards: config.Reward{Credits: 50}}

	if _, err := g.Apply(context.Background(), 1, "map1", "p1", npc, "k1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	grant, err := g.Apply(context.Background(), 2, "map1", "p1", npc, "k1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if grant != (Grant{}) {
		t.Fatalf("expected empty grant on replay, got %+v", grant)
	}
	if player.Inventory.Credits != 50 {
		t.Fatalf("expected inventory unchanged by replay, got %d", player.Inventory.Credits)
	}
}

func TestApplyRejectsNegativeReward(t *testing.T) {
	g, _, _ := newTestGrantor(t, 1)
	npc := config.NPCClass{Rewards: config.Reward{Credits: -10}}

	if _, err := g.Apply(context.Background(), 1, "map1", "p1", npc, "k1"); err == nil {
		t.Fatal("expected error for negative reward field")
	}
}

func TestRollDropAtMostOnePerKill(t *testing.T) {
	g, _, _ := newTestGrantor(t, 7)
	table := []config.DropEntry{
		{ItemID: "a", DropChance: 0.5},
		{ItemID: "b", DropChance: 0.5},
	}
	itemID, ok := g.rollDrop(table)
	if !ok {
		t.Fatal("expected a drop to occur with full probability mass")
	}
	if itemID != "a" && itemID != "b" {
		t.Fatalf("unexpected item id %q", itemID)
	}
}

func TestRollDropNoneWhenChanceZero(t *testing.T) {
	g, _, _ := newTestGrantor(t, 1)
	if _, ok := g.rollDrop([]config.DropEntry{{ItemID: "a", DropChance: 0}}); ok {
		t.Fatal("expected no drop when chance is zero")
	}
}
