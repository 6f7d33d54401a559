package spatial

import (
	"testing"

	"skyfleet/server/internal/state"
)

func TestNaivePlayersWithin(t *testing.T) {
	store := state.NewStore()
	store.AddPlayer(&state.Player{ClientID: "near", Position: state.Vec2{X: 10, Y: 0}})
	store.AddPlayer(&state.Player{ClientID: "far", Position: state.Vec2{X: 10000, Y: 0}})

	var q Naive
	got := q.PlayersWithin(store, Point{X: 0, Y: 0}, 100)
	if len(got) != 1 || got[0] != "near" {
		t.Fatalf("expected only 'near' within radius, got %v", got)
	}
}

func TestNaiveNearestNPC(t *testing.T) {
	store := state.NewStore()
	store.AddNPC(&state.NPC{ID: "n1", Position: state.Vec2{X: 50, Y: 0}})
	store.AddNPC(&state.NPC{ID: "n2", Position: state.Vec2{X: 5, Y: 0}})

	var q Naive
	id, ok := q.NearestNPC(store, Point{X: 0, Y: 0}, 1000)
	if !ok || id != "n2" {
		t.Fatalf("expected nearest npc n2, got %q ok=%v", id, ok)
	}
}

func TestNaiveNearestNPCOutOfRadius(t *testing.T) {
	store := state.NewStore()
	store.AddNPC(&state.NPC{ID: "n1", Position: state.Vec2{X: 5000, Y: 0}})

	var q Naive
	if _, ok := q.NearestNPC(store, Point{X: 0, Y: 0}, 10); ok {
		t.Fatal("expected no npc within radius")
	}
}

func TestNaiveNearestPlayer(t *testing.T) {
	store := state.NewStore()
	store.AddPlayer(&state.Player{ClientID: "p1", Position: state.Vec2{X: 300, Y: 0}})
	store.AddPlayer(&state.Player{ClientID: "p2", Position: state.Vec2{X: 30, Y: 0}})

	var q Naive
	id, ok := q.NearestPlayer(store, Point{X: 0, Y: 0}, 1000)
	if !ok || id != "p2" {
		t.Fatalf("expected nearest player p2, got %q ok=%v", id, ok)
	}
}
