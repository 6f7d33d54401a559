package session

import (
	"context"
	"encoding/json"
	"testing"

	"skyfleet/server/internal/net/proto"
	"skyfleet/server/internal/state"
	"skyfleet/server/stats"
)

func joinTestPlayer(t *testing.T, mgr *Manager, clientID string) {
	t.Helper()
	if _, err := mgr.Join(context.Background(), "map-1", proto.Join{ClientID: clientID, AuthToken: "user-" + clientID}, &fakeSender{}); err != nil {
		t.Fatalf("unexpected error joining %s: %v", clientID, err)
	}
}

func TestPositionHandlerUpdatesPose(t *testing.T) {
	mgr, provider := newTestManager()
	joinTestPlayer(t, mgr, "p1")

	payload, _ := json.Marshal(proto.PositionUpdate{ClientID: "p1", X: 42, Y: -3, Rotation: 1.5})
	h := PositionHandler{Manager: mgr}
	if err := h.Handle(context.Background(), "p1", payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m, _ := provider.Map("map-1")
	player, _ := m.Store().Player("p1")
	if player.Position.X != 42 || player.Position.Y != -3 {
		t.Fatalf("unexpected position after handle: %+v", player.Position)
	}
}

func TestPositionHandlerRejectsUnknownSession(t *testing.T) {
	mgr, _ := newTestManager()
	payload, _ := json.Marshal(proto.PositionUpdate{ClientID: "ghost"})
	h := PositionHandler{Manager: mgr}
	if err := h.Handle(context.Background(), "ghost", payload); err == nil {
		t.Fatal("expected an error for a session that never joined")
	}
}

func TestSkillUpgradeHandlerRejectsUnknownTrack(t *testing.T) {
	mgr, _ := newTestManager()
	joinTestPlayer(t, mgr, "p1")

	payload, _ := json.Marshal(proto.SkillUpgradeRequest{ClientID: "p1", UpgradeType: "not-a-track"})
	h := SkillUpgradeHandler{Manager: mgr}
	if err := h.Handle(context.Background(), "p1", payload); err == nil {
		t.Fatal("expected an error for an unrecognized upgrade type")
	}
}

func TestSkillUpgradeHandlerAppliesKnownTrack(t *testing.T) {
	mgr, provider := newTestManager()
	joinTestPlayer(t, mgr, "p1")

	payload, _ := json.Marshal(proto.SkillUpgradeRequest{ClientID: "p1", UpgradeType: "damage"})
	h := SkillUpgradeHandler{Manager: mgr}
	if err := h.Handle(context.Background(), "p1", payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m, _ := provider.Map("map-1")
	player, _ := m.Store().Player("p1")
	if player.Upgrades.Damage != 1 {
		t.Fatalf("expected damage upgrade to be 1, got %d", player.Upgrades.Damage)
	}
}

func TestChatHandlerRejectsOversizedContent(t *testing.T) {
	mgr, _ := newTestManager()
	joinTestPlayer(t, mgr, "p1")

	big := make([]byte, 600)
	for i := range big {
		big[i] = 'a'
	}
	payload, _ := json.Marshal(proto.ChatMessage{ClientID: "p1", Content: string(big)})
	h := ChatHandler{Manager: mgr}
	if err := h.Handle(context.Background(), "p1", payload); err == nil {
		t.Fatal("expected an error for oversized chat content")
	}
}

func TestChatHandlerBroadcastsValidMessage(t *testing.T) {
	mgr, provider := newTestManager()
	sender := &fakeSender{}
	if _, err := mgr.Join(context.Background(), "map-1", proto.Join{ClientID: "p2", AuthToken: "user-p2"}, sender); err != nil {
		t.Fatalf("unexpected error joining p2: %v", err)
	}
	joinTestPlayer(t, mgr, "p1")

	payload, _ := json.Marshal(proto.ChatMessage{ClientID: "p1", Content: "hello"})
	h := ChatHandler{Manager: mgr}
	if err := h.Handle(context.Background(), "p1", payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_ = provider
	if len(sender.sent) == 0 {
		t.Fatal("expected the chat message to be broadcast to other connected players")
	}
}

func TestCombatHandlerStartAndStop(t *testing.T) {
	mgr, provider := newTestManager()
	joinTestPlayer(t, mgr, "p1")

	m, _ := provider.Map("map-1")
	npc := &state.NPC{
		ID:       "npc1",
		Type:     "Scouter",
		Position: state.Vec2{X: 10, Y: 0},
		Health:   45,
		Shield:   15,
		Stats:    stats.DefaultComponent(stats.ArchetypeScout),
		Behavior: state.BehaviorCruise,
	}
	m.Store().AddNPC(npc)

	h := CombatHandler{Manager: mgr}

	startPayload, _ := json.Marshal(proto.StartCombat{ClientID: "p1", NPCID: "npc1"})
	if err := h.Handle(context.Background(), "p1", startPayload); err != nil {
		t.Fatalf("unexpected error starting combat: %v", err)
	}

	stopPayload, _ := json.Marshal(proto.StopCombat{ClientID: "p1"})
	if err := h.Handle(context.Background(), "p1", stopPayload); err != nil {
		t.Fatalf("unexpected error stopping combat: %v", err)
	}
}
