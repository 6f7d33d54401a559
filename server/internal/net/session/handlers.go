package session

import (
	"context"
	"encoding/json"
	"time"

	"skyfleet/server/internal/apperr"
	"skyfleet/server/internal/net/proto"
	"skyfleet/server/internal/state"
)

// dispatch resolves sessionID's Session and live entity Store, or
// returns an error the caller should report back to the client rather
// than route further.
func (mgr *Manager) dispatch(sessionID string) (*Session, *state.Store, error) {
	sess, ok := mgr.session(sessionID)
	if !ok {
		return nil, nil, apperr.ErrValidationFailed
	}
	m, ok := mgr.Maps.Map(sess.MapID)
	if !ok {
		return nil, nil, apperr.ErrInternal
	}
	return sess, m.Store(), nil
}

// PositionHandler applies a client's authoritative-input pose update.
// Grounded on the teacher's UpdateIntent position handling in hub.go,
// reduced to the spec's simpler client-authoritative position model
// (the server trusts position but never damage or rewards).
type PositionHandler struct{ Manager *Manager }

func (h PositionHandler) CanHandle(t string) bool { return t == proto.TypePositionUpdate }

func (h PositionHandler) Handle(ctx context.Context, sessionID string, payload []byte) error {
	if !h.Manager.allow(ctx, sessionID, proto.TypePositionUpdate) {
		return apperr.ErrRateLimited
	}
	var msg proto.PositionUpdate
	if err := json.Unmarshal(payload, &msg); err != nil {
		return apperr.ErrValidationFailed
	}
	_, store, err := h.Manager.dispatch(sessionID)
	if err != nil {
		return err
	}
	player, ok := store.Player(sessionID)
	if !ok || player.IsDead {
		return apperr.ErrValidationFailed
	}
	player.Position = state.Vec2{X: msg.X, Y: msg.Y}
	player.Rotation = msg.Rotation
	player.Velocity = state.Vec2{X: msg.VelocityX, Y: msg.VelocityY}
	player.LastInputAt = time.Now()
	return nil
}

// HeartbeatHandler refreshes the player's LastInputAt timestamp.
type HeartbeatHandler struct{ Manager *Manager }

func (h HeartbeatHandler) CanHandle(t string) bool { return t == proto.TypeHeartbeat }

func (h HeartbeatHandler) Handle(ctx context.Context, sessionID string, payload []byte) error {
	if !h.Manager.allow(ctx, sessionID, proto.TypeHeartbeat) {
		return apperr.ErrRateLimited
	}
	var msg proto.Heartbeat
	if err := json.Unmarshal(payload, &msg); err != nil {
		return apperr.ErrValidationFailed
	}
	_, store, err := h.Manager.dispatch(sessionID)
	if err != nil {
		return err
	}
	player, ok := store.Player(sessionID)
	if !ok {
		return apperr.ErrValidationFailed
	}
	player.LastInputAt = time.Now()
	return nil
}

// CombatHandler starts or stops a player's combat session against an NPC.
type CombatHandler struct{ Manager *Manager }

func (h CombatHandler) CanHandle(t string) bool {
	return t == proto.TypeStartCombat || t == proto.TypeStopCombat
}

func (h CombatHandler) Handle(ctx context.Context, sessionID string, payload []byte) error {
	sess, _, err := h.Manager.dispatch(sessionID)
	if err != nil {
		return err
	}
	m, ok := h.Manager.Maps.Map(sess.MapID)
	if !ok {
		return apperr.ErrInternal
	}

	messageType, err := proto.PeekType(payload)
	if err != nil {
		return apperr.ErrValidationFailed
	}
	if !h.Manager.allow(ctx, sessionID, messageType) {
		return apperr.ErrRateLimited
	}

	now := time.Now()
	switch messageType {
	case proto.TypeStartCombat:
		var msg proto.StartCombat
		if err := json.Unmarshal(payload, &msg); err != nil {
			return apperr.ErrValidationFailed
		}
		return m.StartCombat(sessionID, msg.NPCID, now)
	case proto.TypeStopCombat:
		return m.StopCombat(sessionID, now)
	default:
		return apperr.ErrValidationFailed
	}
}

// CargoHandler begins a cargo-box collection channel.
type CargoHandler struct{ Manager *Manager }

func (h CargoHandler) CanHandle(t string) bool { return t == proto.TypeCargoBoxCollect }

func (h CargoHandler) Handle(ctx context.Context, sessionID string, payload []byte) error {
	var msg proto.CargoBoxCollect
	if err := json.Unmarshal(payload, &msg); err != nil {
		return apperr.ErrValidationFailed
	}
	sess, store, err := h.Manager.dispatch(sessionID)
	if err != nil {
		return err
	}
	m, ok := h.Manager.Maps.Map(sess.MapID)
	if !ok {
		return apperr.ErrInternal
	}
	player, ok := store.Player(sessionID)
	if !ok {
		return apperr.ErrValidationFailed
	}
	_, err = m.CargoManager().StartCollect(player, msg.BoxID, time.Now())
	return err
}

// SkillUpgradeHandler adds one level to the requested upgrade track. It
// does not check or deduct any pending upgrade points.
type SkillUpgradeHandler struct{ Manager *Manager }

func (h SkillUpgradeHandler) CanHandle(t string) bool { return t == proto.TypeSkillUpgradeRequest }

func (h SkillUpgradeHandler) Handle(ctx context.Context, sessionID string, payload []byte) error {
	var msg proto.SkillUpgradeRequest
	if err := json.Unmarshal(payload, &msg); err != nil {
		return apperr.ErrValidationFailed
	}
	_, store, err := h.Manager.dispatch(sessionID)
	if err != nil {
		return err
	}
	player, ok := store.Player(sessionID)
	if !ok {
		return apperr.ErrValidationFailed
	}
	switch msg.UpgradeType {
	case "hp":
		player.Upgrades.HP++
	case "shield":
		player.Upgrades.Shield++
	case "speed":
		player.Upgrades.Speed++
	case "damage":
		player.Upgrades.Damage++
	default:
		return apperr.ErrValidationFailed
	}
	return nil
}

// ChatHandler relays free-text chat to every player on the map, the sender
// included.
type ChatHandler struct{ Manager *Manager }

func (h ChatHandler) CanHandle(t string) bool { return t == proto.TypeChatMessage }

func (h ChatHandler) Handle(ctx context.Context, sessionID string, payload []byte) error {
	if !h.Manager.allow(ctx, sessionID, proto.TypeChatMessage) {
		return apperr.ErrRateLimited
	}
	var msg proto.ChatMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return apperr.ErrValidationFailed
	}
	if len(msg.Content) == 0 || len(msg.Content) > 500 {
		return apperr.ErrValidationFailed
	}
	sess, _, err := h.Manager.dispatch(sessionID)
	if err != nil {
		return err
	}
	m, ok := h.Manager.Maps.Map(sess.MapID)
	if !ok {
		return apperr.ErrInternal
	}
	m.Broadcast.ToMap(payload, "")
	return nil
}

// SaveHandler persists the requesting player's row immediately.
type SaveHandler struct{ Manager *Manager }

func (h SaveHandler) CanHandle(t string) bool { return t == proto.TypeSaveRequest }

func (h SaveHandler) Handle(ctx context.Context, sessionID string, payload []byte) error {
	_, store, err := h.Manager.dispatch(sessionID)
	if err != nil {
		return err
	}
	player, ok := store.Player(sessionID)
	if !ok {
		return apperr.ErrValidationFailed
	}
	return h.Manager.PlayerStore.Save(ctx, playerRecord(player), "client_request")
}
