// Package proto defines the inbound/outbound wire message catalog:
// one JSON object per WebSocket frame, with a compact array form for the
// hottest outbound channels. Struct shapes and the decode-by-type-field
// idiom are grounded on the teacher's internal/net/proto/messages.go.
package proto

import "encoding/json"

// Version is the wire-protocol revision this server emits and expects.
const Version = 1

// Inbound message type identifiers.
const (
	TypeJoin                = "join"
	TypePositionUpdate      = "position_update"
	TypeHeartbeat           = "heartbeat"
	TypeProjectileFired     = "projectile_fired"
	TypeStartCombat         = "start_combat"
	TypeStopCombat          = "stop_combat"
	TypeSkillUpgradeRequest = "skill_upgrade_request"
	TypeExplosionCreated    = "explosion_created"
	TypeChatMessage         = "chat_message"
	TypeCargoBoxCollect     = "cargo_box_collect"
	TypeRequestPlayerData   = "request_player_data"
	TypeSaveRequest         = "save_request"
)

// Outbound message type identifiers.
const (
	TypeWelcome               = "welcome"
	TypePlayerJoined          = "player_joined"
	TypePlayerLeft            = "player_left"
	TypeRemotePlayerUpdate    = "remote_player_update"
	TypeInitialNPCs           = "initial_npcs"
	TypeNPCSpawn              = "npc_spawn"
	TypeNPCBulkUpdate         = "npc_bulk_update"
	TypeNPCLeft               = "npc_left"
	TypeProjectileUpdates     = "projectile_updates"
	TypeProjectileDestroyed   = "projectile_destroyed"
	TypeEntityDamaged         = "entity_damaged"
	TypeEntityDestroyed       = "entity_destroyed"
	TypeCombatUpdate          = "combat_update"
	TypeCombatError           = "combat_error"
	TypePlayerStateUpdate     = "player_state_update"
	TypeCargoBoxSpawned       = "cargo_box_spawned"
	TypeCargoBoxRemoved       = "cargo_box_removed"
	TypeCargoBoxCollectStatus = "cargo_box_collect_status"
	TypePlayerDataResponse    = "player_data_response"
	TypeSaveResponse          = "save_response"
	TypeHeartbeatAck          = "heartbeat_ack"
	TypePositionAck           = "position_ack"
	TypeError                 = "error"
)

// MaxFrameBytes bounds the size of one inbound frame.
const MaxFrameBytes = 16 * 1024

// Envelope extracts just the type discriminator from a raw frame, so the
// router can dispatch before fully decoding the payload.
type Envelope struct {
	Type string `json:"type"`
}

// PeekType reads only the `type` field from a raw inbound frame.
func PeekType(payload []byte) (string, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return "", err
	}
	return env.Type, nil
}

// Position is the {x,y,rotation} shape embedded in several messages.
type Position struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

// Vector is a 2-D velocity or offset.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Join is the handshake message a client sends once per connection.
type Join struct {
	ClientID  string   `json:"clientId"`
	Nickname  string   `json:"nickname"`
	AuthToken string   `json:"authToken"`
	UserID    string   `json:"userId"`
	Position  Position `json:"position"`
}

// PositionUpdate reports the client's latest authoritative-input pose.
type PositionUpdate struct {
	ClientID  string  `json:"clientId"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Rotation  float64 `json:"rotation"`
	VelocityX float64 `json:"velocityX"`
	VelocityY float64 `json:"velocityY"`
	Tick      uint64  `json:"tick"`
}

// Heartbeat is a keepalive ping carrying the client's send time.
type Heartbeat struct {
	ClientID  string `json:"clientId"`
	Timestamp int64  `json:"timestamp"`
}

// ProjectileFired reports a shot the client fired; the server recomputes
// damage and never trusts a client-supplied value.
type ProjectileFired struct {
	ClientID       string   `json:"clientId"`
	ProjectileID   string   `json:"projectileId"`
	PlayerID       string   `json:"playerId"`
	Position       Position `json:"position"`
	Velocity       Vector   `json:"velocity"`
	ProjectileType string   `json:"projectileType"`
}

// StartCombat requests the sender enter combat against npcId.
type StartCombat struct {
	ClientID string `json:"clientId"`
	PlayerID string `json:"playerId"`
	NPCID    string `json:"npcId"`
}

// StopCombat requests the sender leave their active combat session.
type StopCombat struct {
	ClientID string `json:"clientId"`
	PlayerID string `json:"playerId"`
	NPCID    string `json:"npcId,omitempty"`
}

// SkillUpgradeRequest spends an upgrade point on one stat track.
type SkillUpgradeRequest struct {
	ClientID    string `json:"clientId"`
	PlayerID    string `json:"playerId"`
	UpgradeType string `json:"upgradeType"` // hp|shield|speed|damage
}

// ExplosionCreated reports a visual explosion event for broadcast.
type ExplosionCreated struct {
	ClientID      string   `json:"clientId"`
	ExplosionID   string   `json:"explosionId"`
	EntityID      string   `json:"entityId"`
	EntityType    string   `json:"entityType"`
	Position      Position `json:"position"`
	ExplosionType string   `json:"explosionType"`
}

// ChatMessage is free text. ChatHandler checks only its length (1 to 500
// bytes); the text is relayed unchanged, with no markup stripping or word
// filtering.
type ChatMessage struct {
	ClientID string `json:"clientId"`
	Content  string `json:"content"`
}

// CargoBoxCollect requests the sender begin collecting boxId.
type CargoBoxCollect struct {
	ClientID string `json:"clientId"`
	BoxID    string `json:"boxId"`
}

// RequestPlayerData asks the server to resend the sender's full player row.
type RequestPlayerData struct {
	ClientID string `json:"clientId"`
	PlayerID string `json:"playerId"`
}

// SaveRequest asks the server to persist the sender's player row now.
type SaveRequest struct {
	ClientID string `json:"clientId"`
}
