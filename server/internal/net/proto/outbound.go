package proto

import "encoding/json"

// ShipSkins carries the cosmetic skin selection included in welcome's
// initialState.
type ShipSkins struct {
	SelectedSkinID  string   `json:"selectedSkinId"`
	UnlockedSkinIDs []string `json:"unlockedSkinIds"`
}

// InitialState is the full snapshot of the joining player's own entity,
// embedded in Welcome.
type InitialState struct {
	Position              Position  `json:"position"`
	Health                float64   `json:"health"`
	MaxHealth             float64   `json:"maxHealth"`
	Shield                float64   `json:"shield"`
	MaxShield             float64   `json:"maxShield"`
	IsAdministrator       bool      `json:"isAdministrator"`
	Rank                  string    `json:"rank,omitempty"`
	LeaderboardPodiumRank int       `json:"leaderboardPodiumRank,omitempty"`
	ShipSkins             ShipSkins `json:"shipSkins"`
	RecentHonor           float64   `json:"recentHonor"`
}

// Welcome is sent once per connection, immediately after a successful join.
type Welcome struct {
	Type         string       `json:"type"`
	ClientID     string       `json:"clientId"`
	PlayerID     string       `json:"playerId"`
	PlayerDBID   string       `json:"playerDbId"`
	MapID        string       `json:"mapId"`
	Message      string       `json:"message,omitempty"`
	InitialState InitialState `json:"initialState"`
}

// EncodeWelcome renders a Welcome frame.
func EncodeWelcome(msg Welcome) ([]byte, error) {
	msg.Type = TypeWelcome
	return json.Marshal(msg)
}

// PlayerJoined announces a new player entering the map to everyone else.
type PlayerJoined struct {
	Type     string   `json:"type"`
	ClientID string   `json:"clientId"`
	Nickname string   `json:"nickname"`
	Position Position `json:"position"`
}

// EncodePlayerJoined renders a PlayerJoined frame.
func EncodePlayerJoined(msg PlayerJoined) ([]byte, error) {
	msg.Type = TypePlayerJoined
	return json.Marshal(msg)
}

// PlayerLeft announces a player's departure.
type PlayerLeft struct {
	Type     string `json:"type"`
	ClientID string `json:"clientId"`
}

// EncodePlayerLeft renders a PlayerLeft frame.
func EncodePlayerLeft(msg PlayerLeft) ([]byte, error) {
	msg.Type = TypePlayerLeft
	return json.Marshal(msg)
}

// RemotePlayerEntry is one row of the compact remote_player_update array:
// [clientId,x,y,vx,vy,rotation,tick,nickname,rank,hp,maxHp,sh,maxSh,podium,shipSkinId].
type RemotePlayerEntry [15]any

// NewRemotePlayerEntry builds one compact remote_player_update row.
func NewRemotePlayerEntry(clientID string, x, y, vx, vy, rotation float64, tick uint64, nickname, rank string, hp, maxHP, shield, maxShield float64, podium int, shipSkinID string) RemotePlayerEntry {
	return RemotePlayerEntry{clientID, x, y, vx, vy, rotation, tick, nickname, rank, hp, maxHP, shield, maxShield, podium, shipSkinID}
}

// RemotePlayerUpdate is the compact-array broadcast of every other
// player's pose and vitals, batched once per tick.
type RemotePlayerUpdate struct {
	Type string              `json:"type"`
	P    []RemotePlayerEntry `json:"p"`
	T    int64               `json:"t"`
}

// EncodeRemotePlayerUpdate renders a RemotePlayerUpdate frame.
func EncodeRemotePlayerUpdate(msg RemotePlayerUpdate) ([]byte, error) {
	msg.Type = TypeRemotePlayerUpdate
	return json.Marshal(msg)
}

// NPCEntry is one row of the compact initial_npcs array:
// [id,type,x,y,rot,hp,maxHp,sh,maxSh,behavior].
type NPCEntry [10]any

// NewNPCEntry builds one compact initial_npcs row.
func NewNPCEntry(id, npcType string, x, y, rotation, hp, maxHP, shield, maxShield float64, behavior string) NPCEntry {
	return NPCEntry{id, npcType, x, y, rotation, hp, maxHP, shield, maxShield, behavior}
}

// InitialNPCs is sent once on join with every live NPC's snapshot.
type InitialNPCs struct {
	Type string     `json:"type"`
	N    []NPCEntry `json:"n"`
	T    int64      `json:"t"`
}

// EncodeInitialNPCs renders an InitialNPCs frame.
func EncodeInitialNPCs(msg InitialNPCs) ([]byte, error) {
	msg.Type = TypeInitialNPCs
	return json.Marshal(msg)
}

// NPCSpawn announces one newly (re)spawned NPC.
type NPCSpawn struct {
	Type     string   `json:"type"`
	ID       string   `json:"id"`
	NPCType  string   `json:"npcType"`
	Position Position `json:"position"`
}

// EncodeNPCSpawn renders an NPCSpawn frame.
func EncodeNPCSpawn(msg NPCSpawn) ([]byte, error) {
	msg.Type = TypeNPCSpawn
	return json.Marshal(msg)
}

// NPCBulkUpdate is the compact per-tick refresh of every live NPC's pose,
// sharing NPCEntry's row shape with InitialNPCs.
type NPCBulkUpdate struct {
	Type string     `json:"type"`
	N    []NPCEntry `json:"n"`
	T    int64      `json:"t"`
}

// EncodeNPCBulkUpdate renders an NPCBulkUpdate frame.
func EncodeNPCBulkUpdate(msg NPCBulkUpdate) ([]byte, error) {
	msg.Type = TypeNPCBulkUpdate
	return json.Marshal(msg)
}

// NPCLeft announces an NPC's removal (death or despawn).
type NPCLeft struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// EncodeNPCLeft renders an NPCLeft frame.
func EncodeNPCLeft(msg NPCLeft) ([]byte, error) {
	msg.Type = TypeNPCLeft
	return json.Marshal(msg)
}

// ProjectileEntry is one row of the compact projectile_updates array:
// [id,x,y,vx,vy].
type ProjectileEntry [5]any

// NewProjectileEntry builds one compact projectile_updates row.
func NewProjectileEntry(id string, x, y, vx, vy float64) ProjectileEntry {
	return ProjectileEntry{id, x, y, vx, vy}
}

// ProjectileUpdates is the compact per-tick refresh of every live
// projectile's position.
type ProjectileUpdates struct {
	Type string            `json:"type"`
	Proj []ProjectileEntry `json:"proj"`
	T    int64             `json:"t"`
}

// EncodeProjectileUpdates renders a ProjectileUpdates frame.
func EncodeProjectileUpdates(msg ProjectileUpdates) ([]byte, error) {
	msg.Type = TypeProjectileUpdates
	return json.Marshal(msg)
}

// ProjectileDestroyed announces a projectile's removal and why.
type ProjectileDestroyed struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// EncodeProjectileDestroyed renders a ProjectileDestroyed frame.
func EncodeProjectileDestroyed(msg ProjectileDestroyed) ([]byte, error) {
	msg.Type = TypeProjectileDestroyed
	return json.Marshal(msg)
}

// EntityDamaged reports one damage application against any entity kind.
type EntityDamaged struct {
	Type       string  `json:"type"`
	EntityID   string  `json:"entityId"`
	EntityType string  `json:"entityType"`
	Damage     float64 `json:"damage"`
	NewHealth  float64 `json:"newHealth"`
	NewShield  float64 `json:"newShield"`
}

// EncodeEntityDamaged renders an EntityDamaged frame.
func EncodeEntityDamaged(msg EntityDamaged) ([]byte, error) {
	msg.Type = TypeEntityDamaged
	return json.Marshal(msg)
}

// EntityDestroyed reports an entity's terminal death event.
type EntityDestroyed struct {
	Type       string `json:"type"`
	EntityID   string `json:"entityId"`
	EntityType string `json:"entityType"`
}

// EncodeEntityDestroyed renders an EntityDestroyed frame.
func EncodeEntityDestroyed(msg EntityDestroyed) ([]byte, error) {
	msg.Type = TypeEntityDestroyed
	return json.Marshal(msg)
}

// CombatUpdate reports a combat session's current state.
type CombatUpdate struct {
	Type          string `json:"type"`
	PlayerID      string `json:"playerId"`
	ClientID      string `json:"clientId"`
	NPCID         string `json:"npcId"`
	IsAttacking   bool   `json:"isAttacking"`
	SessionID     string `json:"sessionId,omitempty"`
	LastAttackTime int64 `json:"lastAttackTime"`
}

// EncodeCombatUpdate renders a CombatUpdate frame.
func EncodeCombatUpdate(msg CombatUpdate) ([]byte, error) {
	msg.Type = TypeCombatUpdate
	return json.Marshal(msg)
}

// CombatError reports a rejected combat action.
type CombatError struct {
	Type            string `json:"type"`
	Code            string `json:"code"`
	Message         string `json:"message"`
	ActiveSessionID string `json:"activeSessionId,omitempty"`
}

// EncodeCombatError renders a CombatError frame.
func EncodeCombatError(msg CombatError) ([]byte, error) {
	msg.Type = TypeCombatError
	return json.Marshal(msg)
}

// RewardsEarned is the killOpId-identified payout embedded in
// PlayerStateUpdate.
type RewardsEarned struct {
	Credits    int64  `json:"credits"`
	Experience int64  `json:"experience"`
	Honor      int64  `json:"honor"`
	Cosmos     int64  `json:"cosmos"`
	KillOpID   string `json:"killOpId,omitempty"`
	NPCID      string `json:"npcId,omitempty"`
}

// PlayerStateUpdate reports the sender's up-to-date economy state,
// optionally attributing it to a specific kill.
type PlayerStateUpdate struct {
	Type          string        `json:"type"`
	Inventory     any           `json:"inventory"`
	Upgrades      any           `json:"upgrades"`
	Items         any           `json:"items"`
	RecentHonor   float64       `json:"recentHonor"`
	Source        string        `json:"source"`
	RewardsEarned RewardsEarned `json:"rewardsEarned,omitempty"`
}

// EncodePlayerStateUpdate renders a PlayerStateUpdate frame.
func EncodePlayerStateUpdate(msg PlayerStateUpdate) ([]byte, error) {
	msg.Type = TypePlayerStateUpdate
	return json.Marshal(msg)
}

// CargoBoxSpawned announces a newly spawned cargo box.
type CargoBoxSpawned struct {
	Type         string   `json:"type"`
	ID           string   `json:"id"`
	Position     Position `json:"position"`
	ResourceType string   `json:"resourceType"`
}

// EncodeCargoBoxSpawned renders a CargoBoxSpawned frame.
func EncodeCargoBoxSpawned(msg CargoBoxSpawned) ([]byte, error) {
	msg.Type = TypeCargoBoxSpawned
	return json.Marshal(msg)
}

// CargoBoxRemoved announces a cargo box's removal (collected or expired).
type CargoBoxRemoved struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// EncodeCargoBoxRemoved renders a CargoBoxRemoved frame.
func EncodeCargoBoxRemoved(msg CargoBoxRemoved) ([]byte, error) {
	msg.Type = TypeCargoBoxRemoved
	return json.Marshal(msg)
}

// CargoBoxCollectStatus reports progress or failure of a collection
// attempt back to the collecting player only.
type CargoBoxCollectStatus struct {
	Type   string `json:"type"`
	BoxID  string `json:"boxId"`
	Status string `json:"status"` // started|progress|complete|cancelled
	Reason string `json:"reason,omitempty"`
}

// EncodeCargoBoxCollectStatus renders a CargoBoxCollectStatus frame.
func EncodeCargoBoxCollectStatus(msg CargoBoxCollectStatus) ([]byte, error) {
	msg.Type = TypeCargoBoxCollectStatus
	return json.Marshal(msg)
}

// PlayerDataResponse answers a RequestPlayerData frame.
type PlayerDataResponse struct {
	Type      string `json:"type"`
	PlayerID  string `json:"playerId"`
	Inventory any    `json:"inventory"`
	Upgrades  any    `json:"upgrades"`
	Items     any    `json:"items"`
}

// EncodePlayerDataResponse renders a PlayerDataResponse frame.
func EncodePlayerDataResponse(msg PlayerDataResponse) ([]byte, error) {
	msg.Type = TypePlayerDataResponse
	return json.Marshal(msg)
}

// SaveResponse answers a SaveRequest frame.
type SaveResponse struct {
	Type string `json:"type"`
	OK   bool   `json:"ok"`
}

// EncodeSaveResponse renders a SaveResponse frame.
func EncodeSaveResponse(msg SaveResponse) ([]byte, error) {
	msg.Type = TypeSaveResponse
	return json.Marshal(msg)
}

// HeartbeatAck answers a Heartbeat frame.
type HeartbeatAck struct {
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
}

// EncodeHeartbeatAck renders a HeartbeatAck frame.
func EncodeHeartbeatAck(msg HeartbeatAck) ([]byte, error) {
	msg.Type = TypeHeartbeatAck
	return json.Marshal(msg)
}

// PositionAck answers a PositionUpdate frame, confirming the tick it was
// applied at.
type PositionAck struct {
	Type string `json:"type"`
	Tick uint64 `json:"tick"`
}

// EncodePositionAck renders a PositionAck frame.
func EncodePositionAck(msg PositionAck) ([]byte, error) {
	msg.Type = TypePositionAck
	return json.Marshal(msg)
}

// Error is the generic failure frame sent for any rejected inbound
// message that isn't covered by a more specific error shape.
type Error struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EncodeError renders an Error frame.
func EncodeError(msg Error) ([]byte, error) {
	msg.Type = TypeError
	return json.Marshal(msg)
}
