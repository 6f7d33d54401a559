// Package sim implements the Map: the per-map tick scheduler and the
// orchestration that wires NpcAi, the combat, projectile, damage, reward,
// cargo, hazard and repair packages together into one fixed-rate
// simulation loop, plus the NpcRespawnSystem that refills NPCs the
// DamageResolver removes. Grounded on the teacher's Hub, which owns the
// same collection of subsystems and drives them from a single
// RunSimulation goroutine (hub.go).
package sim

import (
	"context"
	"math"
	"math/rand"
	"strconv"
	"time"

	"skyfleet/server/internal/ai"
	"skyfleet/server/internal/apperr"
	"skyfleet/server/internal/broadcast"
	"skyfleet/server/internal/cargo"
	"skyfleet/server/internal/combat"
	"skyfleet/server/internal/config"
	"skyfleet/server/internal/damage"
	"skyfleet/server/internal/hazard"
	"skyfleet/server/internal/net/proto"
	"skyfleet/server/internal/projectile"
	"skyfleet/server/internal/repair"
	"skyfleet/server/internal/reward"
	"skyfleet/server/internal/spatial"
	actorstats "skyfleet/server/internal/stats"
	"skyfleet/server/internal/state"
	"skyfleet/server/internal/telemetry"
	"skyfleet/server/logging"
	"skyfleet/server/stats"
)

// PlayerRepairConfig and NPCRepairConfig are the out-of-combat regen
// tunables applied uniformly to every player and NPC on a map.
var (
	PlayerRepairConfig = repair.Config{OutOfCombatDelay: 6 * time.Second, HealthPerSecond: 4, ShieldPerSecond: 8}
	NPCRepairConfig    = repair.Config{OutOfCombatDelay: 10 * time.Second, HealthPerSecond: 2, ShieldPerSecond: 5}
)

// respawnEntry is one NPC queued to reappear after NPCRespawnDelay.
type respawnEntry struct {
	npcType string
	dueAt   time.Time
}

// Map owns one map's live Store and every subsystem that mutates it each
// tick. A Map must only be driven from a single goroutine (see
// RunLoop); it holds no internal locking of its own, mirroring the
// teacher's single-writer Hub.
type Map struct {
	ID  string
	cfg config.Config
	pub logging.Publisher

	store *state.Store
	query spatial.Query
	rng   *rand.Rand

	combat    *combat.Manager
	rewards   *reward.Grantor
	cargo     *cargo.Manager
	damage    *damage.Resolver
	hazards   *hazard.Manager
	Broadcast *broadcast.Broadcaster

	respawnQueue   []respawnEntry
	lastRespawnRun time.Time
	currentNow     time.Time

	tick       uint64
	metrics    telemetry.Metrics
	collector  *telemetry.Collector
}

// SetMetrics attaches a telemetry sink the tick scheduler reports
// per-tick counters to. A nil metrics sink disables reporting.
func (m *Map) SetMetrics(metrics telemetry.Metrics) { m.metrics = metrics }

// SetCollector attaches the Prometheus collector the tick scheduler
// reports tick duration and live entity counts to, and wires this map's
// reward grantor to increment the collector's grant counter. A nil
// collector disables reporting.
func (m *Map) SetCollector(collector *telemetry.Collector) {
	m.collector = collector
	if collector != nil {
		m.rewards.OnGrant = collector.IncRewardGrants
	} else {
		m.rewards.OnGrant = nil
	}
}

// NewMap constructs a Map bound to id and cfg. regions are the static
// hazard areas for this map; pass nil for a map with none.
func NewMap(id string, cfg config.Config, pub logging.Publisher, regions []hazard.Region, rng *rand.Rand) *Map {
	if pub == nil {
		pub = logging.NopPublisher{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	store := state.NewStore()
	combatMgr := combat.NewManager(store)
	rewardsMgr := reward.NewGrantor(store, pub, rng)
	cargoMgr := cargo.NewManager(store, rng)
	resolver := damage.NewResolver(store, cfg, combatMgr, rewardsMgr, cargoMgr, pub)

	m := &Map{
		ID:        id,
		cfg:       cfg,
		pub:       pub,
		store:     store,
		query:     spatial.Naive{},
		rng:       rng,
		combat:    combatMgr,
		rewards:   rewardsMgr,
		cargo:     cargoMgr,
		damage:    resolver,
		hazards:   hazard.NewManager(regions),
		Broadcast: broadcast.New(),
	}
	resolver.Subscribe(m)
	resolver.OnDamage = m.emitEntityDamaged
	return m
}

// Store exposes the live entity store for the session/network layer to
// read and mutate player state (join, position updates, disconnect).
func (m *Map) Store() *state.Store { return m.store }

// Config returns the static configuration this map was built from.
func (m *Map) Config() config.Config { return m.cfg }

// CargoManager exposes the cargo collection subsystem for the session
// layer's cargo_box_collect handler.
func (m *Map) CargoManager() *cargo.Manager { return m.cargo }

// Tick advances every subsystem once, in the fixed order NpcAi -> player
// movement integration (handled upstream by position updates) ->
// CombatManager -> ProjectileEngine -> DamageResolver -> RewardGrant /
// CargoBox (invoked inside DamageResolver's death handlers) -> hazard and
// repair regen -> NpcRespawnSystem. dt is the tick's delta time.
func (m *Map) Tick(ctx context.Context, now time.Time, dt time.Duration) {
	m.tick++
	m.currentNow = now
	dtSeconds := dt.Seconds()

	m.resolveStats()

	for _, npc := range m.store.NPCs() {
		class := m.cfg.NPCClasses[npc.Type]
		ai.Decide(ctx, m.pub, m.tick, m.ID, npc, class, m.store, m.query, now, dtSeconds, m.rng)
		m.npcFireIfReady(npc, class, now)
	}

	m.combat.Tick(now, func(playerID, targetID string) {
		m.fireAt(playerID, targetID, now)
	})

	outcome := projectile.Advance(m.store, dtSeconds, now)
	for _, hit := range outcome.Hits {
		m.resolveHit(ctx, now, hit)
	}
	for _, removal := range outcome.Removals {
		m.emitProjectileDestroyed(removal.ProjectileID, removal.Reason)
	}

	for _, exposure := range m.hazards.Advance(m.store, dt) {
		player, ok := m.store.Player(exposure.PlayerID)
		if !ok || player.IsDead || exposure.Damage <= 0 {
			continue
		}
		m.damage.ApplyToPlayer(ctx, m.tick, m.ID, player, exposure.Damage, "", now)
	}

	m.advanceRepair(now, dt)
	m.advanceCargo(now)
	m.runRespawns(ctx, now)
	m.broadcastTickDeltas(now)
}

// npcFireIfReady lets an aggressive NPC shoot its locked attacker at
// combat.FireCadence once it is within its class's attack range.
func (m *Map) npcFireIfReady(npc *state.NPC, class config.NPCClass, now time.Time) {
	if npc.Behavior != state.BehaviorAggressive || npc.LastAttackerID == "" {
		return
	}
	target, ok := m.store.Player(npc.LastAttackerID)
	if !ok || target.IsDead {
		return
	}
	dx := target.Position.X - npc.Position.X
	dy := target.Position.Y - npc.Position.Y
	dist := math.Hypot(dx, dy)
	attackRange := class.AttackRange
	if attackRange <= 0 || dist > attackRange {
		return
	}
	if now.Sub(npc.LastAttackAt) < combat.FireCadence {
		return
	}
	npc.LastAttackAt = now

	if dist == 0 {
		dist = 1
	}
	speed := 700.0
	proj := &state.Projectile{
		ID:              "proj_" + strconv.FormatUint(m.store.NextID(), 10),
		PlayerID:        npc.ID,
		Source:          state.ProjectileSourceNPC,
		Position:        npc.Position,
		Velocity:        state.Vec2{X: dx / dist * speed, Y: dy / dist * speed},
		Damage:          class.AttackDamage,
		TargetID:        target.ClientID,
		CreatedAt:       now,
		InitialDistance: dist,
	}
	m.store.AddProjectile(proj)
}

func (m *Map) fireAt(playerID, targetID string, now time.Time) {
	player, ok := m.store.Player(playerID)
	if !ok {
		return
	}
	target, ok := m.store.NPC(targetID)
	if !ok {
		return
	}
	dx := target.Position.X - player.Position.X
	dy := target.Position.Y - player.Position.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		dist = 1
	}
	speed := 900.0
	proj := &state.Projectile{
		ID:              "proj_" + strconv.FormatUint(m.store.NextID(), 10),
		PlayerID:        playerID,
		Source:          state.ProjectileSourcePlayer,
		Position:        player.Position,
		Velocity:        state.Vec2{X: dx / dist * speed, Y: dy / dist * speed},
		Damage:          weaponDamage(m.cfg.ShipClasses[player.ShipClass], player.Upgrades),
		TargetID:        targetID,
		CreatedAt:       now,
		InitialDistance: dist,
	}
	m.store.AddProjectile(proj)
}

// weaponDamage applies the ship class's per-upgrade-point damage bonus,
// mirroring how HPUpgradeStep/ShieldUpgradeStep scale max health/shield.
func weaponDamage(class config.ShipClass, upgrades state.Upgrades) float64 {
	return class.BaseWeaponDamage * (1 + class.DamageUpgradeStep*float64(upgrades.Damage))
}

func (m *Map) resolveHit(ctx context.Context, now time.Time, hit projectile.HitResult) {
	if hit.TargetIsNPC {
		npc, ok := m.store.NPC(hit.TargetID)
		if !ok {
			return
		}
		m.damage.ApplyToNPC(ctx, m.tick, m.ID, npc, hit.Damage, hit.ShooterID, now)
		return
	}
	player, ok := m.store.Player(hit.TargetID)
	if !ok || player.IsDead {
		return
	}
	m.damage.ApplyToPlayer(ctx, m.tick, m.ID, player, hit.Damage, hit.ShooterID, now)
}

// resolveStats re-derives every live actor's max health/shield for the
// current tick and clamps current health/shield down if an upgrade or
// equipment change just lowered the ceiling.
func (m *Map) resolveStats() {
	actors := make([]actorstats.Actor, 0, len(m.store.Players())+len(m.store.NPCs()))
	for _, p := range m.store.Players() {
		p := p
		class := m.cfg.ShipClasses[p.ShipClass]
		upgrade := stats.NewStatDelta()
		upgrade.Mul[stats.StatHealth] = stats.UpgradeMultiplier(p.Upgrades.HP, class.HPUpgradeStep)
		upgrade.Mul[stats.StatShield] = stats.UpgradeMultiplier(p.Upgrades.Shield, class.ShieldUpgradeStep)
		p.Stats.Apply(stats.CommandStatChange{Layer: stats.LayerUpgrade, Source: stats.SourceKey{Kind: stats.SourceKindProgression, ID: "upgrades"}, Delta: upgrade})
		actors = append(actors, actorstats.Actor{
			Component:     &p.Stats,
			SyncMaxHealth: func(max float64) { p.Health = math.Min(p.Health, max) },
			SyncMaxShield: func(max float64) { p.Shield = math.Min(p.Shield, max) },
		})
	}
	for _, n := range m.store.NPCs() {
		n := n
		actors = append(actors, actorstats.Actor{
			Component:     &n.Stats,
			SyncMaxHealth: func(max float64) { n.Health = math.Min(n.Health, max) },
			SyncMaxShield: func(max float64) { n.Shield = math.Min(n.Shield, max) },
		})
	}
	actorstats.Resolve(m.tick, actors)
}

func (m *Map) advanceRepair(now time.Time, dt time.Duration) {
	for _, p := range m.store.Players() {
		if p.IsDead {
			continue
		}
		health, shield := repair.Advance(PlayerRepairConfig, repair.Target{
			Health: p.Health, MaxHealth: p.MaxHealth(),
			Shield: p.Shield, MaxShield: p.MaxShield(),
			LastDamage: p.LastDamage,
		}, now, dt)
		p.Health, p.Shield = health, shield
	}
	for _, n := range m.store.NPCs() {
		health, shield := repair.Advance(NPCRepairConfig, repair.Target{
			Health: n.Health, MaxHealth: n.MaxHealth(),
			Shield: n.Shield, MaxShield: n.MaxShield(),
			LastDamage: n.LastDamage,
		}, now, dt)
		n.Health, n.Shield = health, shield
	}
}

// OnNPCDestroyed implements damage.Observer: it queues the NPC's class for
// respawn after config.NPCRespawnDelay and broadcasts the entity's terminal
// event plus any cargo box the kill dropped.
func (m *Map) OnNPCDestroyed(npcID, npcType string, pos state.Vec2, killerID, killOpID string, box *state.CargoBox) {
	m.respawnQueue = append(m.respawnQueue, respawnEntry{npcType: npcType, dueAt: m.currentNow.Add(config.NPCRespawnDelay)})

	if data, err := proto.EncodeEntityDestroyed(proto.EntityDestroyed{EntityID: npcID, EntityType: "npc"}); err == nil {
		m.Broadcast.ToMap(data, "")
	}
	if box == nil {
		return
	}
	if data, err := proto.EncodeCargoBoxSpawned(proto.CargoBoxSpawned{
		ID:           box.ID,
		Position:     proto.Position{X: box.Position.X, Y: box.Position.Y},
		ResourceType: box.ResourceType,
	}); err == nil {
		m.Broadcast.ToMap(data, "")
	}
}

// OnPlayerDestroyed implements damage.Observer. Disconnection bookkeeping
// and persistence are the session layer's concern; the map itself only
// broadcasts the terminal event once IsDead is set.
func (m *Map) OnPlayerDestroyed(playerID string) {
	if data, err := proto.EncodeEntityDestroyed(proto.EntityDestroyed{EntityID: playerID, EntityType: "player"}); err == nil {
		m.Broadcast.ToMap(data, "")
	}
}

// emitEntityDamaged wires damage.Resolver.OnDamage to broadcast one
// entity_damaged frame per damage application.
func (m *Map) emitEntityDamaged(entityID, entityType string, damage, newHealth, newShield float64) {
	data, err := proto.EncodeEntityDamaged(proto.EntityDamaged{
		EntityID:   entityID,
		EntityType: entityType,
		Damage:     damage,
		NewHealth:  newHealth,
		NewShield:  newShield,
	})
	if err != nil {
		return
	}
	m.Broadcast.ToMap(data, "")
}

// emitProjectileDestroyed broadcasts a removed projectile's id and reason.
func (m *Map) emitProjectileDestroyed(id, reason string) {
	data, err := proto.EncodeProjectileDestroyed(proto.ProjectileDestroyed{ID: id, Reason: reason})
	if err != nil {
		return
	}
	m.Broadcast.ToMap(data, "")
}

// advanceCargo ticks every in-progress cargo box collection, crediting the
// collector and broadcasting removal on completion, and expires any box
// past its ExpiresAt that nobody is mid-collection on. A collection that
// cargo.Manager.Tick cancels leaves the box in place and sends no message
// to anyone.
func (m *Map) advanceCargo(now time.Time) {
	for id, box := range m.store.CargoBoxes() {
		if box.CollectingPlayerID != "" {
			complete, err := m.cargo.Tick(box, now)
			if err != nil {
				continue
			}
			if complete {
				if player, ok := m.store.Player(box.CollectingPlayerID); ok {
					m.cargo.Complete(player, box)
					m.emitCargoBoxRemoved(id)
				}
			}
			continue
		}
		if now.After(box.ExpiresAt) {
			m.store.RemoveCargoBox(id)
			m.emitCargoBoxRemoved(id)
		}
	}
}

func (m *Map) emitCargoBoxRemoved(id string) {
	data, err := proto.EncodeCargoBoxRemoved(proto.CargoBoxRemoved{ID: id})
	if err != nil {
		return
	}
	m.Broadcast.ToMap(data, "")
}

// broadcastTickDeltas fans out the hot per-tick state channels: every
// player's pose/vitals, every NPC's pose/vitals, and every live
// projectile's position (scoped to players near it), per §4.11's
// batched-per-tick broadcast model.
func (m *Map) broadcastTickDeltas(now time.Time) {
	serverNow := now.UnixMilli()

	players := m.store.Players()
	if len(players) > 0 {
		entries := make([]proto.RemotePlayerEntry, 0, len(players))
		for _, p := range players {
			entries = append(entries, proto.NewRemotePlayerEntry(
				p.ClientID, p.Position.X, p.Position.Y, p.Velocity.X, p.Velocity.Y, p.Rotation,
				m.tick, p.Nickname, "", p.Health, p.MaxHealth(), p.Shield, p.MaxShield(), 0, "",
			))
		}
		if data, err := proto.EncodeRemotePlayerUpdate(proto.RemotePlayerUpdate{P: entries, T: serverNow}); err == nil {
			m.Broadcast.ToMap(data, "")
		}
	}

	npcs := m.store.NPCs()
	if len(npcs) > 0 {
		entries := make([]proto.NPCEntry, 0, len(npcs))
		for _, n := range npcs {
			entries = append(entries, proto.NewNPCEntry(
				n.ID, n.Type, n.Position.X, n.Position.Y, n.Rotation, n.Health, n.MaxHealth(), n.Shield, n.MaxShield(), string(n.Behavior),
			))
		}
		if data, err := proto.EncodeNPCBulkUpdate(proto.NPCBulkUpdate{N: entries, T: serverNow}); err == nil {
			m.Broadcast.ToMap(data, "")
		}
	}

	for _, p := range m.store.Projectiles() {
		entry := proto.NewProjectileEntry(p.ID, p.Position.X, p.Position.Y, p.Velocity.X, p.Velocity.Y)
		data, err := proto.EncodeProjectileUpdates(proto.ProjectileUpdates{Proj: []proto.ProjectileEntry{entry}, T: serverNow})
		if err != nil {
			continue
		}
		m.Broadcast.Near(m.store, p.Position, broadcast.DefaultLocalRadius, data, "")
	}
}

// runRespawns spawns every due NPC in the queue, at most once per second,
// per the NpcRespawnSystem's cadence.
func (m *Map) runRespawns(ctx context.Context, now time.Time) {
	if !m.lastRespawnRun.IsZero() && now.Sub(m.lastRespawnRun) < time.Second {
		return
	}
	m.lastRespawnRun = now

	remaining := m.respawnQueue[:0]
	for _, entry := range m.respawnQueue {
		if now.Before(entry.dueAt) {
			remaining = append(remaining, entry)
			continue
		}
		m.spawnNPC(entry.npcType, now)
	}
	m.respawnQueue = remaining
}

func (m *Map) spawnNPC(npcType string, now time.Time) {
	class, ok := m.cfg.NPCClasses[npcType]
	if !ok {
		return
	}
	pos := m.pickSpawnPosition()
	comp := stats.NewComponent(stats.ArchetypeBase(class.BaseHealth, class.BaseShield))
	comp.Resolve(m.tick)

	npc := &state.NPC{
		ID:       "npc_" + strconv.FormatUint(m.store.NextID(), 10),
		Type:     npcType,
		Position: pos,
		Health:   comp.GetDerived(stats.DerivedMaxHealth),
		Shield:   comp.GetDerived(stats.DerivedMaxShield),
		Stats:    comp,
		Behavior: state.BehaviorCruise,
	}
	m.store.AddNPC(npc)
}

// pickSpawnPosition finds a point at least config.NPCMinSpawnDistance from
// every live player, trying up to config.NPCSpawnMaxAttempts random
// points before falling back to a point inside the central
// NPCCentralFallbackFrac fraction of the world, per the respawn system's
// placement rule.
func (m *Map) pickSpawnPosition() state.Vec2 {
	halfW := m.cfg.World.Width / 2
	halfH := m.cfg.World.Height / 2

	for attempt := 0; attempt < config.NPCSpawnMaxAttempts; attempt++ {
		candidate := state.Vec2{
			X: (m.rng.Float64()*2 - 1) * halfW,
			Y: (m.rng.Float64()*2 - 1) * halfH,
		}
		if m.farEnoughFromPlayers(candidate) {
			return candidate
		}
	}

	fallbackHalfW := halfW * config.NPCCentralFallbackFrac
	fallbackHalfH := halfH * config.NPCCentralFallbackFrac
	return state.Vec2{
		X: (m.rng.Float64()*2 - 1) * fallbackHalfW,
		Y: (m.rng.Float64()*2 - 1) * fallbackHalfH,
	}
}

func (m *Map) farEnoughFromPlayers(pos state.Vec2) bool {
	minSq := config.NPCMinSpawnDistance * config.NPCMinSpawnDistance
	for _, p := range m.store.Players() {
		dx := p.Position.X - pos.X
		dy := p.Position.Y - pos.Y
		if dx*dx+dy*dy < minSq {
			return false
		}
	}
	return true
}

// StartCombat begins a combat session, surfacing an apperr sentinel the
// network layer can translate to a wire error code.
func (m *Map) StartCombat(playerID, targetID string, now time.Time) error {
	_, err := m.combat.StartCombat(playerID, targetID, now)
	return err
}

// StopCombat ends playerID's active session, if any.
func (m *Map) StopCombat(playerID string, now time.Time) error {
	player, ok := m.store.Player(playerID)
	if !ok {
		return apperr.ErrInternal
	}
	m.combat.StopCombat(player, now)
	return nil
}

// TickCount returns the current tick counter, for scheduler telemetry.
func (m *Map) TickCount() uint64 { return m.tick }
