// Package damage implements the DamageResolver: shield-then-health damage
// application and the death side effects that follow it. Interested
// parties (NPC respawn scheduling and the broadcaster) subscribe
// as explicit Observers rather than the resolver reaching out to them by
// name, the way the teacher replaced ad-hoc method wrapping around
// handlePlayerDeath with a registered-listener list in hub.go.
package damage

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"skyfleet/server/internal/apperr"
	"skyfleet/server/internal/cargo"
	"skyfleet/server/internal/combat"
	"skyfleet/server/internal/config"
	"skyfleet/server/internal/reward"
	"skyfleet/server/internal/state"
	"skyfleet/server/logging"
	combatlog "skyfleet/server/logging/combat"
)

// Result describes the outcome of one damage application.
type Result struct {
	ShieldDamage float64
	HullDamage   float64
	Destroyed    bool
}

// Observer is notified of terminal events the resolver produces. Every
// method must return promptly; long work belongs on the receiver's own
// goroutine. box is the cargo box spawned alongside the kill, or nil if
// none dropped.
type Observer interface {
	OnNPCDestroyed(npcID, npcType string, pos state.Vec2, killerID, killOpID string, box *state.CargoBox)
	OnPlayerDestroyed(playerID string)
}

// Resolver applies damage to players and NPCs and drives the reward and
// cargo pipelines on NPC death.
type Resolver struct {
	store   *state.Store
	cfg     config.Config
	combat  *combat.Manager
	rewards *reward.Grantor
	cargo   *cargo.Manager
	pub     logging.Publisher

	observers []Observer

	// OnDamage, if set, is called after every damage application (fatal
	// or not), once the target's health/shield have been mutated. Left
	// nil by default; the sim package wires it to broadcast entity_damaged.
	OnDamage func(entityID, entityType string, damage, newHealth, newShield float64)
}

// NewResolver constructs a Resolver wired to the given collaborators.
func NewResolver(store *state.Store, cfg config.Config, combatMgr *combat.Manager, rewards *reward.Grantor, cargoMgr *cargo.Manager, pub logging.Publisher) *Resolver {
	if pub == nil {
		pub = logging.NopPublisher{}
	}
	return &Resolver{store: store, cfg: cfg, combat: combatMgr, rewards: rewards, cargo: cargoMgr, pub: pub}
}

// Subscribe registers an Observer for destruction events.
func (r *Resolver) Subscribe(obs Observer) {
	r.observers = append(r.observers, obs)
}

// ApplyToNPC applies damage to target, shield-first, and runs death side
// effects when its health reaches zero.
func (r *Resolver) ApplyToNPC(ctx context.Context, tick uint64, mapID string, target *state.NPC, amount float64, sourcePlayerID string, now time.Time) Result {
	res := applyDamage(target.Shield, target.Health, amount)
	target.Shield -= res.ShieldDamage
	target.Health -= res.HullDamage
	target.LastDamage = now
	if sourcePlayerID != "" {
		target.LastAttackerID = sourcePlayerID
	}

	source := logging.EntityRef{Kind: logging.EntityKindPlayer, ID: sourcePlayerID}
	dest := logging.EntityRef{Kind: logging.EntityKindNPC, ID: target.ID}
	combatlog.DamageApplied(ctx, r.pub, tick, mapID, source, dest, res.ShieldDamage, res.HullDamage)
	if r.OnDamage != nil {
		r.OnDamage(target.ID, "npc", res.ShieldDamage+res.HullDamage, target.Health, target.Shield)
	}

	if target.Health > 0 {
		return res
	}
	res.Destroyed = true
	r.handleNPCDeath(ctx, tick, mapID, target, sourcePlayerID, now)
	return res
}

// ApplyToPlayer applies damage to target, shield-first, and runs death
// side effects when its health reaches zero.
func (r *Resolver) ApplyToPlayer(ctx context.Context, tick uint64, mapID string, target *state.Player, amount float64, sourceNPCID string, now time.Time) Result {
	res := applyDamage(target.Shield, target.Health, amount)
	target.Shield -= res.ShieldDamage
	target.Health -= res.HullDamage
	target.LastDamage = now

	source := logging.EntityRef{Kind: logging.EntityKindNPC, ID: sourceNPCID}
	dest := logging.EntityRef{Kind: logging.EntityKindPlayer, ID: target.ClientID}
	combatlog.DamageApplied(ctx, r.pub, tick, mapID, source, dest, res.ShieldDamage, res.HullDamage)
	if r.OnDamage != nil {
		r.OnDamage(target.ClientID, "player", res.ShieldDamage+res.HullDamage, target.Health, target.Shield)
	}

	if target.Health > 0 {
		return res
	}
	res.Destroyed = true
	r.handlePlayerDeath(ctx, tick, mapID, target, sourceNPCID, now)
	return res
}

func (r *Resolver) handleNPCDeath(ctx context.Context, tick uint64, mapID string, npc *state.NPC, killerID string, now time.Time) {
	r.store.RemoveNPC(npc.ID)

	source := logging.EntityRef{Kind: logging.EntityKindPlayer, ID: killerID}
	dest := logging.EntityRef{Kind: logging.EntityKindNPC, ID: npc.ID}

	npcClass := r.cfg.NPCClasses[npc.Type]
	killOpID := uuid.NewString()
	combatlog.EntityDestroyed(ctx, r.pub, tick, mapID, source, dest, killOpID)

	if killerID != "" {
		if _, err := r.rewards.Apply(ctx, tick, mapID, killerID, npcClass, killOpID); err != nil {
			// Reward grant failures are not fatal to the kill itself; the
			// kill already happened and must not be replayed.
			_ = apperr.Code(err)
		}
	}

	box, spawned := r.cargo.SpawnCargoBox(npc.Position, npcClass, killerID, now)
	if !spawned {
		box = nil
	}

	for _, obs := range r.observers {
		obs.OnNPCDestroyed(npc.ID, npc.Type, npc.Position, killerID, killOpID, box)
	}
}

func (r *Resolver) handlePlayerDeath(ctx context.Context, tick uint64, mapID string, player *state.Player, sourceNPCID string, now time.Time) {
	player.IsDead = true
	r.combat.StopCombat(player, now)

	for _, npc := range r.store.NPCs() {
		if npc.LastAttackerID == player.ClientID {
			npc.LastAttackerID = ""
		}
	}

	source := logging.EntityRef{Kind: logging.EntityKindNPC, ID: sourceNPCID}
	dest := logging.EntityRef{Kind: logging.EntityKindPlayer, ID: player.ClientID}
	combatlog.EntityDestroyed(ctx, r.pub, tick, mapID, source, dest, "")

	for _, obs := range r.observers {
		obs.OnPlayerDestroyed(player.ClientID)
	}
}

// applyDamage computes the shield-then-health split for amount, clamping
// both components to non-negative integers per §4.5's numeric semantics.
func applyDamage(shield, health, amount float64) Result {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	shieldDamage := math.Min(math.Floor(amount), math.Max(shield, 0))
	remaining := amount - shieldDamage
	hullDamage := math.Min(math.Floor(remaining), math.Max(health, 0))
	return Result{ShieldDamage: shieldDamage, HullDamage: hullDamage}
}
