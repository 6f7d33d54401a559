// Package state defines the per-map entity types the simulation mutates
// every tick: players, NPCs, projectiles and cargo boxes. Types here hold
// live, mutable truth; wire encoding lives in internal/net/proto.
package state

import (
	"time"

	"skyfleet/server/stats"
)

// Vec2 is a 2-D world-space point or vector.
type Vec2 struct {
	X, Y float64
}

// ItemSlot identifies an equippable slot on a ship.
type ItemSlot string

const (
	SlotNone   ItemSlot = ""
	SlotHull   ItemSlot = "HULL"
	SlotShield ItemSlot = "SHIELD"
)

// Item is one inventory entry; Slot is SlotNone when unequipped.
type Item struct {
	ID         string
	InstanceID string
	AcquiredAt time.Time
	Slot       ItemSlot
}

// Upgrades holds the non-negative upgrade point counts a player has spent.
type Upgrades struct {
	HP     int
	Shield int
	Speed  int
	Damage int
}

// Inventory holds a player's non-negative currency and resource counts.
type Inventory struct {
	Credits          int64
	Cosmos           int64
	Experience       int64
	Honor            int64
	SkillPoints      int64
	SkillPointsTotal int64
	Resources        map[string]int64
}

// Clone returns a deep copy safe to hand to a broadcast goroutine.
func (inv Inventory) Clone() Inventory {
	out := inv
	if inv.Resources != nil {
		out.Resources = make(map[string]int64, len(inv.Resources))
		for k, v := range inv.Resources {
			out.Resources[k] = v
		}
	}
	return out
}

// KillOpRing is a fixed-capacity ring buffer of recently applied
// killOpIds, used by RewardGrant to suppress duplicate grants under
// client retries and reconnects.
type KillOpRing struct {
	entries []string
	seen    map[string]struct{}
	next    int
}

// NewKillOpRing constructs a ring with the given capacity.
func NewKillOpRing(capacity int) *KillOpRing {
	if capacity <= 0 {
		capacity = 1
	}
	return &KillOpRing{
		entries: make([]string, capacity),
		seen:    make(map[string]struct{}, capacity),
	}
}

// Contains reports whether killOpId was recorded and not yet evicted.
func (r *KillOpRing) Contains(killOpID string) bool {
	_, ok := r.seen[killOpID]
	return ok
}

// Record adds killOpId, evicting the oldest entry if the ring is full.
// Recording an already-present id is a no-op.
func (r *KillOpRing) Record(killOpID string) {
	if r.Contains(killOpID) {
		return
	}
	if evicted := r.entries[r.next]; evicted != "" {
		delete(r.seen, evicted)
	}
	r.entries[r.next] = killOpID
	r.seen[killOpID] = struct{}{}
	r.next = (r.next + 1) % len(r.entries)
}

// Player is one connected session's live entity state.
type Player struct {
	ClientID   string
	UserID     string
	PlayerDBID string
	Nickname   string

	Position Vec2
	Rotation float64
	Velocity Vec2

	ShipClass string
	Health    float64
	Shield    float64
	Stats     stats.Component

	Upgrades  Upgrades
	Inventory Inventory
	Items     []Item

	IsDead          bool
	IsAdministrator bool
	IsMigrating     bool

	LastInputAt    time.Time
	LastDamage     time.Time
	LastCombatStop time.Time
	KillOps        *KillOpRing
}

// MaxHealth returns the player's current derived max health.
func (p *Player) MaxHealth() float64 { return p.Stats.GetDerived(stats.DerivedMaxHealth) }

// MaxShield returns the player's current derived max shield.
func (p *Player) MaxShield() float64 { return p.Stats.GetDerived(stats.DerivedMaxShield) }

// Behavior is the NpcAi state machine's current mode.
type Behavior string

const (
	BehaviorCruise     Behavior = "cruise"
	BehaviorAggressive Behavior = "aggressive"
	BehaviorFlee       Behavior = "flee"
)

// NPC is a non-player ship: a roaming hazard, a pirate, a guard.
type NPC struct {
	ID   string
	Type string

	Position Vec2
	Velocity Vec2
	Rotation float64

	Health    float64
	Shield    float64
	Stats     stats.Component

	Behavior Behavior

	LastAttackerID string
	LastDamage     time.Time
	// LastPlayerInRange is the timestamp a player was last seen within
	// class.AggroRange; zero if none ever has. Drives §4.2 transition
	// rule 2 alongside LastDamage.
	LastPlayerInRange time.Time
	LastAttackAt      time.Time
}

// MaxHealth returns the NPC's current derived max health.
func (n *NPC) MaxHealth() float64 { return n.Stats.GetDerived(stats.DerivedMaxHealth) }

// MaxShield returns the NPC's current derived max shield.
func (n *NPC) MaxShield() float64 { return n.Stats.GetDerived(stats.DerivedMaxShield) }

// ProjectileSource identifies what fired a projectile.
type ProjectileSource string

const (
	ProjectileSourcePlayer ProjectileSource = "player"
	ProjectileSourcePet    ProjectileSource = "pet"
	ProjectileSourceNPC    ProjectileSource = "npc"
)

// Projectile is a single in-flight shot, homing or not.
type Projectile struct {
	ID               string
	PlayerID         string
	Source           ProjectileSource
	Position         Vec2
	Velocity         Vec2
	Damage           float64
	ProjectileType   string
	TargetID         string
	CreatedAt        time.Time
	InitialDistance  float64
}

// CargoBox is lootable debris dropped on NPC death.
type CargoBox struct {
	ID             string
	Position       Vec2
	ResourceType   string
	Quantity       int
	NPCType        string
	KillerID       string
	SpawnedAt      time.Time
	ExpiresAt      time.Time
	ExclusiveUntil time.Time

	// Collection channel state; zero value means nobody is collecting.
	CollectingPlayerID string
	CollectAnchor      Vec2
	CollectStartedAt   time.Time
}

// CombatSession tracks one player's locked target and fire cadence.
type CombatSession struct {
	PlayerID      string
	TargetID      string
	LastAttackAt  time.Time
}
