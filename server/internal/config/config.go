// Package config holds the read-only static configuration data that the
// simulation treats as given: map dimensions, ship and NPC class stats,
// drop tables and tunables. It is loaded once at startup (by default from
// a YAML fixture) and never mutated afterwards.
package config

import "time"

const (
	// TickRate is the fixed simulation rate every map runs at.
	TickRate = 20
	// TickInterval is the wall-clock duration of one tick.
	TickInterval = time.Second / TickRate

	WorldWidth  = 20000.0
	WorldHeight = 20000.0

	PlayerCollisionRadius = 30.0

	NPCRespawnDelay        = 10 * time.Second
	NPCMinSpawnDistance    = 1000.0
	NPCSpawnMaxAttempts    = 10
	NPCCentralFallbackFrac = 0.8

	HeartbeatInterval = 2 * time.Second
	PersistInterval   = 5 * time.Minute

	CargoCollectDistance    = 520.0
	CargoChannelDuration    = 1800 * time.Millisecond
	CargoChannelDriftLimit  = 26.0
	KillOpRingBufferSize    = 300
	PositionQueueMaxLength  = 5
)

// ShipClass is the static stat row for a player ship hull, keyed by its
// slug (e.g. "scout", "fighter").
type ShipClass struct {
	ID          string
	BaseHealth  float64
	BaseShield  float64
	BaseSpeed   float64
	BaseWeaponDamage  float64
	HPUpgradeStep     float64
	ShieldUpgradeStep float64
	DamageUpgradeStep float64
}

// NPCClass is the static stat row for an NPC type (e.g. "Scouter",
// "Kronos", "Guard", "Pyramid").
type NPCClass struct {
	ID             string
	BaseHealth     float64
	BaseShield     float64
	BaseSpeed      float64
	AttackRange    float64
	AttackDamage   float64
	AggroRange     float64
	FleeHealthFrac float64
	Rewards        Reward
	DropTable      []DropEntry

	// CargoDropChance is the probability that killing this NPC spawns a
	// cargo box at all; CargoResources lists the resource types the box
	// may contain (one is picked uniformly on spawn).
	CargoDropChance  float64
	CargoResources   []string
	CargoQuantityMin int
	CargoQuantityMax int
}

// DropEntry is one item candidate in an NPC's single-roll drop table, used
// by RewardGrant.
type DropEntry struct {
	ItemID      string
	DropChance  float64
}

// Reward is the currency payout granted for killing one NPC of a class.
type Reward struct {
	Credits    int64
	Experience int64
	Honor      int64
	Cosmos     int64
}

// World captures per-map dimensions.
type World struct {
	Width  float64
	Height float64
}

// Config is the fully-loaded static configuration for one server process.
type Config struct {
	World       World
	ShipClasses map[string]ShipClass
	NPCClasses  map[string]NPCClass
	Observability Observability
}

// Observability holds operator-facing toggles that don't affect
// simulation behavior, only what the HTTP surface exposes.
type Observability struct {
	// EnablePprofTrace gates /debug/pprof/trace, which a profiler left
	// running can use to pin a CPU for the duration of the capture.
	EnablePprofTrace bool
}

// Default returns a hard-coded configuration sufficient to run a map
// without a YAML fixture on disk; Load overrides it with file
// contents when one is supplied.
func Default() Config {
	return Config{
		World: World{Width: WorldWidth, Height: WorldHeight},
		ShipClasses: map[string]ShipClass{
			"scout":     {ID: "scout", BaseHealth: 80, BaseShield: 40, BaseSpeed: 220, BaseWeaponDamage: 6, HPUpgradeStep: 0.05, ShieldUpgradeStep: 0.05, DamageUpgradeStep: 0.05},
			"fighter":   {ID: "fighter", BaseHealth: 100, BaseShield: 60, BaseSpeed: 180, BaseWeaponDamage: 9, HPUpgradeStep: 0.05, ShieldUpgradeStep: 0.05, DamageUpgradeStep: 0.05},
			"cruiser":   {ID: "cruiser", BaseHealth: 220, BaseShield: 140, BaseSpeed: 120, BaseWeaponDamage: 14, HPUpgradeStep: 0.05, ShieldUpgradeStep: 0.05, DamageUpgradeStep: 0.05},
			"freighter": {ID: "freighter", BaseHealth: 160, BaseShield: 80, BaseSpeed: 100, BaseWeaponDamage: 5, HPUpgradeStep: 0.05, ShieldUpgradeStep: 0.05, DamageUpgradeStep: 0.05},
		},
		NPCClasses: map[string]NPCClass{
			"Scouter": {
				ID: "Scouter", BaseHealth: 45, BaseShield: 15, BaseSpeed: 150,
				AttackRange: 600, AttackDamage: 8, AggroRange: 900, FleeHealthFrac: 0.5,
				Rewards:          Reward{Credits: 15, Experience: 5, Honor: 1},
				DropTable:        []DropEntry{{ItemID: "salvage_scanner", DropChance: 0.08}},
				CargoDropChance:  0.6,
				CargoResources:   []string{"ore"},
				CargoQuantityMin: 1,
				CargoQuantityMax: 3,
			},
			"Kronos": {
				ID: "Kronos", BaseHealth: 90, BaseShield: 35, BaseSpeed: 130,
				AttackRange: 750, AttackDamage: 14, AggroRange: 1100, FleeHealthFrac: 0.4,
				Rewards:          Reward{Credits: 35, Experience: 12, Honor: 2},
				DropTable:        []DropEntry{{ItemID: "crystal_lens", DropChance: 0.1}},
				CargoDropChance:  0.45,
				CargoResources:   []string{"crystal"},
				CargoQuantityMin: 1,
				CargoQuantityMax: 2,
			},
			"Guard": {
				ID: "Guard", BaseHealth: 140, BaseShield: 60, BaseSpeed: 100,
				AttackRange: 650, AttackDamage: 18, AggroRange: 1000, FleeHealthFrac: 0.3,
				Rewards:          Reward{Credits: 50, Experience: 20, Honor: 4},
				DropTable:        []DropEntry{{ItemID: "alloy_plating", DropChance: 0.12}},
				CargoDropChance:  0.5,
				CargoResources:   []string{"alloy"},
				CargoQuantityMin: 2,
				CargoQuantityMax: 5,
			},
			"Pyramid": {
				ID: "Pyramid", BaseHealth: 300, BaseShield: 150, BaseSpeed: 70,
				AttackRange: 800, AttackDamage: 26, AggroRange: 1200, FleeHealthFrac: 0.25,
				Rewards:          Reward{Credits: 120, Experience: 60, Honor: 10, Cosmos: 1},
				DropTable:        []DropEntry{{ItemID: "relic_core", DropChance: 0.2}},
				CargoDropChance:  0.2,
				CargoResources:   []string{"relic"},
				CargoQuantityMin: 1,
				CargoQuantityMax: 1,
			},
		},
	}
}

// normalized fills in zero-valued fields with safe defaults, mirroring the
// teacher's worldConfig normalization pattern so a partially-specified
// YAML fixture still produces a runnable configuration.
func (c Config) normalized() Config {
	if c.World.Width <= 0 {
		c.World.Width = WorldWidth
	}
	if c.World.Height <= 0 {
		c.World.Height = WorldHeight
	}
	if c.ShipClasses == nil {
		c.ShipClasses = Default().ShipClasses
	}
	if c.NPCClasses == nil {
		c.NPCClasses = Default().NPCClasses
	}
	return c
}
