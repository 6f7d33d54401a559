// Package stats implements the layered stat-modifier engine backing ship
// vitals capacity: base hull stats, persistent upgrade multipliers, and
// equipment bonuses fold deterministically into maxHealth/maxShield on
// every Resolve call.
package stats

import (
	"math"
	"sort"
)

// StatID enumerates the capacity channels tracked by the stats engine.
type StatID uint8

const (
	StatHealth StatID = iota
	StatShield

	StatCount
)

// DerivedID enumerates derived stats computed from the channel totals.
type DerivedID uint8

const (
	DerivedMaxHealth DerivedID = iota
	DerivedMaxShield

	DerivedCount
)

// Layer describes the precedence order for additive and multiplicative
// modifiers: base hull values fold first, then persistent skill-upgrade
// multipliers, then equipment flat bonuses.
type Layer uint8

const (
	LayerBase Layer = iota
	LayerUpgrade
	LayerEquipment

	LayerCount
)

// SourceKind identifies the origin of a stat modifier for deterministic
// ordering when multiple sources occupy the same layer.
type SourceKind uint8

const (
	SourceKindUnknown SourceKind = iota
	SourceKindArchetype
	SourceKindProgression
	SourceKindEquipment
)

// SourceKey uniquely identifies the origin of a modifier inside a layer.
type SourceKey struct {
	Kind SourceKind
	ID   string
}

// ValueSet stores a fixed vector of stat values.
type ValueSet [StatCount]float64

// DerivedSet stores derived stat values.
type DerivedSet [DerivedCount]float64

// LayerStack caches the aggregate contributions for a modifier layer.
type LayerStack struct {
	add     ValueSet
	mul     ValueSet
	version uint64
}

type layerSource struct {
	delta StatDelta
}

// Component owns the stat state for a ship (player or NPC) and caches
// derived totals between ticks.
type Component struct {
	layers  [LayerCount]LayerStack
	sources map[Layer]map[SourceKey]*layerSource
	totals  ValueSet
	derived DerivedSet
	dirty   bool
	version uint64
}

// StatDelta captures additive and multiplicative contributions supplied by
// a single source.
type StatDelta struct {
	Add ValueSet
	Mul ValueSet
}

// CommandStatChange represents an atomic mutation applied to the component.
type CommandStatChange struct {
	Layer  Layer
	Source SourceKey
	Delta  StatDelta
	Remove bool
}

// NewComponent constructs a component seeded with the given base hull
// capacities (index StatHealth/StatShield hold baseHealth/baseShield).
func NewComponent(base ValueSet) Component {
	c := Component{}
	c.ensureInit()
	baseDelta := NewStatDelta()
	baseDelta.Add = base
	c.applySource(LayerBase, SourceKey{Kind: SourceKindArchetype, ID: "base"}, baseDelta)
	c.Resolve(0)
	return c
}

func (c *Component) ensureInit() {
	if c.sources != nil {
		return
	}
	c.sources = make(map[Layer]map[SourceKey]*layerSource)
	for layer := Layer(0); layer < LayerCount; layer++ {
		c.layers[layer].mul = unitValueSet()
	}
	c.dirty = true
}

// NewStatDelta creates a delta with neutral multiplicative values.
func NewStatDelta() StatDelta {
	d := StatDelta{}
	d.Mul = unitValueSet()
	return d
}

// Apply mutates the component according to the provided command. Changes
// take effect on the next Resolve call.
func (c *Component) Apply(change CommandStatChange) {
	if c == nil {
		return
	}
	c.ensureInit()
	if change.Layer >= LayerCount {
		return
	}
	if change.Remove {
		if c.removeSource(change.Layer, change.Source) {
			c.dirty = true
		}
		return
	}
	if c.applySource(change.Layer, change.Source, change.Delta) {
		c.dirty = true
	}
}

// Resolve folds all layers in deterministic order and recomputes derived
// stats. Cheap to call every tick; it is a no-op unless a source changed
// since the last call.
func (c *Component) Resolve(tick uint64) {
	if c == nil {
		return
	}
	c.ensureInit()
	if !c.dirty {
		return
	}

	total := c.layers[LayerBase].add
	multiplyValueSet(&total, c.layers[LayerBase].mul)

	for layer := LayerUpgrade; layer < LayerCount; layer++ {
		stack := &c.layers[layer]
		addValueSet(&total, stack.add)
		multiplyValueSet(&total, stack.mul)
	}

	c.totals = total
	c.derived = computeDerived(total)
	c.version++
	c.dirty = false
}

// Totals returns the cached total stat values.
func (c *Component) Totals() ValueSet { return c.totals }

// GetTotal returns the cached total for a specific stat.
func (c *Component) GetTotal(id StatID) float64 {
	if id >= StatCount {
		return 0
	}
	return c.totals[id]
}

// GetDerived returns the cached derived stat value.
func (c *Component) GetDerived(id DerivedID) float64 {
	if id >= DerivedCount {
		return 0
	}
	return c.derived[id]
}

// Version returns the component version, incremented on each Resolve that
// actually recomputed totals.
func (c *Component) Version() uint64 { return c.version }

func (c *Component) applySource(layer Layer, key SourceKey, delta StatDelta) bool {
	if c.sources[layer] == nil {
		c.sources[layer] = make(map[SourceKey]*layerSource)
	}
	current := c.sources[layer][key]
	if current != nil && sourcesEqual(current.delta, delta) {
		return false
	}
	if current == nil {
		current = &layerSource{}
		c.sources[layer][key] = current
	}
	current.delta = delta
	c.rebuildLayerStack(layer)
	return true
}

func (c *Component) removeSource(layer Layer, key SourceKey) bool {
	entries := c.sources[layer]
	if len(entries) == 0 {
		return false
	}
	if _, ok := entries[key]; !ok {
		return false
	}
	delete(entries, key)
	if len(entries) == 0 {
		delete(c.sources, layer)
	}
	c.rebuildLayerStack(layer)
	return true
}

func (c *Component) rebuildLayerStack(layer Layer) {
	stack := &c.layers[layer]
	stack.add = ValueSet{}
	stack.mul = unitValueSet()
	entries := c.sources[layer]
	if len(entries) == 0 {
		stack.version++
		return
	}
	keys := make([]SourceKey, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind < keys[j].Kind
		}
		return keys[i].ID < keys[j].ID
	})
	for _, key := range keys {
		src := entries[key]
		addValueSet(&stack.add, src.delta.Add)
		multiplyValueSet(&stack.mul, src.delta.Mul)
	}
	stack.version++
}

// computeDerived applies the floor that the wire protocol expects: capacity
// values are always presented to clients as integers.
func computeDerived(total ValueSet) DerivedSet {
	var d DerivedSet
	d[DerivedMaxHealth] = math.Floor(total[StatHealth])
	d[DerivedMaxShield] = math.Floor(total[StatShield])
	return d
}

func addValueSet(target *ValueSet, other ValueSet) {
	for i := range target {
		target[i] += other[i]
	}
}

func multiplyValueSet(target *ValueSet, other ValueSet) {
	for i := range target {
		target[i] *= other[i]
	}
}

func unitValueSet() ValueSet {
	var vs ValueSet
	for i := range vs {
		vs[i] = 1
	}
	return vs
}

func sourcesEqual(a, b StatDelta) bool {
	for i := range a.Add {
		if math.Abs(a.Add[i]-b.Add[i]) > 1e-9 {
			return false
		}
		if math.Abs(a.Mul[i]-b.Mul[i]) > 1e-9 {
			return false
		}
	}
	return true
}

// UpgradeMultiplier returns the 1 + 0.05*hpUpgrades style multiplier used to
// seed a LayerUpgrade delta for a given upgrade count and per-point bonus.
func UpgradeMultiplier(upgradeCount int, perPoint float64) float64 {
	return 1 + float64(upgradeCount)*perPoint
}

// ArchetypeBase returns the base hull capacities for a new component: a
// ValueSet with StatHealth/StatShield set from the archetype's configured
// base values.
func ArchetypeBase(baseHealth, baseShield float64) ValueSet {
	var vs ValueSet
	vs[StatHealth] = baseHealth
	vs[StatShield] = baseShield
	return vs
}
