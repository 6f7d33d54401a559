package stats

// Archetype identifies the default stat seed used to initialise a
// component before config-driven overrides (ship class / NPC class rows)
// are applied on top.
type Archetype uint8

const (
	ArchetypeScout Archetype = iota
	ArchetypeFighter
	ArchetypeCruiser
	ArchetypeFreighter
	ArchetypeDrone
	ArchetypeRaider
)

var archetypeBase = map[Archetype]ValueSet{
	ArchetypeScout:     ArchetypeBase(80, 40),
	ArchetypeFighter:   ArchetypeBase(100, 60),
	ArchetypeCruiser:   ArchetypeBase(220, 140),
	ArchetypeFreighter: ArchetypeBase(160, 80),
	ArchetypeDrone:     ArchetypeBase(45, 15),
	ArchetypeRaider:    ArchetypeBase(90, 35),
}

// DefaultBase returns a copy of the base hull capacities for the given
// archetype.
func DefaultBase(archetype Archetype) ValueSet {
	return archetypeBase[archetype]
}

// DefaultComponent constructs and resolves a component using the
// archetype's default base values. Callers typically layer upgrade and
// equipment deltas on top before the next Resolve.
func DefaultComponent(archetype Archetype) Component {
	comp := NewComponent(DefaultBase(archetype))
	comp.Resolve(0)
	return comp
}

// DefaultMaxHealth returns the resolved max health for the given
// archetype with no upgrades or equipment applied.
func DefaultMaxHealth(archetype Archetype) float64 {
	comp := DefaultComponent(archetype)
	return comp.GetDerived(DerivedMaxHealth)
}
