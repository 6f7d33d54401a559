// Package stats bridges the per-ship stats.Component engine to the tick
// scheduler: Resolve is called once per tick for every live actor so
// derived maxHealth/maxShield stay current as upgrades and equipment
// change.
package stats

import serverstats "skyfleet/server/stats"

// Actor captures the dependencies required to resolve stat components for
// an actor and propagate derived capacity adjustments back to the caller.
type Actor struct {
	Component     *serverstats.Component
	SyncMaxHealth func(maxHealth float64)
	SyncMaxShield func(maxShield float64)
}

// Resolve advances each actor's stat component for the given tick and
// applies any resulting capacity adjustments through the provided sync
// callbacks.
func Resolve(tick uint64, actors []Actor) {
	for i := range actors {
		actor := actors[i]
		if actor.Component == nil {
			continue
		}

		actor.Component.Resolve(tick)
		SyncMaxHealth(actor.Component, actor.SyncMaxHealth)
		SyncMaxShield(actor.Component, actor.SyncMaxShield)
	}
}

// SyncMaxHealth computes the derived max health and invokes the provided
// callback when a positive value is available.
func SyncMaxHealth(component *serverstats.Component, sync func(maxHealth float64)) {
	if component == nil || sync == nil {
		return
	}

	maxHealth := component.GetDerived(serverstats.DerivedMaxHealth)
	if maxHealth <= 0 {
		return
	}

	sync(maxHealth)
}

// SyncMaxShield computes the derived max shield and invokes the provided
// callback when a positive value is available.
func SyncMaxShield(component *serverstats.Component, sync func(maxShield float64)) {
	if component == nil || sync == nil {
		return
	}

	maxShield := component.GetDerived(serverstats.DerivedMaxShield)
	if maxShield <= 0 {
		return
	}

	sync(maxShield)
}
