// Package combat provides typed constructors for combat-category events so
// callers in internal/combat, internal/projectile and internal/damage never
// build a logging.Event by hand.
package combat

import (
	"context"
	"time"

	"skyfleet/server/logging"
)

const (
	EventWeaponFired     logging.EventType = "combat.weapon_fired"
	EventProjectileHit   logging.EventType = "combat.projectile_hit"
	EventProjectileExpired logging.EventType = "combat.projectile_expired"
	EventDamageApplied   logging.EventType = "combat.damage_applied"
	EventShieldDepleted  logging.EventType = "combat.shield_depleted"
	EventEntityDestroyed logging.EventType = "combat.entity_destroyed"
)

// WeaponFired publishes a weapon-discharge event for the firing actor.
func WeaponFired(ctx context.Context, pub logging.Publisher, tick uint64, mapID string, shooter logging.EntityRef, weaponID string) {
	pub.Publish(ctx, logging.Event{
		Type:     EventWeaponFired,
		Tick:     tick,
		Time:     time.Now(),
		MapID:    mapID,
		Actor:    shooter,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  map[string]any{"weaponId": weaponID},
	})
}

// DamageApplied publishes the result of a damage pipeline resolution,
// recording how much of the hit was absorbed by shield versus hull.
func DamageApplied(ctx context.Context, pub logging.Publisher, tick uint64, mapID string, source, target logging.EntityRef, shieldDamage, hullDamage float64) {
	pub.Publish(ctx, logging.Event{
		Type:     EventDamageApplied,
		Tick:     tick,
		Time:     time.Now(),
		MapID:    mapID,
		Actor:    source,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  map[string]any{"shieldDamage": shieldDamage, "hullDamage": hullDamage},
	})
}

// EntityDestroyed publishes the terminal event of a combat session: target
// reached zero health as a result of a hit attributed to source.
func EntityDestroyed(ctx context.Context, pub logging.Publisher, tick uint64, mapID string, source, target logging.EntityRef, killOpID string) {
	pub.Publish(ctx, logging.Event{
		Type:     EventEntityDestroyed,
		Tick:     tick,
		Time:     time.Now(),
		MapID:    mapID,
		Actor:    source,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryCombat,
		CommandID: killOpID,
	})
}

// ProjectileExpired publishes a projectile lifetime-exhausted event.
func ProjectileExpired(ctx context.Context, pub logging.Publisher, tick uint64, mapID string, projectile logging.EntityRef) {
	pub.Publish(ctx, logging.Event{
		Type:     EventProjectileExpired,
		Tick:     tick,
		Time:     time.Now(),
		MapID:    mapID,
		Actor:    projectile,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
	})
}
