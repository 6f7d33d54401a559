// Package ai implements the NPC behavior switcher: a fixed three-state
// machine (cruise, aggressive, flee) evaluated once per NPC per tick. The
// teacher's own AI ships a data-driven bytecode compiler for an
// open-ended quest-NPC behavior tree; a fixed three-state machine doesn't
// need that indirection, so this is a direct Go switch instead.
package ai

import (
	"math"
	"math/rand"
	"time"

	"skyfleet/server/internal/config"
	"skyfleet/server/internal/spatial"
	"skyfleet/server/internal/state"
	aimetrics "skyfleet/server/logging/ai"
	"skyfleet/server/logging"

	"context"
)

// DamageTimeout is how long an NPC stays "aggressive" after losing sight
// of, or last taking damage from, a player.
const DamageTimeout = 5 * time.Second

// Decide evaluates and applies the behavior transition and movement for a
// single NPC. dt is the tick's delta time in seconds.
func Decide(ctx context.Context, pub logging.Publisher, tick uint64, mapID string, npc *state.NPC, class config.NPCClass, store *state.Store, query spatial.Query, now time.Time, dt float64, rng *rand.Rand) {
	if npc == nil {
		return
	}
	guardNonFinite(npc, rng)
	updateProximity(npc, class, store, query, now)

	next := nextBehavior(npc, class, now)
	if next != npc.Behavior {
		aimetrics.StateTransition(ctx, pub, tick, mapID, logging.EntityRef{Kind: logging.EntityKindNPC, ID: npc.ID}, string(npc.Behavior), string(next))
		npc.Behavior = next
	}

	switch npc.Behavior {
	case state.BehaviorCruise:
		cruise(npc, class, dt, rng)
	case state.BehaviorAggressive:
		aggressive(npc, class, store, query, dt)
	case state.BehaviorFlee:
		flee(npc, class, store, query, dt)
	}

	integrate(npc, class, dt)
}

// updateProximity refreshes LastPlayerInRange when a player is currently
// within class.AggroRange, per §4.2 transition rule 2's proximity trigger.
func updateProximity(npc *state.NPC, class config.NPCClass, store *state.Store, query spatial.Query, now time.Time) {
	center := spatial.Point{X: npc.Position.X, Y: npc.Position.Y}
	id, ok := query.NearestPlayer(store, center, math.MaxFloat64)
	if !ok {
		return
	}
	player, ok := store.Player(id)
	if !ok {
		return
	}
	aggroRange := class.AggroRange
	if aggroRange <= 0 {
		aggroRange = class.AttackRange
	}
	if aggroRange <= 0 {
		return
	}
	if math.Hypot(player.Position.X-npc.Position.X, player.Position.Y-npc.Position.Y) <= aggroRange {
		npc.LastPlayerInRange = now
	}
}

func nextBehavior(npc *state.NPC, class config.NPCClass, now time.Time) state.Behavior {
	maxHealth := npc.MaxHealth()
	fleeThreshold := class.FleeHealthFrac
	if fleeThreshold <= 0 {
		fleeThreshold = 0.5
	}
	if maxHealth > 0 && npc.Health < fleeThreshold*maxHealth {
		return state.BehaviorFlee
	}
	if !npc.LastPlayerInRange.IsZero() && now.Sub(npc.LastPlayerInRange) < DamageTimeout {
		return state.BehaviorAggressive
	}
	if !npc.LastDamage.IsZero() && now.Sub(npc.LastDamage) < DamageTimeout {
		return state.BehaviorAggressive
	}
	return state.BehaviorCruise
}

func cruise(npc *state.NPC, class config.NPCClass, dt float64, rng *rand.Rand) {
	speed := math.Hypot(npc.Velocity.X, npc.Velocity.Y)
	if speed < 0.1 {
		angle := rng.Float64() * 2 * math.Pi
		baseSpeed := class.BaseSpeed
		npc.Velocity.X = math.Cos(angle) * 0.5 * baseSpeed
		npc.Velocity.Y = math.Sin(angle) * 0.5 * baseSpeed
	}
	if math.Hypot(npc.Velocity.X, npc.Velocity.Y) >= 0.1 {
		npc.Rotation = math.Atan2(npc.Velocity.Y, npc.Velocity.X) + math.Pi/2
	}
}

func aggressive(npc *state.NPC, class config.NPCClass, store *state.Store, query spatial.Query, dt float64) {
	var targetPos state.Vec2
	found := false
	if npc.LastAttackerID != "" {
		if p, ok := store.Player(npc.LastAttackerID); ok {
			targetPos = p.Position
			found = true
		}
	}
	if !found {
		center := spatial.Point{X: npc.Position.X, Y: npc.Position.Y}
		if id, ok := query.NearestPlayer(store, center, math.MaxFloat64); ok {
			if p, ok := store.Player(id); ok {
				targetPos = p.Position
				found = true
			}
		}
	}
	if !found {
		return
	}

	dx := targetPos.X - npc.Position.X
	dy := targetPos.Y - npc.Position.Y
	d := math.Hypot(dx, dy)
	attackRange := class.AttackRange
	if attackRange <= 0 {
		attackRange = 600
	}

	angle := math.Atan2(dy, dx)
	speed := class.BaseSpeed

	switch {
	case d > 1.4*attackRange:
		npc.Velocity.X = math.Cos(angle) * speed
		npc.Velocity.Y = math.Sin(angle) * speed
	case d < 0.7*attackRange:
		npc.Velocity.X = -math.Cos(angle) * speed
		npc.Velocity.Y = -math.Sin(angle) * speed
	default:
		orbitAngle := angle + math.Pi/2
		npc.Velocity.X = math.Cos(orbitAngle) * 0.5 * speed
		npc.Velocity.Y = math.Sin(orbitAngle) * 0.5 * speed
	}

	// Sprite rotation always points at the target, regardless of which
	// movement bucket above fired.
	npc.Rotation = angle + math.Pi/2
}

func flee(npc *state.NPC, class config.NPCClass, store *state.Store, query spatial.Query, dt float64) {
	speed := math.Hypot(npc.Velocity.X, npc.Velocity.Y)

	var nearestPlayer state.Vec2
	foundPlayer := false
	center := spatial.Point{X: npc.Position.X, Y: npc.Position.Y}
	if id, ok := query.NearestPlayer(store, center, math.MaxFloat64); ok {
		if p, ok := store.Player(id); ok {
			nearestPlayer = p.Position
			foundPlayer = true
		}
	}

	if speed < 0.1 && foundPlayer {
		dx := npc.Position.X - nearestPlayer.X
		dy := npc.Position.Y - nearestPlayer.Y
		angle := math.Atan2(dy, dx)
		away := class.BaseSpeed * 1.5
		npc.Velocity.X = math.Cos(angle) * away
		npc.Velocity.Y = math.Sin(angle) * away
	}

	// Sprite rotation: toward the nearest player if inside attackRange,
	// else along the velocity heading.
	attackRange := class.AttackRange
	if attackRange <= 0 {
		attackRange = 600
	}
	if foundPlayer {
		dx := nearestPlayer.X - npc.Position.X
		dy := nearestPlayer.Y - npc.Position.Y
		if math.Hypot(dx, dy) < attackRange {
			npc.Rotation = math.Atan2(dy, dx) + math.Pi/2
			return
		}
	}
	if vs := math.Hypot(npc.Velocity.X, npc.Velocity.Y); vs >= 0.1 {
		npc.Rotation = math.Atan2(npc.Velocity.Y, npc.Velocity.X) + math.Pi/2
	}
}

func integrate(npc *state.NPC, class config.NPCClass, dt float64) {
	npc.Position.X += npc.Velocity.X * dt
	npc.Position.Y += npc.Velocity.Y * dt

	halfW := config.WorldWidth / 2
	halfH := config.WorldHeight / 2
	if npc.Position.X > halfW {
		npc.Position.X = halfW
		npc.Velocity.X = -npc.Velocity.X
	} else if npc.Position.X < -halfW {
		npc.Position.X = -halfW
		npc.Velocity.X = -npc.Velocity.X
	}
	if npc.Position.Y > halfH {
		npc.Position.Y = halfH
		npc.Velocity.Y = -npc.Velocity.Y
	} else if npc.Position.Y < -halfH {
		npc.Position.Y = -halfH
		npc.Velocity.Y = -npc.Velocity.Y
	}
}

// guardNonFinite resets an NPC to a safe state if its position or velocity
// has drifted to a non-finite value, per the spec's numeric invariant.
func guardNonFinite(npc *state.NPC, rng *rand.Rand) {
	if finite(npc.Position.X) && finite(npc.Position.Y) && finite(npc.Velocity.X) && finite(npc.Velocity.Y) {
		return
	}
	npc.Position = state.Vec2{}
	angle := rng.Float64() * 2 * math.Pi
	npc.Velocity = state.Vec2{X: math.Cos(angle) * 0.1, Y: math.Sin(angle) * 0.1}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
