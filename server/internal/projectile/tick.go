package projectile

import (
	"math"
	"time"

	"skyfleet/server/internal/state"
)

// Outcome is the result of advancing every live projectile on a map for
// one tick.
type Outcome struct {
	Hits     []HitResult
	Removals []Removal
}

// Advance runs the full steer -> integrate -> remove-check -> collide
// pipeline for every projectile in store, per §4.4's tick order.
func Advance(store *state.Store, dt float64, now time.Time) Outcome {
	var out Outcome

	for id, p := range store.Projectiles() {
		firedByPlayer := p.Source == state.ProjectileSourcePlayer

		var targetPos state.Vec2
		targetExists := false
		targetIsNPC := false
		if p.TargetID != "" {
			if npc, ok := store.NPC(p.TargetID); ok {
				targetPos = npc.Position
				targetExists = true
				targetIsNPC = true
			} else if pl, ok := store.Player(p.TargetID); ok {
				targetPos = pl.Position
				targetExists = true
			}
		}

		if targetExists {
			Steer(p, targetPos, dt)
		}
		Integrate(p, dt)

		distanceToTarget := math.MaxFloat64
		if targetExists {
			dx := targetPos.X - p.Position.X
			dy := targetPos.Y - p.Position.Y
			distanceToTarget = math.Hypot(dx, dy)
		}

		lifetime := ExpectedLifetime(p.TargetID != "", p.InitialDistance, math.Hypot(p.Velocity.X, p.Velocity.Y), firedByPlayer)
		if removal := CheckRemoval(p, now, lifetime, targetExists, distanceToTarget); removal != nil {
			out.Removals = append(out.Removals, *removal)
			store.RemoveProjectile(id)
			continue
		}

		if hit := resolveCollision(store, id, p, targetExists, targetPos, targetIsNPC); hit != nil {
			out.Hits = append(out.Hits, *hit)
			store.RemoveProjectile(id)
		}
	}

	return out
}

func resolveCollision(store *state.Store, id string, p *state.Projectile, targetExists bool, targetPos state.Vec2, targetIsNPC bool) *HitResult {
	if p.TargetID != "" {
		if !targetExists {
			return nil
		}
		relSpeed := math.Hypot(p.Velocity.X, p.Velocity.Y)
		radius := CollisionRadius(targetIsNPC, relSpeed)
		if CheckCollision(p, targetPos, radius) {
			return &HitResult{ProjectileID: id, TargetID: p.TargetID, TargetIsNPC: targetIsNPC, Damage: p.Damage, ShooterID: p.PlayerID}
		}
		return nil
	}

	for npcID, npc := range store.NPCs() {
		if npcID == p.PlayerID {
			continue // a projectile cannot damage its own shooter
		}
		if CheckCollision(p, npc.Position, CollisionRadius(true, 0)) {
			return &HitResult{ProjectileID: id, TargetID: npcID, TargetIsNPC: true, Damage: p.Damage, ShooterID: p.PlayerID}
		}
	}
	for playerID, pl := range store.Players() {
		if playerID == p.PlayerID {
			continue // a projectile cannot damage its own shooter
		}
		if CheckCollision(p, pl.Position, CollisionRadius(false, 0)) {
			return &HitResult{ProjectileID: id, TargetID: playerID, TargetIsNPC: false, Damage: p.Damage, ShooterID: p.PlayerID}
		}
	}
	return nil
}
