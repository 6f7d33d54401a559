// Package projectile implements the ProjectileEngine: per-tick homing
// steering, integration, lifetime/out-of-bounds checks, and collision
// resolution against NPCs and players. The steer-then-integrate-then-
// collide tick order is grounded on the teacher's
// internal/combat/projectile_advance.go and projectile_overlap.go, which
// advance a projectile's travel and then scan nearby actors for overlap;
// this engine generalizes that order from top-down melee/ranged combat to
// homing guided munitions.
package projectile

import (
	"math"
	"time"

	"skyfleet/server/internal/state"
)

const (
	// TurnRate is the maximum angular velocity a homing projectile can
	// steer by in one second.
	TurnRate = 4.0 // radians/second

	NonHomingLifetime = 10 * time.Second
	HomingMaxMargin   = 3 * time.Second
	PlayerShotCap     = 8 * time.Second
	NPCShotCap        = 12 * time.Second

	OutOfBoundsLimit = 25000.0
	OrphanDistance   = 2000.0

	playerCollisionRadius  = 30.0
	npcBaseCollisionRadius = 40.0
	npcSpeedBonusPerUnit   = 10.0 // px per 100 px/s of relative speed above threshold
	npcSpeedBonusThreshold = 200.0
	npcSpeedBonusCap       = 80.0
)

// HitResult describes a projectile's collision outcome for a single tick.
// Damage and ShooterID are copied from the projectile before it is removed
// from the store, since the caller only sees the Outcome afterward.
type HitResult struct {
	ProjectileID string
	TargetID     string
	TargetIsNPC  bool
	Damage       float64
	ShooterID    string
}

// Removal describes why a projectile left the simulation absent a hit.
type Removal struct {
	ProjectileID string
	Reason       string // "expired", "out_of_bounds", "orphaned", "target_too_far"
}

// ExpectedLifetime returns how long a projectile should live given whether
// it homes, its initial distance to target, its speed, and whether it was
// fired by a player or an NPC.
func ExpectedLifetime(homing bool, initialDistance, speed float64, firedByPlayer bool) time.Duration {
	if !homing {
		return NonHomingLifetime
	}
	if speed <= 0 {
		speed = 1
	}
	travel := time.Duration(initialDistance/speed*1000) * time.Millisecond
	margin := travel / 2
	if margin > HomingMaxMargin {
		margin = HomingMaxMargin
	}
	lifetime := travel + margin
	cap := PlayerShotCap
	if !firedByPlayer {
		cap = NPCShotCap
	}
	if lifetime > cap {
		lifetime = cap
	}
	return lifetime
}

// CollisionRadius returns the effective collision radius for a target,
// widened for NPCs moving fast relative to the projectile.
func CollisionRadius(isNPC bool, relativeSpeed float64) float64 {
	if !isNPC {
		return playerCollisionRadius
	}
	bonus := 0.0
	if relativeSpeed > npcSpeedBonusThreshold {
		bonus = (relativeSpeed - npcSpeedBonusThreshold) / 100.0 * npcSpeedBonusPerUnit
		if bonus > npcSpeedBonusCap {
			bonus = npcSpeedBonusCap
		}
	}
	return npcBaseCollisionRadius + bonus
}

// Steer updates a homing projectile's velocity to turn toward its target
// position, clamped by TurnRate·dt, preserving speed magnitude.
func Steer(p *state.Projectile, targetPos state.Vec2, dt float64) {
	speed := math.Hypot(p.Velocity.X, p.Velocity.Y)
	if speed == 0 {
		return
	}
	currentAngle := math.Atan2(p.Velocity.Y, p.Velocity.X)
	dx := targetPos.X - p.Position.X
	dy := targetPos.Y - p.Position.Y
	targetAngle := math.Atan2(dy, dx)

	delta := shortestAngle(targetAngle - currentAngle)
	maxStep := TurnRate * dt
	if delta > maxStep {
		delta = maxStep
	} else if delta < -maxStep {
		delta = -maxStep
	}

	newAngle := currentAngle + delta
	p.Velocity.X = math.Cos(newAngle) * speed
	p.Velocity.Y = math.Sin(newAngle) * speed
}

func shortestAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Integrate advances a projectile's position by velocity·dt.
func Integrate(p *state.Projectile, dt float64) {
	p.Position.X += p.Velocity.X * dt
	p.Position.Y += p.Velocity.Y * dt
}

// CheckRemoval evaluates lifetime and out-of-range conditions, returning a
// non-nil Removal if the projectile should be dropped this tick absent a
// collision.
func CheckRemoval(p *state.Projectile, now time.Time, lifetime time.Duration, targetExists bool, distanceToTarget float64) *Removal {
	if now.Sub(p.CreatedAt) >= lifetime {
		return &Removal{ProjectileID: p.ID, Reason: "expired"}
	}
	if math.Abs(p.Position.X) > OutOfBoundsLimit || math.Abs(p.Position.Y) > OutOfBoundsLimit {
		return &Removal{ProjectileID: p.ID, Reason: "out_of_bounds"}
	}
	if p.TargetID != "" {
		if !targetExists {
			return &Removal{ProjectileID: p.ID, Reason: "orphaned"}
		}
		if distanceToTarget > OrphanDistance {
			return &Removal{ProjectileID: p.ID, Reason: "target_too_far"}
		}
	}
	return nil
}

// CheckCollision tests p against a single candidate target (the homing
// case: only the locked target is tested). It returns true on a hit.
func CheckCollision(p *state.Projectile, targetPos state.Vec2, radius float64) bool {
	dx := targetPos.X - p.Position.X
	dy := targetPos.Y - p.Position.Y
	return dx*dx+dy*dy <= radius*radius
}
