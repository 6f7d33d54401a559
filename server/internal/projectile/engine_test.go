package projectile

import (
	"math"
	"testing"
	"time"

	"skyfleet/server/internal/state"
)

func TestSteerClampsByTurnRate(t *testing.T) {
	p := &state.Projectile{Velocity: state.Vec2{X: 100, Y: 0}}
	target := state.Vec2{X: 0, Y: 100} // directly "above" in +y, 90 degrees away
	Steer(p, target, 0.1)

	angle := math.Atan2(p.Velocity.Y, p.Velocity.X)
	maxStep := TurnRate * 0.1
	if math.Abs(angle) > maxStep+1e-9 {
		t.Fatalf("expected steer to clamp to %f rad, got %f", maxStep, angle)
	}
	speed := math.Hypot(p.Velocity.X, p.Velocity.Y)
	if math.Abs(speed-100) > 1e-6 {
		t.Fatalf("expected speed to be preserved, got %f", speed)
	}
}

func TestCheckRemovalExpiresAndBounds(t *testing.T) {
	now := time.Now()
	p := &state.Projectile{CreatedAt: now.Add(-11 * time.Second)}
	if removal := CheckRemoval(p, now, NonHomingLifetime, false, 0); removal == nil || removal.Reason != "expired" {
		t.Fatalf("expected expired removal, got %v", removal)
	}

	p2 := &state.Projectile{CreatedAt: now, Position: state.Vec2{X: 30000, Y: 0}}
	if removal := CheckRemoval(p2, now, NonHomingLifetime, false, 0); removal == nil || removal.Reason != "out_of_bounds" {
		t.Fatalf("expected out_of_bounds removal, got %v", removal)
	}
}

func TestCheckRemovalOrphanedWhenTargetGone(t *testing.T) {
	now := time.Now()
	p := &state.Projectile{CreatedAt: now, TargetID: "npc_7"}
	removal := CheckRemoval(p, now, NonHomingLifetime, false, 0)
	if removal == nil || removal.Reason != "orphaned" {
		t.Fatalf("expected orphaned removal, got %v", removal)
	}
}

func TestAdvanceSkipsShooterAsTarget(t *testing.T) {
	store := state.NewStore()
	shooter := &state.Player{ClientID: "shooter", Position: state.Vec2{}}
	store.AddPlayer(shooter)
	store.AddProjectile(&state.Projectile{
		ID: "proj_1", PlayerID: "shooter", Source: state.ProjectileSourcePlayer,
		Position: state.Vec2{}, Velocity: state.Vec2{X: 0, Y: 0}, CreatedAt: time.Now(),
	})

	outcome := Advance(store, 0.05, time.Now())
	if len(outcome.Hits) != 0 {
		t.Fatalf("expected no hits against the shooter itself, got %v", outcome.Hits)
	}
}

func TestAdvanceDetectsNonHomingCollision(t *testing.T) {
	store := state.NewStore()
	store.AddPlayer(&state.Player{ClientID: "victim", Position: state.Vec2{X: 5, Y: 0}})
	store.AddProjectile(&state.Projectile{
		ID: "proj_1", PlayerID: "shooter", Source: state.ProjectileSourcePlayer,
		Position: state.Vec2{X: 0, Y: 0}, Velocity: state.Vec2{}, CreatedAt: time.Now(),
	})

	outcome := Advance(store, 0.0, time.Now())
	if len(outcome.Hits) != 1 || outcome.Hits[0].TargetID != "victim" {
		t.Fatalf("expected hit on victim, got %v", outcome.Hits)
	}
}
