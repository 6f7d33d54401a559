package repair

import (
	"testing"
	"time"
)

func TestAdvanceWithholdsRepairInCombat(t *testing.T) {
	cfg := Config{OutOfCombatDelay: 5 * time.Second, HealthPerSecond: 10}
	now := time.Now()
	target := Target{Health: 50, MaxHealth: 100, LastDamage: now.Add(-1 * time.Second)}

	health, _ := Advance(cfg, target, now, time.Second)
	if health != 50 {
		t.Fatalf("expected no repair while still in combat cooldown, got %v", health)
	}
}

func TestAdvanceRestoresOutOfCombat(t *testing.T) {
	cfg := Config{OutOfCombatDelay: 5 * time.Second, HealthPerSecond: 10, ShieldPerSecond: 4}
	now := time.Now()
	target := Target{Health: 50, MaxHealth: 100, Shield: 10, MaxShield: 20, LastDamage: now.Add(-10 * time.Second)}

	health, shield := Advance(cfg, target, now, time.Second)
	if health != 60 {
		t.Fatalf("expected health to restore to 60, got %v", health)
	}
	if shield != 14 {
		t.Fatalf("expected shield to restore to 14, got %v", shield)
	}
}

func TestAdvanceClampsAtMax(t *testing.T) {
	cfg := Config{OutOfCombatDelay: time.Second, HealthPerSecond: 1000}
	now := time.Now()
	target := Target{Health: 95, MaxHealth: 100, LastDamage: now.Add(-10 * time.Second)}

	health, _ := Advance(cfg, target, now, time.Second)
	if health != 100 {
		t.Fatalf("expected health clamped to max 100, got %v", health)
	}
}

func TestAdvanceRepairsWhenNeverDamaged(t *testing.T) {
	cfg := Config{OutOfCombatDelay: 5 * time.Second, HealthPerSecond: 10}
	target := Target{Health: 50, MaxHealth: 100}

	health, _ := Advance(cfg, target, time.Now(), time.Second)
	if health != 60 {
		t.Fatalf("expected a never-damaged target to qualify for repair immediately, got %v", health)
	}
}
