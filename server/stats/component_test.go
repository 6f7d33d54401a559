package stats

import "testing"

func TestComponentLayerOrder(t *testing.T) {
	base := ArchetypeBase(100, 50)
	comp := NewComponent(base)

	upgrade := NewStatDelta()
	upgrade.Mul[StatHealth] = UpgradeMultiplier(3, 0.05)
	comp.Apply(CommandStatChange{
		Layer:  LayerUpgrade,
		Source: SourceKey{Kind: SourceKindProgression, ID: "hp_upgrade"},
		Delta:  upgrade,
	})

	equipment := NewStatDelta()
	equipment.Add[StatHealth] = 20
	comp.Apply(CommandStatChange{
		Layer:  LayerEquipment,
		Source: SourceKey{Kind: SourceKindEquipment, ID: "reinforced-hull"},
		Delta:  equipment,
	})

	comp.Resolve(1)

	// (100 * 1.15) + 20 = 135
	if got := comp.GetDerived(DerivedMaxHealth); mathAbsDiff(got, 135) > 1e-6 {
		t.Fatalf("expected max health 135, got %.2f", got)
	}
}

func TestDefaultArchetypeMaxHealth(t *testing.T) {
	comp := DefaultComponent(ArchetypeFighter)
	if got := comp.GetDerived(DerivedMaxHealth); mathAbsDiff(got, 100) > 1e-6 {
		t.Fatalf("expected default fighter max health 100, got %.2f", got)
	}
	if got := comp.GetDerived(DerivedMaxShield); mathAbsDiff(got, 60) > 1e-6 {
		t.Fatalf("expected default fighter max shield 60, got %.2f", got)
	}
}

func TestEquipmentRemovalRebuildsLayer(t *testing.T) {
	comp := NewComponent(ArchetypeBase(100, 50))

	equip := NewStatDelta()
	equip.Add[StatHealth] = 40
	key := SourceKey{Kind: SourceKindEquipment, ID: "armor-plate"}
	comp.Apply(CommandStatChange{Layer: LayerEquipment, Source: key, Delta: equip})
	comp.Resolve(1)
	if got := comp.GetDerived(DerivedMaxHealth); mathAbsDiff(got, 140) > 1e-6 {
		t.Fatalf("expected max health 140 with armor equipped, got %.2f", got)
	}

	comp.Apply(CommandStatChange{Layer: LayerEquipment, Source: key, Remove: true})
	comp.Resolve(2)
	if got := comp.GetDerived(DerivedMaxHealth); mathAbsDiff(got, 100) > 1e-6 {
		t.Fatalf("expected max health 100 after unequip, got %.2f", got)
	}
}

func TestDeterministicRecomputation(t *testing.T) {
	base := DefaultBase(ArchetypeCruiser)
	compA := NewComponent(base)
	compB := NewComponent(base)

	upgrade := NewStatDelta()
	upgrade.Mul[StatHealth] = UpgradeMultiplier(2, 0.05)
	equip := NewStatDelta()
	equip.Add[StatHealth] = 15

	compA.Apply(CommandStatChange{Layer: LayerUpgrade, Source: SourceKey{Kind: SourceKindProgression, ID: "hp_upgrade"}, Delta: upgrade})
	compA.Apply(CommandStatChange{Layer: LayerEquipment, Source: SourceKey{Kind: SourceKindEquipment, ID: "plate"}, Delta: equip})

	compB.Apply(CommandStatChange{Layer: LayerEquipment, Source: SourceKey{Kind: SourceKindEquipment, ID: "plate"}, Delta: equip})
	compB.Apply(CommandStatChange{Layer: LayerUpgrade, Source: SourceKey{Kind: SourceKindProgression, ID: "hp_upgrade"}, Delta: upgrade})

	compA.Resolve(10)
	compB.Resolve(10)

	for i := StatID(0); i < StatCount; i++ {
		if mathAbsDiff(compA.GetTotal(i), compB.GetTotal(i)) > 1e-6 {
			t.Fatalf("totals diverged for stat %d: %.4f vs %.4f", i, compA.GetTotal(i), compB.GetTotal(i))
		}
	}
	for i := DerivedID(0); i < DerivedCount; i++ {
		if mathAbsDiff(compA.GetDerived(i), compB.GetDerived(i)) > 1e-6 {
			t.Fatalf("derived diverged for stat %d: %.4f vs %.4f", i, compA.GetDerived(i), compB.GetDerived(i))
		}
	}
}

func mathAbsDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
