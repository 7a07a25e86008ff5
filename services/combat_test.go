package services

import (
	"testing"

	"swords-with-friends/server/models"
)

func TestRollDamageBounds(t *testing.T) {
	rng := seeded()
	seenMin, seenMax := false, false
	for range 500 {
		d := RollDamage(rng, 15, 25)
		if d < 15 || d > 25 {
			t.Fatalf("RollDamage = %d, outside [15, 25]", d)
		}
		seenMin = seenMin || d == 15
		seenMax = seenMax || d == 25
	}
	if !seenMin || !seenMax {
		t.Errorf("bounds not inclusive: min seen %v, max seen %v", seenMin, seenMax)
	}
	if d := RollDamage(rng, 7, 7); d != 7 {
		t.Errorf("fixed roll = %d, want 7", d)
	}
}

func TestSlimeSplitsOnSurvivingHit(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	slime := addMonster(g, 0, models.MonsterSlime, 5, 5)
	slime.CurrentHP = 20

	result := DamageMonster(g, 0, slime, 8)

	if slime.CurrentHP != 12 {
		t.Errorf("slime hp = %d, want 12", slime.CurrentHP)
	}
	if result.Clone == nil {
		t.Fatal("no clone spawned")
	}
	if result.Clone.CurrentHP != 12 || result.Clone.Type != models.MonsterSlime {
		t.Errorf("clone = %+v", result.Clone)
	}
	if result.Clone.ID == slime.ID {
		t.Error("clone shares the slime's id")
	}
	if ChebyshevDistance(result.Clone.Position(), slime.Position()) != 1 {
		t.Errorf("clone at %v, not next to the slime", result.Clone.Position())
	}
	if n := len(g.DungeonMap[0].Monsters); n != 2 {
		t.Errorf("%d monsters on the level, want 2", n)
	}
}

func TestKillingBlowRemovesMonster(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	slime := addMonster(g, 0, models.MonsterSlime, 5, 5)
	slime.CurrentHP = 8

	result := DamageMonster(g, 0, slime, 8)
	if !result.Killed || result.Clone != nil {
		t.Errorf("result = %+v, want a kill without clone", result)
	}
	if len(g.DungeonMap[0].Monsters) != 0 {
		t.Error("dead slime still on the level")
	}
}

func TestPlayerAttackUsesEquipment(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	p := addPlayer(g, "a", 5, 5)
	p.Equipment = NewGear(models.GearSwordAcid)
	m := addMonster(g, 0, models.MonsterOrc, 6, 5)

	result := PlayerAttackMonster(g, 0, p, m, seeded())
	if result.Damage < 25 || result.Damage > 35 {
		t.Errorf("damage %d outside the acid sword range", result.Damage)
	}
	if m.CurrentHP != m.MaxHP-result.Damage {
		t.Errorf("monster hp = %d", m.CurrentHP)
	}
}

func TestMonsterSpecials(t *testing.T) {
	tests := []struct {
		monster models.MonsterType
		effect  models.EffectKind
	}{
		{models.MonsterTarball, models.EffectPinned},
		{models.MonsterMedusa, models.EffectFrozen},
	}
	for _, tt := range tests {
		t.Run(string(tt.monster), func(t *testing.T) {
			g := newTestGame(levelFromRows(openRoom...))
			p := addPlayer(g, "a", 5, 5)
			m := addMonster(g, 0, tt.monster, 6, 5)

			MonsterAttackPlayer(m, p, seeded())
			if !p.HasEffect(tt.effect) {
				t.Fatalf("%s hit did not apply %s", tt.monster, tt.effect)
			}
			if p.StatusEffects[0].RemainingTurns != 3 {
				t.Errorf("remaining = %d, want 3", p.StatusEffects[0].RemainingTurns)
			}
		})
	}
}

func TestLethalHitAppliesNoEffect(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	p := addPlayer(g, "a", 5, 5)
	p.CurrentHP = 1
	m := addMonster(g, 0, models.MonsterMedusa, 6, 5)

	result := MonsterAttackPlayer(m, p, seeded())
	if !result.Killed {
		t.Fatal("hit was not lethal")
	}
	if len(p.StatusEffects) != 0 {
		t.Errorf("defeated player got effects %+v", p.StatusEffects)
	}
}

func TestVampireHealCapped(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	p := addPlayer(g, "a", 5, 5)
	m := addMonster(g, 0, models.MonsterVampire, 6, 5)
	m.CurrentHP = m.MaxHP - 3

	result := MonsterAttackPlayer(m, p, seeded())
	if m.CurrentHP != m.MaxHP {
		t.Errorf("vampire hp = %d, want %d", m.CurrentHP, m.MaxHP)
	}
	if result.Healed != 3 {
		t.Errorf("healed %d, want 3", result.Healed)
	}
	if p.CurrentHP != 100-result.Damage {
		t.Errorf("player hp = %d", p.CurrentHP)
	}
}

func TestApplyEffectKeepsLongerDuration(t *testing.T) {
	p := &models.Player{}
	p.ApplyEffect(models.EffectPinned, 1)
	p.ApplyEffect(models.EffectPinned, 3)
	p.ApplyEffect(models.EffectPinned, 2)

	if len(p.StatusEffects) != 1 {
		t.Fatalf("effects = %+v, want one", p.StatusEffects)
	}
	if p.StatusEffects[0].RemainingTurns != 3 {
		t.Errorf("remaining = %d, want 3", p.StatusEffects[0].RemainingTurns)
	}
}
