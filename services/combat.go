package services

import (
	"math/rand"

	"github.com/google/uuid"

	"swords-with-friends/server/models"
)

// AttackResult holds the outcome of one hit.
type AttackResult struct {
	Damage int
	Killed bool
	// Clone is the slime spawned by a non-lethal hit, if any
	Clone *models.Monster
	// Healed is the hp a vampire drained back
	Healed int
}

// RollDamage samples uniformly from [min, max] inclusive
func RollDamage(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min+1)
}

// PlayerAttackMonster resolves a melee hit by p on m
func PlayerAttackMonster(game *models.Game, level int, p *models.Player, m *models.Monster, rng *rand.Rand) AttackResult {
	minAtk, maxAtk := p.AttackRange()
	return DamageMonster(game, level, m, RollDamage(rng, minAtk, maxAtk))
}

// DamageMonster applies damage to m. A monster brought to zero hp leaves
// its level at once. A slime that survives splits: the clone appears on the
// nearest free cell and carries the slime's post-damage hp.
func DamageMonster(game *models.Game, level int, m *models.Monster, damage int) AttackResult {
	result := AttackResult{Damage: damage}
	m.CurrentHP -= damage
	dl := game.Level(level)
	if !m.IsAlive() {
		result.Killed = true
		if dl != nil {
			dl.RemoveMonster(m)
		}
		return result
	}
	if m.Type == models.MonsterSlime && dl != nil {
		if c, ok := FreeCellAround(game, level, m.Position()); ok {
			clone := &models.Monster{
				ID:        uuid.NewString(),
				Type:      m.Type,
				X:         c.X,
				Y:         c.Y,
				CurrentHP: m.CurrentHP,
				MaxHP:     m.MaxHP,
				MinAttack: m.MinAttack,
				MaxAttack: m.MaxAttack,
			}
			if m.Target != nil {
				target := *m.Target
				clone.Target = &target
			}
			dl.Monsters = append(dl.Monsters, clone)
			result.Clone = clone
		}
	}
	return result
}

// MonsterAttackPlayer resolves a melee hit by m on p, including the
// monster's on-hit specials
func MonsterAttackPlayer(m *models.Monster, p *models.Player, rng *rand.Rand) AttackResult {
	damage := RollDamage(rng, m.MinAttack, m.MaxAttack)
	p.CurrentHP -= damage
	result := AttackResult{Damage: damage, Killed: !p.IsAlive()}

	switch m.Type {
	case models.MonsterVampire:
		before := m.CurrentHP
		m.CurrentHP = min(m.MaxHP, m.CurrentHP+damage)
		result.Healed = m.CurrentHP - before
	case models.MonsterTarball:
		if p.IsAlive() {
			p.ApplyEffect(models.EffectPinned, pinnedTurns)
		}
	case models.MonsterMedusa:
		if p.IsAlive() {
			p.ApplyEffect(models.EffectFrozen, frozenTurns)
		}
	}
	return result
}
