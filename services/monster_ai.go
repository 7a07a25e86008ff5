package services

import (
	"math"
	"math/rand"

	"swords-with-friends/server/models"
)

// MonsterHit records one attack landed by a monster during its turn.
type MonsterHit struct {
	MonsterID string
	PlayerID  string
	Result    AttackResult
}

// ClosestVisiblePlayer returns the standing player nearest to m, by
// straight-line distance, among those m can see. Nil when none is in view.
func ClosestVisiblePlayer(game *models.Game, level int, m *models.Monster) *models.Player {
	dl := game.Level(level)
	if dl == nil {
		return nil
	}
	visible := VisibleCells(dl, m.Position())
	var closest *models.Player
	best := math.MaxFloat64
	for _, p := range game.Players {
		if p.MapLevel != level || !p.IsAlive() || !visible.Has(p.Position()) {
			continue
		}
		if d := Distance(m.Position(), p.Position()); d < best {
			closest = p
			best = d
		}
	}
	return closest
}

// RunMonsterAI gives every monster on the party's level one turn
func RunMonsterAI(game *models.Game, rng *rand.Rand) []MonsterHit {
	level := game.CurrentLevelIndex()
	dl := game.Level(level)
	if dl == nil {
		return nil
	}
	var hits []MonsterHit
	monsters := append([]*models.Monster(nil), dl.Monsters...)
	for _, m := range monsters {
		if !m.IsAlive() {
			continue
		}
		if hit, ok := monsterTurn(game, level, m, rng); ok {
			hits = append(hits, hit)
		}
	}
	return hits
}

func monsterTurn(game *models.Game, level int, m *models.Monster, rng *rand.Rand) (MonsterHit, bool) {
	updateMonsterTarget(game, level, m)

	if m.Target == nil {
		wander(game, level, m, rng)
		return MonsterHit{}, false
	}

	target := *m.Target
	if ChebyshevDistance(m.Position(), target) <= 1 {
		if victim := game.LivingPlayerAt(level, target); victim != nil {
			result := MonsterAttackPlayer(m, victim, rng)
			return MonsterHit{MonsterID: m.ID, PlayerID: victim.ID, Result: result}, true
		}
	}

	path := MonsterPath(game, level, m, target)
	if len(path) > 0 && IsFreeCell(game, level, path[0]) {
		m.MoveTo(path[0])
	}
	return MonsterHit{}, false
}

// updateMonsterTarget locks on to the closest visible player. With nobody in
// view the monster keeps hunting the last known position, forgetting it
// only once the player there is confirmed defeated or the spot is reached.
func updateMonsterTarget(game *models.Game, level int, m *models.Monster) {
	if p := ClosestVisiblePlayer(game, level, m); p != nil {
		pos := p.Position()
		m.Target = &pos
		return
	}
	if m.Target == nil {
		return
	}
	if occupant := game.PlayerAt(level, *m.Target); occupant != nil && !occupant.IsAlive() {
		m.Target = nil
		return
	}
	if *m.Target == m.Position() {
		m.Target = nil
	}
}

// wander steps onto a random free neighbouring cell, if there is one
func wander(game *models.Game, level int, m *models.Monster, rng *rand.Rand) {
	options := make([]models.Coordinate, 0, len(neighbourOffsets))
	for _, c := range Neighbours(m.Position()) {
		if IsFreeCell(game, level, c) {
			options = append(options, c)
		}
	}
	if len(options) == 0 {
		return
	}
	m.MoveTo(options[rng.Intn(len(options))])
}
