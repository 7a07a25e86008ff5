package services

import (
	"github.com/google/uuid"

	"swords-with-friends/server/models"
)

// Status effect durations applied by monster hits. The counter is ticked at
// the end of the same turn, so a hit of N turns blocks the next N-1.
const (
	pinnedTurns = 3
	frozenTurns = 3
)

type monsterStats struct {
	hp        int
	minAttack int
	maxAttack int
}

var monsterTable = map[models.MonsterType]monsterStats{
	models.MonsterGoblin:  {hp: 30, minAttack: 5, maxAttack: 10},
	models.MonsterTarball: {hp: 40, minAttack: 2, maxAttack: 5},
	models.MonsterMedusa:  {hp: 35, minAttack: 4, maxAttack: 8},
	models.MonsterSlime:   {hp: 50, minAttack: 3, maxAttack: 8},
	models.MonsterVampire: {hp: 60, minAttack: 8, maxAttack: 14},
	models.MonsterOrc:     {hp: 80, minAttack: 10, maxAttack: 18},
}

// NewMonster creates a full-health monster of the given type on c
func NewMonster(monsterType models.MonsterType, c models.Coordinate) *models.Monster {
	stats, ok := monsterTable[monsterType]
	if !ok {
		stats = monsterTable[models.MonsterGoblin]
		monsterType = models.MonsterGoblin
	}
	return &models.Monster{
		ID:        uuid.NewString(),
		Type:      monsterType,
		X:         c.X,
		Y:         c.Y,
		CurrentHP: stats.hp,
		MaxHP:     stats.hp,
		MinAttack: stats.minAttack,
		MaxAttack: stats.maxAttack,
	}
}

// monsterPoolForLevel returns how many monsters a level gets and which
// types may appear, scaling with depth and party size
func monsterPoolForLevel(level, playerCount int) (int, []models.MonsterType) {
	switch level {
	case 1:
		return 6*playerCount + 2, []models.MonsterType{models.MonsterGoblin, models.MonsterTarball, models.MonsterMedusa}
	case 2:
		return 6*playerCount + 3, []models.MonsterType{models.MonsterGoblin, models.MonsterTarball, models.MonsterMedusa, models.MonsterSlime}
	case 3:
		return 6*playerCount + 3, []models.MonsterType{models.MonsterGoblin, models.MonsterMedusa, models.MonsterSlime, models.MonsterVampire}
	case 4:
		return 6*playerCount + 3, []models.MonsterType{models.MonsterMedusa, models.MonsterSlime, models.MonsterVampire, models.MonsterOrc}
	default:
		return 5 * playerCount, []models.MonsterType{models.MonsterGoblin, models.MonsterTarball}
	}
}
