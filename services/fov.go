package services

import (
	"github.com/zyedidia/generic/mapset"

	"swords-with-friends/server/models"
)

// FOVRadius is how far players and monsters can see
const FOVRadius = 10

// octant transform matrices for recursive shadowcasting:
//
//	worldX = cx + dx*xx + dy*xy
//	worldY = cy + dx*yx + dy*yy
var octants = [8][4]int{
	{1, 0, 0, 1},
	{0, 1, 1, 0},
	{0, -1, 1, 0},
	{-1, 0, 0, 1},
	{-1, 0, 0, -1},
	{0, -1, -1, 0},
	{0, 1, -1, 0},
	{1, 0, 0, -1},
}

// ComputeFOV calls visit for every cell lit from origin within radius.
// lightPasses decides which cells let light through; the origin is always lit.
func ComputeFOV(origin models.Coordinate, radius int, lightPasses func(models.Coordinate) bool, visit func(models.Coordinate)) {
	visit(origin)
	for _, m := range octants {
		castLight(origin, 1, 1.0, 0.0, radius, m, lightPasses, visit)
	}
}

func castLight(origin models.Coordinate, row int, start, end float64, radius int, m [4]int,
	lightPasses func(models.Coordinate) bool, visit func(models.Coordinate)) {
	if start < end {
		return
	}
	xx, xy, yx, yy := m[0], m[1], m[2], m[3]
	radiusSq := float64(radius * radius)
	newStart := start

	for j := row; j <= radius; j++ {
		dy := -j
		blocked := false

		for dx := -j; dx <= 0; dx++ {
			c := models.Coordinate{
				X: origin.X + dx*xx + dy*xy,
				Y: origin.Y + dx*yx + dy*yy,
			}
			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			if float64(dx*dx+dy*dy) < radiusSq && IsValidCoordinate(c.X, c.Y) {
				visit(c)
			}

			opaque := !IsValidCoordinate(c.X, c.Y) || !lightPasses(c)

			if blocked {
				if opaque {
					newStart = rSlope
				} else {
					blocked = false
					start = newStart
				}
			} else if opaque && j < radius {
				blocked = true
				castLight(origin, j+1, start, lSlope, radius, m, lightPasses, visit)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}

// levelLightPasses treats passable cells as transparent and everything
// else, including undug space, as opaque
func levelLightPasses(level *models.DungeonLevel) func(models.Coordinate) bool {
	return func(c models.Coordinate) bool {
		return level.IsPassable(c)
	}
}

// VisibleCells returns every cell of the level lit from origin
func VisibleCells(level *models.DungeonLevel, origin models.Coordinate) mapset.Set[models.Coordinate] {
	visible := mapset.New[models.Coordinate]()
	ComputeFOV(origin, FOVRadius, levelLightPasses(level), func(c models.Coordinate) {
		visible.Put(c)
	})
	return visible
}

// RefreshVisibility downgrades the current level's Visible cells to Seen and
// then marks the union of every standing player's field of view Visible.
func RefreshVisibility(game *models.Game) {
	levelIndex := game.CurrentLevelIndex()
	level := game.Level(levelIndex)
	if level == nil {
		return
	}
	fadeLevel(level)
	lightPasses := levelLightPasses(level)
	for _, p := range game.Players {
		if p.MapLevel != levelIndex || !p.IsAlive() {
			continue
		}
		ComputeFOV(p.Position(), FOVRadius, lightPasses, func(c models.Coordinate) {
			if cell := level.Cell(c); cell != nil {
				cell.Visibility = models.VisibilityVisible
			}
		})
	}
}

// fadeLevel downgrades every Visible cell of level to Seen
func fadeLevel(level *models.DungeonLevel) {
	for _, cell := range level.Cells {
		if cell.Visibility == models.VisibilityVisible {
			cell.Visibility = models.VisibilitySeen
		}
	}
}
