package services

import (
	"math"
	"math/rand"
	"sort"

	"swords-with-friends/server/models"
)

// randomPlacementAttempts bounds the random probing in RandomFreeCell before
// it falls back to scanning every cell of the level.
const randomPlacementAttempts = 64

// IsValidCoordinate is the inclusive bounds check against the map size
func IsValidCoordinate(x, y int) bool {
	return x >= 0 && x <= models.MaxX && y >= 0 && y <= models.MaxY
}

// IsFreeCell reports whether c can take a new occupant: it is in bounds,
// dug and passable, and neither a standing player nor a monster is on it.
func IsFreeCell(game *models.Game, level int, c models.Coordinate) bool {
	if !IsValidCoordinate(c.X, c.Y) {
		return false
	}
	dl := game.Level(level)
	if dl == nil || !dl.IsPassable(c) {
		return false
	}
	if game.LivingPlayerAt(level, c) != nil {
		return false
	}
	return dl.MonsterAt(c) == nil
}

// IsPathableCell is the traversability oracle for path search.
// Players path around monsters and standing players; monsters ignore each
// other and only avoid standing players.
func IsPathableCell(game *models.Game, level int, c models.Coordinate, forMonster bool) bool {
	if !forMonster {
		return IsFreeCell(game, level, c)
	}
	if !IsValidCoordinate(c.X, c.Y) {
		return false
	}
	dl := game.Level(level)
	if dl == nil || !dl.IsPassable(c) {
		return false
	}
	return game.LivingPlayerAt(level, c) == nil
}

// OccupantKind tags the result of an occupant lookup
type OccupantKind int

const (
	OccupantNone OccupantKind = iota
	OccupantPlayer
	OccupantMonster
)

// Occupant is what stands on a cell: nothing, a player or a monster.
type Occupant struct {
	Kind    OccupantKind
	Player  *models.Player
	Monster *models.Monster
}

// OccupantAt resolves a target coordinate to the standing player or living
// monster on it
func OccupantAt(game *models.Game, level int, c models.Coordinate) Occupant {
	if p := game.LivingPlayerAt(level, c); p != nil {
		return Occupant{Kind: OccupantPlayer, Player: p}
	}
	if dl := game.Level(level); dl != nil {
		if m := dl.MonsterAt(c); m != nil && m.IsAlive() {
			return Occupant{Kind: OccupantMonster, Monster: m}
		}
	}
	return Occupant{Kind: OccupantNone}
}

// Distance is the straight-line distance used for "closest" comparisons
func Distance(a, b models.Coordinate) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// ChebyshevDistance is the number of king moves between a and b
func ChebyshevDistance(a, b models.Coordinate) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return max(dx, dy)
}

// neighbourOffsets are the eight king moves, orthogonal first
var neighbourOffsets = [8]models.Coordinate{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 1, Y: -1},
	{X: 1, Y: 1},
	{X: -1, Y: 1},
	{X: -1, Y: -1},
}

// Neighbours returns the in-bounds cells around c
func Neighbours(c models.Coordinate) []models.Coordinate {
	out := make([]models.Coordinate, 0, len(neighbourOffsets))
	for _, d := range neighbourOffsets {
		n := models.Coordinate{X: c.X + d.X, Y: c.Y + d.Y}
		if IsValidCoordinate(n.X, n.Y) {
			out = append(out, n)
		}
	}
	return out
}

const spiralSide = 6

// spiralOffsets walks a square spiral outward from the origin, covering
// offsets in (-side/2, side/2] on both axes.
var spiralOffsets = buildSpiral(spiralSide)

func buildSpiral(side int) []models.Coordinate {
	total := side * side
	points := make([]models.Coordinate, 0, total)
	x, y := 0, 0
	dx, dy := 0, -1
	half := side / 2
	for steps := 0; len(points) < total && steps < total*total; steps++ {
		if -half < x && x <= half && -half < y && y <= half {
			points = append(points, models.Coordinate{X: x, Y: y})
		}
		if x == y || (x < 0 && x == -y) || (x > 0 && x == 1-y) {
			dx, dy = -dy, dx
		}
		x += dx
		y += dy
	}
	return points
}

// SpiralAround returns the spiral search order centred on c
func SpiralAround(c models.Coordinate) []models.Coordinate {
	out := make([]models.Coordinate, len(spiralOffsets))
	for i, o := range spiralOffsets {
		out[i] = models.Coordinate{X: c.X + o.X, Y: c.Y + o.Y}
	}
	return out
}

// FreeCellAround returns the first free cell of the spiral around c
func FreeCellAround(game *models.Game, level int, c models.Coordinate) (models.Coordinate, bool) {
	for _, candidate := range SpiralAround(c) {
		if IsFreeCell(game, level, candidate) {
			return candidate, true
		}
	}
	return models.Coordinate{}, false
}

// RandomFreeCell picks a uniformly random free cell of the level. It probes
// at random a bounded number of times, then scans the whole level; false
// means the level has no free cell at all.
func RandomFreeCell(game *models.Game, level int, rng *rand.Rand) (models.Coordinate, bool) {
	for i := 0; i < randomPlacementAttempts; i++ {
		c := models.Coordinate{X: rng.Intn(models.MaxX + 1), Y: rng.Intn(models.MaxY + 1)}
		if IsFreeCell(game, level, c) {
			return c, true
		}
	}
	dl := game.Level(level)
	if dl == nil {
		return models.Coordinate{}, false
	}
	free := make([]models.Coordinate, 0)
	for c := range dl.Cells {
		if IsFreeCell(game, level, c) {
			free = append(free, c)
		}
	}
	if len(free) == 0 {
		return models.Coordinate{}, false
	}
	sortCoordinates(free)
	return free[rng.Intn(len(free))], true
}

// FreeCellNearHost finds a spot for a non-host player next to the host,
// falling back to a random free cell of the host's level.
func FreeCellNearHost(game *models.Game, rng *rand.Rand) (models.Coordinate, bool) {
	host := game.Host()
	if host == nil {
		return models.Coordinate{}, false
	}
	if c, ok := FreeCellAround(game, host.MapLevel, host.Position()); ok {
		return c, true
	}
	return RandomFreeCell(game, host.MapLevel, rng)
}

// sortCoordinates orders cells row by row so map iteration order never
// leaks into seeded randomness
func sortCoordinates(cs []models.Coordinate) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Y != cs[j].Y {
			return cs[i].Y < cs[j].Y
		}
		return cs[i].X < cs[j].X
	})
}
