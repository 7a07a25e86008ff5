package services

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"swords-with-friends/server/models"
)

const (
	minRoomSize     = 3
	maxRoomSize     = 6
	roomAttempts    = 60
	roomPadding     = 2
	potionsPerLevel = 3
	// monsters and items never land closer than this to a player
	itemSpacing = 4
)

// room is an inclusive rectangle of dug cells
type room struct {
	x1, y1, x2, y2 int
}

func (r room) center() models.Coordinate {
	return models.Coordinate{X: (r.x1 + r.x2) / 2, Y: (r.y1 + r.y2) / 2}
}

func (r room) contains(c models.Coordinate) bool {
	return c.X >= r.x1 && c.X <= r.x2 && c.Y >= r.y1 && c.Y <= r.y2
}

func (r room) intersects(o room) bool {
	return r.x1-roomPadding <= o.x2 && r.x2+roomPadding >= o.x1 &&
		r.y1-roomPadding <= o.y2 && r.y2+roomPadding >= o.y1
}

// DungeonBuilder digs the levels of a new game
type DungeonBuilder struct {
	rng *rand.Rand
}

func NewDungeonBuilder(rng *rand.Rand) *DungeonBuilder {
	return &DungeonBuilder{rng: rng}
}

// Build digs MaxLevel levels. Every level but the last gets one exit per
// player; the last one holds the trophy instead.
func (b *DungeonBuilder) Build(playerCount int) models.DungeonMap {
	dungeon := make(models.DungeonMap, models.MaxLevel)
	for i := range models.MaxLevel {
		dungeon[i] = b.buildLevel(i, playerCount)
	}
	return dungeon
}

func (b *DungeonBuilder) buildLevel(depth, playerCount int) *models.DungeonLevel {
	level := models.NewDungeonLevel()
	dug := mapset.New[models.Coordinate]()

	rooms := b.digRooms(depth, dug)
	dug.Each(func(c models.Coordinate) {
		level.Cells[c] = &models.Cell{
			X: c.X, Y: c.Y,
			Type:       models.CellEarth,
			IsPassable: true,
			Visibility: models.VisibilityUnseen,
			Items:      []*models.Item{},
		}
	})
	dug.Each(func(c models.Coordinate) {
		for _, n := range Neighbours(c) {
			if _, ok := level.Cells[n]; ok {
				continue
			}
			level.Cells[n] = &models.Cell{
				X: n.X, Y: n.Y,
				Type:       models.CellWall,
				Visibility: models.VisibilityUnseen,
				Items:      []*models.Item{},
			}
		}
	})
	markDoors(level, rooms, dug)

	level.PlayerSpawn = rooms[0].center()
	for _, r := range rooms[1:] {
		level.MonsterSpawns = append(level.MonsterSpawns, r.center())
	}
	if len(level.MonsterSpawns) == 0 {
		level.MonsterSpawns = append(level.MonsterSpawns, rooms[0].center())
	}

	last := rooms[len(rooms)-1].center()
	if depth < models.MaxLevel-1 {
		b.placeExits(level, last, playerCount)
	} else {
		cell := level.Cell(last)
		cell.Items = append(cell.Items, NewTrophy())
	}

	b.populateMonsters(level, depth, playerCount)
	return level
}

// digRooms carves non-overlapping rooms, each joined to the previous one by
// an L-shaped corridor. The first room always fits.
func (b *DungeonBuilder) digRooms(depth int, dug mapset.Set[models.Coordinate]) []room {
	want := 4 + depth
	rooms := make([]room, 0, want)
	for attempt := 0; attempt < roomAttempts && len(rooms) < want; attempt++ {
		w := minRoomSize + b.rng.Intn(maxRoomSize-minRoomSize+1)
		h := minRoomSize + b.rng.Intn(maxRoomSize-minRoomSize+1)
		x := 1 + b.rng.Intn(models.MaxX-w)
		y := 1 + b.rng.Intn(models.MaxY-h)
		r := room{x1: x, y1: y, x2: x + w - 1, y2: y + h - 1}

		overlaps := false
		for _, other := range rooms {
			if r.intersects(other) {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}

		for cy := r.y1; cy <= r.y2; cy++ {
			for cx := r.x1; cx <= r.x2; cx++ {
				dug.Put(models.Coordinate{X: cx, Y: cy})
			}
		}
		if len(rooms) > 0 {
			b.carveCorridor(dug, rooms[len(rooms)-1].center(), r.center())
		}
		rooms = append(rooms, r)
	}
	return rooms
}

func (b *DungeonBuilder) carveCorridor(dug mapset.Set[models.Coordinate], from, to models.Coordinate) {
	if b.rng.Intn(2) == 0 {
		carveH(dug, from.X, to.X, from.Y)
		carveV(dug, from.Y, to.Y, to.X)
	} else {
		carveV(dug, from.Y, to.Y, from.X)
		carveH(dug, from.X, to.X, to.Y)
	}
}

func carveH(dug mapset.Set[models.Coordinate], x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		dug.Put(models.Coordinate{X: x, Y: y})
	}
}

func carveV(dug mapset.Set[models.Coordinate], y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		dug.Put(models.Coordinate{X: x, Y: y})
	}
}

// markDoors turns the dug cells of a room's outer ring, where a corridor
// crosses it, into doors
func markDoors(level *models.DungeonLevel, rooms []room, dug mapset.Set[models.Coordinate]) {
	inRoom := func(c models.Coordinate) bool {
		for _, r := range rooms {
			if r.contains(c) {
				return true
			}
		}
		return false
	}
	for _, r := range rooms {
		var ring []models.Coordinate
		for x := r.x1; x <= r.x2; x++ {
			ring = append(ring, models.Coordinate{X: x, Y: r.y1 - 1}, models.Coordinate{X: x, Y: r.y2 + 1})
		}
		for y := r.y1; y <= r.y2; y++ {
			ring = append(ring, models.Coordinate{X: r.x1 - 1, Y: y}, models.Coordinate{X: r.x2 + 1, Y: y})
		}
		for _, c := range ring {
			cell := level.Cell(c)
			if cell == nil || !dug.Has(c) || inRoom(c) || cell.Type != models.CellEarth {
				continue
			}
			left := level.Cell(models.Coordinate{X: c.X - 1, Y: c.Y})
			right := level.Cell(models.Coordinate{X: c.X + 1, Y: c.Y})
			if (left != nil && left.Type == models.CellEarth) || (right != nil && right.Type == models.CellEarth) {
				cell.Type = models.CellHorizontalDoor
			} else {
				cell.Type = models.CellVerticalDoor
			}
		}
	}
}

// placeExits marks one exit per player along the spiral around centre,
// falling back to any passable cell once the spiral runs out
func (b *DungeonBuilder) placeExits(level *models.DungeonLevel, centre models.Coordinate, playerCount int) {
	usable := func(c models.Coordinate) bool {
		return level.IsPassable(c) && c != level.PlayerSpawn && !level.IsExit(c)
	}
	mark := func(c models.Coordinate) {
		level.Exits = append(level.Exits, c)
		level.Cell(c).Type = models.CellExit
	}
	for _, c := range SpiralAround(centre) {
		if len(level.Exits) >= playerCount {
			return
		}
		if usable(c) {
			mark(c)
		}
	}

	var rest []models.Coordinate
	for c := range level.Cells {
		if usable(c) {
			rest = append(rest, c)
		}
	}
	sortCoordinates(rest)
	for len(level.Exits) < playerCount && len(rest) > 0 {
		i := b.rng.Intn(len(rest))
		mark(rest[i])
		rest = append(rest[:i], rest[i+1:]...)
	}
}

func (b *DungeonBuilder) populateMonsters(level *models.DungeonLevel, depth, playerCount int) {
	count, pool := monsterPoolForLevel(depth, playerCount)
	for range count {
		spawn := level.MonsterSpawns[b.rng.Intn(len(level.MonsterSpawns))]
		c, ok := b.monsterCell(level, spawn)
		if !ok {
			continue
		}
		level.Monsters = append(level.Monsters, NewMonster(pool[b.rng.Intn(len(pool))], c))
	}
}

// monsterCell walks the spiral around spawn for an empty cell well clear of
// the player spawn, then falls back to any such cell on the level
func (b *DungeonBuilder) monsterCell(level *models.DungeonLevel, spawn models.Coordinate) (models.Coordinate, bool) {
	usable := func(c models.Coordinate) bool {
		return level.IsPassable(c) && level.MonsterAt(c) == nil &&
			Distance(c, level.PlayerSpawn) >= itemSpacing
	}
	for _, c := range SpiralAround(spawn) {
		if IsValidCoordinate(c.X, c.Y) && usable(c) {
			return c, true
		}
	}

	var rest []models.Coordinate
	for c := range level.Cells {
		if usable(c) {
			rest = append(rest, c)
		}
	}
	if len(rest) == 0 {
		return models.Coordinate{}, false
	}
	sortCoordinates(rest)
	return rest[b.rng.Intn(len(rest))], true
}

// PopulateItems scatters potions and swords over every level once the
// players stand on the map
func (b *DungeonBuilder) PopulateItems(game *models.Game) {
	playerCount := len(game.Players)
	for depth, level := range game.DungeonMap {
		for range playerCount {
			for range potionsPerLevel {
				b.dropItem(game, depth, level, RandomPotion(b.rng, playerCount))
			}
			if b.rng.Intn(2) == 0 {
				sword := NewGear(models.GearSwordBasic)
				if depth > 0 {
					sword = RandomGear(b.rng)
				}
				b.dropItem(game, depth, level, sword)
			}
		}
	}
}

// dropItem leaves item on a random free cell away from the party. The item
// is skipped when no such cell turns up.
func (b *DungeonBuilder) dropItem(game *models.Game, depth int, level *models.DungeonLevel, item *models.Item) {
	for range randomPlacementAttempts {
		c, ok := RandomFreeCell(game, depth, b.rng)
		if !ok {
			return
		}
		if farFromPlayers(game, depth, level, c) {
			cell := level.Cell(c)
			cell.Items = append(cell.Items, item)
			return
		}
	}
}

// farFromPlayers reports whether c keeps its distance from the level's
// player spawn and from every player standing on that level
func farFromPlayers(game *models.Game, depth int, level *models.DungeonLevel, c models.Coordinate) bool {
	if Distance(c, level.PlayerSpawn) < itemSpacing {
		return false
	}
	for _, p := range game.Players {
		if p.MapLevel == depth && Distance(c, p.Position()) < itemSpacing {
			return false
		}
	}
	return true
}
