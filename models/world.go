package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Map bounds are inclusive: valid coordinates run from 0 to MaxX / MaxY.
const (
	MaxX     = 30
	MaxY     = 30
	MaxLevel = 5
)

// Coordinate is a grid position. It encodes as "x,y" so it can key JSON maps.
type Coordinate struct {
	X int
	Y int
}

// NewCoordinate builds a Coordinate from its components
func NewCoordinate(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// MarshalText implements encoding.TextMarshaler
func (c Coordinate) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Coordinate) UnmarshalText(text []byte) error {
	parsed, err := ParseCoordinate(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCoordinate parses the "x,y" form produced by String
func ParseCoordinate(s string) (Coordinate, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q: %v", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q: %v", s, err)
	}
	return Coordinate{X: x, Y: y}, nil
}

// CellType is the terrain kind of a cell
type CellType string

const (
	CellEarth          CellType = "earth"
	CellWall           CellType = "wall"
	CellVerticalDoor   CellType = "vertical-door"
	CellHorizontalDoor CellType = "horizontal-door"
	CellExit           CellType = "exit"
)

// VisibilityStatus tracks what the party knows about a cell
type VisibilityStatus string

const (
	VisibilityUnseen  VisibilityStatus = "unseen"
	VisibilitySeen    VisibilityStatus = "seen"
	VisibilityVisible VisibilityStatus = "visible"
)

// Cell is one dug (or wall) square of a dungeon level.
// Items are kept in drop order; pickup takes all of them.
type Cell struct {
	X          int              `json:"x"`
	Y          int              `json:"y"`
	Type       CellType         `json:"type"`
	IsPassable bool             `json:"isPassable"`
	Visibility VisibilityStatus `json:"visibilityStatus"`
	Items      []*Item          `json:"items"`
}

func (c *Cell) Position() Coordinate {
	return Coordinate{X: c.X, Y: c.Y}
}

// DungeonLevel is one floor of the dungeon. Cells is sparse: coordinates
// that were never dug (and do not border a dug cell) have no entry.
type DungeonLevel struct {
	Cells         map[Coordinate]*Cell `json:"cells"`
	Monsters      []*Monster           `json:"monsters"`
	PlayerSpawn   Coordinate           `json:"playerSpawn"`
	MonsterSpawns []Coordinate         `json:"monsterSpawn"`
	Exits         []Coordinate         `json:"exits"`
}

// NewDungeonLevel returns an empty level ready to be dug
func NewDungeonLevel() *DungeonLevel {
	return &DungeonLevel{
		Cells:         make(map[Coordinate]*Cell),
		Monsters:      make([]*Monster, 0),
		MonsterSpawns: make([]Coordinate, 0),
		Exits:         make([]Coordinate, 0),
	}
}

// Cell returns the cell at c or nil
func (l *DungeonLevel) Cell(c Coordinate) *Cell {
	return l.Cells[c]
}

// IsPassable reports whether c exists on the level and can be walked on
func (l *DungeonLevel) IsPassable(c Coordinate) bool {
	cell, ok := l.Cells[c]
	return ok && cell.IsPassable
}

// MonsterAt returns the monster standing on c, if any
func (l *DungeonLevel) MonsterAt(c Coordinate) *Monster {
	for _, m := range l.Monsters {
		if m.X == c.X && m.Y == c.Y {
			return m
		}
	}
	return nil
}

// RemoveMonster drops m from the level's monster list
func (l *DungeonLevel) RemoveMonster(m *Monster) {
	for i, other := range l.Monsters {
		if other == m {
			l.Monsters = append(l.Monsters[:i], l.Monsters[i+1:]...)
			return
		}
	}
}

// PurgeDeadMonsters removes every monster whose hp dropped to zero or below
func (l *DungeonLevel) PurgeDeadMonsters() {
	alive := l.Monsters[:0]
	for _, m := range l.Monsters {
		if m.IsAlive() {
			alive = append(alive, m)
		}
	}
	for i := len(alive); i < len(l.Monsters); i++ {
		l.Monsters[i] = nil
	}
	l.Monsters = alive
}

// IsExit reports whether c is one of the level's exits
func (l *DungeonLevel) IsExit(c Coordinate) bool {
	for _, e := range l.Exits {
		if e == c {
			return true
		}
	}
	return false
}

// DungeonMap is the ordered list of levels, index 0 being the shallowest.
type DungeonMap []*DungeonLevel

// GameStatus is the lifecycle state of a game. Won and Lost are final.
type GameStatus string

const (
	GameStatusWaiting GameStatus = "waiting-for-players"
	GameStatusOngoing GameStatus = "ongoing"
	GameStatusWon     GameStatus = "won"
	GameStatusLost    GameStatus = "lost"
)

// IsFinal reports whether the status can no longer change
func (s GameStatus) IsFinal() bool {
	return s == GameStatusWon || s == GameStatusLost
}

// Game is the full state of one multiplayer session
type Game struct {
	ID             string     `json:"gameId"`
	Players        []*Player  `json:"players"`
	Status         GameStatus `json:"gameStatus"`
	DungeonMap     DungeonMap `json:"dungeonMap"`
	Turn           int        `json:"turn"`
	StartTime      time.Time  `json:"startTime"`
	LastActionTime time.Time  `json:"lastActionTime"`
}

// Host returns the host player, or nil if the roster has none
func (g *Game) Host() *Player {
	for _, p := range g.Players {
		if p.IsHost {
			return p
		}
	}
	return nil
}

// PlayerByID looks up a player by its stable id
func (g *Game) PlayerByID(playerID string) *Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// PlayerBySession looks up the player bound to a connected session
func (g *Game) PlayerBySession(sessionID string) *Player {
	if sessionID == "" {
		return nil
	}
	for _, p := range g.Players {
		if p.SessionID == sessionID {
			return p
		}
	}
	return nil
}

// RemovePlayer drops p from the roster
func (g *Game) RemovePlayer(p *Player) {
	for i, other := range g.Players {
		if other == p {
			g.Players = append(g.Players[:i], g.Players[i+1:]...)
			return
		}
	}
}

// ConnectedSessions lists the session ids of every connected player
func (g *Game) ConnectedSessions() []string {
	sessions := make([]string, 0, len(g.Players))
	for _, p := range g.Players {
		if p.SessionID != "" {
			sessions = append(sessions, p.SessionID)
		}
	}
	return sessions
}

// CurrentLevelIndex is the level the party is on, which follows the host.
func (g *Game) CurrentLevelIndex() int {
	if host := g.Host(); host != nil {
		return host.MapLevel
	}
	if len(g.Players) > 0 {
		return g.Players[0].MapLevel
	}
	return 0
}

// Level returns level i, or nil when the map has not been built yet
func (g *Game) Level(i int) *DungeonLevel {
	if i < 0 || i >= len(g.DungeonMap) {
		return nil
	}
	return g.DungeonMap[i]
}

// LivingPlayerAt returns the standing (hp > 0) player on c at the given level
func (g *Game) LivingPlayerAt(level int, c Coordinate) *Player {
	for _, p := range g.Players {
		if p.MapLevel == level && p.IsAlive() && p.X == c.X && p.Y == c.Y {
			return p
		}
	}
	return nil
}

// PlayerAt returns any player, standing or defeated, on c at the given level
func (g *Game) PlayerAt(level int, c Coordinate) *Player {
	if p := g.LivingPlayerAt(level, c); p != nil {
		return p
	}
	for _, p := range g.Players {
		if p.MapLevel == level && p.X == c.X && p.Y == c.Y {
			return p
		}
	}
	return nil
}
