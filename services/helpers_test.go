package services

import (
	"encoding/json"
	"math/rand"
	"sync"
	"testing"
	"time"

	"swords-with-friends/server/messages"
	"swords-with-friends/server/models"
)

// levelFromRows builds a level from an ASCII sketch laid out from (0,0):
// '#' wall, '.' earth, 'E' exit, 'S' earth marked as the player spawn.
// Spaces are left undug.
func levelFromRows(rows ...string) *models.DungeonLevel {
	level := models.NewDungeonLevel()
	for y, row := range rows {
		for x, ch := range row {
			c := models.Coordinate{X: x, Y: y}
			cell := &models.Cell{X: x, Y: y, Visibility: models.VisibilityUnseen, Items: []*models.Item{}}
			switch ch {
			case ' ':
				continue
			case '#':
				cell.Type = models.CellWall
			case 'E':
				cell.Type = models.CellExit
				cell.IsPassable = true
				level.Exits = append(level.Exits, c)
			case 'S':
				cell.Type = models.CellEarth
				cell.IsPassable = true
				level.PlayerSpawn = c
			default:
				cell.Type = models.CellEarth
				cell.IsPassable = true
			}
			level.Cells[c] = cell
		}
	}
	return level
}

// openRoom is a 12x12 walled room with a 10x10 floor from (1,1) to (10,10)
var openRoom = []string{
	"############",
	"#..........#",
	"#..........#",
	"#..........#",
	"#..........#",
	"#..........#",
	"#..........#",
	"#..........#",
	"#..........#",
	"#..........#",
	"#..........#",
	"############",
}

func newTestGame(levels ...*models.DungeonLevel) *models.Game {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &models.Game{
		ID:             "game-1",
		Players:        []*models.Player{},
		Status:         models.GameStatusOngoing,
		DungeonMap:     models.DungeonMap(levels),
		StartTime:      now,
		LastActionTime: now,
	}
}

func addPlayer(g *models.Game, id string, x, y int) *models.Player {
	p := &models.Player{
		ID:            id,
		SessionID:     "session-" + id,
		Name:          id,
		Character:     models.CharacterSwordsWoman,
		IsHost:        len(g.Players) == 0,
		X:             x,
		Y:             y,
		CurrentHP:     100,
		MaxHP:         100,
		MinAttack:     15,
		MaxAttack:     25,
		Items:         []*models.Item{},
		StatusEffects: []models.StatusEffect{},
	}
	g.Players = append(g.Players, p)
	return p
}

func addMonster(g *models.Game, level int, monsterType models.MonsterType, x, y int) *models.Monster {
	m := NewMonster(monsterType, models.Coordinate{X: x, Y: y})
	g.DungeonMap[level].Monsters = append(g.DungeonMap[level].Monsters, m)
	return m
}

func seeded() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

// manualScheduler collects deferred callbacks until the test fires them
type manualScheduler struct {
	mu      sync.Mutex
	pending []func()
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, f)
}

func (m *manualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// FireAll runs every callback scheduled so far. Callbacks scheduled while
// firing wait for the next call.
func (m *manualScheduler) FireAll() {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, f := range pending {
		f()
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(events ...Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
}

// Types lists the message types published so far, in order
func (p *recordingPublisher) Types(t *testing.T) []messages.MessageType {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]messages.MessageType, 0, len(p.events))
	for _, ev := range p.events {
		var msg messages.BaseMessage
		if err := json.Unmarshal(ev.Data, &msg); err != nil {
			t.Fatalf("published invalid JSON: %v", err)
		}
		types = append(types, msg.Type)
	}
	return types
}

// EventsOf returns the published events of one type
func (p *recordingPublisher) EventsOf(t *testing.T, msgType messages.MessageType) []Event {
	t.Helper()
	types := p.Types(t)
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Event
	for i, ty := range types {
		if ty == msgType {
			out = append(out, p.events[i])
		}
	}
	return out
}

func (p *recordingPublisher) Has(t *testing.T, msgType messages.MessageType) bool {
	return len(p.EventsOf(t, msgType)) > 0
}

type memoryArchive struct {
	mu      sync.Mutex
	results []*models.GameResult
}

func (a *memoryArchive) SaveGameResult(result *models.GameResult) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.results = append(a.results, result)
	return nil
}

type engineFixture struct {
	engine    *TurnEngine
	scheduler *manualScheduler
	publisher *recordingPublisher
	archive   *memoryArchive
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{
		scheduler: &manualScheduler{},
		publisher: &recordingPublisher{},
		archive:   &memoryArchive{},
	}
	f.engine = NewTurnEngine(f.publisher, f.archive, WithScheduler(f.scheduler))
	return f
}

func coord(x, y int) models.Coordinate {
	return models.Coordinate{X: x, Y: y}
}
