package services

import (
	"encoding/json"
	"math/rand"
	"sync"

	"swords-with-friends/server/models"
)

// GameSession serialises every mutation of one game. The dungeon, roster
// and monsters are only touched with mu held.
type GameSession struct {
	id   string
	mu   sync.Mutex
	game *models.Game
	rng  *rand.Rand

	// generation is bumped by every turn resolution. Deferred re-checks
	// capture it and do nothing if it moved on.
	generation uint64
}

func newGameSession(game *models.Game, rng *rand.Rand) *GameSession {
	return &GameSession{id: game.ID, game: game, rng: rng}
}

// ID returns the game id
func (s *GameSession) ID() string {
	return s.id
}

// Snapshot encodes the current game state
func (s *GameSession) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(s.game)
}

// Status returns the game status
func (s *GameSession) Status() models.GameStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Status
}

// WithGame runs fn with the game locked. fn must not block on I/O.
func (s *GameSession) WithGame(fn func(game *models.Game)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.game)
}
