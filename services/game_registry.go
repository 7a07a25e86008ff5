package services

import (
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"swords-with-friends/server/models"
)

const (
	DefaultIdleTimeout = 60 * time.Second
	DefaultMaxGameAge  = time.Hour
)

// GameRegistry owns the id -> game table. Only structural changes (insert,
// delete) take the registry lock; game state is guarded per session.
type GameRegistry struct {
	games   map[string]*GameSession
	mutex   sync.RWMutex
	players *PlayerService

	seedMutex sync.Mutex
	seeds     *rand.Rand

	idleTimeout time.Duration
	maxAge      time.Duration
	now         func() time.Time
}

type RegistryOption func(*GameRegistry)

// WithSeed makes every game's randomness derive from seed
func WithSeed(seed int64) RegistryOption {
	return func(r *GameRegistry) { r.seeds = rand.New(rand.NewSource(seed)) }
}

// WithGCWindows sets how long an abandoned game survives and the hard age
// limit for any game
func WithGCWindows(idle, maxAge time.Duration) RegistryOption {
	return func(r *GameRegistry) {
		if idle > 0 {
			r.idleTimeout = idle
		}
		if maxAge > 0 {
			r.maxAge = maxAge
		}
	}
}

// WithRegistryClock overrides time.Now
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *GameRegistry) { r.now = now }
}

func NewGameRegistry(players *PlayerService, opts ...RegistryOption) *GameRegistry {
	r := &GameRegistry{
		games:       make(map[string]*GameSession),
		players:     players,
		seeds:       rand.New(rand.NewSource(time.Now().UnixNano())),
		idleTimeout: DefaultIdleTimeout,
		maxAge:      DefaultMaxGameAge,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *GameRegistry) newRand() *rand.Rand {
	r.seedMutex.Lock()
	defer r.seedMutex.Unlock()
	return rand.New(rand.NewSource(r.seeds.Int63()))
}

// Create registers a new game hosted by the player bound to sessionID
func (r *GameRegistry) Create(sessionID string) *GameSession {
	rng := r.newRand()
	now := r.now()
	host := r.players.NewPlayer(sessionID, true, rng)
	game := &models.Game{
		ID:             uuid.NewString(),
		Players:        []*models.Player{host},
		Status:         models.GameStatusWaiting,
		DungeonMap:     models.DungeonMap{},
		StartTime:      now,
		LastActionTime: now,
	}
	s := newGameSession(game, rng)

	r.mutex.Lock()
	r.games[game.ID] = s
	r.mutex.Unlock()

	log.Printf("New game %s hosted by %s", game.ID, host.Name)
	return s
}

// Get returns the session of gameID
func (r *GameRegistry) Get(gameID string) (*GameSession, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	s, exists := r.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return s, nil
}

// Delete drops gameID from the table
func (r *GameRegistry) Delete(gameID string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.games, gameID)
}

// Count returns the number of registered games
func (r *GameRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.games)
}

// all copies the session list so callers can lock games one at a time
// without holding the registry lock
func (r *GameRegistry) all() []*GameSession {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	sessions := make([]*GameSession, 0, len(r.games))
	for _, s := range r.games {
		sessions = append(sessions, s)
	}
	return sessions
}

// FindBySession returns every game in which sessionID controls a player
func (r *GameRegistry) FindBySession(sessionID string) []*GameSession {
	var found []*GameSession
	for _, s := range r.all() {
		s.mu.Lock()
		if s.game.PlayerBySession(sessionID) != nil {
			found = append(found, s)
		}
		s.mu.Unlock()
	}
	return found
}

// Joinable lists the games still waiting for players, oldest first
func (r *GameRegistry) Joinable() []*GameSession {
	type entry struct {
		s       *GameSession
		started time.Time
	}
	var entries []entry
	for _, s := range r.all() {
		s.mu.Lock()
		if s.game.Status == models.GameStatusWaiting {
			entries = append(entries, entry{s: s, started: s.game.StartTime})
		}
		s.mu.Unlock()
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].started.Equal(entries[j].started) {
			return entries[i].started.Before(entries[j].started)
		}
		return entries[i].s.id < entries[j].s.id
	})

	joinable := make([]*GameSession, len(entries))
	for i, e := range entries {
		joinable[i] = e.s
	}
	return joinable
}

// Sweep deletes games nobody is connected to that have been idle past the
// idle timeout, and any game idle past the max age. It returns the ids it
// removed.
func (r *GameRegistry) Sweep() []string {
	now := r.now()
	var stale []string
	for _, s := range r.all() {
		s.mu.Lock()
		idle := now.Sub(s.game.LastActionTime)
		abandoned := len(s.game.ConnectedSessions()) == 0 && idle > r.idleTimeout
		if abandoned || idle > r.maxAge {
			stale = append(stale, s.id)
		}
		s.mu.Unlock()
	}
	if len(stale) == 0 {
		return nil
	}

	r.mutex.Lock()
	for _, id := range stale {
		delete(r.games, id)
	}
	r.mutex.Unlock()

	log.Printf("Removed %d stale games", len(stale))
	return stale
}
