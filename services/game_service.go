package services

import (
	"encoding/json"
	"log"

	"swords-with-friends/server/messages"
	"swords-with-friends/server/models"
)

// GameService is the entry point for every lobby and in-game command. It
// resolves the game, runs the command under the game lock and publishes the
// resulting events once the lock is released.
type GameService struct {
	registry  *GameRegistry
	engine    *TurnEngine
	players   *PlayerService
	publisher Publisher
}

func NewGameService(registry *GameRegistry, engine *TurnEngine, players *PlayerService, publisher Publisher) *GameService {
	return &GameService{
		registry:  registry,
		engine:    engine,
		players:   players,
		publisher: publisher,
	}
}

func (gs *GameService) publish(events ...Event) {
	if len(events) > 0 && gs.publisher != nil {
		gs.publisher.Publish(events...)
	}
}

// CreateGame opens a new game hosted by sessionID and returns its snapshot
func (gs *GameService) CreateGame(sessionID string) ([]byte, error) {
	if sessionID == "" {
		return nil, ErrInvalidCommand
	}
	s := gs.registry.Create(sessionID)
	snapshot, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	gs.publish(gs.currentGamesEvent()...)
	return snapshot, nil
}

// JoinGame adds a player bound to sessionID to a waiting game. Players are
// placed on the map when the game starts.
func (gs *GameService) JoinGame(gameID, sessionID string) ([]byte, error) {
	if sessionID == "" {
		return nil, ErrInvalidCommand
	}
	s, err := gs.registry.Get(gameID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	g := s.game
	if g.Status != models.GameStatusWaiting {
		s.mu.Unlock()
		return nil, ErrGameNotJoinable
	}
	if g.PlayerBySession(sessionID) == nil {
		player := gs.players.NewPlayer(sessionID, false, s.rng)
		g.Players = append(g.Players, player)
		log.Printf("Player %s joined game %s", player.Name, g.ID)
	}
	events := snapshotEvent(g, messages.MessageTypePlayersChangedInGame)
	snapshot, err := json.Marshal(g)
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	gs.publish(events...)
	return snapshot, nil
}

// JoinableGames returns the encoded snapshots of every waiting game
func (gs *GameService) JoinableGames() []json.RawMessage {
	sessions := gs.registry.Joinable()
	games := make([]json.RawMessage, 0, len(sessions))
	for _, s := range sessions {
		snapshot, err := s.Snapshot()
		if err != nil {
			log.Printf("Error encoding game %s: %v", s.ID(), err)
			continue
		}
		games = append(games, snapshot)
	}
	return games
}

// currentGamesEvent must not be called with a game lock held
func (gs *GameService) currentGamesEvent() []Event {
	return broadcastEvent(messages.MessageTypeCurrentGames, messages.CurrentGamesMessage{Games: gs.JoinableGames()})
}

// MovePlayer queues a move (or an attack, when the path ends on a monster)
func (gs *GameService) MovePlayer(sessionID, gameID string, x, y int) error {
	s, err := gs.registry.Get(gameID)
	if err != nil {
		return err
	}
	return gs.engine.QueueMove(s, sessionID, models.NewCoordinate(x, y))
}

// UseItem queues the use of an inventory item on a cell
func (gs *GameService) UseItem(sessionID, gameID string, x, y int, itemID string) error {
	s, err := gs.registry.Get(gameID)
	if err != nil {
		return err
	}
	return gs.engine.QueueUseItem(s, sessionID, models.NewCoordinate(x, y), itemID)
}

// ChangeName renames the sender and tells the other players
func (gs *GameService) ChangeName(sessionID, gameID, name string) error {
	s, err := gs.registry.Get(gameID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	p := s.game.PlayerBySession(sessionID)
	if p == nil {
		s.mu.Unlock()
		return ErrPlayerNotFound
	}
	if err := gs.players.Rename(p, name); err != nil {
		s.mu.Unlock()
		return err
	}
	events := othersEvent(s.game, sessionID, messages.MessageTypeNameChanged)
	s.mu.Unlock()

	gs.publish(events...)
	gs.publish(gs.currentGamesEvent()...)
	return nil
}

// ChangeCharacter switches the sender's character and tells the other
// players
func (gs *GameService) ChangeCharacter(sessionID, gameID string, character models.CharacterName) error {
	s, err := gs.registry.Get(gameID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	p := s.game.PlayerBySession(sessionID)
	if p == nil {
		s.mu.Unlock()
		return ErrPlayerNotFound
	}
	if err := gs.players.ChangeCharacter(p, character); err != nil {
		s.mu.Unlock()
		return err
	}
	events := othersEvent(s.game, sessionID, messages.MessageTypeCharacterChanged)
	s.mu.Unlock()

	gs.publish(events...)
	return nil
}

// othersEvent sends the roster to every connected player except the sender
func othersEvent(g *models.Game, senderSession string, msgType messages.MessageType) []Event {
	var recipients []string
	for _, session := range g.ConnectedSessions() {
		if session != senderSession {
			recipients = append(recipients, session)
		}
	}
	if len(recipients) == 0 {
		return nil
	}
	if ev, ok := newEvent(recipients, msgType, messages.PlayersMessage{GameID: g.ID, Players: g.Players}); ok {
		return []Event{ev}
	}
	return nil
}

// StartGame digs the dungeon, places the party and opens turn one. Only the
// host may start, and only from the lobby.
func (gs *GameService) StartGame(sessionID, gameID string) error {
	s, err := gs.registry.Get(gameID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	g := s.game
	p := g.PlayerBySession(sessionID)
	if p == nil {
		s.mu.Unlock()
		return ErrPlayerNotFound
	}
	if !p.IsHost {
		s.mu.Unlock()
		return ErrNotHost
	}
	if g.Status != models.GameStatusWaiting {
		s.mu.Unlock()
		return ErrInvalidCommand
	}

	builder := NewDungeonBuilder(s.rng)
	g.DungeonMap = builder.Build(len(g.Players))

	spawn := g.DungeonMap[0].PlayerSpawn
	p.MapLevel = 0
	p.MoveTo(spawn)
	for _, other := range g.Players {
		if other == p {
			continue
		}
		// keep unplaced players off the board while searching
		other.MapLevel = -1
	}
	for _, other := range g.Players {
		if other == p {
			continue
		}
		c, ok := FreeCellNearHost(g, s.rng)
		if !ok {
			c = spawn
		}
		other.MapLevel = 0
		other.MoveTo(c)
	}
	builder.PopulateItems(g)
	RefreshVisibility(g)

	now := gs.engine.now()
	g.Status = models.GameStatusOngoing
	g.Turn = 0
	g.StartTime = now
	g.LastActionTime = now
	events := snapshotEvent(g, messages.MessageTypeGameStarted)
	playerCount := len(g.Players)
	s.mu.Unlock()

	log.Printf("Game %s started with %d players", gameID, playerCount)
	gs.publish(events...)
	gs.publish(gs.currentGamesEvent()...)
	return nil
}

// LeaveGame removes the sender from the game. The host leaving closes the
// game for everybody.
func (gs *GameService) LeaveGame(sessionID, gameID string) error {
	s, err := gs.registry.Get(gameID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	g := s.game
	p := g.PlayerBySession(sessionID)
	if p == nil {
		s.mu.Unlock()
		return ErrPlayerNotFound
	}

	if p.IsHost {
		// pending re-checks must not resolve turns of a closed game
		s.generation++
		s.mu.Unlock()
		gs.registry.Delete(gameID)
		log.Printf("Host left, closing game %s", gameID)
		gs.publish(broadcastEvent(messages.MessageTypeGameClosed, messages.GameClosedMessage{GameID: gameID})...)
		gs.publish(gs.currentGamesEvent()...)
		return nil
	}

	g.RemovePlayer(p)
	log.Printf("Player %s left game %s", p.Name, gameID)
	var o outcome
	o.add(snapshotEvent(g, messages.MessageTypePlayersChangedInGame)...)
	if g.Status == models.GameStatusOngoing {
		turn := gs.engine.checkTurnEndLocked(s)
		o.add(turn.events...)
		o.result = turn.result
	}
	s.mu.Unlock()

	gs.engine.deliver(o)
	return nil
}

// Reconnect binds sessionID to a player whose connection dropped. The
// player's pending action survives.
func (gs *GameService) Reconnect(sessionID, gameID, playerID string) error {
	if sessionID == "" {
		return ErrReconnectFailed
	}
	s, err := gs.registry.Get(gameID)
	if err != nil {
		return ErrReconnectFailed
	}

	s.mu.Lock()
	g := s.game
	p := g.PlayerByID(playerID)
	if p == nil || p.IsConnected() || g.Status.IsFinal() {
		s.mu.Unlock()
		return ErrReconnectFailed
	}
	p.SessionID = sessionID
	var events []Event
	if ev, ok := newEvent([]string{sessionID}, messages.MessageTypeReconnectSuccessful,
		messages.GameSnapshotMessage{GameID: g.ID, Game: g}); ok {
		events = append(events, ev)
	}
	s.mu.Unlock()

	log.Printf("Player %s reconnected to game %s", playerID, gameID)
	gs.publish(events...)
	return nil
}

// Disconnect unbinds sessionID from every player it controls. The players
// stay in their games and keep their cells.
func (gs *GameService) Disconnect(sessionID string) {
	if sessionID == "" {
		return
	}
	for _, s := range gs.registry.FindBySession(sessionID) {
		s.mu.Lock()
		if p := s.game.PlayerBySession(sessionID); p != nil {
			p.SessionID = ""
			log.Printf("Player %s disconnected from game %s", p.ID, s.id)
		}
		s.mu.Unlock()
		gs.engine.CheckTurnEnd(s)
	}
}

// SweepStaleGames runs one garbage collection pass over the registry
func (gs *GameService) SweepStaleGames() []string {
	removed := gs.registry.Sweep()
	if len(removed) > 0 {
		gs.publish(gs.currentGamesEvent()...)
	}
	return removed
}
