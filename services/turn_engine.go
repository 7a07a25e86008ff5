package services

import (
	"fmt"
	"log"
	"time"

	"swords-with-friends/server/messages"
	"swords-with-friends/server/models"
)

// AutoResolveDelay is how long a partially submitted turn waits before the
// queued actions are played anyway
const AutoResolveDelay = 300 * time.Millisecond

// TurnEngine queues player actions and resolves turns. All game mutation
// happens under the session lock; events are published afterwards.
type TurnEngine struct {
	publisher Publisher
	archive   ResultArchive
	scheduler Scheduler
	delay     time.Duration
	now       func() time.Time
}

type TurnEngineOption func(*TurnEngine)

// WithScheduler replaces the timer used for deferred re-checks
func WithScheduler(s Scheduler) TurnEngineOption {
	return func(e *TurnEngine) { e.scheduler = s }
}

// WithAutoResolveDelay overrides AutoResolveDelay
func WithAutoResolveDelay(d time.Duration) TurnEngineOption {
	return func(e *TurnEngine) {
		if d > 0 {
			e.delay = d
		}
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) TurnEngineOption {
	return func(e *TurnEngine) { e.now = now }
}

func NewTurnEngine(publisher Publisher, archive ResultArchive, opts ...TurnEngineOption) *TurnEngine {
	e := &TurnEngine{
		publisher: publisher,
		archive:   archive,
		scheduler: timerScheduler{},
		delay:     AutoResolveDelay,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// outcome is what a locked section hands back for delivery after unlock
type outcome struct {
	events []Event
	result *models.GameResult
}

func (o *outcome) add(events ...Event) {
	o.events = append(o.events, events...)
}

func (e *TurnEngine) deliver(o outcome) {
	if len(o.events) > 0 && e.publisher != nil {
		e.publisher.Publish(o.events...)
	}
	if o.result != nil && e.archive != nil {
		if err := e.archive.SaveGameResult(o.result); err != nil {
			log.Printf("Error archiving result of game %s: %v", o.result.GameID, err)
		}
	}
}

// QueueMove plans a path to target and queues it as the player's action
func (e *TurnEngine) QueueMove(s *GameSession, sessionID string, target models.Coordinate) error {
	return e.queue(s, sessionID, target, func(g *models.Game, p *models.Player) (*models.PlayerAction, error) {
		return &models.PlayerAction{
			Kind:   models.ActionMove,
			Target: target,
			Path:   PlayerPath(g, p, target),
		}, nil
	})
}

// QueueUseItem queues the use of an inventory item on target
func (e *TurnEngine) QueueUseItem(s *GameSession, sessionID string, target models.Coordinate, itemID string) error {
	return e.queue(s, sessionID, target, func(g *models.Game, p *models.Player) (*models.PlayerAction, error) {
		if p.ItemIndex(itemID) < 0 {
			return nil, fmt.Errorf("item %s not in inventory: %w", itemID, ErrInvalidCommand)
		}
		return &models.PlayerAction{
			Kind:   models.ActionUseItem,
			Target: target,
			ItemID: itemID,
		}, nil
	})
}

func (e *TurnEngine) queue(s *GameSession, sessionID string, target models.Coordinate,
	build func(*models.Game, *models.Player) (*models.PlayerAction, error)) error {

	if !IsValidCoordinate(target.X, target.Y) {
		return fmt.Errorf("coordinate %s out of bounds: %w", target, ErrInvalidCommand)
	}

	s.mu.Lock()
	g := s.game
	if g.Status != models.GameStatusOngoing {
		s.mu.Unlock()
		return fmt.Errorf("game %s is %s: %w", g.ID, g.Status, ErrInvalidCommand)
	}
	p := g.PlayerBySession(sessionID)
	if p == nil {
		s.mu.Unlock()
		return ErrPlayerNotFound
	}
	if !p.IsAlive() || p.HasEffect(models.EffectFrozen) {
		s.mu.Unlock()
		return fmt.Errorf("player %s cannot act: %w", p.ID, ErrInvalidCommand)
	}
	action, err := build(g, p)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	// last write wins until the turn resolves
	p.CurrentAction = action

	var o outcome
	o.add(gameEvent(g, messages.MessageTypePlayerActionQueued, messages.PlayerActionQueuedMessage{
		GameID:   g.ID,
		PlayerID: p.ID,
		Action:   action,
	})...)
	turnEvents := e.checkTurnEndLocked(s)
	o.add(turnEvents.events...)
	o.result = turnEvents.result
	s.mu.Unlock()

	e.deliver(o)
	return nil
}

// CheckTurnEnd resolves the turn if nothing is left to wait for. Roster
// changes (leave, disconnect) go through here.
func (e *TurnEngine) CheckTurnEnd(s *GameSession) {
	s.mu.Lock()
	if s.game.Status != models.GameStatusOngoing {
		s.mu.Unlock()
		return
	}
	o := e.checkTurnEndLocked(s)
	s.mu.Unlock()
	e.deliver(o)
}

func (e *TurnEngine) checkTurnEndLocked(s *GameSession) outcome {
	if !allActionsQueued(s.game) {
		e.scheduleRecheck(s, s.generation)
		return outcome{}
	}
	return e.resolveTurnLocked(s)
}

func (e *TurnEngine) scheduleRecheck(s *GameSession, token uint64) {
	e.scheduler.AfterFunc(e.delay, func() { e.recheck(s, token) })
}

// recheck fires after the auto-resolve delay. It does nothing when a newer
// turn has been resolved since it was scheduled.
func (e *TurnEngine) recheck(s *GameSession, token uint64) {
	s.mu.Lock()
	if s.generation != token || s.game.Status != models.GameStatusOngoing {
		s.mu.Unlock()
		return
	}
	if !hasPendingCommands(s.game) && !allActionsQueued(s.game) {
		s.mu.Unlock()
		return
	}
	o := e.resolveTurnLocked(s)
	s.mu.Unlock()
	e.deliver(o)
}

// allActionsQueued reports whether every living player has an action
func allActionsQueued(g *models.Game) bool {
	living := 0
	for _, p := range g.Players {
		if !p.IsAlive() {
			continue
		}
		living++
		if p.CurrentAction == nil {
			return false
		}
	}
	return living > 0
}

// onlyForcedLeft reports whether every living player already has an action
// and at least one of them is a frozen player's forced move
func onlyForcedLeft(g *models.Game) bool {
	if !allActionsQueued(g) {
		return false
	}
	for _, p := range g.Players {
		if p.IsAlive() && p.CurrentAction.Forced {
			return true
		}
	}
	return false
}

// hasPendingCommands reports whether some living player still has a move or
// item use of their own to play
func hasPendingCommands(g *models.Game) bool {
	for _, p := range g.Players {
		if p.IsAlive() && p.CurrentAction.IsCommand() {
			return true
		}
	}
	return false
}

func (e *TurnEngine) resolveTurnLocked(s *GameSession) outcome {
	g := s.game
	now := e.now()
	s.generation++
	g.LastActionTime = now
	g.Turn++

	for _, p := range g.Players {
		if !p.IsAlive() || p.CurrentAction == nil {
			continue
		}
		switch p.CurrentAction.Kind {
		case models.ActionMove:
			executeMove(g, p, s)
		case models.ActionUseItem:
			UseItem(g, p, p.CurrentAction.Target, p.CurrentAction.ItemID, s.rng)
			p.CurrentAction = nil
		}
	}

	for _, level := range g.DungeonMap {
		level.PurgeDeadMonsters()
	}

	RunMonsterAI(g, s.rng)
	tickStatusEffects(g)
	settleActions(g)

	if levelComplete(g) {
		advanceLevel(g, s)
		settleActions(g)
	}

	RefreshVisibility(g)

	var o outcome
	msgType := messages.MessageTypeTurnEnd
	switch {
	case allDefeated(g):
		g.Status = models.GameStatusLost
		msgType = messages.MessageTypeGameLost
	case anyTrophy(g):
		g.Status = models.GameStatusWon
		msgType = messages.MessageTypeGameWon
	}
	o.add(snapshotEvent(g, msgType)...)

	if g.Status.IsFinal() {
		log.Printf("Game %s ended: %s after %d turns", g.ID, g.Status, g.Turn)
		o.result = models.NewGameResult(g, now)
		return o
	}

	if hasPendingCommands(g) || onlyForcedLeft(g) {
		e.scheduleRecheck(s, s.generation)
	}
	return o
}

// executeMove walks one step of the planned path. The step is re-validated
// because the board may have changed since the path was planned.
func executeMove(g *models.Game, p *models.Player, s *GameSession) {
	action := p.CurrentAction
	if len(action.Path) == 0 || p.HasEffect(models.EffectPinned) {
		p.CurrentAction = nil
		return
	}

	next := action.Path[0]
	level := g.Level(p.MapLevel)
	if level == nil || ChebyshevDistance(p.Position(), next) != 1 {
		p.CurrentAction = nil
		return
	}

	if m := level.MonsterAt(next); m != nil && m.IsAlive() {
		PlayerAttackMonster(g, p.MapLevel, p, m, s.rng)
		p.CurrentAction = nil
		return
	}
	if !IsFreeCell(g, p.MapLevel, next) {
		p.CurrentAction = nil
		return
	}

	p.MoveTo(next)
	PickUpItems(level, p)
	action.Path = action.Path[1:]
	if len(action.Path) == 0 {
		p.CurrentAction = nil
	}
}

// tickStatusEffects counts every effect down by one turn. Players that stay
// frozen get an empty move so they do not hold up the party.
func tickStatusEffects(g *models.Game) {
	for _, p := range g.Players {
		kept := p.StatusEffects[:0]
		for _, effect := range p.StatusEffects {
			effect.RemainingTurns--
			if effect.RemainingTurns > 0 {
				kept = append(kept, effect)
			}
		}
		p.StatusEffects = kept

		if p.IsAlive() && p.HasEffect(models.EffectFrozen) {
			p.CurrentAction = &models.PlayerAction{
				Kind:   models.ActionMove,
				Target: p.Position(),
				Path:   []models.Coordinate{},
				Forced: true,
			}
		}
	}
}

// settleActions marks defeated players as lying dead and players idling on
// an exit as waiting there
func settleActions(g *models.Game) {
	for _, p := range g.Players {
		if !p.IsAlive() {
			p.CurrentAction = &models.PlayerAction{Kind: models.ActionLayDead, Target: p.Position()}
			continue
		}
		action := p.CurrentAction
		if action != nil && action.Kind != models.ActionWaitOnExit && action.Kind != models.ActionLayDead {
			continue
		}
		level := g.Level(p.MapLevel)
		if level != nil && level.IsExit(p.Position()) {
			p.CurrentAction = &models.PlayerAction{Kind: models.ActionWaitOnExit, Target: p.Position()}
		} else {
			p.CurrentAction = nil
		}
	}
}

// levelComplete reports whether every standing player is on an exit
func levelComplete(g *models.Game) bool {
	standing := 0
	for _, p := range g.Players {
		if !p.IsAlive() {
			continue
		}
		standing++
		level := g.Level(p.MapLevel)
		if level == nil || !level.IsExit(p.Position()) {
			return false
		}
	}
	return standing > 0
}

// advanceLevel takes the party one level down. The host lands on the spawn
// and everybody else gathers around them.
func advanceLevel(g *models.Game, s *GameSession) {
	host := g.Host()
	if host == nil {
		log.Printf("Game %s has no host, skipping level transition", g.ID)
		return
	}
	next := host.MapLevel + 1
	level := g.Level(next)
	if level == nil {
		log.Printf("Game %s has no level %d, skipping level transition", g.ID, next)
		return
	}

	// the party's view of the level it leaves goes stale
	if left := g.Level(host.MapLevel); left != nil {
		fadeLevel(left)
	}
	host.MapLevel = next
	host.MoveTo(level.PlayerSpawn)

	for _, p := range g.Players {
		if p == host {
			continue
		}
		// placed while still on the old level so p never blocks itself
		c, ok := FreeCellNearHost(g, s.rng)
		if !ok {
			log.Printf("Game %s: no free cell for player %s on level %d", g.ID, p.ID, next)
			c = level.PlayerSpawn
		}
		p.MapLevel = next
		p.MoveTo(c)
	}

	for _, p := range g.Players {
		if !p.IsAlive() {
			p.CurrentHP = 1
		}
		p.CurrentAction = nil
	}
	log.Printf("Game %s advanced to level %d", g.ID, next)
}

func allDefeated(g *models.Game) bool {
	if len(g.Players) == 0 {
		return false
	}
	for _, p := range g.Players {
		if p.IsAlive() {
			return false
		}
	}
	return true
}

func anyTrophy(g *models.Game) bool {
	for _, p := range g.Players {
		if p.HasTrophy() {
			return true
		}
	}
	return false
}
