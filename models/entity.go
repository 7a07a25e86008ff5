package models

import "time"

type CharacterName string

const (
	CharacterDead        CharacterName = "character-dead"
	CharacterSwordsMan   CharacterName = "character-swordsman"
	CharacterSwordsWoman CharacterName = "character-swordswoman"
)

// IsSelectable reports whether players may pick the character in the lobby
func (c CharacterName) IsSelectable() bool {
	return c == CharacterSwordsMan || c == CharacterSwordsWoman
}

type ItemType string

const (
	ItemGear   ItemType = "gear"
	ItemPotion ItemType = "potion"
	ItemTrophy ItemType = "trophy"
)

type GearType string

const (
	GearSwordBasic   GearType = "sword-basic"
	GearSwordAngel   GearType = "sword-angel"
	GearSwordVampire GearType = "sword-vampire"
	GearSwordAcid    GearType = "sword-acid"
)

type PotionType string

const (
	PotionHealth   PotionType = "health"
	PotionAcid     PotionType = "acid"
	PotionGoStone  PotionType = "go-stone"
	PotionSummon   PotionType = "summon"
	PotionTeleport PotionType = "teleport"
)

// Item is immutable once created; it only ever changes owner.
type Item struct {
	ID        string     `json:"itemId"`
	Type      ItemType   `json:"type"`
	Gear      GearType   `json:"gear,omitempty"`
	Potion    PotionType `json:"potion,omitempty"`
	MinAttack int        `json:"minAttack,omitempty"`
	MaxAttack int        `json:"maxAttack,omitempty"`
}

type EffectKind string

const (
	// EffectFrozen suppresses every action
	EffectFrozen EffectKind = "frozen"
	// EffectPinned suppresses movement only
	EffectPinned EffectKind = "pinned"
)

type StatusEffect struct {
	Kind           EffectKind `json:"kind"`
	RemainingTurns int        `json:"remainingTurns"`
}

type ActionKind string

const (
	ActionMove       ActionKind = "move"
	ActionUseItem    ActionKind = "use-item"
	ActionLayDead    ActionKind = "lay-dead"
	ActionWaitOnExit ActionKind = "wait-on-exit"
)

// PlayerAction is the command a player has queued for the current turn.
// Path is only set for moves and excludes the player's own cell.
// Forced marks the empty move the engine hands to frozen players.
type PlayerAction struct {
	Kind   ActionKind   `json:"name"`
	Target Coordinate   `json:"target"`
	Path   []Coordinate `json:"path,omitempty"`
	ItemID string       `json:"itemId,omitempty"`
	Forced bool         `json:"forced,omitempty"`
}

// IsCommand reports whether the action was submitted by the player rather
// than assigned by the turn engine
func (a *PlayerAction) IsCommand() bool {
	return a != nil && !a.Forced && (a.Kind == ActionMove || a.Kind == ActionUseItem)
}

type Player struct {
	ID            string         `json:"playerId"`
	SessionID     string         `json:"-"`
	Name          string         `json:"name"`
	Character     CharacterName  `json:"character"`
	Color         string         `json:"color"`
	TextColor     string         `json:"textColor"`
	IsHost        bool           `json:"isHost"`
	X             int            `json:"x"`
	Y             int            `json:"y"`
	MapLevel      int            `json:"mapLevel"`
	CurrentHP     int            `json:"currentHp"`
	MaxHP         int            `json:"maxHp"`
	MinAttack     int            `json:"minAttackStrength"`
	MaxAttack     int            `json:"maxAttackStrength"`
	Equipment     *Item          `json:"equipment"`
	Items         []*Item        `json:"items"`
	CurrentAction *PlayerAction  `json:"currentAction"`
	StatusEffects []StatusEffect `json:"statusEffects"`
}

func (p *Player) Position() Coordinate {
	return Coordinate{X: p.X, Y: p.Y}
}

// MoveTo places the player on c
func (p *Player) MoveTo(c Coordinate) {
	p.X = c.X
	p.Y = c.Y
}

func (p *Player) IsAlive() bool {
	return p.CurrentHP > 0
}

// IsConnected reports whether a session is bound to the player
func (p *Player) IsConnected() bool {
	return p.SessionID != ""
}

// AttackRange returns the damage range, equipped gear overriding base stats
func (p *Player) AttackRange() (int, int) {
	if p.Equipment != nil && p.Equipment.Type == ItemGear {
		return p.Equipment.MinAttack, p.Equipment.MaxAttack
	}
	return p.MinAttack, p.MaxAttack
}

// HasEffect reports whether an effect of the given kind is active
func (p *Player) HasEffect(kind EffectKind) bool {
	for _, e := range p.StatusEffects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// ApplyEffect adds an effect, keeping the longer duration when one of the
// same kind is already active
func (p *Player) ApplyEffect(kind EffectKind, turns int) {
	for i, e := range p.StatusEffects {
		if e.Kind == kind {
			if turns > e.RemainingTurns {
				p.StatusEffects[i].RemainingTurns = turns
			}
			return
		}
	}
	p.StatusEffects = append(p.StatusEffects, StatusEffect{Kind: kind, RemainingTurns: turns})
}

// ClearMovementEffects removes every effect that stops the player moving
func (p *Player) ClearMovementEffects() {
	kept := p.StatusEffects[:0]
	for _, e := range p.StatusEffects {
		if e.Kind != EffectFrozen && e.Kind != EffectPinned {
			kept = append(kept, e)
		}
	}
	p.StatusEffects = kept
}

// ItemIndex returns the inventory index of itemID or -1
func (p *Player) ItemIndex(itemID string) int {
	for i, item := range p.Items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}

// TakeItem removes itemID from the inventory and returns it
func (p *Player) TakeItem(itemID string) *Item {
	i := p.ItemIndex(itemID)
	if i < 0 {
		return nil
	}
	item := p.Items[i]
	p.Items = append(p.Items[:i], p.Items[i+1:]...)
	return item
}

// HasTrophy reports whether the player carries the dungeon trophy
func (p *Player) HasTrophy() bool {
	for _, item := range p.Items {
		if item.Type == ItemTrophy {
			return true
		}
	}
	return false
}

type MonsterType string

const (
	MonsterGoblin  MonsterType = "goblin"
	MonsterTarball MonsterType = "tarball"
	MonsterMedusa  MonsterType = "medusa"
	MonsterSlime   MonsterType = "slime"
	MonsterVampire MonsterType = "vampire"
	MonsterOrc     MonsterType = "orc"
)

// Monster is removed from its level as soon as its hp drops to zero.
// Target is the last known position of the player it pursues.
type Monster struct {
	ID        string      `json:"monsterId"`
	Type      MonsterType `json:"type"`
	X         int         `json:"x"`
	Y         int         `json:"y"`
	CurrentHP int         `json:"currentHp"`
	MaxHP     int         `json:"maxHp"`
	MinAttack int         `json:"minAttackStrength"`
	MaxAttack int         `json:"maxAttackStrength"`
	Target    *Coordinate `json:"target"`
}

func (m *Monster) Position() Coordinate {
	return Coordinate{X: m.X, Y: m.Y}
}

// MoveTo places the monster on c
func (m *Monster) MoveTo(c Coordinate) {
	m.X = c.X
	m.Y = c.Y
}

func (m *Monster) IsAlive() bool {
	return m.CurrentHP > 0
}

// GameResult is the archived outcome of a finished game
type GameResult struct {
	GameID       string         `json:"gameId"`
	Status       GameStatus     `json:"status"`
	Turns        int            `json:"turns"`
	DeepestLevel int            `json:"deepestLevel"`
	Players      []ResultPlayer `json:"players"`
	StartedAt    time.Time      `json:"startedAt"`
	FinishedAt   time.Time      `json:"finishedAt"`
}

type ResultPlayer struct {
	PlayerID  string        `json:"playerId"`
	Name      string        `json:"name"`
	Character CharacterName `json:"character"`
	CurrentHP int           `json:"currentHp"`
	Survived  bool          `json:"survived"`
}

// NewGameResult summarises a finished game
func NewGameResult(g *Game, finishedAt time.Time) *GameResult {
	result := &GameResult{
		GameID:       g.ID,
		Status:       g.Status,
		Turns:        g.Turn,
		DeepestLevel: g.CurrentLevelIndex(),
		Players:      make([]ResultPlayer, 0, len(g.Players)),
		StartedAt:    g.StartTime,
		FinishedAt:   finishedAt,
	}
	for _, p := range g.Players {
		result.Players = append(result.Players, ResultPlayer{
			PlayerID:  p.ID,
			Name:      p.Name,
			Character: p.Character,
			CurrentHP: p.CurrentHP,
			Survived:  p.IsAlive(),
		})
	}
	return result
}
