package services

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"swords-with-friends/server/models"
)

const (
	playerMaxHP     = 100
	playerMinAttack = 15
	playerMaxAttack = 25
	maxNameLength   = 24
)

var nameAdjectives = []string{
	"Brave", "Clever", "Dusty", "Fierce", "Gentle", "Grim", "Hasty", "Jolly",
	"Lucky", "Mighty", "Nimble", "Quiet", "Rusty", "Sly", "Stout", "Swift",
}

var nameNouns = []string{
	"Badger", "Bard", "Crow", "Fox", "Hare", "Knight", "Lynx", "Moth",
	"Otter", "Raven", "Rogue", "Squire", "Toad", "Wolf", "Wren", "Yak",
}

// PlayerService creates players and applies lobby edits to them
type PlayerService struct{}

func NewPlayerService() *PlayerService {
	return &PlayerService{}
}

// NewPlayer creates a fresh swordswoman bound to sessionID. Position is set
// when the game starts.
func (ps *PlayerService) NewPlayer(sessionID string, isHost bool, rng *rand.Rand) *models.Player {
	color := randomColor(rng)
	return &models.Player{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		Name:          randomName(rng),
		Character:     models.CharacterSwordsWoman,
		Color:         color,
		TextColor:     contrastColor(color),
		IsHost:        isHost,
		CurrentHP:     playerMaxHP,
		MaxHP:         playerMaxHP,
		MinAttack:     playerMinAttack,
		MaxAttack:     playerMaxAttack,
		Equipment:     NewGear(models.GearSwordAngel),
		Items:         []*models.Item{NewPotion(models.PotionHealth)},
		StatusEffects: []models.StatusEffect{},
	}
}

// Rename validates and applies a new display name
func (ps *PlayerService) Rename(p *models.Player, name string) error {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return fmt.Errorf("name %q: %w", name, ErrInvalidCommand)
	}
	p.Name = name
	return nil
}

// ChangeCharacter switches the player's sprite
func (ps *PlayerService) ChangeCharacter(p *models.Player, character models.CharacterName) error {
	if !character.IsSelectable() {
		return fmt.Errorf("character %q: %w", character, ErrInvalidCommand)
	}
	p.Character = character
	return nil
}

func randomName(rng *rand.Rand) string {
	return nameAdjectives[rng.Intn(len(nameAdjectives))] + " " + nameNouns[rng.Intn(len(nameNouns))]
}

// randomColor picks a bright-ish colour in HSL space and returns it as hex
func randomColor(rng *rand.Rand) string {
	h := float64(rng.Intn(361))
	s := float64(42+rng.Intn(57)) / 100
	l := float64(40+rng.Intn(51)) / 100
	r, g, b := hslToRGB(h, s, l)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hslToRGB(h, s, l float64) (int, int, int) {
	c := (1 - math.Abs(2*l-1)) * s
	hp := math.Mod(h/60, 6)
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := l - c/2
	to8 := func(v float64) int {
		return int(math.Round((v + m) * 255))
	}
	return to8(r), to8(g), to8(b)
}

// contrastColor returns black or white, whichever reads better on hex
func contrastColor(hex string) string {
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return "#000"
	}
	yiq := (r*299 + g*587 + b*114) / 1000
	if yiq >= 128 {
		return "#000"
	}
	return "#fff"
}
