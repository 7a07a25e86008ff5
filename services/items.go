package services

import (
	"math/rand"

	"github.com/google/uuid"

	"swords-with-friends/server/models"
)

const (
	acidMinDamage = 25
	acidMaxDamage = 35
)

var gearTypes = []models.GearType{
	models.GearSwordBasic,
	models.GearSwordAngel,
	models.GearSwordVampire,
	models.GearSwordAcid,
}

var potionTypes = []models.PotionType{
	models.PotionHealth,
	models.PotionAcid,
	models.PotionGoStone,
	models.PotionSummon,
	models.PotionTeleport,
}

// GearAttack returns the damage range of a sword
func GearAttack(gear models.GearType) (int, int) {
	switch gear {
	case models.GearSwordAngel:
		return 15, 30
	case models.GearSwordVampire:
		return 15, 35
	case models.GearSwordAcid:
		return 25, 35
	default:
		return 15, 25
	}
}

// NewGear creates a sword item
func NewGear(gear models.GearType) *models.Item {
	minAtk, maxAtk := GearAttack(gear)
	return &models.Item{
		ID:        uuid.NewString(),
		Type:      models.ItemGear,
		Gear:      gear,
		MinAttack: minAtk,
		MaxAttack: maxAtk,
	}
}

// NewPotion creates a potion item
func NewPotion(potion models.PotionType) *models.Item {
	return &models.Item{ID: uuid.NewString(), Type: models.ItemPotion, Potion: potion}
}

// NewTrophy creates the item that wins the game
func NewTrophy() *models.Item {
	return &models.Item{ID: uuid.NewString(), Type: models.ItemTrophy}
}

// RandomGear picks a sword of any tier
func RandomGear(rng *rand.Rand) *models.Item {
	return NewGear(gearTypes[rng.Intn(len(gearTypes))])
}

// RandomPotion picks a potion. Summon is pointless alone, so solo games
// never roll it.
func RandomPotion(rng *rand.Rand, playerCount int) *models.Item {
	pool := potionTypes
	if playerCount <= 1 {
		pool = make([]models.PotionType, 0, len(potionTypes))
		for _, p := range potionTypes {
			if p != models.PotionSummon {
				pool = append(pool, p)
			}
		}
	}
	return NewPotion(pool[rng.Intn(len(pool))])
}

// PickUpItems moves everything lying on the player's cell into the
// inventory, preserving order
func PickUpItems(level *models.DungeonLevel, p *models.Player) {
	cell := level.Cell(p.Position())
	if cell == nil || len(cell.Items) == 0 {
		return
	}
	p.Items = append(p.Items, cell.Items...)
	cell.Items = []*models.Item{}
}

// UseItem resolves p using itemID on target. It reports false, changing
// nothing, when the item is not in p's inventory. Potions are spent even
// when they hit nothing; gear is only given away or dropped.
func UseItem(game *models.Game, p *models.Player, target models.Coordinate, itemID string, rng *rand.Rand) bool {
	idx := p.ItemIndex(itemID)
	if idx < 0 {
		return false
	}
	item := p.Items[idx]
	switch item.Type {
	case models.ItemPotion:
		p.TakeItem(itemID)
		usePotion(game, p, target, item.Potion, rng)
	case models.ItemGear:
		useGear(game, p, target, item)
	}
	return true
}

func usePotion(game *models.Game, p *models.Player, target models.Coordinate, potion models.PotionType, rng *rand.Rand) {
	level := p.MapLevel
	occupant := OccupantAt(game, level, target)

	switch potion {
	case models.PotionHealth:
		switch occupant.Kind {
		case OccupantPlayer:
			occupant.Player.CurrentHP = occupant.Player.MaxHP
		case OccupantMonster:
			occupant.Monster.CurrentHP = occupant.Monster.MaxHP
		}

	case models.PotionAcid:
		damage := RollDamage(rng, acidMinDamage, acidMaxDamage)
		switch occupant.Kind {
		case OccupantPlayer:
			occupant.Player.CurrentHP -= damage
		case OccupantMonster:
			DamageMonster(game, level, occupant.Monster, damage)
		}

	case models.PotionGoStone:
		from := p.Position()
		switch occupant.Kind {
		case OccupantPlayer:
			other := occupant.Player
			if other == p {
				return
			}
			p.MoveTo(other.Position())
			other.MoveTo(from)
			p.ClearMovementEffects()
			other.ClearMovementEffects()
			other.CurrentAction = nil
		case OccupantMonster:
			p.MoveTo(occupant.Monster.Position())
			occupant.Monster.MoveTo(from)
			p.ClearMovementEffects()
		default:
			if IsFreeCell(game, level, target) {
				p.MoveTo(target)
				if dl := game.Level(level); dl != nil {
					PickUpItems(dl, p)
				}
			}
		}

	case models.PotionSummon:
		if !IsValidCoordinate(target.X, target.Y) {
			return
		}
		for _, other := range game.Players {
			if other == p || !other.IsAlive() {
				continue
			}
			other.CurrentAction = nil
			if c, ok := FreeCellAround(game, level, target); ok {
				other.MoveTo(c)
				other.MapLevel = level
			}
		}

	case models.PotionTeleport:
		switch occupant.Kind {
		case OccupantPlayer:
			if c, ok := RandomFreeCell(game, occupant.Player.MapLevel, rng); ok {
				occupant.Player.MoveTo(c)
				if occupant.Player != p {
					occupant.Player.CurrentAction = nil
				}
			}
		case OccupantMonster:
			if c, ok := RandomFreeCell(game, level, rng); ok {
				occupant.Monster.MoveTo(c)
			}
		}
	}
}

// useGear hands a sword to another standing player, equips it when used on
// oneself, or drops it on an empty passable cell
func useGear(game *models.Game, p *models.Player, target models.Coordinate, item *models.Item) {
	occupant := OccupantAt(game, p.MapLevel, target)
	switch occupant.Kind {
	case OccupantPlayer:
		receiver := occupant.Player
		p.TakeItem(item.ID)
		if receiver == p {
			if p.Equipment != nil {
				p.Items = append(p.Items, p.Equipment)
			}
			p.Equipment = item
			return
		}
		if receiver.Equipment == nil {
			receiver.Equipment = item
		} else {
			receiver.Items = append(receiver.Items, item)
		}
	case OccupantNone:
		level := game.Level(p.MapLevel)
		if level == nil {
			return
		}
		cell := level.Cell(target)
		if cell == nil || !cell.IsPassable {
			return
		}
		p.TakeItem(item.ID)
		cell.Items = append(cell.Items, item)
	}
}
