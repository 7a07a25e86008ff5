package services

import (
	"testing"

	"swords-with-friends/server/models"
)

func giveItem(p *models.Player, item *models.Item) *models.Item {
	p.Items = append(p.Items, item)
	return item
}

func TestHealthPotion(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	p := addPlayer(g, "a", 5, 5)
	other := addPlayer(g, "b", 7, 7)
	other.CurrentHP = 10
	m := addMonster(g, 0, models.MonsterGoblin, 3, 3)
	m.CurrentHP = 1

	potion := giveItem(p, NewPotion(models.PotionHealth))
	if !UseItem(g, p, other.Position(), potion.ID, seeded()) {
		t.Fatal("UseItem reported a missing item")
	}
	if other.CurrentHP != other.MaxHP {
		t.Errorf("other hp = %d, want %d", other.CurrentHP, other.MaxHP)
	}
	if len(p.Items) != 0 {
		t.Error("potion not consumed")
	}

	potion = giveItem(p, NewPotion(models.PotionHealth))
	UseItem(g, p, m.Position(), potion.ID, seeded())
	if m.CurrentHP != m.MaxHP {
		t.Errorf("monster hp = %d, want %d", m.CurrentHP, m.MaxHP)
	}
}

func TestAcidPotion(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	p := addPlayer(g, "a", 5, 5)
	m := addMonster(g, 0, models.MonsterOrc, 8, 8)

	potion := giveItem(p, NewPotion(models.PotionAcid))
	UseItem(g, p, m.Position(), potion.ID, seeded())
	lost := m.MaxHP - m.CurrentHP
	if lost < acidMinDamage || lost > acidMaxDamage {
		t.Errorf("acid dealt %d", lost)
	}

	wasted := giveItem(p, NewPotion(models.PotionAcid))
	UseItem(g, p, coord(2, 2), wasted.ID, seeded())
	if p.ItemIndex(wasted.ID) >= 0 {
		t.Error("potion thrown at nothing was not consumed")
	}
}

func TestGoStoneSwapsPlaces(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	p := addPlayer(g, "a", 2, 2)
	other := addPlayer(g, "b", 8, 8)
	p.ApplyEffect(models.EffectPinned, 3)
	other.ApplyEffect(models.EffectFrozen, 3)
	other.CurrentAction = &models.PlayerAction{Kind: models.ActionMove, Target: coord(9, 9)}

	stone := giveItem(p, NewPotion(models.PotionGoStone))
	UseItem(g, p, other.Position(), stone.ID, seeded())

	if p.Position() != coord(8, 8) || other.Position() != coord(2, 2) {
		t.Errorf("positions a=%v b=%v, want swapped", p.Position(), other.Position())
	}
	if len(p.StatusEffects) != 0 || len(other.StatusEffects) != 0 {
		t.Error("swap should clear movement effects")
	}
	if other.CurrentAction != nil {
		t.Error("swapped player kept a stale action")
	}
}

func TestGoStoneSwapsWithMonster(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	p := addPlayer(g, "a", 2, 2)
	m := addMonster(g, 0, models.MonsterGoblin, 6, 6)

	stone := giveItem(p, NewPotion(models.PotionGoStone))
	UseItem(g, p, m.Position(), stone.ID, seeded())

	if p.Position() != coord(6, 6) || m.Position() != coord(2, 2) {
		t.Errorf("positions player=%v monster=%v, want swapped", p.Position(), m.Position())
	}
}

func TestGoStoneToEmptyCell(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	p := addPlayer(g, "a", 2, 2)
	sword := NewGear(models.GearSwordBasic)
	cell := g.DungeonMap[0].Cell(coord(9, 3))
	cell.Items = append(cell.Items, sword)

	stone := giveItem(p, NewPotion(models.PotionGoStone))
	UseItem(g, p, coord(9, 3), stone.ID, seeded())
	if p.Position() != coord(9, 3) {
		t.Fatalf("player at %v, want 9,3", p.Position())
	}
	if p.ItemIndex(sword.ID) < 0 {
		t.Error("items on the landing cell not picked up")
	}

	wall := giveItem(p, NewPotion(models.PotionGoStone))
	UseItem(g, p, coord(0, 0), wall.ID, seeded())
	if p.Position() != coord(9, 3) {
		t.Errorf("player jumped into a wall: %v", p.Position())
	}
	if p.ItemIndex(wall.ID) >= 0 {
		t.Error("wasted stone not consumed")
	}
}

func TestSummonPotion(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	p := addPlayer(g, "a", 2, 2)
	b := addPlayer(g, "b", 9, 9)
	c := addPlayer(g, "c", 9, 2)
	dead := addPlayer(g, "dead", 5, 9)
	dead.CurrentHP = 0
	b.CurrentAction = &models.PlayerAction{Kind: models.ActionMove, Target: coord(9, 8)}

	summon := giveItem(p, NewPotion(models.PotionSummon))
	UseItem(g, p, coord(5, 5), summon.ID, seeded())

	for _, other := range []*models.Player{b, c} {
		if d := ChebyshevDistance(other.Position(), coord(5, 5)); d > 1 {
			t.Errorf("%s is %d cells from the target", other.ID, d)
		}
		if other.CurrentAction != nil {
			t.Errorf("%s kept its action", other.ID)
		}
	}
	if b.Position() == c.Position() {
		t.Error("summoned players share a cell")
	}
	if dead.Position() != coord(5, 9) {
		t.Error("defeated player was summoned")
	}
	if p.Position() != coord(2, 2) {
		t.Error("summoner moved")
	}
}

func TestTeleportPotion(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	p := addPlayer(g, "a", 2, 2)
	m := addMonster(g, 0, models.MonsterGoblin, 3, 3)

	potion := giveItem(p, NewPotion(models.PotionTeleport))
	UseItem(g, p, m.Position(), potion.ID, seeded())

	if !g.DungeonMap[0].IsPassable(m.Position()) {
		t.Errorf("monster teleported to %v", m.Position())
	}
	if m.Position() == p.Position() {
		t.Error("monster teleported onto the player")
	}
}

func TestGearHandedToOtherPlayer(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	p := addPlayer(g, "a", 2, 2)
	bare := addPlayer(g, "b", 3, 2)
	armed := addPlayer(g, "c", 2, 3)
	armed.Equipment = NewGear(models.GearSwordBasic)

	sword := giveItem(p, NewGear(models.GearSwordVampire))
	UseItem(g, p, bare.Position(), sword.ID, seeded())
	if bare.Equipment != sword {
		t.Error("unarmed player did not equip the sword")
	}
	if p.ItemIndex(sword.ID) >= 0 {
		t.Error("giver kept the sword")
	}

	second := giveItem(p, NewGear(models.GearSwordAngel))
	UseItem(g, p, armed.Position(), second.ID, seeded())
	if armed.ItemIndex(second.ID) < 0 {
		t.Error("armed player should receive the sword in the inventory")
	}
}

func TestGearEquippedOnSelf(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	p := addPlayer(g, "a", 2, 2)
	old := NewGear(models.GearSwordBasic)
	p.Equipment = old

	sword := giveItem(p, NewGear(models.GearSwordAcid))
	UseItem(g, p, p.Position(), sword.ID, seeded())

	if p.Equipment != sword {
		t.Error("sword not equipped")
	}
	if p.ItemIndex(old.ID) < 0 {
		t.Error("previous sword not returned to the inventory")
	}
	if minAtk, maxAtk := p.AttackRange(); minAtk != 25 || maxAtk != 35 {
		t.Errorf("attack range %d..%d, want 25..35", minAtk, maxAtk)
	}
}

func TestGearDropped(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	p := addPlayer(g, "a", 2, 2)

	sword := giveItem(p, NewGear(models.GearSwordBasic))
	UseItem(g, p, coord(0, 0), sword.ID, seeded())
	if p.ItemIndex(sword.ID) < 0 {
		t.Fatal("sword dropped into a wall")
	}

	UseItem(g, p, coord(4, 4), sword.ID, seeded())
	cell := g.DungeonMap[0].Cell(coord(4, 4))
	if len(cell.Items) != 1 || cell.Items[0] != sword {
		t.Errorf("cell items = %+v", cell.Items)
	}
	if p.ItemIndex(sword.ID) >= 0 {
		t.Error("dropped sword still in the inventory")
	}
}

func TestUseMissingItem(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	p := addPlayer(g, "a", 2, 2)
	if UseItem(g, p, coord(3, 3), "missing", seeded()) {
		t.Error("UseItem accepted an unknown item")
	}
}

func TestSoloGamesNeverRollSummon(t *testing.T) {
	rng := seeded()
	for range 300 {
		if item := RandomPotion(rng, 1); item.Potion == models.PotionSummon {
			t.Fatal("summon rolled for a solo game")
		}
	}
}

func TestPickUpPreservesOrder(t *testing.T) {
	level := levelFromRows(openRoom...)
	p := &models.Player{X: 3, Y: 3, Items: []*models.Item{}}
	first, second := NewPotion(models.PotionAcid), NewGear(models.GearSwordBasic)
	cell := level.Cell(coord(3, 3))
	cell.Items = append(cell.Items, first, second)

	PickUpItems(level, p)
	if len(p.Items) != 2 || p.Items[0] != first || p.Items[1] != second {
		t.Errorf("inventory = %+v", p.Items)
	}
	if len(cell.Items) != 0 {
		t.Error("cell not emptied")
	}
}
