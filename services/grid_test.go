package services

import (
	"testing"

	"github.com/zyedidia/generic/mapset"

	"swords-with-friends/server/models"
)

func TestIsValidCoordinate(t *testing.T) {
	tests := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{models.MaxX, models.MaxY, true},
		{-1, 0, false},
		{0, -1, false},
		{models.MaxX + 1, 0, false},
		{0, models.MaxY + 1, false},
	}
	for _, tt := range tests {
		if got := IsValidCoordinate(tt.x, tt.y); got != tt.want {
			t.Errorf("IsValidCoordinate(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestIsFreeCell(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	addPlayer(g, "a", 2, 2)
	dead := addPlayer(g, "dead", 3, 3)
	dead.CurrentHP = 0
	addMonster(g, 0, models.MonsterGoblin, 4, 4)

	tests := []struct {
		name string
		c    models.Coordinate
		want bool
	}{
		{"floor", coord(5, 5), true},
		{"wall", coord(0, 0), false},
		{"undug", coord(20, 20), false},
		{"standing player", coord(2, 2), false},
		{"defeated player", coord(3, 3), true},
		{"monster", coord(4, 4), false},
		{"out of bounds", coord(-1, 5), false},
	}
	for _, tt := range tests {
		if got := IsFreeCell(g, 0, tt.c); got != tt.want {
			t.Errorf("%s: IsFreeCell(%v) = %v, want %v", tt.name, tt.c, got, tt.want)
		}
	}
	if IsFreeCell(g, 3, coord(5, 5)) {
		t.Error("missing level reported free")
	}
}

func TestPathableCellMonstersIgnoreEachOther(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	addPlayer(g, "a", 2, 2)
	addMonster(g, 0, models.MonsterGoblin, 4, 4)

	if IsPathableCell(g, 0, coord(4, 4), false) {
		t.Error("players should path around monsters")
	}
	if !IsPathableCell(g, 0, coord(4, 4), true) {
		t.Error("monsters should path through monsters")
	}
	if IsPathableCell(g, 0, coord(2, 2), true) {
		t.Error("monsters should path around standing players")
	}
}

func TestOccupantAt(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	p := addPlayer(g, "a", 2, 2)
	m := addMonster(g, 0, models.MonsterGoblin, 4, 4)

	if o := OccupantAt(g, 0, coord(2, 2)); o.Kind != OccupantPlayer || o.Player != p {
		t.Errorf("player cell: %+v", o)
	}
	if o := OccupantAt(g, 0, coord(4, 4)); o.Kind != OccupantMonster || o.Monster != m {
		t.Errorf("monster cell: %+v", o)
	}
	if o := OccupantAt(g, 0, coord(6, 6)); o.Kind != OccupantNone {
		t.Errorf("empty cell: %+v", o)
	}
}

func TestDistances(t *testing.T) {
	if d := ChebyshevDistance(coord(1, 1), coord(4, 3)); d != 3 {
		t.Errorf("ChebyshevDistance = %d, want 3", d)
	}
	if d := Distance(coord(0, 0), coord(3, 4)); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}

func TestNeighboursStayInBounds(t *testing.T) {
	if n := Neighbours(coord(0, 0)); len(n) != 3 {
		t.Errorf("corner has %d neighbours, want 3", len(n))
	}
	if n := Neighbours(coord(5, 5)); len(n) != 8 {
		t.Errorf("inner cell has %d neighbours, want 8", len(n))
	}
}

func TestSpiralCoversSquare(t *testing.T) {
	points := SpiralAround(coord(10, 10))
	if len(points) != spiralSide*spiralSide {
		t.Fatalf("spiral has %d points, want %d", len(points), spiralSide*spiralSide)
	}
	if points[0] != coord(10, 10) {
		t.Errorf("spiral starts at %v, want the centre", points[0])
	}
	seen := mapset.New[models.Coordinate]()
	for i, c := range points {
		if seen.Has(c) {
			t.Errorf("point %v repeated", c)
		}
		seen.Put(c)
		if i > 0 && i < 9 && ChebyshevDistance(c, coord(10, 10)) != 1 {
			t.Errorf("point %d (%v) is not in the first ring", i, c)
		}
	}
}

func TestFreeCellAroundSkipsOccupied(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	addPlayer(g, "a", 5, 5)

	c, ok := FreeCellAround(g, 0, coord(5, 5))
	if !ok {
		t.Fatal("no free cell found")
	}
	if ChebyshevDistance(c, coord(5, 5)) != 1 {
		t.Errorf("found %v, want a neighbour of 5,5", c)
	}
}

func TestRandomFreeCellFindsLastSpot(t *testing.T) {
	g := newTestGame(levelFromRows(
		"#####",
		"#...#",
		"#####",
	))
	addPlayer(g, "a", 1, 1)
	addMonster(g, 0, models.MonsterGoblin, 2, 1)

	c, ok := RandomFreeCell(g, 0, seeded())
	if !ok || c != coord(3, 1) {
		t.Errorf("RandomFreeCell = %v, %v; want 3,1", c, ok)
	}

	addMonster(g, 0, models.MonsterGoblin, 3, 1)
	if _, ok := RandomFreeCell(g, 0, seeded()); ok {
		t.Error("full level reported a free cell")
	}
}

func TestFreeCellNearHost(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	host := addPlayer(g, "host", 5, 5)

	c, ok := FreeCellNearHost(g, seeded())
	if !ok {
		t.Fatal("no cell near host")
	}
	if c == host.Position() || ChebyshevDistance(c, host.Position()) > 3 {
		t.Errorf("cell %v not next to host", c)
	}
}
