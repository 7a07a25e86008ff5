package services

import (
	"testing"

	"swords-with-friends/server/models"
)

func TestFOVOriginAlwaysVisible(t *testing.T) {
	level := levelFromRows(openRoom...)
	visible := VisibleCells(level, coord(5, 5))
	if !visible.Has(coord(5, 5)) {
		t.Error("origin not visible")
	}
	if !visible.Has(coord(9, 9)) {
		t.Error("open floor within radius not visible")
	}
}

func TestFOVWallBlocksSight(t *testing.T) {
	level := levelFromRows(
		"#########",
		"#...#...#",
		"#...#...#",
		"#...#...#",
		"#########",
	)
	visible := VisibleCells(level, coord(2, 2))

	if !visible.Has(coord(4, 2)) {
		t.Error("the wall itself should be lit")
	}
	if visible.Has(coord(6, 2)) {
		t.Error("cell behind the wall is visible")
	}
}

func TestFOVRadius(t *testing.T) {
	rows := make([]string, 3)
	line := "#"
	for range models.MaxX - 1 {
		line += "."
	}
	rows[0], rows[1], rows[2] = line, line, line
	level := levelFromRows(rows...)

	visible := VisibleCells(level, coord(1, 1))
	if !visible.Has(coord(1+FOVRadius-1, 1)) {
		t.Error("cell inside the radius not visible")
	}
	if visible.Has(coord(1+FOVRadius+1, 1)) {
		t.Error("cell beyond the radius visible")
	}
}

func TestRefreshVisibilityDowngrades(t *testing.T) {
	g := newTestGame(levelFromRows(
		"#########",
		"#...#...#",
		"#...#...#",
		"#...#...#",
		"#########",
	))
	p := addPlayer(g, "a", 2, 2)
	level := g.DungeonMap[0]

	RefreshVisibility(g)
	if v := level.Cell(coord(2, 2)).Visibility; v != models.VisibilityVisible {
		t.Fatalf("own cell is %s", v)
	}
	if v := level.Cell(coord(6, 2)).Visibility; v != models.VisibilityUnseen {
		t.Errorf("hidden cell is %s", v)
	}

	p.MoveTo(coord(6, 2))
	RefreshVisibility(g)
	if v := level.Cell(coord(2, 2)).Visibility; v != models.VisibilitySeen {
		t.Errorf("cell left behind is %s, want seen", v)
	}
	if v := level.Cell(coord(6, 2)).Visibility; v != models.VisibilityVisible {
		t.Errorf("new cell is %s, want visible", v)
	}
}

func TestRefreshVisibilityIgnoresDefeated(t *testing.T) {
	g := newTestGame(levelFromRows(openRoom...))
	p := addPlayer(g, "a", 5, 5)
	p.CurrentHP = 0

	RefreshVisibility(g)
	if v := g.DungeonMap[0].Cell(coord(5, 5)).Visibility; v != models.VisibilityUnseen {
		t.Errorf("defeated player's cell is %s", v)
	}
}
