package main

import (
	"testing"
)

// countRows tallies ownership straight off the wire form, bypassing the
// incremental counters.
func countRows(g *PaintGrid) (red, blue int) {
	for _, row := range g.RowBytes() {
		for _, c := range row {
			switch Team(c) {
			case TeamRed:
				red++
			case TeamBlue:
				blue++
			}
		}
	}
	return red, blue
}

func TestNewPaintGridDims(t *testing.T) {
	g := NewPaintGrid(800, 600, 20)
	if g.Cols != 40 || g.Rows != 30 {
		t.Errorf("expected 40x30, got %dx%d", g.Cols, g.Rows)
	}

	// Partial tiles at the edge round up to a full tile.
	g = NewPaintGrid(810, 590, 20)
	if g.Cols != 41 || g.Rows != 30 {
		t.Errorf("expected 41x30, got %dx%d", g.Cols, g.Rows)
	}

	red, blue := g.Coverage()
	if red != 0 || blue != 0 {
		t.Errorf("fresh grid should be unpainted, got red=%d blue=%d", red, blue)
	}
}

func TestTileAt(t *testing.T) {
	g := NewPaintGrid(800, 600, 20)
	tests := []struct {
		x, y   float64
		tx, ty int
	}{
		{0, 0, 0, 0},
		{19.9, 19.9, 0, 0},
		{20, 20, 1, 1},
		{799, 599, 39, 29},
		{-50, -50, 0, 0},
		{5000, 5000, 39, 29},
	}
	for _, tt := range tests {
		tx, ty := g.TileAt(tt.x, tt.y)
		if tx != tt.tx || ty != tt.ty {
			t.Errorf("TileAt(%v, %v) = (%d, %d), want (%d, %d)", tt.x, tt.y, tx, ty, tt.tx, tt.ty)
		}
	}
}

func TestStampCircleTileCenters(t *testing.T) {
	g := NewPaintGrid(800, 600, 20)

	// r=25 centered on a tile center reaches the four orthogonal
	// neighbors (20 away) but not the diagonals (28.3 away).
	g.StampCircle(310, 310, 25, TeamBlue)

	if got := g.OwnerAt(310, 310); got != TeamBlue {
		t.Errorf("center tile: expected blue, got %v", got)
	}
	if got := g.OwnerAt(290, 310); got != TeamBlue {
		t.Errorf("west neighbor: expected blue, got %v", got)
	}
	if got := g.OwnerAt(290, 290); got != TeamNone {
		t.Errorf("diagonal neighbor: expected unpainted, got %v", got)
	}

	red, blue := g.Coverage()
	if red != 0 || blue != 5 {
		t.Errorf("expected red=0 blue=5, got red=%d blue=%d", red, blue)
	}
}

func TestStampCircleInclusiveRadius(t *testing.T) {
	g := NewPaintGrid(800, 600, 20)

	// A center exactly r away is painted.
	g.StampCircle(310, 310, 20, TeamRed)
	if got := g.OwnerAt(330, 310); got != TeamRed {
		t.Errorf("tile center exactly at radius: expected red, got %v", got)
	}
}

func TestStampCircleOverwrites(t *testing.T) {
	g := NewPaintGrid(800, 600, 20)

	g.StampCircle(310, 310, 25, TeamBlue)
	g.StampCircle(310, 310, 25, TeamBlue)
	red, blue := g.Coverage()
	if blue != 5 {
		t.Errorf("restamp should be idempotent, got blue=%d", blue)
	}

	// Red claims the same ground outright.
	g.StampCircle(310, 310, 25, TeamRed)
	red, blue = g.Coverage()
	if red != 5 || blue != 0 {
		t.Errorf("expected red=5 blue=0 after overwrite, got red=%d blue=%d", red, blue)
	}
}

func TestStampCircleOffGrid(t *testing.T) {
	g := NewPaintGrid(800, 600, 20)

	// Entirely off the grid: nothing happens.
	g.StampCircle(-100, -100, 30, TeamRed)
	g.StampCircle(900, 300, 10, TeamRed)
	if red, _ := g.Coverage(); red != 0 {
		t.Errorf("off-grid stamp painted %d tiles", red)
	}

	// Partially off: only the in-bounds part lands.
	g.StampCircle(0, 0, 25, TeamRed)
	if red, _ := g.Coverage(); red != 1 {
		t.Errorf("corner stamp: expected 1 tile, got %d", red)
	}
}

func TestEraseCircleBudget(t *testing.T) {
	g := NewPaintGrid(800, 600, 20)
	g.StampCircle(400, 300, 50, TeamRed)
	painted, _ := g.Coverage()
	if painted == 0 {
		t.Fatal("setup stamp painted nothing")
	}

	// Budget caps the clear mid-scan.
	cleared := g.EraseCircle(400, 300, 50, 3)
	if cleared != 3 {
		t.Errorf("expected 3 cleared, got %d", cleared)
	}
	if red, _ := g.Coverage(); red != painted-3 {
		t.Errorf("expected %d remaining, got %d", painted-3, red)
	}

	// A big budget finishes the job and reports the real count.
	cleared = g.EraseCircle(400, 300, 50, 10000)
	if cleared != painted-3 {
		t.Errorf("expected %d cleared, got %d", painted-3, cleared)
	}
	if red, _ := g.Coverage(); red != 0 {
		t.Errorf("expected clean grid, got red=%d", red)
	}

	// Nothing left to erase.
	if cleared = g.EraseCircle(400, 300, 50, 10); cleared != 0 {
		t.Errorf("erase on clean ground cleared %d", cleared)
	}
	if cleared = g.EraseCircle(400, 300, 50, 0); cleared != 0 {
		t.Errorf("zero budget cleared %d", cleared)
	}
}

func TestEraseCircleLeavesOutside(t *testing.T) {
	g := NewPaintGrid(800, 600, 20)
	g.StampCircle(200, 300, 30, TeamRed)
	g.StampCircle(600, 300, 30, TeamBlue)
	_, blueBefore := g.Coverage()

	g.EraseCircle(200, 300, 30, 10000)
	red, blue := g.Coverage()
	if red != 0 {
		t.Errorf("expected red wiped, got %d", red)
	}
	if blue != blueBefore {
		t.Errorf("blue changed from %d to %d", blueBefore, blue)
	}
}

func TestCoverageMatchesRowBytes(t *testing.T) {
	g := NewPaintGrid(800, 600, 20)
	g.StampCircle(150, 150, 45, TeamRed)
	g.StampCircle(400, 300, 60, TeamBlue)
	g.StampCircle(380, 290, 30, TeamRed)
	g.EraseCircle(400, 300, 25, 7)

	red, blue := g.Coverage()
	rowRed, rowBlue := countRows(g)
	if red != rowRed || blue != rowBlue {
		t.Errorf("counters red=%d blue=%d, rows red=%d blue=%d", red, blue, rowRed, rowBlue)
	}
}

func TestRowBytes(t *testing.T) {
	g := NewPaintGrid(100, 60, 20)
	g.StampCircle(30, 30, 5, TeamBlue)

	rows := g.RowBytes()
	if len(rows) != 3 || len(rows[0]) != 5 {
		t.Fatalf("expected 3 rows of 5, got %d rows", len(rows))
	}
	if Team(rows[1][1]) != TeamBlue {
		t.Errorf("expected blue at (1,1), got %v", Team(rows[1][1]))
	}
	if Team(rows[0][0]) != TeamNone {
		t.Errorf("expected unpainted at (0,0), got %v", Team(rows[0][0]))
	}
}
