package main

import "math"

// Team identifies paint and player ownership. TeamNone marks unpainted
// tiles and spectators.
type Team uint8

const (
	TeamNone Team = iota
	TeamRed
	TeamBlue
)

func (t Team) String() string {
	switch t {
	case TeamRed:
		return "red"
	case TeamBlue:
		return "blue"
	}
	return "none"
}

// Opponent returns the opposing team. TeamNone has no opponent.
func Opponent(t Team) Team {
	switch t {
	case TeamRed:
		return TeamBlue
	case TeamBlue:
		return TeamRed
	}
	return TeamNone
}

// PaintGrid is the tile ownership layer of the arena floor. Cells are
// row-major, one Team per tile. All mutation goes through set so the
// per-team counters stay exact and Coverage is O(1).
type PaintGrid struct {
	Cols, Rows int
	TileSize   float64
	cells      []Team
	owned      [3]int
}

func NewPaintGrid(width, height, tileSize float64) *PaintGrid {
	cols := int(math.Ceil(width / tileSize))
	rows := int(math.Ceil(height / tileSize))
	g := &PaintGrid{
		Cols:     cols,
		Rows:     rows,
		TileSize: tileSize,
		cells:    make([]Team, cols*rows),
	}
	g.owned[TeamNone] = cols * rows
	return g
}

// TileAt maps a world position to tile indices, clamped to the grid.
func (g *PaintGrid) TileAt(x, y float64) (int, int) {
	tx := int(math.Floor(x / g.TileSize))
	ty := int(math.Floor(y / g.TileSize))
	if tx < 0 {
		tx = 0
	} else if tx >= g.Cols {
		tx = g.Cols - 1
	}
	if ty < 0 {
		ty = 0
	} else if ty >= g.Rows {
		ty = g.Rows - 1
	}
	return tx, ty
}

// OwnerAt returns the team owning the tile under a world position.
func (g *PaintGrid) OwnerAt(x, y float64) Team {
	tx, ty := g.TileAt(x, y)
	return g.cells[ty*g.Cols+tx]
}

// StampCircle paints every tile whose center lies within r of (x, y),
// overwriting whatever owned it before.
func (g *PaintGrid) StampCircle(x, y, r float64, team Team) {
	minTX, minTY, maxTX, maxTY := g.tileSpan(x, y, r)
	r2 := r * r
	for ty := minTY; ty <= maxTY; ty++ {
		for tx := minTX; tx <= maxTX; tx++ {
			dx := (float64(tx)+0.5)*g.TileSize - x
			dy := (float64(ty)+0.5)*g.TileSize - y
			if dx*dx+dy*dy <= r2 {
				g.set(ty*g.Cols+tx, team)
			}
		}
	}
}

// EraseCircle clears painted tiles whose centers lie within r of (x, y),
// scanning row-major and stopping as soon as maxTiles have been cleared.
// Returns the number actually cleared, which the caller charges ink for.
func (g *PaintGrid) EraseCircle(x, y, r float64, maxTiles int) int {
	if maxTiles <= 0 {
		return 0
	}
	minTX, minTY, maxTX, maxTY := g.tileSpan(x, y, r)
	r2 := r * r
	cleared := 0
	for ty := minTY; ty <= maxTY; ty++ {
		for tx := minTX; tx <= maxTX; tx++ {
			i := ty*g.Cols + tx
			if g.cells[i] == TeamNone {
				continue
			}
			dx := (float64(tx)+0.5)*g.TileSize - x
			dy := (float64(ty)+0.5)*g.TileSize - y
			if dx*dx+dy*dy > r2 {
				continue
			}
			g.set(i, TeamNone)
			cleared++
			if cleared >= maxTiles {
				return cleared
			}
		}
	}
	return cleared
}

// Coverage returns how many tiles red and blue currently own.
func (g *PaintGrid) Coverage() (red, blue int) {
	return g.owned[TeamRed], g.owned[TeamBlue]
}

// RowBytes copies the ownership grid out as one byte slice per row for
// snapshot encoding.
func (g *PaintGrid) RowBytes() [][]byte {
	rows := make([][]byte, g.Rows)
	for y := 0; y < g.Rows; y++ {
		row := make([]byte, g.Cols)
		for x := 0; x < g.Cols; x++ {
			row[x] = byte(g.cells[y*g.Cols+x])
		}
		rows[y] = row
	}
	return rows
}

// tileSpan returns the clipped tile bounding box of a circle. The box is
// empty (max < min) when the circle lies entirely off the grid.
func (g *PaintGrid) tileSpan(x, y, r float64) (minTX, minTY, maxTX, maxTY int) {
	span := int(math.Ceil(r / g.TileSize))
	ctx := int(math.Floor(x / g.TileSize))
	cty := int(math.Floor(y / g.TileSize))
	minTX = ctx - span
	minTY = cty - span
	maxTX = ctx + span
	maxTY = cty + span
	if minTX < 0 {
		minTX = 0
	}
	if minTY < 0 {
		minTY = 0
	}
	if maxTX > g.Cols-1 {
		maxTX = g.Cols - 1
	}
	if maxTY > g.Rows-1 {
		maxTY = g.Rows - 1
	}
	return
}

func (g *PaintGrid) set(i int, team Team) {
	old := g.cells[i]
	if old == team {
		return
	}
	g.owned[old]--
	g.owned[team]++
	g.cells[i] = team
}
