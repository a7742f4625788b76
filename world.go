package main

import (
	"sort"
)

// Wall is an axis-aligned impassable block.
type Wall struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Arena is the static collision geometry: the outer bounds plus walls.
// It never changes after startup.
type Arena struct {
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
	Walls  []Wall  `json:"walls"`
}

// Collides reports whether a circle at (x, y) with radius r crosses the
// outer boundary or intersects a wall. The boundary behaves like a wall.
func (a Arena) Collides(x, y, r float64) bool {
	if x-r < 0 || y-r < 0 || x+r > a.Width || y+r > a.Height {
		return true
	}
	for _, w := range a.Walls {
		if CircleOverlapsRect(x, y, r, w.X, w.Y, w.W, w.H) {
			return true
		}
	}
	return false
}

// referenceWalls is the wall layout for an 800x600 arena, mirrored left
// to right so neither team gets better cover.
var referenceWalls = []Wall{
	{360, 240, 80, 120},
	{160, 100, 40, 160},
	{600, 100, 40, 160},
	{160, 340, 40, 160},
	{600, 340, 40, 160},
}

// ArenaFor scales the reference layout to the configured arena size.
func ArenaFor(t Tuning) Arena {
	sx := t.ArenaWidth / 800
	sy := t.ArenaHeight / 600
	walls := make([]Wall, len(referenceWalls))
	for i, w := range referenceWalls {
		walls[i] = Wall{X: w.X * sx, Y: w.Y * sy, W: w.W * sx, H: w.H * sy}
	}
	return Arena{Width: t.ArenaWidth, Height: t.ArenaHeight, Walls: walls}
}

// World is the complete simulation state. The Game owns exactly one and
// holds its lock across every read or write; nothing in here locks.
type World struct {
	Tuning  Tuning
	Arena   Arena
	Paint   *PaintGrid
	Players map[string]*Player
	Bullets []*Bullet
}

func NewWorld(t Tuning) *World {
	return &World{
		Tuning:  t,
		Arena:   ArenaFor(t),
		Paint:   NewPaintGrid(t.ArenaWidth, t.ArenaHeight, t.TileSize),
		Players: make(map[string]*Player),
	}
}

// SpawnPoint returns the fixed spawn for a team, red on the west side,
// blue on the east, both on the horizontal midline.
func (w *World) SpawnPoint(team Team) (float64, float64) {
	margin := w.Tuning.ArenaWidth * 0.075
	y := w.Tuning.ArenaHeight / 2
	if team == TeamBlue {
		return w.Tuning.ArenaWidth - margin, y
	}
	return margin, y
}

// Damage applies amount to a living player and reports whether it killed
// them. Dead players take no further damage. Death flips Alive and arms
// the respawn timer in the same call.
func (w *World) Damage(p *Player, amount float64) bool {
	if !p.Alive {
		return false
	}
	p.HP -= amount
	if p.HP > 0 {
		return false
	}
	p.HP = 0
	p.Alive = false
	p.RespawnT = w.Tuning.RespawnDelay
	p.Deaths++
	return true
}

// splat stamps a bullet burst onto the grid and credits the shooter with
// the tiles their team gained. The shooter may already have disconnected
// while the bullet was in flight, in which case the paint still lands.
func (w *World) splat(x, y, r float64, team Team, ownerID string) {
	redBefore, blueBefore := w.Paint.Coverage()
	w.Paint.StampCircle(x, y, r, team)
	redAfter, blueAfter := w.Paint.Coverage()
	gained := 0
	switch team {
	case TeamRed:
		gained = redAfter - redBefore
	case TeamBlue:
		gained = blueAfter - blueBefore
	}
	if p, ok := w.Players[ownerID]; ok {
		p.TilesPainted += gained
	}
}

// playersInJoinOrder returns players sorted by join time, oldest first,
// so per-tick iteration and roster listings are stable.
func (w *World) playersInJoinOrder() []*Player {
	list := make([]*Player, 0, len(w.Players))
	for _, p := range w.Players {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].JoinedAt.Equal(list[j].JoinedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].JoinedAt.Before(list[j].JoinedAt)
	})
	return list
}
