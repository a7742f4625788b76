package main

import (
	"math"
	"time"
)

// Role separates combatants from spectators. Spectators receive every
// broadcast but have no body in the simulation.
type Role uint8

const (
	RoleSpectator Role = iota
	RolePlayer
)

func (r Role) String() string {
	if r == RolePlayer {
		return "player"
	}
	return "spectator"
}

// Intent is the latest requested controls for a player. Fields persist
// between input messages until a later message overrides them.
type Intent struct {
	Up, Down, Left, Right bool
	Fire                  bool
	Erase                 bool
	Aim                   float64
}

// moveVector converts the held direction keys to a unit vector, y down.
func (in Intent) moveVector() (dx, dy float64) {
	if in.Left {
		dx--
	}
	if in.Right {
		dx++
	}
	if in.Up {
		dy--
	}
	if in.Down {
		dy++
	}
	if dx != 0 && dy != 0 {
		dx *= math.Sqrt2 / 2
		dy *= math.Sqrt2 / 2
	}
	return dx, dy
}

// Player represents one connection's presence in the world.
type Player struct {
	ID       string
	Name     string
	Role     Role
	Team     Team
	X, Y     float64
	Angle    float64
	HP       float64
	Ink      float64
	Alive    bool
	FireCD   float64 // fire cooldown remaining
	RespawnT float64 // respawn timer remaining
	Intent   Intent

	JoinedAt     time.Time
	AuthID       int64 // 0 = guest
	Kills        int
	Deaths       int
	TilesPainted int
	TilesErased  int
}

// NewPlayer creates a roster entry. The caller places combatants at
// their spawn; spectators never get a position.
func NewPlayer(id, name string, role Role, team Team, t Tuning) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Role:     role,
		Team:     team,
		HP:       t.MaxHP,
		Ink:      t.MaxInk,
		Alive:    role == RolePlayer,
		JoinedAt: time.Now(),
	}
}

// ApplyInput merges an input message field by field. Absent fields keep
// their previous value.
func (p *Player) ApplyInput(in InputMsg) {
	if in.Up != nil {
		p.Intent.Up = *in.Up
	}
	if in.Down != nil {
		p.Intent.Down = *in.Down
	}
	if in.Left != nil {
		p.Intent.Left = *in.Left
	}
	if in.Right != nil {
		p.Intent.Right = *in.Right
	}
	if in.Fire != nil {
		p.Intent.Fire = *in.Fire
	}
	if in.Erase != nil {
		p.Intent.Erase = *in.Erase
	}
	if in.Aim != nil {
		p.Intent.Aim = *in.Aim
	}
}

// StepPlayer advances one player by dt. Spectators are skipped entirely.
func (w *World) StepPlayer(p *Player, dt float64) {
	if p.Role != RolePlayer {
		return
	}
	t := w.Tuning

	if !p.Alive {
		p.RespawnT -= dt
		if p.RespawnT <= 0 {
			w.respawn(p)
		}
		return
	}

	// Movement resolves one axis at a time so a blocked diagonal
	// slides along the wall instead of sticking.
	dx, dy := p.Intent.moveVector()
	if dx != 0 || dy != 0 {
		step := t.MoveSpeed * dt
		nx := p.X + dx*step
		if w.Arena.Collides(nx, p.Y, t.PlayerRadius) {
			nx = slideTo(p.X, nx, func(v float64) bool {
				return w.Arena.Collides(v, p.Y, t.PlayerRadius)
			})
		}
		p.X = nx
		ny := p.Y + dy*step
		if w.Arena.Collides(p.X, ny, t.PlayerRadius) {
			ny = slideTo(p.Y, ny, func(v float64) bool {
				return w.Arena.Collides(p.X, v, t.PlayerRadius)
			})
		}
		p.Y = ny
	}

	p.Angle = p.Intent.Aim

	p.HP = Clamp(p.HP+t.HPRegen*dt, 0, t.MaxHP)
	p.Ink = Clamp(p.Ink+t.InkRegen*dt, 0, t.MaxInk)

	// Standing on enemy paint burns.
	if w.Paint.OwnerAt(p.X, p.Y) == Opponent(p.Team) {
		w.Damage(p, t.PaintDamage*dt)
	}

	if p.FireCD > 0 {
		p.FireCD -= dt
		if p.FireCD < 0 {
			p.FireCD = 0
		}
	}
	if p.Intent.Fire && p.Alive && p.FireCD <= 0 {
		p.FireCD = t.FireCooldown
		w.SpawnBullet(p)
	}

	// Erasing scrubs a spot at arm's reach along the aim direction,
	// budgeted by remaining ink.
	if p.Intent.Erase && p.Alive && p.Ink > 0 {
		budget := int(p.Ink / t.EraseCost)
		if budget > 0 {
			ex := p.X + math.Cos(p.Angle)*t.EraseReach
			ey := p.Y + math.Sin(p.Angle)*t.EraseReach
			cleared := w.Paint.EraseCircle(ex, ey, t.EraseRadius, budget)
			if cleared > 0 {
				p.Ink = Clamp(p.Ink-float64(cleared)*t.EraseCost, 0, t.MaxInk)
				p.TilesErased += cleared
			}
		}
	}
}

// respawn returns a dead player to their team spawn at full strength.
// Held intent survives death, so a held key moves them immediately.
func (w *World) respawn(p *Player) {
	p.X, p.Y = w.SpawnPoint(p.Team)
	p.HP = w.Tuning.MaxHP
	p.Ink = w.Tuning.MaxInk
	p.Alive = true
	p.FireCD = 0
	p.RespawnT = 0
}

// ToSnap converts to the snapshot wire form.
func (p *Player) ToSnap() PlayerSnap {
	return PlayerSnap{
		ID:     p.ID,
		Name:   p.Name,
		Role:   uint8(p.Role),
		Team:   uint8(p.Team),
		X:      p.X,
		Y:      p.Y,
		Angle:  p.Angle,
		HP:     p.HP,
		Ink:    p.Ink,
		Alive:  p.Alive,
		Kills:  p.Kills,
		Deaths: p.Deaths,
	}
}
