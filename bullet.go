package main

import "math"

// Bullet is a short-lived blob of flying ink. Only the World's active
// list holds one; once terminated it is dropped, never reused.
type Bullet struct {
	X, Y    float64
	VX, VY  float64
	Team    Team
	OwnerID string
	Life    float64
}

// HitEvent records a bullet striking a player during a tick.
type HitEvent struct {
	OwnerID  string
	VictimID string
	Died     bool
}

// SpawnBullet fires a bullet from a player's muzzle along their aim.
func (w *World) SpawnBullet(p *Player) *Bullet {
	t := w.Tuning
	b := &Bullet{
		X:       p.X + math.Cos(p.Angle)*t.MuzzleOffset,
		Y:       p.Y + math.Sin(p.Angle)*t.MuzzleOffset,
		VX:      math.Cos(p.Angle) * t.BulletSpeed,
		VY:      math.Sin(p.Angle) * t.BulletSpeed,
		Team:    p.Team,
		OwnerID: p.ID,
		Life:    t.BulletLifetime,
	}
	w.Bullets = append(w.Bullets, b)
	return b
}

// StepBullets advances every bullet and returns the hits scored this
// tick. Terminated bullets are compacted out of the list in place.
func (w *World) StepBullets(dt float64) []HitEvent {
	var events []HitEvent
	alive := w.Bullets[:0]
	for _, b := range w.Bullets {
		if w.stepBullet(b, dt, &events) {
			alive = append(alive, b)
		}
	}
	for i := len(alive); i < len(w.Bullets); i++ {
		w.Bullets[i] = nil
	}
	w.Bullets = alive
	return events
}

// stepBullet advances one bullet, splitting the tick into sub-steps so a
// fast bullet cannot cross a wall or a player between checks. Returns
// false once the bullet terminates; every termination stamps exactly one
// splat, sized by how the bullet died.
func (w *World) stepBullet(b *Bullet, dt float64, events *[]HitEvent) bool {
	t := w.Tuning
	b.Life -= dt
	if b.Life <= 0 {
		w.splat(b.X, b.Y, t.SplatRadiusTimeout, b.Team, b.OwnerID)
		return false
	}
	sdt := dt / float64(t.BulletSubSteps)
	for i := 0; i < t.BulletSubSteps; i++ {
		b.X += b.VX * sdt
		b.Y += b.VY * sdt
		if w.Arena.Collides(b.X, b.Y, t.BulletRadius) {
			w.splat(b.X, b.Y, t.SplatRadiusWall, b.Team, b.OwnerID)
			return false
		}
		if p := w.hitPlayer(b); p != nil {
			died := w.Damage(p, t.BulletDamage)
			w.splat(b.X, b.Y, t.SplatRadiusHit, b.Team, b.OwnerID)
			*events = append(*events, HitEvent{OwnerID: b.OwnerID, VictimID: p.ID, Died: died})
			return false
		}
	}
	return true
}

// hitPlayer returns the living enemy combatant the bullet overlaps, or
// nil. With one combatant per team there is at most one candidate.
func (w *World) hitPlayer(b *Bullet) *Player {
	rr := w.Tuning.PlayerRadius + w.Tuning.BulletRadius
	for _, p := range w.Players {
		if !p.Alive || p.Role != RolePlayer || p.Team == b.Team {
			continue
		}
		dx := p.X - b.X
		dy := p.Y - b.Y
		if dx*dx+dy*dy <= rr*rr {
			return p
		}
	}
	return nil
}

// ToSnap converts to the snapshot wire form. Clients only ever see
// positions.
func (b *Bullet) ToSnap() BulletSnap {
	return BulletSnap{X: b.X, Y: b.Y}
}
