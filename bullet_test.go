package main

import (
	"testing"
)

func TestSpawnBulletMuzzle(t *testing.T) {
	w := NewWorld(testTuning())
	p := NewPlayer("p1", "alpha", RolePlayer, TeamRed, w.Tuning)
	p.X, p.Y = 400, 300
	p.Angle = 0
	w.Players["p1"] = p

	b := w.SpawnBullet(p)

	if b.X != 420 || b.Y != 300 {
		t.Errorf("expected muzzle at (420, 300), got (%g, %g)", b.X, b.Y)
	}
	if b.VX != w.Tuning.BulletSpeed || b.VY != 0 {
		t.Errorf("expected velocity (%g, 0), got (%g, %g)", w.Tuning.BulletSpeed, b.VX, b.VY)
	}
	if b.Team != TeamRed || b.OwnerID != "p1" {
		t.Errorf("ownership mismatch: team=%v owner=%s", b.Team, b.OwnerID)
	}
	if b.Life != w.Tuning.BulletLifetime {
		t.Errorf("expected life %g, got %g", w.Tuning.BulletLifetime, b.Life)
	}
	if len(w.Bullets) != 1 {
		t.Errorf("expected bullet registered in world, len=%d", len(w.Bullets))
	}
}

func TestBulletTimeoutSplat(t *testing.T) {
	tun := testTuning()
	tun.BulletLifetime = 0.5
	w := NewWorld(tun)
	p := NewPlayer("p1", "alpha", RolePlayer, TeamRed, tun)
	p.X, p.Y = 250, 420
	w.Players["p1"] = p
	w.SpawnBullet(p)

	// Life 0.5 at dt 1/32 expires on the 16th tick, after 15 ticks of
	// travel: 270 + 15*420/32 = 466.875 down an open lane.
	dt := tun.TickDuration()
	for i := 0; i < 15; i++ {
		if events := w.StepBullets(dt); len(events) != 0 {
			t.Fatalf("tick %d: unexpected hit", i)
		}
	}
	if len(w.Bullets) != 1 {
		t.Fatal("bullet expired early")
	}
	w.StepBullets(dt)
	if len(w.Bullets) != 0 {
		t.Fatal("bullet should be gone after its lifetime")
	}

	// Exactly one timeout-sized splat at the final position.
	want := 0
	for ty := 0; ty < w.Paint.Rows; ty++ {
		for tx := 0; tx < w.Paint.Cols; tx++ {
			dx := float64(tx)*20 + 10 - 466.875
			dy := float64(ty)*20 + 10 - 420
			if dx*dx+dy*dy <= tun.SplatRadiusTimeout*tun.SplatRadiusTimeout {
				want++
			}
		}
	}
	red, _ := w.Paint.Coverage()
	if red != want {
		t.Errorf("expected %d painted tiles, got %d", want, red)
	}
	if p.TilesPainted != want {
		t.Errorf("expected shooter credited %d, got %d", want, p.TilesPainted)
	}
}

func TestBulletWallSplat(t *testing.T) {
	w := NewWorld(testTuning())
	p := NewPlayer("p1", "alpha", RolePlayer, TeamRed, w.Tuning)
	p.X, p.Y = 300, 300
	w.Players["p1"] = p
	w.SpawnBullet(p)

	dt := w.Tuning.TickDuration()
	for i := 0; i < 5 && len(w.Bullets) > 0; i++ {
		if events := w.StepBullets(dt); len(events) != 0 {
			t.Fatal("wall impact is not a hit event")
		}
	}
	if len(w.Bullets) != 0 {
		t.Fatal("bullet should have burst on the center wall")
	}

	// Wall-sized splat lands on the near face and reaches under the
	// wall itself.
	if got := w.Paint.OwnerAt(350, 300); got != TeamRed {
		t.Errorf("expected paint in front of the wall, got %v", got)
	}
	if got := w.Paint.OwnerAt(370, 300); got != TeamRed {
		t.Errorf("expected paint under the wall edge, got %v", got)
	}
	if got := w.Paint.OwnerAt(300, 300); got != TeamNone {
		t.Errorf("splat reached back to the muzzle, got %v", got)
	}
}

func TestBulletHitDamages(t *testing.T) {
	w := NewWorld(testTuning())
	red := NewPlayer("r", "alpha", RolePlayer, TeamRed, w.Tuning)
	red.X, red.Y = 400, 100
	blue := NewPlayer("b", "beta", RolePlayer, TeamBlue, w.Tuning)
	blue.X, blue.Y = 460, 100
	w.Players["r"] = red
	w.Players["b"] = blue
	w.SpawnBullet(red)

	dt := w.Tuning.TickDuration()
	if events := w.StepBullets(dt); len(events) != 0 {
		t.Fatal("hit registered before the bullet arrived")
	}
	events := w.StepBullets(dt)
	if len(events) != 1 {
		t.Fatalf("expected 1 hit event, got %d", len(events))
	}

	ev := events[0]
	if ev.OwnerID != "r" || ev.VictimID != "b" || ev.Died {
		t.Errorf("unexpected event %+v", ev)
	}
	if blue.HP != 75 {
		t.Errorf("expected 75 hp, got %g", blue.HP)
	}
	if len(w.Bullets) != 0 {
		t.Error("bullet should burst on impact")
	}
	if red2, _ := w.Paint.Coverage(); red2 == 0 {
		t.Error("hit should leave a splat")
	}
}

func TestBulletHitKills(t *testing.T) {
	w := NewWorld(testTuning())
	red := NewPlayer("r", "alpha", RolePlayer, TeamRed, w.Tuning)
	red.X, red.Y = 400, 100
	blue := NewPlayer("b", "beta", RolePlayer, TeamBlue, w.Tuning)
	blue.X, blue.Y = 460, 100
	blue.HP = 20
	w.Players["r"] = red
	w.Players["b"] = blue
	w.SpawnBullet(red)

	dt := w.Tuning.TickDuration()
	var events []HitEvent
	for i := 0; i < 4 && len(events) == 0; i++ {
		events = w.StepBullets(dt)
	}
	if len(events) != 1 || !events[0].Died {
		t.Fatalf("expected a lethal hit, got %+v", events)
	}
	if blue.Alive {
		t.Error("victim should be dead")
	}
	if blue.RespawnT != w.Tuning.RespawnDelay {
		t.Errorf("expected respawn timer armed to %g, got %g", w.Tuning.RespawnDelay, blue.RespawnT)
	}
	if blue.Deaths != 1 {
		t.Errorf("expected 1 death, got %d", blue.Deaths)
	}
}

func TestBulletIgnoresTeammates(t *testing.T) {
	w := NewWorld(testTuning())
	red := NewPlayer("r", "alpha", RolePlayer, TeamRed, w.Tuning)
	red.X, red.Y = 400, 100
	mate := NewPlayer("m", "gamma", RolePlayer, TeamRed, w.Tuning)
	mate.X, mate.Y = 460, 100
	w.Players["r"] = red
	w.Players["m"] = mate
	w.SpawnBullet(red)

	dt := w.Tuning.TickDuration()
	for i := 0; i < 3; i++ {
		if events := w.StepBullets(dt); len(events) != 0 {
			t.Fatal("bullet hit a teammate")
		}
	}
	if mate.HP != w.Tuning.MaxHP {
		t.Errorf("teammate took damage, hp=%g", mate.HP)
	}
	if len(w.Bullets) != 1 {
		t.Error("bullet should fly through teammates")
	}
}

func TestBulletIgnoresDead(t *testing.T) {
	w := NewWorld(testTuning())
	red := NewPlayer("r", "alpha", RolePlayer, TeamRed, w.Tuning)
	red.X, red.Y = 400, 100
	blue := NewPlayer("b", "beta", RolePlayer, TeamBlue, w.Tuning)
	blue.X, blue.Y = 460, 100
	blue.Alive = false
	w.Players["r"] = red
	w.Players["b"] = blue
	w.SpawnBullet(red)

	dt := w.Tuning.TickDuration()
	for i := 0; i < 3; i++ {
		if events := w.StepBullets(dt); len(events) != 0 {
			t.Fatal("bullet hit a corpse")
		}
	}
	if len(w.Bullets) != 1 {
		t.Error("bullet should pass through the dead")
	}
}

func TestBulletFastNoTunnel(t *testing.T) {
	tun := testTuning()
	tun.BulletSpeed = 3200
	w := NewWorld(tun)
	p := NewPlayer("p1", "alpha", RolePlayer, TeamRed, tun)
	p.X, p.Y = 300, 300
	w.Players["p1"] = p
	w.SpawnBullet(p)

	// One tick covers 100 px, more than the wall is thick. Sub-steps
	// still catch the wall on the near side.
	w.StepBullets(tun.TickDuration())

	if len(w.Bullets) != 0 {
		t.Fatal("bullet crossed the wall without bursting")
	}
	if got := w.Paint.OwnerAt(370, 300); got != TeamRed {
		t.Errorf("expected splat at the wall, got %v", got)
	}
	if got := w.Paint.OwnerAt(500, 300); got != TeamNone {
		t.Errorf("paint landed beyond the wall at %v", got)
	}
}

func TestStepBulletsCompaction(t *testing.T) {
	w := NewWorld(testTuning())
	p := NewPlayer("p1", "alpha", RolePlayer, TeamRed, w.Tuning)
	p.X, p.Y = 250, 420
	w.Players["p1"] = p

	dt := w.Tuning.TickDuration()
	for i := 1; i <= 3; i++ {
		b := w.SpawnBullet(p)
		b.Life = float64(i) * dt
	}

	for want := 2; want >= 0; want-- {
		w.StepBullets(dt)
		if len(w.Bullets) != want {
			t.Fatalf("expected %d bullets, got %d", want, len(w.Bullets))
		}
	}
}

func TestBulletOwnerDisconnected(t *testing.T) {
	w := NewWorld(testTuning())
	p := NewPlayer("p1", "alpha", RolePlayer, TeamRed, w.Tuning)
	p.X, p.Y = 250, 420
	w.Players["p1"] = p
	b := w.SpawnBullet(p)
	b.Life = w.Tuning.TickDuration()

	// Shooter leaves while the bullet is in flight.
	delete(w.Players, "p1")
	w.StepBullets(w.Tuning.TickDuration())

	if len(w.Bullets) != 0 {
		t.Error("bullet should still terminate")
	}
	if red, _ := w.Paint.Coverage(); red == 0 {
		t.Error("orphaned bullet should still paint")
	}
}
