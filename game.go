package main

import (
	"log/slog"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Broadcaster is what the game needs from a connection: JSON for control
// messages, binary for snapshots.
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Game drives the fixed-step loop and owns the World. Every touch of
// the world, including intent merges arriving from read pumps, goes
// through g.mu, so the tick sees a frozen set of intents.
type Game struct {
	mu      sync.RWMutex
	world   *World
	clients map[string]Broadcaster
	tick    uint64
	running bool
	stop    chan struct{}

	analytics *Analytics // may be nil
}

// NewGame creates a stopped game around a fresh world.
func NewGame(t Tuning, analytics *Analytics) *Game {
	return &Game{
		world:     NewWorld(t),
		clients:   make(map[string]Broadcaster),
		stop:      make(chan struct{}),
		analytics: analytics,
	}
}

// Run starts the tick loop and blocks until Stop. Ticks the host cannot
// keep up with are dropped, not replayed later.
func (g *Game) Run() {
	g.mu.Lock()
	g.running = true
	tickDur := time.Duration(float64(time.Second) / float64(g.world.Tuning.TickRate))
	g.mu.Unlock()

	ticker := time.NewTicker(tickDur)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.update()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.running = false
		close(g.stop)
	}
}

// AddConnection admits a connection: first free team slot, red before
// blue, otherwise spectator. The newcomer gets an init message and
// everyone gets the updated roster.
func (g *Game) AddConnection(id, name string, authID int64, b Broadcaster) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	role, team := AssignSlot(g.world.Players)
	p := NewPlayer(id, name, role, team, g.world.Tuning)
	p.AuthID = authID
	if role == RolePlayer {
		p.X, p.Y = g.world.SpawnPoint(team)
	}
	g.world.Players[id] = p
	g.clients[id] = b

	b.SendJSON(Envelope{T: MsgInit, Data: InitMsg{
		ID:       id,
		Name:     name,
		Role:     uint8(role),
		Team:     uint8(team),
		TickRate: g.world.Tuning.TickRate,
		TileSize: g.world.Tuning.TileSize,
		Arena:    g.world.Arena,
	}})
	g.broadcastRoster()

	slog.Info("joined", "id", id, "name", name, "role", role.String(), "team", team.String())
	return p
}

// RemoveConnection drops a connection immediately. The freed team slot
// goes to whoever connects next, never to a waiting spectator. Bullets
// the player already fired keep flying. Returns the removed player so
// the caller can flush lifetime stats.
func (g *Game) RemoveConnection(id string) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.world.Players[id]
	if !ok {
		return nil
	}
	delete(g.world.Players, id)
	delete(g.clients, id)
	g.broadcastRoster()

	slog.Info("left", "id", id, "name", p.Name, "kills", p.Kills, "deaths", p.Deaths)
	return p
}

// SetIdentity binds an authenticated account to a connection's player
// and puts the account name on the roster.
func (g *Game) SetIdentity(id string, authID int64, username string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.world.Players[id]
	if !ok {
		return
	}
	p.AuthID = authID
	p.Name = username
	g.broadcastRoster()
}

// HandleInput merges an input message into a player's intent. Input
// from spectators and from ids already removed is dropped.
func (g *Game) HandleInput(id string, in InputMsg) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.world.Players[id]
	if !ok || p.Role != RolePlayer {
		return
	}
	p.ApplyInput(in)
}

// Status reports live game facts for the HTTP API.
func (g *Game) Status() StatusMsg {
	g.mu.RLock()
	defer g.mu.RUnlock()

	red, blue := g.world.Paint.Coverage()
	s := StatusMsg{Tick: g.tick, Red: red, Blue: blue}
	for _, p := range g.world.Players {
		if p.Role == RolePlayer {
			s.Players++
		} else {
			s.Spectators++
		}
	}
	return s
}

// update runs one tick: players in join order, then bullets, then one
// snapshot broadcast.
func (g *Game) update() {
	g.mu.Lock()
	defer g.mu.Unlock()

	dt := g.world.Tuning.TickDuration()
	g.tick++

	for _, p := range g.world.playersInJoinOrder() {
		wasAlive := p.Alive
		g.world.StepPlayer(p, dt)
		if wasAlive && !p.Alive {
			g.announceDeath(p, nil, CauseBurn)
		}
	}

	for _, hit := range g.world.StepBullets(dt) {
		if !hit.Died {
			continue
		}
		victim, ok := g.world.Players[hit.VictimID]
		if !ok {
			continue
		}
		killer := g.world.Players[hit.OwnerID]
		if killer != nil {
			killer.Kills++
		}
		g.announceDeath(victim, killer, CauseSplat)
	}

	g.broadcastState()
}

// announceDeath tells everyone about a death and the victim who got
// them. killer is nil when the arena floor did it.
func (g *Game) announceDeath(victim *Player, killer *Player, cause string) {
	kill := KillMsg{VictimID: victim.ID, VictimName: victim.Name, Cause: cause}
	death := DeathMsg{Cause: cause, RespawnIn: victim.RespawnT}
	if killer != nil {
		kill.KillerID = killer.ID
		kill.KillerName = killer.Name
		death.KillerID = killer.ID
		death.KillerName = killer.Name
	}
	g.broadcastMsg(Envelope{T: MsgKill, Data: kill})
	if c, ok := g.clients[victim.ID]; ok {
		c.SendJSON(Envelope{T: MsgDeath, Data: death})
	}

	if g.analytics != nil {
		g.analytics.Track(EvtPlayerDeath, victim.AuthID, victim.ID, "")
		if killer != nil {
			g.analytics.Track(EvtPlayerKill, killer.AuthID, killer.ID, "")
		}
	}
}

// broadcastState marshals the snapshot once and fans the same bytes out
// to every connection.
func (g *Game) broadcastState() {
	snap := Snapshot{
		Tick: g.tick,
		TS:   time.Now().UnixMilli(),
		Grid: g.world.Paint.RowBytes(),
	}
	snap.Red, snap.Blue = g.world.Paint.Coverage()
	for _, p := range g.world.playersInJoinOrder() {
		snap.Players = append(snap.Players, p.ToSnap())
	}
	for _, b := range g.world.Bullets {
		snap.Bullets = append(snap.Bullets, b.ToSnap())
	}

	data, err := msgpack.Marshal(snap)
	if err != nil {
		slog.Error("snapshot marshal", "err", err)
		return
	}
	for _, c := range g.clients {
		c.SendBinary(data)
	}
}

func (g *Game) broadcastRoster() {
	g.broadcastMsg(Envelope{T: MsgRoster, Data: g.world.Roster()})
}

// broadcastMsg sends a control message to every connection.
func (g *Game) broadcastMsg(msg Envelope) {
	for _, c := range g.clients {
		c.SendJSON(msg)
	}
}
