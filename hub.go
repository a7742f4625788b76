package main

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Hub owns the single game world and tracks every connected client.
// Register and unregister flow through channels so admission order, and
// with it team slot assignment, is serialized in one goroutine.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	game       *Game

	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu        sync.Mutex
	ipConns       map[string]int
	totalConns    int
	maxConnsPerIP int
	maxTotalConns int

	// Persistence, all optional: the server runs fine with a nil db
	db        *DB
	auth      *Auth
	analytics *Analytics
}

// NewHub creates a new Hub around one game world. db may be nil, which
// disables accounts, stats and analytics.
func NewHub(db *DB, cfg Config) *Hub {
	h := &Hub{
		clients:       make(map[*Client]bool),
		register:      make(chan *Client, 64),
		unregister:    make(chan *Client, 64),
		ipConns:       make(map[string]int),
		maxConnsPerIP: cfg.MaxConnsPerIP,
		maxTotalConns: cfg.MaxTotalConns,
		db:            db,
	}
	if db != nil {
		h.auth = NewAuth(db)
		h.analytics = NewAnalytics(db)
	}
	h.game = NewGame(cfg.Game, h.analytics)
	return h
}

// Game returns the hub's game, mainly for tests.
func (h *Hub) Game() *Game {
	return h.game
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= h.maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= h.maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Run processes register/unregister events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

			h.game.AddConnection(client.playerID, GenerateGuestName(), client.authPlayerID, client)
			if h.analytics != nil {
				h.analytics.Track(EvtSessionStart, client.authPlayerID, client.playerID, "")
				h.analytics.SetConcurrentPeers(h.ClientCount())
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

			if p := h.game.RemoveConnection(client.playerID); p != nil {
				h.flushStats(p)
			}
			if h.analytics != nil {
				h.analytics.SetConcurrentPeers(h.ClientCount())
			}
		}
	}
}

// flushStats folds a finished session into the account's lifetime stats
// and checks for newly earned achievements. Guests leave no rows behind.
func (h *Hub) flushStats(p *Player) {
	if h.analytics != nil {
		h.analytics.Track(EvtSessionEnd, p.AuthID, p.ID, "")
	}
	if h.db == nil || p.AuthID == 0 || p.Role != RolePlayer {
		return
	}
	playtime := time.Since(p.JoinedAt).Seconds()
	if err := h.db.ApplySessionStats(p.AuthID, int(p.Team), p.Kills, p.Deaths, p.TilesPainted, p.TilesErased, playtime); err != nil {
		slog.Error("flush stats", "pid", p.AuthID, "err", err)
		return
	}
	for _, a := range CheckAchievements(h.db, p.AuthID) {
		slog.Info("achievement unlocked", "pid", p.AuthID, "achievement", a.ID)
		if h.analytics != nil {
			h.analytics.Track(EvtAchievement, p.AuthID, p.ID, fmt.Sprintf(`{"id":%q}`, a.ID))
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
