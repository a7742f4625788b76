package main

import "encoding/json"

// Client -> Server message types
const (
	MsgInput    = "input"
	MsgRegister = "register"
	MsgLogin    = "login"
	MsgAuth     = "auth"
	MsgProfile  = "profile"
)

// Server -> Client message types
const (
	MsgInit        = "init"
	MsgRoster      = "roster"
	MsgState       = "state"
	MsgKill        = "kill"
	MsgDeath       = "death"
	MsgError       = "error"
	MsgAuthOK      = "auth_ok"
	MsgProfileData = "profile_data"
)

// Death causes carried in kill and death messages.
const (
	CauseSplat = "splat" // shot down by a bullet
	CauseBurn  = "burn"  // dissolved standing in enemy ink
)

// Envelope wraps all outgoing control messages with a type field.
// State snapshots bypass it and go out as binary msgpack frames.
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// InputMsg carries control changes. Every field is optional; an absent
// field leaves the previous intent untouched, so clients send only what
// changed since their last message.
type InputMsg struct {
	Up    *bool    `json:"up,omitempty"`
	Down  *bool    `json:"down,omitempty"`
	Left  *bool    `json:"left,omitempty"`
	Right *bool    `json:"right,omitempty"`
	Fire  *bool    `json:"fire,omitempty"`
	Erase *bool    `json:"erase,omitempty"`
	Aim   *float64 `json:"aim,omitempty"`
}

// Binary input frame: [0x01, flags, aim_hi, aim_lo]. Aim is a signed
// big-endian int16 in milliradians. Flags carry the complete intent, so
// a binary frame overrides every field at once.
const (
	binInputMarker = 0x01
	binInputLen    = 4

	flagUp    = 0x01
	flagDown  = 0x02
	flagLeft  = 0x04
	flagRight = 0x08
	flagFire  = 0x10
	flagErase = 0x20
)

// InitMsg tells a fresh connection who it is and what the arena looks
// like. Everything in here is static for the life of the connection.
type InitMsg struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Role     uint8   `json:"role"`
	Team     uint8   `json:"team"`
	TickRate int     `json:"tick"`
	TileSize float64 `json:"tile"`
	Arena    Arena   `json:"arena"`
}

// RosterEntry is the public listing of one connection.
type RosterEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role uint8  `json:"role"`
	Team uint8  `json:"team"`
}

// PlayerSnap is one connection's slice of a snapshot. Spectators show up
// with their role and little else of interest.
type PlayerSnap struct {
	ID     string  `msgpack:"id"`
	Name   string  `msgpack:"n"`
	Role   uint8   `msgpack:"ro"`
	Team   uint8   `msgpack:"t"`
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
	Angle  float64 `msgpack:"r"`
	HP     float64 `msgpack:"hp"`
	Ink    float64 `msgpack:"ink"`
	Alive  bool    `msgpack:"a"`
	Kills  int     `msgpack:"k"`
	Deaths int     `msgpack:"d"`
}

// BulletSnap exposes a bullet's position and nothing else.
type BulletSnap struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
}

// Snapshot is the full authoritative state, broadcast every tick as one
// binary msgpack frame.
type Snapshot struct {
	Tick    uint64       `msgpack:"tick"`
	TS      int64        `msgpack:"ts"` // server time, unix ms
	Grid    [][]byte     `msgpack:"g"`
	Red     int          `msgpack:"cr"` // red tile count
	Blue    int          `msgpack:"cb"` // blue tile count
	Players []PlayerSnap `msgpack:"p"`
	Bullets []BulletSnap `msgpack:"b"`
}

// KillMsg is broadcast when a combatant dies. Killer fields stay empty
// when the arena floor did it.
type KillMsg struct {
	KillerID   string `json:"kid,omitempty"`
	KillerName string `json:"kn,omitempty"`
	VictimID   string `json:"vid"`
	VictimName string `json:"vn"`
	Cause      string `json:"cause"`
}

// DeathMsg notifies the victim directly.
type DeathMsg struct {
	KillerID   string  `json:"kid,omitempty"`
	KillerName string  `json:"kn,omitempty"`
	Cause      string  `json:"cause"`
	RespawnIn  float64 `json:"respawn_in"`
}

// StatusMsg is the /api/status payload.
type StatusMsg struct {
	Tick       uint64 `json:"tick"`
	Players    int    `json:"players"`
	Spectators int    `json:"spectators"`
	Red        int    `json:"red_tiles"`
	Blue       int    `json:"blue_tiles"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// RegisterMsg creates an account over the live connection.
type RegisterMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginMsg authenticates with username and password.
type LoginMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthMsg resumes a previous login with a stored token.
type AuthMsg struct {
	Token string `json:"token"`
}

// AuthOKMsg confirms any of the three auth paths.
type AuthOKMsg struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	PlayerID int64  `json:"pid"`
}

// ProfileDataMsg returns lifetime stats for the authenticated account.
type ProfileDataMsg struct {
	Username     string   `json:"username"`
	Kills        int      `json:"kills"`
	Deaths       int      `json:"deaths"`
	TilesPainted int      `json:"tiles_painted"`
	TilesErased  int      `json:"tiles_erased"`
	Playtime     float64  `json:"playtime"`
	Achievements []string `json:"achievements"`
}
