package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds everything the server reads at startup. Zero values are
// never used directly; start from DefaultConfig and overlay the yaml file.
type Config struct {
	Addr          string `yaml:"addr"`
	ClientDir     string `yaml:"client_dir"`
	DBPath        string `yaml:"db_path"`
	LogLevel      string `yaml:"log_level"`
	MaxConnsPerIP int    `yaml:"max_conns_per_ip"`
	MaxTotalConns int    `yaml:"max_total_conns"`
	Game          Tuning `yaml:"game"`
}

// Tuning is the full set of gameplay constants. The simulation never
// reaches for package-level globals; whoever owns a World hands one of
// these in, which is what lets tests run tiny arenas at odd tick rates.
type Tuning struct {
	TickRate    int     `yaml:"tick_rate"`
	ArenaWidth  float64 `yaml:"arena_width"`
	ArenaHeight float64 `yaml:"arena_height"`
	TileSize    float64 `yaml:"tile_size"`

	PlayerRadius float64 `yaml:"player_radius"`
	MoveSpeed    float64 `yaml:"move_speed"`
	MaxHP        float64 `yaml:"max_hp"`
	HPRegen      float64 `yaml:"hp_regen"`
	PaintDamage  float64 `yaml:"paint_damage"`
	RespawnDelay float64 `yaml:"respawn_delay"`

	MaxInk      float64 `yaml:"max_ink"`
	InkRegen    float64 `yaml:"ink_regen"`
	EraseCost   float64 `yaml:"erase_cost"`
	EraseRadius float64 `yaml:"erase_radius"`
	EraseReach  float64 `yaml:"erase_reach"`

	FireCooldown   float64 `yaml:"fire_cooldown"`
	MuzzleOffset   float64 `yaml:"muzzle_offset"`
	BulletSpeed    float64 `yaml:"bullet_speed"`
	BulletRadius   float64 `yaml:"bullet_radius"`
	BulletLifetime float64 `yaml:"bullet_lifetime"`
	BulletDamage   float64 `yaml:"bullet_damage"`
	BulletSubSteps int     `yaml:"bullet_sub_steps"`

	SplatRadiusHit     float64 `yaml:"splat_radius_hit"`
	SplatRadiusTimeout float64 `yaml:"splat_radius_timeout"`
	SplatRadiusWall    float64 `yaml:"splat_radius_wall"`
}

// TickDuration returns the fixed step in seconds.
func (t Tuning) TickDuration() float64 {
	return 1.0 / float64(t.TickRate)
}

func DefaultTuning() Tuning {
	return Tuning{
		TickRate:    30,
		ArenaWidth:  800,
		ArenaHeight: 600,
		TileSize:    20,

		PlayerRadius: 14,
		MoveSpeed:    180,
		MaxHP:        100,
		HPRegen:      2,
		PaintDamage:  10,
		RespawnDelay: 2.5,

		MaxInk:      100,
		InkRegen:    12,
		EraseCost:   2,
		EraseRadius: 28,
		EraseReach:  40,

		FireCooldown:   0.25,
		MuzzleOffset:   20,
		BulletSpeed:    420,
		BulletRadius:   4,
		BulletLifetime: 1.2,
		BulletDamage:   25,
		BulletSubSteps: 4,

		SplatRadiusHit:     18,
		SplatRadiusTimeout: 26,
		SplatRadiusWall:    34,
	}
}

func DefaultConfig() Config {
	return Config{
		Addr:          ":8080",
		ClientDir:     "./client",
		DBPath:        "./inkarena.db",
		LogLevel:      "info",
		MaxConnsPerIP: 5,
		MaxTotalConns: 64,
		Game:          DefaultTuning(),
	}
}

// LoadConfig reads the yaml file at path over the defaults. A missing
// file is not an error so the server runs out of the box; a malformed
// one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	g := c.Game
	if g.TickRate <= 0 {
		return fmt.Errorf("config: tick_rate must be positive, got %d", g.TickRate)
	}
	if g.TileSize <= 0 {
		return fmt.Errorf("config: tile_size must be positive, got %g", g.TileSize)
	}
	if g.ArenaWidth < g.TileSize || g.ArenaHeight < g.TileSize {
		return fmt.Errorf("config: arena %gx%g smaller than one tile", g.ArenaWidth, g.ArenaHeight)
	}
	if g.BulletSubSteps < 1 {
		return fmt.Errorf("config: bullet_sub_steps must be at least 1, got %d", g.BulletSubSteps)
	}
	if g.EraseCost <= 0 {
		return fmt.Errorf("config: erase_cost must be positive, got %g", g.EraseCost)
	}
	return nil
}
