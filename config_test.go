package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 30, cfg.Game.TickRate)
	assert.Equal(t, float64(800), cfg.Game.ArenaWidth)
	assert.Equal(t, float64(600), cfg.Game.ArenaHeight)
	assert.Equal(t, 5, cfg.MaxConnsPerIP)
}

func TestTickDuration(t *testing.T) {
	tun := DefaultTuning()
	tun.TickRate = 32
	assert.Equal(t, 0.03125, tun.TickDuration())
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
addr: ":9999"
db_path: "/tmp/test.db"
game:
  tick_rate: 60
  paint_damage: 25
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// Overridden keys take effect.
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, 60, cfg.Game.TickRate)
	assert.Equal(t, float64(25), cfg.Game.PaintDamage)

	// Untouched keys keep their defaults.
	assert.Equal(t, "./client", cfg.ClientDir)
	assert.Equal(t, float64(800), cfg.Game.ArenaWidth)
	assert.Equal(t, 0.25, cfg.Game.FireCooldown)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: [unclosed"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero tick rate", "game:\n  tick_rate: 0"},
		{"negative tile size", "game:\n  tile_size: -5"},
		{"arena smaller than a tile", "game:\n  arena_width: 10\n  arena_height: 10"},
		{"zero sub steps", "game:\n  bullet_sub_steps: 0"},
		{"zero erase cost", "game:\n  erase_cost: 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			_, err := LoadConfig(path)
			assert.Error(t, err, "expected validation to reject %s", tt.name)
		})
	}
}
