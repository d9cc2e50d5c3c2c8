package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, float32(60), cfg.Render.FrameLimit)
	assert.Equal(t, [4]float32{0.7, 0.7, 1.0, 1.0}, cfg.Render.ClearColor)
	assert.Equal(t, float32(5), cfg.Camera.Distance)
	assert.Equal(t, float32(1), cfg.Camera.MinDistance)
	assert.Equal(t, float32(0.1), cfg.Projection.Near)
	assert.Equal(t, float32(20), cfg.Projection.Far)
	assert.InDelta(t, 1.0/60, cfg.Render.FrameBudget(), 1e-7)
}

func TestDecodeLayersOverDefaults(t *testing.T) {
	cfg, err := config.Decode(strings.NewReader(`
window:
  width: 1024
camera:
  distance: 8
scene:
  floor_tiles: 4
logging:
  level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, float32(8), cfg.Camera.Distance)
	assert.Equal(t, 4, cfg.Scene.FloorTiles)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "models/olympic_rings.glb", cfg.Assets.Rings)
}

func TestDecodeEmptyDocument(t *testing.T) {
	cfg, err := config.Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := config.Decode(strings.NewReader("window:\n  colour: red\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero width", func(c *config.Config) { c.Window.Width = 0 }},
		{"negative height", func(c *config.Config) { c.Window.Height = -1 }},
		{"zero fps", func(c *config.Config) { c.Render.FrameLimit = 0 }},
		{"near equals far", func(c *config.Config) { c.Projection.Near = 20 }},
		{"near beyond far", func(c *config.Config) { c.Projection.Far = 0.05 }},
		{"zero near", func(c *config.Config) { c.Projection.Near = 0 }},
		{"zero min distance", func(c *config.Config) { c.Camera.MinDistance = 0 }},
		{"distance below min", func(c *config.Config) { c.Camera.Distance = 0.5 }},
		{"flat fovy", func(c *config.Config) { c.Projection.Fovy = 180 }},
		{"negative tiles", func(c *config.Config) { c.Scene.FloorTiles = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidConfig)
		})
	}
}

func TestLoadFile(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	path := filepath.Join(t.TempDir(), "oxy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("projection:\n  near: 1\n  far: 0.5\n"), 0o600))
	_, err = config.Load(path)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.ErrorContains(t, err, path)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	assert.Equal(t, filepath.Join("assets", "models", "logo.stl"), cfg.Assets.Path("models/logo.stl"))
}
