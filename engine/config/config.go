// Package config loads the YAML settings of a renderer run. Values in the file are layered over
// Default, and unknown keys are rejected.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds every tunable of the renderer, grouped by the component that consumes it.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Render     RenderConfig     `yaml:"render"`
	Camera     CameraConfig     `yaml:"camera"`
	Projection ProjectionConfig `yaml:"projection"`
	Assets     AssetsConfig     `yaml:"assets"`
	Scene      SceneConfig      `yaml:"scene"`
	Logging    LoggingConfig    `yaml:"logging"`
	Profiling  bool             `yaml:"profiling"`
}

// WindowConfig sizes the platform window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
}

// RenderConfig holds frame pacing and fixed GL state.
type RenderConfig struct {
	FrameLimit float32    `yaml:"frame_limit"`
	ClearColor [4]float32 `yaml:"clear_color"`
	CullFaces  bool       `yaml:"cull_faces"`
	Validate   bool       `yaml:"validate_programs"`
}

// CameraConfig is the initial orbit state. Angles are in radians.
type CameraConfig struct {
	Center      [3]float32 `yaml:"center"`
	Psi         float32    `yaml:"psi"`
	Phi         float32    `yaml:"phi"`
	Distance    float32    `yaml:"distance"`
	MinDistance float32    `yaml:"min_distance"`
	ZoomStep    float32    `yaml:"zoom_step"`
}

// ProjectionConfig is the perspective frustum. Fovy is in degrees.
type ProjectionConfig struct {
	Fovy float32 `yaml:"fovy"`
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

// AssetsConfig locates shaders, models and textures. Every path except Root is relative to Root.
type AssetsConfig struct {
	Root       string `yaml:"root"`
	ShaderDir  string `yaml:"shader_dir"`
	Rings      string `yaml:"rings"`
	Bunny      string `yaml:"bunny"`
	Logo       string `yaml:"logo"`
	CubeMapDir string `yaml:"cube_map_dir"`
}

// SceneConfig selects the optional scene elements.
type SceneConfig struct {
	FloorTiles   int     `yaml:"floor_tiles"`
	FloorSpacing float32 `yaml:"floor_spacing"`
	Logo         bool    `yaml:"logo"`

	// RotationSpeed is the animation step in degrees per frame.
	RotationSpeed float32 `yaml:"rotation_speed"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-gl",
			Width:  800,
			Height: 600,
			VSync:  true,
		},
		Render: RenderConfig{
			FrameLimit: 60,
			ClearColor: [4]float32{0.7, 0.7, 1.0, 1.0},
			CullFaces:  true,
			Validate:   true,
		},
		Camera: CameraConfig{
			Distance:    5,
			MinDistance: 1,
			ZoomStep:    1,
		},
		Projection: ProjectionConfig{
			Fovy: 60,
			Near: 0.1,
			Far:  20,
		},
		Assets: AssetsConfig{
			Root:       "assets",
			ShaderDir:  "shaders",
			Rings:      "models/olympic_rings.glb",
			Bunny:      "models/bunny_world.obj",
			Logo:       "models/logo.stl",
			CubeMapDir: "textures/paris_cubemap",
		},
		Scene: SceneConfig{
			FloorTiles:    0,
			FloorSpacing:  1,
			RotationSpeed: 1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file over Default and validates the result. An empty path returns Default.
//
// Parameters:
//   - path: the config file, or "" for defaults
//
// Returns:
//   - Config: the merged configuration
//   - error: error if the file cannot be read, has unknown keys, or fails Validate
func Load(path string) (Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r over Default and validates the result. An empty document yields Default.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the renderer cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d must be positive", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Render.FrameLimit <= 0:
		return fmt.Errorf("%w: frame limit %v must be positive", ErrInvalidConfig, c.Render.FrameLimit)
	case c.Projection.Near <= 0:
		return fmt.Errorf("%w: near plane %v must be positive", ErrInvalidConfig, c.Projection.Near)
	case c.Projection.Near >= c.Projection.Far:
		return fmt.Errorf("%w: near plane %v must be closer than far plane %v", ErrInvalidConfig, c.Projection.Near, c.Projection.Far)
	case c.Projection.Fovy <= 0 || c.Projection.Fovy >= 180:
		return fmt.Errorf("%w: fovy %v must be within (0, 180)", ErrInvalidConfig, c.Projection.Fovy)
	case c.Camera.MinDistance <= 0:
		return fmt.Errorf("%w: min distance %v must be positive", ErrInvalidConfig, c.Camera.MinDistance)
	case c.Camera.Distance < c.Camera.MinDistance:
		return fmt.Errorf("%w: distance %v is below min distance %v", ErrInvalidConfig, c.Camera.Distance, c.Camera.MinDistance)
	case c.Scene.FloorTiles < 0:
		return fmt.Errorf("%w: floor tile count %d is negative", ErrInvalidConfig, c.Scene.FloorTiles)
	}
	return nil
}

// Path joins an asset path onto the asset root.
func (a AssetsConfig) Path(rel string) string {
	return filepath.Join(a.Root, rel)
}

// FrameBudget returns the frame duration in seconds for the configured frame limit.
func (r RenderConfig) FrameBudget() float32 {
	return 1 / r.FrameLimit
}
