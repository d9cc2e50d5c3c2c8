package light

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// Uniform names a lit shader program declares for the scene light.
const (
	UniformPosition        = "light_position"
	UniformColor           = "light_color"
	UniformAmbientStrength = "ambient_strength"
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	position        mgl32.Vec3
	color           mgl32.Vec3
	intensity       float32
	ambientStrength float32
}

// Light is the single point light that illuminates the scene.
//
// The light is fixed for the lifetime of the render objects built from it: its values are captured
// into each object's static uniforms at construction time, so changing the light afterwards only
// affects objects built later.
type Light interface {
	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - mgl32.Vec3: position as (x, y, z)
	Position() mgl32.Vec3

	// Color returns the RGB color of the light before intensity is applied.
	//
	// Returns:
	//   - mgl32.Vec3: color as (r, g, b)
	Color() mgl32.Vec3

	// Intensity returns the scalar multiplier applied to the color.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// AmbientStrength returns the fraction of the light color applied to every fragment regardless
	// of orientation.
	//
	// Returns:
	//   - float32: the ambient factor in [0, 1]
	AmbientStrength() float32

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - position: the new position
	SetPosition(position mgl32.Vec3)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - color: the new color
	SetColor(color mgl32.Vec3)

	// Uniforms returns the static uniforms describing this light: light_position, light_color
	// (color scaled by intensity) and ambient_strength.
	//
	// Returns:
	//   - []renderer.Uniform: the uniforms in that order
	Uniforms() []renderer.Uniform
}

var _ Light = &lightImpl{}

// NewLight creates a white point light at (0, 5, 5) with unit intensity and an ambient strength of 0.3.
//
// Parameters:
//   - options: functional options to configure the light
//
// Returns:
//   - Light: the newly created light
func NewLight(options ...LightBuilderOption) Light {
	l := &lightImpl{
		position:        mgl32.Vec3{0, 5, 5},
		color:           mgl32.Vec3{1, 1, 1},
		intensity:       1,
		ambientStrength: 0.3,
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.position
}

func (l *lightImpl) Color() mgl32.Vec3 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) AmbientStrength() float32 {
	return l.ambientStrength
}

func (l *lightImpl) SetPosition(position mgl32.Vec3) {
	l.position = position
}

func (l *lightImpl) SetColor(color mgl32.Vec3) {
	l.color = color
}

func (l *lightImpl) Uniforms() []renderer.Uniform {
	return []renderer.Uniform{
		renderer.Vec3Uniform(UniformPosition, l.position),
		renderer.Vec3Uniform(UniformColor, l.color.Mul(l.intensity)),
		renderer.FloatUniform(UniformAmbientStrength, l.ambientStrength),
	}
}
