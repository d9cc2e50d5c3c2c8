package material

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MaterialBuilderOption is a function that configures a material during construction.
type MaterialBuilderOption func(*material)

// WithBaseColor sets the flat RGB color of the material.
//
// Parameters:
//   - color: the RGB color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(color mgl32.Vec3) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = color
	}
}

// WithShininess sets the specular exponent. Values below 1 are clamped to 1.
//
// Parameters:
//   - shininess: the exponent
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shininess option to a material
func WithShininess(shininess float32) MaterialBuilderOption {
	return func(m *material) {
		m.shininess = math32.Max(shininess, 1)
	}
}

// WithReflectivity marks the material reflective with a mix factor clamped to [0, 1].
//
// Parameters:
//   - reflectivity: the environment mix factor
//
// Returns:
//   - MaterialBuilderOption: a function that applies the reflectivity option to a material
func WithReflectivity(reflectivity float32) MaterialBuilderOption {
	return func(m *material) {
		m.reflectivity = math32.Min(math32.Max(reflectivity, 0), 1)
		m.hasReflectivity = true
	}
}

// WithVertexColors makes per-vertex colors replace the base color.
//
// Returns:
//   - MaterialBuilderOption: a function that applies the vertex color option to a material
func WithVertexColors() MaterialBuilderOption {
	return func(m *material) {
		m.useVertexColors = true
	}
}

// WithDiffuseTexture sets the imported base color image.
//
// Parameters:
//   - tex: the imported image
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithDiffuseTexture(tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseTexture = tex
	}
}
