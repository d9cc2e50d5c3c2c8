package model

import "github.com/go-gl/mathgl/mgl32"

// MeshBuilderOption is a functional option for configuring a Mesh via NewMesh.
type MeshBuilderOption func(*Mesh)

// WithNormals sets per-vertex normals.
func WithNormals(normals []mgl32.Vec3) MeshBuilderOption {
	return func(m *Mesh) {
		m.Normals = normals
	}
}

// WithColors sets per-vertex RGBA colors.
func WithColors(colors []mgl32.Vec4) MeshBuilderOption {
	return func(m *Mesh) {
		m.Colors = colors
	}
}

// WithTexCoords sets per-vertex texture coordinates.
func WithTexCoords(uvs []mgl32.Vec2) MeshBuilderOption {
	return func(m *Mesh) {
		m.TexCoords = uvs
	}
}

// WithIndices sets the triangle index array.
func WithIndices(indices [][3]uint32) MeshBuilderOption {
	return func(m *Mesh) {
		m.Indices = indices
	}
}

// WithTransform sets the model-to-world matrix.
func WithTransform(transform mgl32.Mat4) MeshBuilderOption {
	return func(m *Mesh) {
		m.Transform = transform
	}
}

// WithUniformColor assigns one RGBA color to every vertex. It must come after any option that changes the positions.
func WithUniformColor(rgba mgl32.Vec4) MeshBuilderOption {
	return func(m *Mesh) {
		m.SetUniformColor(rgba)
	}
}

// NewMesh creates a Mesh from positions with an identity transform and computed bounds.
//
// Parameters:
//   - name: identifier used in logs and errors
//   - positions: vertex positions
//   - options: functional options for the optional attributes
//
// Returns:
//   - *Mesh: the new mesh, not yet validated
func NewMesh(name string, positions []mgl32.Vec3, options ...MeshBuilderOption) *Mesh {
	m := &Mesh{
		Name:      name,
		Positions: positions,
		Transform: mgl32.Ident4(),
	}
	for _, option := range options {
		option(m)
	}
	m.ComputeBounds()
	return m
}
