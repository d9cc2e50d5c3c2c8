package model

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidMesh is returned when mesh attribute arrays disagree in length or indices are out of range.
var ErrInvalidMesh = errors.New("invalid mesh")

// Mesh is the CPU-side geometry of one renderable object.
// Positions are always present. Normals, Colors and TexCoords are either empty or hold exactly one
// entry per position. When Indices is empty the positions are drawn as a plain triangle list.
type Mesh struct {
	// Name identifies the mesh in logs and errors.
	Name string

	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Colors    []mgl32.Vec4
	TexCoords []mgl32.Vec2

	// Indices holds one triangle per entry.
	Indices [][3]uint32

	// Bounds is the axis-aligned bounding box of Positions, refreshed by ComputeBounds and Normalize.
	Bounds BoundingBox

	// Transform is the model-to-world matrix.
	Transform mgl32.Mat4
}

// VertexCount returns the number of vertex rows.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// Indexed reports whether the mesh carries a triangle index array.
func (m *Mesh) Indexed() bool {
	return len(m.Indices) > 0
}

// IndexCount returns the number of indices, three per triangle.
func (m *Mesh) IndexCount() int {
	return 3 * len(m.Indices)
}

// Attributes lists the vertex attributes present on the mesh, position first.
func (m *Mesh) Attributes() []Attribute {
	attrs := []Attribute{AttributePosition}
	if len(m.Normals) > 0 {
		attrs = append(attrs, AttributeNormal)
	}
	if len(m.Colors) > 0 {
		attrs = append(attrs, AttributeColor)
	}
	if len(m.TexCoords) > 0 {
		attrs = append(attrs, AttributeTexCoord)
	}
	return attrs
}

// AttributeData flattens one attribute into a tightly packed float32 slice.
//
// Parameters:
//   - attr: the attribute to flatten
//
// Returns:
//   - []float32: the packed data, nil if the attribute is absent
//   - int: components per vertex (2, 3 or 4)
func (m *Mesh) AttributeData(attr Attribute) ([]float32, int) {
	switch attr {
	case AttributePosition:
		return flatten3(m.Positions), 3
	case AttributeNormal:
		return flatten3(m.Normals), 3
	case AttributeColor:
		if len(m.Colors) == 0 {
			return nil, 4
		}
		out := make([]float32, 0, 4*len(m.Colors))
		for _, c := range m.Colors {
			out = append(out, c[0], c[1], c[2], c[3])
		}
		return out, 4
	case AttributeTexCoord:
		if len(m.TexCoords) == 0 {
			return nil, 2
		}
		out := make([]float32, 0, 2*len(m.TexCoords))
		for _, uv := range m.TexCoords {
			out = append(out, uv[0], uv[1])
		}
		return out, 2
	}
	return nil, 0
}

// IndexData flattens the triangle indices.
func (m *Mesh) IndexData() []uint32 {
	if len(m.Indices) == 0 {
		return nil
	}
	out := make([]uint32, 0, 3*len(m.Indices))
	for _, tri := range m.Indices {
		out = append(out, tri[0], tri[1], tri[2])
	}
	return out
}

// Validate checks the mesh invariants: at least one position, optional attribute arrays matching the
// position count, and every index referencing an existing vertex.
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	if n == 0 {
		return fmt.Errorf("%w: mesh %q has no positions", ErrInvalidMesh, m.Name)
	}
	if len(m.Normals) != 0 && len(m.Normals) != n {
		return fmt.Errorf("%w: mesh %q has %d normals for %d vertices", ErrInvalidMesh, m.Name, len(m.Normals), n)
	}
	if len(m.Colors) != 0 && len(m.Colors) != n {
		return fmt.Errorf("%w: mesh %q has %d colors for %d vertices", ErrInvalidMesh, m.Name, len(m.Colors), n)
	}
	if len(m.TexCoords) != 0 && len(m.TexCoords) != n {
		return fmt.Errorf("%w: mesh %q has %d texture coordinates for %d vertices", ErrInvalidMesh, m.Name, len(m.TexCoords), n)
	}
	if !m.Indexed() && n%3 != 0 {
		return fmt.Errorf("%w: mesh %q is a triangle list with %d vertices", ErrInvalidMesh, m.Name, n)
	}
	for t, tri := range m.Indices {
		for _, idx := range tri {
			if int(idx) >= n {
				return fmt.Errorf("%w: mesh %q triangle %d references vertex %d of %d", ErrInvalidMesh, m.Name, t, idx, n)
			}
		}
	}
	return nil
}

// ComputeBounds recomputes Bounds from Positions and returns it.
func (m *Mesh) ComputeBounds() BoundingBox {
	if len(m.Positions) == 0 {
		m.Bounds = BoundingBox{}
		return m.Bounds
	}
	lo, hi := m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for i := range 3 {
			lo[i] = math32.Min(lo[i], p[i])
			hi[i] = math32.Max(hi[i], p[i])
		}
	}
	m.Bounds = BoundingBox{Min: lo, Max: hi}
	return m.Bounds
}

// Normalize centers the positions on the midpoint of their bounding box and divides them by the largest
// absolute coordinate, so the mesh fits in [-1, 1] on every axis with its longest half-extent touching 1.
// Bounds is recomputed afterwards. A mesh collapsed to a single point is only centered.
func (m *Mesh) Normalize() {
	if len(m.Positions) == 0 {
		return
	}
	center := m.ComputeBounds().Center()

	var scale float32
	for i := range m.Positions {
		m.Positions[i] = m.Positions[i].Sub(center)
		for _, c := range m.Positions[i] {
			scale = math32.Max(scale, math32.Abs(c))
		}
	}
	if scale > 0 {
		inv := 1 / scale
		for i := range m.Positions {
			m.Positions[i] = m.Positions[i].Mul(inv)
		}
	}
	m.ComputeBounds()
}

// GenerateNormals replaces Normals with area-weighted vertex normals computed from the triangles.
// Vertices that belong to no triangle, or only to degenerate ones, get +Y.
func (m *Mesh) GenerateNormals() {
	n := len(m.Positions)
	accum := make([]mgl32.Vec3, n)

	triangles := m.Indices
	if !m.Indexed() {
		triangles = make([][3]uint32, 0, n/3)
		for i := 0; i+2 < n; i += 3 {
			triangles = append(triangles, [3]uint32{uint32(i), uint32(i + 1), uint32(i + 2)})
		}
	}

	for _, tri := range triangles {
		if int(tri[0]) >= n || int(tri[1]) >= n || int(tri[2]) >= n {
			continue
		}
		p0, p1, p2 := m.Positions[tri[0]], m.Positions[tri[1]], m.Positions[tri[2]]
		// cross product length is proportional to triangle area
		face := p1.Sub(p0).Cross(p2.Sub(p0))
		for _, idx := range tri {
			accum[idx] = accum[idx].Add(face)
		}
	}

	m.Normals = make([]mgl32.Vec3, n)
	for i, a := range accum {
		if a.Len() < 1e-6 {
			m.Normals[i] = mgl32.Vec3{0, 1, 0}
			continue
		}
		m.Normals[i] = a.Normalize()
	}
}

// SetUniformColor assigns the same RGBA color to every vertex.
func (m *Mesh) SetUniformColor(rgba mgl32.Vec4) {
	m.Colors = make([]mgl32.Vec4, len(m.Positions))
	for i := range m.Colors {
		m.Colors[i] = rgba
	}
}

func flatten3(v []mgl32.Vec3) []float32 {
	if len(v) == 0 {
		return nil
	}
	out := make([]float32, 0, 3*len(v))
	for _, p := range v {
		out = append(out, p[0], p[1], p[2])
	}
	return out
}
