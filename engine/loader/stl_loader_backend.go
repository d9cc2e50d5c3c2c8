package loader

import (
	"bytes"
	"fmt"
	"io/fs"

	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hschendel/stl"
)

// stlLoaderBackendImpl is the implementation of stlLoaderBackend.
type stlLoaderBackendImpl struct{}

// stlLoaderBackend is a loaderBackend for ASCII and binary STL files. Triangles do not share
// vertices, so every triangle is flat shaded with its geometric normal.
type stlLoaderBackend interface {
	loaderBackend
}

var _ stlLoaderBackend = &stlLoaderBackendImpl{}

// newSTLLoaderBackend creates a new STL loader backend.
func newSTLLoaderBackend() stlLoaderBackend {
	return &stlLoaderBackendImpl{}
}

func (b *stlLoaderBackendImpl) load(_ fs.FS, name string, data []byte) (*sourceModel, error) {
	solid, err := stl.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if len(solid.Triangles) == 0 {
		return nil, fmt.Errorf("%w: %s has no triangles", model.ErrInvalidMesh, name)
	}

	partName := solid.Name
	if partName == "" {
		partName = "solid"
	}

	n := len(solid.Triangles)
	m := &model.Mesh{
		Name:      partName,
		Positions: make([]mgl32.Vec3, 0, 3*n),
		Normals:   make([]mgl32.Vec3, 0, 3*n),
		Indices:   make([][3]uint32, 0, n),
		Transform: mgl32.Ident4(),
	}
	for i, t := range solid.Triangles {
		p0 := mgl32.Vec3(t.Vertices[0])
		p1 := mgl32.Vec3(t.Vertices[1])
		p2 := mgl32.Vec3(t.Vertices[2])

		normal := p1.Sub(p0).Cross(p2.Sub(p0))
		if normal.Len() < 1e-12 {
			normal = mgl32.Vec3(t.Normal)
		}
		if normal.Len() > 0 {
			normal = normal.Normalize()
		} else {
			normal = mgl32.Vec3{0, 1, 0}
		}

		m.Positions = append(m.Positions, p0, p1, p2)
		m.Normals = append(m.Normals, normal, normal, normal)
		base := uint32(3 * i)
		m.Indices = append(m.Indices, [3]uint32{base, base + 1, base + 2})
	}

	return &sourceModel{parts: []sourcePart{{node: partName, mesh: m}}}, nil
}
