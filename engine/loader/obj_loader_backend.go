package loader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// objDefaultGroup names geometry that appears before any o or g line.
const objDefaultGroup = "default"

// objCorner is one face corner as zero-based position, texture coordinate and normal indices.
// A missing texture coordinate or normal is -1.
type objCorner [3]int

// objGroup collects the triangles of one o or g block.
type objGroup struct {
	name      string
	triangles [][3]objCorner
}

// objLoaderBackendImpl is the implementation of objLoaderBackend.
type objLoaderBackendImpl struct{}

// objLoaderBackend is a loaderBackend for Wavefront OBJ files. It reads v, vt, vn, f, o and g lines,
// resolves negative indices, triangulates polygons as fans and emits one part per object or group.
// Material libraries and smoothing groups are ignored.
type objLoaderBackend interface {
	loaderBackend
}

var _ objLoaderBackend = &objLoaderBackendImpl{}

// newOBJLoaderBackend creates a new OBJ loader backend.
func newOBJLoaderBackend() objLoaderBackend {
	return &objLoaderBackendImpl{}
}

// objDecoder holds the shared vertex pools while an OBJ file is read.
type objDecoder struct {
	positions []mgl32.Vec3
	uvs       []mgl32.Vec2
	normals   []mgl32.Vec3
	groups    []*objGroup
	current   *objGroup
	line      int
}

func (b *objLoaderBackendImpl) load(_ fs.FS, name string, data []byte) (*sourceModel, error) {
	dec := &objDecoder{}
	if err := dec.parse(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%s:%d: %w", name, dec.line, err)
	}

	src := &sourceModel{}
	for _, g := range dec.groups {
		if len(g.triangles) == 0 {
			continue
		}
		m, err := dec.buildMesh(g)
		if err != nil {
			return nil, fmt.Errorf("%s: group %q: %w", name, g.name, err)
		}
		src.parts = append(src.parts, sourcePart{node: g.name, mesh: m})
	}
	if len(src.parts) == 0 {
		return nil, fmt.Errorf("%w: %s has no faces", model.ErrInvalidMesh, name)
	}
	return src, nil
}

// parse reads the file line by line, dispatching on the first field.
func (d *objDecoder) parse(r io.Reader) error {
	bufin := bufio.NewReader(r)
	for {
		line, err := bufin.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		d.line++
		if perr := d.parseLine(strings.TrimSpace(line)); perr != nil {
			return perr
		}
		if err == io.EOF {
			return nil
		}
	}
}

func (d *objDecoder) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	switch fields[0] {
	case "v":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return fmt.Errorf("vertex: %w", err)
		}
		d.positions = append(d.positions, mgl32.Vec3{v[0], v[1], v[2]})
	case "vt":
		v, err := parseFloats(fields[1:], 2)
		if err != nil {
			return fmt.Errorf("texture coordinate: %w", err)
		}
		d.uvs = append(d.uvs, mgl32.Vec2{v[0], v[1]})
	case "vn":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return fmt.Errorf("normal: %w", err)
		}
		d.normals = append(d.normals, mgl32.Vec3{v[0], v[1], v[2]})
	case "o", "g":
		name := objDefaultGroup
		if len(fields) > 1 {
			name = strings.Join(fields[1:], " ")
		}
		d.startGroup(name)
	case "f":
		return d.parseFace(fields[1:])
	}
	return nil
}

func (d *objDecoder) startGroup(name string) {
	d.current = &objGroup{name: name}
	d.groups = append(d.groups, d.current)
}

// parseFace parses f v1[/vt1][/vn1] v2[/vt2][/vn2] v3[/vt3][/vn3] ... and fans it into triangles.
func (d *objDecoder) parseFace(fields []string) error {
	if len(fields) < 3 {
		return errors.New("face with fewer than 3 vertices")
	}
	if d.current == nil {
		d.startGroup(objDefaultGroup)
	}

	corners := make([]objCorner, len(fields))
	for i, f := range fields {
		parts := strings.Split(f, "/")
		if len(parts) > 3 {
			return fmt.Errorf("malformed face vertex %q", f)
		}
		c := objCorner{-1, -1, -1}
		pools := [3]int{len(d.positions), len(d.uvs), len(d.normals)}
		for k, p := range parts {
			if p == "" {
				if k == 0 {
					return fmt.Errorf("face vertex %q has no position", f)
				}
				continue
			}
			idx, err := resolveIndex(p, pools[k])
			if err != nil {
				return fmt.Errorf("face vertex %q: %w", f, err)
			}
			c[k] = idx
		}
		corners[i] = c
	}

	for i := 1; i+1 < len(corners); i++ {
		d.current.triangles = append(d.current.triangles, [3]objCorner{corners[0], corners[i], corners[i+1]})
	}
	return nil
}

// buildMesh turns a group into an indexed mesh, creating one vertex per distinct corner.
// Texture coordinates and normals are kept only when every corner of the group has them.
func (d *objDecoder) buildMesh(g *objGroup) (*model.Mesh, error) {
	hasUV, hasNormal := true, true
	for _, tri := range g.triangles {
		for _, c := range tri {
			hasUV = hasUV && c[1] >= 0
			hasNormal = hasNormal && c[2] >= 0
		}
	}

	m := &model.Mesh{Name: g.name, Transform: mgl32.Ident4()}
	lookup := make(map[objCorner]uint32)
	vertex := func(c objCorner) uint32 {
		if !hasUV {
			c[1] = -1
		}
		if !hasNormal {
			c[2] = -1
		}
		if idx, ok := lookup[c]; ok {
			return idx
		}
		idx := uint32(len(m.Positions))
		lookup[c] = idx
		m.Positions = append(m.Positions, d.positions[c[0]])
		if hasUV {
			m.TexCoords = append(m.TexCoords, d.uvs[c[1]])
		}
		if hasNormal {
			m.Normals = append(m.Normals, d.normals[c[2]].Normalize())
		}
		return idx
	}

	m.Indices = make([][3]uint32, len(g.triangles))
	for i, tri := range g.triangles {
		m.Indices[i] = [3]uint32{vertex(tri[0]), vertex(tri[1]), vertex(tri[2])}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !hasNormal {
		m.GenerateNormals()
	}
	return m, nil
}

// resolveIndex converts a one-based OBJ index, or a negative index relative to the end of the pool,
// into a zero-based index.
func resolveIndex(field string, poolSize int) (int, error) {
	v, err := strconv.Atoi(field)
	if err != nil {
		return 0, err
	}
	var idx int
	switch {
	case v > 0:
		idx = v - 1
	case v < 0:
		idx = poolSize + v
	default:
		return 0, errors.New("index 0 is invalid")
	}
	if idx < 0 || idx >= poolSize {
		return 0, fmt.Errorf("index %d out of range (%d defined)", v, poolSize)
	}
	return idx, nil
}

// parseFloats parses the first n fields as float32.
func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := range out {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}
