package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var (
	// ErrUnsupportedFormat is returned for a file extension no backend handles.
	ErrUnsupportedFormat = errors.New("unsupported model format")

	// ErrNoTexture is returned when a base-color texture is requested from a model without one.
	ErrNoTexture = errors.New("model has no base color texture")
)

// TextureMode selects which texture a Load returns alongside the mesh.
type TextureMode int

const (
	// TextureModeNone drops texture coordinates and returns no texture.
	TextureModeNone TextureMode = iota

	// TextureModeBaseColor keeps texture coordinates and decodes the base-color texture.
	TextureModeBaseColor
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	fsys   fs.FS
	logger *zap.Logger

	cache map[string]*sourceModel

	backends map[string]loaderBackend
}

// Loader imports model files into normalised CPU meshes and caches parsed files by path.
// The backend is chosen by file extension: .gltf and .glb, .obj, .stl.
type Loader interface {
	// Load imports a model and applies the load options to a fresh copy of the cached geometry.
	// Every kept part is merged into one indexed mesh, centered on its bounding box and scaled so its
	// largest absolute coordinate is 1.
	//
	// Parameters:
	//   - name: slash-separated path of the model inside the loader's file system
	//   - options: load options (transform, removed nodes, texture mode, uniform color)
	//
	// Returns:
	//   - *model.ImportedModel: the merged mesh, the contributing node names and the optional texture
	//   - error: ErrUnsupportedFormat, ErrNoTexture, model.ErrInvalidMesh or a read/parse error
	Load(name string, options ...LoadOption) (*model.ImportedModel, error)

	// Cached reports whether a file has already been parsed.
	//
	// Parameters:
	//   - name: the path passed to Load
	//
	// Returns:
	//   - bool: true if the parsed file is cached
	Cached(name string) bool

	// Evict drops a parsed file from the cache.
	//
	// Parameters:
	//   - name: the path passed to Load
	Evict(name string)
}

var _ Loader = &loader{}

// NewLoader creates a Loader reading from the current directory unless WithFS or WithRoot is given.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		fsys:   os.DirFS("."),
		logger: zap.NewNop(),
		cache:  make(map[string]*sourceModel),
		backends: map[string]loaderBackend{
			".gltf": newGLTFLoaderBackend(),
			".glb":  newGLTFLoaderBackend(),
			".obj":  newOBJLoaderBackend(),
			".stl":  newSTLLoaderBackend(),
		},
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(name string, options ...LoadOption) (*model.ImportedModel, error) {
	opts := loadOptions{
		transform: mgl32.Ident4(),
	}
	for _, opt := range options {
		opt(&opts)
	}

	src, err := l.source(name)
	if err != nil {
		return nil, err
	}

	parts := make([]sourcePart, 0, len(src.parts))
	for _, p := range src.parts {
		if opts.removed(p) {
			continue
		}
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: %s has no geometry left after removing nodes", model.ErrInvalidMesh, name)
	}

	mesh, nodes := mergeParts(name, parts)
	imported := &model.ImportedModel{Name: name, Mesh: mesh, Nodes: nodes}

	switch opts.textureMode {
	case TextureModeNone:
		mesh.TexCoords = nil
	case TextureModeBaseColor:
		cached := firstBaseColor(parts)
		if cached == nil || len(mesh.TexCoords) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoTexture, name)
		}
		tex := *cached
		staging, err := tex.Decode(true)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base color texture of %s: %w", name, err)
		}
		imported.BaseColor = staging
	}

	if opts.uniformColor != nil {
		mesh.SetUniformColor(*opts.uniformColor)
	}
	mesh.Normalize()
	mesh.Transform = opts.transform

	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	l.logger.Debug("model loaded",
		zap.String("path", name),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", len(mesh.Indices)),
		zap.Strings("nodes", nodes),
		zap.Bool("textured", imported.BaseColor != nil),
	)
	return imported, nil
}

func (l *loader) Cached(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.cache[name]
	return ok
}

func (l *loader) Evict(name string) {
	l.mu.Lock()
	delete(l.cache, name)
	l.mu.Unlock()
}

// source returns the cached parse of a file, parsing it on first use.
func (l *loader) source(name string) (*sourceModel, error) {
	l.mu.RLock()
	if cached, ok := l.cache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(name)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	src, err := backend.load(l.fsys, name, data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}

	l.mu.Lock()
	l.cache[name] = src
	l.mu.Unlock()
	return src, nil
}

// resolveBackend selects a loader backend based on the file extension.
func (l *loader) resolveBackend(name string) (loaderBackend, error) {
	ext := strings.ToLower(path.Ext(name))
	backend, ok := l.backends[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return backend, nil
}

// mergeParts concatenates parts into one indexed mesh with model-space coordinates.
// Texture coordinates survive only if every part has them. Colors are kept if any part has them,
// with white for the parts that do not.
func mergeParts(name string, parts []sourcePart) (*model.Mesh, []string) {
	allUV, anyColor := true, false
	vertices, triangles := 0, 0
	for _, p := range parts {
		allUV = allUV && len(p.mesh.TexCoords) > 0
		anyColor = anyColor || len(p.mesh.Colors) > 0
		vertices += p.mesh.VertexCount()
		triangles += len(p.mesh.Indices)
	}

	merged := &model.Mesh{
		Name:      name,
		Positions: make([]mgl32.Vec3, 0, vertices),
		Normals:   make([]mgl32.Vec3, 0, vertices),
		Indices:   make([][3]uint32, 0, triangles),
		Transform: mgl32.Ident4(),
	}
	if allUV {
		merged.TexCoords = make([]mgl32.Vec2, 0, vertices)
	}
	if anyColor {
		merged.Colors = make([]mgl32.Vec4, 0, vertices)
	}

	nodes := make([]string, 0, len(parts))
	for _, p := range parts {
		offset := uint32(len(merged.Positions))
		merged.Positions = append(merged.Positions, p.mesh.Positions...)
		merged.Normals = append(merged.Normals, p.mesh.Normals...)
		if allUV {
			merged.TexCoords = append(merged.TexCoords, p.mesh.TexCoords...)
		}
		if anyColor {
			if len(p.mesh.Colors) > 0 {
				merged.Colors = append(merged.Colors, p.mesh.Colors...)
			} else {
				for range p.mesh.Positions {
					merged.Colors = append(merged.Colors, mgl32.Vec4{1, 1, 1, 1})
				}
			}
		}
		for _, tri := range p.mesh.Indices {
			merged.Indices = append(merged.Indices, [3]uint32{tri[0] + offset, tri[1] + offset, tri[2] + offset})
		}
		if !slices.Contains(nodes, p.node) {
			nodes = append(nodes, p.node)
		}
	}
	return merged, nodes
}

// firstBaseColor returns the base-color texture of the first part that has one.
func firstBaseColor(parts []sourcePart) *common.ImportedTexture {
	for _, p := range parts {
		if p.baseColor != nil {
			return p.baseColor
		}
	}
	return nil
}
