package loader

import (
	"io/fs"
	"os"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithFS sets the file system model paths and their external resources resolve in.
//
// Parameters:
//   - fsys: the file system
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithFS(fsys fs.FS) LoaderBuilderOption {
	return func(l *loader) {
		l.fsys = fsys
	}
}

// WithRoot resolves model paths relative to a directory on disk.
//
// Parameters:
//   - dir: the asset root directory
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithRoot(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.fsys = os.DirFS(dir)
	}
}

// WithLogger sets the logger used for load diagnostics.
//
// Parameters:
//   - logger: the zap logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithLogger(logger *zap.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// loadOptions holds the per-call settings of Loader.Load.
type loadOptions struct {
	transform    mgl32.Mat4
	removeNodes  []string
	textureMode  TextureMode
	uniformColor *mgl32.Vec4
}

// removed reports whether a part or one of its ancestors is in the removal list.
func (o *loadOptions) removed(p sourcePart) bool {
	if len(o.removeNodes) == 0 {
		return false
	}
	if slices.Contains(o.removeNodes, p.node) {
		return true
	}
	for _, a := range p.ancestors {
		if slices.Contains(o.removeNodes, a) {
			return true
		}
	}
	return false
}

// LoadOption is a functional option for a single Loader.Load call.
type LoadOption func(*loadOptions)

// WithTransform sets the model-to-world matrix stored on the loaded mesh.
func WithTransform(m mgl32.Mat4) LoadOption {
	return func(o *loadOptions) {
		o.transform = m
	}
}

// WithRemoveNodes drops the named nodes, and everything below them, before the parts are merged.
// For OBJ files the names match o and g blocks.
func WithRemoveNodes(names ...string) LoadOption {
	return func(o *loadOptions) {
		o.removeNodes = append(o.removeNodes, names...)
	}
}

// WithTextureMode selects whether the base-color texture is decoded. The default is TextureModeNone.
func WithTextureMode(mode TextureMode) LoadOption {
	return func(o *loadOptions) {
		o.textureMode = mode
	}
}

// WithUniformColor paints every vertex with one RGBA color.
func WithUniformColor(rgba mgl32.Vec4) LoadOption {
	return func(o *loadOptions) {
		o.uniformColor = &rgba
	}
}
