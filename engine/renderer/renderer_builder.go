package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithBackend uses b instead of creating the backend named by the backend type.
//
// Parameters:
//   - b: the backend to issue GPU commands through
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(b RendererBackend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = b
	}
}

// WithLogger sets the logger used for allocation, release and initialisation events.
//
// Parameters:
//   - logger: the zap logger
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(logger *zap.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClearColor sets the color the color buffer is cleared to.
//
// Parameters:
//   - color: the RGBA clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(color mgl32.Vec4) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = color
	}
}

// WithFaceCulling toggles back-face culling at Init. It is on by default.
//
// Parameters:
//   - enabled: whether to cull back faces
//
// Returns:
//   - RendererBuilderOption: a function that applies the culling option to a renderer
func WithFaceCulling(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.faceCulling = enabled
	}
}
