package scene

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/render_object"
	"go.uber.org/zap"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithObjects adds initial objects to the scene, in draw order.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...render_object.RenderObject) SceneBuilderOption {
	return func(s *scene) {
		s.Add(objects...)
	}
}

// WithSkybox sets the skybox drawn before every other object.
//
// Parameters:
//   - sky: the skybox object
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSkybox(sky render_object.RenderObject) SceneBuilderOption {
	return func(s *scene) {
		s.skybox = sky
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger
		}
	}
}
