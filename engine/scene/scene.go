package scene

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/render_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"go.uber.org/zap"
)

// scene is the implementation of the Scene interface.
type scene struct {
	name   string
	camera camera.Camera
	r      renderer.Renderer
	logger *zap.Logger

	objects []render_object.RenderObject
	skybox  render_object.RenderObject

	released bool
}

// Scene is an ordered list of render objects plus an optional skybox, drawn from one camera.
//
// A Scene owns its objects: Release hands every object back to the Renderer. Objects are drawn in
// the order they were added.
type Scene interface {
	// Name retrieves the scene name used in logs.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Camera retrieves the camera the scene is drawn from.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Renderer retrieves the renderer the scene draws with.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Add appends objects to the draw list.
	//
	// Parameters:
	//   - objects: the objects to append, nil entries are skipped
	Add(objects ...render_object.RenderObject)

	// Objects returns a copy of the draw list.
	//
	// Returns:
	//   - []render_object.RenderObject: the objects in draw order
	Objects() []render_object.RenderObject

	// Count returns the number of objects in the draw list, excluding the skybox.
	//
	// Returns:
	//   - int: the object count
	Count() int

	// SetSkybox replaces the skybox. A previous skybox is not released.
	//
	// Parameters:
	//   - sky: the skybox object, or nil to draw without one
	SetSkybox(sky render_object.RenderObject)

	// Skybox retrieves the skybox.
	//
	// Returns:
	//   - render_object.RenderObject: the skybox, nil if none is set
	Skybox() render_object.RenderObject

	// DrawFrame clears the frame, refreshes the camera, draws the skybox and then every object in
	// order. When animate is true each animated object takes one animation step before its draw.
	// Drawing stops at the first error.
	//
	// Parameters:
	//   - animate: whether animations advance this frame
	//
	// Returns:
	//   - error: the first draw error, wrapped with the object name
	DrawFrame(animate bool) error

	// Release hands every object and the skybox back to the Renderer and empties the scene.
	// Calling it again does nothing.
	Release()
}

var _ Scene = &scene{}

// NewScene creates a Scene drawn from cam with r.
//
// Parameters:
//   - name: the scene name
//   - cam: the camera, must not be nil
//   - r: the renderer, must not be nil
//   - options: functional options
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, cam camera.Camera, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: camera must not be nil")
	}
	if r == nil {
		panic("scene: renderer must not be nil")
	}

	s := &scene{
		name:   name,
		camera: cam,
		r:      r,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Camera() camera.Camera {
	return s.camera
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) Add(objects ...render_object.RenderObject) {
	for _, obj := range objects {
		if obj != nil {
			s.objects = append(s.objects, obj)
		}
	}
}

func (s *scene) Objects() []render_object.RenderObject {
	return slices.Clone(s.objects)
}

func (s *scene) Count() int {
	return len(s.objects)
}

func (s *scene) SetSkybox(sky render_object.RenderObject) {
	s.skybox = sky
}

func (s *scene) Skybox() render_object.RenderObject {
	return s.skybox
}

func (s *scene) DrawFrame(animate bool) error {
	s.r.Clear()
	s.camera.Update()

	view := s.camera.ViewMatrix()
	projection := s.camera.ProjectionMatrix()
	eye := s.camera.Position()

	if s.skybox != nil {
		// the skybox stays centred on the eye, so it is drawn without the view translation
		u := s.skybox.FrameUniforms(s.camera.SkyboxViewMatrix(), projection, eye)
		if err := s.r.DrawSkybox(s.skybox, u); err != nil {
			return fmt.Errorf("scene %s: skybox %s: %w", s.name, s.skybox.Name(), err)
		}
	}

	for _, obj := range s.objects {
		if animate {
			obj.Animate()
		}
		if err := s.r.Draw(obj, obj.FrameUniforms(view, projection, eye)); err != nil {
			return fmt.Errorf("scene %s: object %s: %w", s.name, obj.Name(), err)
		}
	}
	return nil
}

func (s *scene) Release() {
	if s.released {
		return
	}
	s.released = true

	for _, obj := range s.objects {
		s.r.Release(obj)
	}
	if s.skybox != nil {
		s.r.Release(s.skybox)
	}
	s.logger.Debug("scene released",
		zap.String("scene", s.name),
		zap.Int("objects", len(s.objects)),
		zap.Bool("skybox", s.skybox != nil),
	)
	s.objects = nil
	s.skybox = nil
}
