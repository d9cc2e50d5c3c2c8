package camera

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	fov    float32 // vertical, degrees
	aspect float32
	near   float32
	far    float32

	viewMatrix       mgl32.Mat4
	skyboxMatrix     mgl32.Mat4
	projectionMatrix mgl32.Mat4
	position         mgl32.Vec3

	controller CameraController
}

// Camera defines the interface for the camera system.
// The camera holds perspective settings and caches the view and projection matrices.
// The projection is recomputed only when a perspective setting or the viewport changes;
// the view is recomputed from the attached CameraController by Update().
type Camera interface {
	// Fov returns the vertical field of view in degrees.
	//
	// Returns:
	//   - float32: field of view in degrees
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the view matrix computed by the last Update.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// SkyboxViewMatrix returns the view matrix with its translation removed, computed by the last Update.
	//
	// Returns:
	//   - mgl32.Mat4: the rotation-only view matrix
	SkyboxViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current perspective projection.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// Position returns the world-space eye position, recovered from the inverse of the view matrix.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// Controller returns the attached CameraController.
	// Returns nil if no controller is attached.
	//
	// Returns:
	//   - CameraController: the attached controller or nil
	Controller() CameraController

	// SetController attaches a CameraController to the camera and refreshes the view.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl CameraController)

	// SetViewport updates the aspect ratio from framebuffer dimensions and recomputes the projection.
	// Zero-sized viewports (minimised windows) are ignored.
	//
	// Parameters:
	//   - width, height: framebuffer size in pixels
	SetViewport(width, height int)

	// SetFov sets the vertical field of view in degrees and recomputes the projection.
	//
	// Parameters:
	//   - fov: field of view in degrees
	SetFov(fov float32)

	// SetClipPlanes sets the near and far clip distances and recomputes the projection.
	//
	// Parameters:
	//   - near, far: positive clip distances with near < far
	SetClipPlanes(near, far float32)

	// Update reads the controller state and recomputes the view matrices and eye position.
	// Should be called once per frame after input has been applied.
	// If no controller is attached, this method does nothing.
	Update()
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with a 60 degree vertical field of view, a 4:3 aspect ratio and
// clip planes at 0.1 and 20.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		fov:          60.0,
		aspect:       800.0 / 600.0,
		near:         0.1,
		far:          20.0,
		viewMatrix:   mgl32.Ident4(),
		skyboxMatrix: mgl32.Ident4(),
	}
	for _, option := range options {
		option(c)
	}
	c.updateProjection()
	c.Update()
	return c
}

func (c *cameraImpl) Fov() float32 {
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	return c.viewMatrix
}

func (c *cameraImpl) SkyboxViewMatrix() mgl32.Mat4 {
	return c.skyboxMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	return c.projectionMatrix
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	return c.position
}

func (c *cameraImpl) Controller() CameraController {
	return c.controller
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.controller = ctrl
	c.Update()
}

func (c *cameraImpl) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.aspect = float32(width) / float32(height)
	c.updateProjection()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.fov = fov
	c.updateProjection()
}

func (c *cameraImpl) SetClipPlanes(near, far float32) {
	c.near = near
	c.far = far
	c.updateProjection()
}

func (c *cameraImpl) Update() {
	if c.controller == nil {
		return
	}
	c.viewMatrix = c.controller.View()
	c.skyboxMatrix = common.WithoutTranslation(c.controller.Rotation())
	c.position = common.WorldPosition(c.viewMatrix)
}

// updateProjection rebuilds the projection from the perspective settings.
func (c *cameraImpl) updateProjection() {
	c.projectionMatrix = common.Perspective(c.fov, c.aspect, c.near, c.far)
}
