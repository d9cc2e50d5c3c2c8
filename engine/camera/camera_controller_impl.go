package camera

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// cameraControllerImpl is the single implementation of CameraController.
// It is mutated only by the thread that owns the GPU context, so it carries no lock.
type cameraControllerImpl struct {
	center   mgl32.Vec3
	psi      float32 // vertical
	phi      float32 // horizontal
	distance float32

	minDistance float32
	zoomStep    float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new camera controller focused on the origin from 5 units away.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		distance:    5.0,
		minDistance: 1.0,
		zoomStep:    1.0,
	}

	for _, option := range options {
		option(cc)
	}

	cc.distance = math32.Max(cc.distance, cc.minDistance)
	return cc
}

func (cc *cameraControllerImpl) Center() mgl32.Vec3 {
	return cc.center
}

func (cc *cameraControllerImpl) SetCenter(center mgl32.Vec3) {
	cc.center = center
}

func (cc *cameraControllerImpl) Psi() float32 {
	return cc.psi
}

func (cc *cameraControllerImpl) Phi() float32 {
	return cc.phi
}

func (cc *cameraControllerImpl) SetAngles(psi, phi float32) {
	cc.psi = psi
	cc.phi = phi
}

func (cc *cameraControllerImpl) Distance() float32 {
	return cc.distance
}

func (cc *cameraControllerImpl) SetDistance(distance float32) {
	cc.distance = math32.Max(distance, cc.minDistance)
}

func (cc *cameraControllerImpl) MinDistance() float32 {
	return cc.minDistance
}

func (cc *cameraControllerImpl) ZoomIn() {
	cc.SetDistance(cc.distance - cc.zoomStep)
}

func (cc *cameraControllerImpl) ZoomOut() {
	cc.distance += cc.zoomStep
}

func (cc *cameraControllerImpl) Pan(dx, dy float32) {
	cc.center[0] -= dx
	cc.center[1] += dy
}

func (cc *cameraControllerImpl) Orbit(dx, dy float32) {
	cc.phi += dx
	cc.psi += dy
}

func (cc *cameraControllerImpl) View() mgl32.Mat4 {
	t := common.Translation(mgl32.Vec3{0, 0, -cc.distance})
	d := common.Translation(cc.center.Mul(-1))
	return t.Mul4(cc.Rotation()).Mul4(d)
}

func (cc *cameraControllerImpl) Rotation() mgl32.Mat4 {
	return common.RotationX(cc.psi).Mul4(common.RotationY(cc.phi))
}
