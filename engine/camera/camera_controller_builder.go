package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithCenter sets the initial focus point.
//
// Parameters:
//   - center: world-space focus point
//
// Returns:
//   - CameraControllerOption: functional option to set the focus point
func WithCenter(center mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.center = center
	}
}

// WithAngles sets the initial orientation angles.
//
// Parameters:
//   - psi: rotation about X in radians
//   - phi: rotation about Y in radians
//
// Returns:
//   - CameraControllerOption: functional option to set the angles
func WithAngles(psi, phi float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.psi = psi
		cc.phi = phi
	}
}

// WithDistance sets the initial distance from the focus point.
//
// Parameters:
//   - distance: initial distance, clamped to the minimum distance
//
// Returns:
//   - CameraControllerOption: functional option to set the distance
func WithDistance(distance float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.distance = distance
	}
}

// WithMinDistance sets the zoom-in clamp.
//
// Parameters:
//   - minDistance: smallest reachable distance, must be positive
//
// Returns:
//   - CameraControllerOption: functional option to set the clamp
func WithMinDistance(minDistance float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if minDistance > 0 {
			cc.minDistance = minDistance
		}
	}
}

// WithZoomStep sets how far one scroll notch moves the camera.
//
// Parameters:
//   - step: distance change per zoom step
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom step
func WithZoomStep(step float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomStep = step
	}
}
