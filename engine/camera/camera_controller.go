package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController owns the camera's positional state: a focus point, two orientation angles and
// a distance from the focus point along the view axis. The Camera reads from the controller to
// compose the view matrix, and input handling mutates the controller in place.
type CameraController interface {
	// Center returns the focus point the camera looks at.
	//
	// Returns:
	//   - mgl32.Vec3: world-space focus point
	Center() mgl32.Vec3

	// SetCenter moves the focus point.
	//
	// Parameters:
	//   - center: world-space focus point
	SetCenter(center mgl32.Vec3)

	// Psi returns the pitch-like angle applied as a rotation about X.
	//
	// Returns:
	//   - float32: angle in radians
	Psi() float32

	// Phi returns the yaw-like angle applied as a rotation about Y.
	//
	// Returns:
	//   - float32: angle in radians
	Phi() float32

	// SetAngles sets both orientation angles.
	//
	// Parameters:
	//   - psi: rotation about X in radians
	//   - phi: rotation about Y in radians
	SetAngles(psi, phi float32)

	// Distance returns the distance from the focus point along the view axis.
	//
	// Returns:
	//   - float32: the current distance
	Distance() float32

	// SetDistance sets the distance, clamped to MinDistance.
	//
	// Parameters:
	//   - distance: new distance from the focus point
	SetDistance(distance float32)

	// MinDistance returns the smallest distance zooming in can reach.
	//
	// Returns:
	//   - float32: the minimum distance
	MinDistance() float32

	// ZoomIn moves the camera one zoom step towards the focus point, never below MinDistance.
	ZoomIn()

	// ZoomOut moves the camera one zoom step away from the focus point.
	ZoomOut()

	// Pan shifts the focus point in the X/Y plane. Screen-right drags move the focus point left
	// and screen-down drags move it up, so the scene follows the cursor.
	//
	// Parameters:
	//   - dx: horizontal motion, already normalised by window width
	//   - dy: vertical motion, already normalised by window height
	Pan(dx, dy float32)

	// Orbit adds to the orientation angles.
	//
	// Parameters:
	//   - dx: horizontal motion, added to phi
	//   - dy: vertical motion, added to psi
	Orbit(dx, dy float32)

	// View composes the view matrix T(0,0,-distance) * Rx(psi) * Ry(phi) * T(-center).
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	View() mgl32.Mat4

	// Rotation returns only the rotational part of the view, Rx(psi) * Ry(phi).
	// Skyboxes use it so they rotate with the camera without translating.
	//
	// Returns:
	//   - mgl32.Mat4: the rotation matrix
	Rotation() mgl32.Mat4
}
