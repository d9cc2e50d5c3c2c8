package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Translation returns the 4x4 homogeneous matrix translating by v.
func Translation(v mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(v[0], v[1], v[2])
}

// RotationX returns the homogeneous rotation about the X axis by angle radians.
func RotationX(angle float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(angle)
}

// RotationY returns the homogeneous rotation about the Y axis by angle radians.
func RotationY(angle float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(angle)
}

// RotationZ returns the homogeneous rotation about the Z axis by angle radians.
func RotationZ(angle float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DZ(angle)
}

// Frustum builds an OpenGL perspective projection from the clip-plane extents at the near plane.
//
// Parameters:
//   - left, right: horizontal extents of the near plane
//   - bottom, top: vertical extents of the near plane
//   - near, far: positive distances to the clip planes
//
// Returns:
//   - mgl32.Mat4: the projection matrix (column-major)
func Frustum(left, right, bottom, top, near, far float32) mgl32.Mat4 {
	return mgl32.Frustum(left, right, bottom, top, near, far)
}

// Perspective builds a symmetric frustum from a vertical field of view.
//
// Parameters:
//   - fovYDegrees: vertical field of view in degrees
//   - aspect: viewport width divided by height
//   - near, far: positive distances to the clip planes
//
// Returns:
//   - mgl32.Mat4: the projection matrix (column-major)
func Perspective(fovYDegrees, aspect, near, far float32) mgl32.Mat4 {
	top := near * math32.Tan(mgl32.DegToRad(fovYDegrees)/2)
	right := top * aspect
	return Frustum(-right, right, -top, top, near, far)
}

// Pose composes translation, a rotation about +Y and scale into a model matrix, applied in that order: T * Ry * S.
//
// Parameters:
//   - position: world position of the object's origin
//   - orientationDegrees: rotation about the Y axis in degrees
//   - scale: per-axis scale factors
//
// Returns:
//   - mgl32.Mat4: the model matrix
func Pose(position mgl32.Vec3, orientationDegrees float32, scale mgl32.Vec3) mgl32.Mat4 {
	t := Translation(position)
	r := RotationY(mgl32.DegToRad(orientationDegrees))
	s := mgl32.Scale3D(scale[0], scale[1], scale[2])
	return t.Mul4(r).Mul4(s)
}

// UniformScale returns a scale vector with all three components set to s.
func UniformScale(s float32) mgl32.Vec3 {
	return mgl32.Vec3{s, s, s}
}

// NormalMatrix returns the inverse-transpose of the upper-left 3x3 block of m.
// Normals transformed by it stay perpendicular to surfaces under non-uniform scale.
// A singular block yields the zero matrix.
func NormalMatrix(m mgl32.Mat4) mgl32.Mat3 {
	return m.Mat3().Inv().Transpose()
}

// WorldPosition returns the translation column of the inverse of view, which is the eye position in world space.
func WorldPosition(view mgl32.Mat4) mgl32.Vec3 {
	return view.Inv().Col(3).Vec3()
}

// WithoutTranslation returns m with its translation column zeroed.
func WithoutTranslation(m mgl32.Mat4) mgl32.Mat4 {
	m.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	return m
}
