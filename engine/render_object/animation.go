package render_object

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
)

// AnimationKind tags the per-frame model mutation an Animation performs.
type AnimationKind int

const (
	// AnimationNone leaves the model matrix unchanged.
	AnimationNone AnimationKind = iota

	// AnimationRotate rotates the model by a fixed angle about an axis through a pivot point every step.
	AnimationRotate
)

func (k AnimationKind) String() string {
	switch k {
	case AnimationNone:
		return "none"
	case AnimationRotate:
		return "rotate"
	}
	return "unknown"
}

// Animation describes an incremental model transform applied once per animated frame.
// The zero value is AnimationNone.
type Animation struct {
	Kind AnimationKind

	// Axis is the rotation axis for AnimationRotate. It does not need to be normalized.
	Axis mgl32.Vec3

	// Pivot is the world-space point the rotation axis passes through.
	Pivot mgl32.Vec3

	// Step is the rotation per frame in radians.
	Step float32
}

// Rotation returns an AnimationRotate turning by step radians per frame about axis through pivot.
//
// Parameters:
//   - axis: the rotation axis
//   - pivot: a point on the axis, in world space
//   - step: the angle per frame in radians
//
// Returns:
//   - Animation: the rotation animation
func Rotation(axis, pivot mgl32.Vec3, step float32) Animation {
	return Animation{Kind: AnimationRotate, Axis: axis, Pivot: pivot, Step: step}
}

// Apply returns m after one animation step. A rotation is applied in world space:
// T(pivot) * R(step, axis) * T(-pivot) * m.
//
// Parameters:
//   - m: the current model matrix
//
// Returns:
//   - mgl32.Mat4: the stepped model matrix
func (a Animation) Apply(m mgl32.Mat4) mgl32.Mat4 {
	switch a.Kind {
	case AnimationRotate:
		if a.Axis.Len() == 0 || a.Step == 0 {
			return m
		}
		r := mgl32.HomogRotate3D(a.Step, a.Axis.Normalize())
		return common.Translation(a.Pivot).Mul4(r).Mul4(common.Translation(a.Pivot.Mul(-1))).Mul4(m)
	default:
		return m
	}
}
