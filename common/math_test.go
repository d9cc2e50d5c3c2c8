package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const eps = 1e-5

func TestPoseAppliesScaleThenRotationThenTranslation(t *testing.T) {
	m := Pose(mgl32.Vec3{1.5, 0, 0}, 90, UniformScale(0.5))

	p := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	// (1,0,0) scaled to (0.5,0,0), rotated +90 about Y to (0,0,-0.5), moved by +1.5 in X.
	assert.InDelta(t, 1.5, p[0], eps)
	assert.InDelta(t, 0, p[1], eps)
	assert.InDelta(t, -0.5, p[2], eps)
}

func TestPerspectiveMatchesFrustumExtents(t *testing.T) {
	aspect := float32(800) / 600
	p := Perspective(60, aspect, 0.1, 20)

	f := 1 / math32.Tan(mgl32.DegToRad(30))
	assert.InDelta(t, f/aspect, p.At(0, 0), eps)
	assert.InDelta(t, f, p.At(1, 1), eps)
	assert.InDelta(t, -(20+0.1)/(20-0.1), p.At(2, 2), eps)
	assert.InDelta(t, -2*20*0.1/(20-0.1), p.At(2, 3), eps)
	assert.InDelta(t, -1, p.At(3, 2), eps)
	assert.InDelta(t, 0, p.At(3, 3), eps)
}

func TestProjectionViewModelIsAssociative(t *testing.T) {
	p := Perspective(60, 4.0/3.0, 0.1, 20)
	v := mgl32.Translate3D(0, 0, -5).Mul4(RotationX(0.3)).Mul4(RotationY(-1.1)).Mul4(mgl32.Translate3D(-0.2, 0.4, 0))
	m := Pose(mgl32.Vec3{-1.5, 0.2, 0.7}, 33, mgl32.Vec3{0.5, 2, 1})

	left := p.Mul4(v).Mul4(m)
	right := p.Mul4(v.Mul4(m))
	assert.True(t, left.ApproxEqualThreshold(right, 1e-4), "left %v right %v", left, right)
}

func TestNormalMatrixUniformScale(t *testing.T) {
	const s = 2
	m := RotationZ(0.7).Mul4(mgl32.Scale3D(s, s, s))

	n := NormalMatrix(m)
	upper := m.Mat3()
	// (R*sI)^-T = R/s, so scaling by s*s recovers the upper block.
	assert.True(t, n.Mul(s*s).ApproxEqualThreshold(upper, eps), "normal %v upper %v", n, upper)
}

func TestNormalMatrixNonUniformScaleKeepsNormalsPerpendicular(t *testing.T) {
	m := RotationZ(mgl32.DegToRad(45)).Mul4(mgl32.Scale3D(1, 3, 1))
	n := NormalMatrix(m)
	upper := m.Mat3()

	// A surface in the plane x=y with normal (1,-1,0) and tangent (1,1,0).
	normal := mgl32.Vec3{1, -1, 0}
	tangent := mgl32.Vec3{1, 1, 0}

	transformedTangent := upper.Mul3x1(tangent)
	assert.InDelta(t, 0, n.Mul3x1(normal).Dot(transformedTangent), eps)
	assert.Greater(t, math32.Abs(upper.Mul3x1(normal).Dot(transformedTangent)), float32(0.1))
	assert.False(t, n.ApproxEqualThreshold(upper, eps))
}

func TestNormalMatrixAgainstGonumInverse(t *testing.T) {
	m := Pose(mgl32.Vec3{3, -2, 1}, 27, mgl32.Vec3{0.5, 2, 4}).Mul4(RotationX(0.4))
	upper := m.Mat3()

	data := make([]float64, 0, 9)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			data = append(data, float64(upper.At(row, col)))
		}
	}
	var inv mat.Dense
	require.NoError(t, inv.Inverse(mat.NewDense(3, 3, data)))

	n := NormalMatrix(m)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			// transpose: n[row][col] == inv[col][row]
			assert.InDelta(t, inv.At(col, row), float64(n.At(row, col)), 1e-4, "row %d col %d", row, col)
		}
	}
}

func TestWorldPositionInvertsViewTranslation(t *testing.T) {
	view := mgl32.Translate3D(0, 0, -5)
	pos := WorldPosition(view)
	assert.InDelta(t, 0, pos[0], eps)
	assert.InDelta(t, 0, pos[1], eps)
	assert.InDelta(t, 5, pos[2], eps)

	view = view.Mul4(RotationY(mgl32.DegToRad(90)))
	pos = WorldPosition(view)
	// camera looks down -Z in eye space, rotated 90 deg about Y it sits on -X.
	assert.InDelta(t, -5, pos[0], eps)
	assert.InDelta(t, 0, pos[2], eps)
}

func TestWithoutTranslationKeepsRotation(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3).Mul4(RotationX(0.5))
	stripped := WithoutTranslation(m)

	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, stripped.Col(3))
	assert.True(t, stripped.Mat3().ApproxEqualThreshold(m.Mat3(), eps))
	assert.Equal(t, mgl32.Vec4{1, 2, 3, 1}, m.Col(3), "input must not be modified")
}
