package render_object

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func triangle() *model.Mesh {
	return model.NewMesh("tri", []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		model.WithTransform(common.Translation(mgl32.Vec3{2, 0, 0})))
}

func uniformNames(u []renderer.Uniform) []string {
	out := make([]string, len(u))
	for i, v := range u {
		out[i] = v.Name
	}
	return out
}

func TestRotationApplyAboutPivot(t *testing.T) {
	pivot := mgl32.Vec3{1.5, 0, 0}
	a := Rotation(mgl32.Vec3{0, 2, 0}, pivot, mgl32.DegToRad(90))
	m := common.Translation(pivot)

	stepped := a.Apply(m)
	// an object sitting on the pivot stays there
	at := stepped.Col(3).Vec3()
	assert.InDeltaSlice(t, pivot[:], at[:], eps)

	// a point one unit in +X of the pivot moves to -Z of it
	p := stepped.Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assert.InDeltaSlice(t, []float32{1.5, 0, -1}, p[:], eps, "got %v", p)
}

func TestAnimationNoneIsIdentity(t *testing.T) {
	m := common.Translation(mgl32.Vec3{1, 2, 3})
	assert.Equal(t, m, Animation{}.Apply(m))
	assert.Equal(t, m, Rotation(mgl32.Vec3{}, mgl32.Vec3{}, 1).Apply(m))
	assert.Equal(t, "none", AnimationNone.String())
	assert.Equal(t, "rotate", AnimationRotate.String())
}

func TestNewRenderObjectDefaults(t *testing.T) {
	mesh := triangle()
	o := NewRenderObject("tri", mesh, nil, nil)
	assert.Equal(t, mesh.Transform, o.ModelMatrix())
	assert.Equal(t, DynamicLit, o.DynamicUniforms())
	assert.False(t, o.Animated())
	assert.Same(t, mesh, o.Mesh())
	assert.True(t, o.NormalMatrix().ApproxEqualThreshold(mgl32.Ident3(), eps))
}

func TestFrameUniforms(t *testing.T) {
	o := NewRenderObject("tri", triangle(), nil, nil)
	view := common.Translation(mgl32.Vec3{0, 0, -5})
	projection := common.Perspective(60, 4.0/3.0, 0.1, 20)
	eye := mgl32.Vec3{0, 0, 5}

	u := o.FrameUniforms(view, projection, eye)
	assert.Equal(t, []string{UniformPVM, UniformModel, UniformNormalMatrix, UniformCameraPosition}, uniformNames(u))
	assert.True(t, u[0].Value().(mgl32.Mat4).ApproxEqualThreshold(projection.Mul4(view).Mul4(o.ModelMatrix()), eps))
	assert.Equal(t, eye, u[3].Value())

	sky := NewRenderObject("sky", triangle(), nil, nil, WithDynamicUniforms(0), WithModelMatrix(mgl32.Ident4()))
	u = sky.FrameUniforms(view, projection, eye)
	require.Len(t, u, 1)
	assert.Equal(t, UniformPVM, u[0].Name)
	assert.True(t, u[0].Value().(mgl32.Mat4).ApproxEqualThreshold(projection.Mul4(view), eps))
}

func TestAnimateUpdatesCachedMatrices(t *testing.T) {
	pose := common.Pose(mgl32.Vec3{1.5, 0, 0}, 0, mgl32.Vec3{0.5, 0.5, 0.5})
	o := NewRenderObject("bunny", triangle(), nil, nil,
		WithModelMatrix(pose),
		WithAnimation(Rotation(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1.5, 0, 0}, mgl32.DegToRad(10))),
	)
	require.True(t, o.Animated())
	before := o.NormalMatrix()

	o.Animate()
	assert.False(t, o.ModelMatrix().ApproxEqualThreshold(pose, eps))
	assert.False(t, o.NormalMatrix().ApproxEqualThreshold(before, eps))
	normal, expected := o.NormalMatrix(), common.NormalMatrix(o.ModelMatrix())
	assert.InDeltaSlice(t, expected[:], normal[:], eps)

	// static objects never change
	static := NewRenderObject("static", triangle(), nil, nil)
	m := static.ModelMatrix()
	static.Animate()
	assert.Equal(t, m, static.ModelMatrix())
}

func TestMarkReleasedOnce(t *testing.T) {
	o := NewRenderObject("tri", triangle(), nil, nil,
		WithStaticUniforms(renderer.FloatUniform("shininess", 8)),
		WithTextures(&renderer.Texture{Name: "t"}),
	)
	assert.Len(t, o.StaticUniforms(), 1)
	assert.Len(t, o.Textures(), 1)
	assert.True(t, o.MarkReleased())
	assert.False(t, o.MarkReleased())
}
