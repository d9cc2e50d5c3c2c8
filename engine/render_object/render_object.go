package render_object

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// Names of the uniforms computed per frame.
const (
	UniformPVM            = "PVM"
	UniformModel          = "M"
	UniformNormalMatrix   = "normal_matrix"
	UniformCameraPosition = "camera_position"
)

// DynamicUniform is a bit set of the optional per-frame uniforms an object's program consumes.
// PVM is always produced.
type DynamicUniform uint8

const (
	DynamicModel DynamicUniform = 1 << iota
	DynamicNormalMatrix
	DynamicCameraPosition

	// DynamicLit is the set a lit program consumes.
	DynamicLit = DynamicModel | DynamicNormalMatrix | DynamicCameraPosition
)

// Has reports whether every flag in f is set.
func (d DynamicUniform) Has(f DynamicUniform) bool {
	return d&f == f
}

type renderObject struct {
	name     string
	mesh     *model.Mesh
	program  *shader.Program
	va       *renderer.VertexArray
	textures []*renderer.Texture
	static   []renderer.Uniform

	animation Animation
	dynamic   DynamicUniform

	modelMatrix  mgl32.Mat4
	normalMatrix mgl32.Mat3

	released bool
	frame    []renderer.Uniform
}

// RenderObject packages one drawable scene object: its vertex array, its shared program, the textures
// bound for its draw and its static uniforms, together with the model matrix and optional animation
// that drive its per-frame uniforms.
//
// A RenderObject holds one reference to each of its vertex array, textures and program. Several
// objects may share any of them; the Renderer deletes each GPU object when its last holder is released.
type RenderObject interface {
	renderer.Releasable

	// Mesh returns the mesh the object was built from.
	//
	// Returns:
	//   - *model.Mesh: the source mesh
	Mesh() *model.Mesh

	// ModelMatrix returns the current model-to-world transform.
	//
	// Returns:
	//   - mgl32.Mat4: the model matrix
	ModelMatrix() mgl32.Mat4

	// SetModelMatrix replaces the model matrix and recomputes the cached normal matrix.
	//
	// Parameters:
	//   - m: the new model matrix
	SetModelMatrix(m mgl32.Mat4)

	// NormalMatrix returns the cached inverse-transpose of the model matrix's upper 3x3 block.
	//
	// Returns:
	//   - mgl32.Mat3: the normal matrix
	NormalMatrix() mgl32.Mat3

	// Animation returns the attached animation.
	//
	// Returns:
	//   - Animation: the animation, AnimationNone if there is none
	Animation() Animation

	// SetAnimation attaches an animation.
	//
	// Parameters:
	//   - a: the animation
	SetAnimation(a Animation)

	// Animated reports whether an animation other than AnimationNone is attached.
	//
	// Returns:
	//   - bool: true if Animate changes the model matrix
	Animated() bool

	// Animate applies one animation step to the model matrix and recomputes the normal matrix.
	// It does nothing for objects without an animation.
	Animate()

	// DynamicUniforms returns the optional per-frame uniforms the object's program consumes.
	//
	// Returns:
	//   - DynamicUniform: the flag set
	DynamicUniforms() DynamicUniform

	// FrameUniforms computes the per-frame uniforms: PVM always, then M, normal_matrix and
	// camera_position when the object's flag set includes them. The returned slice is reused by the
	// next call.
	//
	// Parameters:
	//   - view: the camera view matrix
	//   - projection: the camera projection matrix
	//   - cameraPosition: the world-space eye position
	//
	// Returns:
	//   - []renderer.Uniform: the uniforms for this frame
	FrameUniforms(view, projection mgl32.Mat4, cameraPosition mgl32.Vec3) []renderer.Uniform
}

var _ RenderObject = &renderObject{}

// NewRenderObject creates a RenderObject. It takes over the caller's references to program, va and
// any textures passed with WithTextures. The model matrix defaults to the mesh transform.
//
// Parameters:
//   - name: the object name used in errors and logs
//   - mesh: the source mesh
//   - program: the shader program
//   - va: the vertex array allocated for mesh and program
//   - options: functional options
//
// Returns:
//   - RenderObject: the render object
func NewRenderObject(name string, mesh *model.Mesh, program *shader.Program, va *renderer.VertexArray, options ...RenderObjectBuilderOption) RenderObject {
	o := &renderObject{
		name:        name,
		mesh:        mesh,
		program:     program,
		va:          va,
		dynamic:     DynamicLit,
		modelMatrix: mgl32.Ident4(),
	}
	if mesh != nil {
		o.modelMatrix = mesh.Transform
	}
	for _, option := range options {
		option(o)
	}
	o.normalMatrix = common.NormalMatrix(o.modelMatrix)
	return o
}

func (o *renderObject) Name() string {
	return o.name
}

func (o *renderObject) Program() *shader.Program {
	return o.program
}

func (o *renderObject) VertexArray() *renderer.VertexArray {
	return o.va
}

func (o *renderObject) Textures() []*renderer.Texture {
	return o.textures
}

func (o *renderObject) StaticUniforms() []renderer.Uniform {
	return o.static
}

func (o *renderObject) MarkReleased() bool {
	if o.released {
		return false
	}
	o.released = true
	return true
}

func (o *renderObject) Mesh() *model.Mesh {
	return o.mesh
}

func (o *renderObject) ModelMatrix() mgl32.Mat4 {
	return o.modelMatrix
}

func (o *renderObject) SetModelMatrix(m mgl32.Mat4) {
	o.modelMatrix = m
	o.normalMatrix = common.NormalMatrix(m)
}

func (o *renderObject) NormalMatrix() mgl32.Mat3 {
	return o.normalMatrix
}

func (o *renderObject) Animation() Animation {
	return o.animation
}

func (o *renderObject) SetAnimation(a Animation) {
	o.animation = a
}

func (o *renderObject) Animated() bool {
	return o.animation.Kind != AnimationNone
}

func (o *renderObject) Animate() {
	if !o.Animated() {
		return
	}
	o.SetModelMatrix(o.animation.Apply(o.modelMatrix))
}

func (o *renderObject) DynamicUniforms() DynamicUniform {
	return o.dynamic
}

func (o *renderObject) FrameUniforms(view, projection mgl32.Mat4, cameraPosition mgl32.Vec3) []renderer.Uniform {
	o.frame = append(o.frame[:0], renderer.Mat4Uniform(UniformPVM, projection.Mul4(view).Mul4(o.modelMatrix)))
	if o.dynamic.Has(DynamicModel) {
		o.frame = append(o.frame, renderer.Mat4Uniform(UniformModel, o.modelMatrix))
	}
	if o.dynamic.Has(DynamicNormalMatrix) {
		o.frame = append(o.frame, renderer.Mat3Uniform(UniformNormalMatrix, o.normalMatrix))
	}
	if o.dynamic.Has(DynamicCameraPosition) {
		o.frame = append(o.frame, renderer.Vec3Uniform(UniformCameraPosition, cameraPosition))
	}
	return o.frame
}
