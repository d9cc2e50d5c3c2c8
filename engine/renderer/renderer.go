package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// DefaultClearColor is the background color the color buffer is cleared to.
var DefaultClearColor = mgl32.Vec4{0.7, 0.7, 1.0, 1.0}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backendType RendererBackendType
	backend     RendererBackend
	logger      *zap.Logger

	clearColor  mgl32.Vec4
	faceCulling bool

	// locations is scratch space for the uniform locations of the draw in progress.
	locations []int32
}

// Drawable is anything the Renderer can draw: a program, a vertex array, the textures to bind
// and the uniforms that stay constant across frames.
type Drawable interface {
	// Name identifies the object in errors and logs.
	Name() string

	// Program returns the shader program the object draws with.
	Program() *shader.Program

	// VertexArray returns the object's geometry on the GPU.
	VertexArray() *VertexArray

	// Textures returns the textures bound for the draw, each on its own unit.
	Textures() []*Texture

	// StaticUniforms returns the uniforms set on every draw before the per-frame ones.
	StaticUniforms() []Uniform
}

// Releasable is a Drawable whose resources can be handed back to the Renderer exactly once.
type Releasable interface {
	Drawable

	// MarkReleased flags the object as released.
	//
	// Returns:
	//   - bool: false if the object was already released
	MarkReleased() bool
}

// Renderer defines the interface for the rendering system.
//
// The Renderer owns the GPU resource lifecycle (vertex arrays, buffers and textures) and executes the
// draw protocol for a single object: bind program, set static then per-frame uniforms, bind textures,
// bind the vertex array, draw, and unbind. All methods must be called from the thread that owns the
// graphics context.
type Renderer interface {
	// Init sets the initial GPU state: viewport, clear color, back-face culling and a LESS depth test.
	//
	// Parameters:
	//   - width: the framebuffer width in pixels
	//   - height: the framebuffer height in pixels
	//
	// Returns:
	//   - error: an error if the backend reports a failure
	Init(width, height int) error

	// Resize updates the viewport after the framebuffer size changes.
	//
	// Parameters:
	//   - width: the new framebuffer width in pixels
	//   - height: the new framebuffer height in pixels
	Resize(width, height int)

	// Clear clears the color and depth buffers.
	Clear()

	// Backend returns the GPU command backend.
	//
	// Returns:
	//   - RendererBackend: the active backend
	Backend() RendererBackend

	// AllocateVertexArray uploads a mesh into a new vertex array with one buffer per present attribute,
	// each attached to the program input of the same name, plus an element buffer for indexed meshes.
	// The mesh is validated and every attribute location is resolved before any GPU object is created.
	//
	// Parameters:
	//   - mesh: the mesh to upload
	//   - program: the program whose attribute locations the buffers are bound to
	//
	// Returns:
	//   - *VertexArray: the vertex array holding one reference
	//   - error: model.ErrInvalidMesh, ErrMissingAttribute or ErrReleased
	AllocateVertexArray(mesh *model.Mesh, program *shader.Program) (*VertexArray, error)

	// Allocate2DTexture uploads an RGBA image as a mipmapped, repeating 2D texture.
	//
	// Parameters:
	//   - name: the texture name used in logs and errors
	//   - img: the RGBA pixels in GL row order
	//   - unit: the texture unit the texture is bound to at draw time
	//
	// Returns:
	//   - *Texture: the texture holding one reference
	//   - error: ErrInvalidImage, or an error reported by the backend
	Allocate2DTexture(name string, img *common.TextureStagingData, unit uint32) (*Texture, error)

	// AllocateCubeMapTexture uploads six square RGBA faces, ordered +X, -X, +Y, -Y, +Z, -Z, as a
	// linearly filtered cube map clamped to edge on all three axes. The face set is validated before
	// any GPU object is created.
	//
	// Parameters:
	//   - name: the texture name used in logs and errors
	//   - faces: the six faces
	//   - unit: the texture unit the texture is bound to at draw time
	//
	// Returns:
	//   - *Texture: the texture holding one reference
	//   - error: ErrInvalidCubeMap, or an error reported by the backend
	AllocateCubeMapTexture(name string, faces []*common.TextureStagingData, unit uint32) (*Texture, error)

	// Draw runs the draw protocol for one object. Dynamic uniforms are set after static ones, so a
	// dynamic value wins when both carry the same name. Every uniform name is resolved before the
	// program is bound.
	//
	// Parameters:
	//   - d: the object to draw
	//   - dynamic: the per-frame uniforms
	//
	// Returns:
	//   - error: ErrMissingUniform, ErrNoVertexArray or ErrReleased
	Draw(d Drawable, dynamic []Uniform) error

	// DrawSkybox draws d with depth writes disabled and a LEQUAL depth test, then restores depth
	// writes and the LESS test.
	//
	// Parameters:
	//   - d: the skybox object
	//   - dynamic: the per-frame uniforms
	//
	// Returns:
	//   - error: any error Draw returns
	DrawSkybox(d Drawable, dynamic []Uniform) error

	// Release hands back an object's references to its vertex array, textures and program. Each GPU
	// object is deleted when its last holder releases it. Releasing the same object twice logs a
	// warning and does nothing.
	//
	// Parameters:
	//   - obj: the object to release
	Release(obj Releasable)

	// ReleaseVertexArray drops one reference to va, deleting it and its buffers at zero.
	ReleaseVertexArray(va *VertexArray)

	// ReleaseTexture drops one reference to t, deleting it at zero.
	ReleaseTexture(t *Texture)
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the given backend type. The OpenGL backend loads the GL
// function pointers, so a context must be current on the calling thread unless WithBackend supplies one.
//
// Parameters:
//   - backendType: the backend implementation to use
//   - options: functional options
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if the backend cannot be initialised
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		backendType: backendType,
		logger:      zap.NewNop(),
		clearColor:  DefaultClearColor,
		faceCulling: true,
	}
	for _, opt := range options {
		opt(r)
	}

	if r.backend == nil {
		switch backendType {
		case BackendTypeOpenGL:
			b, err := newGLRendererBackend()
			if err != nil {
				return nil, err
			}
			r.backend = b
		default:
			return nil, fmt.Errorf("unsupported renderer backend type %d", backendType)
		}
	}
	return r, nil
}

func (r *renderer) Backend() RendererBackend {
	return r.backend
}

func (r *renderer) Init(width, height int) error {
	r.backend.Viewport(width, height)
	r.backend.SetClearColor(r.clearColor)
	if r.faceCulling {
		r.backend.EnableFaceCulling()
	}
	r.backend.EnableDepthTest()
	r.backend.SetDepthFunc(DepthLess)
	if err := r.backend.CheckError("init"); err != nil {
		return err
	}
	r.logger.Info("renderer initialised", zap.Int("width", width), zap.Int("height", height))
	return nil
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.Viewport(width, height)
}

func (r *renderer) Clear() {
	r.backend.Clear()
}
