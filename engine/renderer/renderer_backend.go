package renderer

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeOpenGL selects the OpenGL 4.1 core profile backend.
	BackendTypeOpenGL RendererBackendType = iota
)

// TextureTarget is the kind of texture a handle is bound as.
type TextureTarget int

const (
	Texture2D TextureTarget = iota
	TextureCubeMap
)

func (t TextureTarget) String() string {
	switch t {
	case Texture2D:
		return "2d"
	case TextureCubeMap:
		return "cube_map"
	}
	return "unknown"
}

// DepthFunc is the depth comparison used by the depth test.
type DepthFunc int

const (
	// DepthLess passes fragments strictly closer than the stored depth. This is the default.
	DepthLess DepthFunc = iota
	// DepthLessEqual also passes fragments at exactly the stored depth, used for geometry at the far plane.
	DepthLessEqual
)

// Filter selects texture minification filtering. Magnification is always linear.
type Filter int

const (
	FilterLinear Filter = iota
	FilterLinearMipmapLinear
)

// Wrap selects how texture coordinates outside [0, 1] are resolved. Cube maps apply it to S, T and R.
type Wrap int

const (
	WrapRepeat Wrap = iota
	WrapClampToEdge
)

// RendererBackend is the GPU command surface the Renderer drives.
// It is a thin, stateful mirror of the graphics API: every method maps to one or a few API calls
// and must be invoked from the thread that owns the context.
type RendererBackend interface {
	// Viewport sets the framebuffer region rendered into.
	Viewport(width, height int)
	// SetClearColor sets the color Clear fills the color buffer with.
	SetClearColor(color mgl32.Vec4)
	// EnableFaceCulling turns on back-face culling.
	EnableFaceCulling()
	// EnableDepthTest turns on the depth test.
	EnableDepthTest()
	// DepthMask enables or disables writes to the depth buffer.
	DepthMask(write bool)
	// SetDepthFunc sets the depth comparison.
	SetDepthFunc(fn DepthFunc)
	// Clear clears the color and depth buffers.
	Clear()

	// CreateVertexArray allocates a vertex array object.
	CreateVertexArray() uint32
	// BindVertexArray binds a vertex array, 0 unbinds.
	BindVertexArray(vao uint32)
	// DeleteVertexArray frees a vertex array object.
	DeleteVertexArray(vao uint32)
	// CreateBuffer allocates a buffer object.
	CreateBuffer() uint32
	// ArrayBufferData binds buf as the vertex attribute buffer and uploads data with static usage.
	ArrayBufferData(buf uint32, data []float32)
	// ElementBufferData binds buf as the element buffer of the bound vertex array and uploads data.
	ElementBufferData(buf uint32, data []uint32)
	// DeleteBuffer frees a buffer object.
	DeleteBuffer(buf uint32)
	// AttribLocation returns the location of a named vertex attribute in program, or -1 if it is not declared.
	AttribLocation(program uint32, name string) int32
	// VertexAttribPointer points location at the bound attribute buffer as tightly packed floats and enables it.
	VertexAttribPointer(location uint32, components int)

	// CreateTexture allocates a texture object.
	CreateTexture() uint32
	// ActiveTexture selects the texture unit later binds apply to.
	ActiveTexture(unit uint32)
	// BindTexture binds tex to target on the active unit, 0 unbinds.
	BindTexture(target TextureTarget, tex uint32)
	// TexImage2D uploads RGBA pixels to the bound texture. For cube maps face selects +X, -X, +Y, -Y, +Z, -Z by index 0..5.
	TexImage2D(target TextureTarget, face int, img *common.TextureStagingData)
	// GenerateMipmap builds the mip chain of the bound texture.
	GenerateMipmap(target TextureTarget)
	// SetSampling sets filtering and wrapping on the bound texture.
	SetSampling(target TextureTarget, filter Filter, wrap Wrap)
	// DeleteTexture frees a texture object.
	DeleteTexture(tex uint32)

	// CompileProgram compiles both stages and links them into a program.
	CompileProgram(vertexSource, fragmentSource string) (uint32, error)
	// ValidateProgram checks the program can execute in the current state.
	ValidateProgram(program uint32) error
	// UseProgram binds a program, 0 unbinds.
	UseProgram(program uint32)
	// DeleteProgram frees a program.
	DeleteProgram(program uint32)
	// UniformLocation returns the location of a named uniform in program, or -1 if it is not declared.
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform3f(location int32, v mgl32.Vec3)
	UniformMatrix3(location int32, m mgl32.Mat3)
	UniformMatrix4(location int32, m mgl32.Mat4)

	// DrawElements draws count indices from the bound element buffer as triangles.
	DrawElements(count int)
	// DrawArrays draws count vertices as triangles.
	DrawArrays(count int)

	// CheckError reports the first pending API error, tagged with op.
	CheckError(op string) error
}
