package renderer

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// glRendererBackendImpl issues OpenGL 4.1 core calls. It holds no state of its own: all state lives in the
// context current on the calling thread.
type glRendererBackendImpl struct{}

var _ RendererBackend = &glRendererBackendImpl{}

// newGLRendererBackend loads the GL function pointers for the current context.
// A window with a current OpenGL context must exist before calling this.
func newGLRendererBackend() (RendererBackend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise OpenGL: %w", err)
	}
	return &glRendererBackendImpl{}, nil
}

func glTarget(t TextureTarget) uint32 {
	if t == TextureCubeMap {
		return gl.TEXTURE_CUBE_MAP
	}
	return gl.TEXTURE_2D
}

func (b *glRendererBackendImpl) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (b *glRendererBackendImpl) SetClearColor(c mgl32.Vec4) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
}

func (b *glRendererBackendImpl) EnableFaceCulling() {
	gl.Enable(gl.CULL_FACE)
}

func (b *glRendererBackendImpl) EnableDepthTest() {
	gl.Enable(gl.DEPTH_TEST)
}

func (b *glRendererBackendImpl) DepthMask(write bool) {
	gl.DepthMask(write)
}

func (b *glRendererBackendImpl) SetDepthFunc(fn DepthFunc) {
	if fn == DepthLessEqual {
		gl.DepthFunc(gl.LEQUAL)
		return
	}
	gl.DepthFunc(gl.LESS)
}

func (b *glRendererBackendImpl) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (b *glRendererBackendImpl) CreateVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (b *glRendererBackendImpl) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (b *glRendererBackendImpl) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (b *glRendererBackendImpl) CreateBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (b *glRendererBackendImpl) ArrayBufferData(buf uint32, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(data), gl.Ptr(data), gl.STATIC_DRAW)
}

func (b *glRendererBackendImpl) ElementBufferData(buf uint32, data []uint32) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 4*len(data), gl.Ptr(data), gl.STATIC_DRAW)
}

func (b *glRendererBackendImpl) DeleteBuffer(buf uint32) {
	gl.DeleteBuffers(1, &buf)
}

func (b *glRendererBackendImpl) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (b *glRendererBackendImpl) VertexAttribPointer(location uint32, components int) {
	gl.VertexAttribPointer(location, int32(components), gl.FLOAT, false, 0, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(location)
}

func (b *glRendererBackendImpl) CreateTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	return tex
}

func (b *glRendererBackendImpl) ActiveTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
}

func (b *glRendererBackendImpl) BindTexture(target TextureTarget, tex uint32) {
	gl.BindTexture(glTarget(target), tex)
}

func (b *glRendererBackendImpl) TexImage2D(target TextureTarget, face int, img *common.TextureStagingData) {
	imageTarget := uint32(gl.TEXTURE_2D)
	if target == TextureCubeMap {
		imageTarget = gl.TEXTURE_CUBE_MAP_POSITIVE_X + uint32(face)
	}
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		imageTarget,
		0,
		gl.RGBA,
		int32(img.Width),
		int32(img.Height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(img.Pixels),
	)
}

func (b *glRendererBackendImpl) GenerateMipmap(target TextureTarget) {
	gl.GenerateMipmap(glTarget(target))
}

func (b *glRendererBackendImpl) SetSampling(target TextureTarget, filter Filter, wrap Wrap) {
	t := glTarget(target)
	minFilter := int32(gl.LINEAR)
	if filter == FilterLinearMipmapLinear {
		minFilter = gl.LINEAR_MIPMAP_LINEAR
	}
	gl.TexParameteri(t, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(t, gl.TEXTURE_MIN_FILTER, minFilter)

	mode := int32(gl.REPEAT)
	if wrap == WrapClampToEdge {
		mode = gl.CLAMP_TO_EDGE
	}
	gl.TexParameteri(t, gl.TEXTURE_WRAP_S, mode)
	gl.TexParameteri(t, gl.TEXTURE_WRAP_T, mode)
	if target == TextureCubeMap {
		gl.TexParameteri(t, gl.TEXTURE_WRAP_R, mode)
	}
}

func (b *glRendererBackendImpl) DeleteTexture(tex uint32) {
	gl.DeleteTextures(1, &tex)
}

func (b *glRendererBackendImpl) CompileProgram(vertexSource, fragmentSource string) (uint32, error) {
	vs, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("%w: vertex stage: %v", shader.ErrCompile, err)
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("%w: fragment stage: %v", shader.ErrCompile, err)
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		log := programInfoLog(program)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%w: %s", shader.ErrLink, log)
	}
	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	return program, nil
}

func (b *glRendererBackendImpl) ValidateProgram(program uint32) error {
	gl.ValidateProgram(program)
	var status int32
	gl.GetProgramiv(program, gl.VALIDATE_STATUS, &status)
	if status == gl.FALSE {
		return fmt.Errorf("%w: %s", shader.ErrValidate, programInfoLog(program))
	}
	return nil
}

func (b *glRendererBackendImpl) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (b *glRendererBackendImpl) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (b *glRendererBackendImpl) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (b *glRendererBackendImpl) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (b *glRendererBackendImpl) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (b *glRendererBackendImpl) Uniform3f(location int32, v mgl32.Vec3) {
	gl.Uniform3f(location, v[0], v[1], v[2])
}

func (b *glRendererBackendImpl) UniformMatrix3(location int32, m mgl32.Mat3) {
	gl.UniformMatrix3fv(location, 1, false, &m[0])
}

func (b *glRendererBackendImpl) UniformMatrix4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (b *glRendererBackendImpl) DrawElements(count int) {
	gl.DrawElements(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, nil)
}

func (b *glRendererBackendImpl) DrawArrays(count int) {
	gl.DrawArrays(gl.TRIANGLES, 0, int32(count))
}

func (b *glRendererBackendImpl) CheckError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: gl error 0x%x", op, code)
	}
	return nil
}

// compileShader compiles a single stage and returns the driver log on failure.
func compileShader(source string, stage uint32) (uint32, error) {
	s := gl.CreateShader(stage)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(s, 1, csources, nil)
	free()
	gl.CompileShader(s)

	var status int32
	gl.GetShaderiv(s, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(s, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(s, logLength, nil, gl.Str(log))
		gl.DeleteShader(s)
		return 0, fmt.Errorf("%s", strings.TrimRight(log, "\x00"))
	}
	return s, nil
}

func programInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}
