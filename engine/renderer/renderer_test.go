package renderer_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// object is a minimal Releasable for driving the renderer.
type object struct {
	name     string
	program  *shader.Program
	va       *renderer.VertexArray
	textures []*renderer.Texture
	static   []renderer.Uniform
	released bool
}

func (o *object) Name() string                       { return o.name }
func (o *object) Program() *shader.Program           { return o.program }
func (o *object) VertexArray() *renderer.VertexArray { return o.va }
func (o *object) Textures() []*renderer.Texture      { return o.textures }
func (o *object) StaticUniforms() []renderer.Uniform { return o.static }
func (o *object) MarkReleased() bool {
	if o.released {
		return false
	}
	o.released = true
	return true
}

var allAttributes = []string{"position", "normal", "color", "texture_coord"}

func newRenderer(t *testing.T, options ...renderer.RendererBuilderOption) (renderer.Renderer, *renderertest.Backend) {
	t.Helper()
	fake := renderertest.New()
	r, err := renderer.NewRenderer(renderer.BackendTypeOpenGL, append([]renderer.RendererBuilderOption{renderer.WithBackend(fake)}, options...)...)
	require.NoError(t, err)
	return r, fake
}

func newProgram(fake *renderertest.Backend, name string, attributes, uniforms []string) *shader.Program {
	h := fake.AddProgram(attributes, uniforms)
	return shader.NewProgram(name, h, shader.Declarations{Attributes: attributes, Uniforms: uniforms}, fake, nil)
}

func quad() *model.Mesh {
	return model.NewMesh("quad",
		[]mgl32.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}},
		model.WithNormals([]mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}}),
		model.WithIndices([][3]uint32{{0, 1, 2}, {0, 2, 3}}),
	)
}

func solidImage(w, h uint32) *common.TextureStagingData {
	return &common.TextureStagingData{Pixels: make([]byte, 4*w*h), Width: w, Height: h}
}

func TestInitSetsGPUState(t *testing.T) {
	r, fake := newRenderer(t)
	require.NoError(t, r.Init(800, 600))

	assert.Equal(t, []string{"Viewport", "SetClearColor", "EnableFaceCulling", "EnableDepthTest", "SetDepthFunc", "CheckError"}, fake.CallNames())
	assert.Equal(t, []any{800, 600}, fake.Calls[0].Args)
	assert.Equal(t, []any{renderer.DefaultClearColor}, fake.Calls[1].Args)
	assert.Equal(t, renderer.DepthLess, fake.DepthFunc)
}

func TestInitWithoutCulling(t *testing.T) {
	r, fake := newRenderer(t, renderer.WithFaceCulling(false), renderer.WithClearColor(mgl32.Vec4{0, 0, 0, 1}))
	require.NoError(t, r.Init(10, 10))
	assert.Zero(t, fake.Count("EnableFaceCulling"))
	assert.Equal(t, []any{mgl32.Vec4{0, 0, 0, 1}}, fake.Named("SetClearColor")[0].Args)
}

func TestAllocateVertexArrayOneBufferPerAttribute(t *testing.T) {
	meshes := []*model.Mesh{
		quad(),
		model.NewMesh("tri", []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}),
		model.NewMesh("full", []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			model.WithNormals([]mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}}),
			model.WithUniformColor(mgl32.Vec4{1, 0, 0, 1}),
			model.WithTexCoords([]mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}}),
		),
	}
	for _, mesh := range meshes {
		t.Run(mesh.Name, func(t *testing.T) {
			r, fake := newRenderer(t)
			program := newProgram(fake, "all", allAttributes, nil)

			va, err := r.AllocateVertexArray(mesh, program)
			require.NoError(t, err)

			n := mesh.VertexCount()
			require.Len(t, va.Buffers, len(mesh.Attributes()))
			for i, b := range va.Buffers {
				assert.Equal(t, mesh.Attributes()[i], b.Attribute)
				assert.Equal(t, n, b.Rows)
				assert.Len(t, fake.ArrayData[b.Handle], n*b.Components)
			}
			assert.Equal(t, n, va.VertexCount)
			assert.Equal(t, mesh.IndexCount(), va.IndexCount)
			if mesh.Indexed() {
				assert.Equal(t, mesh.IndexData(), fake.ElementData[va.IndexBuffer])
			} else {
				assert.Zero(t, va.IndexBuffer)
			}
			assert.Equal(t, "BindVertexArray", fake.Calls[len(fake.Calls)-2].Name)
			assert.Equal(t, []any{uint32(0)}, fake.Calls[len(fake.Calls)-2].Args)
		})
	}
}

func TestAllocateVertexArrayMissingAttribute(t *testing.T) {
	r, fake := newRenderer(t)
	program := newProgram(fake, "positions_only", []string{"position"}, nil)
	fake.Reset()

	_, err := r.AllocateVertexArray(quad(), program)
	require.ErrorIs(t, err, renderer.ErrMissingAttribute)
	assert.Contains(t, err.Error(), "normal")
	assert.Zero(t, fake.Count("CreateVertexArray"))
	assert.Zero(t, fake.Count("CreateBuffer"))
}

func TestAllocateVertexArrayOnlyResolvesPresentAttributes(t *testing.T) {
	r, fake := newRenderer(t)
	program := newProgram(fake, "plain", []string{"position", "normal"}, nil)
	mesh := model.NewMesh("tri", []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})

	_, err := r.AllocateVertexArray(mesh, program)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Count("AttribLocation"))
}

func TestAllocateVertexArrayRejectsInvalidMesh(t *testing.T) {
	r, fake := newRenderer(t)
	program := newProgram(fake, "all", allAttributes, nil)
	fake.Reset()

	mesh := quad()
	mesh.Normals = mesh.Normals[:2]
	_, err := r.AllocateVertexArray(mesh, program)
	require.ErrorIs(t, err, model.ErrInvalidMesh)
	assert.Empty(t, fake.Calls)
}

func TestAllocate2DTexture(t *testing.T) {
	r, fake := newRenderer(t)
	tex, err := r.Allocate2DTexture("albedo", solidImage(4, 2), 0)
	require.NoError(t, err)

	assert.Equal(t, renderer.Texture2D, tex.Target)
	assert.Equal(t, uint32(0), tex.Unit)
	assert.Equal(t, 1, tex.RefCount())
	assert.Equal(t, []string{"CreateTexture", "BindTexture", "TexImage2D", "GenerateMipmap", "SetSampling", "BindTexture", "CheckError"}, fake.CallNames())
	assert.Equal(t, []any{renderer.Texture2D, renderer.FilterLinearMipmapLinear, renderer.WrapRepeat}, fake.Named("SetSampling")[0].Args)
}

func TestAllocate2DTextureRejectsBadPixels(t *testing.T) {
	r, fake := newRenderer(t)
	img := solidImage(4, 4)
	img.Pixels = img.Pixels[:10]

	_, err := r.Allocate2DTexture("bad", img, 0)
	require.ErrorIs(t, err, renderer.ErrInvalidImage)
	assert.Empty(t, fake.Calls)
}

func TestAllocateCubeMapUploadsFacesInOrder(t *testing.T) {
	r, fake := newRenderer(t)
	faces := make([]*common.TextureStagingData, 6)
	for i := range faces {
		faces[i] = solidImage(8, 8)
	}

	tex, err := r.AllocateCubeMapTexture("sky", faces, 1)
	require.NoError(t, err)
	assert.Equal(t, renderer.TextureCubeMap, tex.Target)
	assert.Equal(t, uint32(1), tex.Unit)

	uploads := fake.Named("TexImage2D")
	require.Len(t, uploads, 6)
	for i, c := range uploads {
		assert.Equal(t, []any{renderer.TextureCubeMap, i, uint32(8), uint32(8)}, c.Args)
	}
	assert.Equal(t, []any{renderer.TextureCubeMap, renderer.FilterLinear, renderer.WrapClampToEdge}, fake.Named("SetSampling")[0].Args)
	assert.Zero(t, fake.Count("GenerateMipmap"))
}

func TestAllocateCubeMapValidatesBeforeGPUCalls(t *testing.T) {
	five := make([]*common.TextureStagingData, 5)
	for i := range five {
		five[i] = solidImage(8, 8)
	}
	mismatched := append(append([]*common.TextureStagingData{}, five...), solidImage(4, 4))
	notSquare := make([]*common.TextureStagingData, 6)
	for i := range notSquare {
		notSquare[i] = solidImage(8, 4)
	}
	withNil := append(append([]*common.TextureStagingData{}, five...), nil)

	cases := map[string][]*common.TextureStagingData{
		"five faces": five,
		"mismatched": mismatched,
		"not square": notSquare,
		"nil face":   withNil,
		"no faces":   nil,
	}
	for name, faces := range cases {
		t.Run(name, func(t *testing.T) {
			r, fake := newRenderer(t)
			_, err := r.AllocateCubeMapTexture("sky", faces, 1)
			require.ErrorIs(t, err, renderer.ErrInvalidCubeMap)
			assert.Empty(t, fake.Calls)
		})
	}
}

func TestDrawProtocolOrder(t *testing.T) {
	r, fake := newRenderer(t)
	program := newProgram(fake, "textured", allAttributes, []string{"base_color", "PVM"})
	va, err := r.AllocateVertexArray(quad(), program)
	require.NoError(t, err)
	tex, err := r.Allocate2DTexture("albedo", solidImage(2, 2), 0)
	require.NoError(t, err)
	obj := &object{
		name:     "quad",
		program:  program,
		va:       va,
		textures: []*renderer.Texture{tex},
		static:   []renderer.Uniform{renderer.Vec3Uniform("base_color", mgl32.Vec3{1, 1, 1})},
	}

	fake.Reset()
	require.NoError(t, r.Draw(obj, []renderer.Uniform{renderer.Mat4Uniform("PVM", mgl32.Ident4())}))

	var names []string
	for _, n := range fake.CallNames() {
		if n != "UniformLocation" {
			names = append(names, n)
		}
	}
	assert.Equal(t, []string{
		"UseProgram",
		"Uniform3f",
		"UniformMatrix4",
		"ActiveTexture", "BindTexture",
		"BindVertexArray",
		"DrawElements",
		"BindVertexArray",
		"ActiveTexture", "BindTexture",
	}, names)
	binds := fake.Named("BindTexture")
	assert.Equal(t, []any{renderer.Texture2D, tex.Handle}, binds[0].Args)
	assert.Equal(t, []any{renderer.Texture2D, uint32(0)}, binds[1].Args)
	vaos := fake.Named("BindVertexArray")
	assert.Equal(t, []any{va.Handle}, vaos[0].Args)
	assert.Equal(t, []any{uint32(0)}, vaos[1].Args)
}

func TestDrawQuadIssuesOneIndexedDraw(t *testing.T) {
	r, fake := newRenderer(t)
	program := newProgram(fake, "plain", allAttributes, []string{"PVM"})
	va, err := r.AllocateVertexArray(quad(), program)
	require.NoError(t, err)
	obj := &object{name: "quad", program: program, va: va}

	cam := camera.NewCamera(camera.WithController(camera.NewCameraController(camera.WithDistance(5), camera.WithAngles(0, 0))))
	pvm := cam.ProjectionMatrix().Mul4(cam.ViewMatrix()).Mul4(mgl32.Ident4())

	fake.Reset()
	require.NoError(t, r.Draw(obj, []renderer.Uniform{renderer.Mat4Uniform("PVM", pvm)}))

	require.Len(t, fake.Draws, 1)
	assert.True(t, fake.Draws[0].Indexed)
	assert.Equal(t, 6, fake.Draws[0].Count)
	assert.Equal(t, 1, fake.Count("DrawElements"))
	assert.Zero(t, fake.Count("DrawArrays"))
	got, ok := fake.UniformValue(program.Handle(), "PVM")
	require.True(t, ok)
	assert.Equal(t, pvm, got)
}

func TestDrawNonIndexedUsesVertexCount(t *testing.T) {
	r, fake := newRenderer(t)
	program := newProgram(fake, "plain", allAttributes, nil)
	mesh := model.NewMesh("tri", []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	va, err := r.AllocateVertexArray(mesh, program)
	require.NoError(t, err)

	require.NoError(t, r.Draw(&object{name: "tri", program: program, va: va}, nil))
	require.Len(t, fake.Draws, 1)
	assert.False(t, fake.Draws[0].Indexed)
	assert.Equal(t, 3, fake.Draws[0].Count)
}

func TestDynamicUniformsOverrideStatic(t *testing.T) {
	r, fake := newRenderer(t)
	program := newProgram(fake, "plain", allAttributes, []string{"shininess", "base_color"})
	va, err := r.AllocateVertexArray(quad(), program)
	require.NoError(t, err)
	obj := &object{
		name:    "quad",
		program: program,
		va:      va,
		static: []renderer.Uniform{
			renderer.FloatUniform("shininess", 8),
			renderer.Vec3Uniform("base_color", mgl32.Vec3{1, 0, 0}),
			renderer.Vec3Uniform("base_color", mgl32.Vec3{0, 1, 0}),
		},
	}

	require.NoError(t, r.Draw(obj, []renderer.Uniform{renderer.FloatUniform("shininess", 64)}))

	shininess, _ := fake.UniformValue(program.Handle(), "shininess")
	assert.Equal(t, float32(64), shininess)
	color, _ := fake.UniformValue(program.Handle(), "base_color")
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, color)
}

func TestDrawMissingUniformFailsBeforeBinding(t *testing.T) {
	r, fake := newRenderer(t)
	program := newProgram(fake, "plain", allAttributes, []string{"PVM"})
	va, err := r.AllocateVertexArray(quad(), program)
	require.NoError(t, err)
	obj := &object{name: "quad", program: program, va: va, static: []renderer.Uniform{renderer.IntUniform("use_texture", 1)}}

	fake.Reset()
	err = r.Draw(obj, []renderer.Uniform{renderer.Mat4Uniform("PVM", mgl32.Ident4())})
	require.ErrorIs(t, err, renderer.ErrMissingUniform)
	assert.Contains(t, err.Error(), "use_texture")
	assert.Zero(t, fake.Count("UseProgram"))
	assert.Empty(t, fake.Draws)
}

func TestDrawWithoutVertexArray(t *testing.T) {
	r, fake := newRenderer(t)
	program := newProgram(fake, "plain", allAttributes, nil)
	err := r.Draw(&object{name: "empty", program: program}, nil)
	require.ErrorIs(t, err, renderer.ErrNoVertexArray)
	assert.Empty(t, fake.Draws)
}

func TestSkyboxDoesNotWriteDepth(t *testing.T) {
	r, fake := newRenderer(t)
	require.NoError(t, r.Init(800, 600))
	skyProgram := newProgram(fake, "cubemap", []string{"position"}, []string{"PVM"})
	plainProgram := newProgram(fake, "plain", allAttributes, []string{"PVM"})
	cube := model.NewMesh("cube", []mgl32.Vec3{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}})
	skyVA, err := r.AllocateVertexArray(cube, skyProgram)
	require.NoError(t, err)
	quadVA, err := r.AllocateVertexArray(quad(), plainProgram)
	require.NoError(t, err)
	pvm := []renderer.Uniform{renderer.Mat4Uniform("PVM", mgl32.Ident4())}

	r.Clear()
	require.NoError(t, r.DrawSkybox(&object{name: "skybox", program: skyProgram, va: skyVA}, pvm))
	assert.False(t, fake.DepthWritten)
	assert.True(t, fake.DepthWrite)
	assert.Equal(t, renderer.DepthLess, fake.DepthFunc)

	require.NoError(t, r.Draw(&object{name: "quad", program: plainProgram, va: quadVA}, pvm))
	require.Len(t, fake.Draws, 2)
	sky, foreground := fake.Draws[0], fake.Draws[1]
	assert.False(t, sky.DepthWrite)
	assert.Equal(t, renderer.DepthLessEqual, sky.DepthFunc)
	assert.True(t, foreground.DepthWrite)
	assert.Equal(t, renderer.DepthLess, foreground.DepthFunc)
}

func TestSkyboxRestoresDepthStateOnError(t *testing.T) {
	r, fake := newRenderer(t)
	program := newProgram(fake, "cubemap", []string{"position"}, nil)
	err := r.DrawSkybox(&object{name: "skybox", program: program}, nil)
	require.ErrorIs(t, err, renderer.ErrNoVertexArray)
	assert.True(t, fake.DepthWrite)
	assert.Equal(t, renderer.DepthLess, fake.DepthFunc)
}

func TestReleaseSharedResources(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r, fake := newRenderer(t, renderer.WithLogger(zap.New(core)))
	program := newProgram(fake, "plain", allAttributes, nil)
	va, err := r.AllocateVertexArray(quad(), program)
	require.NoError(t, err)
	tex, err := r.Allocate2DTexture("albedo", solidImage(2, 2), 0)
	require.NoError(t, err)

	a := &object{name: "a", program: program, va: va, textures: []*renderer.Texture{tex}}
	b := &object{name: "b", program: program.Retain(), va: va.Retain(), textures: []*renderer.Texture{tex.Retain()}}

	r.Release(a)
	assert.False(t, program.Released())
	assert.False(t, va.Released())
	assert.False(t, tex.Released())
	assert.Zero(t, fake.Count("DeleteProgram"))

	r.Release(a)
	assert.Equal(t, 1, logs.FilterMessage("render object already released").Len())
	assert.Equal(t, 1, program.RefCount())

	r.Release(b)
	assert.True(t, program.Released())
	assert.True(t, va.Released())
	assert.True(t, tex.Released())
	assert.Equal(t, 1, fake.Count("DeleteProgram"))
	assert.Equal(t, 1, fake.Count("DeleteVertexArray"))
	assert.Equal(t, 1, fake.Count("DeleteTexture"))
	assert.Equal(t, 3, fake.Count("DeleteBuffer"))
	assert.Empty(t, fake.Live)

	err = r.Draw(b, nil)
	assert.ErrorIs(t, err, renderer.ErrReleased)
}

func TestReleaseTwiceIsNoOp(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r, fake := newRenderer(t, renderer.WithLogger(zap.New(core)))
	tex, err := r.Allocate2DTexture("albedo", solidImage(2, 2), 0)
	require.NoError(t, err)

	r.ReleaseTexture(tex)
	r.ReleaseTexture(tex)
	assert.Equal(t, 1, fake.Count("DeleteTexture"))
	assert.Equal(t, 1, logs.FilterMessage("texture already released").Len())
}

func TestCheckErrorFailsAllocation(t *testing.T) {
	r, fake := newRenderer(t)
	program := newProgram(fake, "plain", allAttributes, nil)
	fake.PendingErr = assert.AnError

	_, err := r.AllocateVertexArray(quad(), program)
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, fake.Count("DeleteVertexArray"))
	for h, kind := range fake.Live {
		assert.Equal(t, "program", kind, "handle %d leaked", h)
	}
}
