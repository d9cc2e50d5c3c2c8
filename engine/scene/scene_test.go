package scene_test

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/loader"
	"github.com/Carmen-Shannon/oxy-gl/engine/render_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func le(t *testing.T, values ...any) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, v := range values {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	}
	return buf.Bytes()
}

func solidPNG(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := range 2 {
		for x := range 2 {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// ringsGLTF draws one textured triangle from three nodes, two of which the rings constructor removes.
func ringsGLTF(t *testing.T) []byte {
	t.Helper()
	data := le(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, []float32{0, 0, 1, 0, 0, 1}, []uint16{0, 1, 2})
	doc := fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0, 1, 2]}],
  "nodes": [
    {"name": "Rings", "mesh": 0},
    {"name": "Grass", "mesh": 0, "translation": [0, -5, 0]},
    {"name": "Object_23", "mesh": 0, "translation": [5, 0, 0]}
  ],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0, "TEXCOORD_0": 1}, "indices": 2, "material": 0}]}],
  "materials": [{"pbrMetallicRoughness": {"baseColorTexture": {"index": 0}}}],
  "textures": [{"source": 0}],
  "images": [{"uri": "data:image/png;base64,%s"}],
  "buffers": [{"byteLength": %d, "uri": "data:application/octet-stream;base64,%s"}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 24},
    {"buffer": 0, "byteOffset": 60, "byteLength": 6}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
    {"bufferView": 1, "componentType": 5126, "count": 3, "type": "VEC2"},
    {"bufferView": 2, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ]
}`, base64.StdEncoding.EncodeToString(solidPNG(t, color.RGBA{200, 30, 30, 255})), len(data), base64.StdEncoding.EncodeToString(data))
	return []byte(doc)
}

const bunnyOBJ = `v -1 0 -1
v 1 0 -1
v 1 0 1
v -1 0 1
v 0 2 0
vt 0 0
f 1 2 5
f 2 3 5
f 3 4 5
f 4 1 5
`

func logoSTL(t *testing.T) []byte {
	t.Helper()
	return le(t,
		make([]byte, 80),
		uint32(1),
		[3]float32{0, 0, 1},
		[3]float32{0, 0, 0}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0},
		uint16(0),
	)
}

func assetFS(t *testing.T) fstest.MapFS {
	t.Helper()
	files := fstest.MapFS{
		"models/olympic_rings.glb": {Data: ringsGLTF(t)},
		"models/bunny_world.obj":   {Data: []byte(bunnyOBJ)},
		"models/logo.stl":          {Data: logoSTL(t)},
	}
	for i, face := range renderer.CubeFaceNames {
		files["textures/paris_cubemap/"+face+".png"] = &fstest.MapFile{Data: solidPNG(t, color.RGBA{uint8(40 * i), 100, 200, 255})}
	}
	return files
}

type fixture struct {
	backend  *renderertest.Backend
	renderer renderer.Renderer
	factory  scene.Factory
	camera   camera.Camera
}

func newFixture(t *testing.T, files fstest.MapFS) *fixture {
	t.Helper()
	b := renderertest.New()
	r, err := renderer.NewRenderer(renderer.BackendTypeOpenGL, renderer.WithBackend(b))
	require.NoError(t, err)
	require.NoError(t, r.Init(800, 600))

	compiler := shader.NewCompiler(b, shader.WithShaderFS(os.DirFS("../../assets/shaders")))
	ldr := loader.NewLoader(loader.WithFS(files))
	return &fixture{
		backend:  b,
		renderer: r,
		factory:  scene.NewFactory(r, compiler, ldr, scene.WithFactoryFS(files), scene.WithRotationSpeed(90)),
		camera: camera.NewCamera(
			camera.WithViewport(800, 600),
			camera.WithController(camera.NewCameraController()),
		),
	}
}

func uniformNames(u []renderer.Uniform) []string {
	out := make([]string, len(u))
	for i, v := range u {
		out[i] = v.Name
	}
	return out
}

func TestFactoryBuildsNamedElements(t *testing.T) {
	f := newFixture(t, assetFS(t))

	rings, err := f.factory.OlympicRings()
	require.NoError(t, err)
	require.Len(t, rings.Textures(), 1)
	assert.Equal(t, renderer.Texture2D, rings.Textures()[0].Target)
	assert.Equal(t, shader.TextureSamplerUnit, rings.Textures()[0].Unit)
	assert.Contains(t, uniformNames(rings.StaticUniforms()), shader.TextureSamplerUniform)
	assert.Equal(t, 3, rings.Mesh().VertexCount(), "removed nodes must not contribute geometry")
	assert.Equal(t, scene.RingsPosition, rings.ModelMatrix().Col(3).Vec3())

	bunny, err := f.factory.BunnyWorld()
	require.NoError(t, err)
	assert.True(t, bunny.Animated())
	assert.Empty(t, bunny.Textures())
	assert.Nil(t, bunny.Mesh().TexCoords)
	assert.Len(t, bunny.Mesh().Colors, bunny.Mesh().VertexCount())
	pos := bunny.ModelMatrix().Col(3).Vec3()
	assert.InDeltaSlice(t, scene.BunnyPosition[:], pos[:], 1e-5)

	uploads := f.backend.Count("TexImage2D")
	sky, err := f.factory.SkyBox()
	require.NoError(t, err)
	assert.Equal(t, 36, sky.Mesh().VertexCount())
	assert.False(t, sky.Mesh().Indexed())
	assert.Equal(t, render_object.DynamicUniform(0), sky.DynamicUniforms())
	require.Len(t, sky.Textures(), 1)
	assert.Equal(t, renderer.TextureCubeMap, sky.Textures()[0].Target)
	assert.Equal(t, shader.SkyboxSamplerUnit, sky.Textures()[0].Unit)
	assert.Equal(t, uploads+renderer.CubeFaceCount, f.backend.Count("TexImage2D"))

	logo, err := f.factory.LogoWithReflection(sky)
	require.NoError(t, err)
	require.Len(t, logo.Textures(), 1)
	assert.Same(t, sky.Textures()[0], logo.Textures()[0])
	assert.Equal(t, 2, sky.Textures()[0].RefCount())
	assert.Contains(t, uniformNames(logo.StaticUniforms()), "reflectivity")
	assert.Contains(t, uniformNames(logo.StaticUniforms()), shader.SkyboxSamplerUniform)
}

func TestFloorTilesShareResources(t *testing.T) {
	f := newFixture(t, assetFS(t))

	none, err := f.factory.FloorTiles(0, 1)
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.Empty(t, f.backend.Live)

	tiles, err := f.factory.FloorTiles(3, 2)
	require.NoError(t, err)
	require.Len(t, tiles, 9)

	va := tiles[0].VertexArray()
	for _, tile := range tiles {
		assert.Same(t, va, tile.VertexArray())
		assert.Same(t, tiles[0].Program(), tile.Program())
	}
	assert.Equal(t, 9, va.RefCount())
	assert.Equal(t, 9, tiles[0].Program().RefCount())
	assert.Equal(t, 1, f.backend.Count("CreateVertexArray"))

	// centred grid two units apart below the models
	assert.Equal(t, mgl32.Vec3{-2, scene.FloorHeight, -2}, tiles[0].ModelMatrix().Col(3).Vec3())
	assert.Equal(t, mgl32.Vec3{0, scene.FloorHeight, 0}, tiles[4].ModelMatrix().Col(3).Vec3())

	baseColor := func(o render_object.RenderObject) any {
		for _, u := range o.StaticUniforms() {
			if u.Name == "base_color" {
				return u.Value()
			}
		}
		return nil
	}
	assert.Equal(t, scene.FloorColorLight, baseColor(tiles[0]))
	assert.Equal(t, scene.FloorColorDark, baseColor(tiles[1]))
	assert.Equal(t, scene.FloorColorDark, baseColor(tiles[3]))
	assert.Equal(t, scene.FloorColorLight, baseColor(tiles[4]))

	for _, tile := range tiles[:8] {
		f.renderer.Release(tile)
	}
	assert.False(t, va.Released())
	f.renderer.Release(tiles[8])
	assert.True(t, va.Released())
	assert.Empty(t, f.backend.Live)
}

func TestDrawFrameDrawsSkyboxFirst(t *testing.T) {
	f := newFixture(t, assetFS(t))

	sky, err := f.factory.SkyBox()
	require.NoError(t, err)
	rings, err := f.factory.OlympicRings()
	require.NoError(t, err)
	bunny, err := f.factory.BunnyWorld()
	require.NoError(t, err)
	logo, err := f.factory.LogoWithReflection(sky)
	require.NoError(t, err)
	tiles, err := f.factory.FloorTiles(2, 1)
	require.NoError(t, err)

	s := scene.NewScene("olympics", f.camera, f.renderer,
		scene.WithSkybox(sky),
		scene.WithObjects(rings, bunny, logo),
		scene.WithObjects(tiles...),
	)
	assert.Equal(t, 7, s.Count())

	f.backend.Reset()
	require.NoError(t, s.DrawFrame(false))

	names := f.backend.CallNames()
	require.NotEmpty(t, names)
	assert.Equal(t, "Clear", names[0])

	require.Len(t, f.backend.Draws, 8)
	first := f.backend.Draws[0]
	assert.Equal(t, sky.Program().Handle(), first.Program)
	assert.False(t, first.DepthWrite)
	assert.Equal(t, renderer.DepthLessEqual, first.DepthFunc)
	for _, d := range f.backend.Draws[1:] {
		assert.True(t, d.DepthWrite)
		assert.Equal(t, renderer.DepthLess, d.DepthFunc)
	}
	assert.Equal(t, rings.Program().Handle(), f.backend.Draws[1].Program)
	assert.Equal(t, bunny.Program().Handle(), f.backend.Draws[2].Program)
	assert.Equal(t, logo.Program().Handle(), f.backend.Draws[3].Program)

	// the skybox PVM carries no camera translation
	pvm, ok := f.backend.UniformValue(sky.Program().Handle(), "PVM")
	require.True(t, ok)
	expected := f.camera.ProjectionMatrix().Mul4(f.camera.SkyboxViewMatrix())
	assert.True(t, pvm.(mgl32.Mat4).ApproxEqualThreshold(expected, 1e-5))

	eye, ok := f.backend.UniformValue(logo.Program().Handle(), "camera_position")
	require.True(t, ok)
	assert.True(t, eye.(mgl32.Vec3).ApproxEqualThreshold(f.camera.Position(), 1e-5))
}

func TestDrawFrameAnimatesOnlyWhenAsked(t *testing.T) {
	f := newFixture(t, assetFS(t))

	bunny, err := f.factory.BunnyWorld()
	require.NoError(t, err)
	s := scene.NewScene("bunny", f.camera, f.renderer, scene.WithObjects(bunny))

	start := bunny.ModelMatrix()
	require.NoError(t, s.DrawFrame(false))
	assert.Equal(t, start, bunny.ModelMatrix())

	require.NoError(t, s.DrawFrame(true))
	moved := bunny.ModelMatrix()
	assert.False(t, moved.ApproxEqualThreshold(start, 1e-5))
	// rotating about its own position keeps the bunny in place
	pos := moved.Col(3).Vec3()
	assert.InDeltaSlice(t, scene.BunnyPosition[:], pos[:], 1e-5)

	// four quarter turns bring it back
	for range 3 {
		require.NoError(t, s.DrawFrame(true))
	}
	// entries near zero drift by a few ulps per turn, so compare absolutely
	back := bunny.ModelMatrix()
	assert.InDeltaSlice(t, start[:], back[:], 1e-4)
}

func TestReleaseFreesEveryHandle(t *testing.T) {
	f := newFixture(t, assetFS(t))

	sky, err := f.factory.SkyBox()
	require.NoError(t, err)
	logo, err := f.factory.LogoWithReflection(sky)
	require.NoError(t, err)
	bunny, err := f.factory.BunnyWorld()
	require.NoError(t, err)
	tiles, err := f.factory.FloorTiles(2, 1)
	require.NoError(t, err)

	s := scene.NewScene("olympics", f.camera, f.renderer, scene.WithSkybox(sky), scene.WithObjects(logo, bunny))
	s.Add(tiles...)
	s.Add(nil)
	assert.Equal(t, 6, s.Count())
	require.NotEmpty(t, f.backend.Live)

	s.Release()
	assert.Empty(t, f.backend.Live)
	assert.Zero(t, s.Count())
	assert.Nil(t, s.Skybox())

	deletes := f.backend.Count("DeleteProgram")
	s.Release()
	assert.Equal(t, deletes, f.backend.Count("DeleteProgram"))
}

func TestDrawFrameReportsFailingObject(t *testing.T) {
	f := newFixture(t, assetFS(t))

	bunny, err := f.factory.BunnyWorld()
	require.NoError(t, err)
	s := scene.NewScene("broken", f.camera, f.renderer, scene.WithObjects(bunny))
	f.renderer.Release(bunny)

	err = s.DrawFrame(false)
	require.Error(t, err)
	assert.ErrorIs(t, err, renderer.ErrReleased)
	assert.Contains(t, err.Error(), "bunny_world")
}

func TestFactoryErrors(t *testing.T) {
	t.Run("missing cube face", func(t *testing.T) {
		files := assetFS(t)
		delete(files, "textures/paris_cubemap/nz.png")
		f := newFixture(t, files)

		_, err := f.factory.SkyBox()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nz.png")
		assert.Empty(t, f.backend.Live)
	})

	t.Run("rings without texture", func(t *testing.T) {
		f := newFixture(t, assetFS(t))
		f.factory = scene.NewFactory(f.renderer,
			shader.NewCompiler(f.backend, shader.WithShaderFS(os.DirFS("../../assets/shaders"))),
			loader.NewLoader(loader.WithFS(assetFS(t))),
			scene.WithAssetPaths(scene.AssetPaths{Rings: "models/bunny_world.obj"}),
		)

		_, err := f.factory.OlympicRings()
		assert.ErrorIs(t, err, loader.ErrNoTexture)
		assert.Empty(t, f.backend.Live)
	})

	t.Run("logo without skybox", func(t *testing.T) {
		f := newFixture(t, assetFS(t))
		_, err := f.factory.LogoWithReflection(nil)
		require.Error(t, err)
		assert.Empty(t, f.backend.Live)
	})
}

func TestNewScenePanicsWithoutCameraOrRenderer(t *testing.T) {
	f := newFixture(t, assetFS(t))
	assert.Panics(t, func() { scene.NewScene("x", nil, f.renderer) })
	assert.Panics(t, func() { scene.NewScene("x", f.camera, nil) })
}
