package scene

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/loader"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/render_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Shader program names the factory compiles.
const (
	ProgramTextured   = "textured_model"
	ProgramPlain      = "plain_model"
	ProgramReflective = "reflective_model"
	ProgramCubeMap    = "cubemap"
)

// Poses of the named elements.
var (
	RingsPosition = mgl32.Vec3{-1.5, 0, 0}
	BunnyPosition = mgl32.Vec3{1.5, 0, 0}
	LogoPosition  = mgl32.Vec3{0, 1.5, 0}

	BunnyScale       float32 = 0.5
	BunnyOrientation float32 = 180
	LogoScale        float32 = 0.5
)

// Nodes dropped from the rings model before merging.
var ringsRemovedNodes = []string{"Object_23", "Grass"}

// Colors of the floor checkerboard and the bunny.
var (
	FloorColorLight = mgl32.Vec3{0.85, 0.85, 0.85}
	FloorColorDark  = mgl32.Vec3{0.25, 0.25, 0.3}
	BunnyColor      = mgl32.Vec4{0.9, 0.75, 0.55, 1}
)

// skyboxVertices is a unit cube as a plain triangle list, wound so its inside faces the camera.
var skyboxVertices = []mgl32.Vec3{
	{-1, 1, -1}, {-1, -1, -1}, {1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {-1, -1, -1}, {-1, 1, -1}, {-1, 1, -1}, {-1, 1, 1}, {-1, -1, 1},
	{1, -1, -1}, {1, -1, 1}, {1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {1, -1, -1},
	{-1, -1, 1}, {-1, 1, 1}, {1, 1, 1}, {1, 1, 1}, {1, -1, 1}, {-1, -1, 1},
	{-1, 1, -1}, {1, 1, -1}, {1, 1, 1}, {1, 1, 1}, {-1, 1, 1}, {-1, 1, -1},
	{-1, -1, -1}, {-1, -1, 1}, {1, -1, -1}, {1, -1, -1}, {-1, -1, 1}, {1, -1, 1},
}

// AssetPaths locates the factory's model files and cube map directory, relative to the loader and
// factory file systems.
type AssetPaths struct {
	Rings      string
	Bunny      string
	Logo       string
	CubeMapDir string
}

// DefaultAssetPaths returns the paths of the bundled assets.
func DefaultAssetPaths() AssetPaths {
	return AssetPaths{
		Rings:      "models/olympic_rings.glb",
		Bunny:      "models/bunny_world.obj",
		Logo:       "models/logo.stl",
		CubeMapDir: "textures/paris_cubemap",
	}
}

// factory is the implementation of the Factory interface.
type factory struct {
	r        renderer.Renderer
	compiler shader.Compiler
	loader   loader.Loader
	files    fs.FS
	paths    AssetPaths
	light    light.Light
	logger   *zap.Logger

	// rotationStep is the bunny's rotation per animation step in radians.
	rotationStep float32

	decodeWorkers int
	// newPool starts a decode pool. Each decode stops its pool before returning.
	newPool func(workers int) worker.DynamicWorkerPool
}

// Factory builds the named elements of the scene. Each constructor compiles or reuses its shader
// program, loads and normalises its mesh, uploads its textures and assembles the static uniforms
// its program declares. On error nothing the constructor allocated stays referenced.
type Factory interface {
	// OlympicRings builds the textured rings with the ground and the extra ring node removed.
	//
	// Returns:
	//   - render_object.RenderObject: the rings
	//   - error: a load, compile or allocation error
	OlympicRings() (render_object.RenderObject, error)

	// BunnyWorld builds the uniformly colored bunny, rotating about +Y around its own position
	// while animation is on.
	//
	// Returns:
	//   - render_object.RenderObject: the bunny
	//   - error: a load, compile or allocation error
	BunnyWorld() (render_object.RenderObject, error)

	// SkyBox builds the cube-mapped skybox from the six faces in the cube map directory.
	// The faces are decoded concurrently and uploaded in +X, -X, +Y, -Y, +Z, -Z order on unit 1.
	//
	// Returns:
	//   - render_object.RenderObject: the skybox, with PVM as its only per-frame uniform
	//   - error: a decode, compile or allocation error
	SkyBox() (render_object.RenderObject, error)

	// FloorTiles builds an n by n checkerboard of quads centred on the origin below the models.
	// Every tile shares one vertex array and one program.
	//
	// Parameters:
	//   - n: tiles per side, 0 builds nothing
	//   - spacing: distance between tile centres
	//
	// Returns:
	//   - []render_object.RenderObject: the tiles in row-major order
	//   - error: a compile or allocation error
	FloorTiles(n int, spacing float32) ([]render_object.RenderObject, error)

	// LogoWithReflection builds the logo mesh with a reflective material sampling the skybox
	// cube map. The logo takes its own reference to the cube map texture.
	//
	// Parameters:
	//   - skybox: the skybox whose cube map is reflected
	//
	// Returns:
	//   - render_object.RenderObject: the logo
	//   - error: a load, compile or allocation error, or an error if skybox has no cube map
	LogoWithReflection(skybox render_object.RenderObject) (render_object.RenderObject, error)
}

var _ Factory = &factory{}

// NewFactory creates a Factory. Cube map faces are read from the working directory unless
// WithFactoryFS is given.
//
// Parameters:
//   - r: the renderer the elements are allocated with
//   - compiler: the shader compiler, sharing r's backend
//   - ldr: the mesh loader
//   - options: functional options
//
// Returns:
//   - Factory: the factory
func NewFactory(r renderer.Renderer, compiler shader.Compiler, ldr loader.Loader, options ...FactoryBuilderOption) Factory {
	f := &factory{
		r:             r,
		compiler:      compiler,
		loader:        ldr,
		files:         os.DirFS("."),
		paths:         DefaultAssetPaths(),
		light:         light.NewLight(),
		logger:        zap.NewNop(),
		rotationStep:  mgl32.DegToRad(1),
		decodeWorkers: renderer.CubeFaceCount,
		newPool:       newDecodePool,
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}

func newDecodePool(workers int) worker.DynamicWorkerPool {
	return worker.NewDynamicWorkerPool(workers, renderer.CubeFaceCount, 1*time.Second)
}

// litUniforms combines the light with a material's uniforms.
func (f *factory) litUniforms(mat material.Material, textures []*renderer.Texture) []renderer.Uniform {
	return append(f.light.Uniforms(), mat.Uniforms(textures)...)
}

func (f *factory) OlympicRings() (render_object.RenderObject, error) {
	imported, err := f.loader.Load(f.paths.Rings,
		loader.WithTransform(common.Pose(RingsPosition, 0, common.UniformScale(1))),
		loader.WithRemoveNodes(ringsRemovedNodes...),
		loader.WithTextureMode(loader.TextureModeBaseColor),
	)
	if err != nil {
		return nil, fmt.Errorf("olympic rings: %w", err)
	}
	// textured_model has no color input
	imported.Mesh.Colors = nil

	program, err := f.compiler.Compile(ProgramTextured)
	if err != nil {
		return nil, fmt.Errorf("olympic rings: %w", err)
	}
	va, err := f.r.AllocateVertexArray(imported.Mesh, program)
	if err != nil {
		program.Release()
		return nil, fmt.Errorf("olympic rings: %w", err)
	}
	tex, err := f.r.Allocate2DTexture("olympic_rings_base_color", imported.BaseColor, shader.TextureSamplerUnit)
	if err != nil {
		f.r.ReleaseVertexArray(va)
		program.Release()
		return nil, fmt.Errorf("olympic rings: %w", err)
	}

	mat := material.NewMaterial("olympic_rings", material.WithShininess(32))
	textures := []*renderer.Texture{tex}
	obj := render_object.NewRenderObject("olympic_rings", imported.Mesh, program, va,
		render_object.WithTextures(textures...),
		render_object.WithStaticUniforms(f.litUniforms(mat, textures)...),
	)
	f.logger.Debug("element built", zap.String("element", obj.Name()), zap.Strings("nodes", imported.Nodes))
	return obj, nil
}

func (f *factory) BunnyWorld() (render_object.RenderObject, error) {
	imported, err := f.loader.Load(f.paths.Bunny,
		loader.WithTransform(common.Pose(BunnyPosition, BunnyOrientation, common.UniformScale(BunnyScale))),
		loader.WithTextureMode(loader.TextureModeNone),
		loader.WithUniformColor(BunnyColor),
	)
	if err != nil {
		return nil, fmt.Errorf("bunny world: %w", err)
	}

	program, err := f.compiler.Compile(ProgramPlain)
	if err != nil {
		return nil, fmt.Errorf("bunny world: %w", err)
	}
	va, err := f.r.AllocateVertexArray(imported.Mesh, program)
	if err != nil {
		program.Release()
		return nil, fmt.Errorf("bunny world: %w", err)
	}

	mat := material.NewMaterial("bunny_world",
		material.WithBaseColor(BunnyColor.Vec3()),
		material.WithVertexColors(),
		material.WithShininess(16),
	)
	obj := render_object.NewRenderObject("bunny_world", imported.Mesh, program, va,
		render_object.WithStaticUniforms(f.litUniforms(mat, nil)...),
		render_object.WithAnimation(render_object.Rotation(mgl32.Vec3{0, 1, 0}, BunnyPosition, f.rotationStep)),
	)
	f.logger.Debug("element built", zap.String("element", obj.Name()), zap.Int("vertices", imported.Mesh.VertexCount()))
	return obj, nil
}

func (f *factory) SkyBox() (render_object.RenderObject, error) {
	faces, err := f.decodeCubeFaces(f.paths.CubeMapDir)
	if err != nil {
		return nil, fmt.Errorf("skybox: %w", err)
	}

	mesh := model.NewMesh("skybox", skyboxVertices)
	program, err := f.compiler.Compile(ProgramCubeMap)
	if err != nil {
		return nil, fmt.Errorf("skybox: %w", err)
	}
	va, err := f.r.AllocateVertexArray(mesh, program)
	if err != nil {
		program.Release()
		return nil, fmt.Errorf("skybox: %w", err)
	}
	tex, err := f.r.AllocateCubeMapTexture("skybox", faces, shader.SkyboxSamplerUnit)
	if err != nil {
		f.r.ReleaseVertexArray(va)
		program.Release()
		return nil, fmt.Errorf("skybox: %w", err)
	}

	return render_object.NewRenderObject("skybox", mesh, program, va,
		render_object.WithTextures(tex),
		render_object.WithStaticUniforms(renderer.IntUniform(shader.SkyboxSamplerUniform, int32(tex.Unit))),
		render_object.WithDynamicUniforms(0),
	), nil
}

// decodeCubeFaces reads and decodes the six faces of dir concurrently. Cube map faces keep their
// file row order.
func (f *factory) decodeCubeFaces(dir string) ([]*common.TextureStagingData, error) {
	faces := make([]*common.TextureStagingData, renderer.CubeFaceCount)
	errs := make([]error, renderer.CubeFaceCount)

	pool := f.newPool(f.decodeWorkers)
	defer pool.Stop()

	var wg sync.WaitGroup
	for i, name := range renderer.CubeFaceNames {
		wg.Add(1)
		idx := i
		file := path.Join(dir, name+".png")
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()

				data, err := fs.ReadFile(f.files, file)
				if err != nil {
					errs[idx] = err
					return nil, err
				}
				tex := &common.ImportedTexture{Name: file, Data: data}
				faces[idx], errs[idx] = tex.Decode(false)
				return faces[idx], errs[idx]
			},
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	f.logger.Debug("cube map decoded", zap.String("dir", dir), zap.Uint32("size", faces[0].Width))
	return faces, nil
}

// floorQuad is a unit quad in the XZ plane facing +Y, wound counter-clockwise seen from above.
func floorQuad() *model.Mesh {
	return model.NewMesh("floor_tile",
		[]mgl32.Vec3{{-0.5, 0, -0.5}, {-0.5, 0, 0.5}, {0.5, 0, 0.5}, {0.5, 0, -0.5}},
		model.WithNormals([]mgl32.Vec3{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0}}),
		model.WithIndices([][3]uint32{{0, 1, 2}, {0, 2, 3}}),
	)
}

// FloorHeight is the y coordinate of the floor tiles.
const FloorHeight float32 = -1

func (f *factory) FloorTiles(n int, spacing float32) ([]render_object.RenderObject, error) {
	if n <= 0 {
		return nil, nil
	}

	mesh := floorQuad()
	program, err := f.compiler.Compile(ProgramPlain)
	if err != nil {
		return nil, fmt.Errorf("floor tiles: %w", err)
	}
	va, err := f.r.AllocateVertexArray(mesh, program)
	if err != nil {
		program.Release()
		return nil, fmt.Errorf("floor tiles: %w", err)
	}

	offset := float32(n-1) * spacing / 2
	scale := common.UniformScale(spacing)
	tiles := make([]render_object.RenderObject, 0, n*n)
	for row := range n {
		for col := range n {
			color := FloorColorLight
			if (row+col)%2 == 1 {
				color = FloorColorDark
			}
			mat := material.NewMaterial("floor_tile", material.WithBaseColor(color), material.WithShininess(4))
			position := mgl32.Vec3{float32(col)*spacing - offset, FloorHeight, float32(row)*spacing - offset}

			// the first tile takes the references Compile and AllocateVertexArray returned
			tileProgram, tileVA := program, va
			if len(tiles) > 0 {
				tileProgram, tileVA = program.Retain(), va.Retain()
			}
			tiles = append(tiles, render_object.NewRenderObject(
				fmt.Sprintf("floor_tile_%d_%d", row, col), mesh, tileProgram, tileVA,
				render_object.WithModelMatrix(common.Pose(position, 0, scale)),
				render_object.WithStaticUniforms(f.litUniforms(mat, nil)...),
			))
		}
	}
	f.logger.Debug("element built", zap.String("element", "floor_tiles"), zap.Int("tiles", len(tiles)))
	return tiles, nil
}

func (f *factory) LogoWithReflection(skybox render_object.RenderObject) (render_object.RenderObject, error) {
	var cube *renderer.Texture
	if skybox != nil {
		for _, t := range skybox.Textures() {
			if t.Target == renderer.TextureCubeMap {
				cube = t
				break
			}
		}
	}
	if cube == nil {
		return nil, fmt.Errorf("logo: skybox has no cube map")
	}

	imported, err := f.loader.Load(f.paths.Logo,
		loader.WithTransform(common.Pose(LogoPosition, 0, common.UniformScale(LogoScale))),
		loader.WithTextureMode(loader.TextureModeNone),
	)
	if err != nil {
		return nil, fmt.Errorf("logo: %w", err)
	}

	program, err := f.compiler.Compile(ProgramReflective)
	if err != nil {
		return nil, fmt.Errorf("logo: %w", err)
	}
	va, err := f.r.AllocateVertexArray(imported.Mesh, program)
	if err != nil {
		program.Release()
		return nil, fmt.Errorf("logo: %w", err)
	}

	mat := material.NewMaterial("logo",
		material.WithBaseColor(mgl32.Vec3{0.8, 0.8, 0.85}),
		material.WithShininess(64),
		material.WithReflectivity(0.7),
	)
	textures := []*renderer.Texture{cube.Retain()}
	return render_object.NewRenderObject("logo", imported.Mesh, program, va,
		render_object.WithTextures(textures...),
		render_object.WithStaticUniforms(f.litUniforms(mat, textures)...),
	), nil
}
