package material

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// Uniform names a lit shader program declares for its material.
const (
	UniformUseTexture      = "use_texture"
	UniformUseVertexColors = "use_vertex_colors"
	UniformBaseColor       = "base_color"
	UniformShininess       = "shininess"
	UniformReflectivity    = "reflectivity"
)

// material is the implementation of the Material interface.
type material struct {
	name            string
	baseColor       mgl32.Vec3
	shininess       float32
	reflectivity    float32
	hasReflectivity bool
	useVertexColors bool
	diffuseTexture  *common.ImportedTexture
}

// Material defines the surface properties of a render object and turns them into the static
// uniforms its program consumes.
//
// Surface properties are set at load time. Textures themselves are GPU resources owned elsewhere;
// the material only decides which flags and sampler units the program sees for them.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the flat RGB color used when neither vertex colors nor a texture apply.
	// A texture, when present, is modulated by it.
	//
	// Returns:
	//   - mgl32.Vec3: the base color
	BaseColor() mgl32.Vec3

	// SetBaseColor replaces the base color.
	//
	// Parameters:
	//   - color: the RGB color
	SetBaseColor(color mgl32.Vec3)

	// Shininess retrieves the specular exponent.
	//
	// Returns:
	//   - float32: the exponent
	Shininess() float32

	// Reflectivity retrieves the environment reflection mix factor.
	//
	// Returns:
	//   - float32: the factor in [0, 1]
	//   - bool: false if the material is not reflective, in which case no reflectivity uniform is produced
	Reflectivity() (float32, bool)

	// UseVertexColors reports whether per-vertex colors replace the base color.
	//
	// Returns:
	//   - bool: true if vertex colors are used
	UseVertexColors() bool

	// DiffuseTexture retrieves the imported base color image, or nil if none is set.
	//
	// Returns:
	//   - *common.ImportedTexture: the diffuse texture, or nil
	DiffuseTexture() *common.ImportedTexture

	// SetDiffuseTexture sets the imported base color image.
	//
	// Parameters:
	//   - tex: the image, or nil to clear it
	SetDiffuseTexture(tex *common.ImportedTexture)

	// Uniforms returns the static material uniforms for an object drawn with the given textures:
	// use_texture, use_vertex_colors, base_color and shininess, then reflectivity when set, then one
	// sampler binding per texture (texture_sampler for 2D, skybox_sampler for cube maps) on that texture's unit.
	//
	// Parameters:
	//   - textures: the textures bound for the object's draw
	//
	// Returns:
	//   - []renderer.Uniform: the uniforms in that order
	Uniforms(textures []*renderer.Texture) []renderer.Uniform
}

var _ Material = &material{}

// NewMaterial creates a Material with a white base color, a shininess of 32 and no reflectivity.
//
// Parameters:
//   - name: the material name
//   - options: functional options to configure the material
//
// Returns:
//   - Material: the newly created material
func NewMaterial(name string, options ...MaterialBuilderOption) Material {
	m := &material{
		name:      name,
		baseColor: mgl32.Vec3{1, 1, 1},
		shininess: 32,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() mgl32.Vec3 {
	return m.baseColor
}

func (m *material) SetBaseColor(color mgl32.Vec3) {
	m.baseColor = color
}

func (m *material) Shininess() float32 {
	return m.shininess
}

func (m *material) Reflectivity() (float32, bool) {
	return m.reflectivity, m.hasReflectivity
}

func (m *material) UseVertexColors() bool {
	return m.useVertexColors
}

func (m *material) DiffuseTexture() *common.ImportedTexture {
	return m.diffuseTexture
}

func (m *material) SetDiffuseTexture(tex *common.ImportedTexture) {
	m.diffuseTexture = tex
}

func (m *material) Uniforms(textures []*renderer.Texture) []renderer.Uniform {
	has2D := false
	for _, t := range textures {
		if t.Target == renderer.Texture2D {
			has2D = true
		}
	}

	u := []renderer.Uniform{
		renderer.BoolUniform(UniformUseTexture, has2D),
		renderer.BoolUniform(UniformUseVertexColors, m.useVertexColors),
		renderer.Vec3Uniform(UniformBaseColor, m.baseColor),
		renderer.FloatUniform(UniformShininess, m.shininess),
	}
	if m.hasReflectivity {
		u = append(u, renderer.FloatUniform(UniformReflectivity, m.reflectivity))
	}
	for _, t := range textures {
		switch t.Target {
		case renderer.Texture2D:
			u = append(u, renderer.IntUniform(shader.TextureSamplerUniform, int32(t.Unit)))
		case renderer.TextureCubeMap:
			u = append(u, renderer.IntUniform(shader.SkyboxSamplerUniform, int32(t.Unit)))
		}
	}
	return u
}
