package shader_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const litVertex = `#version 410 core
in vec3 position;
in vec3 normal;
layout(location = 2) in vec2 texture_coord;
// in vec4 color;
uniform mat4 PVM;
uniform mat4 M;
uniform mat3 normal_matrix;
out vec3 world_position;
void main() {
    gl_Position = PVM * vec4(position, 1.0);
}
`

const litFragment = `#version 410 core
in vec3 world_position;
// @oxy:include lighting
uniform sampler2D texture_sampler;
out vec4 frag_color;
void main() {
    frag_color = vec4(shade(surface_color(vec4(1.0), texture(texture_sampler, vec2(0.0))), world_position, vec3(0.0, 1.0, 0.0)), 1.0);
}
`

func TestParseDeclarations(t *testing.T) {
	d := shader.ParseDeclarations(litVertex, "uniform vec3 a, b[2];\n/* uniform float hidden; */\nin vec3 world_position;\nuniform mat4 PVM;\n")
	assert.Equal(t, []string{"position", "normal", "texture_coord"}, d.Attributes)
	assert.Equal(t, []string{"PVM", "M", "normal_matrix", "a", "b"}, d.Uniforms)
	assert.True(t, d.HasAttribute("normal"))
	assert.False(t, d.HasAttribute("color"))
	assert.False(t, d.HasAttribute("world_position"))
	assert.False(t, d.HasUniform("hidden"))
}

func TestPreProcessorIncludesLighting(t *testing.T) {
	pp := shader.NewPreProcessor()
	out, err := pp.Process(litFragment)
	require.NoError(t, err)
	assert.NotContains(t, out, "@oxy:include")
	assert.Contains(t, out, "uniform vec3 light_position;")
	assert.Contains(t, out, "vec3 shade(")

	d := shader.ParseDeclarations("", out)
	for _, name := range []string{"light_position", "light_color", "ambient_strength", "camera_position", "base_color", "shininess", "use_vertex_colors", "use_texture", "texture_sampler"} {
		assert.True(t, d.HasUniform(name), name)
	}
}

func TestPreProcessorErrors(t *testing.T) {
	pp := shader.NewPreProcessor()
	cases := map[string]string{
		"unknown snippet": "// @oxy:include shadows",
		"missing name":    "// @oxy:include",
		"unknown type":    "// @oxy:group 0 0",
		"empty":           "// @oxy:",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := pp.Process("#version 410 core\n" + src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestPreProcessorCustomSnippet(t *testing.T) {
	pp := shader.NewPreProcessor()
	pp.RegisterSnippet("fog", "uniform float fog_density;\n")
	out, err := pp.Process("a\n  //   @oxy:include fog\nb")
	require.NoError(t, err)
	assert.Equal(t, "a\nuniform float fog_density;\nb", out)
}

func shaderFS() fstest.MapFS {
	return fstest.MapFS{
		"textured_model/vertex_shader.glsl":   {Data: []byte(litVertex)},
		"textured_model/fragment_shader.glsl": {Data: []byte(litFragment)},
		"cubemap.glsl": {Data: []byte("#shader vertex\n#version 410 core\nin vec3 position;\nuniform mat4 PVM;\nout vec3 dir;\nvoid main() { dir = position; gl_Position = (PVM * vec4(position, 1.0)).xyww; }\n" +
			"#shader fragment\n#version 410 core\nin vec3 dir;\nuniform samplerCube skybox_sampler;\nout vec4 c;\nvoid main() { c = texture(skybox_sampler, dir); }\n")},
		"broken/vertex_shader.glsl": {Data: []byte(litVertex)},
	}
}

func TestCompileDirectoryLayout(t *testing.T) {
	fake := renderertest.New()
	c := shader.NewCompiler(fake, shader.WithShaderFS(shaderFS()))

	p, err := c.Compile("textured_model")
	require.NoError(t, err)
	assert.Equal(t, "textured_model", p.Name())
	assert.Equal(t, 1, p.RefCount())
	assert.True(t, p.Declarations().HasUniform("light_color"))
	assert.True(t, p.Declarations().HasAttribute("texture_coord"))

	// texture_sampler is declared and bound to unit 0, skybox_sampler is not declared
	v, ok := fake.UniformValue(p.Handle(), shader.TextureSamplerUniform)
	require.True(t, ok)
	assert.Equal(t, int32(0), v)
	_, ok = fake.UniformValue(p.Handle(), shader.SkyboxSamplerUniform)
	assert.False(t, ok)
	assert.Equal(t, 1, fake.Count("ValidateProgram"))
}

func TestCompileCombinedLayout(t *testing.T) {
	fake := renderertest.New()
	c := shader.NewCompiler(fake, shader.WithShaderFS(shaderFS()))

	p, err := c.Compile("cubemap")
	require.NoError(t, err)
	assert.Equal(t, []string{"position"}, p.Declarations().Attributes)
	v, ok := fake.UniformValue(p.Handle(), shader.SkyboxSamplerUniform)
	require.True(t, ok)
	assert.Equal(t, int32(1), v)
}

func TestCompileCachesAndSharesPrograms(t *testing.T) {
	fake := renderertest.New()
	c := shader.NewCompiler(fake, shader.WithShaderFS(shaderFS()))

	a, err := c.Compile("textured_model")
	require.NoError(t, err)
	b, err := c.Compile("textured_model")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 2, a.RefCount())
	assert.Equal(t, 1, fake.Count("CompileProgram"))

	assert.False(t, a.Release())
	assert.Same(t, a, c.Cached("textured_model"))
	assert.True(t, b.Release())
	assert.Nil(t, c.Cached("textured_model"))

	again, err := c.Compile("textured_model")
	require.NoError(t, err)
	assert.NotSame(t, a, again)
	assert.Equal(t, 2, fake.Count("CompileProgram"))
}

func TestProgramDoubleReleaseIsNoOp(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	fake := renderertest.New()
	c := shader.NewCompiler(fake, shader.WithShaderFS(shaderFS()), shader.WithLogger(zap.New(core)))
	p, err := c.Compile("cubemap")
	require.NoError(t, err)

	assert.True(t, p.Release())
	assert.False(t, p.Release())
	assert.True(t, p.Released())
	assert.Equal(t, 1, fake.Count("DeleteProgram"))
	assert.Equal(t, 1, logs.FilterMessage("program already released").Len())
}

func TestCompileErrors(t *testing.T) {
	t.Run("missing sources", func(t *testing.T) {
		c := shader.NewCompiler(renderertest.New(), shader.WithShaderFS(shaderFS()))
		_, err := c.Compile("nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nope")
	})

	t.Run("missing fragment stage", func(t *testing.T) {
		c := shader.NewCompiler(renderertest.New(), shader.WithShaderFS(shaderFS()))
		_, err := c.Compile("broken")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fragment_shader.glsl")
	})

	t.Run("compile failure", func(t *testing.T) {
		fake := renderertest.New()
		fake.CompileErr = errors.Join(shader.ErrCompile, errors.New("0:3: syntax error"))
		c := shader.NewCompiler(fake, shader.WithShaderFS(shaderFS()))
		_, err := c.Compile("textured_model")
		require.ErrorIs(t, err, shader.ErrCompile)
		assert.Nil(t, c.Cached("textured_model"))
	})

	t.Run("validation failure", func(t *testing.T) {
		fake := renderertest.New()
		fake.ValidateErr = shader.ErrValidate
		c := shader.NewCompiler(fake, shader.WithShaderFS(shaderFS()))
		_, err := c.Compile("textured_model")
		require.ErrorIs(t, err, shader.ErrValidate)
		assert.Equal(t, 1, fake.Count("DeleteProgram"))
	})

	t.Run("validation disabled", func(t *testing.T) {
		fake := renderertest.New()
		fake.ValidateErr = shader.ErrValidate
		c := shader.NewCompiler(fake, shader.WithShaderFS(shaderFS()), shader.WithValidation(false))
		_, err := c.Compile("textured_model")
		require.NoError(t, err)
		assert.Zero(t, fake.Count("ValidateProgram"))
	})
}

func TestCompileSourceUsesSnippets(t *testing.T) {
	fake := renderertest.New()
	c := shader.NewCompiler(fake, shader.WithSnippet("tint", "uniform vec3 tint;"))
	p, err := c.CompileSource("tinted", "in vec3 position;\n", "// @oxy:include tint\nout vec4 c;\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"tint"}, p.Declarations().Uniforms)
}
