package shader

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/soypat/glgl/v4.6-core/glgl"
	"go.uber.org/zap"
)

// File names of the two-file shader layout: <dir>/<name>/vertex_shader.glsl and fragment_shader.glsl.
const (
	VertexShaderFile   = "vertex_shader.glsl"
	FragmentShaderFile = "fragment_shader.glsl"

	// CombinedShaderExt is the extension of the single-file layout, <dir>/<name>.glsl, split by
	// `#shader vertex` and `#shader fragment` markers.
	CombinedShaderExt = ".glsl"
)

// compiler is the implementation of the Compiler interface.
type compiler struct {
	backend  ProgramBackend
	files    fs.FS
	pp       PreProcessor
	validate bool
	logger   *zap.Logger

	cache map[string]*Program
}

// Compiler turns named GLSL sources into shared, reference counted programs.
//
// Programs are cached by name: compiling a name that is already live returns the same *Program
// with its reference count incremented. Once the last holder releases a program it leaves the
// cache and the next Compile builds it again.
type Compiler interface {
	// Compile loads, pre-processes, compiles, links and validates the named program.
	// The sources are read from <name>/vertex_shader.glsl and <name>/fragment_shader.glsl,
	// or from the combined <name>.glsl when the directory layout is absent.
	// Declared sampler uniforms are bound to their fixed units: texture_sampler to 0 and skybox_sampler to 1.
	//
	// Parameters:
	//   - name: the shader name relative to the shader directory
	//
	// Returns:
	//   - *Program: the program, holding one new reference for the caller
	//   - error: an error wrapping ErrCompile, ErrLink or ErrValidate, or a file read error
	Compile(name string) (*Program, error)

	// CompileSource builds a program from in-memory sources under the given cache name.
	//
	// Parameters:
	//   - name: the cache key and log name
	//   - vertexSource: the raw vertex stage source
	//   - fragmentSource: the raw fragment stage source
	//
	// Returns:
	//   - *Program: the program, holding one new reference for the caller
	//   - error: an error if pre-processing, compilation, linking or validation fails
	CompileSource(name, vertexSource, fragmentSource string) (*Program, error)

	// Cached returns the live program for name without taking a reference, or nil.
	Cached(name string) *Program

	// PreProcessor returns the pre-processor applied to every source, for registering snippets.
	PreProcessor() PreProcessor
}

var _ Compiler = &compiler{}

// NewCompiler creates a Compiler that issues GPU commands through backend.
// Sources are read from the "shaders" directory unless WithShaderDir or WithShaderFS is given.
//
// Parameters:
//   - backend: the program backend
//   - options: functional options
//
// Returns:
//   - Compiler: the compiler
func NewCompiler(backend ProgramBackend, options ...CompilerBuilderOption) Compiler {
	c := &compiler{
		backend:  backend,
		files:    os.DirFS("shaders"),
		pp:       NewPreProcessor(),
		validate: true,
		logger:   zap.NewNop(),
		cache:    make(map[string]*Program),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *compiler) PreProcessor() PreProcessor {
	return c.pp
}

func (c *compiler) Cached(name string) *Program {
	return c.cache[name]
}

func (c *compiler) Compile(name string) (*Program, error) {
	if p, ok := c.cache[name]; ok {
		return p.Retain(), nil
	}
	vertexSource, fragmentSource, err := c.readSources(name)
	if err != nil {
		return nil, err
	}
	return c.build(name, vertexSource, fragmentSource)
}

func (c *compiler) CompileSource(name, vertexSource, fragmentSource string) (*Program, error) {
	if p, ok := c.cache[name]; ok {
		return p.Retain(), nil
	}
	return c.build(name, vertexSource, fragmentSource)
}

// readSources loads the two-file layout, falling back to the combined file.
func (c *compiler) readSources(name string) (string, string, error) {
	vs, vErr := fs.ReadFile(c.files, path.Join(name, VertexShaderFile))
	fsrc, fErr := fs.ReadFile(c.files, path.Join(name, FragmentShaderFile))
	if vErr == nil && fErr == nil {
		return string(vs), string(fsrc), nil
	}
	if vErr == nil {
		return "", "", fmt.Errorf("shader %s: %w", name, fErr)
	}
	if !errors.Is(vErr, fs.ErrNotExist) {
		return "", "", fmt.Errorf("shader %s: %w", name, vErr)
	}

	combined, err := fs.ReadFile(c.files, name+CombinedShaderExt)
	if err != nil {
		return "", "", fmt.Errorf("shader %s: no %s/%s or %s%s: %w", name, name, VertexShaderFile, name, CombinedShaderExt, err)
	}
	src, err := glgl.ParseCombined(bytes.NewReader(combined))
	if err != nil {
		return "", "", fmt.Errorf("shader %s: parse combined source: %w", name, err)
	}
	return string(src.Vertex), string(src.Fragment), nil
}

func (c *compiler) build(name, vertexSource, fragmentSource string) (*Program, error) {
	vs, err := c.pp.Process(vertexSource)
	if err != nil {
		return nil, fmt.Errorf("shader %s: vertex stage: %w", name, err)
	}
	fsrc, err := c.pp.Process(fragmentSource)
	if err != nil {
		return nil, fmt.Errorf("shader %s: fragment stage: %w", name, err)
	}

	handle, err := c.backend.CompileProgram(vs, fsrc)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}

	p := NewProgram(name, handle, ParseDeclarations(vs, fsrc), c.backend, c.logger)
	c.bindSamplers(p)

	if c.validate {
		if err := c.backend.ValidateProgram(handle); err != nil {
			c.backend.DeleteProgram(handle)
			return nil, fmt.Errorf("shader %s: %w", name, err)
		}
	}

	p.onRelease = func(released *Program) {
		if c.cache[released.name] == released {
			delete(c.cache, released.name)
		}
	}
	c.cache[name] = p
	c.logger.Debug("shader compiled",
		zap.String("shader", name),
		zap.Uint32("handle", handle),
		zap.Strings("attributes", p.declarations.Attributes),
		zap.Strings("uniforms", p.declarations.Uniforms),
	)
	return p, nil
}

// bindSamplers assigns fixed texture units to the sampler uniforms the program declares.
func (c *compiler) bindSamplers(p *Program) {
	samplers := []struct {
		name string
		unit uint32
	}{
		{TextureSamplerUniform, TextureSamplerUnit},
		{SkyboxSamplerUniform, SkyboxSamplerUnit},
	}
	c.backend.UseProgram(p.handle)
	for _, s := range samplers {
		if !p.declarations.HasUniform(s.name) {
			continue
		}
		if loc, ok := p.UniformLocation(s.name); ok {
			c.backend.Uniform1i(loc, int32(s.unit))
		}
	}
	c.backend.UseProgram(0)
}
