package shader

import (
	"errors"

	"go.uber.org/zap"
)

var (
	// ErrCompile is returned when a shader stage fails to compile.
	ErrCompile = errors.New("shader compile failed")

	// ErrLink is returned when compiled stages fail to link into a program.
	ErrLink = errors.New("shader link failed")

	// ErrValidate is returned when a linked program fails validation.
	ErrValidate = errors.New("shader validation failed")
)

// Sampler uniform names and the texture units they are bound to at compile time.
const (
	TextureSamplerUniform = "texture_sampler"
	SkyboxSamplerUniform  = "skybox_sampler"

	TextureSamplerUnit uint32 = 0
	SkyboxSamplerUnit  uint32 = 1
)

// ProgramBackend is the subset of GPU commands needed to build, configure and destroy programs.
// The renderer's backend satisfies it.
type ProgramBackend interface {
	CompileProgram(vertexSource, fragmentSource string) (uint32, error)
	ValidateProgram(program uint32) error
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
}

// Program is a linked GPU shader program shared by every render object that draws with it.
// It is reference counted: each holder calls Retain and later Release, and the GPU program is
// deleted when the last holder releases it.
type Program struct {
	name         string
	handle       uint32
	declarations Declarations

	refs     int
	released bool

	locations map[string]int32
	backend   ProgramBackend
	logger    *zap.Logger
	onRelease func(*Program)
}

// NewProgram wraps an already linked program handle with a reference count of one.
//
// Parameters:
//   - name: the name used in logs and errors
//   - handle: the linked program handle
//   - declarations: the attribute and uniform names the sources declare
//   - backend: the backend used to resolve locations and delete the program
//   - logger: the logger for release warnings, nil for none
//
// Returns:
//   - *Program: the program holding one reference
func NewProgram(name string, handle uint32, declarations Declarations, backend ProgramBackend, logger *zap.Logger) *Program {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Program{
		name:         name,
		handle:       handle,
		declarations: declarations,
		refs:         1,
		locations:    make(map[string]int32),
		backend:      backend,
		logger:       logger,
	}
}

func (p *Program) Name() string {
	return p.name
}

func (p *Program) Handle() uint32 {
	return p.handle
}

func (p *Program) Declarations() Declarations {
	return p.declarations
}

// RefCount returns the number of live holders.
func (p *Program) RefCount() int {
	return p.refs
}

// Released reports whether the GPU program has been deleted.
func (p *Program) Released() bool {
	return p.released
}

// Retain records an additional holder and returns p for chaining.
func (p *Program) Retain() *Program {
	p.refs++
	return p
}

// Release drops one reference and deletes the GPU program when none remain.
// Releasing a program that is already deleted logs a warning and does nothing.
//
// Returns:
//   - bool: true if this call deleted the GPU program
func (p *Program) Release() bool {
	if p.released {
		p.logger.Warn("program already released", zap.String("program", p.name), zap.Uint32("handle", p.handle))
		return false
	}
	p.refs--
	if p.refs > 0 {
		return false
	}
	p.backend.DeleteProgram(p.handle)
	p.released = true
	p.refs = 0
	if p.onRelease != nil {
		p.onRelease(p)
	}
	p.logger.Debug("program deleted", zap.String("program", p.name), zap.Uint32("handle", p.handle))
	return true
}

// UniformLocation resolves a uniform's location, caching the result.
//
// Parameters:
//   - name: the uniform name
//
// Returns:
//   - int32: the location, or -1
//   - bool: false if the program has no active uniform with that name
func (p *Program) UniformLocation(name string) (int32, bool) {
	if loc, ok := p.locations[name]; ok {
		return loc, loc >= 0
	}
	loc := p.backend.UniformLocation(p.handle, name)
	p.locations[name] = loc
	return loc, loc >= 0
}
