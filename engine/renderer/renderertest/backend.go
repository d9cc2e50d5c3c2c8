// Package renderertest provides an in-memory RendererBackend that records every GPU command,
// for testing the renderer and the code built on it without a graphics context.
package renderertest

import (
	"fmt"
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded backend command.
type Call struct {
	Name string
	Args []any
}

// DrawRecord captures the state a draw call was issued under.
type DrawRecord struct {
	Program     uint32
	VertexArray uint32
	Count       int
	Indexed     bool
	DepthWrite  bool
	DepthFunc   renderer.DepthFunc
	Textures    map[uint32]uint32
}

type program struct {
	attributes []string
	uniforms   []string
	values     map[string]any
}

// Backend is a recording renderer.RendererBackend. Handles are allocated from one counter starting at 1,
// so every handle it returns is unique and non-zero. The zero value is not usable; call New.
type Backend struct {
	Calls []Call
	Draws []DrawRecord

	// ArrayData and ElementData hold the last upload to each buffer handle.
	ArrayData   map[uint32][]float32
	ElementData map[uint32][]uint32

	// Live tracks handles created and not yet deleted.
	Live map[uint32]string

	DepthWrite bool
	DepthFunc  renderer.DepthFunc

	// DepthWritten is set by any draw issued with depth writes enabled and cleared by Clear.
	DepthWritten bool

	// CompileErr, ValidateErr and PendingErr are returned by CompileProgram, ValidateProgram and the
	// next CheckError respectively when set.
	CompileErr  error
	ValidateErr error
	PendingErr  error

	next        uint32
	programs    map[uint32]*program
	bound       uint32
	boundVAO    uint32
	activeUnit  uint32
	unitTexture map[uint32]uint32
}

var _ renderer.RendererBackend = &Backend{}
var _ shader.ProgramBackend = &Backend{}

// New creates an empty recording backend with depth writes enabled and depth func LESS.
func New() *Backend {
	return &Backend{
		ArrayData:   make(map[uint32][]float32),
		ElementData: make(map[uint32][]uint32),
		Live:        make(map[uint32]string),
		DepthWrite:  true,
		DepthFunc:   renderer.DepthLess,
		programs:    make(map[uint32]*program),
		unitTexture: make(map[uint32]uint32),
	}
}

// AddProgram registers a linked program with the given attribute and uniform names and returns its handle.
// Locations are assigned in list order from zero.
func (b *Backend) AddProgram(attributes, uniforms []string) uint32 {
	h := b.alloc("program")
	b.programs[h] = &program{
		attributes: slices.Clone(attributes),
		uniforms:   slices.Clone(uniforms),
		values:     make(map[string]any),
	}
	return h
}

// Reset clears the recorded calls and draws but keeps every object and its state.
func (b *Backend) Reset() {
	b.Calls = nil
	b.Draws = nil
}

// CallNames returns the recorded command names in order.
func (b *Backend) CallNames() []string {
	names := make([]string, len(b.Calls))
	for i, c := range b.Calls {
		names[i] = c.Name
	}
	return names
}

// Count returns how many times the named command was recorded.
func (b *Backend) Count(name string) int {
	n := 0
	for _, c := range b.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Named returns the recorded calls of one command, in order.
func (b *Backend) Named(name string) []Call {
	var out []Call
	for _, c := range b.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// UniformValue returns the last value set for a uniform on a program.
func (b *Backend) UniformValue(program uint32, name string) (any, bool) {
	p, ok := b.programs[program]
	if !ok {
		return nil, false
	}
	v, ok := p.values[name]
	return v, ok
}

func (b *Backend) record(name string, args ...any) {
	b.Calls = append(b.Calls, Call{Name: name, Args: args})
}

func (b *Backend) alloc(kind string) uint32 {
	b.next++
	b.Live[b.next] = kind
	return b.next
}

func (b *Backend) free(kind string, h uint32) {
	if b.Live[h] == kind {
		delete(b.Live, h)
	}
}

func (b *Backend) Viewport(width, height int) { b.record("Viewport", width, height) }

func (b *Backend) SetClearColor(color mgl32.Vec4) { b.record("SetClearColor", color) }

func (b *Backend) EnableFaceCulling() { b.record("EnableFaceCulling") }

func (b *Backend) EnableDepthTest() { b.record("EnableDepthTest") }

func (b *Backend) DepthMask(write bool) {
	b.record("DepthMask", write)
	b.DepthWrite = write
}

func (b *Backend) SetDepthFunc(fn renderer.DepthFunc) {
	b.record("SetDepthFunc", fn)
	b.DepthFunc = fn
}

func (b *Backend) Clear() {
	b.record("Clear")
	b.DepthWritten = false
}

func (b *Backend) CreateVertexArray() uint32 {
	h := b.alloc("vertex_array")
	b.record("CreateVertexArray", h)
	return h
}

func (b *Backend) BindVertexArray(vao uint32) {
	b.record("BindVertexArray", vao)
	b.boundVAO = vao
}

func (b *Backend) DeleteVertexArray(vao uint32) {
	b.record("DeleteVertexArray", vao)
	b.free("vertex_array", vao)
}

func (b *Backend) CreateBuffer() uint32 {
	h := b.alloc("buffer")
	b.record("CreateBuffer", h)
	return h
}

func (b *Backend) ArrayBufferData(buf uint32, data []float32) {
	b.record("ArrayBufferData", buf, len(data))
	b.ArrayData[buf] = slices.Clone(data)
}

func (b *Backend) ElementBufferData(buf uint32, data []uint32) {
	b.record("ElementBufferData", buf, len(data))
	b.ElementData[buf] = slices.Clone(data)
}

func (b *Backend) DeleteBuffer(buf uint32) {
	b.record("DeleteBuffer", buf)
	b.free("buffer", buf)
}

func (b *Backend) AttribLocation(program uint32, name string) int32 {
	b.record("AttribLocation", program, name)
	p, ok := b.programs[program]
	if !ok {
		return -1
	}
	return int32(slices.Index(p.attributes, name))
}

func (b *Backend) VertexAttribPointer(location uint32, components int) {
	b.record("VertexAttribPointer", location, components)
}

func (b *Backend) CreateTexture() uint32 {
	h := b.alloc("texture")
	b.record("CreateTexture", h)
	return h
}

func (b *Backend) ActiveTexture(unit uint32) {
	b.record("ActiveTexture", unit)
	b.activeUnit = unit
}

func (b *Backend) BindTexture(target renderer.TextureTarget, tex uint32) {
	b.record("BindTexture", target, tex)
	if tex == 0 {
		delete(b.unitTexture, b.activeUnit)
		return
	}
	b.unitTexture[b.activeUnit] = tex
}

func (b *Backend) TexImage2D(target renderer.TextureTarget, face int, img *common.TextureStagingData) {
	b.record("TexImage2D", target, face, img.Width, img.Height)
}

func (b *Backend) GenerateMipmap(target renderer.TextureTarget) { b.record("GenerateMipmap", target) }

func (b *Backend) SetSampling(target renderer.TextureTarget, filter renderer.Filter, wrap renderer.Wrap) {
	b.record("SetSampling", target, filter, wrap)
}

func (b *Backend) DeleteTexture(tex uint32) {
	b.record("DeleteTexture", tex)
	b.free("texture", tex)
}

// CompileProgram registers a program whose attribute and uniform tables are parsed from the sources.
func (b *Backend) CompileProgram(vertexSource, fragmentSource string) (uint32, error) {
	if b.CompileErr != nil {
		b.record("CompileProgram", 0)
		return 0, b.CompileErr
	}
	d := shader.ParseDeclarations(vertexSource, fragmentSource)
	h := b.AddProgram(d.Attributes, d.Uniforms)
	b.record("CompileProgram", h)
	return h, nil
}

func (b *Backend) ValidateProgram(program uint32) error {
	b.record("ValidateProgram", program)
	return b.ValidateErr
}

func (b *Backend) UseProgram(program uint32) {
	b.record("UseProgram", program)
	b.bound = program
}

func (b *Backend) DeleteProgram(program uint32) {
	b.record("DeleteProgram", program)
	b.free("program", program)
}

func (b *Backend) UniformLocation(program uint32, name string) int32 {
	b.record("UniformLocation", program, name)
	p, ok := b.programs[program]
	if !ok {
		return -1
	}
	return int32(slices.Index(p.uniforms, name))
}

func (b *Backend) setUniform(call string, location int32, v any) {
	b.record(call, location, v)
	p, ok := b.programs[b.bound]
	if !ok || location < 0 || int(location) >= len(p.uniforms) {
		return
	}
	p.values[p.uniforms[location]] = v
}

func (b *Backend) Uniform1i(location int32, v int32) { b.setUniform("Uniform1i", location, v) }

func (b *Backend) Uniform1f(location int32, v float32) { b.setUniform("Uniform1f", location, v) }

func (b *Backend) Uniform3f(location int32, v mgl32.Vec3) { b.setUniform("Uniform3f", location, v) }

func (b *Backend) UniformMatrix3(location int32, m mgl32.Mat3) {
	b.setUniform("UniformMatrix3", location, m)
}

func (b *Backend) UniformMatrix4(location int32, m mgl32.Mat4) {
	b.setUniform("UniformMatrix4", location, m)
}

func (b *Backend) draw(call string, count int, indexed bool) {
	b.record(call, count)
	b.Draws = append(b.Draws, DrawRecord{
		Program:     b.bound,
		VertexArray: b.boundVAO,
		Count:       count,
		Indexed:     indexed,
		DepthWrite:  b.DepthWrite,
		DepthFunc:   b.DepthFunc,
		Textures:    maps.Clone(b.unitTexture),
	})
	if b.DepthWrite {
		b.DepthWritten = true
	}
}

func (b *Backend) DrawElements(count int) { b.draw("DrawElements", count, true) }

func (b *Backend) DrawArrays(count int) { b.draw("DrawArrays", count, false) }

func (b *Backend) CheckError(op string) error {
	b.record("CheckError", op)
	if err := b.PendingErr; err != nil {
		b.PendingErr = nil
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
