package renderer

import "github.com/Carmen-Shannon/oxy-gl/engine/model"

// VertexBuffer records one uploaded attribute buffer.
type VertexBuffer struct {
	Handle     uint32
	Attribute  model.Attribute
	Location   uint32
	Components int
	Rows       int
}

// VertexArray is a GPU vertex array object together with the buffers it references and the counts the
// draw call needs. Buffers belong to the vertex array and are deleted with it.
type VertexArray struct {
	Name        string
	Handle      uint32
	Buffers     []VertexBuffer
	IndexBuffer uint32
	IndexCount  int
	VertexCount int

	refs     int
	released bool
}

// Indexed reports whether draws use the element buffer.
func (va *VertexArray) Indexed() bool {
	return va.IndexCount > 0
}

// Retain records an additional holder and returns va for chaining.
func (va *VertexArray) Retain() *VertexArray {
	va.refs++
	return va
}

// Released reports whether the GPU objects have been deleted.
func (va *VertexArray) Released() bool {
	return va.released
}

// RefCount returns the number of live holders.
func (va *VertexArray) RefCount() int {
	return va.refs
}
