package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"go.uber.org/zap"
)

func (r *renderer) AllocateVertexArray(mesh *model.Mesh, program *shader.Program) (*VertexArray, error) {
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	if program == nil || program.Released() {
		return nil, fmt.Errorf("%w: program for mesh %q", ErrReleased, mesh.Name)
	}

	attrs := mesh.Attributes()
	locations := make([]uint32, len(attrs))
	for i, attr := range attrs {
		loc := r.backend.AttribLocation(program.Handle(), string(attr))
		if loc < 0 {
			return nil, fmt.Errorf("%w: %q is not an input of program %s (mesh %q)", ErrMissingAttribute, attr, program.Name(), mesh.Name)
		}
		locations[i] = uint32(loc)
	}

	va := &VertexArray{
		Name:        mesh.Name,
		Handle:      r.backend.CreateVertexArray(),
		VertexCount: mesh.VertexCount(),
		refs:        1,
	}
	r.backend.BindVertexArray(va.Handle)
	for i, attr := range attrs {
		data, components := mesh.AttributeData(attr)
		buf := r.backend.CreateBuffer()
		r.backend.ArrayBufferData(buf, data)
		r.backend.VertexAttribPointer(locations[i], components)
		va.Buffers = append(va.Buffers, VertexBuffer{
			Handle:     buf,
			Attribute:  attr,
			Location:   locations[i],
			Components: components,
			Rows:       len(data) / components,
		})
	}
	if mesh.Indexed() {
		va.IndexBuffer = r.backend.CreateBuffer()
		r.backend.ElementBufferData(va.IndexBuffer, mesh.IndexData())
		va.IndexCount = mesh.IndexCount()
	}
	r.backend.BindVertexArray(0)

	if err := r.backend.CheckError("allocate vertex array " + mesh.Name); err != nil {
		r.deleteVertexArray(va)
		return nil, err
	}
	r.logger.Debug("vertex array allocated",
		zap.String("mesh", mesh.Name),
		zap.Uint32("handle", va.Handle),
		zap.Int("buffers", len(va.Buffers)),
		zap.Int("vertices", va.VertexCount),
		zap.Int("indices", va.IndexCount),
	)
	return va, nil
}

func (r *renderer) Allocate2DTexture(name string, img *common.TextureStagingData, unit uint32) (*Texture, error) {
	if err := validateImage(name, img); err != nil {
		return nil, err
	}

	t := &Texture{Name: name, Handle: r.backend.CreateTexture(), Target: Texture2D, Unit: unit, refs: 1}
	r.backend.BindTexture(Texture2D, t.Handle)
	r.backend.TexImage2D(Texture2D, 0, img)
	r.backend.GenerateMipmap(Texture2D)
	r.backend.SetSampling(Texture2D, FilterLinearMipmapLinear, WrapRepeat)
	r.backend.BindTexture(Texture2D, 0)

	if err := r.backend.CheckError("allocate texture " + name); err != nil {
		r.backend.DeleteTexture(t.Handle)
		return nil, err
	}
	r.logger.Debug("texture allocated", zap.String("texture", name), zap.Uint32("handle", t.Handle),
		zap.Uint32("width", img.Width), zap.Uint32("height", img.Height), zap.Uint32("unit", unit))
	return t, nil
}

func (r *renderer) AllocateCubeMapTexture(name string, faces []*common.TextureStagingData, unit uint32) (*Texture, error) {
	if err := ValidateCubeFaces(faces); err != nil {
		return nil, fmt.Errorf("cube map %s: %w", name, err)
	}

	t := &Texture{Name: name, Handle: r.backend.CreateTexture(), Target: TextureCubeMap, Unit: unit, refs: 1}
	r.backend.BindTexture(TextureCubeMap, t.Handle)
	for i, face := range faces {
		r.backend.TexImage2D(TextureCubeMap, i, face)
	}
	r.backend.SetSampling(TextureCubeMap, FilterLinear, WrapClampToEdge)
	r.backend.BindTexture(TextureCubeMap, 0)

	if err := r.backend.CheckError("allocate cube map " + name); err != nil {
		r.backend.DeleteTexture(t.Handle)
		return nil, err
	}
	r.logger.Debug("cube map allocated", zap.String("texture", name), zap.Uint32("handle", t.Handle),
		zap.Uint32("size", faces[0].Width), zap.Uint32("unit", unit))
	return t, nil
}

func (r *renderer) Release(obj Releasable) {
	if !obj.MarkReleased() {
		r.logger.Warn("render object already released", zap.String("object", obj.Name()))
		return
	}
	if va := obj.VertexArray(); va != nil {
		r.ReleaseVertexArray(va)
	}
	for _, t := range obj.Textures() {
		r.ReleaseTexture(t)
	}
	if p := obj.Program(); p != nil {
		p.Release()
	}
}

func (r *renderer) ReleaseVertexArray(va *VertexArray) {
	if va.released {
		r.logger.Warn("vertex array already released", zap.String("vertex_array", va.Name), zap.Uint32("handle", va.Handle))
		return
	}
	va.refs--
	if va.refs > 0 {
		return
	}
	r.deleteVertexArray(va)
}

func (r *renderer) ReleaseTexture(t *Texture) {
	if t.released {
		r.logger.Warn("texture already released", zap.String("texture", t.Name), zap.Uint32("handle", t.Handle))
		return
	}
	t.refs--
	if t.refs > 0 {
		return
	}
	r.backend.DeleteTexture(t.Handle)
	t.released = true
	t.refs = 0
	r.logger.Debug("texture deleted", zap.String("texture", t.Name), zap.Uint32("handle", t.Handle))
}

// deleteVertexArray frees the vertex array and every buffer it references.
func (r *renderer) deleteVertexArray(va *VertexArray) {
	for _, b := range va.Buffers {
		r.backend.DeleteBuffer(b.Handle)
	}
	if va.IndexBuffer != 0 {
		r.backend.DeleteBuffer(va.IndexBuffer)
	}
	r.backend.DeleteVertexArray(va.Handle)
	va.released = true
	va.refs = 0
	r.logger.Debug("vertex array deleted", zap.String("vertex_array", va.Name), zap.Uint32("handle", va.Handle))
}
