package renderer

import "fmt"

func (r *renderer) Draw(d Drawable, dynamic []Uniform) error {
	p := d.Program()
	if p == nil || p.Released() {
		return fmt.Errorf("%w: program of %q", ErrReleased, d.Name())
	}
	va := d.VertexArray()
	if va == nil {
		return fmt.Errorf("%w: %q", ErrNoVertexArray, d.Name())
	}
	if va.Released() {
		return fmt.Errorf("%w: vertex array of %q", ErrReleased, d.Name())
	}
	textures := d.Textures()
	for _, t := range textures {
		if t.Released() {
			return fmt.Errorf("%w: texture %s of %q", ErrReleased, t.Name, d.Name())
		}
	}

	static := d.StaticUniforms()
	r.locations = r.locations[:0]
	for _, set := range [][]Uniform{static, dynamic} {
		for _, u := range set {
			loc, ok := p.UniformLocation(u.Name)
			if !ok {
				return fmt.Errorf("%w: %q is not declared by program %s (object %q)", ErrMissingUniform, u.Name, p.Name(), d.Name())
			}
			r.locations = append(r.locations, loc)
		}
	}

	r.backend.UseProgram(p.Handle())
	for i, u := range static {
		u.apply(r.backend, r.locations[i])
	}
	for i, u := range dynamic {
		u.apply(r.backend, r.locations[len(static)+i])
	}
	for _, t := range textures {
		r.backend.ActiveTexture(t.Unit)
		r.backend.BindTexture(t.Target, t.Handle)
	}
	r.backend.BindVertexArray(va.Handle)
	if va.Indexed() {
		r.backend.DrawElements(va.IndexCount)
	} else {
		r.backend.DrawArrays(va.VertexCount)
	}
	r.backend.BindVertexArray(0)
	for _, t := range textures {
		r.backend.ActiveTexture(t.Unit)
		r.backend.BindTexture(t.Target, 0)
	}
	return nil
}

func (r *renderer) DrawSkybox(d Drawable, dynamic []Uniform) error {
	r.backend.SetDepthFunc(DepthLessEqual)
	r.backend.DepthMask(false)
	defer func() {
		r.backend.DepthMask(true)
		r.backend.SetDepthFunc(DepthLess)
	}()
	return r.Draw(d, dynamic)
}
