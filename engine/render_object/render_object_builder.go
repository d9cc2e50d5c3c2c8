package render_object

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// RenderObjectBuilderOption is a function that configures a render object during construction.
type RenderObjectBuilderOption func(*renderObject)

// WithTextures attaches textures to the object's draw. The object takes over one reference to each.
//
// Parameters:
//   - textures: the textures, each bound on its own unit
//
// Returns:
//   - RenderObjectBuilderOption: a function that applies the textures option to a render object
func WithTextures(textures ...*renderer.Texture) RenderObjectBuilderOption {
	return func(o *renderObject) {
		o.textures = append(o.textures, textures...)
	}
}

// WithStaticUniforms appends uniforms set on every draw before the per-frame ones.
//
// Parameters:
//   - uniforms: the uniforms in the order they are set
//
// Returns:
//   - RenderObjectBuilderOption: a function that applies the uniforms option to a render object
func WithStaticUniforms(uniforms ...renderer.Uniform) RenderObjectBuilderOption {
	return func(o *renderObject) {
		o.static = append(o.static, uniforms...)
	}
}

// WithAnimation attaches a per-frame animation.
//
// Parameters:
//   - a: the animation
//
// Returns:
//   - RenderObjectBuilderOption: a function that applies the animation option to a render object
func WithAnimation(a Animation) RenderObjectBuilderOption {
	return func(o *renderObject) {
		o.animation = a
	}
}

// WithDynamicUniforms sets which optional per-frame uniforms the program consumes. The default is DynamicLit.
//
// Parameters:
//   - d: the flag set, 0 for PVM only
//
// Returns:
//   - RenderObjectBuilderOption: a function that applies the dynamic uniform option to a render object
func WithDynamicUniforms(d DynamicUniform) RenderObjectBuilderOption {
	return func(o *renderObject) {
		o.dynamic = d
	}
}

// WithModelMatrix overrides the model matrix taken from the mesh.
//
// Parameters:
//   - m: the model matrix
//
// Returns:
//   - RenderObjectBuilderOption: a function that applies the model matrix option to a render object
func WithModelMatrix(m mgl32.Mat4) RenderObjectBuilderOption {
	return func(o *renderObject) {
		o.modelMatrix = m
	}
}
