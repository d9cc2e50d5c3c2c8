package renderer

import "github.com/go-gl/mathgl/mgl32"

// UniformKind tags the type of a Uniform's value.
type UniformKind int

const (
	UniformInt UniformKind = iota
	UniformFloat
	UniformVec3
	UniformMat3
	UniformMat4
)

func (k UniformKind) String() string {
	switch k {
	case UniformInt:
		return "int"
	case UniformFloat:
		return "float"
	case UniformVec3:
		return "vec3"
	case UniformMat3:
		return "mat3"
	case UniformMat4:
		return "mat4"
	}
	return "unknown"
}

// Uniform is a named, typed shader input. Its Name must match a uniform declared by the program it is set on.
// Build values with the typed constructors so the payload always matches Kind.
type Uniform struct {
	Name string
	Kind UniformKind

	i  int32
	f  float32
	v3 mgl32.Vec3
	m3 mgl32.Mat3
	m4 mgl32.Mat4
}

func IntUniform(name string, v int32) Uniform {
	return Uniform{Name: name, Kind: UniformInt, i: v}
}

func FloatUniform(name string, v float32) Uniform {
	return Uniform{Name: name, Kind: UniformFloat, f: v}
}

func Vec3Uniform(name string, v mgl32.Vec3) Uniform {
	return Uniform{Name: name, Kind: UniformVec3, v3: v}
}

func Mat3Uniform(name string, m mgl32.Mat3) Uniform {
	return Uniform{Name: name, Kind: UniformMat3, m3: m}
}

func Mat4Uniform(name string, m mgl32.Mat4) Uniform {
	return Uniform{Name: name, Kind: UniformMat4, m4: m}
}

// BoolUniform encodes a flag as an int uniform, 1 for true.
func BoolUniform(name string, v bool) Uniform {
	if v {
		return IntUniform(name, 1)
	}
	return IntUniform(name, 0)
}

// Value returns the payload as int32, float32, mgl32.Vec3, mgl32.Mat3 or mgl32.Mat4 depending on Kind.
func (u Uniform) Value() any {
	switch u.Kind {
	case UniformInt:
		return u.i
	case UniformFloat:
		return u.f
	case UniformVec3:
		return u.v3
	case UniformMat3:
		return u.m3
	case UniformMat4:
		return u.m4
	}
	return nil
}

// apply uploads the value to location on the bound program.
func (u Uniform) apply(b RendererBackend, location int32) {
	switch u.Kind {
	case UniformInt:
		b.Uniform1i(location, u.i)
	case UniformFloat:
		b.Uniform1f(location, u.f)
	case UniformVec3:
		b.Uniform3f(location, u.v3)
	case UniformMat3:
		b.UniformMatrix3(location, u.m3)
	case UniformMat4:
		b.UniformMatrix4(location, u.m4)
	}
}
