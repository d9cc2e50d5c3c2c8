package renderer

import "errors"

var (
	// ErrMissingAttribute is returned when a mesh attribute has no matching input in the shader program.
	ErrMissingAttribute = errors.New("missing vertex attribute")

	// ErrMissingUniform is returned when a uniform name is not declared by the bound shader program.
	ErrMissingUniform = errors.New("missing uniform")

	// ErrInvalidCubeMap is returned for cube map face sets that are not six equally sized square images.
	ErrInvalidCubeMap = errors.New("invalid cube map")

	// ErrInvalidImage is returned for images whose pixel data does not match their dimensions.
	ErrInvalidImage = errors.New("invalid image")

	// ErrNoVertexArray is returned when drawing an object that has no live vertex array.
	ErrNoVertexArray = errors.New("no vertex array")

	// ErrReleased is returned when a released resource is used.
	ErrReleased = errors.New("resource already released")
)
