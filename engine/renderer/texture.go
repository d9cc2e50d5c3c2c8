package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
)

// CubeFaceCount is the number of faces a cube map texture is built from.
const CubeFaceCount = 6

// CubeFaceNames lists the conventional file stems of the cube faces in upload order: +X, -X, +Y, -Y, +Z, -Z.
var CubeFaceNames = [CubeFaceCount]string{"px", "nx", "py", "ny", "pz", "nz"}

// Texture is a GPU texture handle with the target it binds to and the texture unit it is sampled from.
// A texture may be shared by several render objects; each holder retains it and the GPU object is
// deleted when the last holder releases it.
type Texture struct {
	Name   string
	Handle uint32
	Target TextureTarget
	Unit   uint32

	refs     int
	released bool
}

// Retain records an additional holder and returns t for chaining.
func (t *Texture) Retain() *Texture {
	t.refs++
	return t
}

// Released reports whether the GPU texture has been deleted.
func (t *Texture) Released() bool {
	return t.released
}

// RefCount returns the number of live holders.
func (t *Texture) RefCount() int {
	return t.refs
}

// validateImage checks that pixel data holds exactly width*height RGBA texels.
func validateImage(name string, img *common.TextureStagingData) error {
	if img == nil {
		return fmt.Errorf("%w: %s is nil", ErrInvalidImage, name)
	}
	if img.Width == 0 || img.Height == 0 {
		return fmt.Errorf("%w: %s has zero size %dx%d", ErrInvalidImage, name, img.Width, img.Height)
	}
	if want := 4 * int(img.Width) * int(img.Height); len(img.Pixels) != want {
		return fmt.Errorf("%w: %s has %d bytes of pixel data, want %d for %dx%d RGBA", ErrInvalidImage, name, len(img.Pixels), want, img.Width, img.Height)
	}
	return nil
}

// ValidateCubeFaces checks a face set before any GPU call: exactly six valid square images, all the same size,
// ordered +X, -X, +Y, -Y, +Z, -Z.
func ValidateCubeFaces(faces []*common.TextureStagingData) error {
	if len(faces) != CubeFaceCount {
		return fmt.Errorf("%w: got %d faces, want %d", ErrInvalidCubeMap, len(faces), CubeFaceCount)
	}
	for i, face := range faces {
		if err := validateImage("cube face "+CubeFaceNames[i], face); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidCubeMap, err)
		}
		if face.Width != face.Height {
			return fmt.Errorf("%w: face %s is %dx%d, faces must be square", ErrInvalidCubeMap, CubeFaceNames[i], face.Width, face.Height)
		}
		if face.Width != faces[0].Width {
			return fmt.Errorf("%w: face %s is %dx%d, face %s is %dx%d", ErrInvalidCubeMap,
				CubeFaceNames[i], face.Width, face.Height, CubeFaceNames[0], faces[0].Width, faces[0].Height)
		}
	}
	return nil
}
