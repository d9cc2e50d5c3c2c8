package scene

import (
	"io/fs"

	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// FactoryBuilderOption is a functional option for configuring a Factory.
type FactoryBuilderOption func(f *factory)

// WithFactoryFS sets the file system the cube map faces are read from.
//
// Parameters:
//   - files: the file system, usually rooted at the asset directory
//
// Returns:
//   - FactoryBuilderOption: option function to apply
func WithFactoryFS(files fs.FS) FactoryBuilderOption {
	return func(f *factory) {
		if files != nil {
			f.files = files
		}
	}
}

// WithAssetPaths overrides the model and cube map locations. Empty fields keep their defaults.
//
// Parameters:
//   - paths: the asset paths
//
// Returns:
//   - FactoryBuilderOption: option function to apply
func WithAssetPaths(paths AssetPaths) FactoryBuilderOption {
	return func(f *factory) {
		if paths.Rings != "" {
			f.paths.Rings = paths.Rings
		}
		if paths.Bunny != "" {
			f.paths.Bunny = paths.Bunny
		}
		if paths.Logo != "" {
			f.paths.Logo = paths.Logo
		}
		if paths.CubeMapDir != "" {
			f.paths.CubeMapDir = paths.CubeMapDir
		}
	}
}

// WithLight sets the light every lit element is shaded with. Defaults to light.NewLight().
//
// Parameters:
//   - l: the light
//
// Returns:
//   - FactoryBuilderOption: option function to apply
func WithLight(l light.Light) FactoryBuilderOption {
	return func(f *factory) {
		if l != nil {
			f.light = l
		}
	}
}

// WithRotationSpeed sets how far the bunny turns per animation step.
//
// Parameters:
//   - degrees: the rotation per step in degrees
//
// Returns:
//   - FactoryBuilderOption: option function to apply
func WithRotationSpeed(degrees float32) FactoryBuilderOption {
	return func(f *factory) {
		f.rotationStep = mgl32.DegToRad(degrees)
	}
}

// WithDecodeWorkers sets the number of goroutines decoding images. Defaults to one per cube face.
//
// Parameters:
//   - n: the worker count, minimum 1
//
// Returns:
//   - FactoryBuilderOption: option function to apply
func WithDecodeWorkers(n int) FactoryBuilderOption {
	return func(f *factory) {
		f.decodeWorkers = max(n, 1)
	}
}

// WithFactoryLogger sets the logger. Defaults to a no-op logger.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - FactoryBuilderOption: option function to apply
func WithFactoryLogger(logger *zap.Logger) FactoryBuilderOption {
	return func(f *factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}
