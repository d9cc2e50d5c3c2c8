package shader

import (
	"io/fs"
	"os"

	"go.uber.org/zap"
)

// CompilerBuilderOption is a functional option applied to a compiler during construction via NewCompiler.
type CompilerBuilderOption func(*compiler)

// WithShaderDir reads shader sources from a directory on disk.
//
// Parameters:
//   - dir: the shader root directory
//
// Returns:
//   - CompilerBuilderOption: a function that applies the directory option to a compiler
func WithShaderDir(dir string) CompilerBuilderOption {
	return func(c *compiler) {
		c.files = os.DirFS(dir)
	}
}

// WithShaderFS reads shader sources from an fs.FS, such as an embed.FS.
//
// Parameters:
//   - files: the file system rooted at the shader directory
//
// Returns:
//   - CompilerBuilderOption: a function that applies the file system option to a compiler
func WithShaderFS(files fs.FS) CompilerBuilderOption {
	return func(c *compiler) {
		c.files = files
	}
}

// WithSnippet registers an additional include snippet.
//
// Parameters:
//   - name: the include argument
//   - source: the GLSL text
//
// Returns:
//   - CompilerBuilderOption: a function that registers the snippet on the compiler's pre-processor
func WithSnippet(name, source string) CompilerBuilderOption {
	return func(c *compiler) {
		c.pp.RegisterSnippet(name, source)
	}
}

// WithValidation toggles program validation after linking. It is on by default.
//
// Parameters:
//   - enabled: whether to validate
//
// Returns:
//   - CompilerBuilderOption: a function that applies the validation option to a compiler
func WithValidation(enabled bool) CompilerBuilderOption {
	return func(c *compiler) {
		c.validate = enabled
	}
}

// WithLogger sets the logger for compile and release events.
//
// Parameters:
//   - logger: the zap logger
//
// Returns:
//   - CompilerBuilderOption: a function that applies the logger option to a compiler
func WithLogger(logger *zap.Logger) CompilerBuilderOption {
	return func(c *compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}
