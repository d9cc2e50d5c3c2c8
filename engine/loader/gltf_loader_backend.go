package loader

import (
	"fmt"
	"io/fs"
)

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct{}

// gltfLoaderBackend is a loaderBackend for glTF and GLB files. It walks the default scene's node
// graph and emits one part per triangle primitive, transformed by its node's world matrix.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
func newGLTFLoaderBackend() gltfLoaderBackend {
	return &gltfLoaderBackendImpl{}
}

func (b *gltfLoaderBackendImpl) load(fsys fs.FS, name string, data []byte) (*sourceModel, error) {
	parser := newGLTFParser(fsys)
	if err := parser.Parse(data, name); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	meshExtractor := newGLTFMeshExtractor(parser)
	materialExtractor := newGLTFMaterialExtractor(parser)

	parts, err := meshExtractor.ExtractScene()
	if err != nil {
		return nil, fmt.Errorf("mesh extraction failed: %w", err)
	}
	for i := range parts {
		tex, err := materialExtractor.BaseColorTexture(parts[i].material)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", parts[i].node, err)
		}
		parts[i].baseColor = tex
	}

	src := &sourceModel{parts: make([]sourcePart, len(parts))}
	for i, p := range parts {
		src.parts[i] = p.sourcePart
	}
	return src, nil
}
