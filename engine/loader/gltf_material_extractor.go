package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
)

// gltfMaterialExtractorImpl is the implementation of the gltfMaterialExtractor interface.
type gltfMaterialExtractorImpl struct {
	parser gltfParser
	cache  map[int]*common.ImportedTexture
}

// gltfMaterialExtractor resolves the base-color texture of glTF materials into raw image bytes.
type gltfMaterialExtractor interface {
	// BaseColorTexture returns the encoded base-color image of a material.
	// Materials are shared between primitives, so each image is read once.
	//
	// Parameters:
	//   - materialIndex: the material index, or -1 for a primitive without material
	//
	// Returns:
	//   - *common.ImportedTexture: the undecoded image, nil if the material has no base-color texture
	//   - error: error if the texture chain is broken or the image cannot be read
	BaseColorTexture(materialIndex int) (*common.ImportedTexture, error)
}

var _ gltfMaterialExtractor = &gltfMaterialExtractorImpl{}

// newGLTFMaterialExtractor creates a new material extractor for a parsed document.
func newGLTFMaterialExtractor(parser gltfParser) gltfMaterialExtractor {
	return &gltfMaterialExtractorImpl{
		parser: parser,
		cache:  make(map[int]*common.ImportedTexture),
	}
}

func (e *gltfMaterialExtractorImpl) BaseColorTexture(materialIndex int) (*common.ImportedTexture, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if materialIndex < 0 {
		return nil, nil
	}
	if materialIndex >= len(doc.Materials) {
		return nil, fmt.Errorf("material index %d out of range", materialIndex)
	}

	pbr := doc.Materials[materialIndex].PbrMetallicRoughness
	if pbr == nil || pbr.BaseColorTexture == nil {
		return nil, nil
	}

	texIndex := pbr.BaseColorTexture.Index
	if texIndex < 0 || texIndex >= len(doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", texIndex)
	}
	src := doc.Textures[texIndex].Source
	if src == nil {
		return nil, nil
	}
	if cached, ok := e.cache[*src]; ok {
		return cached, nil
	}

	tex, err := e.loadImage(*src)
	if err != nil {
		return nil, fmt.Errorf("base color texture: %w", err)
	}
	e.cache[*src] = tex
	return tex, nil
}

// loadImage reads an image from its buffer view or URI. The bytes stay encoded until Decode.
func (e *gltfMaterialExtractorImpl) loadImage(imageIndex int) (*common.ImportedTexture, error) {
	doc := e.parser.Document()
	if imageIndex < 0 || imageIndex >= len(doc.Images) {
		return nil, fmt.Errorf("image index %d out of range", imageIndex)
	}
	img := &doc.Images[imageIndex]

	tex := &common.ImportedTexture{
		Name:     "base_color",
		MimeType: img.MimeType,
	}

	switch {
	case img.BufferView != nil:
		data, err := e.parser.BufferViewData(*img.BufferView)
		if err != nil {
			return nil, err
		}
		tex.Data = data
	case img.URI != "":
		data, err := e.parser.ReadURI(img.URI)
		if err != nil {
			return nil, err
		}
		tex.Data = data
	default:
		return nil, fmt.Errorf("image %d has neither bufferView nor uri", imageIndex)
	}
	return tex, nil
}
