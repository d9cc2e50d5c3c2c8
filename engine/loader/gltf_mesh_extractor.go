package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// gltfPart is a sourcePart that still remembers its glTF material index.
type gltfPart struct {
	sourcePart
	material int
}

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser gltfParser
}

// gltfMeshExtractor converts the node graph of a parsed document into model-space parts.
type gltfMeshExtractor interface {
	// ExtractScene walks the default scene depth first and returns one part per triangle primitive.
	// Positions are transformed by the node's world matrix and normals by its normal matrix.
	//
	// Returns:
	//   - []gltfPart: the parts in traversal order
	//   - error: error if a primitive cannot be read
	ExtractScene() ([]gltfPart, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

// newGLTFMeshExtractor creates a new mesh extractor for a parsed document.
func newGLTFMeshExtractor(parser gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser}
}

func (e *gltfMeshExtractorImpl) ExtractScene() ([]gltfPart, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	var parts []gltfPart
	visited := make([]bool, len(doc.Nodes))

	var walk func(index int, parent mgl32.Mat4, ancestors []string) error
	walk = func(index int, parent mgl32.Mat4, ancestors []string) error {
		if index < 0 || index >= len(doc.Nodes) {
			return fmt.Errorf("node index %d out of range", index)
		}
		if visited[index] {
			return fmt.Errorf("node %d is referenced twice", index)
		}
		visited[index] = true

		node := &doc.Nodes[index]
		name := gltfNodeName(node, index)
		world := parent.Mul4(gltfLocalTransform(node))

		if node.Mesh != nil {
			meshParts, err := e.extractMesh(*node.Mesh, name, world)
			if err != nil {
				return fmt.Errorf("node %q: %w", name, err)
			}
			for i := range meshParts {
				meshParts[i].ancestors = ancestors
			}
			parts = append(parts, meshParts...)
		}

		childAncestors := append(append([]string(nil), ancestors...), name)
		for _, child := range node.Children {
			if err := walk(child, world, childAncestors); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range gltfRootNodes(doc) {
		if err := walk(root, mgl32.Ident4(), nil); err != nil {
			return nil, err
		}
	}
	return parts, nil
}

// extractMesh reads every primitive of a mesh and moves it into model space with world.
func (e *gltfMeshExtractorImpl) extractMesh(meshIndex int, nodeName string, world mgl32.Mat4) ([]gltfPart, error) {
	doc := e.parser.Document()
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}

	mesh := &doc.Meshes[meshIndex]
	normalMatrix := world.Mat3().Inv().Transpose()

	parts := make([]gltfPart, 0, len(mesh.Primitives))
	for primIdx := range mesh.Primitives {
		prim := &mesh.Primitives[primIdx]
		m, err := e.extractPrimitive(prim, fmt.Sprintf("%s_%d", nodeName, primIdx))
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIndex, primIdx, err)
		}

		for i, p := range m.Positions {
			m.Positions[i] = mgl32.TransformCoordinate(p, world)
		}
		for i, n := range m.Normals {
			m.Normals[i] = normalMatrix.Mul3x1(n).Normalize()
		}

		material := -1
		if prim.Material != nil {
			material = *prim.Material
		}
		parts = append(parts, gltfPart{
			sourcePart: sourcePart{node: nodeName, mesh: m},
			material:   material,
		})
	}
	return parts, nil
}

// extractPrimitive reads a triangle primitive into a mesh in node-local coordinates.
// Missing indices become a sequential triangle list. Missing normals are generated.
func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltfPrimitive, name string) (*model.Mesh, error) {
	if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
		return nil, fmt.Errorf("unsupported primitive mode: %d (only triangles supported)", *prim.Mode)
	}

	posAccessor, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := e.parser.ReadVec3Accessor(posAccessor)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}
	m := &model.Mesh{Name: name, Positions: positions, Transform: mgl32.Ident4()}

	if acc, ok := prim.Attributes["NORMAL"]; ok {
		if m.Normals, err = e.parser.ReadVec3Accessor(acc); err != nil {
			return nil, fmt.Errorf("failed to read normals: %w", err)
		}
	}
	if acc, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if m.TexCoords, err = e.parser.ReadVec2Accessor(acc); err != nil {
			return nil, fmt.Errorf("failed to read texcoords: %w", err)
		}
	}
	if acc, ok := prim.Attributes["COLOR_0"]; ok {
		if m.Colors, err = e.parser.ReadColorAccessor(acc); err != nil {
			return nil, fmt.Errorf("failed to read colors: %w", err)
		}
	}

	var flat []uint32
	if prim.Indices != nil {
		if flat, err = e.parser.ReadIndicesAccessor(*prim.Indices); err != nil {
			return nil, fmt.Errorf("failed to read indices: %w", err)
		}
	} else {
		flat = make([]uint32, len(positions))
		for i := range flat {
			flat[i] = uint32(i)
		}
	}
	if len(flat)%3 != 0 {
		return nil, fmt.Errorf("%d indices do not form whole triangles", len(flat))
	}
	m.Indices = make([][3]uint32, len(flat)/3)
	for i := range m.Indices {
		m.Indices[i] = [3]uint32{flat[3*i], flat[3*i+1], flat[3*i+2]}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	if len(m.Normals) == 0 {
		m.GenerateNormals()
	}
	return m, nil
}

// gltfLocalTransform returns a node's matrix, or T * R * S built from its TRS properties.
func gltfLocalTransform(node *gltfNode) mgl32.Mat4 {
	if node.Matrix != nil {
		return mgl32.Mat4(*node.Matrix)
	}
	local := mgl32.Ident4()
	if t := node.Translation; t != nil {
		local = local.Mul4(mgl32.Translate3D(t[0], t[1], t[2]))
	}
	if r := node.Rotation; r != nil {
		q := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
		local = local.Mul4(q.Normalize().Mat4())
	}
	if s := node.Scale; s != nil {
		local = local.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	}
	return local
}

// gltfRootNodes returns the root nodes of the default scene, the first scene when none is marked
// default, or every parentless node when the document has no scenes.
func gltfRootNodes(doc *gltfDocument) []int {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		return doc.Scenes[idx].Nodes
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i, p := range hasParent {
		if !p {
			roots = append(roots, i)
		}
	}
	return roots
}

// gltfNodeName returns the node's name, or node_<index> for unnamed nodes.
func gltfNodeName(node *gltfNode, index int) string {
	if node.Name != "" {
		return node.Name
	}
	return fmt.Sprintf("node_%d", index)
}
