package loader

import (
	"io/fs"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
)

// sourcePart is one piece of geometry from a model file, already in model space.
type sourcePart struct {
	// node is the name of the node or group the geometry belongs to.
	node string

	// ancestors are the names of the enclosing nodes, root first.
	ancestors []string

	// mesh is indexed and carries normals.
	mesh *model.Mesh

	// baseColor is the part's base-color texture, nil when it has none.
	baseColor *common.ImportedTexture
}

// sourceModel is a parsed model file as kept in the loader cache. Load options are applied to a
// merged copy, so cached parts are never mutated after parsing.
type sourceModel struct {
	parts []sourcePart
}

// loaderBackend parses one model file format.
type loaderBackend interface {
	// load parses a model file.
	//
	// Parameters:
	//   - fsys: the file system external resources resolve in
	//   - name: the slash-separated path of the file inside fsys
	//   - data: the file contents
	//
	// Returns:
	//   - *sourceModel: the parsed parts
	//   - error: error if the file cannot be parsed
	load(fsys fs.FS, name string, data []byte) (*sourceModel, error)
}
