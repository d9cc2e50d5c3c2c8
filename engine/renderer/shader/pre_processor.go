// pre_processor.go implements the Oxy GLSL pre-processor. It scans shader source for
// single-line @oxy: annotations and replaces each with the GLSL it names. The only
// annotation is include, which splices a registered snippet in place:
//
//	// @oxy:include lighting
//
// Snippets are plain GLSL fragments (uniform declarations and helper functions) shared by
// several programs so that uniform names stay identical across them.
package shader

import (
	_ "embed"
	"fmt"
	"strings"
)

// annotationPrefix marks an Oxy annotation inside a GLSL line comment.
const annotationPrefix = "@oxy:"

// annotationInclude is the include annotation keyword.
const annotationInclude = "include"

// SnippetLighting is the name of the built-in Blinn-Phong lighting snippet. It declares the light,
// material and camera_position uniforms and defines surface_color and shade.
const SnippetLighting = "lighting"

//go:embed snippets/lighting.glsl
var lightingSnippet string

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	snippets map[string]string
}

// PreProcessor expands @oxy: annotations in GLSL source.
type PreProcessor interface {
	// Process replaces every `// @oxy:include <name>` line with the registered snippet source.
	// Lines without an annotation are kept unchanged.
	//
	// Parameters:
	//   - source: the raw GLSL source
	//
	// Returns:
	//   - string: the expanded source
	//   - error: an error naming the line if an annotation is malformed or names an unknown snippet
	Process(source string) (string, error)

	// RegisterSnippet adds or replaces a named snippet.
	//
	// Parameters:
	//   - name: the include argument that selects the snippet
	//   - source: the GLSL text spliced in place of the annotation
	RegisterSnippet(name, source string)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the built-in snippets registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		snippets: map[string]string{
			SnippetLighting: lightingSnippet,
		},
	}
}

func (p *preProcessor) RegisterSnippet(name, source string) {
	p.snippets[name] = source
}

func (p *preProcessor) Process(source string) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		name, ok, err := parseInclude(line, i+1)
		if err != nil {
			return "", err
		}
		if !ok {
			out = append(out, line)
			continue
		}
		snippet, found := p.snippets[name]
		if !found {
			return "", fmt.Errorf("line %d: unknown @oxy:include snippet %q", i+1, name)
		}
		out = append(out, strings.TrimRight(snippet, "\n"))
	}
	return strings.Join(out, "\n"), nil
}

// parseInclude extracts the snippet name from an annotation line. ok is false for ordinary lines.
func parseInclude(line string, lineNum int) (name string, ok bool, err error) {
	trimmed := strings.TrimSpace(line)
	comment, isComment := strings.CutPrefix(trimmed, "//")
	if !isComment {
		return "", false, nil
	}
	after, found := strings.CutPrefix(strings.TrimSpace(comment), annotationPrefix)
	if !found {
		return "", false, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return "", false, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}
	if args[0] != annotationInclude {
		return "", false, fmt.Errorf("line %d: unknown annotation type %q", lineNum, args[0])
	}
	if len(args) != 2 {
		return "", false, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
	}
	return args[1], true, nil
}
