package shader

import (
	"regexp"
	"slices"
	"strings"
)

// declarationPattern matches top-level GLSL `in` and `uniform` declarations, with an optional layout
// qualifier and precision or interpolation qualifiers, capturing the storage keyword, the type and the
// comma-separated declarator list.
var declarationPattern = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?(uniform|in)\s+(?:(?:lowp|mediump|highp|flat|smooth|noperspective)\s+)*(\w+)\s+([^;{]+);`)

// Declarations lists the interface names a GLSL program declares.
type Declarations struct {
	// Attributes are the vertex stage `in` variables, in source order.
	Attributes []string

	// Uniforms are the uniforms of both stages, in source order, without duplicates.
	Uniforms []string
}

// HasAttribute reports whether name is a declared vertex attribute.
func (d Declarations) HasAttribute(name string) bool {
	return slices.Contains(d.Attributes, name)
}

// HasUniform reports whether name is a declared uniform.
func (d Declarations) HasUniform(name string) bool {
	return slices.Contains(d.Uniforms, name)
}

// ParseDeclarations scans vertex and fragment GLSL sources for their attribute and uniform names.
// Only the vertex stage contributes attributes; fragment `in` variables are varyings.
//
// Parameters:
//   - vertexSource: the pre-processed vertex stage source
//   - fragmentSource: the pre-processed fragment stage source
//
// Returns:
//   - Declarations: the attribute and uniform names found
func ParseDeclarations(vertexSource, fragmentSource string) Declarations {
	var d Declarations
	collect := func(source string, attributes bool) {
		for _, m := range declarationPattern.FindAllStringSubmatch(stripComments(source), -1) {
			for _, name := range declaratorNames(m[3]) {
				switch {
				case m[1] == "uniform" && !slices.Contains(d.Uniforms, name):
					d.Uniforms = append(d.Uniforms, name)
				case m[1] == "in" && attributes:
					d.Attributes = append(d.Attributes, name)
				}
			}
		}
	}
	collect(vertexSource, true)
	collect(fragmentSource, false)
	return d
}

// declaratorNames splits "a, b[4], c = 1.0" into its bare variable names.
func declaratorNames(list string) []string {
	var names []string
	for part := range strings.SplitSeq(list, ",") {
		name, _, _ := strings.Cut(part, "=")
		name, _, _ = strings.Cut(name, "[")
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// stripComments removes block and line comments so commented-out declarations are not reported.
func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

func stripLineComments(source string) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// stripBlockComments removes /* ... */ comments. GLSL block comments do not nest.
func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	inComment := false
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			if !inComment && source[i] == '/' && source[i+1] == '*' {
				inComment = true
				i++
				continue
			}
			if inComment && source[i] == '*' && source[i+1] == '/' {
				inComment = false
				i++
				continue
			}
		}
		if !inComment {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}
