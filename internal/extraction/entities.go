package extraction

import (
	"strings"

	"github.com/cortexchunk/chunker/internal/ast"
)

var kindNames = map[ast.NodeKind]string{
	ast.NodeFunction:  "function",
	ast.NodeMethod:    "method",
	ast.NodeClass:     "class",
	ast.NodeStruct:    "struct",
	ast.NodeEnum:      "enum",
	ast.NodeInterface: "interface",
	ast.NodeTrait:     "trait",
	ast.NodeImpl:      "impl",
	ast.NodeModule:    "module",
	ast.NodeVariable:  "variable",
	ast.NodeConstant:  "constant",
}

// Entities walks the parsed file's nodes in document order and builds a
// CodeEntity per node of a kind in kindNames (the chunk-worthy kinds plus
// variables), with a dot-joined scope path computed
// from a stack of currently-open named ancestors.
func Entities(pf *ast.ParsedFile) []CodeEntity {
	lines := strings.Split(pf.Content, "\n")

	type frame struct {
		name    string
		endLine int
	}
	var stack []frame

	var entities []CodeEntity
	for _, n := range pf.Nodes {
		for len(stack) > 0 && n.StartLine > stack[len(stack)-1].endLine {
			stack = stack[:len(stack)-1]
		}

		kindName, ok := kindNames[n.Kind]
		if !ok {
			if len(stack) > 0 && n.Name != "" {
				// named nodes of other kinds are not pushed onto the scope stack
			}
			continue
		}

		scopeNames := make([]string, 0, len(stack))
		for _, f := range stack {
			scopeNames = append(scopeNames, f.name)
		}
		scopePath := strings.Join(scopeNames, ".")

		var parent string
		if len(stack) > 0 {
			parent = stack[len(stack)-1].name
		}

		entities = append(entities, CodeEntity{
			Name:         n.Name,
			Kind:         kindName,
			ScopePath:    scopePath,
			StartLine:    n.StartLine,
			EndLine:      n.EndLine,
			StartByte:    n.StartByte,
			EndByte:      n.EndByte,
			Signature:    extractSignature(lines, n.StartLine),
			Docstring:    extractDocstring(lines, n.StartLine),
			ParentSymbol: parent,
		})

		if n.Name != "" {
			stack = append(stack, frame{name: n.Name, endLine: n.EndLine})
		}
	}

	return entities
}

// extractSignature returns the first logical line of the node with any
// trailing "{" or ":" stripped.
func extractSignature(lines []string, startLine int) string {
	if startLine < 1 || startLine > len(lines) {
		return ""
	}
	line := strings.TrimSpace(lines[startLine-1])
	line = strings.TrimSuffix(line, "{")
	line = strings.TrimSuffix(line, ":")
	return strings.TrimSpace(line)
}

// extractDocstring looks immediately above startLine for a contiguous run of
// comment lines and returns them joined, or "" if none are present.
func extractDocstring(lines []string, startLine int) string {
	if startLine < 2 {
		return ""
	}

	var collected []string
	for i := startLine - 2; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			break
		}
		if isCommentLine(trimmed) {
			collected = append([]string{trimmed}, collected...)
			continue
		}
		break
	}

	return strings.Join(collected, "\n")
}

func isCommentLine(line string) bool {
	for _, prefix := range []string{"//", "#", "*", "/*", "\"\"\"", "'''"} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
