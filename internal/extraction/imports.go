package extraction

import (
	"regexp"
	"strings"

	"github.com/cortexchunk/chunker/internal/ast"
)

var (
	pyFromImportRe = regexp.MustCompile(`^from\s+([.\w]+)\s+import\s+(.+)$`)
	pyImportRe     = regexp.MustCompile(`^import\s+([.\w, ]+)$`)
	jsImportFromRe = regexp.MustCompile(`^import\s+(?:(\w+)|[*]\s+as\s+(\w+)|\{([^}]*)\})\s+from\s+['"]([^'"]+)['"]`)
	rustUseRe      = regexp.MustCompile(`^use\s+(\w+(?:::\w+)*(?:::\{[^}]*\})?)\s*;?`)
	goImportRe     = regexp.MustCompile(`^import\s+(?:(\w+)\s+)?"([^"]+)"`)
)

// Imports re-derives the import list from a parsed file by running
// line-based regex matching keyed on nodes the AST engine classified as
// NodeImport, mirroring the design note that a full parser is not
// available (or not worth using) for import statement shapes.
func Imports(pf *ast.ParsedFile) []Import {
	lines := strings.Split(pf.Content, "\n")

	var imports []Import
	for _, n := range pf.Nodes {
		if n.Kind != ast.NodeImport {
			continue
		}
		if n.StartLine < 1 || n.StartLine > len(lines) {
			continue
		}
		raw := strings.TrimSpace(lines[n.StartLine-1])

		switch pf.Language {
		case "python":
			imports = append(imports, parsePythonImport(raw, n.StartLine)...)
		case "javascript", "typescript", "tsx":
			if imp, ok := parseJSImport(raw, n.StartLine); ok {
				imports = append(imports, imp)
			}
		case "rust":
			if imp, ok := parseRustUse(raw, n.StartLine); ok {
				imports = append(imports, imp)
			}
		case "go":
			if imp, ok := parseGoImport(raw, n.StartLine); ok {
				imports = append(imports, imp)
			}
		default:
			imports = append(imports, Import{Module: raw, Line: n.StartLine})
		}
	}
	return imports
}

func parsePythonImport(raw string, line int) []Import {
	if m := pyFromImportRe.FindStringSubmatch(raw); m != nil {
		items := splitAndTrim(m[2], ",")
		return []Import{{
			Module:     m[1],
			Items:      items,
			Line:       line,
			IsRelative: strings.HasPrefix(m[1], "."),
		}}
	}
	if m := pyImportRe.FindStringSubmatch(raw); m != nil {
		var out []Import
		for _, mod := range splitAndTrim(m[1], ",") {
			out = append(out, Import{Module: mod, Line: line})
		}
		return out
	}
	return nil
}

func parseJSImport(raw string, line int) (Import, bool) {
	m := jsImportFromRe.FindStringSubmatch(raw)
	if m == nil {
		return Import{}, false
	}
	imp := Import{Module: m[4], Line: line, IsRelative: strings.HasPrefix(m[4], ".")}
	switch {
	case m[1] != "":
		imp.Alias = m[1]
	case m[2] != "":
		imp.Alias = m[2]
	case m[3] != "":
		imp.Items = splitAndTrim(m[3], ",")
	}
	return imp, true
}

func parseRustUse(raw string, line int) (Import, bool) {
	m := rustUseRe.FindStringSubmatch(raw)
	if m == nil {
		return Import{}, false
	}
	path := m[1]
	var items []string
	if idx := strings.Index(path, "::{"); idx >= 0 {
		base := path[:idx]
		rest := strings.TrimSuffix(path[idx+3:], "}")
		items = splitAndTrim(rest, ",")
		path = base
	}
	return Import{Module: path, Items: items, Line: line}, true
}

func parseGoImport(raw string, line int) (Import, bool) {
	m := goImportRe.FindStringSubmatch(raw)
	if m == nil {
		return Import{}, false
	}
	return Import{Module: m[2], Alias: m[1], Line: line}, true
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
