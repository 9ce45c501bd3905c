package ast

import (
	"fmt"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tscpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tsc "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tsgo "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tsjava "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tsjs "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tspython "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tsruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tsrust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tstypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// grammar bundles a language's tree-sitter grammar with the node-kind map
// used to normalize that grammar's node kinds.
type grammar struct {
	language *sitter.Language
	kindMap  map[string]NodeKind
}

// grammars is built once at package initialization; each *sitter.Language is safe to share
// read-only across goroutines, but parser instances are not, so a fresh
// *sitter.Parser is constructed per ParseFile call.
var grammars = map[string]grammar{
	"python":     {language: sitter.NewLanguage(tspython.Language()), kindMap: pythonKinds},
	"javascript": {language: sitter.NewLanguage(tsjs.Language()), kindMap: javascriptKinds},
	"typescript": {language: sitter.NewLanguage(tstypescript.LanguageTypescript()), kindMap: typescriptKinds},
	"tsx":        {language: sitter.NewLanguage(tstypescript.LanguageTSX()), kindMap: typescriptKinds},
	"go":         {language: sitter.NewLanguage(tsgo.Language()), kindMap: goKinds},
	"rust":       {language: sitter.NewLanguage(tsrust.Language()), kindMap: rustKinds},
	"java":       {language: sitter.NewLanguage(tsjava.Language()), kindMap: javaKinds},
	"c":          {language: sitter.NewLanguage(tsc.Language()), kindMap: cKinds},
	"cpp":        {language: sitter.NewLanguage(tscpp.Language()), kindMap: cppKinds},
	"ruby":       {language: sitter.NewLanguage(tsruby.Language()), kindMap: rubyKinds},
}

// Engine parses source into typed structural node trees, one language at a
// time. It is safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// SupportsLanguage reports whether the engine has a grammar registered for
// the given language tag.
func (e *Engine) SupportsLanguage(language string) bool {
	_, ok := grammars[language]
	return ok
}

// ParseFile parses source as the given language, returning a ParsedFile with
// whatever nodes were recognized. Parse errors are surfaced as markers but
// never abort extraction of the nodes that were recognized.
func (e *Engine) ParseFile(language string, source []byte) (*ParsedFile, error) {
	g, ok := grammars[language]
	if !ok {
		return nil, fmt.Errorf("ast: unsupported language %q", language)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(g.language); err != nil {
		return nil, fmt.Errorf("ast: failed to set language %q: %w", language, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("ast: failed to parse %q source", language)
	}
	defer tree.Close()

	root := tree.RootNode()

	pf := &ParsedFile{Content: string(source), Language: language}

	walk(root, "", source, func(n *sitter.Node, parentName string) bool {
		if n.IsError() || n.IsMissing() {
			pos := n.StartPosition()
			pf.ParseErrors = append(pf.ParseErrors, ParseError{
				Line:    int(pos.Row) + 1,
				Column:  int(pos.Column) + 1,
				Message: fmt.Sprintf("unexpected node near %q", n.Kind()),
			})
			return true
		}

		kind, ok := g.kindMap[n.Kind()]
		if !ok {
			return true
		}

		name := extractName(n, source)
		startPos := n.StartPosition()
		endPos := n.EndPosition()

		node := Node{
			Kind:       kind,
			Name:       name,
			StartByte:  int(n.StartByte()),
			EndByte:    int(n.EndByte()),
			StartLine:  int(startPos.Row) + 1,
			EndLine:    int(endPos.Row) + 1,
			StartCol:   int(startPos.Column),
			EndCol:     int(endPos.Column),
			ParentName: parentName,
		}
		pf.Nodes = append(pf.Nodes, node)

		pf.Boundaries = append(pf.Boundaries, Boundary{
			Line:       node.StartLine,
			ByteOffset: node.StartByte,
			Strength:   kind.Strength(),
			NodeKind:   kind,
			Context:    name,
		})

		return true
	})

	sort.SliceStable(pf.Boundaries, func(i, j int) bool {
		if pf.Boundaries[i].Line != pf.Boundaries[j].Line {
			return pf.Boundaries[i].Line < pf.Boundaries[j].Line
		}
		return pf.Boundaries[i].Strength > pf.Boundaries[j].Strength
	})

	return pf, nil
}

// walk performs a preorder traversal, calling visit for every node and
// tracking the nearest ancestor's extracted name as parentName so children
// can record the real name of their enclosing node, not its grammar kind.
func walk(n *sitter.Node, parentName string, source []byte, visit func(n *sitter.Node, parentName string) bool) {
	if n == nil {
		return
	}
	if !visit(n, parentName) {
		return
	}

	nextParent := parentName
	if name := extractName(n, source); name != "" {
		nextParent = name
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(uint(i)), nextParent, source, visit)
	}
}

// extractName returns the node's name-field child text, falling back to the
// "type" field (Rust's impl_item names itself via the implementing type
// rather than a "name" field). Returns "" if neither field is present.
func extractName(n *sitter.Node, source []byte) string {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		nameNode = n.ChildByFieldName("type")
	}
	if nameNode == nil {
		return ""
	}
	return strings.TrimSpace(string(source[nameNode.StartByte():nameNode.EndByte()]))
}
