// Package extraction derives named entities, import lists, and a
// hierarchical scope tree from an ast.ParsedFile.
package extraction

// CodeEntity is a named structural unit inside a source file.
type CodeEntity struct {
	Name         string
	Kind         string // function, method, class, struct, enum, interface, trait, impl, module, variable, constant
	ScopePath    string // dot-joined ancestor names, e.g. "module.Class.method"
	StartLine    int
	EndLine      int
	StartByte    int
	EndByte      int
	Signature    string // first logical line of the node, trailing '{' or ':' stripped
	Docstring    string
	ParentSymbol string
}

// Import is one parsed import/use/require statement.
type Import struct {
	Module     string
	Items      []string
	Alias      string
	Line       int
	IsRelative bool
}
