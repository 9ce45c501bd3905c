// Package ast wraps a polyglot tree-sitter parser and exposes a uniform,
// language-neutral node stream to downstream consumers (entity extraction,
// the code chunker).
package ast

// NodeKind is the normalized grammar-node classification every supported
// language's grammar-specific node kinds are mapped down to.
type NodeKind string

const (
	NodeFunction  NodeKind = "Function"
	NodeMethod    NodeKind = "Method"
	NodeClass     NodeKind = "Class"
	NodeStruct    NodeKind = "Struct"
	NodeEnum      NodeKind = "Enum"
	NodeInterface NodeKind = "Interface"
	NodeTrait     NodeKind = "Trait"
	NodeImpl      NodeKind = "Impl"
	NodeModule    NodeKind = "Module"
	NodeImport    NodeKind = "Import"
	NodeVariable  NodeKind = "Variable"
	NodeConstant  NodeKind = "Constant"
	NodeDecorator NodeKind = "Decorator"
	NodeComment   NodeKind = "Comment"
	NodeBlock     NodeKind = "Block"
	NodeOther     NodeKind = "Other"
)

// boundaryStrength is the fixed strength table used to score AstBoundary
// values for stable merging.
var boundaryStrength = map[NodeKind]float64{
	NodeClass:     1.0,
	NodeTrait:     1.0,
	NodeStruct:    1.0,
	NodeEnum:      1.0,
	NodeInterface: 1.0,
	NodeModule:    0.95,
	NodeImpl:      0.95,
	NodeFunction:  0.9,
	NodeMethod:    0.9,
	NodeBlock:     0.6,
	NodeConstant:  0.5,
	NodeVariable:  0.4,
	NodeImport:    0.3,
	NodeOther:     0.3,
	NodeComment:   0.2,
	NodeDecorator: 0.1,
}

// Strength returns the fixed boundary strength for a node kind.
func (k NodeKind) Strength() float64 {
	if s, ok := boundaryStrength[k]; ok {
		return s
	}
	return boundaryStrength[NodeOther]
}

// ChunkWorthy reports whether nodes of this kind are candidates for the
// code chunker's top-level packing (functions/methods/classes/structs/
// enums/traits/interfaces/impls/modules/constants).
func (k NodeKind) ChunkWorthy() bool {
	switch k {
	case NodeFunction, NodeMethod, NodeClass, NodeStruct, NodeEnum,
		NodeInterface, NodeTrait, NodeImpl, NodeModule, NodeConstant:
		return true
	default:
		return false
	}
}

// Node is one extracted, normalized structural node.
type Node struct {
	Kind       NodeKind
	Name       string
	StartByte  int
	EndByte    int
	StartLine  int // 1-indexed
	EndLine    int // 1-indexed
	StartCol   int
	EndCol     int
	ParentName string
}

// ParseError is a line/column marker for a syntax error encountered during
// parsing. Parse errors never abort downstream use.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

// Boundary is a scored candidate split point derived from an extracted
// node, used to pick the best place to seal a chunk.
type Boundary struct {
	Line       int
	ByteOffset int
	Strength   float64
	NodeKind   NodeKind
	Context    string
}

// ParsedFile is the AST Engine's output: a language-neutral view of one
// source file's structure.
type ParsedFile struct {
	Content     string
	Language    string
	Nodes       []Node
	Boundaries  []Boundary
	ParseErrors []ParseError
}

// Valid reports whether the file parsed without errors, for callers that
// want strictness; downstream consumers are not required to check it.
func (p *ParsedFile) Valid() bool {
	return len(p.ParseErrors) == 0
}

// SupportedLanguages is the closed set of language tags the AST Engine can
// parse. javascript is also used for the .jsx extension, per convention.
var SupportedLanguages = []string{
	"python", "javascript", "typescript", "tsx", "go", "rust",
	"java", "c", "cpp", "ruby",
}

func IsSupported(language string) bool {
	for _, l := range SupportedLanguages {
		if l == language {
			return true
		}
	}
	return false
}
