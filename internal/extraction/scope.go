package extraction

import (
	"sort"

	"github.com/dominikbraun/graph"

	"github.com/cortexchunk/chunker/internal/ast"
)

// ScopeNode is one node of the scope tree: a named range with children
// reachable via the backing directed graph.
type ScopeNode struct {
	Path      string
	Name      string
	StartLine int
	EndLine   int
	Children  []string // child scope paths
}

// ScopeTree is a per-file hierarchical index of named scopes, represented
// as a directed acyclic graph (parent -> child edges) so traversal and
// innermost-scope lookup reuse graph algorithms rather than a hand-rolled
// tree type.
type ScopeTree struct {
	g     graph.Graph[string, *ScopeNode]
	roots []string
}

// BuildScopeTree walks the parsed file's chunk-worthy nodes in line order,
// maintaining a stack of (scope_path, end_line) and pushing/popping scopes
// as nodes open and close, then materializes the result as a graph of
// parent->child edges.
func BuildScopeTree(pf *ast.ParsedFile) *ScopeTree {
	g := graph.New(func(n *ScopeNode) string { return n.Path }, graph.Directed(), graph.PreventCycleCreation())

	tree := &ScopeTree{g: g}

	type frame struct {
		path    string
		endLine int
	}
	var stack []frame

	nodes := make([]ast.Node, len(pf.Nodes))
	copy(nodes, pf.Nodes)
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].StartLine < nodes[j].StartLine })

	for _, n := range nodes {
		if !n.Kind.ChunkWorthy() || n.Name == "" {
			continue
		}

		for len(stack) > 0 && n.StartLine > stack[len(stack)-1].endLine {
			stack = stack[:len(stack)-1]
		}

		var parentPath string
		path := n.Name
		if len(stack) > 0 {
			parentPath = stack[len(stack)-1].path
			path = parentPath + "." + n.Name
		}

		node := &ScopeNode{Path: path, Name: n.Name, StartLine: n.StartLine, EndLine: n.EndLine}
		if err := g.AddVertex(node); err != nil {
			// duplicate scope path (e.g. overloaded method name); keep first.
			stack = append(stack, frame{path: path, endLine: n.EndLine})
			continue
		}

		if parentPath != "" {
			_ = g.AddEdge(parentPath, path)
			if pv, err := g.Vertex(parentPath); err == nil {
				pv.Children = append(pv.Children, path)
			}
		} else {
			tree.roots = append(tree.roots, path)
		}

		stack = append(stack, frame{path: path, endLine: n.EndLine})
	}

	return tree
}

// ScopeAt returns the innermost scope whose range contains line, or nil if
// no scope contains it. Ties (nested scopes) resolve to the scope with the
// smallest line span.
func (t *ScopeTree) ScopeAt(line int) *ScopeNode {
	var best *ScopeNode
	bestSpan := -1

	order, err := graph.TopologicalSort(t.g)
	if err != nil {
		order = nil
	}
	for _, path := range order {
		n, err := t.g.Vertex(path)
		if err != nil {
			continue
		}
		if line < n.StartLine || line > n.EndLine {
			continue
		}
		span := n.EndLine - n.StartLine
		if best == nil || span < bestSpan {
			best = n
			bestSpan = span
		}
	}
	return best
}

// Node returns the scope node at the given dot-joined path, if any.
func (t *ScopeTree) Node(path string) (*ScopeNode, bool) {
	n, err := t.g.Vertex(path)
	if err != nil {
		return nil, false
	}
	return n, true
}

// Roots returns the top-level scope paths.
func (t *ScopeTree) Roots() []string { return t.roots }
