package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexchunk/chunker/internal/ast"
)

func TestBuildScopeTree_NestsMethodUnderClass(t *testing.T) {
	pf := &ast.ParsedFile{
		Nodes: []ast.Node{
			{Kind: ast.NodeClass, Name: "Widget", StartLine: 1, EndLine: 10},
			{Kind: ast.NodeMethod, Name: "render", StartLine: 2, EndLine: 4},
		},
	}

	tree := BuildScopeTree(pf)
	require.Equal(t, []string{"Widget"}, tree.Roots())

	node, ok := tree.Node("Widget.render")
	require.True(t, ok)
	assert.Equal(t, "render", node.Name)

	widget, ok := tree.Node("Widget")
	require.True(t, ok)
	assert.Contains(t, widget.Children, "Widget.render")
}

func TestBuildScopeTree_TwoSiblingTopLevelFunctionsAreBothRoots(t *testing.T) {
	pf := &ast.ParsedFile{
		Nodes: []ast.Node{
			{Kind: ast.NodeFunction, Name: "one", StartLine: 1, EndLine: 2},
			{Kind: ast.NodeFunction, Name: "two", StartLine: 4, EndLine: 5},
		},
	}

	tree := BuildScopeTree(pf)
	assert.ElementsMatch(t, []string{"one", "two"}, tree.Roots())
}

func TestBuildScopeTree_SkipsUnnamedAndNonWorthyNodes(t *testing.T) {
	pf := &ast.ParsedFile{
		Nodes: []ast.Node{
			{Kind: ast.NodeImport, Name: "os", StartLine: 1, EndLine: 1},
			{Kind: ast.NodeFunction, Name: "", StartLine: 2, EndLine: 3},
		},
	}

	tree := BuildScopeTree(pf)
	assert.Empty(t, tree.Roots())
}

func TestScopeAt_ReturnsInnermostContainingScope(t *testing.T) {
	pf := &ast.ParsedFile{
		Nodes: []ast.Node{
			{Kind: ast.NodeClass, Name: "Widget", StartLine: 1, EndLine: 10},
			{Kind: ast.NodeMethod, Name: "render", StartLine: 2, EndLine: 4},
		},
	}
	tree := BuildScopeTree(pf)

	inner := tree.ScopeAt(3)
	require.NotNil(t, inner)
	assert.Equal(t, "Widget.render", inner.Path)

	outer := tree.ScopeAt(8)
	require.NotNil(t, outer)
	assert.Equal(t, "Widget", outer.Path)

	assert.Nil(t, tree.ScopeAt(20))
}
