package enrich

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexchunk/chunker/internal/ast"
	"github.com/cortexchunk/chunker/internal/chunk"
	"github.com/cortexchunk/chunker/internal/extraction"
)

func TestTruncatePrefix_RoundsDownToLastNewline(t *testing.T) {
	prefix := "# File: a\n# Language: go\n# Scope: foo.bar"
	got := truncatePrefix(prefix, 25)
	assert.Equal(t, "# File: a\n# Language: go", got)
	assert.LessOrEqual(t, len(got), 25)
}

func TestTruncatePrefix_NoTruncationWhenUnderLimit(t *testing.T) {
	prefix := "short"
	assert.Equal(t, prefix, truncatePrefix(prefix, 500))
}

func TestFlattenDependencies_TruncatesAfterFiveWhenOverLength(t *testing.T) {
	deps := []string{
		strings.Repeat("a", 20), strings.Repeat("b", 20), strings.Repeat("c", 20),
		strings.Repeat("d", 20), strings.Repeat("e", 20), strings.Repeat("f", 20),
	}
	got := flattenDependencies(deps)
	assert.Contains(t, got, "…")
	assert.NotContains(t, got, strings.Repeat("f", 20))
}

func TestFlattenDependencies_KeepsShortListsIntact(t *testing.T) {
	deps := []string{"os", "sys"}
	assert.Equal(t, "os, sys", flattenDependencies(deps))
}

func TestBuildOne_ComposesPrefixWithAllSections(t *testing.T) {
	b := NewBuilder(Options{IncludeFilePath: true, Repository: "myrepo"})

	c := chunk.Chunk{
		Content: "func add(a, b int) int { return a + b }",
		Metadata: chunk.ChunkMetadata{
			StartLine: 2,
			EndLine:   2,
		},
	}
	entities := []extraction.CodeEntity{
		{Name: "add", Kind: "function", Signature: "func add(a, b int) int", StartLine: 2, EndLine: 2, Docstring: "// adds two ints"},
	}
	imports := []extraction.Import{{Module: "fmt"}, {Module: "fmt"}, {Module: "os"}}

	enriched := b.BuildOne(c, "pkg/math.go", "go", entities, imports, nil)

	assert.Equal(t, []string{"fmt", "os"}, enriched.Context.Dependencies)
	require.Len(t, enriched.Context.Definitions, 1)
	assert.Equal(t, "add", enriched.Context.Definitions[0].Name)
	assert.Equal(t, "// adds two ints", enriched.Context.Documentation)

	assert.Contains(t, enriched.EnrichedContent, "# File: pkg/math.go")
	assert.Contains(t, enriched.EnrichedContent, "# Language: go")
	assert.Contains(t, enriched.EnrichedContent, "# Repository: myrepo")
	assert.Contains(t, enriched.EnrichedContent, "# Defines: func add(a, b int) int")
	assert.Contains(t, enriched.EnrichedContent, "# Dependencies: fmt, os")
	assert.Contains(t, enriched.EnrichedContent, defaultSeparator)
	assert.True(t, strings.HasSuffix(enriched.EnrichedContent, c.Content))
}

func TestBuildOne_NoPrefixWhenContextIsEmpty(t *testing.T) {
	b := NewBuilder(Options{IncludeFilePath: false})
	c := chunk.Chunk{Content: "plain text"}
	enriched := b.BuildOne(c, "", "", nil, nil, nil)
	assert.Equal(t, "plain text", enriched.EnrichedContent)
}

func TestBuildOne_UsesScopeTreeWhenProvided(t *testing.T) {
	b := NewBuilder(DefaultOptions())
	pf := &ast.ParsedFile{
		Nodes: []ast.Node{
			{Kind: ast.NodeClass, Name: "Widget", StartLine: 1, EndLine: 10},
			{Kind: ast.NodeMethod, Name: "render", StartLine: 2, EndLine: 4},
		},
	}
	tree := extraction.BuildScopeTree(pf)

	c := chunk.Chunk{Content: "body", Metadata: chunk.ChunkMetadata{StartLine: 3, EndLine: 3}}
	enriched := b.BuildOne(c, "a.py", "python", nil, nil, tree)
	assert.Equal(t, "Widget.render", enriched.Context.Scope)
	assert.Contains(t, enriched.EnrichedContent, "# Scope: Widget.render")
}
