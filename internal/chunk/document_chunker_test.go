package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSections_SplitsOnATXHeadings(t *testing.T) {
	content := "# Title\nintro\n\n## Sub\nbody text"
	sections := splitSections(content)
	require.Len(t, sections, 2)
	assert.Equal(t, "# Title", sections[0].heading)
	assert.Equal(t, "## Sub", sections[1].heading)
}

func TestSplitSections_IgnoresHeadingsInsideFence(t *testing.T) {
	content := "# Title\n```\n# not a heading\n```\nmore text"
	sections := splitSections(content)
	require.Len(t, sections, 1)
	assert.Contains(t, sections[0].content, "# not a heading")
}

func TestDocumentChunker_EmptyContentReturnsNoChunks(t *testing.T) {
	c := NewDocumentChunker(newTestCounter(t))
	chunks, err := c.Chunk(SourceItem{ID: "a"}, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestDocumentChunker_SetsSourceBackReferencesOnSplitSections(t *testing.T) {
	c := NewDocumentChunker(newTestCounter(t))
	var body strings.Builder
	body.WriteString("# Heading\n\n")
	for i := 0; i < 100; i++ {
		body.WriteString(strings.Repeat("word ", 20) + "\n\n")
	}

	item := SourceItem{ID: "item-1", SourceGroupID: "group-1", SourceKind: SourceKindDocument, Content: body.String()}
	chunks, err := c.Chunk(item, Config{ChunkSize: 30})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for i, ch := range chunks {
		assert.Equal(t, "item-1", ch.SourceItemID)
		assert.Equal(t, "group-1", ch.SourceGroupID)
		assert.Equal(t, SourceKindDocument, ch.SourceKind)
		assert.Equal(t, i, ch.Ordinal)
	}
}

func TestDocumentChunker_SingleSectionFitsInOneChunk(t *testing.T) {
	c := NewDocumentChunker(newTestCounter(t))
	item := SourceItem{ID: "a", Content: "# Title\nshort body"}
	chunks, err := c.Chunk(item, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "# Title", chunks[0].Metadata.Section)
}
