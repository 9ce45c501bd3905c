package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableChunker_EmptyContentReturnsNoChunks(t *testing.T) {
	c := NewTableChunker(newTestCounter(t))
	chunks, err := c.Chunk(SourceItem{ID: "a"}, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestTableChunker_RepeatsHeaderAcrossChunks(t *testing.T) {
	c := NewTableChunker(newTestCounter(t))
	var sb strings.Builder
	sb.WriteString("| id | name |\n|---|---|\n")
	for i := 0; i < 200; i++ {
		sb.WriteString("| 1 | some long row value here |\n")
	}

	chunks, err := c.Chunk(SourceItem{ID: "a", Content: sb.String()}, Config{ChunkSize: 30})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for _, ch := range chunks {
		assert.True(t, strings.HasPrefix(ch.Content, "| id | name |"))
		assert.Equal(t, "table", ch.Metadata.ContentType)
	}
}

func TestTableChunker_DetectsCSVWithoutMarkdownSeparator(t *testing.T) {
	c := NewTableChunker(newTestCounter(t))
	content := "id,name\n1,alice\n2,bob"
	chunks, err := c.Chunk(SourceItem{ID: "a", Content: content}, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "csv", chunks[0].Metadata.ContentType)
	assert.Contains(t, chunks[0].Content, "id,name")
}

func TestIsMarkdownSeparator(t *testing.T) {
	assert.True(t, isMarkdownSeparator("|---|---|"))
	assert.True(t, isMarkdownSeparator("| :--- | ---: |"))
	assert.False(t, isMarkdownSeparator("| a | b |"))
}
