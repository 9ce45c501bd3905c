package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenChunker_EmptyContentReturnsNoChunks(t *testing.T) {
	c := NewTokenChunker(newTestCounter(t))
	chunks, err := c.Chunk(SourceItem{ID: "a"}, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestTokenChunker_DenseZeroBasedOrdinals(t *testing.T) {
	c := NewTokenChunker(newTestCounter(t))
	content := strings.Repeat("word ", 2000)
	chunks, err := c.Chunk(SourceItem{ID: "a", Content: content}, Config{ChunkSize: 50, Overlap: 5})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for i, c := range chunks {
		assert.Equal(t, i, c.Ordinal)
	}
}

func TestTokenChunker_RespectsTokenBudget(t *testing.T) {
	counter := newTestCounter(t)
	c := NewTokenChunker(counter)
	content := strings.Repeat("lorem ipsum dolor sit amet ", 500)
	chunks, err := c.Chunk(SourceItem{ID: "a", Content: content}, Config{ChunkSize: 64, Overlap: 0})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for _, ch := range chunks {
		assert.LessOrEqual(t, ch.TokenCount, 64)
	}
}

func TestTokenChunker_OverlapProducesOverlappingWindows(t *testing.T) {
	counter := newTestCounter(t)
	c := NewTokenChunker(counter)
	content := strings.Repeat("alpha beta gamma delta ", 200)
	chunks, err := c.Chunk(SourceItem{ID: "a", Content: content}, Config{ChunkSize: 30, Overlap: 10})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
}
