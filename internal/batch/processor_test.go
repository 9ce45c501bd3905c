package batch

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexchunk/chunker/internal/chunk"
	"github.com/cortexchunk/chunker/internal/router"
	"github.com/cortexchunk/chunker/internal/tokencount"
)

func newTestRouter(t *testing.T) *router.Router {
	t.Helper()
	counter, err := tokencount.New(tokencount.DefaultEncoding)
	require.NoError(t, err)
	registry := chunk.NewRegistry(counter)
	return router.New(registry, chunk.DefaultConfig())
}

func TestNew_AppliesDefaultsForNonPositiveFields(t *testing.T) {
	p := New(newTestRouter(t), Policy{})
	assert.Equal(t, DefaultPolicy().Concurrency, p.policy.Concurrency)
	assert.Equal(t, DefaultPolicy().BufferSize, p.policy.BufferSize)
	assert.Equal(t, DefaultPolicy().MaxContentSize, p.policy.MaxContentSize)
}

func TestProcessBatch_ProcessesAllItemsAndCountsChunks(t *testing.T) {
	p := New(newTestRouter(t), DefaultPolicy())
	items := []chunk.SourceItem{
		{ID: "a", SourceKind: chunk.SourceKindOther, Content: "This is a sentence. Here is another one. And a third."},
		{ID: "b", SourceKind: chunk.SourceKindOther, Content: "Another short item. With two sentences."},
	}

	chunks, result := p.ProcessBatch(context.Background(), items)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, len(chunks), result.TotalChunks)
	assert.NotEmpty(t, chunks)
}

func TestProcessBatch_EmptyContentProducesNoChunksButCountsAsProcessed(t *testing.T) {
	p := New(newTestRouter(t), DefaultPolicy())
	items := []chunk.SourceItem{{ID: "a", Content: ""}}

	chunks, result := p.ProcessBatch(context.Background(), items)
	assert.Empty(t, chunks)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Failed)
}

func TestProcessBatch_CancelledContextFailsPendingItems(t *testing.T) {
	p := New(newTestRouter(t), Policy{Concurrency: 1, BufferSize: 10, MaxContentSize: 1024})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := make([]chunk.SourceItem, 20)
	for i := range items {
		items[i] = chunk.SourceItem{ID: "item", Content: "some content here"}
	}

	_, result := p.ProcessBatch(ctx, items)
	assert.Equal(t, 20, result.Total)
	assert.Equal(t, 20, result.Processed+result.Failed)
}

func TestProcessBatchStreaming_EmitsAllChunksAndFinalResult(t *testing.T) {
	p := New(newTestRouter(t), Policy{Concurrency: 2, BufferSize: 2, MaxContentSize: 1024 * 1024})
	items := []chunk.SourceItem{
		{ID: "a", Content: "One sentence here. Two sentence here. Three sentence here."},
		{ID: "b", Content: "Another sentence. Yet another sentence."},
	}

	out, resultCh := p.ProcessBatchStreaming(context.Background(), items)

	var total int
	for batch := range out {
		total += len(batch)
	}
	result := <-resultCh

	assert.Equal(t, result.TotalChunks, total)
	assert.Equal(t, 2, result.Processed)
}

func TestProcessItem_PreSplitsOversizedContent(t *testing.T) {
	p := New(newTestRouter(t), Policy{Concurrency: 1, BufferSize: 10, MaxContentSize: 50, ContinueOnError: true})
	content := strings.Repeat("word ", 40)
	item := chunk.SourceItem{ID: "big", SourceKind: chunk.SourceKindOther, Content: content}

	chunks, err := p.processItem(item)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for i, c := range chunks {
		assert.Equal(t, "big", c.SourceItemID)
		assert.Equal(t, i, c.Ordinal)
	}
}

func TestSplitOversizedContent_PrefersParagraphBreak(t *testing.T) {
	content := strings.Repeat("a", 10) + "\n\n" + strings.Repeat("b", 10)
	pieces := splitOversizedContent(content, 15)
	require.Len(t, pieces, 2)
	assert.Equal(t, strings.Repeat("a", 10)+"\n\n", pieces[0].text)
	assert.Equal(t, strings.Repeat("b", 10), pieces[1].text)
	assert.Equal(t, 0, pieces[0].offset)
}

func TestSplitOversizedContent_FallsBackToSingleNewline(t *testing.T) {
	content := strings.Repeat("a", 10) + "\n" + strings.Repeat("b", 10)
	pieces := splitOversizedContent(content, 15)
	require.Len(t, pieces, 2)
	assert.True(t, strings.HasSuffix(pieces[0].text, "\n"))
}

func TestSplitOversizedContent_HardCutWhenNoSeparatorFits(t *testing.T) {
	content := strings.Repeat("a", 40)
	pieces := splitOversizedContent(content, 10)
	require.Len(t, pieces, 4)
	for _, p := range pieces {
		assert.LessOrEqual(t, len(p.text), 10)
	}
}

func TestSplitOversizedContent_LastPieceTakesRemainder(t *testing.T) {
	content := strings.Repeat("a", 25)
	pieces := splitOversizedContent(content, 10)
	last := pieces[len(pieces)-1]
	assert.Equal(t, content[len(content)-len(last.text):], last.text)
}

func TestLastIndexBefore_ReturnsNegativeOneWhenNotFound(t *testing.T) {
	assert.Equal(t, -1, lastIndexBefore("abcdef", "\n", 0, 6))
}

func TestLastIndexBefore_ReturnsOffsetAfterSeparator(t *testing.T) {
	content := "abc\ndef"
	idx := lastIndexBefore(content, "\n", 0, 7)
	assert.Equal(t, 4, idx)
}
