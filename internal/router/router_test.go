package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexchunk/chunker/internal/chunk"
	"github.com/cortexchunk/chunker/internal/tokencount"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	counter, err := tokencount.New(tokencount.DefaultEncoding)
	require.NoError(t, err)
	registry := chunk.NewRegistry(counter)
	return New(registry, chunk.DefaultConfig())
}

func TestGetChunker_ContentTypeOverridesSourceKindDefault(t *testing.T) {
	r := newTestRouter(t)
	item := chunk.SourceItem{SourceKind: chunk.SourceKindOther, ContentType: "text/code:go"}
	c := r.GetChunker(item)
	assert.Equal(t, "code", c.Name())
}

func TestGetChunker_MarkdownContentTypeRoutesToDocument(t *testing.T) {
	r := newTestRouter(t)
	item := chunk.SourceItem{ContentType: "text/x-markdown"}
	assert.Equal(t, "document", r.GetChunker(item).Name())
}

func TestGetChunker_CSVContentTypeRoutesToTable(t *testing.T) {
	r := newTestRouter(t)
	item := chunk.SourceItem{ContentType: "text/csv"}
	assert.Equal(t, "table", r.GetChunker(item).Name())
}

func TestGetChunker_JSONChatHintRoutesToChat(t *testing.T) {
	r := newTestRouter(t)
	item := chunk.SourceItem{ContentType: "application/json+chat"}
	assert.Equal(t, "chat", r.GetChunker(item).Name())
}

func TestGetChunker_FallsBackToSourceKindDefaults(t *testing.T) {
	r := newTestRouter(t)
	cases := map[chunk.SourceKind]string{
		chunk.SourceKindCodeRepo:  "code",
		chunk.SourceKindDocument:  "document",
		chunk.SourceKindWiki:      "document",
		chunk.SourceKindChat:      "chat",
		chunk.SourceKindEmail:     "chat",
		chunk.SourceKindTicketing: "ticketing",
		chunk.SourceKindWeb:       "recursive",
		chunk.SourceKindOther:     "sentence",
	}
	for kind, want := range cases {
		got := r.GetChunker(chunk.SourceItem{SourceKind: kind}).Name()
		assert.Equal(t, want, got, "source kind %s", kind)
	}
}

func TestGetChunker_UnknownSourceKindFallsBackToSentence(t *testing.T) {
	r := newTestRouter(t)
	item := chunk.SourceItem{SourceKind: chunk.SourceKind("made-up")}
	assert.Equal(t, "sentence", r.GetChunker(item).Name())
}

func TestGetChunkerByName_ResolvesAliasesCaseInsensitively(t *testing.T) {
	r := newTestRouter(t)
	c, ok := r.GetChunkerByName("MARKDOWN")
	require.True(t, ok)
	assert.Equal(t, "document", c.Name())
}

func TestGetConfig_FillsLanguageForCodeItems(t *testing.T) {
	r := newTestRouter(t)
	item := chunk.SourceItem{SourceKind: chunk.SourceKindCodeRepo, ContentType: "text/code:rust"}
	cfg := r.GetConfig(item)
	assert.Equal(t, "rust", cfg.Language)
	assert.Equal(t, r.DefaultConfig().ChunkSize, cfg.ChunkSize)
}

func TestGetConfig_LeavesLanguageEmptyForNonCodeItems(t *testing.T) {
	r := newTestRouter(t)
	item := chunk.SourceItem{SourceKind: chunk.SourceKindDocument}
	cfg := r.GetConfig(item)
	assert.Equal(t, "", cfg.Language)
}

func TestGetConfig_UsesMetadataLanguageWhenContentTypeLacksIt(t *testing.T) {
	r := newTestRouter(t)
	item := chunk.SourceItem{SourceKind: chunk.SourceKindCodeRepo, Metadata: map[string]any{"language": "ruby"}}
	assert.Equal(t, "ruby", r.GetConfig(item).Language)
}

func TestListChunkers_ReturnsAllNine(t *testing.T) {
	r := newTestRouter(t)
	assert.Len(t, r.ListChunkers(), 9)
}
