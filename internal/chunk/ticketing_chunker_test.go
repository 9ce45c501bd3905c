package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTicket_ParsesJSONPayload(t *testing.T) {
	payload := `{"Title":"Bug","Status":"open","Description":"it crashes","Comments":[{"author":"alice","text":"confirmed"}]}`
	ticket := parseTicket(payload)
	assert.Equal(t, "Bug", ticket.Title)
	assert.Equal(t, "it crashes", ticket.Description)
	require.Len(t, ticket.Comments, 1)
	assert.Equal(t, "alice", ticket.Comments[0].Author)
}

func TestParseTicket_ParsesStructuredText(t *testing.T) {
	content := "Title: Bug\nStatus: open\nReporter: alice\nDescription:\nit crashes sometimes\nComments:\nbob: seen it too"
	ticket := parseTicket(content)
	assert.Equal(t, "Bug", ticket.Title)
	assert.Equal(t, "alice", ticket.Reporter)
	assert.Contains(t, ticket.Description, "it crashes sometimes")
	require.Len(t, ticket.Comments, 1)
	assert.Equal(t, "bob", ticket.Comments[0].Author)
}

func TestTicketingChunker_EmptyContentReturnsNoChunks(t *testing.T) {
	c := NewTicketingChunker(newTestCounter(t))
	chunks, err := c.Chunk(SourceItem{ID: "a"}, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestTicketingChunker_AggregatesCommentsWhenTheyFit(t *testing.T) {
	c := NewTicketingChunker(newTestCounter(t))
	content := `{"Title":"Bug","Description":"desc","Comments":[{"author":"alice","text":"one"},{"author":"bob","text":"two"}]}`
	chunks, err := c.Chunk(SourceItem{ID: "a", Content: content}, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "description", chunks[0].Metadata.ContentType)
	assert.Equal(t, "comments", chunks[1].Metadata.ContentType)
}

func TestTicketingChunker_EmitsOneChunkPerCommentWhenOversized(t *testing.T) {
	c := NewTicketingChunker(newTestCounter(t))
	content := `{"Title":"Bug","Description":"desc","Comments":[{"author":"alice","text":"one"},{"author":"bob","text":"two"}]}`
	chunks, err := c.Chunk(SourceItem{ID: "a", Content: content}, Config{ChunkSize: 1})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)
	last := chunks[len(chunks)-1]
	assert.Equal(t, "comment", last.Metadata.ContentType)
}
