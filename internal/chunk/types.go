// Package chunk defines the core data model for the chunking service and the
// nine chunking strategies that fragment a SourceItem into token-budgeted
// Chunks.
package chunk

import "time"

// SourceKind is the closed set of origins a SourceItem can come from.
type SourceKind string

const (
	SourceKindCodeRepo  SourceKind = "code-repo"
	SourceKindDocument  SourceKind = "document"
	SourceKindChat      SourceKind = "chat"
	SourceKindTicketing SourceKind = "ticketing"
	SourceKindWiki      SourceKind = "wiki"
	SourceKindEmail     SourceKind = "email"
	SourceKindWeb       SourceKind = "web"
	SourceKindOther     SourceKind = "other"
)

// SourceItem is one unit of input submitted to the chunking service.
//
// Content is never modified by any chunker; ID is unique within a job.
type SourceItem struct {
	ID            string
	SourceGroupID string
	SourceKind    SourceKind
	ContentType   string
	Content       string
	Metadata      map[string]any
	CreatedAt     *time.Time
}

// ChunkMetadata holds optional descriptors populated only by the chunker
// that produced the chunk; every field is meaningful to some chunkers and
// irrelevant to others.
type ChunkMetadata struct {
	ContentType  string         `json:"content_type,omitempty"`
	Language     string         `json:"language,omitempty"`
	Path         string         `json:"path,omitempty"`
	Section      string         `json:"section,omitempty"`
	SymbolName   string         `json:"symbol_name,omitempty"`
	ParentSymbol string         `json:"parent_symbol,omitempty"`
	StartLine    int            `json:"start_line,omitempty"`
	EndLine      int            `json:"end_line,omitempty"`
	HasLineRange bool           `json:"has_line_range,omitempty"`
	Author       string         `json:"author,omitempty"`
	ThreadID     string         `json:"thread_id,omitempty"`
	Timestamp    *time.Time     `json:"timestamp,omitempty"`
	Extra        map[string]any `json:"extra,omitempty"`
}

// Chunk is one fragment produced by a chunker.
//
// EndIndex >= StartIndex; TokenCount equals the BPE token count of Content;
// Ordinal is dense and strictly increasing within an item.
type Chunk struct {
	ID            string
	SourceItemID  string
	SourceGroupID string
	SourceKind    SourceKind
	Content       string
	TokenCount    int
	StartIndex    int
	EndIndex      int
	Ordinal       int
	Metadata      ChunkMetadata
	Embedding     []float32 // filled downstream; never populated here
}

// Config is the per-operation chunking policy consulted by every chunker.
type Config struct {
	ChunkSize           int
	Overlap             int
	MinCharsPerSentence int
	PreserveWhitespace  bool
	Language            string
}

// DefaultConfig returns the service-wide default policy (profile "default").
func DefaultConfig() Config {
	return Config{
		ChunkSize:           512,
		Overlap:             50,
		MinCharsPerSentence: 20,
	}
}
