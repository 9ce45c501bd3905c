package chunk

import "github.com/cortexchunk/chunker/internal/tokencount"

// TokenChunker is the fallback chunker: it slides a fixed-size window over
// the BPE token sequence of the whole content.
type TokenChunker struct {
	counter tokencount.Counter
}

// NewTokenChunker constructs a TokenChunker sharing the given token counter.
func NewTokenChunker(counter tokencount.Counter) *TokenChunker {
	return &TokenChunker{counter: counter}
}

func (c *TokenChunker) Name() string        { return "token" }
func (c *TokenChunker) Description() string { return "Fixed-size sliding window over BPE tokens" }
func (c *TokenChunker) SupportsLanguage(string) bool { return true }

// Chunk encodes the whole content once, then slides a window of size
// cfg.ChunkSize with step (ChunkSize - Overlap), clamped so the step is at
// least 1. Each window is decoded back to text; character offsets are
// approximated by decoding the prefix up to the window start.
func (c *TokenChunker) Chunk(item SourceItem, cfg Config) ([]Chunk, error) {
	if item.Content == "" {
		return nil, nil
	}

	size := cfg.ChunkSize
	if size <= 0 {
		size = DefaultConfig().ChunkSize
	}

	ids := c.counter.Encode(item.Content)
	if len(ids) == 0 {
		return nil, nil
	}

	step := size - cfg.Overlap
	if step < 1 {
		step = 1
	}

	var chunks []Chunk
	ordinal := 0
	for start := 0; start < len(ids); start += step {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}

		window := ids[start:end]
		text := c.counter.Decode(window)

		prefixLen := 0
		if start > 0 {
			prefixLen = len(c.counter.Decode(ids[:start]))
		}

		chunks = append(chunks, Chunk{
			SourceItemID:  item.ID,
			SourceGroupID: item.SourceGroupID,
			SourceKind:    item.SourceKind,
			Content:       text,
			TokenCount:    len(window),
			StartIndex:    prefixLen,
			EndIndex:      prefixLen + len(text),
			Ordinal:       ordinal,
			Metadata:      ChunkMetadata{ContentType: "text"},
		})
		ordinal++

		if end >= len(ids) {
			break
		}
	}

	return chunks, nil
}
