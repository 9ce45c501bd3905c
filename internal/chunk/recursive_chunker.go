package chunk

import (
	"strings"

	"github.com/cortexchunk/chunker/internal/tokencount"
)

// separatorHierarchy is the candidate separator list in decreasing
// preference used by the hierarchical recursive splitter.
var separatorHierarchy = []string{"\n\n", "\n", ". ", "! ", "? ", "; ", ", ", " "}

// markdownSeparatorHierarchy favors heading markers before falling back to
// the general hierarchy.
var markdownSeparatorHierarchy = []string{"\n## ", "\n### ", "\n\n", "\n", ". ", " "}

// RecursiveChunker hierarchically splits a piece of text by trying
// progressively finer separators until every fragment fits the budget.
type RecursiveChunker struct {
	counter tokencount.Counter
	seps    []string
}

func NewRecursiveChunker(counter tokencount.Counter) *RecursiveChunker {
	return &RecursiveChunker{counter: counter, seps: separatorHierarchy}
}

// NewMarkdownRecursiveChunker is the markdown preset of the recursive
// chunker, favoring heading markers at the head of the separator list.
func NewMarkdownRecursiveChunker(counter tokencount.Counter) *RecursiveChunker {
	return &RecursiveChunker{counter: counter, seps: markdownSeparatorHierarchy}
}

func (c *RecursiveChunker) Name() string        { return "recursive" }
func (c *RecursiveChunker) Description() string { return "Hierarchical separator-based splitting" }
func (c *RecursiveChunker) SupportsLanguage(string) bool { return true }

func (c *RecursiveChunker) Chunk(item SourceItem, cfg Config) ([]Chunk, error) {
	if item.Content == "" {
		return nil, nil
	}

	size := cfg.ChunkSize
	if size <= 0 {
		size = DefaultConfig().ChunkSize
	}

	fragments := c.split(item.Content, 0, size)
	fragments = packFragments(fragments, size, c.counter)

	chunks := make([]Chunk, 0, len(fragments))
	for i, f := range fragments {
		chunks = append(chunks, Chunk{
			SourceItemID:  item.ID,
			SourceGroupID: item.SourceGroupID,
			SourceKind:    item.SourceKind,
			Content:       f.text,
			TokenCount:    c.counter.Count(f.text),
			StartIndex:    f.start,
			EndIndex:      f.end,
			Ordinal:       i,
			Metadata:      ChunkMetadata{ContentType: "text"},
		})
	}
	return chunks, nil
}

type fragment struct {
	text       string
	start, end int
}

// split recursively splits text that exceeds the budget, trying separators
// starting at sepIdx. The terminal case is a fixed-token character splitter.
func (c *RecursiveChunker) split(text string, sepIdx int, size int) []fragment {
	if c.counter.Count(text) <= size || text == "" {
		return []fragment{{text: text, start: 0, end: len(text)}}
	}

	if sepIdx >= len(c.seps) {
		return c.splitByCharacters(text, size)
	}

	sep := c.seps[sepIdx]
	parts := strings.Split(text, sep)
	if len(parts) <= 1 {
		return c.split(text, sepIdx+1, size)
	}

	var out []fragment
	offset := 0
	for i, p := range parts {
		piece := p
		if i < len(parts)-1 {
			piece += sep
		}
		pieceStart := offset
		offset += len(piece)

		if c.counter.Count(piece) <= size {
			out = append(out, fragment{text: piece, start: pieceStart, end: offset})
			continue
		}

		for _, sub := range c.split(piece, sepIdx+1, size) {
			out = append(out, fragment{text: sub.text, start: pieceStart + sub.start, end: pieceStart + sub.end})
		}
	}
	return out
}

// splitByCharacters splits runs of runes so each fragment's token count fits
// the budget, used when no separator applies.
func (c *RecursiveChunker) splitByCharacters(text string, size int) []fragment {
	runes := []rune(text)
	if len(runes) == 0 {
		return []fragment{{text: "", start: 0, end: 0}}
	}

	var out []fragment
	start := 0
	for start < len(runes) {
		end := len(runes)
		for end > start+1 && c.counter.Count(string(runes[start:end])) > size {
			// binary-search-free shrink: halve the window until it fits
			mid := start + (end-start)/2
			if mid == start {
				mid = start + 1
			}
			end = mid
		}

		piece := string(runes[start:end])
		byteStart := len(string(runes[:start]))
		out = append(out, fragment{text: piece, start: byteStart, end: byteStart + len(piece)})
		start = end
	}
	return out
}

// packFragments greedily merges adjacent fragments while the combined token
// count stays under size.
func packFragments(fragments []fragment, size int, counter tokencount.Counter) []fragment {
	if len(fragments) == 0 {
		return fragments
	}

	var out []fragment
	cur := fragments[0]
	curTokens := counter.Count(cur.text)

	for _, f := range fragments[1:] {
		fTokens := counter.Count(f.text)
		if curTokens+fTokens <= size {
			cur.text += f.text
			cur.end = f.end
			curTokens += fTokens
			continue
		}
		out = append(out, cur)
		cur = f
		curTokens = fTokens
	}
	out = append(out, cur)
	return out
}
