package chunk

import (
	"strings"

	"github.com/cortexchunk/chunker/internal/tokencount"
)

// TableChunker detects markdown-table or CSV input and packs data rows
// behind a header that is repeated in every chunk.
type TableChunker struct {
	counter tokencount.Counter
}

func NewTableChunker(counter tokencount.Counter) *TableChunker {
	return &TableChunker{counter: counter}
}

func (c *TableChunker) Name() string        { return "table" }
func (c *TableChunker) Description() string { return "Markdown table / CSV row packing with header repetition" }
func (c *TableChunker) SupportsLanguage(string) bool { return true }

func (c *TableChunker) Chunk(item SourceItem, cfg Config) ([]Chunk, error) {
	if item.Content == "" {
		return nil, nil
	}

	size := cfg.ChunkSize
	if size <= 0 {
		size = DefaultConfig().ChunkSize
	}

	lines := splitNonEmptyLeading(item.Content)
	if len(lines) == 0 {
		return nil, nil
	}

	contentType := "csv"
	var header string
	var dataLines []string

	if strings.HasPrefix(strings.TrimSpace(lines[0]), "|") && len(lines) > 1 && isMarkdownSeparator(lines[1]) {
		contentType = "table"
		header = lines[0] + "\n" + lines[1]
		if len(lines) > 2 {
			dataLines = lines[2:]
		}
	} else {
		header = lines[0]
		if len(lines) > 1 {
			dataLines = lines[1:]
		}
	}

	headerTokens := c.counter.Count(header)

	var chunks []Chunk
	ordinal := 0
	var curRows []string
	curTokens := headerTokens

	seal := func() {
		if len(curRows) == 0 {
			return
		}
		text := header + "\n" + strings.Join(curRows, "\n")
		chunks = append(chunks, Chunk{
			SourceItemID:  item.ID,
			SourceGroupID: item.SourceGroupID,
			SourceKind:    item.SourceKind,
			Content:       text,
			TokenCount:    c.counter.Count(text),
			StartIndex:    0,
			EndIndex:      len(item.Content),
			Ordinal:       ordinal,
			Metadata:      ChunkMetadata{ContentType: contentType},
		})
		ordinal++
		curRows = nil
		curTokens = headerTokens
	}

	for _, row := range dataLines {
		rowTokens := c.counter.Count(row)
		if len(curRows) > 0 && curTokens+rowTokens > size {
			seal()
		}
		curRows = append(curRows, row)
		curTokens += rowTokens
	}
	seal()

	return chunks, nil
}

func isMarkdownSeparator(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "|") {
		return false
	}
	for _, r := range trimmed {
		switch r {
		case '|', '-', ':', ' ':
			continue
		default:
			return false
		}
	}
	return true
}

func splitNonEmptyLeading(content string) []string {
	all := strings.Split(content, "\n")
	var out []string
	started := false
	for _, l := range all {
		if !started {
			if strings.TrimSpace(l) == "" {
				continue
			}
			started = true
		}
		out = append(out, l)
	}
	// drop a single trailing empty line from a final newline
	if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	return out
}
