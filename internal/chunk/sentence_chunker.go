package chunk

import (
	"strings"
	"unicode"

	"github.com/cortexchunk/chunker/internal/tokencount"
)

// SentenceChunker splits prose on sentence-ending punctuation, merges
// fragments shorter than the configured minimum, then greedily packs
// sentences into token-budgeted chunks.
type SentenceChunker struct {
	counter tokencount.Counter
}

func NewSentenceChunker(counter tokencount.Counter) *SentenceChunker {
	return &SentenceChunker{counter: counter}
}

func (c *SentenceChunker) Name() string        { return "sentence" }
func (c *SentenceChunker) Description() string { return "Sentence-boundary splitting with greedy packing" }
func (c *SentenceChunker) SupportsLanguage(string) bool { return true }

func (c *SentenceChunker) Chunk(item SourceItem, cfg Config) ([]Chunk, error) {
	if item.Content == "" {
		return nil, nil
	}

	size := cfg.ChunkSize
	if size <= 0 {
		size = DefaultConfig().ChunkSize
	}
	minChars := cfg.MinCharsPerSentence
	if minChars <= 0 {
		minChars = DefaultConfig().MinCharsPerSentence
	}

	sentences := splitSentences(item.Content)
	sentences = mergeShortSentences(sentences, minChars)

	return packSentences(sentences, item, size, c.counter), nil
}

type sentenceSpan struct {
	text  string
	start int
	end   int
}

// splitSentences scans characters; at each delimiter in {'.', '!', '?'}
// followed by whitespace-or-EOF it emits a sentence including trailing
// whitespace but not newlines.
func splitSentences(content string) []sentenceSpan {
	var spans []sentenceSpan
	runes := []rune(content)

	byteOffsets := make([]int, len(runes)+1)
	off := 0
	for i, r := range runes {
		byteOffsets[i] = off
		off += len(string(r))
	}
	byteOffsets[len(runes)] = off

	isDelim := func(r rune) bool { return r == '.' || r == '!' || r == '?' }

	start := 0
	i := 0
	for i < len(runes) {
		r := runes[i]
		if isDelim(r) {
			next := i + 1
			if next >= len(runes) || (unicode.IsSpace(runes[next]) && runes[next] != '\n' && runes[next] != '\r') || runes[next] == '\n' || runes[next] == '\r' {
				// include trailing whitespace (not newlines) in the sentence
				end := next
				for end < len(runes) && (runes[end] == ' ' || runes[end] == '\t') {
					end++
				}
				spans = append(spans, sentenceSpan{
					text:  string(runes[start:end]),
					start: byteOffsets[start],
					end:   byteOffsets[end],
				})
				start = end
				i = end
				continue
			}
		}
		i++
	}
	if start < len(runes) {
		spans = append(spans, sentenceSpan{
			text:  string(runes[start:]),
			start: byteOffsets[start],
			end:   byteOffsets[len(runes)],
		})
	}

	return spans
}

// mergeShortSentences merges any sentence shorter than minChars with its
// successor (the merged span's offsets span both originals).
func mergeShortSentences(spans []sentenceSpan, minChars int) []sentenceSpan {
	if len(spans) == 0 {
		return spans
	}

	var merged []sentenceSpan
	var pending *sentenceSpan

	for _, s := range spans {
		if pending != nil {
			pending.text += s.text
			pending.end = s.end
			if len([]rune(strings.TrimRight(pending.text, " \t"))) >= minChars {
				merged = append(merged, *pending)
				pending = nil
			}
			continue
		}

		if len([]rune(strings.TrimRight(s.text, " \t"))) < minChars {
			cp := s
			pending = &cp
			continue
		}

		merged = append(merged, s)
	}

	if pending != nil {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			last.text += pending.text
			last.end = pending.end
		} else {
			merged = append(merged, *pending)
		}
	}

	return merged
}

func packSentences(spans []sentenceSpan, item SourceItem, size int, counter tokencount.Counter) []Chunk {
	var chunks []Chunk
	var cur strings.Builder
	curStart, curEnd := 0, 0
	curTokens := 0
	ordinal := 0
	has := false

	seal := func() {
		if !has {
			return
		}
		chunks = append(chunks, Chunk{
			SourceItemID:  item.ID,
			SourceGroupID: item.SourceGroupID,
			SourceKind:    item.SourceKind,
			Content:       cur.String(),
			TokenCount:    counter.Count(cur.String()),
			StartIndex:    curStart,
			EndIndex:      curEnd,
			Ordinal:       ordinal,
			Metadata:      ChunkMetadata{ContentType: "paragraph"},
		})
		ordinal++
		cur.Reset()
		curTokens = 0
		has = false
	}

	for _, s := range spans {
		tks := counter.Count(s.text)
		if has && curTokens+tks > size {
			seal()
		}
		if !has {
			curStart = s.start
		}
		cur.WriteString(s.text)
		curEnd = s.end
		curTokens += tks
		has = true
	}
	seal()

	return chunks
}
