package chunk

import (
	"regexp"
	"strings"

	"github.com/cortexchunk/chunker/internal/tokencount"
)

var atxHeadingRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

// DocumentChunker splits markdown/wiki content into sections on ATX
// headings (ignoring headings inside fenced code blocks), emitting one
// chunk per section when it fits the budget, else splitting by paragraph
// and, for over-budget paragraphs, by sentence.
type DocumentChunker struct {
	counter tokencount.Counter
}

func NewDocumentChunker(counter tokencount.Counter) *DocumentChunker {
	return &DocumentChunker{counter: counter}
}

func (c *DocumentChunker) Name() string        { return "document" }
func (c *DocumentChunker) Description() string { return "Markdown/wiki heading-aware chunking" }
func (c *DocumentChunker) SupportsLanguage(string) bool { return true }

type docSection struct {
	heading    string
	level      int
	content    string
	startIndex int
}

func (c *DocumentChunker) Chunk(item SourceItem, cfg Config) ([]Chunk, error) {
	if item.Content == "" {
		return nil, nil
	}

	size := cfg.ChunkSize
	if size <= 0 {
		size = DefaultConfig().ChunkSize
	}

	sections := splitSections(item.Content)

	var chunks []Chunk
	ordinal := 0
	for _, sec := range sections {
		if c.counter.Count(sec.content) <= size {
			chunks = append(chunks, Chunk{
				SourceItemID:  item.ID,
				SourceGroupID: item.SourceGroupID,
				SourceKind:    item.SourceKind,
				Content:       sec.content,
				TokenCount:    c.counter.Count(sec.content),
				StartIndex:    sec.startIndex,
				EndIndex:      sec.startIndex + len(sec.content),
				Ordinal:       ordinal,
				Metadata:      ChunkMetadata{ContentType: "paragraph", Section: sec.heading},
			})
			ordinal++
			continue
		}

		subChunks := c.splitSection(sec, size)
		for i := range subChunks {
			subChunks[i].Ordinal = ordinal
			subChunks[i].SourceItemID = item.ID
			subChunks[i].SourceGroupID = item.SourceGroupID
			subChunks[i].SourceKind = item.SourceKind
			ordinal++
		}
		chunks = append(chunks, subChunks...)
	}

	return chunks, nil
}

// splitSections splits content on ATX headings, toggling fenced-code-block
// state on lines starting with triple backtick so headings inside code
// fences are ignored.
func splitSections(content string) []docSection {
	lines := strings.Split(content, "\n")

	var sections []docSection
	var curHeading string
	curLevel := 0
	var curLines []string
	inFence := false
	offset := 0
	curStart := 0

	flush := func() {
		if len(curLines) == 0 && curHeading == "" {
			return
		}
		text := strings.Join(curLines, "\n")
		sections = append(sections, docSection{
			heading:    curHeading,
			level:      curLevel,
			content:    text,
			startIndex: curStart,
		})
	}

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
		}

		if !inFence {
			if m := atxHeadingRe.FindStringSubmatch(line); m != nil {
				flush()
				curHeading = line
				curLevel = len(m[1])
				curLines = nil
				curStart = offset
			}
		}

		curLines = append(curLines, line)
		offset += len(line) + 1
	}
	flush()

	if len(sections) == 0 {
		return []docSection{{content: content, startIndex: 0}}
	}
	return sections
}

// splitSection splits an over-budget section by blank-line paragraphs,
// prepending the section heading to the first sub-chunk.
func (c *DocumentChunker) splitSection(sec docSection, size int) []Chunk {
	paragraphs := splitParagraphs(sec.content, sec.startIndex)

	var chunks []Chunk
	first := true
	for _, p := range paragraphs {
		text := p.text
		if first && sec.heading != "" && !strings.Contains(text, sec.heading) {
			text = sec.heading + "\n\n" + text
		}

		if c.counter.Count(text) <= size {
			chunks = append(chunks, Chunk{
				Content:    text,
				TokenCount: c.counter.Count(text),
				StartIndex: p.start,
				EndIndex:   p.start + len(p.text),
				Metadata:   ChunkMetadata{ContentType: "paragraph", Section: sec.heading},
			})
			first = false
			continue
		}

		// Over-budget paragraph: split by sentence delimiters.
		spans := splitSentences(p.text)
		sub := packSentences(spans, SourceItem{}, size, c.counter)
		for i := range sub {
			if first && i == 0 && sec.heading != "" {
				sub[i].Content = sec.heading + "\n\n" + sub[i].Content
				sub[i].TokenCount = c.counter.Count(sub[i].Content)
			}
			sub[i].StartIndex += p.start
			sub[i].EndIndex += p.start
			sub[i].Metadata = ChunkMetadata{ContentType: "paragraph", Section: sec.heading}
		}
		chunks = append(chunks, sub...)
		first = false
	}

	return chunks
}

type paragraphSpan struct {
	text  string
	start int
}

func splitParagraphs(content string, baseOffset int) []paragraphSpan {
	parts := strings.Split(content, "\n\n")
	var out []paragraphSpan
	offset := 0
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, paragraphSpan{text: p, start: baseOffset + offset})
		}
		offset += len(p) + 2
	}
	if len(out) == 0 {
		out = append(out, paragraphSpan{text: content, start: baseOffset})
	}
	return out
}
