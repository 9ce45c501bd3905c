package chunk

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/cortexchunk/chunker/internal/tokencount"
)

// TicketingChunker emits a header+description chunk followed by one chunk
// per comment (or an aggregate comments chunk when all comments fit
// together).
type TicketingChunker struct {
	counter tokencount.Counter
}

func NewTicketingChunker(counter tokencount.Counter) *TicketingChunker {
	return &TicketingChunker{counter: counter}
}

func (c *TicketingChunker) Name() string        { return "ticketing" }
func (c *TicketingChunker) Description() string { return "Ticket/issue header, description, and comment packing" }
func (c *TicketingChunker) SupportsLanguage(string) bool { return true }

type ticket struct {
	Title     string
	Status    string
	Priority  string
	Assignee  string
	Reporter  string
	Description string
	Comments  []ticketComment
}

type ticketComment struct {
	Author string
	Text   string
}

type ticketJSON struct {
	Title       string `json:"Title"`
	Status      string `json:"Status"`
	Priority    string `json:"Priority"`
	Assignee    string `json:"Assignee"`
	Reporter    string `json:"Reporter"`
	Author      string `json:"Author"`
	Description string `json:"Description"`
	Comments    []struct {
		Author string `json:"author"`
		Text   string `json:"text"`
	} `json:"Comments"`
}

var structuredKeyRe = regexp.MustCompile(`(?m)^(Title|Status|Priority|Assignee|Reporter|Author|Description):\s*(.*)$`)

func (c *TicketingChunker) Chunk(item SourceItem, cfg Config) ([]Chunk, error) {
	if item.Content == "" {
		return nil, nil
	}

	size := cfg.ChunkSize
	if size <= 0 {
		size = DefaultConfig().ChunkSize
	}

	t := parseTicket(item.Content)

	var chunks []Chunk
	ordinal := 0

	header := formatHeader(t)
	desc := strings.TrimSpace(header + "\n\n" + t.Description)
	if c.counter.Count(desc) <= size {
		chunks = append(chunks, c.makeChunk(item, desc, "description", t.Reporter, ordinal))
		ordinal++
	} else {
		spans := splitSentences(desc)
		for _, sub := range packSentences(spans, item, size, c.counter) {
			sub.Ordinal = ordinal
			sub.Metadata = ChunkMetadata{ContentType: "description", Author: t.Reporter}
			chunks = append(chunks, sub)
			ordinal++
		}
	}

	if len(t.Comments) == 0 {
		return chunks, nil
	}

	var aggregate strings.Builder
	for i, cm := range t.Comments {
		if i > 0 {
			aggregate.WriteString("\n\n")
		}
		aggregate.WriteString(cm.Author + ": " + cm.Text)
	}
	if c.counter.Count(aggregate.String()) <= size {
		chunks = append(chunks, c.makeChunk(item, aggregate.String(), "comments", "", ordinal))
		ordinal++
		return chunks, nil
	}

	for _, cm := range t.Comments {
		text := cm.Author + ": " + cm.Text
		chunks = append(chunks, c.makeChunk(item, text, "comment", cm.Author, ordinal))
		ordinal++
	}

	return chunks, nil
}

func (c *TicketingChunker) makeChunk(item SourceItem, text, contentType, author string, ordinal int) Chunk {
	return Chunk{
		SourceItemID:  item.ID,
		SourceGroupID: item.SourceGroupID,
		SourceKind:    item.SourceKind,
		Content:       text,
		TokenCount:    c.counter.Count(text),
		StartIndex:    0,
		EndIndex:      len(text),
		Ordinal:       ordinal,
		Metadata:      ChunkMetadata{ContentType: contentType, Author: author},
	}
}

func formatHeader(t ticket) string {
	var lines []string
	if t.Title != "" {
		lines = append(lines, "Title: "+t.Title)
	}
	if t.Status != "" {
		lines = append(lines, "Status: "+t.Status)
	}
	if t.Priority != "" {
		lines = append(lines, "Priority: "+t.Priority)
	}
	if t.Assignee != "" {
		lines = append(lines, "Assignee: "+t.Assignee)
	}
	if t.Reporter != "" {
		lines = append(lines, "Reporter: "+t.Reporter)
	}
	return strings.Join(lines, "\n")
}

func parseTicket(content string) ticket {
	var tj ticketJSON
	if err := json.Unmarshal([]byte(content), &tj); err == nil && (tj.Title != "" || tj.Description != "") {
		reporter := tj.Reporter
		if reporter == "" {
			reporter = tj.Author
		}
		t := ticket{
			Title: tj.Title, Status: tj.Status, Priority: tj.Priority,
			Assignee: tj.Assignee, Reporter: reporter, Description: tj.Description,
		}
		for _, cm := range tj.Comments {
			t.Comments = append(t.Comments, ticketComment{Author: cm.Author, Text: cm.Text})
		}
		return t
	}

	var t ticket
	fields := map[string]*string{
		"Title": &t.Title, "Status": &t.Status, "Priority": &t.Priority,
		"Assignee": &t.Assignee, "Reporter": &t.Reporter, "Author": &t.Reporter,
	}
	matches := structuredKeyRe.FindAllStringSubmatch(content, -1)
	for _, m := range matches {
		if p, ok := fields[m[1]]; ok && *p == "" {
			*p = strings.TrimSpace(m[2])
		}
	}

	if idx := strings.Index(content, "Description:"); idx >= 0 {
		rest := content[idx+len("Description:"):]
		if end := strings.Index(rest, "\nComments:"); end >= 0 {
			t.Description = strings.TrimSpace(rest[:end])
			t.Comments = parseStructuredComments(rest[end:])
		} else {
			t.Description = strings.TrimSpace(rest)
		}
	}

	return t
}

func parseStructuredComments(block string) []ticketComment {
	block = strings.TrimPrefix(strings.TrimSpace(block), "Comments:")
	var comments []ticketComment
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if idx := strings.Index(line, ":"); idx > 0 {
			comments = append(comments, ticketComment{Author: strings.TrimSpace(line[:idx]), Text: strings.TrimSpace(line[idx+1:])})
		}
	}
	return comments
}
