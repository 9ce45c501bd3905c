package chunk

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/cortexchunk/chunker/internal/tokencount"
)

// ChatChunker packs chat/email messages into token-budgeted chunks,
// accepting either a JSON payload or line-based "[ts] user: text" input.
type ChatChunker struct {
	counter tokencount.Counter
}

func NewChatChunker(counter tokencount.Counter) *ChatChunker {
	return &ChatChunker{counter: counter}
}

func (c *ChatChunker) Name() string        { return "chat" }
func (c *ChatChunker) Description() string { return "Speaker-aware chat/message packing" }
func (c *ChatChunker) SupportsLanguage(string) bool { return true }

type chatMessage struct {
	User string
	Text string
	TS   string
}

type chatPayload struct {
	Messages []struct {
		User string `json:"user"`
		Text string `json:"text"`
		TS   string `json:"ts"`
	} `json:"messages"`
	Channel  string `json:"channel"`
	ThreadTS string `json:"thread_ts"`
}

var lineMsgRe = regexp.MustCompile(`^\[([^\]]*)\]\s*([^:]+):\s*(.*)$`)

func (c *ChatChunker) Chunk(item SourceItem, cfg Config) ([]Chunk, error) {
	if item.Content == "" {
		return nil, nil
	}

	size := cfg.ChunkSize
	if size <= 0 {
		size = DefaultConfig().ChunkSize
	}

	messages, threadID := parseChat(item.Content)

	var chunks []Chunk
	ordinal := 0
	var curTexts []string
	var curMsgs []chatMessage
	curTokens := 0
	offset := 0
	curStart := 0

	seal := func() {
		if len(curMsgs) == 0 {
			return
		}
		text := strings.Join(curTexts, "\n")
		var ts *time.Time
		if t, err := time.Parse(time.RFC3339, curMsgs[0].TS); err == nil {
			ts = &t
		}
		chunks = append(chunks, Chunk{
			SourceItemID:  item.ID,
			SourceGroupID: item.SourceGroupID,
			SourceKind:    item.SourceKind,
			Content:       text,
			TokenCount:    c.counter.Count(text),
			StartIndex:    curStart,
			EndIndex:      curStart + len(text),
			Ordinal:       ordinal,
			Metadata: ChunkMetadata{
				ContentType: "message",
				Author:      curMsgs[0].User,
				ThreadID:    threadID,
				Timestamp:   ts,
			},
		})
		ordinal++
		curTexts = nil
		curMsgs = nil
		curTokens = 0
	}

	for _, m := range messages {
		formatted := formatMessage(m)
		tks := c.counter.Count(formatted)
		if len(curMsgs) > 0 && curTokens+tks > size {
			seal()
		}
		if len(curMsgs) == 0 {
			curStart = offset
		}
		curTexts = append(curTexts, formatted)
		curMsgs = append(curMsgs, m)
		curTokens += tks
		offset += len(formatted) + 1
	}
	seal()

	return chunks, nil
}

func formatMessage(m chatMessage) string {
	if m.User == "" {
		return m.Text
	}
	return m.User + ": " + m.Text
}

func parseChat(content string) ([]chatMessage, string) {
	var payload chatPayload
	if err := json.Unmarshal([]byte(content), &payload); err == nil && len(payload.Messages) > 0 {
		out := make([]chatMessage, 0, len(payload.Messages))
		for _, m := range payload.Messages {
			out = append(out, chatMessage{User: m.User, Text: m.Text, TS: m.TS})
		}
		thread := payload.ThreadTS
		if thread == "" {
			thread = payload.Channel
		}
		return out, thread
	}

	var out []chatMessage
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if m := lineMsgRe.FindStringSubmatch(line); m != nil {
			out = append(out, chatMessage{TS: m[1], User: strings.TrimSpace(m[2]), Text: m[3]})
			continue
		}
		out = append(out, chatMessage{Text: line})
	}
	return out, ""
}
