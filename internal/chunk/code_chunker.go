package chunk

import (
	"strings"

	"github.com/cortexchunk/chunker/internal/ast"
	"github.com/cortexchunk/chunker/internal/tokencount"
)

// CodeChunker is the AST-aware chunker: it parses source with the AST
// Engine and packs chunk-worthy top-level nodes into token-budgeted chunks,
// falling back to line-based packing whenever the language is unsupported
// or parsing fails.
type CodeChunker struct {
	counter tokencount.Counter
	engine  *ast.Engine
}

func NewCodeChunker(counter tokencount.Counter) *CodeChunker {
	return &CodeChunker{counter: counter, engine: ast.NewEngine()}
}

func (c *CodeChunker) Name() string        { return "code" }
func (c *CodeChunker) Description() string { return "AST-aware structural chunking for source code" }
func (c *CodeChunker) SupportsLanguage(language string) bool {
	return language == "" || c.engine.SupportsLanguage(language)
}

func (c *CodeChunker) Chunk(item SourceItem, cfg Config) ([]Chunk, error) {
	if item.Content == "" {
		return nil, nil
	}

	size := cfg.ChunkSize
	if size <= 0 {
		size = DefaultConfig().ChunkSize
	}

	language := resolveLanguage(item, cfg)
	path := metaString(item.Metadata, "path")

	if language == "" || !c.engine.SupportsLanguage(language) {
		return c.lineFallback(item, size, language, path), nil
	}

	pf, err := c.engine.ParseFile(language, []byte(item.Content))
	if err != nil {
		return c.lineFallback(item, size, language, path), nil
	}

	worthy := topLevelWorthyNodes(pf)
	if len(worthy) == 0 {
		return c.lineFallback(item, size, language, path), nil
	}

	return c.packNodes(item, worthy, size, language, path), nil
}

// resolveLanguage resolves the language tag from the config override, the
// item's "text/code:<lang>" content type, or metadata, in that order.
func resolveLanguage(item SourceItem, cfg Config) string {
	if cfg.Language != "" {
		return cfg.Language
	}
	if strings.HasPrefix(item.ContentType, "text/code:") {
		return strings.TrimPrefix(item.ContentType, "text/code:")
	}
	if lang := metaString(item.Metadata, "language"); lang != "" {
		return lang
	}
	return ""
}

func metaString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	if v, ok := meta[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// topLevelWorthyNodes returns the chunk-worthy top-level nodes (nodes whose
// parent is not itself chunk-worthy), each expanded leftward to absorb any
// immediately preceding comment or decorator.
func topLevelWorthyNodes(pf *ast.ParsedFile) []ast.Node {
	worthySet := map[string]bool{}
	for _, n := range pf.Nodes {
		if n.Kind.ChunkWorthy() {
			worthySet[nodeKey(n)] = true
		}
	}

	var topLevel []ast.Node
	for _, n := range pf.Nodes {
		if !n.Kind.ChunkWorthy() {
			continue
		}
		// An unnamed module node is the file root; it spans every other node.
		if n.Kind == ast.NodeModule && n.Name == "" {
			continue
		}
		if n.ParentName != "" && worthySet[n.ParentName] {
			continue
		}
		topLevel = append(topLevel, n)
	}

	return expandLeftward(pf, topLevel)
}

func nodeKey(n ast.Node) string { return n.Name }

// expandLeftward walks each top-level node's preceding siblings (here
// approximated by scanning all nodes sorted by position and looking
// immediately before the node's start line) to absorb comments/decorators.
func expandLeftward(pf *ast.ParsedFile, topLevel []ast.Node) []ast.Node {
	var comments []ast.Node
	for _, n := range pf.Nodes {
		if n.Kind == ast.NodeComment || n.Kind == ast.NodeDecorator {
			comments = append(comments, n)
		}
	}

	out := make([]ast.Node, 0, len(topLevel))
	for _, n := range topLevel {
		start := n.StartLine
		startByte := n.StartByte
		for {
			absorbed := false
			for _, cm := range comments {
				if cm.EndLine == start-1 || (cm.EndLine < start && cm.EndLine >= start-1) {
					start = cm.StartLine
					startByte = cm.StartByte
					absorbed = true
					break
				}
			}
			if !absorbed {
				break
			}
		}
		n.StartLine = start
		n.StartByte = startByte
		out = append(out, n)
	}
	return out
}

func (c *CodeChunker) packNodes(item SourceItem, nodes []ast.Node, size int, language, path string) []Chunk {
	var chunks []Chunk
	ordinal := 0

	type pending struct {
		content    string
		startByte  int
		endByte    int
		startLine  int
		endLine    int
		tokenCount int
	}
	var cur []pending
	curTokens := 0

	content := item.Content

	seal := func() {
		if len(cur) == 0 {
			return
		}
		startByte := cur[0].startByte
		endByte := cur[len(cur)-1].endByte
		startLine := cur[0].startLine
		endLine := cur[len(cur)-1].endLine

		var sb strings.Builder
		for i, p := range cur {
			if i > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString(p.content)
		}

		chunks = append(chunks, Chunk{
			SourceItemID:  item.ID,
			SourceGroupID: item.SourceGroupID,
			SourceKind:    item.SourceKind,
			Content:       sb.String(),
			TokenCount:    c.counter.Count(sb.String()),
			StartIndex:    startByte,
			EndIndex:      endByte,
			Ordinal:       ordinal,
			Metadata: ChunkMetadata{
				ContentType:  "code",
				Language:     language,
				Path:         path,
				StartLine:    startLine,
				EndLine:      endLine,
				HasLineRange: true,
			},
		})
		ordinal++
		cur = nil
		curTokens = 0
	}

	for _, n := range nodes {
		text := safeSlice(content, n.StartByte, n.EndByte)
		tks := c.counter.Count(text)

		if tks > size {
			seal()
			// Single node exceeds the budget: seal current chunk, then
			// split this node by lines using the same pack-until-full loop.
			chunks = append(chunks, c.splitOversizedNode(item, n, text, size, language, path, &ordinal)...)
			continue
		}

		if len(cur) > 0 && curTokens+tks > size {
			seal()
		}

		cur = append(cur, pending{
			content:   text,
			startByte: n.StartByte,
			endByte:   n.EndByte,
			startLine: n.StartLine,
			endLine:   n.EndLine,
		})
		curTokens += tks
	}
	seal()

	return chunks
}

// splitOversizedNode packs a single over-budget node's lines, preserving
// start_line/end_line per resulting sub-chunk.
func (c *CodeChunker) splitOversizedNode(item SourceItem, n ast.Node, text string, size int, language, path string, ordinal *int) []Chunk {
	lines := strings.Split(text, "\n")

	var chunks []Chunk
	var curLines []string
	curTokens := 0
	curStartLine := n.StartLine
	byteOffset := n.StartByte

	lineByteLen := func(l string) int { return len(l) + 1 }

	seal := func(endLine int) {
		if len(curLines) == 0 {
			return
		}
		text := strings.Join(curLines, "\n")
		start := byteOffset
		end := start + len(text)
		chunks = append(chunks, Chunk{
			SourceItemID:  item.ID,
			SourceGroupID: item.SourceGroupID,
			SourceKind:    item.SourceKind,
			Content:       text,
			TokenCount:    c.counter.Count(text),
			StartIndex:    start,
			EndIndex:      end,
			Ordinal:       *ordinal,
			Metadata: ChunkMetadata{
				ContentType:  "code",
				Language:     language,
				Path:         path,
				StartLine:    curStartLine,
				EndLine:      endLine,
				HasLineRange: true,
			},
		})
		*ordinal++
		byteOffset = end + 1
		curLines = nil
		curTokens = 0
	}

	for i, l := range lines {
		lineNo := n.StartLine + i
		tks := c.counter.Count(l)
		if len(curLines) > 0 && curTokens+tks > size {
			seal(lineNo - 1)
			curStartLine = lineNo
		}
		curLines = append(curLines, l)
		curTokens += tks
		_ = lineByteLen
	}
	seal(n.EndLine)

	return chunks
}

// lineFallback packs consecutive lines until adding the next would exceed
// the budget, then seals — used when the language is unsupported or
// parsing fails. Never errors.
func (c *CodeChunker) lineFallback(item SourceItem, size int, language, path string) []Chunk {
	lines := strings.Split(item.Content, "\n")

	var chunks []Chunk
	ordinal := 0
	var curLines []string
	curTokens := 0
	startLine := 1
	byteOffset := 0

	seal := func(endLine int) {
		if len(curLines) == 0 {
			return
		}
		text := strings.Join(curLines, "\n")
		start := byteOffset
		end := start + len(text)
		chunks = append(chunks, Chunk{
			SourceItemID:  item.ID,
			SourceGroupID: item.SourceGroupID,
			SourceKind:    item.SourceKind,
			Content:       text,
			TokenCount:    c.counter.Count(text),
			StartIndex:    start,
			EndIndex:      end,
			Ordinal:       ordinal,
			Metadata: ChunkMetadata{
				ContentType:  "code",
				Language:     language,
				Path:         path,
				StartLine:    startLine,
				EndLine:      endLine,
				HasLineRange: true,
			},
		})
		ordinal++
		byteOffset = end + 1
		curLines = nil
		curTokens = 0
	}

	for i, l := range lines {
		lineNo := i + 1
		tks := c.counter.Count(l)
		if len(curLines) > 0 && curTokens+tks > size {
			seal(lineNo - 1)
			startLine = lineNo
		}
		curLines = append(curLines, l)
		curTokens += tks
	}
	seal(len(lines))

	return chunks
}

func safeSlice(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if start > end {
		return ""
	}
	return s[start:end]
}
