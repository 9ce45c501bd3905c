package chunk

import (
	"strings"

	"github.com/cortexchunk/chunker/internal/tokencount"
)

// BoundaryType classifies a single line for the agentic chunker's
// language-agnostic heuristic scan.
type BoundaryType int

const (
	boundaryNone BoundaryType = iota
	boundaryEmptyLine
	boundaryHeading
	boundaryFunctionDef
	boundaryClassDef
	boundaryTypeDef
	boundaryImplBlock
	boundaryModuleDef
	boundaryDocComment
)

var codeDefPrefixes = []string{"fn ", "pub fn ", "async fn ", "pub async fn ", "def ", "async def "}
var implPrefixes = []string{"impl ", "pub impl "}
var typeDefPrefixes = []string{"struct ", "pub struct ", "enum ", "pub enum "}
var classDefPrefixes = []string{"class ", "interface "}
var moduleDefPrefixes = []string{"mod ", "pub mod "}
var docCommentPrefixes = []string{"///", "//!", "/**", "/*"}
var importLikePrefixes = []string{"import ", "from ", "use ", "#include"}

// AgenticChunker uses a language-agnostic heuristic line scan to find
// semantic boundaries, greedily packs lines until the budget is reached,
// then seals at the strongest boundary seen since the last cut.
type AgenticChunker struct {
	counter tokencount.Counter
}

func NewAgenticChunker(counter tokencount.Counter) *AgenticChunker {
	return &AgenticChunker{counter: counter}
}

func (c *AgenticChunker) Name() string        { return "agentic" }
func (c *AgenticChunker) Description() string { return "Heuristic boundary detection with context injection" }
func (c *AgenticChunker) SupportsLanguage(string) bool { return true }

type classifiedLine struct {
	text     string
	boundary BoundaryType
	strength float64
}

func classifyLine(line string) (BoundaryType, float64) {
	trimmed := strings.TrimSpace(line)

	if trimmed == "" {
		return boundaryEmptyLine, 0.2
	}
	if strings.HasPrefix(trimmed, "#") {
		level := 0
		for level < len(trimmed) && trimmed[level] == '#' {
			level++
		}
		return boundaryHeading, 1.0 - float64(level)*0.1
	}
	for _, p := range moduleDefPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return boundaryModuleDef, 0.95
		}
	}
	for _, p := range implPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return boundaryImplBlock, 0.85
		}
	}
	for _, p := range typeDefPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return boundaryTypeDef, 0.9
		}
	}
	for _, p := range classDefPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return boundaryClassDef, 0.9
		}
	}
	for _, p := range codeDefPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return boundaryFunctionDef, 0.8
		}
	}
	for _, p := range docCommentPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return boundaryDocComment, 0.3
		}
	}
	return boundaryNone, 0
}

func isImportLike(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, p := range importLikePrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

// looksLikeCode is a loose heuristic used to decide whether a subsequent
// chunk should receive injected context.
func looksLikeCode(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		t, _ := classifyLine(line)
		if t == boundaryFunctionDef || t == boundaryClassDef || t == boundaryTypeDef || t == boundaryImplBlock || t == boundaryModuleDef {
			return true
		}
	}
	return false
}

func (c *AgenticChunker) Chunk(item SourceItem, cfg Config) ([]Chunk, error) {
	if item.Content == "" {
		return nil, nil
	}

	size := cfg.ChunkSize
	if size <= 0 {
		size = DefaultConfig().ChunkSize
	}

	lines := strings.Split(item.Content, "\n")
	classified := make([]classifiedLine, len(lines))
	for i, l := range lines {
		bt, strength := classifyLine(l)
		classified[i] = classifiedLine{text: l, boundary: bt, strength: strength}
	}

	// Collect import-like prefix lines from the very start of the content.
	var importPrefix []string
	for _, l := range lines {
		if isImportLike(l) {
			importPrefix = append(importPrefix, l)
			continue
		}
		if strings.TrimSpace(l) == "" {
			continue
		}
		break
	}
	contextBlock := ""
	if len(importPrefix) > 0 {
		var sb strings.Builder
		for _, l := range importPrefix {
			sb.WriteString("// Context: " + strings.TrimSpace(l) + "\n")
		}
		contextBlock = sb.String()
	}

	var chunks []Chunk
	ordinal := 0
	lastCut := 0
	lineByteOffsets := make([]int, len(lines)+1)
	off := 0
	for i, l := range lines {
		lineByteOffsets[i] = off
		off += len(l) + 1
	}
	lineByteOffsets[len(lines)] = off

	cumulativeTokens := 0
	firstChunk := true

	i := 0
	for i < len(lines) {
		cumulativeTokens += c.counter.Count(lines[i])
		i++

		if cumulativeTokens < size && i < len(lines) {
			continue
		}

		cutAt := i
		if i < len(lines) {
			// seal at the strongest boundary in (lastCut, current], ties
			// broken by the latest line.
			best := -1
			bestStrength := -1.0
			for j := lastCut; j < i; j++ {
				if classified[j].boundary == boundaryNone {
					continue
				}
				if classified[j].strength >= bestStrength {
					bestStrength = classified[j].strength
					best = j
				}
			}
			if best > lastCut {
				cutAt = best
			}
		}

		text := strings.Join(lines[lastCut:cutAt], "\n")

		if !firstChunk && contextBlock != "" && looksLikeCode(text) {
			text = contextBlock + text
		}

		chunks = append(chunks, Chunk{
			SourceItemID:  item.ID,
			SourceGroupID: item.SourceGroupID,
			SourceKind:    item.SourceKind,
			Content:       text,
			TokenCount:    c.counter.Count(text),
			StartIndex:    lineByteOffsets[lastCut],
			EndIndex:      lineByteOffsets[cutAt],
			Ordinal:       ordinal,
			Metadata: ChunkMetadata{
				ContentType:  "block",
				StartLine:    lastCut + 1,
				EndLine:      cutAt,
				HasLineRange: true,
			},
		})
		ordinal++
		firstChunk = false

		lastCut = cutAt
		cumulativeTokens = 0
		i = cutAt
	}

	return chunks, nil
}
