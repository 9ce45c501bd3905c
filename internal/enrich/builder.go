// Package enrich builds context-prefixed, embedding-ready chunks from raw
// chunks plus the structural information the AST Engine and Entity & Scope
// Extractor derived for the same file.
package enrich

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cortexchunk/chunker/internal/chunk"
	"github.com/cortexchunk/chunker/internal/extraction"
)

const (
	defaultMaxPrefixLength = 500
	defaultSeparator       = "\n---\n"
)

// EntitySummary is a compact view of a CodeEntity used in chunk context.
type EntitySummary struct {
	Name      string
	Kind      string
	Signature string
}

// ChunkContext is the structured context computed for one chunk, prior to
// being flattened into the textual prefix.
type ChunkContext struct {
	FilePath      string
	Repository    string
	Language      string
	Scope         string
	Definitions   []EntitySummary
	Dependencies  []string
	Documentation string
}

// EnrichedChunk pairs a Chunk with its ChunkContext and the final
// enriched_content ready to hand to an embedding model.
type EnrichedChunk struct {
	Chunk           chunk.Chunk
	Context         ChunkContext
	EnrichedContent string
}

// Options configures prefix construction.
type Options struct {
	IncludeFilePath    bool
	MaxPrefixLength    int
	Separator          string
	Repository         string
}

func DefaultOptions() Options {
	return Options{IncludeFilePath: true, MaxPrefixLength: defaultMaxPrefixLength, Separator: defaultSeparator}
}

// Builder builds EnrichedChunks for a single file's worth of chunks given
// the entities, imports, and scope tree the extraction package derived for
// that file.
type Builder struct {
	opts Options
}

func NewBuilder(opts Options) *Builder {
	if opts.MaxPrefixLength <= 0 {
		opts.MaxPrefixLength = defaultMaxPrefixLength
	}
	if opts.Separator == "" {
		opts.Separator = defaultSeparator
	}
	return &Builder{opts: opts}
}

// Build enriches every chunk in chunks using entities/imports/scopeTree
// derived from the same filePath/language.
func (b *Builder) Build(chunks []chunk.Chunk, filePath, language string, entities []extraction.CodeEntity, imports []extraction.Import, scopeTree *extraction.ScopeTree) []EnrichedChunk {
	out := make([]EnrichedChunk, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, b.BuildOne(c, filePath, language, entities, imports, scopeTree))
	}
	return out
}

// BuildOne enriches a single chunk.
func (b *Builder) BuildOne(c chunk.Chunk, filePath, language string, entities []extraction.CodeEntity, imports []extraction.Import, scopeTree *extraction.ScopeTree) EnrichedChunk {
	ctx := ChunkContext{
		FilePath:   filePath,
		Repository: b.opts.Repository,
		Language:   language,
	}

	startLine, endLine := c.Metadata.StartLine, c.Metadata.EndLine

	var defs []EntitySummary
	var doc string
	for _, e := range entities {
		if startLine == 0 && endLine == 0 {
			break
		}
		if e.StartLine >= startLine && e.EndLine <= endLine {
			sig := e.Signature
			if sig == "" {
				sig = e.Kind + " " + e.Name
			}
			defs = append(defs, EntitySummary{Name: e.Name, Kind: e.Kind, Signature: sig})
			if doc == "" && e.Docstring != "" {
				doc = e.Docstring
			}
		}
	}
	ctx.Definitions = defs
	ctx.Documentation = doc

	if scopeTree != nil && startLine > 0 {
		if n := scopeTree.ScopeAt(startLine); n != nil {
			ctx.Scope = n.Path
		}
	}

	deps := make([]string, 0, len(imports))
	seen := map[string]bool{}
	for _, imp := range imports {
		if imp.Module == "" || seen[imp.Module] {
			continue
		}
		seen[imp.Module] = true
		deps = append(deps, imp.Module)
	}
	sort.Strings(deps)
	ctx.Dependencies = deps

	prefix := b.buildPrefix(ctx)
	enriched := c.Content
	if prefix != "" {
		enriched = prefix + b.opts.Separator + c.Content
	}

	return EnrichedChunk{Chunk: c, Context: ctx, EnrichedContent: enriched}
}

func (b *Builder) buildPrefix(ctx ChunkContext) string {
	var lines []string

	if b.opts.IncludeFilePath && ctx.FilePath != "" {
		lines = append(lines, fmt.Sprintf("# File: %s", ctx.FilePath))
	}
	if ctx.Language != "" {
		lines = append(lines, fmt.Sprintf("# Language: %s", ctx.Language))
	}
	if ctx.Repository != "" {
		lines = append(lines, fmt.Sprintf("# Repository: %s", ctx.Repository))
	}
	if ctx.Scope != "" {
		lines = append(lines, fmt.Sprintf("# Scope: %s", ctx.Scope))
	}
	if len(ctx.Definitions) > 0 {
		parts := make([]string, 0, len(ctx.Definitions))
		for _, d := range ctx.Definitions {
			if d.Signature != "" {
				parts = append(parts, d.Signature)
			} else {
				parts = append(parts, d.Kind+" "+d.Name)
			}
		}
		lines = append(lines, fmt.Sprintf("# Defines: %s", strings.Join(parts, ", ")))
	}
	if len(ctx.Dependencies) > 0 {
		lines = append(lines, fmt.Sprintf("# Dependencies: %s", flattenDependencies(ctx.Dependencies)))
	}
	if ctx.Documentation != "" {
		doc := ctx.Documentation
		if len([]rune(doc)) > 100 {
			doc = string([]rune(doc)[:100])
		}
		lines = append(lines, fmt.Sprintf("# Doc: %s", doc))
	}

	prefix := strings.Join(lines, "\n")
	return truncatePrefix(prefix, b.opts.MaxPrefixLength)
}

// flattenDependencies truncates to 5 entries plus an overflow marker when
// the flat form exceeds 100 characters.
func flattenDependencies(deps []string) string {
	flat := strings.Join(deps, ", ")
	if len(flat) <= 100 {
		return flat
	}
	n := deps
	if len(n) > 5 {
		n = n[:5]
	}
	return strings.Join(n, ", ") + ", …"
}

// truncatePrefix truncates to maxLen, rounding down to the last newline.
func truncatePrefix(prefix string, maxLen int) string {
	if len(prefix) <= maxLen {
		return prefix
	}
	truncated := prefix[:maxLen]
	if idx := strings.LastIndex(truncated, "\n"); idx >= 0 {
		return truncated[:idx]
	}
	return truncated
}
