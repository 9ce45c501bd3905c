// Package router implements the pure (item) -> chunker strategy selection
// described by the chunking service spec.
package router

import (
	"strings"

	"github.com/gobwas/glob"

	"github.com/cortexchunk/chunker/internal/chunk"
)

type contentTypeRule struct {
	pattern glob.Glob
	name    string
}

// Router maps a SourceItem to the chunker that should process it and
// derives the merged Config for that item.
type Router struct {
	registry      *chunk.Registry
	defaultConfig chunk.Config
	contentRules  []contentTypeRule
}

// New builds a Router backed by the given chunker registry and default
// policy (normally the active profile's config).
func New(registry *chunk.Registry, defaultConfig chunk.Config) *Router {
	rules := []contentTypeRule{
		{mustGlob("text/code:*"), "code"},
		{mustGlob("*x-source*"), "code"},
		{mustGlob("*markdown*"), "document"},
		{mustGlob("*x-markdown*"), "document"},
		{mustGlob("*csv*"), "table"},
		{mustGlob("*table*"), "table"},
	}
	return &Router{registry: registry, defaultConfig: defaultConfig, contentRules: rules}
}

func mustGlob(pattern string) glob.Glob {
	g, err := glob.Compile(pattern)
	if err != nil {
		panic(err)
	}
	return g
}

var sourceKindDefaults = map[chunk.SourceKind]string{
	chunk.SourceKindCodeRepo:  "code",
	chunk.SourceKindDocument:  "document",
	chunk.SourceKindWiki:      "document",
	chunk.SourceKindChat:      "chat",
	chunk.SourceKindEmail:     "chat",
	chunk.SourceKindTicketing: "ticketing",
	chunk.SourceKindWeb:       "recursive",
	chunk.SourceKindOther:     "sentence",
}

// GetChunker selects the chunker for item: content-type overrides are
// checked first (in rule order), then the source-kind default.
func (r *Router) GetChunker(item chunk.SourceItem) chunk.Chunker {
	if name := r.matchContentType(item.ContentType); name != "" {
		if c, ok := r.registry.ByName(name); ok {
			return c
		}
	}

	name, ok := sourceKindDefaults[item.SourceKind]
	if !ok {
		name = "sentence"
	}
	c, ok := r.registry.ByName(name)
	if !ok {
		c, _ = r.registry.ByName("sentence")
	}
	return c
}

// GetChunkerByName exposes explicit chunker selection by name or alias.
func (r *Router) GetChunkerByName(name string) (chunk.Chunker, bool) {
	return r.registry.ByName(strings.ToLower(name))
}

func (r *Router) matchContentType(contentType string) string {
	// JSON + "chat" hint is handled separately since it needs two matched
	// substrings rather than one glob.
	if strings.Contains(contentType, "json") && strings.Contains(contentType, "chat") {
		return "chat"
	}
	for _, rule := range r.contentRules {
		if rule.pattern.Match(contentType) {
			return rule.name
		}
	}
	return ""
}

// GetConfig returns the merged Config for item: the router's default policy
// with Language filled in from the "text/code:<lang>" content type or
// metadata when the item is code.
func (r *Router) GetConfig(item chunk.SourceItem) chunk.Config {
	cfg := r.defaultConfig

	if item.SourceKind == chunk.SourceKindCodeRepo || strings.HasPrefix(item.ContentType, "text/code:") {
		if lang := extractLanguage(item); lang != "" {
			cfg.Language = lang
		}
	}

	return cfg
}

func extractLanguage(item chunk.SourceItem) string {
	if strings.HasPrefix(item.ContentType, "text/code:") {
		return strings.TrimPrefix(item.ContentType, "text/code:")
	}
	if item.Metadata != nil {
		if v, ok := item.Metadata["language"]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

// DefaultConfig returns the router's default policy.
func (r *Router) DefaultConfig() chunk.Config { return r.defaultConfig }

// ListChunkers returns (name, description) for every registered chunker.
func (r *Router) ListChunkers() []chunk.Info { return r.registry.All() }
