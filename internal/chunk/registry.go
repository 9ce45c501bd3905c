package chunk

import "github.com/cortexchunk/chunker/internal/tokencount"

// Chunker fragments a SourceItem into chunks obeying a token budget. Every
// implementation must return an empty slice (never an error) for empty
// content, emit dense ordinals starting at zero, and degrade gracefully
// rather than fail when it cannot process content semantically.
type Chunker interface {
	Name() string
	Description() string
	SupportsLanguage(language string) bool
	Chunk(item SourceItem, cfg Config) ([]Chunk, error)
}

// Info is a (name, description) pair used for chunker introspection, e.g. by
// the `chunkers` CLI command or a profile-style status endpoint.
type Info struct {
	Name        string
	Description string
}

// Registry holds one instance of every built-in chunker, keyed by name and
// by the aliases the original router accepts.
type Registry struct {
	counter tokencount.Counter

	byName map[string]Chunker
	order  []Chunker
}

// NewRegistry builds the registry of all nine built-in chunkers sharing a
// single token counter.
func NewRegistry(counter tokencount.Counter) *Registry {
	r := &Registry{counter: counter, byName: map[string]Chunker{}}

	chunkers := []Chunker{
		NewTokenChunker(counter),
		NewSentenceChunker(counter),
		NewRecursiveChunker(counter),
		NewCodeChunker(counter),
		NewDocumentChunker(counter),
		NewChatChunker(counter),
		NewTicketingChunker(counter),
		NewTableChunker(counter),
		NewAgenticChunker(counter),
	}
	r.order = chunkers

	for _, c := range chunkers {
		r.byName[c.Name()] = c
	}

	aliases := map[string]string{
		"document":    "document",
		"markdown":    "document",
		"ticket":      "ticketing",
		"issue":       "ticketing",
		"csv":         "table",
		"smart":       "agentic",
		"intelligent": "agentic",
	}
	for alias, target := range aliases {
		if c, ok := r.byName[target]; ok {
			r.byName[alias] = c
		}
	}

	return r
}

// ByName resolves a chunker by its canonical name or accepted alias.
func (r *Registry) ByName(name string) (Chunker, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// All returns every registered chunker's introspection info, in registration
// order (token, sentence, recursive, code, document, chat, ticketing, table,
// agentic).
func (r *Registry) All() []Info {
	out := make([]Info, 0, len(r.order))
	for _, c := range r.order {
		out = append(out, Info{Name: c.Name(), Description: c.Description()})
	}
	return out
}

// Chunkers returns the underlying chunker instances in registration order.
func (r *Registry) Chunkers() []Chunker {
	return r.order
}
