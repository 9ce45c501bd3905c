// Package tokencount provides a process-wide BPE token counter compatible
// with the GPT-4 / embedding-model family of encodings.
package tokencount

import (
	"fmt"
	"sync"

	"github.com/maypok86/otter"
	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the encoding used by GPT-4, ChatGPT, and
// text-embedding-ada-002-family models.
const DefaultEncoding = "cl100k_base"

// Counter is a BPE-compatible token counter. Any implementation producing
// deterministic counts for the target embedding model is acceptable; callers
// swap it by construction, not by inheritance.
type Counter interface {
	Count(text string) int
	Encode(text string) []int
	Decode(ids []int) string
}

// tiktokenCounter wraps a tiktoken BPE encoding. It is safe for concurrent
// use: the underlying encoding is read-only once constructed, and the result
// cache is itself concurrency-safe.
type tiktokenCounter struct {
	enc   *tiktoken.Tiktoken
	cache otter.Cache[string, []int]
}

// New constructs a Counter for the named encoding. The encoding is resolved
// once at construction and shared read-only thereafter.
func New(encoding string) (Counter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("tokencount: failed to load encoding %q: %w", encoding, err)
	}

	cache, err := otter.MustBuilder[string, []int](50_000).
		Cost(func(key string, value []int) uint32 {
			return uint32(len(value)) + 1
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("tokencount: failed to build encode cache: %w", err)
	}

	return &tiktokenCounter{enc: enc, cache: cache}, nil
}

var (
	defaultOnce    sync.Once
	defaultCounter Counter
	defaultErr     error
)

// Default returns the lazily-initialized, process-wide cl100k_base counter.
func Default() (Counter, error) {
	defaultOnce.Do(func() {
		defaultCounter, defaultErr = New(DefaultEncoding)
	})
	return defaultCounter, defaultErr
}

// Count returns the deterministic BPE token count of text.
func (c *tiktokenCounter) Count(text string) int {
	return len(c.encodeCached(text))
}

// Encode returns the BPE token ids for text.
func (c *tiktokenCounter) Encode(text string) []int {
	ids := c.encodeCached(text)
	out := make([]int, len(ids))
	copy(out, ids)
	return out
}

// Decode turns token ids back into text. Not guaranteed to byte-for-byte
// round trip pathological whitespace.
func (c *tiktokenCounter) Decode(ids []int) string {
	return c.enc.Decode(ids)
}

func (c *tiktokenCounter) encodeCached(text string) []int {
	if v, ok := c.cache.Get(text); ok {
		return v
	}
	ids := c.enc.Encode(text, nil, nil)
	c.cache.Set(text, ids)
	return ids
}
