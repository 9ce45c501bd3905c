// Package batch implements concurrency-bounded per-item chunking with
// streaming and buffered modes, as described by the chunking service's
// Batch Processor component.
package batch

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/cortexchunk/chunker/internal/chunk"
	"github.com/cortexchunk/chunker/internal/router"
)

// Policy configures the batch processor.
type Policy struct {
	Concurrency       int
	BufferSize        int
	ContinueOnError   bool
	MaxContentSize    int
}

func DefaultPolicy() Policy {
	return Policy{
		Concurrency:     4,
		BufferSize:      100,
		ContinueOnError: true,
		MaxContentSize:  10 * 1024 * 1024,
	}
}

// Result is the outcome of a non-streaming batch run.
type Result struct {
	Total       int
	Processed   int
	Failed      int
	TotalChunks int
	Errors      []ItemError
}

// ItemError records a per-item chunking failure.
type ItemError struct {
	ItemID string
	Err    error
}

// Processor runs the router-selected chunker over every item in a batch,
// bounded by Policy.Concurrency, pre-splitting oversized items before
// chunking.
type Processor struct {
	router *router.Router
	policy Policy
}

func New(r *router.Router, policy Policy) *Processor {
	if policy.Concurrency <= 0 {
		policy.Concurrency = DefaultPolicy().Concurrency
	}
	if policy.BufferSize <= 0 {
		policy.BufferSize = DefaultPolicy().BufferSize
	}
	if policy.MaxContentSize <= 0 {
		policy.MaxContentSize = DefaultPolicy().MaxContentSize
	}
	return &Processor{router: r, policy: policy}
}

type itemOutcome struct {
	index  int
	chunks []chunk.Chunk
	err    error
}

// ProcessBatch runs every item to completion and returns the accumulated
// chunks alongside a Result summary.
func (p *Processor) ProcessBatch(ctx context.Context, items []chunk.SourceItem) ([]chunk.Chunk, Result) {
	return p.ProcessBatchWithProgress(ctx, items, nil)
}

// ProcessBatchWithProgress behaves like ProcessBatch but additionally invokes
// onItem after every item finishes (success or failure), so a caller such as
// the job processor can record progress as the batch runs rather than only
// once at the end.
func (p *Processor) ProcessBatchWithProgress(ctx context.Context, items []chunk.SourceItem, onItem func(done, total int)) ([]chunk.Chunk, Result) {
	outcomes := make([]itemOutcome, len(items))

	done := 0
	for o := range p.runStreaming(ctx, items) {
		outcomes[o.index] = o
		done++
		if onItem != nil {
			onItem(done, len(items))
		}
	}

	result := Result{Total: len(items)}
	var allChunks []chunk.Chunk

	for _, o := range outcomes {
		if o.err != nil {
			result.Failed++
			result.Errors = append(result.Errors, ItemError{ItemID: items[o.index].ID, Err: o.err})
			continue
		}
		result.Processed++
		result.TotalChunks += len(o.chunks)
		allChunks = append(allChunks, o.chunks...)
	}

	return allChunks, result
}

// ProcessBatchStreaming drains chunks into a bounded channel in batches of
// BufferSize and returns it immediately; the channel is closed once every
// item has been processed (or the consumer stops reading). Outcomes are
// delivered to the drain loop as each item finishes, so BufferSize-sized
// batches go out while the rest of the batch is still processing. A slow
// consumer applies real backpressure: the send on out blocks, which in turn
// blocks the drain loop from pulling the next outcome. If ctx is cancelled
// while a send is pending (the caller's way of signaling it has abandoned
// the stream), the flush aborts and processing halts gracefully instead of
// blocking forever.
func (p *Processor) ProcessBatchStreaming(ctx context.Context, items []chunk.SourceItem) (<-chan []chunk.Chunk, <-chan Result) {
	out := make(chan []chunk.Chunk, 1)
	resultCh := make(chan Result, 1)

	go func() {
		defer close(out)
		defer close(resultCh)

		outcomeCh := p.runStreaming(ctx, items)

		result := Result{Total: len(items)}
		batchBuf := make([]chunk.Chunk, 0, p.policy.BufferSize)

		flush := func() bool {
			if len(batchBuf) == 0 {
				return true
			}
			send := make([]chunk.Chunk, len(batchBuf))
			copy(send, batchBuf)
			batchBuf = batchBuf[:0]
			select {
			case out <- send:
				return true
			case <-ctx.Done():
				log.Printf("batch: streaming consumer gone, stopping: %v", ctx.Err())
				return false
			}
		}

		for o := range outcomeCh {
			if o.err != nil {
				result.Failed++
				result.Errors = append(result.Errors, ItemError{ItemID: items[o.index].ID, Err: o.err})
				continue
			}
			result.Processed++
			result.TotalChunks += len(o.chunks)

			for _, c := range o.chunks {
				batchBuf = append(batchBuf, c)
				if len(batchBuf) >= p.policy.BufferSize {
					if !flush() {
						// keep draining so the remaining workers can finish
						go func() {
							for range outcomeCh {
							}
						}()
						resultCh <- result
						return
					}
				}
			}
		}
		flush()
		resultCh <- result
	}()

	return out, resultCh
}

// runStreaming executes the chunker for every item with Policy.Concurrency
// workers, sending each outcome to the returned channel as soon as that item
// finishes rather than waiting for the whole batch. The channel is closed
// once every worker has reported.
func (p *Processor) runStreaming(ctx context.Context, items []chunk.SourceItem) <-chan itemOutcome {
	outcomeCh := make(chan itemOutcome, p.policy.Concurrency)

	sem := make(chan struct{}, p.policy.Concurrency)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(i int, item chunk.SourceItem) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				outcomeCh <- itemOutcome{index: i, err: ctx.Err()}
				return
			}

			chunks, err := p.processItem(item)
			outcomeCh <- itemOutcome{index: i, chunks: chunks, err: err}
		}(i, item)
	}

	go func() {
		wg.Wait()
		close(outcomeCh)
	}()

	return outcomeCh
}

// processItem chunks a single item, pre-splitting it first if its content
// exceeds MaxContentSize. Sub-piece chunks are re-numbered globally so the
// item's ordinals stay dense per item, per the spec's open question.
func (p *Processor) processItem(item chunk.SourceItem) ([]chunk.Chunk, error) {
	if len(item.Content) <= p.policy.MaxContentSize {
		return p.chunkItem(item)
	}

	pieces := splitOversizedContent(item.Content, p.policy.MaxContentSize)

	var all []chunk.Chunk
	ordinal := 0
	for _, piece := range pieces {
		sub := item
		sub.Content = piece.text

		chunks, err := p.chunkItem(sub)
		if err != nil {
			if !p.policy.ContinueOnError {
				return nil, err
			}
			log.Printf("batch: item %s piece at %d failed: %v", item.ID, piece.offset, err)
			continue
		}

		for _, c := range chunks {
			c.SourceItemID = item.ID
			c.StartIndex += piece.offset
			c.EndIndex += piece.offset
			c.Ordinal = ordinal
			ordinal++
			all = append(all, c)
		}
	}

	return all, nil
}

func (p *Processor) chunkItem(item chunk.SourceItem) ([]chunk.Chunk, error) {
	c := p.router.GetChunker(item)
	cfg := p.router.GetConfig(item)
	return c.Chunk(item, cfg)
}

type contentPiece struct {
	text   string
	offset int
}

// splitOversizedContent pre-splits content into pieces on the nearest
// paragraph break before start+maxSize, falling back to a single newline,
// then a hard cut.
func splitOversizedContent(content string, maxSize int) []contentPiece {
	var pieces []contentPiece
	start := 0

	for start < len(content) {
		end := start + maxSize
		if end >= len(content) {
			pieces = append(pieces, contentPiece{text: content[start:], offset: start})
			break
		}

		cut := lastIndexBefore(content, "\n\n", start, end)
		if cut <= start {
			cut = lastIndexBefore(content, "\n", start, end)
		}
		if cut <= start {
			cut = end
		}

		pieces = append(pieces, contentPiece{text: content[start:cut], offset: start})
		start = cut
	}

	return pieces
}

func lastIndexBefore(content, sep string, start, end int) int {
	window := content[start:end]
	idx := strings.LastIndex(window, sep)
	if idx < 0 {
		return -1
	}
	return start + idx + len(sep)
}
