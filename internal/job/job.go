// Package job implements the job lifecycle state machine and the
// RWMutex-guarded in-memory store that backs the batch submission API.
package job

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cortexchunk/chunker/internal/batch"
	"github.com/cortexchunk/chunker/internal/chunk"
	"github.com/cortexchunk/chunker/internal/sink"
)

// Status is the closed set of job lifecycle states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job tracks one batch submission end to end.
type Job struct {
	ID             string
	Status         Status
	SubmittedAt    time.Time
	StartedAt      *time.Time
	FinishedAt     *time.Time
	TotalItems     int
	ProcessedItems int
	Result         batch.Result
	Chunks         []chunk.Chunk
	Err            error
}

// snapshot returns a value copy safe to hand to callers outside the lock.
func (j *Job) snapshot() Job {
	cp := *j
	if j.Chunks != nil {
		cp.Chunks = append([]chunk.Chunk(nil), j.Chunks...)
	}
	return cp
}

// gcAfter is how long a completed/failed job is retained before GC sweeps it.
const gcAfter = time.Hour

// Store is the RWMutex-guarded job map: many concurrent readers (status
// polling) against a single writer per job transition.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewStore() *Store {
	return &Store{jobs: make(map[string]*Job)}
}

// Create registers a new pending job and returns its ID.
func (s *Store) Create() string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[id] = &Job{ID: id, Status: StatusPending, SubmittedAt: time.Now()}
	return id
}

// Get returns a snapshot of the job, or false if it is unknown (never
// existed, or has been garbage collected).
func (s *Store) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return j.snapshot(), true
}

func (s *Store) transition(id string, mutate func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return
	}
	mutate(j)
}

// GC deletes completed/failed jobs whose FinishedAt is older than gcAfter.
// Intended to run periodically from a background goroutine.
func (s *Store) GC(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, j := range s.jobs {
		if (j.Status == StatusCompleted || j.Status == StatusFailed) && j.FinishedAt != nil {
			if now.Sub(*j.FinishedAt) > gcAfter {
				delete(s.jobs, id)
				removed++
			}
		}
	}
	return removed
}

// RunGCLoop runs GC on interval until ctx is cancelled.
func (s *Store) RunGCLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			if n := s.GC(t); n > 0 {
				log.Printf("job: garbage collected %d finished job(s)", n)
			}
		}
	}
}

// Processor drives a job through chunking and fans the resulting chunks out
// to the configured sink clients.
type Processor struct {
	store   *Store
	batcher *batch.Processor
	sinks   *sink.Clients
}

func NewProcessor(store *Store, batcher *batch.Processor, sinks *sink.Clients) *Processor {
	return &Processor{store: store, batcher: batcher, sinks: sinks}
}

// Run executes a job synchronously: pending -> running -> {completed, failed}.
// A panic inside the batch processor is recovered and converted into a
// failed job rather than propagating, matching graceful-degradation. Sink
// dispatch happens before the job is marked completed, so a job only reads
// as done once its chunks have been handed to the configured sinks.
func (p *Processor) Run(ctx context.Context, id string, items []chunk.SourceItem) {
	now := time.Now()
	p.transition(id, func(j *Job) {
		j.Status = StatusRunning
		j.StartedAt = &now
		j.TotalItems = len(items)
	})

	chunks, result, err := p.process(ctx, id, items)

	finished := time.Now()
	if err != nil {
		p.transition(id, func(j *Job) {
			j.Status = StatusFailed
			j.Err = err
			j.FinishedAt = &finished
		})
		return
	}

	if p.sinks != nil {
		p.sinks.Dispatch(ctx, chunks)
	}

	p.transition(id, func(j *Job) {
		j.Status = StatusCompleted
		j.Chunks = chunks
		j.Result = result
		j.FinishedAt = &finished
	})
}

func (p *Processor) process(ctx context.Context, id string, items []chunk.SourceItem) (chunks []chunk.Chunk, result batch.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job processor panic: %v", r)
		}
	}()
	chunks, result = p.batcher.ProcessBatchWithProgress(ctx, items, func(done, total int) {
		p.transition(id, func(j *Job) { j.ProcessedItems = done })
	})
	return chunks, result, nil
}

func (p *Processor) transition(id string, mutate func(*Job)) {
	p.store.transition(id, mutate)
}
