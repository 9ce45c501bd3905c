// Package sink implements the two downstream sink clients (embedding and
// graph) that finished chunks are fanned out to, independently of each
// other and of job success/failure.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/cortexchunk/chunker/internal/chunk"
)

const (
	embedTimeout = 30 * time.Second
	graphTimeout = 60 * time.Second

	defaultBatchSize = 50
)

// ClientConfig configures one sink client.
type ClientConfig struct {
	Enabled   bool
	Endpoint  string
	BatchSize int
}

func defaultBatch(size int) int {
	if size <= 0 {
		return defaultBatchSize
	}
	return size
}

// Client is satisfied by both sink implementations.
type Client interface {
	Send(ctx context.Context, chunks []chunk.Chunk) error
}

// EmbeddingClient posts batches of chunks to an embedding service for vector
// generation. A disabled client is a no-op.
type EmbeddingClient struct {
	cfg    ClientConfig
	http   *http.Client
}

func NewEmbeddingClient(cfg ClientConfig) *EmbeddingClient {
	return &EmbeddingClient{cfg: cfg, http: &http.Client{Timeout: embedTimeout}}
}

type embedSinkRequest struct {
	Chunks []embedSinkChunk `json:"chunks"`
}

type embedSinkChunk struct {
	ID           string              `json:"id"`
	SourceItemID string              `json:"source_item_id"`
	SourceID     string              `json:"source_id"`
	Content      string              `json:"content"`
	Metadata     chunk.ChunkMetadata `json:"metadata"`
}

func (c *EmbeddingClient) Send(ctx context.Context, chunks []chunk.Chunk) error {
	if !c.cfg.Enabled {
		return nil
	}

	batchSize := defaultBatch(c.cfg.BatchSize)
	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := c.sendBatch(ctx, chunks[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (c *EmbeddingClient) sendBatch(ctx context.Context, batch []chunk.Chunk) error {
	payload := embedSinkRequest{Chunks: make([]embedSinkChunk, len(batch))}
	for i, ch := range batch {
		payload.Chunks[i] = embedSinkChunk{
			ID:           ch.ID,
			SourceItemID: ch.SourceItemID,
			SourceID:     ch.SourceGroupID,
			Content:      ch.Content,
			Metadata:     ch.Metadata,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("embedding sink: marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("embedding sink: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("embedding sink: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("embedding sink: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// GraphClient posts chunk/entity relationships to a graph ingestion service.
// A disabled client is a no-op.
type GraphClient struct {
	cfg  ClientConfig
	http *http.Client
}

func NewGraphClient(cfg ClientConfig) *GraphClient {
	return &GraphClient{cfg: cfg, http: &http.Client{Timeout: graphTimeout}}
}

type graphSinkRequest struct {
	Chunks           []graphSinkChunk `json:"chunks"`
	ExtractEntities  bool             `json:"extract_entities"`
	CreateCrossLinks bool             `json:"create_cross_links"`
}

type graphSinkChunk struct {
	ID          string              `json:"id"`
	Content     string              `json:"content"`
	SourceKind  string              `json:"source_kind"`
	SourceType  string              `json:"source_type"`
	SourceID    string              `json:"source_id"`
	FilePath    string              `json:"file_path,omitempty"`
	RepoName    string              `json:"repo_name,omitempty"`
	Language    string              `json:"language,omitempty"`
	HeadingPath string              `json:"heading_path,omitempty"`
	OwnerID     string              `json:"owner_id,omitempty"`
	Metadata    chunk.ChunkMetadata `json:"metadata"`
}

// graphChunkFromMetadata fills the fields the graph service expects but that
// this engine's ChunkMetadata does not carry as first-class fields, reading
// them out of Extra the way the original relation-graph client pulled them
// out of its serialized metadata blob.
func graphChunkFromMetadata(ch chunk.Chunk) graphSinkChunk {
	sourceType := extraString(ch.Metadata.Extra, "source_type")
	if sourceType == "" {
		sourceType = "unknown"
	}

	return graphSinkChunk{
		ID:          ch.ID,
		Content:     ch.Content,
		SourceKind:  string(ch.SourceKind),
		SourceType:  sourceType,
		SourceID:    ch.SourceGroupID,
		FilePath:    ch.Metadata.Path,
		RepoName:    extraString(ch.Metadata.Extra, "repo_name"),
		Language:    ch.Metadata.Language,
		HeadingPath: extraString(ch.Metadata.Extra, "heading_path"),
		OwnerID:     firstExtraString(ch.Metadata.Extra, "owner_id", "tenant_id"),
		Metadata:    ch.Metadata,
	}
}

func extraString(extra map[string]any, key string) string {
	s, _ := extra[key].(string)
	return s
}

func firstExtraString(extra map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := extraString(extra, k); s != "" {
			return s
		}
	}
	return ""
}

func (c *GraphClient) Send(ctx context.Context, chunks []chunk.Chunk) error {
	if !c.cfg.Enabled {
		return nil
	}

	batchSize := defaultBatch(c.cfg.BatchSize)
	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := c.sendBatch(ctx, chunks[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (c *GraphClient) sendBatch(ctx context.Context, batch []chunk.Chunk) error {
	payload := graphSinkRequest{
		Chunks:           make([]graphSinkChunk, len(batch)),
		ExtractEntities:  true,
		CreateCrossLinks: true,
	}
	for i, ch := range batch {
		payload.Chunks[i] = graphChunkFromMetadata(ch)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("graph sink: marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("graph sink: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("graph sink: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("graph sink: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Clients bundles both sink clients and dispatches to them independently and
// in parallel: a failure in one never blocks or cancels the other.
type Clients struct {
	Embedding *EmbeddingClient
	Graph     *GraphClient
}

func NewClients(embedding ClientConfig, graphCfg ClientConfig) *Clients {
	return &Clients{
		Embedding: NewEmbeddingClient(embedding),
		Graph:     NewGraphClient(graphCfg),
	}
}

// Dispatch fans chunks out to both sinks concurrently. Errors are logged,
// not returned: sink delivery is best-effort and never fails the job that
// produced the chunks.
func (c *Clients) Dispatch(ctx context.Context, chunks []chunk.Chunk) {
	if len(chunks) == 0 {
		return
	}

	done := make(chan struct{}, 2)

	go func() {
		defer func() { done <- struct{}{} }()
		if err := c.Embedding.Send(ctx, chunks); err != nil {
			log.Printf("sink: embedding dispatch failed: %v", err)
		}
	}()

	go func() {
		defer func() { done <- struct{}{} }()
		if err := c.Graph.Send(ctx, chunks); err != nil {
			log.Printf("sink: graph dispatch failed: %v", err)
		}
	}()

	<-done
	<-done
}
