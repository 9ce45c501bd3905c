// Package config loads the chunking service's configuration from a YAML
// file plus CHUNK_-prefixed environment overrides, and exposes the built-in
// chunking profiles behind a hot-reloadable active selection.
package config

import (
	"github.com/cortexchunk/chunker/internal/batch"
	"github.com/cortexchunk/chunker/internal/chunk"
	"github.com/cortexchunk/chunker/internal/sink"
)

// Config is the complete service configuration.
type Config struct {
	Profile  string         `yaml:"profile" mapstructure:"profile"`
	Profiles ProfilesConfig `yaml:"profiles" mapstructure:"profiles"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Sinks    SinksConfig    `yaml:"sinks" mapstructure:"sinks"`
}

// ProfilesConfig holds the named chunk-size/overlap policies a request can
// select by name.
type ProfilesConfig struct {
	Default ProfileConfig `yaml:"default" mapstructure:"default"`
	Small   ProfileConfig `yaml:"small" mapstructure:"small"`
	Large   ProfileConfig `yaml:"large" mapstructure:"large"`
	Code    ProfileConfig `yaml:"code" mapstructure:"code"`
}

// ProfileConfig mirrors chunk.Config's tunables for YAML/env loading.
type ProfileConfig struct {
	ChunkSize           int  `yaml:"chunk_size" mapstructure:"chunk_size"`
	Overlap             int  `yaml:"overlap" mapstructure:"overlap"`
	MinCharsPerSentence int  `yaml:"min_chars_per_sentence" mapstructure:"min_chars_per_sentence"`
	PreserveWhitespace  bool `yaml:"preserve_whitespace" mapstructure:"preserve_whitespace"`
}

func (p ProfileConfig) toChunkConfig() chunk.Config {
	return chunk.Config{
		ChunkSize:           p.ChunkSize,
		Overlap:             p.Overlap,
		MinCharsPerSentence: p.MinCharsPerSentence,
		PreserveWhitespace:  p.PreserveWhitespace,
	}
}

// BatchConfig mirrors batch.Policy for YAML/env loading.
type BatchConfig struct {
	Concurrency     int  `yaml:"concurrency" mapstructure:"concurrency"`
	BufferSize      int  `yaml:"buffer_size" mapstructure:"buffer_size"`
	ContinueOnError bool `yaml:"continue_on_error" mapstructure:"continue_on_error"`
	MaxContentSize  int  `yaml:"max_content_size" mapstructure:"max_content_size"`
}

func (b BatchConfig) toPolicy() batch.Policy {
	return batch.Policy{
		Concurrency:     b.Concurrency,
		BufferSize:      b.BufferSize,
		ContinueOnError: b.ContinueOnError,
		MaxContentSize:  b.MaxContentSize,
	}
}

// SinksConfig configures both downstream sink clients.
type SinksConfig struct {
	Embedding SinkClientConfig `yaml:"embedding" mapstructure:"embedding"`
	Graph     SinkClientConfig `yaml:"graph" mapstructure:"graph"`
}

// SinkClientConfig mirrors sink.ClientConfig for YAML/env loading.
type SinkClientConfig struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	BatchSize int    `yaml:"batch_size" mapstructure:"batch_size"`
}

func (s SinkClientConfig) toClientConfig() sink.ClientConfig {
	return sink.ClientConfig{Enabled: s.Enabled, Endpoint: s.Endpoint, BatchSize: s.BatchSize}
}

// Default returns a configuration with the four built-in profiles.
func Default() *Config {
	return &Config{
		Profile: "default",
		Profiles: ProfilesConfig{
			Default: ProfileConfig{ChunkSize: 512, Overlap: 50, MinCharsPerSentence: 20},
			Small:   ProfileConfig{ChunkSize: 128, Overlap: 16, MinCharsPerSentence: 10},
			Large:   ProfileConfig{ChunkSize: 2048, Overlap: 200, MinCharsPerSentence: 30},
			Code:    ProfileConfig{ChunkSize: 800, Overlap: 80, MinCharsPerSentence: 20},
		},
		Batch: BatchConfig{
			Concurrency:     4,
			BufferSize:      100,
			ContinueOnError: true,
			MaxContentSize:  10 * 1024 * 1024,
		},
		Sinks: SinksConfig{
			Embedding: SinkClientConfig{Enabled: false, Endpoint: "http://localhost:8121/embed/chunks", BatchSize: 50},
			Graph:     SinkClientConfig{Enabled: false, Endpoint: "http://localhost:8122/api/graph/chunks", BatchSize: 50},
		},
	}
}

// ProfileByName returns the chunk.Config for name, falling back to the
// "default" profile for an unrecognized or empty name.
func (c *Config) ProfileByName(name string) chunk.Config {
	switch name {
	case "small":
		return c.Profiles.Small.toChunkConfig()
	case "large":
		return c.Profiles.Large.toChunkConfig()
	case "code":
		return c.Profiles.Code.toChunkConfig()
	default:
		return c.Profiles.Default.toChunkConfig()
	}
}

// ActiveProfile returns the chunk.Config for the configured active profile.
func (c *Config) ActiveProfile() chunk.Config {
	return c.ProfileByName(c.Profile)
}

func (c *Config) BatchPolicy() batch.Policy { return c.Batch.toPolicy() }

func (c *Config) EmbeddingSink() sink.ClientConfig { return c.Sinks.Embedding.toClientConfig() }

func (c *Config) GraphSink() sink.ClientConfig { return c.Sinks.Graph.toClientConfig() }
