package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (CHUNK_*)
// 2. Config file (.chunk/config.yml or .chunk/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()
	configureViper(v, l.rootDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func configureViper(v *viper.Viper, rootDir string) {
	configDir := filepath.Join(rootDir, ".chunk")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("CHUNK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("profile")
	v.BindEnv("profiles.default.chunk_size")
	v.BindEnv("profiles.default.overlap")
	v.BindEnv("profiles.small.chunk_size")
	v.BindEnv("profiles.small.overlap")
	v.BindEnv("profiles.large.chunk_size")
	v.BindEnv("profiles.large.overlap")
	v.BindEnv("profiles.code.chunk_size")
	v.BindEnv("profiles.code.overlap")
	v.BindEnv("batch.concurrency")
	v.BindEnv("batch.buffer_size")
	v.BindEnv("batch.continue_on_error")
	v.BindEnv("batch.max_content_size")
	v.BindEnv("sinks.embedding.enabled")
	v.BindEnv("sinks.embedding.endpoint")
	v.BindEnv("sinks.graph.enabled")
	v.BindEnv("sinks.graph.endpoint")

	setDefaults(v)
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("profile", d.Profile)

	setProfileDefaults(v, "profiles.default", d.Profiles.Default)
	setProfileDefaults(v, "profiles.small", d.Profiles.Small)
	setProfileDefaults(v, "profiles.large", d.Profiles.Large)
	setProfileDefaults(v, "profiles.code", d.Profiles.Code)

	v.SetDefault("batch.concurrency", d.Batch.Concurrency)
	v.SetDefault("batch.buffer_size", d.Batch.BufferSize)
	v.SetDefault("batch.continue_on_error", d.Batch.ContinueOnError)
	v.SetDefault("batch.max_content_size", d.Batch.MaxContentSize)

	v.SetDefault("sinks.embedding.enabled", d.Sinks.Embedding.Enabled)
	v.SetDefault("sinks.embedding.endpoint", d.Sinks.Embedding.Endpoint)
	v.SetDefault("sinks.embedding.batch_size", d.Sinks.Embedding.BatchSize)
	v.SetDefault("sinks.graph.enabled", d.Sinks.Graph.Enabled)
	v.SetDefault("sinks.graph.endpoint", d.Sinks.Graph.Endpoint)
	v.SetDefault("sinks.graph.batch_size", d.Sinks.Graph.BatchSize)
}

func setProfileDefaults(v *viper.Viper, key string, p ProfileConfig) {
	v.SetDefault(key+".chunk_size", p.ChunkSize)
	v.SetDefault(key+".overlap", p.Overlap)
	v.SetDefault(key+".min_chars_per_sentence", p.MinCharsPerSentence)
	v.SetDefault(key+".preserve_whitespace", p.PreserveWhitespace)
}

// LoadConfig is a convenience function that creates a loader and loads config
// from the current working directory.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
