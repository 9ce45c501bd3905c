package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, "default", cfg.Profile)
	assert.Equal(t, 512, cfg.Profiles.Default.ChunkSize)
	assert.Equal(t, 50, cfg.Profiles.Default.Overlap)
	assert.Equal(t, 128, cfg.Profiles.Small.ChunkSize)
	assert.Equal(t, 2048, cfg.Profiles.Large.ChunkSize)
	assert.Equal(t, 800, cfg.Profiles.Code.ChunkSize)

	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, 100, cfg.Batch.BufferSize)
	assert.True(t, cfg.Batch.ContinueOnError)

	assert.False(t, cfg.Sinks.Embedding.Enabled)
	assert.False(t, cfg.Sinks.Graph.Enabled)

	require.NoError(t, Validate(cfg))
}

func TestLoadConfig_UsesDefaultsWhenNoFileExists(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfigFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Profile)
	assert.Equal(t, 512, cfg.Profiles.Default.ChunkSize)
}

func TestLoadConfig_LoadsFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".chunk"), 0o755))

	yaml := `
profile: large
profiles:
  large:
    chunk_size: 4096
    overlap: 400
batch:
  concurrency: 8
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".chunk", "config.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadConfigFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "large", cfg.Profile)
	assert.Equal(t, 4096, cfg.Profiles.Large.ChunkSize)
	assert.Equal(t, 400, cfg.Profiles.Large.Overlap)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".chunk"), 0o755))

	yaml := `profile: small`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".chunk", "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("CHUNK_PROFILE", "code")

	cfg, err := LoadConfigFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "code", cfg.Profile)
}

func TestLoadConfig_ReturnsErrorForInvalidConfiguration(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".chunk"), 0o755))

	yaml := `
profiles:
  default:
    chunk_size: -1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".chunk", "config.yaml"), []byte(yaml), 0o644))

	_, err := LoadConfigFromDir(dir)
	require.Error(t, err)
}

func TestValidate_AcceptsValidConfiguration(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestValidate_RejectsNonPositiveChunkSize(t *testing.T) {
	cfg := Default()
	cfg.Profiles.Default.ChunkSize = 0
	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidChunkSize)
}

func TestValidate_RejectsNegativeOverlap(t *testing.T) {
	cfg := Default()
	cfg.Profiles.Default.Overlap = -1
	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOverlap)
}

func TestValidate_RejectsOverlapGreaterThanChunkSize(t *testing.T) {
	cfg := Default()
	cfg.Profiles.Default.Overlap = cfg.Profiles.Default.ChunkSize + 1
	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOverlap)
}

func TestValidate_RejectsNonPositiveConcurrency(t *testing.T) {
	cfg := Default()
	cfg.Batch.Concurrency = 0
	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConcurrency)
}

func TestValidate_RejectsEnabledSinkWithoutEndpoint(t *testing.T) {
	cfg := Default()
	cfg.Sinks.Embedding.Enabled = true
	cfg.Sinks.Embedding.Endpoint = ""
	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyEndpoint)
}

func TestValidate_ReturnsMultipleErrorsForMultipleInvalidFields(t *testing.T) {
	cfg := Default()
	cfg.Profiles.Default.ChunkSize = 0
	cfg.Batch.Concurrency = 0
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestProfileByName_FallsBackToDefaultForUnknownName(t *testing.T) {
	cfg := Default()
	got := cfg.ProfileByName("nonexistent")
	assert.Equal(t, cfg.Profiles.Default.ChunkSize, got.ChunkSize)
}

func TestActiveProfile_ReflectsConfiguredProfile(t *testing.T) {
	cfg := Default()
	cfg.Profile = "small"
	got := cfg.ActiveProfile()
	assert.Equal(t, cfg.Profiles.Small.ChunkSize, got.ChunkSize)
}
