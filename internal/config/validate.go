package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidChunkSize indicates invalid chunk size configuration
	ErrInvalidChunkSize = errors.New("invalid chunk size")

	// ErrInvalidOverlap indicates invalid overlap configuration
	ErrInvalidOverlap = errors.New("invalid overlap")

	// ErrInvalidConcurrency indicates invalid batch concurrency
	ErrInvalidConcurrency = errors.New("invalid batch concurrency")

	// ErrEmptyEndpoint indicates a sink is enabled with no endpoint set
	ErrEmptyEndpoint = errors.New("empty sink endpoint")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	for name, p := range map[string]ProfileConfig{
		"default": cfg.Profiles.Default,
		"small":   cfg.Profiles.Small,
		"large":   cfg.Profiles.Large,
		"code":    cfg.Profiles.Code,
	} {
		if err := validateProfile(name, p); err != nil {
			errs = append(errs, err)
		}
	}

	if cfg.Batch.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("%w: must be positive, got %d", ErrInvalidConcurrency, cfg.Batch.Concurrency))
	}

	for name, s := range map[string]SinkClientConfig{"embedding": cfg.Sinks.Embedding, "graph": cfg.Sinks.Graph} {
		if s.Enabled && strings.TrimSpace(s.Endpoint) == "" {
			errs = append(errs, fmt.Errorf("%w: %s sink is enabled with no endpoint", ErrEmptyEndpoint, name))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateProfile(name string, p ProfileConfig) error {
	var errs []error

	if p.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: profile %q chunk_size must be positive, got %d", ErrInvalidChunkSize, name, p.ChunkSize))
	}
	if p.Overlap < 0 {
		errs = append(errs, fmt.Errorf("%w: profile %q overlap cannot be negative, got %d", ErrInvalidOverlap, name, p.Overlap))
	}
	if p.ChunkSize > 0 && p.Overlap >= p.ChunkSize {
		errs = append(errs, fmt.Errorf("%w: profile %q overlap (%d) should be less than chunk_size (%d)", ErrInvalidOverlap, name, p.Overlap, p.ChunkSize))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
