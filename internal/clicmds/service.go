package clicmds

import (
	"fmt"

	"github.com/cortexchunk/chunker/internal/batch"
	chunkpkg "github.com/cortexchunk/chunker/internal/chunk"
	"github.com/cortexchunk/chunker/internal/config"
	"github.com/cortexchunk/chunker/internal/router"
	"github.com/cortexchunk/chunker/internal/sink"
	"github.com/cortexchunk/chunker/internal/tokencount"
)

// service bundles the wired-together pipeline a CLI command needs: a
// router backed by the full chunker registry, and a batch processor
// configured from the active profile and policy.
type service struct {
	cfg       *config.Config
	router    *router.Router
	processor *batch.Processor
	sinks     *sink.Clients
}

func newService(profileOverride string) (*service, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if profileOverride != "" {
		cfg.Profile = profileOverride
	}

	counter, err := tokencount.Default()
	if err != nil {
		return nil, fmt.Errorf("build token counter: %w", err)
	}

	registry := chunkpkg.NewRegistry(counter)
	r := router.New(registry, cfg.ActiveProfile())
	p := batch.New(r, cfg.BatchPolicy())
	clients := sink.NewClients(cfg.EmbeddingSink(), cfg.GraphSink())

	return &service{cfg: cfg, router: r, processor: p, sinks: clients}, nil
}
