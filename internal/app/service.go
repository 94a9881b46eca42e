package app

import (
	"context"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"

	"depfresh/internal/adapters"
	"depfresh/internal/checkers"
	"depfresh/internal/ports"
)

const (
	defaultCacheTTL = 6 * time.Hour
	defaultWorkers  = 4
)

// Config carries the resolved runtime configuration for one invocation.
type Config struct {
	CachePath      string
	CacheTTL       time.Duration
	HTTPTimeoutSec int
	Workers        int
	NpmEndpoint    string
	CratesEndpoint string
	PypiEndpoint   string
}

// Service wires the checker registry, the registry resolver, and the
// decision engine into the Check use case.
type Service struct {
	Checkers checkers.Registry
	Resolver *Resolver
	Workers  int
	Clock    func() time.Time
}

// NewService builds the production wiring: HTTP registries behind a
// file-backed cache.
func NewService(ctx context.Context, cfg Config) Service {
	assert.NotEmpty(ctx, cfg.CachePath, "cache path must be set")
	source := adapters.NewHTTPRegistryAdapter(cfg.NpmEndpoint, cfg.CratesEndpoint, cfg.PypiEndpoint, cfg.HTTPTimeoutSec)
	cache := adapters.NewFileCacheAdapter(cfg.CachePath)
	return NewServiceWith(checkers.DefaultRegistry(), source, cache, cfg)
}

// NewServiceWith builds a service from explicit collaborators; tests
// substitute fakes here.
func NewServiceWith(registry checkers.Registry, source ports.VersionSource, cache ports.RegistryCache, cfg Config) Service {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	clock := time.Now
	return Service{
		Checkers: registry,
		Resolver: NewResolver(source, cache, cfg.CacheTTL, clock),
		Workers:  workers,
		Clock:    clock,
	}
}
