package app

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"depfresh/internal/ports"
	"depfresh/internal/types"
)

// Resolver answers "latest published version" lookups cache-first. Live
// fetches are de-duplicated per (ecosystem, name) for the lifetime of
// the invocation: concurrent callers share one flight, later callers
// read the memoized result. Successful fetches are persisted in a
// single flush at the end of the run; failures never touch the cache.
type Resolver struct {
	Source ports.VersionSource
	Cache  ports.RegistryCache
	TTL    time.Duration
	Clock  func() time.Time

	group    singleflight.Group
	mu       sync.Mutex
	memo     map[string]resolveResult
	resolved map[string]types.CacheEntry
}

type resolveResult struct {
	version string
	err     error
}

func NewResolver(source ports.VersionSource, cache ports.RegistryCache, ttl time.Duration, clock func() time.Time) *Resolver {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &Resolver{
		Source:   source,
		Cache:    cache,
		TTL:      ttl,
		Clock:    clock,
		memo:     map[string]resolveResult{},
		resolved: map[string]types.CacheEntry{},
	}
}

// Latest returns the latest published version for the package,
// consulting the persistent cache before the network.
func (r *Resolver) Latest(ctx context.Context, eco types.Ecosystem, name string) (string, error) {
	key := types.CacheKey(eco, name)
	r.mu.Lock()
	if result, ok := r.memo[key]; ok {
		r.mu.Unlock()
		return result.version, result.err
	}
	r.mu.Unlock()

	value, err, _ := r.group.Do(key, func() (interface{}, error) {
		now := r.Clock()
		if entry, ok := r.Cache.Get(eco, name, r.TTL, now); ok {
			return entry.Version, nil
		}
		version, fetchErr := r.Source.Latest(ctx, eco, name)
		if fetchErr != nil {
			return "", fetchErr
		}
		r.mu.Lock()
		r.resolved[key] = types.CacheEntry{Version: version, FetchedAt: now}
		r.mu.Unlock()
		return version, nil
	})
	version, _ := value.(string)

	r.mu.Lock()
	r.memo[key] = resolveResult{version: version, err: err}
	r.mu.Unlock()
	return version, err
}

// Flush persists every entry resolved live during this run. Cached
// hits are not rewritten, so their original fetch timestamps survive.
func (r *Resolver) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.resolved) == 0 {
		return nil
	}
	return r.Cache.Put(r.resolved)
}
