package ports

import (
	"time"

	"depfresh/internal/types"
)

// RegistryCache is the persistent (ecosystem, name) -> latest version
// store shared between invocations. Writers overlay only the keys they
// resolved; a failed fetch must never erase a prior valid entry.
type RegistryCache interface {
	Get(eco types.Ecosystem, name string, ttl time.Duration, now time.Time) (types.CacheEntry, bool)
	Put(entries map[string]types.CacheEntry) error
}
