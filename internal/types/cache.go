package types

import "time"

// CacheEntry is one persisted registry lookup result.
type CacheEntry struct {
	Version   string    `yaml:"version"`
	FetchedAt time.Time `yaml:"fetched_at"`
}

// Fresh reports whether the entry is still inside the TTL window.
func (e CacheEntry) Fresh(ttl time.Duration, now time.Time) bool {
	if e.Version == "" {
		return false
	}
	return now.Sub(e.FetchedAt) < ttl
}

// CacheFile is the on-disk registry cache, keyed by "ecosystem/name".
// Writers overlay only the keys they resolved; last write per key wins.
type CacheFile struct {
	Entries map[string]CacheEntry `yaml:"entries"`
}

// CacheKey builds the canonical cache key for a package.
func CacheKey(eco Ecosystem, name string) string {
	return string(eco) + "/" + name
}
