package adapters

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"depfresh/internal/ports"
	"depfresh/internal/types"
)

// FileCacheAdapter persists registry lookups in a YAML file shared by
// concurrent invocations. Reads memoize the file for the lifetime of
// one run; writes merge against the latest on-disk state so each
// process overlays only the keys it resolved.
type FileCacheAdapter struct {
	Path   string
	mu     sync.Mutex
	cached types.CacheFile
	loaded bool
}

func NewFileCacheAdapter(path string) *FileCacheAdapter {
	return &FileCacheAdapter{Path: path}
}

func (a *FileCacheAdapter) Get(eco types.Ecosystem, name string, ttl time.Duration, now time.Time) (types.CacheEntry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.loaded {
		a.cached = readCacheFile(a.Path)
		a.loaded = true
	}
	entry, ok := a.cached.Entries[types.CacheKey(eco, name)]
	if !ok || !entry.Fresh(ttl, now) {
		return types.CacheEntry{}, false
	}
	return entry, true
}

// Put overlays the resolved entries onto the current file contents and
// writes atomically via a temp file rename. Another process writing
// other keys concurrently keeps its entries; the last write per key
// wins.
func (a *FileCacheAdapter) Put(entries map[string]types.CacheEntry) error {
	if len(entries) == 0 {
		return nil
	}
	merged := readCacheFile(a.Path)
	if merged.Entries == nil {
		merged.Entries = map[string]types.CacheEntry{}
	}
	for key, entry := range entries {
		merged.Entries[key] = entry
	}
	data, err := yaml.Marshal(merged)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to marshal registry cache").
			WithCause(err)
	}
	dir := filepath.Dir(a.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create cache directory").
			WithCause(err)
	}
	tmp, err := os.CreateTemp(dir, ".registry-cache-*")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create cache temp file").
			WithCause(err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write registry cache").
			WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write registry cache").
			WithCause(err)
	}
	if err := os.Rename(tmpName, a.Path); err != nil {
		os.Remove(tmpName)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to replace registry cache").
			WithCause(err)
	}
	return nil
}

// Entries returns every persisted entry, fresh or stale.
func (a *FileCacheAdapter) Entries() map[string]types.CacheEntry {
	file := readCacheFile(a.Path)
	if file.Entries == nil {
		return map[string]types.CacheEntry{}
	}
	return file.Entries
}

// Clear truncates the cache file.
func (a *FileCacheAdapter) Clear() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := os.Remove(a.Path); err != nil && !os.IsNotExist(err) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to clear registry cache").
			WithCause(err)
	}
	a.cached = types.CacheFile{}
	a.loaded = false
	return nil
}

// readCacheFile loads the file, treating a missing or corrupt cache as
// empty. A stale-but-parseable cache is preferred over none.
func readCacheFile(path string) types.CacheFile {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.CacheFile{Entries: map[string]types.CacheEntry{}}
	}
	var file types.CacheFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return types.CacheFile{Entries: map[string]types.CacheEntry{}}
	}
	if file.Entries == nil {
		file.Entries = map[string]types.CacheEntry{}
	}
	return file
}

var _ ports.RegistryCache = (*FileCacheAdapter)(nil)
