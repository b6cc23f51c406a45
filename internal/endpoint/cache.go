package endpoint

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// CacheEntry is one persisted model list: when it was fetched and the model
// IDs in command output order.
type CacheEntry struct {
	FetchedAt time.Time
	Models    []string
}

// Fresh reports whether the entry is still inside the TTL window.
func (e *CacheEntry) Fresh(ttl time.Duration, now time.Time) bool {
	return now.Sub(e.FetchedAt) < ttl
}

// ModelCache persists one plain-text file per endpoint: the first line is
// the fetch Unix timestamp, every following non-empty line one model ID.
// Writes are whole-file overwrites; the cache is advisory data with
// last-writer-wins semantics and no locking.
type ModelCache struct {
	dir string
	now func() time.Time
}

// NewModelCache places the cache under $XDG_CACHE_HOME/camgr (default
// ~/.cache/camgr), creating the directory if needed.
func NewModelCache() (*ModelCache, error) {
	root := os.Getenv("XDG_CACHE_HOME")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate cache directory: %w", err)
		}
		root = filepath.Join(home, ".cache")
	}

	dir := filepath.Join(root, "camgr")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return NewModelCacheAt(dir), nil
}

// NewModelCacheAt uses an explicit cache directory. Tests point this at a
// temp dir.
func NewModelCacheAt(dir string) *ModelCache {
	return &ModelCache{dir: dir, now: time.Now}
}

// Path returns the cache file location for an endpoint.
func (c *ModelCache) Path(endpointName string) string {
	return filepath.Join(c.dir, "models_cache_"+endpointName+".txt")
}

// Read loads the cache entry for an endpoint. A missing file returns
// (nil, nil): that is a plain cache miss. An unreadable or corrupt file
// returns a KindCache error; callers treat it as a miss too, but may want
// to report it.
func (c *ModelCache) Read(endpointName string) (*CacheEntry, error) {
	data, err := os.ReadFile(c.Path(endpointName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &Error{
			Kind:     KindCache,
			Severity: SeverityLow,
			Message:  "failed to read model cache",
			Endpoint: endpointName,
			Err:      err,
		}
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, nil
	}

	stamp, err := strconv.ParseInt(strings.TrimSpace(lines[0]), 10, 64)
	if err != nil {
		return nil, &Error{
			Kind:     KindCache,
			Severity: SeverityLow,
			Message:  "model cache has a non-numeric timestamp",
			Endpoint: endpointName,
			Err:      err,
		}
	}

	entry := &CacheEntry{FetchedAt: time.Unix(stamp, 0)}
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line != "" {
			entry.Models = append(entry.Models, line)
		}
	}
	return entry, nil
}

// Write overwrites the cache entry for an endpoint with the current time.
func (c *ModelCache) Write(endpointName string, modelIDs []string) error {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(c.now().Unix(), 10))
	b.WriteByte('\n')
	for _, id := range modelIDs {
		b.WriteString(id)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(c.Path(endpointName), []byte(b.String()), 0644); err != nil {
		return &Error{
			Kind:     KindCache,
			Severity: SeverityLow,
			Message:  "failed to write model cache",
			Endpoint: endpointName,
			Err:      err,
		}
	}
	return nil
}
