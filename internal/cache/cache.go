// Package cache remembers which file contents are already canonically
// formatted. Repeated runs and watch mode use it to skip files whose
// bytes are known clean instead of re-formatting them.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const indexVersion = "1"

// maxEntryAge bounds how long a clean mark survives between runs.
const maxEntryAge = 7 * 24 * time.Hour

// Cache is a content-hash index of known-formatted inputs. Safe for
// concurrent use.
type Cache struct {
	mu      sync.RWMutex
	path    string // index file, empty for memory-only
	entries map[string]entry
	hits    int64
	misses  int64
}

type entry struct {
	Checked time.Time `json:"checked"`
}

type index struct {
	Version string           `json:"version"`
	Entries map[string]entry `json:"entries"`
	Updated time.Time        `json:"updated"`
}

// Stats reports cache effectiveness for one process lifetime.
type Stats struct {
	Hits   int64
	Misses int64
}

// Key derives the cache key for file content formatted at the given
// indent width. The width is part of the key so a config change
// invalidates every mark.
func Key(content []byte, indentWidth int) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d\n", indentWidth)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// New creates a cache backed by the index file at path. A missing or
// unreadable index starts empty; a version mismatch discards it. Pass an
// empty path for a memory-only cache.
func New(path string) *Cache {
	c := &Cache{
		path:    path,
		entries: make(map[string]entry),
	}
	if path == "" {
		return c
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	var idx index
	if err := json.Unmarshal(data, &idx); err != nil || idx.Version != indexVersion {
		return c
	}

	cutoff := time.Now().Add(-maxEntryAge)
	for key, e := range idx.Entries {
		if e.Checked.After(cutoff) {
			c.entries[key] = e
		}
	}
	return c
}

// DefaultPath returns the index location under the user cache directory.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "dioxus", "fmt.json"), nil
}

// Clean reports whether the key is marked as canonically formatted.
func (c *Cache) Clean(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.hits++
		return true
	}
	c.misses++
	return false
}

// MarkClean records that the key's content is canonically formatted.
func (c *Cache) MarkClean(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{Checked: time.Now()}
}

// Stats returns hit/miss counters for this process.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Hits: c.hits, Misses: c.misses}
}

// Len returns the number of marked entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Save persists the index. Memory-only caches save nothing.
func (c *Cache) Save() error {
	if c.path == "" {
		return nil
	}

	c.mu.RLock()
	idx := index{
		Version: indexVersion,
		Entries: make(map[string]entry, len(c.entries)),
		Updated: time.Now(),
	}
	cutoff := time.Now().Add(-maxEntryAge)
	for key, e := range c.entries {
		if e.Checked.After(cutoff) {
			idx.Entries[key] = e
		}
	}
	c.mu.RUnlock()

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0644)
}
