package parser

import (
	"path/filepath"
	"sync"
	"sync/atomic"
)

// Cache memoizes parsed files by path for the lifetime of one run.
//
// Each path is parsed at most once, including under concurrent first access:
// the entry is inserted under the lock and populated through its own
// sync.Once, so later callers wait for and share the first result. Parse
// failures are cached as well.
type Cache struct {
	registry *Registry

	mu      sync.Mutex
	entries map[string]*cacheEntry
	parses  atomic.Int64
}

type cacheEntry struct {
	once sync.Once
	file *SourceFile
	err  error
}

// NewCache creates an empty cache backed by registry.
func NewCache(registry *Registry) *Cache {
	return &Cache{
		registry: registry,
		entries:  make(map[string]*cacheEntry),
	}
}

// Get returns the parsed file for path, parsing it on first access.
func (c *Cache) Get(path string) (*SourceFile, error) {
	key := filepath.Clean(path)

	c.mu.Lock()
	entry, ok := c.entries[key]
	if !ok {
		entry = &cacheEntry{}
		c.entries[key] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		c.parses.Add(1)
		entry.file, entry.err = c.registry.ParseFile(path)
	})
	return entry.file, entry.err
}

// Parses returns how many parses the cache has performed.
func (c *Cache) Parses() int64 {
	return c.parses.Load()
}

// Len returns the number of cached paths.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
