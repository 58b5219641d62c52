package server

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// renderCache keeps the most recent rendering of each served file. An entry
// is only returned while the file content still hashes to the stored sum.
type renderCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	sum  string
	body []byte
}

func newRenderCache() *renderCache {
	return &renderCache{entries: make(map[string]*cacheEntry)}
}

// contentSum returns the hex sha256 of src.
func contentSum(src []byte) string {
	h := sha256.Sum256(src)
	return hex.EncodeToString(h[:])
}

// Get returns the cached body for path if it was rendered from content with sum.
func (c *renderCache) Get(path, sum string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()
	if !ok || entry.sum != sum {
		return nil, false
	}
	return entry.body, true
}

// Set stores body for path, replacing any earlier rendering.
func (c *renderCache) Set(path, sum string, body []byte) {
	c.mu.Lock()
	c.entries[path] = &cacheEntry{sum: sum, body: body}
	c.mu.Unlock()
}

// Invalidate drops the entry for path.
func (c *renderCache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Clear removes all entries from the cache.
func (c *renderCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// Size returns the number of entries in the cache.
func (c *renderCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
