// Package inventory proxies the provider's inventory API behind a keyed TTL
// cache and records items the provider reports as not tradable.
package inventory

import (
	"encoding/json"
	"sync"
	"time"
)

type cacheEntry struct {
	data      json.RawMessage
	fetchedAt time.Time
}

// Cache holds one inventory document per steam id for a fixed TTL
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

// NewCache creates an empty Cache
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached document for steamID if it has not expired
func (c *Cache) Get(steamID string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[steamID]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.fetchedAt) >= c.ttl {
		delete(c.entries, steamID)
		return nil, false
	}
	return entry.data, true
}

// Put stores data for steamID, replacing any previous entry
func (c *Cache) Put(steamID string, data json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[steamID] = cacheEntry{data: data, fetchedAt: c.now()}
}

// Invalidate drops the entry for steamID; reports whether one was present
func (c *Cache) Invalidate(steamID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[steamID]
	delete(c.entries, steamID)
	return ok
}
