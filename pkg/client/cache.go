package client

import (
	"sync"
	"time"
)

// Staleness windows per query family. Taxonomy data barely changes; chat
// lists go stale quickly.
const (
	ProfileStaleness       = 5 * time.Minute
	MetadataStaleness      = 5 * time.Minute
	PostsStaleness         = 30 * time.Second
	ConversationsStaleness = 30 * time.Second
	MessagesStaleness      = 30 * time.Second
	NotificationsStaleness = 30 * time.Second
	BookmarksStaleness     = time.Minute
)

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// queryCache is a key-addressed response cache with per-entry TTLs.
type queryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func newQueryCache() *queryCache {
	return &queryCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// get returns the cached bytes for key when they are still fresh.
func (c *queryCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.data, true
}

func (c *queryCache) set(key string, data []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{data: data, expiresAt: c.now().Add(ttl)}
}

// invalidate removes entries whose key starts with any of the prefixes.
func (c *queryCache) invalidate(prefixes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		for _, prefix := range prefixes {
			if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
				delete(c.entries, key)
				break
			}
		}
	}
}
