package cache

import (
	"sync"
	"time"
)

type memoryEntry struct {
	value   string
	expires time.Time // zero: never
}

func (e memoryEntry) live(now time.Time) bool {
	return e.expires.IsZero() || now.Before(e.expires)
}

// InMemoryCache is a process-local cache safe for concurrent use. Entries
// leave only by expiry, when a TTL is configured, or by Clear.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewInMemoryCache creates an in-memory cache. A ttlSeconds of 0 or less
// keeps entries until Clear.
func NewInMemoryCache(ttlSeconds int) *InMemoryCache {
	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return &InMemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the live value stored under key. An expired entry is removed
// and reported as a miss.
func (c *InMemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}

	now := c.now()
	if e.live(now) {
		return e.value, true
	}

	c.mu.Lock()
	// A concurrent Set may have replaced the entry.
	if cur, ok := c.entries[key]; ok && !cur.live(now) {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	return "", false
}

// Set stores value under key, restarting its TTL.
func (c *InMemoryCache) Set(key, value string) error {
	e := memoryEntry{value: value}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones not yet removed
// included.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every entry.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
}

// Entries returns a snapshot of the live entries, for export.
func (c *InMemoryCache) Entries() map[string]string {
	now := c.now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]string, len(c.entries))
	for key, e := range c.entries {
		if e.live(now) {
			out[key] = e.value
		}
	}
	return out
}

var _ Cache = (*InMemoryCache)(nil)
