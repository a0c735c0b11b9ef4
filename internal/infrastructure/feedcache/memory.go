package feedcache

import (
	"context"
	"sync"
	"time"
)

type MemoryCache struct {
	entries   map[string]cachedEntry
	retention time.Duration
	now       func() time.Time
	mu        sync.RWMutex
}

type cachedEntry struct {
	value    []byte
	storedAt time.Time
}

// NewMemoryCache keeps entries for at most retention, whatever maxAge callers ask for.
func NewMemoryCache(retention time.Duration) *MemoryCache {
	return &MemoryCache{
		entries:   make(map[string]cachedEntry),
		retention: retention,
		now:       time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string, maxAge time.Duration) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, exists := c.entries[key]
	if !exists || maxAge <= 0 {
		return nil, false
	}
	age := c.now().Sub(cached.storedAt)
	if age > maxAge || age > c.retention {
		return nil, false
	}
	return cached.value, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = cachedEntry{
		value:    append([]byte(nil), value...),
		storedAt: now,
	}
	c.evictLocked(now)
}

func (c *MemoryCache) evictLocked(now time.Time) {
	for key, cached := range c.entries {
		if now.Sub(cached.storedAt) > c.retention {
			delete(c.entries, key)
		}
	}
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
