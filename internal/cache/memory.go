package cache

import (
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache memoizes embedding vectors for the lifetime of the process
type MemoryCache struct {
	store  *gocache.Cache
	hits   atomic.Int64
	misses atomic.Int64
}

// Stats is a snapshot of cache usage
type Stats struct {
	Entries int   `json:"entries"` // Expired entries count until the next cleanup
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// NewMemoryCache creates a cache whose entries live for defaultTTL
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get returns the stored bytes; a non-[]byte entry is a miss
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.store.Get(key); found {
		if data, ok := val.([]byte); ok {
			c.hits.Add(1)
			return data, true
		}
	}
	c.misses.Add(1)
	return nil, false
}

// Set stores value; ttl 0 uses the default TTL
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	c.store.Set(key, value, ttl)
	return nil
}

// Stats returns the current usage counters
func (c *MemoryCache) Stats() Stats {
	return Stats{
		Entries: c.store.ItemCount(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
