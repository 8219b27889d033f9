// Package cache provides the key-value cache used to memoize split
// calculations. The default is an in-process bounded FIFO cache; a
// Redis-backed implementation is available for sharing computed results
// across processes.
package cache

import "sync"

// Cache is a minimal string key-value cache.
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// FIFOCache is an in-memory cache bounded to a fixed number of entries.
// Once full, the oldest entry by insertion order is evicted (plain FIFO,
// not LRU: reads do not refresh an entry's position).
//
// One FIFOCache is shared by all wizard sessions in a process, so it is
// safe for concurrent use.
type FIFOCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]string
	order    []string
}

// DefaultCapacity bounds the memoization cache used by the calculator.
const DefaultCapacity = 100

// NewFIFOCache creates a FIFOCache holding at most capacity entries.
// A capacity <= 0 falls back to DefaultCapacity.
func NewFIFOCache(capacity int) *FIFOCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &FIFOCache{
		capacity: capacity,
		entries:  make(map[string]string, capacity),
	}
}

// Get returns the cached value for key, if present.
func (c *FIFOCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.entries[key]
	return val, ok
}

// Set stores value under key, evicting the oldest entry if the cache is
// full. Overwriting an existing key does not change its insertion slot.
func (c *FIFOCache) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		c.entries[key] = value
		return nil
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = value
	c.order = append(c.order, key)
	return nil
}

// Len returns the number of cached entries.
func (c *FIFOCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
