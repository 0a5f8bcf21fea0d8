package cache

import (
	"sync"
	"time"
)

// item is a cached value with expiration
type item struct {
	value      interface{}
	expiration int64
}

// ReportCache is a simple in-memory cache with expiration, used in front of
// the report read path. Regeneration invalidates the affected report.
type ReportCache struct {
	items map[string]item
	mu    sync.RWMutex
}

// New creates a new cache instance and starts the expiration janitor
func New() *ReportCache {
	cache := &ReportCache{
		items: make(map[string]item),
	}

	// Background janitor to clean expired items
	go func() {
		for {
			time.Sleep(time.Minute)
			cache.DeleteExpired()
		}
	}()

	return cache
}

// Set adds an item to the cache with the given expiration duration
func (c *ReportCache) Set(key string, value interface{}, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = item{
		value:      value,
		expiration: time.Now().Add(duration).UnixNano(),
	}
}

// Get retrieves an item from the cache
// Returns the item and a boolean indicating if the item was found
func (c *ReportCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, found := c.items[key]
	if !found {
		return nil, false
	}

	// Check if the item has expired
	if time.Now().UnixNano() > it.expiration {
		return nil, false
	}

	return it.value, true
}

// Invalidate removes every cached view of a report (plain and rendered)
func (c *ReportCache) Invalidate(reportID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, reportID)
	delete(c.items, reportID+":rendered")
}

// DeleteExpired removes all expired items from the cache
func (c *ReportCache) DeleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixNano()
	for k, v := range c.items {
		if now > v.expiration {
			delete(c.items, k)
		}
	}
}

// Clear removes all items from the cache
func (c *ReportCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]item)
}
