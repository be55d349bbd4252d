// Package cache provides an in-memory LRU cache with TTL, used to reuse
// provider responses when the same root host is requested more than once in a run.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache defines the interface for a keyed cache of V.
type Cache[V any] interface {
	// Get retrieves a value. Returns the value and true if found and not expired.
	Get(key string) (V, bool)

	// Set stores a value with a TTL. If ttl is 0, the item never expires.
	Set(key string, value V, ttl time.Duration)

	// Delete removes a value.
	Delete(key string)

	// Len returns the current number of items.
	Len() int
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
	element   *list.Element
}

func (e *entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCache implements Cache with LRU eviction once capacity is reached.
type MemoryCache[V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*entry[V]
	lruList  *list.List
}

// NewMemoryCache creates a new in-memory cache with the specified capacity.
//
// Example:
//
//	bodies := cache.NewMemoryCache[[]byte](512)
func NewMemoryCache[V any](capacity int) *MemoryCache[V] {
	if capacity <= 0 {
		capacity = 100
	}

	return &MemoryCache[V]{
		capacity: capacity,
		items:    make(map[string]*entry[V]),
		lruList:  list.New(),
	}
}

// Get retrieves a value from the cache and marks it as recently used.
func (c *MemoryCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, exists := c.items[key]
	if !exists {
		return zero, false
	}

	if e.expired(time.Now()) {
		c.deleteEntry(e)
		return zero, false
	}

	c.lruList.MoveToFront(e.element)
	return e.value, true
}

// Set stores a value in the cache with a TTL.
func (c *MemoryCache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if existing, exists := c.items[key]; exists {
		existing.value = value
		existing.expiresAt = expiresAt
		c.lruList.MoveToFront(existing.element)
		return
	}

	if len(c.items) >= c.capacity {
		c.evictLRU()
	}

	e := &entry[V]{key: key, value: value, expiresAt: expiresAt}
	e.element = c.lruList.PushFront(e)
	c.items[key] = e
}

// Delete removes a value from the cache.
func (c *MemoryCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, exists := c.items[key]; exists {
		c.deleteEntry(e)
	}
}

// Len returns the current number of items in the cache.
func (c *MemoryCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Capacity returns the maximum number of items the cache can hold.
func (c *MemoryCache[V]) Capacity() int {
	return c.capacity
}

// CleanExpired removes all expired items and returns how many were removed.
func (c *MemoryCache[V]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for _, e := range c.items {
		if e.expired(now) {
			c.deleteEntry(e)
			removed++
		}
	}
	return removed
}

// evictLRU removes the least recently used item. Must be called with c.mu held.
func (c *MemoryCache[V]) evictLRU() {
	if back := c.lruList.Back(); back != nil {
		c.deleteEntry(back.Value.(*entry[V]))
	}
}

// deleteEntry must be called with c.mu held.
func (c *MemoryCache[V]) deleteEntry(e *entry[V]) {
	delete(c.items, e.key)
	c.lruList.Remove(e.element)
}
