package cache

import (
	"sync"
)

// Cache is a small thread-safe, generic key/value store. The runtime uses it
// as the artifact registry: steps record the artifacts they produce and the
// verifier consults the recorded set after cleanup.
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	store map[K]V
}

// NewCache creates a new empty Cache.
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		store: make(map[K]V),
	}
}

// Set adds or updates an item.
func (c *Cache[K, V]) Set(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[k] = v
}

// Get retrieves an item. It returns the value and true if the item exists,
// otherwise the zero value for V and false.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.store[k]
	return v, ok
}

// Range iterates over the items, calling f for each key and value.
// If f returns false, iteration stops. Iteration order is not guaranteed.
func (c *Cache[K, V]) Range(f func(key K, value V) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, v := range c.store {
		if !f(k, v) {
			return
		}
	}
}

// Len returns the current number of items.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}
