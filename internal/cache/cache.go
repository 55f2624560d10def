// Package cache provides a thread-safe generic key-value overlay.
package cache

import "sync"

type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]V),
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.items[key]
	return val, ok
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

// SetTo replaces the whole content. The map is copied, later changes to items are not seen.
func (c *Cache[K, V]) SetTo(items map[K]V) {
	copied := make(map[K]V, len(items))
	for k, v := range items {
		copied[k] = v
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = copied
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
