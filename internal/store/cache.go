package store

import (
	"bytes"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache provides in-memory caching for objects. Values are copied on the way
// in and out, so callers may modify what they pass or receive.
type Cache interface {
	Get(key string) ([]byte, bool)
	Add(key string, value []byte)
	Has(key string) bool
	Remove(key string)
	Clear()
}

// LRUCache is a size-bounded least-recently-used Cache.
type LRUCache struct {
	items *lru.Cache[string, []byte]
}

// NewLRUCache creates a cache holding at most maxSize objects.
func NewLRUCache(maxSize int) (*LRUCache, error) {
	if maxSize <= 0 {
		maxSize = 1
	}
	items, err := lru.New[string, []byte](maxSize)
	if err != nil {
		return nil, err
	}
	return &LRUCache{items: items}, nil
}

// Get returns a copy of the cached value for key.
func (c *LRUCache) Get(key string) ([]byte, bool) {
	value, ok := c.items.Get(key)
	if !ok {
		return nil, false
	}
	return bytes.Clone(value), true
}

// Add caches a copy of value under key.
func (c *LRUCache) Add(key string, value []byte) {
	c.items.Add(key, bytes.Clone(value))
}

// Has reports whether key is cached without updating its recency.
func (c *LRUCache) Has(key string) bool {
	return c.items.Contains(key)
}

// Remove drops key from the cache.
func (c *LRUCache) Remove(key string) {
	c.items.Remove(key)
}

// Clear drops every cached object.
func (c *LRUCache) Clear() {
	c.items.Purge()
}

// Len returns the number of cached objects.
func (c *LRUCache) Len() int {
	return c.items.Len()
}
