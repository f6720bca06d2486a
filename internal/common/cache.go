package common

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Keys for the public taxonomy listings.
const (
	CacheKeyCategories = "categories"
	CacheKeyTags       = "tags"
)

// Cache is an in-process cache for read-mostly listings.
type Cache struct {
	store *cache.Cache
}

func NewCache(ttl, cleanupInterval time.Duration) *Cache {
	return &Cache{store: cache.New(ttl, cleanupInterval)}
}

// Remember returns the value stored under key, or calls load and stores its
// result for ttl. Errors from load are not cached.
func Remember[T any](c *Cache, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if v, ok := c.store.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	v, err := load()
	if err != nil {
		return v, err
	}

	c.store.Set(key, v, ttl)
	return v, nil
}

// Invalidate removes the given keys.
func (c *Cache) Invalidate(keys ...string) {
	for _, k := range keys {
		c.store.Delete(k)
	}
}

func (c *Cache) Len() int {
	return c.store.ItemCount()
}

func (c *Cache) Flush() {
	c.store.Flush()
}
