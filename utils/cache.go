package utils

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a small TTL cache used by read endpoints only. It lives outside
// every transactional boundary: nothing money-affecting is ever cached.
// Expired entries are swept by an explicit scheduler tick, not a background
// janitor.
type Cache struct {
	inner *gocache.Cache
}

func NewCache(defaultTTL time.Duration) *Cache {
	return &Cache{inner: gocache.New(defaultTTL, 0)}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.inner.Get(key)
}

func (c *Cache) Set(key string, value interface{}) {
	c.inner.SetDefault(key, value)
}

func (c *Cache) Delete(key string) {
	c.inner.Delete(key)
}

// Clear drops every entry, expired or not.
func (c *Cache) Clear() {
	c.inner.Flush()
}

// Sweep evicts expired entries.
func (c *Cache) Sweep() {
	c.inner.DeleteExpired()
}
