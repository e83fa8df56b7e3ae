package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an in-process cache backed by go-cache.
//
// With a positive cleanup interval go-cache runs a janitor goroutine that
// lives until the process exits; Close only flushes the entries.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache creates a memory cache. Entries set with ttl 0 use
// defaultTTL; a defaultTTL of zero keeps them until deleted. A cleanup
// interval of zero disables the janitor and expired entries are dropped
// lazily on Get.
func NewMemoryCache(defaultTTL, cleanup time.Duration) *MemoryCache {
	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &MemoryCache{c: gocache.New(defaultTTL, cleanup)}
}

// Get returns the stored slice itself; callers must not modify it.
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	return data, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.c.Set(key, data, ttl)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

// Clear drops every entry.
func (m *MemoryCache) Clear(context.Context) error {
	m.c.Flush()
	return nil
}

// Len returns the number of entries, including expired ones not yet cleaned up.
func (m *MemoryCache) Len() int {
	return m.c.ItemCount()
}

func (m *MemoryCache) Close() error {
	m.c.Flush()
	return nil
}

var (
	_ Cache   = (*MemoryCache)(nil)
	_ Clearer = (*MemoryCache)(nil)
)
