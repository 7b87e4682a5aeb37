package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type item struct {
	value     []byte
	expiresAt time.Time
}

type MemoryCache struct {
	items map[string]item
	mu    sync.RWMutex
	now   func() time.Time
}

var _ CacheService = (*MemoryCache)(nil)

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[string]item),
		now:   time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.RLock()
	it, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		return ErrMiss
	}

	// zero expiry means no TTL
	if !it.expiresAt.IsZero() && c.now().After(it.expiresAt) {
		_ = c.Delete(ctx, key)
		return ErrMiss
	}

	return json.Unmarshal(it.value, dest)
}

func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item{
		value:     data,
		expiresAt: expiresAt,
	}
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}
