package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/admin/astromood/chart-api/internal/ports/cache"
)

// Cache in-memory реализация cache.Cache, используется когда Redis не настроен
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// NewCache создаёт новый in-memory кэш
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *Cache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.expired(entry) {
		return "", cache.ErrCacheMiss
	}
	return entry.value, nil
}

// Set ttl <= 0 означает без срока жизни
func (c *Cache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	entry := cacheEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.Get(ctx, key)
	return err == nil, nil
}

func (c *Cache) Close() error {
	return nil
}

func (c *Cache) expired(entry cacheEntry) bool {
	return !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt)
}
