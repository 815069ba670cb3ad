package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-storefront-api/internal/domains/catalog/ports"
)

var _ ports.SearchCache = (*SearchCache)(nil)

// SearchCache keeps ranked ids in process memory with a TTL.
type SearchCache struct {
	mu    sync.RWMutex
	items map[string]cachedSearch
	ttl   time.Duration
	now   func() time.Time
}

type cachedSearch struct {
	ids       []string
	expiresAt time.Time
}

// NewSearchCache builds a cache. A ttl <= 0 keeps entries until invalidated.
func NewSearchCache(ttl time.Duration) *SearchCache {
	return &SearchCache{
		items: map[string]cachedSearch{},
		ttl:   ttl,
		now:   time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (c *SearchCache) WithClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

func (c *SearchCache) Get(_ context.Context, key string) ([]string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	if !item.expiresAt.IsZero() && !c.now().Before(item.expiresAt) {
		return nil, false, nil
	}
	return append([]string{}, item.ids...), true, nil
}

func (c *SearchCache) Set(_ context.Context, key string, ids []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := cachedSearch{ids: append([]string{}, ids...)}
	if c.ttl > 0 {
		item.expiresAt = c.now().Add(c.ttl)
	}
	c.items[key] = item
	return nil
}

func (c *SearchCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string]cachedSearch{}
	return nil
}
