package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/go-storefront-api/internal/domains/catalog/ports"
)

const (
	// DefaultPrefix namespaces search keys so Invalidate never touches other data.
	DefaultPrefix = "storefront:search:"
	scanBatchSize = 100
)

var _ ports.SearchCache = (*SearchCache)(nil)

// SearchCache stores ranked entry ids in Redis as JSON arrays.
type SearchCache struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

type Option func(*SearchCache)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(c *SearchCache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// NewSearchCache wraps an existing client. The caller owns the client. A ttl
// of zero stores keys without expiry.
func NewSearchCache(client goredis.UniversalClient, ttl time.Duration, opts ...Option) *SearchCache {
	c := &SearchCache{client: client, prefix: DefaultPrefix, ttl: ttl}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *SearchCache) Get(ctx context.Context, key string) ([]string, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get search cache key: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		_ = c.client.Del(ctx, c.prefix+key).Err()
		return nil, false, fmt.Errorf("decode search cache key: %w", err)
	}
	return ids, true, nil
}

func (c *SearchCache) Set(ctx context.Context, key string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode search cache key: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set search cache key: %w", err)
	}
	return nil
}

// Invalidate deletes every key under the prefix using SCAN, never KEYS.
func (c *SearchCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("scan search cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete search cache keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
