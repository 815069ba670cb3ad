package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCache_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	cache := NewSearchCache(time.Minute)
	cache.WithClock(func() time.Time { return now })

	require.NoError(t, cache.Set(ctx, "en:mug", []string{"a", "b"}))

	ids, ok, err := cache.Get(ctx, "en:mug")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, ids)

	now = now.Add(time.Minute)
	_, ok, err = cache.Get(ctx, "en:mug")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSearchCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	cache := NewSearchCache(0)

	require.NoError(t, cache.Set(ctx, "en:mug", []string{"a"}))
	require.NoError(t, cache.Set(ctx, "bn:mug", []string{}))
	require.NoError(t, cache.Invalidate(ctx))

	_, ok, err := cache.Get(ctx, "en:mug")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSearchCache_EmptyResultIsAHit(t *testing.T) {
	ctx := context.Background()
	cache := NewSearchCache(0)

	require.NoError(t, cache.Set(ctx, "en:zzz", nil))
	ids, ok, err := cache.Get(ctx, "en:zzz")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, ids)
}
