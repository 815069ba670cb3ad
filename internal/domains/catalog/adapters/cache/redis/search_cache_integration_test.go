//go:build integration

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedisContainer(t *testing.T) (*goredis.Client, func()) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: endpoint})
	require.NoError(t, client.Ping(ctx).Err())

	cleanup := func() {
		client.Close()
		container.Terminate(ctx)
	}
	return client, cleanup
}

func TestSearchCache_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	cache := NewSearchCache(client, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "en:missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "en:mug", []string{"love-mug", "magic-mug"}))
	ids, ok, err := cache.Get(ctx, "en:mug")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"love-mug", "magic-mug"}, ids)

	ttl, err := client.TTL(ctx, DefaultPrefix+"en:mug").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestSearchCache_InvalidateOnlyTouchesPrefix(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	cache := NewSearchCache(client, 0)
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		require.NoError(t, cache.Set(ctx, fmt.Sprintf("en:key-%d", i), []string{"x"}))
	}
	require.NoError(t, client.Set(ctx, "unrelated", "keep", 0).Err())

	require.NoError(t, cache.Invalidate(ctx))

	keys, err := client.Keys(ctx, DefaultPrefix+"*").Result()
	require.NoError(t, err)
	assert.Empty(t, keys)

	value, err := client.Get(ctx, "unrelated").Result()
	require.NoError(t, err)
	assert.Equal(t, "keep", value)
}
