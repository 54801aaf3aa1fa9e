package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInMemoryCacheManager_SetGet(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string]("test", DefaultExpiration, DefaultCleanupInterval)

	_, found := cache.Get(ctx, "missing")
	require.False(t, found)

	cache.Set(ctx, "k", "v", time.Minute)
	got, found := cache.Get(ctx, "k")
	require.True(t, found)
	require.Equal(t, "v", got)
}

func TestInMemoryCacheManager_Expiration(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[int]("test", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(ctx, "k", 42, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, found := cache.Get(ctx, "k")
	require.False(t, found, "expired entries must miss")
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[int]("test", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(ctx, "a", 1, time.Minute)
	cache.Set(ctx, "b", 2, time.Minute)

	cache.Delete(ctx, "a")
	_, found := cache.Get(ctx, "a")
	require.False(t, found)

	cache.Flush(ctx)
	_, found = cache.Get(ctx, "b")
	require.False(t, found)
}
