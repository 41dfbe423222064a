package cachemanager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	})
}

type parsedUnit struct {
	Name string
	Deps []string
}

func TestInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, parsedUnit]("unit-cache", DefaultExpiration, DefaultCleanupInterval)
	unit := parsedUnit{
		Name: "app.router",
		Deps: []string{"app.config"},
	}
	cache.Set(context.Background(), "src/router.js", unit, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "src/router.js")
	require.True(t, ok)
	require.Equal(t, unit, got)
}

func TestInMemoryCacheManager_GetExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("unit-cache", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "app.config", "src/config.js", DefaultExpiration)

	got, ok := cache.Get(context.Background(), "app.config")
	require.True(t, ok)
	require.Equal(t, "src/config.js", got)
}

func TestInMemoryCacheManager_GetWithNoExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("unit-cache", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "app.config")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWithExistingInvalidValueType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("unit-cache", DefaultExpiration, DefaultCleanupInterval)

	cache.cache.Set("app.config", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "app.config")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_Delete(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("unit-cache", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "a", "1", DefaultExpiration)
	cache.Set(context.Background(), "b", "2", DefaultExpiration)

	require.NoError(t, cache.Delete(context.Background(), "a"))

	_, ok := cache.Get(context.Background(), "a")
	require.False(t, ok)
	got, ok := cache.Get(context.Background(), "b")
	require.True(t, ok)
	require.Equal(t, "2", got)
}

func TestInMemoryCacheManager_Flush(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("unit-cache", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "a", "1", DefaultExpiration)
	cache.Set(context.Background(), "b", "2", DefaultExpiration)

	require.NoError(t, cache.Flush(context.Background()))

	_, ok := cache.Get(context.Background(), "a")
	require.False(t, ok)
	_, ok = cache.Get(context.Background(), "b")
	require.False(t, ok)
}
