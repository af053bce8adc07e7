package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/izuleon01/fastserve/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cache, mr, cleanup
}

func testItem() *domain.MenuItem {
	return &domain.MenuItem{
		MenuItemID:  "6f1c2b9e-3d4a-4c8e-9f10-2a3b4c5d6e7f",
		Name:        "Burger",
		Description: "Delicious burger",
		Price:       10,
		ImageURL:    "http://example.com/burger.jpg",
	}
}

func TestGet_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	item := testItem()
	itemJSON, _ := json.Marshal(item)
	mr.Set(cacheKey(item.MenuItemID), string(itemJSON))

	result, err := cache.Get(context.Background(), item.MenuItemID)
	require.NoError(t, err)
	assert.Equal(t, item.Name, result.Name)
	assert.Equal(t, item.Price, result.Price)
}

func TestGet_CacheMiss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := cache.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_MissesDoNotTripBreaker(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	for i := 0; i < 20; i++ {
		_, err := cache.Get(context.Background(), "nonexistent")
		require.ErrorIs(t, err, ErrCacheMiss)
	}
	assert.Equal(t, uint32(0), cache.breaker.Counts().TotalFailures)
}

func TestGet_InvalidJSON(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	item := testItem()
	itemJSON, err := json.Marshal(item)
	require.NoError(t, err)
	require.NoError(t, mr.Set(cacheKey(item.MenuItemID), string(itemJSON[0:10])))

	_, cacheError := cache.Get(context.Background(), item.MenuItemID)
	require.ErrorContains(t, cacheError, "unmarshal menu item failed")
}

func TestGet_ServerDown(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Close()

	_, err := cache.Get(context.Background(), "any")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestSet_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	item := testItem()
	require.NoError(t, cache.Set(context.Background(), item))

	stored, err := mr.Get(cacheKey(item.MenuItemID))
	require.NoError(t, err)

	var storedItem domain.MenuItem
	require.NoError(t, json.Unmarshal([]byte(stored), &storedItem))
	assert.Equal(t, item.MenuItemID, storedItem.MenuItemID)
	assert.Equal(t, item.ImageURL, storedItem.ImageURL)
}

func TestSet_WithTTL(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	item := testItem()
	require.NoError(t, cache.Set(context.Background(), item))

	ttl := mr.TTL(cacheKey(item.MenuItemID))
	assert.True(t, ttl >= time.Hour, "TTL should be at least base TTL")
	assert.True(t, ttl < time.Hour+10*time.Minute, "TTL should be base + max jitter")
}

func TestSetThenGet(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	item := testItem()
	require.NoError(t, cache.Set(ctx, item))

	got, err := cache.Get(ctx, item.MenuItemID)
	require.NoError(t, err)
	assert.Equal(t, *item, *got)
}

func TestPing(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	assert.NoError(t, cache.Ping(context.Background()))
}

func TestNop(t *testing.T) {
	var c MenuItemCache = Nop{}
	_, err := c.Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, c.Set(context.Background(), testItem()))
}

func TestCacheKey_Format(t *testing.T) {
	assert.Equal(t, "menuitem:test123", cacheKey("test123"))
}
