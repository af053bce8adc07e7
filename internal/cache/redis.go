package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/izuleon01/fastserve/internal/domain"
	"github.com/izuleon01/fastserve/pkg/circuitbreaker"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: time.Hour,
		breaker: circuitbreaker.New[[]byte](circuitbreaker.DefaultConfig("redis-menu-items")),
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func (r *RedisCache) Get(ctx context.Context, menuItemID string) (*domain.MenuItem, error) {
	key := cacheKey(menuItemID)

	// a miss is a successful round trip and must not count against the breaker
	data, err := r.breaker.Execute(func() ([]byte, error) {
		b, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	if data == nil {
		return nil, ErrCacheMiss
	}

	var item domain.MenuItem
	if err2 := json.Unmarshal(data, &item); err2 != nil {
		return nil, fmt.Errorf("unmarshal menu item failed: %w", err2)
	}

	return &item, nil
}

func (r *RedisCache) Set(ctx context.Context, item *domain.MenuItem) error {
	key := cacheKey(item.MenuItemID)
	jsonItem, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal menu item failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(10)) * time.Minute
	ttl := r.baseTTL + jitter
	_, err = r.breaker.Execute(func() ([]byte, error) {
		return nil, r.client.Set(ctx, key, jsonItem, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func cacheKey(menuItemID string) string {
	return fmt.Sprintf("menuitem:%s", menuItemID)
}
