package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palermo-rentals/storefront/internal/session"
)

// RedisCache keeps session snapshots hot in front of the repository.
// TTL gets per-key jitter so a burst of sessions does not expire at once.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 30 * time.Minute,
	}
}

func (r *RedisCache) Get(ctx context.Context, id string) (*session.Snapshot, error) {
	data, err := r.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var snap session.Snapshot
	if err2 := json.Unmarshal(data, &snap); err2 != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err2)
	}

	return &snap, nil
}

func (r *RedisCache) Set(ctx context.Context, snap *session.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := r.client.Set(ctx, cacheKey(snap.ID), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}
