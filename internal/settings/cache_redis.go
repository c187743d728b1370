// Copyright (c) 2026 ContactFlow. All rights reserved.

package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/apperr"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/constants"
)

// cacheTTL bounds staleness of the cached singleton. The guard reads the
// settings on every protected request; an update is still visible at most
// one TTL later even if the invalidation write is lost.
const cacheTTL = 30 * time.Second

// RedisCache implements the Cache interface using Redis.
type RedisCache struct {
	client *redis.Client
}

// NewCache creates a new Redis-backed settings Cache.
func NewCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func cacheKey() string {
	return constants.RedisPrefixSettings + constants.RestrictionSettingsID
}

// Get returns the cached settings, or apperr.NotFound on a miss.
func (cache *RedisCache) Get(ctx context.Context) (*Settings, error) {
	payload, err := cache.client.Get(ctx, cacheKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Cached restriction settings")
		}
		return nil, fmt.Errorf("redis_settings_get_failed: %w", err)
	}

	record := &Settings{}
	if err := json.Unmarshal(payload, record); err != nil {
		return nil, fmt.Errorf("redis_settings_decode_failed: %w", err)
	}

	return record, nil
}

// Set stores the settings with the cache TTL.
func (cache *RedisCache) Set(ctx context.Context, record *Settings) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("redis_settings_encode_failed: %w", err)
	}

	if err := cache.client.Set(ctx, cacheKey(), payload, cacheTTL).Err(); err != nil {
		return fmt.Errorf("redis_settings_set_failed: %w", err)
	}

	return nil
}

// Invalidate drops the cached copy.
func (cache *RedisCache) Invalidate(ctx context.Context) error {
	if err := cache.client.Del(ctx, cacheKey()).Err(); err != nil {
		return fmt.Errorf("redis_settings_invalidate_failed: %w", err)
	}
	return nil
}
