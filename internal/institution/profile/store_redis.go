// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/campusdir/internal/platform/constants"
)

// Cache is the read cache for profiles looked up by handle.
type Cache interface {
	// Get returns the cached profile, or nil on a miss.
	Get(context context.Context, handle string) (*Profile, error)
	Set(context context.Context, p *Profile) error
	Invalidate(context context.Context, handles ...string) error
}

// # Redis Cache

// RedisCache stores profile views as JSON under profile:handle:<handle>.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed [Cache] with the given entry TTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

var _ Cache = (*RedisCache)(nil)

func cacheKey(handle string) string {
	return constants.RedisPrefixProfileHandle + handle
}

// Get implements [Cache].
func (cache *RedisCache) Get(context context.Context, handle string) (*Profile, error) {
	raw, err := cache.client.Get(context, cacheKey(handle)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_profile_cache_get_failed: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("redis_profile_cache_decode_failed: %w", err)
	}
	return &p, nil
}

// Set implements [Cache].
func (cache *RedisCache) Set(context context.Context, p *Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("redis_profile_cache_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, cacheKey(p.Handle), raw, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_profile_cache_set_failed: %w", err)
	}
	return nil
}

// Invalidate implements [Cache]. Empty handles are skipped.
func (cache *RedisCache) Invalidate(context context.Context, handles ...string) error {
	keys := make([]string, 0, len(handles))
	for _, handle := range handles {
		if handle != "" {
			keys = append(keys, cacheKey(handle))
		}
	}
	if len(keys) == 0 {
		return nil
	}

	if err := cache.client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("redis_profile_cache_invalidate_failed: %w", err)
	}
	return nil
}

// # No-op Cache

// NoopCache disables caching when no Redis is configured.
type NoopCache struct{}

var _ Cache = NoopCache{}

func (NoopCache) Get(context.Context, string) (*Profile, error) { return nil, nil }
func (NoopCache) Set(context.Context, *Profile) error           { return nil }
func (NoopCache) Invalidate(context.Context, ...string) error   { return nil }
