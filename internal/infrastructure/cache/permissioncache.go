package cache

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kinderhub/kinderhub/internal/shared/logger"
)

const (
	permissionKeyPrefix = "kinderhub:perm:user:"
	permissionTTLJitter = 5 * time.Minute
	// emptyMarker keeps a cached empty set distinguishable from a miss.
	emptyMarker = "_none"
)

// RedisPermissionCache caches each user's effective permission codes in a
// Redis set.
type RedisPermissionCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

func NewRedisPermissionCache(client *redis.Client, ttl time.Duration, logger logger.Interface) *RedisPermissionCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisPermissionCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisPermissionCache) key(userID uint) string {
	return fmt.Sprintf("%s%d", permissionKeyPrefix, userID)
}

// Get returns the cached codes, sorted. ok is false on a cache miss.
func (c *RedisPermissionCache) Get(ctx context.Context, userID uint) ([]string, bool, error) {
	members, err := c.client.SMembers(ctx, c.key(userID)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get permissions from cache: %w", err)
	}
	if len(members) == 0 {
		return nil, false, nil
	}

	codes := make([]string, 0, len(members))
	for _, m := range members {
		if m != emptyMarker {
			codes = append(codes, m)
		}
	}
	sort.Strings(codes)
	return codes, true, nil
}

// Set replaces the user's cached codes. The entry never outlives expiresAt;
// when expiresAt has already passed the entry is only dropped.
func (c *RedisPermissionCache) Set(ctx context.Context, userID uint, codes []string, expiresAt time.Time) error {
	key := c.key(userID)

	// Jittered TTL keeps keys written together from expiring together.
	ttl := c.ttl + time.Duration(rand.Int64N(int64(permissionTTLJitter)))
	if !expiresAt.IsZero() {
		until := time.Until(expiresAt)
		if until <= 0 {
			return c.Invalidate(ctx, userID)
		}
		ttl = min(ttl, until)
	}

	members := make([]any, 0, len(codes)+1)
	for _, code := range codes {
		members = append(members, code)
	}
	if len(members) == 0 {
		members = append(members, emptyMarker)
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SAdd(ctx, key, members...)
	pipe.PExpire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache permissions: %w", err)
	}
	return nil
}

func (c *RedisPermissionCache) Invalidate(ctx context.Context, userIDs ...uint) error {
	if len(userIDs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, c.key(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate permission cache: %w", err)
	}

	c.logger.Debugw("permission cache invalidated", "user_ids", userIDs)
	return nil
}

// NoopPermissionCache is used when Redis is disabled: every read misses.
type NoopPermissionCache struct{}

func (NoopPermissionCache) Get(context.Context, uint) ([]string, bool, error) { return nil, false, nil }
func (NoopPermissionCache) Set(context.Context, uint, []string, time.Time) error { return nil }
func (NoopPermissionCache) Invalidate(context.Context, ...uint) error { return nil }
