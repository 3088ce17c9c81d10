// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/folio/internal/platform/constants"
)

// RedisIdentityCache implements [IdentityCache] using Redis.
type RedisIdentityCache struct {
	client *redis.Client
}

// NewIdentityCache creates a new Redis-backed identity cache.
func NewIdentityCache(client *redis.Client) *RedisIdentityCache {
	return &RedisIdentityCache{client: client}
}

/*
Get retrieves the internal user id cached for a subject.

Returns:
  - string: Internal user id
  - bool: false on a cache miss
  - error: Connectivity errors
*/
func (repository *RedisIdentityCache) Get(context context.Context, subject string) (string, bool, error) {
	userID, err := repository.client.Get(context, constants.RedisPrefixIdentity+subject).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis_identity_get_failed: %w", err)
	}
	return userID, true, nil
}

/*
Set stores the subject→user mapping with a TTL.
*/
func (repository *RedisIdentityCache) Set(context context.Context, subject, userID string, ttl time.Duration) error {
	if err := repository.client.Set(context, constants.RedisPrefixIdentity+subject, userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_identity_set_failed: %w", err)
	}
	return nil
}
