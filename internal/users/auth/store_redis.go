// Copyright (c) 2026 PrepDeck. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prepdeck/prepdeck/internal/platform/constants"
)

// RedisRevokedTokenRepository implements RevokedTokenRepository using Redis.
//
// Keys expire together with the token they deny, so the denylist never
// needs manual cleanup.
type RedisRevokedTokenRepository struct {
	client *redis.Client
}

// NewRevokedTokenRepository creates a new Redis-backed RevokedTokenRepository.
func NewRevokedTokenRepository(client *redis.Client) *RedisRevokedTokenRepository {
	return &RedisRevokedTokenRepository{client: client}
}

/*
Revoke records a token ID on the denylist for ttl.

Parameters:
  - context: context.Context
  - tokenID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisRevokedTokenRepository) Revoke(context context.Context, tokenID string, ttl time.Duration) error {
	key := constants.RedisPrefixRevokedToken + tokenID

	if err := repository.client.Set(context, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis_revoked_token_set_failed: %w", err)
	}

	return nil
}

/*
IsRevoked reports whether a token ID is on the denylist.

Parameters:
  - context: context.Context
  - tokenID: string

Returns:
  - bool: True when the token must be rejected
  - error: Connectivity errors
*/
func (repository *RedisRevokedTokenRepository) IsRevoked(context context.Context, tokenID string) (bool, error) {
	key := constants.RedisPrefixRevokedToken + tokenID

	_, err := repository.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis_revoked_token_get_failed: %w", err)
	}

	return true, nil
}
