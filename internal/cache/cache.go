// Package cache provides the Redis-backed session token denylist.
// Logout records a token fingerprint here for the token's remaining
// lifetime; the auth middleware consults it before trusting a token.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// denylistPrefix is the key prefix for revoked token fingerprints.
// Entries expire together with the token they shadow, so the denylist
// never outgrows the set of still-valid revoked tokens.
const denylistPrefix = "auth:denylist:"

// Cache wraps a Redis client. The whole component is optional: when no
// Redis URL is configured the service runs without it and logout
// degrades to a client-side discard.
type Cache struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// RevokeToken records a token fingerprint until the token's natural
// expiry. Tokens with no remaining lifetime need no entry.
func (c *Cache) RevokeToken(ctx context.Context, tokenHash string, remaining time.Duration) error {
	if remaining <= 0 {
		return nil
	}

	if err := c.client.Set(ctx, denylistPrefix+tokenHash, "1", remaining).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	return nil
}

// IsTokenRevoked reports whether a token fingerprint is on the denylist.
func (c *Cache) IsTokenRevoked(ctx context.Context, tokenHash string) (bool, error) {
	n, err := c.client.Exists(ctx, denylistPrefix+tokenHash).Result()
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}

	return n > 0, nil
}

// Ping checks Redis connectivity for the readiness probe.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
