package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/postblog/platform/internal/core/ports"
)

const revokedKeyPrefix = "revoked:"

// denylistStore is the slice of redis.Cmdable the deny-list needs.
type denylistStore interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// TokenDenylist stores revoked token ids until the token's own expiry.
// Key format: revoked:<jti>
type TokenDenylist struct {
	client denylistStore
	now    func() time.Time
}

func NewTokenDenylist(client redis.Cmdable) ports.TokenDenylist {
	return newTokenDenylist(client, time.Now)
}

func newTokenDenylist(client denylistStore, now func() time.Time) *TokenDenylist {
	return &TokenDenylist{client: client, now: now}
}

// Revoke is a no-op for tokens that have already expired.
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, d.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("deny-list set: %w", err)
	}
	return nil
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("deny-list check: %w", err)
	}
	return n > 0, nil
}

func (d *TokenDenylist) key(tokenID string) string {
	return revokedKeyPrefix + tokenID
}
