package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const denylistKeyPrefix = "catalog:denylist:"

// TokenDenylist records logged-out tokens until their natural expiry.
// Tokens themselves stay stateless; the denylist only stores SHA-256 hashes,
// so a dump of Redis never yields usable credentials.
type TokenDenylist struct {
	redis *redis.Client
}

// NewTokenDenylist creates a denylist backed by the given Redis client
func NewTokenDenylist(client *redis.Client) *TokenDenylist {
	return &TokenDenylist{redis: client}
}

// Revoke marks a token as invalid for the remainder of its lifetime.
// A non-positive ttl means the token has already expired and there is
// nothing to record.
func (d *TokenDenylist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	key := denylistKeyPrefix + hashToken(token)
	if err := d.redis.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to denylist token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token has been denylisted
func (d *TokenDenylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	key := denylistKeyPrefix + hashToken(token)
	n, err := d.redis.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check denylist: %w", err)
	}
	return n > 0, nil
}

// hashToken computes the SHA256 hash of a token for lookup
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
