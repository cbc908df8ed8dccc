package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key prefix for revoked tokens
	revokedTokenKeyPrefix = "trl:jti:"
)

// RedisTRL is a Redis-backed token revocation list shared by every API
// instance.
type RedisTRL struct {
	client redis.UniversalClient
	prefix string
}

// RedisTRLOption configures a RedisTRL instance.
type RedisTRLOption func(*RedisTRL)

// WithKeyPrefix namespaces keys, e.g. per deployment.
func WithKeyPrefix(prefix string) RedisTRLOption {
	return func(t *RedisTRL) {
		t.prefix = prefix
	}
}

// NewRedisTRL constructs a Redis-backed token revocation list.
func NewRedisTRL(client redis.UniversalClient, opts ...RedisTRLOption) *RedisTRL {
	trl := &RedisTRL{client: client}
	for _, opt := range opts {
		if opt != nil {
			opt(trl)
		}
	}
	return trl
}

func (t *RedisTRL) key(jti string) string {
	return t.prefix + revokedTokenKeyPrefix + jti
}

// RevokeToken adds a token to the revocation list with TTL.
func (t *RedisTRL) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}
	// Key existence is what matters.
	return t.client.Set(ctx, t.key(jti), "1", ttl).Err()
}

// IsTokenRevoked returns false if the key doesn't exist (never revoked or expired).
func (t *RedisTRL) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	_, err := t.client.Get(ctx, t.key(jti)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
