package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const revokedKeyPrefix = "revoked_token:"

// RevocationRepository is the refresh-token revocation list, backed by Redis.
// Revoked jtis live exactly as long as the token they belong to would have:
// after natural expiry the signature check rejects the token anyway, so the
// entry can lapse.
type RevocationRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRevocationRepository constructs a revocation repository.
func NewRevocationRepository(client *redis.Client, logger *zap.Logger) *RevocationRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RevocationRepository{client: client, logger: logger}
}

// Revoke records a jti on the revocation list for the given remaining token
// lifetime. A non-positive ttl means the token is already expired and nothing
// needs to be stored.
func (r *RevocationRepository) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token %s: %w", jti, err)
	}
	return nil
}

// IsRevoked reports whether a jti is on the revocation list.
func (r *RevocationRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token %s: %w", jti, err)
	}
	return n > 0, nil
}

// Close releases the underlying Redis connection if present.
func (r *RevocationRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
