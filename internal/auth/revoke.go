package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/crypto"
)

const revokedKeyPrefix = "revoked-session:"

// Revoker keeps a denylist of logged-out tokens until they would have expired anyway.
// A nil Revoker, or one without a client, revokes nothing.
type Revoker struct {
	client *redis.Client
}

func NewRevoker(client *redis.Client) *Revoker {
	return &Revoker{client: client}
}

func (r *Revoker) Enabled() bool {
	return r != nil && r.client != nil
}

func (r *Revoker) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if !r.Enabled() || token == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKey(token), "1", ttl).Err()
}

func (r *Revoker) IsRevoked(ctx context.Context, token string) (bool, error) {
	if !r.Enabled() || token == "" {
		return false, nil
	}
	count, err := r.client.Exists(ctx, revokedKey(token)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func revokedKey(token string) string {
	return revokedKeyPrefix + crypto.HashToken(token)
}
