// Package ratelimit counts login attempts per key in fixed redis windows.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "login-attempts:"

// Limiter allows up to limit attempts per key within window. A nil Limiter, or one
// built without a client, allows everything.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func New(client *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{client: client, limit: limit, window: window}
}

func (l *Limiter) Enabled() bool {
	return l != nil && l.client != nil && l.limit > 0 && l.window > 0
}

// Allow records one attempt for key and reports whether it is still within the limit.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	redisKey := keyPrefix + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(l.limit), nil
}

// Reset forgets the attempts for key, used after a successful login.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if !l.Enabled() {
		return nil
	}
	return l.client.Del(ctx, keyPrefix+key).Err()
}

// Key combines the account and the client address so one noisy address cannot lock
// out an account everywhere.
func Key(email, remoteAddr string) string {
	return email + "|" + remoteAddr
}
