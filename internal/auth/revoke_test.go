package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

func TestRevokerDenylistsUntilExpiry(t *testing.T) {
	mr, client := newTestRedis(t)
	revoker := NewRevoker(client)
	ctx := context.Background()

	if err := revoker.Revoke(ctx, "token-a", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("revoke error: %v", err)
	}
	revoked, err := revoker.IsRevoked(ctx, "token-a")
	if err != nil || !revoked {
		t.Fatalf("expected token-a revoked, got %v (err=%v)", revoked, err)
	}
	revoked, err = revoker.IsRevoked(ctx, "token-b")
	if err != nil || revoked {
		t.Fatalf("expected token-b untouched, got %v (err=%v)", revoked, err)
	}
	if mr.Exists(revokedKeyPrefix + "token-a") {
		t.Fatalf("raw token must not be used as key")
	}

	mr.FastForward(2 * time.Minute)
	revoked, err = revoker.IsRevoked(ctx, "token-a")
	if err != nil || revoked {
		t.Fatalf("expected denylist entry to expire with the token")
	}
}

func TestRevokerSkipsExpiredTokens(t *testing.T) {
	mr, client := newTestRedis(t)
	revoker := NewRevoker(client)
	if err := revoker.Revoke(context.Background(), "old", time.Now().Add(-time.Second)); err != nil {
		t.Fatalf("revoke error: %v", err)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("expected no key for an already expired token, got %v", mr.Keys())
	}
}

func TestNilRevokerIsNoop(t *testing.T) {
	var revoker *Revoker
	if revoker.Enabled() {
		t.Fatalf("nil revoker must be disabled")
	}
	if err := revoker.Revoke(context.Background(), "token", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("expected noop, got %v", err)
	}
	revoked, err := revoker.IsRevoked(context.Background(), "token")
	if err != nil || revoked {
		t.Fatalf("expected not revoked, got %v (err=%v)", revoked, err)
	}
}

func TestRevokerReportsStoreFailure(t *testing.T) {
	mr, client := newTestRedis(t)
	revoker := NewRevoker(client)
	mr.SetError("LOADING redis is loading")
	if _, err := revoker.IsRevoked(context.Background(), "token"); err == nil {
		t.Fatalf("expected redis failure to surface")
	}
}
