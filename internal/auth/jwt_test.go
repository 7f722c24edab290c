package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/model"
)

func newTestCodec(t *testing.T, now time.Time) *Codec {
	t.Helper()
	codec, err := NewCodec("test-secret", "test-issuer", time.Hour)
	if err != nil {
		t.Fatalf("codec error: %v", err)
	}
	codec.now = func() time.Time { return now }
	return codec
}

func TestTokenRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	codec := newTestCodec(t, now)

	roles := []model.Role{model.RoleAdmin, model.RoleTeacher, model.RoleStudent}
	for _, role := range roles {
		token, err := codec.Issue("user-1", role)
		if err != nil {
			t.Fatalf("issue error: %v", err)
		}
		claims, ok := codec.Verify(token.Value)
		if !ok {
			t.Fatalf("expected token for %s to verify", role)
		}
		if claims.UserID != "user-1" || claims.Role != role {
			t.Fatalf("unexpected claims %+v", claims)
		}
		if !claims.IssuedAt.Time.Equal(now) {
			t.Fatalf("expected issued at %s, got %s", now, claims.IssuedAt.Time)
		}
		if !token.ExpiresAt.Equal(now.Add(time.Hour)) {
			t.Fatalf("expected expiry one hour after issuance, got %s", token.ExpiresAt)
		}
	}
}

func TestExpiredTokenIsInvalid(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	codec := newTestCodec(t, issuedAt)
	token, err := codec.Issue("user-1", model.RoleStudent)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	codec.now = func() time.Time { return issuedAt.Add(time.Hour + time.Second) }
	if _, ok := codec.Verify(token.Value); ok {
		t.Fatalf("expected expired token to be rejected")
	}

	codec.now = func() time.Time { return issuedAt.Add(time.Hour - time.Second) }
	if _, ok := codec.Verify(token.Value); !ok {
		t.Fatalf("expected token to verify just before expiry")
	}
}

func TestTamperedTokenIsInvalid(t *testing.T) {
	codec := newTestCodec(t, time.Now())
	token, err := codec.Issue("user-1", model.RoleStudent)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	value := token.Value
	lastDot := strings.LastIndex(value, ".")

	for i := 0; i < len(value); i++ {
		if value[i] == '.' {
			continue
		}
		// The final signature character carries padding bits that may decode identically.
		if i == len(value)-1 {
			continue
		}
		replacement := byte('A')
		if value[i] == 'A' {
			replacement = 'B'
		}
		tampered := value[:i] + string(replacement) + value[i+1:]
		if _, ok := codec.Verify(tampered); ok {
			segment := "payload"
			if i > lastDot {
				segment = "signature"
			}
			t.Fatalf("expected tampered %s byte %d to be rejected", segment, i)
		}
	}
}

func TestEscalatedRoleClaimIsInvalid(t *testing.T) {
	codec := newTestCodec(t, time.Now())
	token, err := codec.Issue("user-1", model.RoleStudent)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	parts := strings.Split(token.Value, ".")
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	payload["role"] = string(model.RoleAdmin)
	forged, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)
	if _, ok := codec.Verify(strings.Join(parts, ".")); ok {
		t.Fatalf("expected forged role to be rejected")
	}
}

func TestForeignTokensAreInvalid(t *testing.T) {
	now := time.Now()
	codec := newTestCodec(t, now)

	other, err := NewCodec("other-secret", "test-issuer", time.Hour)
	if err != nil {
		t.Fatalf("codec error: %v", err)
	}
	foreign, err := other.Issue("user-1", model.RoleAdmin)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	if _, ok := codec.Verify(foreign.Value); ok {
		t.Fatalf("expected token signed with another key to be rejected")
	}

	wrongIssuer, err := NewCodec("test-secret", "someone-else", time.Hour)
	if err != nil {
		t.Fatalf("codec error: %v", err)
	}
	issued, err := wrongIssuer.Issue("user-1", model.RoleAdmin)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	if _, ok := codec.Verify(issued.Value); ok {
		t.Fatalf("expected token from another issuer to be rejected")
	}

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:           "user-1",
		Role:             model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", Issuer: "test-issuer", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
	})
	noneToken, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("none token error: %v", err)
	}
	if _, ok := codec.Verify(noneToken); ok {
		t.Fatalf("expected alg=none token to be rejected")
	}

	for _, malformed := range []string{"", "   ", "not-a-token", "a.b.c"} {
		if _, ok := codec.Verify(malformed); ok {
			t.Fatalf("expected malformed token %q to be rejected", malformed)
		}
	}
}

func TestMissingSecretIsFatal(t *testing.T) {
	if _, err := NewCodec("", "issuer", time.Hour); err != ErrSigningKeyUnavailable {
		t.Fatalf("expected signing key error, got %v", err)
	}
	var codec *Codec
	if _, err := codec.Issue("user-1", model.RoleStudent); err != ErrSigningKeyUnavailable {
		t.Fatalf("expected signing key error from nil codec, got %v", err)
	}
}

func TestDefaultTTL(t *testing.T) {
	codec, err := NewCodec("secret", "issuer", 0)
	if err != nil {
		t.Fatalf("codec error: %v", err)
	}
	if codec.TTL() != DefaultSessionTTL {
		t.Fatalf("expected default ttl, got %s", codec.TTL())
	}
}
