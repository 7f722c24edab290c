package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/model"
)

// DefaultSessionTTL is the validity window of a session token.
const DefaultSessionTTL = 24 * time.Hour

var ErrSigningKeyUnavailable = errors.New("session signing key unavailable")

type Claims struct {
	UserID string     `json:"user_id"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

type Token struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec issues and verifies HS256 session tokens. It holds no per-session state.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret, issuer string, ttl time.Duration) (*Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSigningKeyUnavailable
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Codec{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

func (c *Codec) Issue(userID string, role model.Role) (Token, error) {
	if c == nil || len(c.secret) == 0 {
		return Token{}, ErrSigningKeyUnavailable
	}
	// NumericDate has second precision; truncate so the returned times match the claims.
	now := c.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(c.ttl)
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, IssuedAt: now, ExpiresAt: expiresAt}, nil
}

// Verify returns false for every malformed, forged, expired or foreign token alike.
func (c *Codec) Verify(tokenString string) (Claims, bool) {
	if c == nil || len(c.secret) == 0 || strings.TrimSpace(tokenString) == "" {
		return Claims{}, false
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Claims{}, false
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" || claims.Subject != claims.UserID {
		return Claims{}, false
	}
	if _, ok := model.ParseRole(string(claims.Role)); !ok {
		return Claims{}, false
	}
	return *claims, true
}
