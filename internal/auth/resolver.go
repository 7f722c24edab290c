package auth

import (
	"context"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/model"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/repository"
)

var tracer = otel.Tracer("github.com/Abdelwahab08/islamic-projectttt-sub002/internal/auth")

type UserLoader interface {
	GetUserByID(ctx context.Context, userID string) (model.User, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Resolver turns the session cookie of a request into the user's current record.
type Resolver struct {
	codec       *Codec
	users       UserLoader
	revocations RevocationChecker
}

func NewResolver(codec *Codec, users UserLoader, revocations RevocationChecker) *Resolver {
	return &Resolver{codec: codec, users: users, revocations: revocations}
}

// Resolve returns (nil, nil) when the request carries no usable identity and a non-nil
// error only for infrastructure failures.
func (r *Resolver) Resolve(req *http.Request) (*model.User, error) {
	return r.ResolveToken(req.Context(), SessionToken(req))
}

// ResolveToken verifies the token and reloads the user it points to. Role and approval
// always come from the store, never from the token claims.
func (r *Resolver) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	ctx, span := tracer.Start(ctx, "auth.resolve", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	if token == "" {
		span.SetAttributes(attribute.String("auth.outcome", "no_cookie"))
		return nil, nil
	}
	claims, ok := r.codec.Verify(token)
	if !ok {
		span.SetAttributes(attribute.String("auth.outcome", "invalid_token"))
		return nil, nil
	}

	if r.revocations != nil {
		revoked, err := r.revocations.IsRevoked(ctx, token)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "revocation lookup failed")
			return nil, err
		}
		if revoked {
			span.SetAttributes(attribute.String("auth.outcome", "revoked"))
			return nil, nil
		}
	}

	user, err := r.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			span.SetAttributes(attribute.String("auth.outcome", "user_gone"))
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "user lookup failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("auth.outcome", "resolved"),
		attribute.String("auth.role", string(user.Role)),
	)
	return &user, nil
}
