package auth

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/apperr"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/metrics"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/model"
)

type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "unauthenticated"
	case DenyForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// RequireRole allows any identity when no roles are given.
func RequireRole(user *model.User, roles ...model.Role) Decision {
	if user == nil {
		return DenyUnauthenticated
	}
	if len(roles) == 0 {
		return Allow
	}
	for _, role := range roles {
		if user.Role == role {
			return Allow
		}
	}
	return DenyForbidden
}

// RequireApproved exempts admins; everyone else must be approved and ACTIVE.
func RequireApproved(user *model.User) Decision {
	if user == nil {
		return DenyUnauthenticated
	}
	if user.Role == model.RoleAdmin || user.Active() {
		return Allow
	}
	return DenyForbidden
}

func RequireOwner(user *model.User, ownerID string) Decision {
	if user == nil {
		return DenyUnauthenticated
	}
	if ownerID != "" && user.ID == ownerID {
		return Allow
	}
	return DenyForbidden
}

type Requirement struct {
	Roles    []model.Role
	Approved bool
}

type IdentityResolver interface {
	Resolve(r *http.Request) (*model.User, error)
}

type Guard struct {
	resolver IdentityResolver
	log      *zap.Logger
}

func NewGuard(resolver IdentityResolver, log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{resolver: resolver, log: log}
}

// Authorize resolves the caller and applies req. The returned error is always an
// *apperr.Error so callers can map it straight to a response.
func (g *Guard) Authorize(r *http.Request, req Requirement) (*model.User, error) {
	_, span := tracer.Start(r.Context(), "auth.authorize")
	defer span.End()

	user, err := g.resolver.Resolve(r)
	if err != nil {
		g.log.Error("identity resolution failed", zap.Error(err), zap.String("path", r.URL.Path))
		record(span, "error")
		return nil, apperr.Internal(err)
	}

	decision := RequireRole(user, req.Roles...)
	code := "forbidden"
	if decision == Allow && req.Approved {
		decision = RequireApproved(user)
		code = "account_not_approved"
	}

	switch decision {
	case Allow:
		record(span, decision.String())
		return user, nil
	case DenyUnauthenticated:
		record(span, decision.String())
		return nil, apperr.New(apperr.KindUnauthenticated, "unauthenticated")
	default:
		record(span, decision.String())
		return user, apperr.New(apperr.KindForbidden, code)
	}
}

// Check turns a follow-up decision (ownership, extra role) into the same error shape.
func Check(decision Decision) error {
	switch decision {
	case Allow:
		return nil
	case DenyUnauthenticated:
		metrics.AuthDecisions.WithLabelValues(decision.String()).Inc()
		return apperr.New(apperr.KindUnauthenticated, "unauthenticated")
	default:
		metrics.AuthDecisions.WithLabelValues(decision.String()).Inc()
		return apperr.New(apperr.KindForbidden, "forbidden")
	}
}

func record(span trace.Span, outcome string) {
	span.SetAttributes(attribute.String("auth.decision", outcome))
	metrics.AuthDecisions.WithLabelValues(outcome).Inc()
}
