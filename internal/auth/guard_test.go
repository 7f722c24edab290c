package auth

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/apperr"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/model"
)

func TestRequireRole(t *testing.T) {
	student := activeUser("s", model.RoleStudent)
	if got := RequireRole(nil, model.RoleAdmin); got != DenyUnauthenticated {
		t.Fatalf("expected unauthenticated for nil user, got %s", got)
	}
	if got := RequireRole(&student); got != Allow {
		t.Fatalf("expected any identity to pass without roles, got %s", got)
	}
	if got := RequireRole(&student, model.RoleAdmin); got != DenyForbidden {
		t.Fatalf("expected forbidden, got %s", got)
	}
	if got := RequireRole(&student, model.RoleAdmin, model.RoleStudent); got != Allow {
		t.Fatalf("expected membership to pass, got %s", got)
	}
}

func TestRequireApproved(t *testing.T) {
	pending := model.User{ID: "t", Role: model.RoleTeacher, OnboardingStatus: model.OnboardingPending}
	if got := RequireApproved(&pending); got != DenyForbidden {
		t.Fatalf("expected pending teacher to be forbidden, got %s", got)
	}
	approvedButRejected := model.User{ID: "t", Role: model.RoleTeacher, IsApproved: true, OnboardingStatus: model.OnboardingRejected}
	if got := RequireApproved(&approvedButRejected); got != DenyForbidden {
		t.Fatalf("expected inconsistent record to be forbidden, got %s", got)
	}
	admin := model.User{ID: "a", Role: model.RoleAdmin}
	if got := RequireApproved(&admin); got != Allow {
		t.Fatalf("expected admin exemption, got %s", got)
	}
	if got := RequireApproved(nil); got != DenyUnauthenticated {
		t.Fatalf("expected unauthenticated, got %s", got)
	}
}

func TestRequireOwner(t *testing.T) {
	student := activeUser("student-1", model.RoleStudent)
	if got := RequireOwner(&student, "student-1"); got != Allow {
		t.Fatalf("expected owner to pass, got %s", got)
	}
	if got := RequireOwner(&student, "student-2"); got != DenyForbidden {
		t.Fatalf("expected other owner to be forbidden, got %s", got)
	}
	if got := RequireOwner(&student, ""); got != DenyForbidden {
		t.Fatalf("expected empty owner to be forbidden, got %s", got)
	}
}

type staticResolver struct {
	user *model.User
	err  error
}

func (s staticResolver) Resolve(*http.Request) (*model.User, error) {
	return s.user, s.err
}

func TestAuthorizeOutcomes(t *testing.T) {
	student := activeUser("student-1", model.RoleStudent)
	req := requestWithToken("")

	_, err := NewGuard(staticResolver{}, nil).Authorize(req, Requirement{})
	if apperr.Status(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %v", err)
	}

	user, err := NewGuard(staticResolver{user: &student}, nil).Authorize(req, Requirement{Roles: []model.Role{model.RoleAdmin}})
	if apperr.Status(err) != http.StatusForbidden {
		t.Fatalf("expected 403 for student on admin operation, got %v", err)
	}
	if user == nil || user.ID != "student-1" {
		t.Fatalf("expected identity to still be resolved on forbidden")
	}

	user, err = NewGuard(staticResolver{user: &student}, nil).Authorize(req, Requirement{Roles: []model.Role{model.RoleStudent}, Approved: true})
	if err != nil || user == nil {
		t.Fatalf("expected approved student to pass, got %v", err)
	}

	_, err = NewGuard(staticResolver{err: errors.New("db down")}, nil).Authorize(req, Requirement{})
	if apperr.Status(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500 on infrastructure failure, got %v", err)
	}
	if apperr.As(err).Code != "server_error" {
		t.Fatalf("expected opaque code, got %s", apperr.As(err).Code)
	}
}

func TestDemotionTakesEffectOnNextRequest(t *testing.T) {
	codec := newTestCodec(t, time.Now())
	users := newMemoryUsers(activeUser("teacher-1", model.RoleTeacher))
	guard := NewGuard(NewResolver(codec, users, nil), nil)
	requirement := Requirement{Roles: []model.Role{model.RoleTeacher}, Approved: true}

	token, err := codec.Issue("teacher-1", model.RoleTeacher)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	if _, err := guard.Authorize(requestWithToken(token.Value), requirement); err != nil {
		t.Fatalf("expected approved teacher to pass, got %v", err)
	}

	users.update("teacher-1", func(u *model.User) { u.IsApproved = false })

	if _, ok := codec.Verify(token.Value); !ok {
		t.Fatalf("token itself must still verify")
	}
	_, err = guard.Authorize(requestWithToken(token.Value), requirement)
	if apperr.Status(err) != http.StatusForbidden {
		t.Fatalf("expected 403 after demotion, got %v", err)
	}
	if apperr.As(err).Code != "account_not_approved" {
		t.Fatalf("expected account_not_approved, got %s", apperr.As(err).Code)
	}
}

func TestCheck(t *testing.T) {
	if err := Check(Allow); err != nil {
		t.Fatalf("expected nil for allow, got %v", err)
	}
	if apperr.Status(Check(DenyForbidden)) != http.StatusForbidden {
		t.Fatalf("expected forbidden")
	}
	if apperr.Status(Check(DenyUnauthenticated)) != http.StatusUnauthorized {
		t.Fatalf("expected unauthenticated")
	}
}
