package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/auth"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/logger"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/model"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/repository"
)

var adminOnly = auth.Requirement{Roles: []model.Role{model.RoleAdmin}}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if _, err := s.guard.Authorize(r, adminOnly); err != nil {
		s.fail(w, r, err)
		return
	}

	query := r.URL.Query()
	var filter repository.UserFilter
	if raw := query.Get("status"); raw != "" {
		status, ok := model.ParseOnboardingStatus(raw)
		if !ok {
			writeError(w, r, http.StatusBadRequest, "invalid_filter")
			return
		}
		filter.Status = &status
	}
	if raw := query.Get("role"); raw != "" {
		role, ok := model.ParseRole(raw)
		if !ok {
			writeError(w, r, http.StatusBadRequest, "invalid_filter")
			return
		}
		filter.Role = &role
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			writeError(w, r, http.StatusBadRequest, "invalid_filter")
			return
		}
		filter.Limit = limit
	}

	users, err := s.store.ListUsers(r.Context(), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := make([]userSummary, 0, len(users))
	for _, user := range users {
		resp = append(resp, mapUser(user))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": resp})
}

func (s *Server) handleApproveUser(w http.ResponseWriter, r *http.Request) {
	s.decideOnboarding(w, r, s.store.ApproveUser, "approved")
}

func (s *Server) handleRejectUser(w http.ResponseWriter, r *http.Request) {
	s.decideOnboarding(w, r, s.store.RejectUser, "rejected")
}

func (s *Server) decideOnboarding(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, userID string) (model.User, error), outcome string) {
	admin, err := s.guard.Authorize(r, adminOnly)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	userID := chi.URLParam(r, "userId")
	user, err := apply(r.Context(), userID)
	if err != nil {
		s.fail(w, r, notFoundAs(err, "user_not_found"))
		return
	}

	logger.FromContext(r.Context(), s.log).Info("onboarding decision",
		zap.String("admin_id", admin.ID),
		zap.String("user_id", user.ID),
		zap.String("decision", outcome),
	)
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": mapUser(user)})
}
