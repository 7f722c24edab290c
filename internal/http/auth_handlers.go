package http

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/apperr"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/auth"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/crypto"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/logger"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/metrics"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/model"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/ratelimit"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/repository"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Email = repository.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "missing_credentials")
		return
	}

	log := logger.FromContext(r.Context(), s.log)
	attemptKey := ratelimit.Key(req.Email, clientIP(r))
	allowed, err := s.limiter.Allow(r.Context(), attemptKey)
	if err != nil {
		log.Warn("login limiter unavailable", zap.Error(err))
		allowed = true
	}
	if !allowed {
		metrics.Logins.WithLabelValues("throttled").Inc()
		writeError(w, r, http.StatusTooManyRequests, "too_many_attempts")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.Logins.WithLabelValues("invalid_credentials").Inc()
			writeError(w, r, http.StatusUnauthorized, "invalid_credentials")
			return
		}
		s.fail(w, r, err)
		return
	}

	if err := crypto.CheckPassword(user.PasswordHash, req.Password); err != nil {
		metrics.Logins.WithLabelValues("invalid_credentials").Inc()
		writeError(w, r, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	if user.Role != model.RoleAdmin && !user.Active() {
		code := "account_pending"
		if user.OnboardingStatus == model.OnboardingRejected {
			code = "account_rejected"
		}
		metrics.Logins.WithLabelValues(code).Inc()
		writeError(w, r, http.StatusForbidden, code)
		return
	}

	token, err := s.codec.Issue(user.ID, user.Role)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.limiter.Reset(r.Context(), attemptKey); err != nil {
		log.Warn("login limiter reset failed", zap.Error(err))
	}

	auth.SetSessionCookie(w, token, s.secureCookies())
	metrics.Logins.WithLabelValues("success").Inc()
	log.Info("user logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":      mapUser(user),
		"expiresAt": token.ExpiresAt,
	})
}

// handleLogout never fails: the cookie is cleared whether or not a session existed.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := auth.SessionToken(r); token != "" && s.revoker.Enabled() {
		if claims, ok := s.codec.Verify(token); ok && claims.ExpiresAt != nil {
			if err := s.revoker.Revoke(r.Context(), token, claims.ExpiresAt.Time); err != nil {
				logger.FromContext(r.Context(), s.log).Warn("session revocation failed", zap.Error(err))
			}
		}
	}
	auth.ClearSessionCookie(w, s.secureCookies())
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.register(w, r, model.RoleStudent)
}

func (s *Server) handleTeacherApplication(w http.ResponseWriter, r *http.Request) {
	s.register(w, r, model.RoleTeacher)
}

// register creates a PENDING account; only an admin decision activates it.
func (s *Server) register(w http.ResponseWriter, r *http.Request, role model.Role) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Email = repository.NormalizeEmail(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil || !strings.Contains(req.Email, "@") {
		writeError(w, r, http.StatusBadRequest, "invalid_email")
		return
	}
	if err := crypto.ValidatePassword(req.Password); err != nil {
		code := "weak_password"
		if errors.Is(err, crypto.ErrPasswordTooLong) {
			code = "password_too_long"
		}
		writeError(w, r, http.StatusBadRequest, code)
		return
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			req.Name = nil
		} else {
			req.Name = &trimmed
		}
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	user, err := s.store.CreateUser(r.Context(), model.User{
		Email:            req.Email,
		Name:             req.Name,
		PasswordHash:     hash,
		Role:             role,
		IsApproved:       false,
		OnboardingStatus: model.OnboardingPending,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeError(w, r, http.StatusConflict, "email_taken")
			return
		}
		s.fail(w, r, err)
		return
	}

	logger.FromContext(r.Context(), s.log).Info("account registered",
		zap.String("user_id", user.ID),
		zap.String("role", string(role)),
	)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"user": mapUser(user)})
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.guard.Authorize(r, auth.Requirement{})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": mapUser(*user)})
}

func notFoundAs(err error, code string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.Wrap(apperr.KindNotFound, code, err)
	}
	return err
}
