package http

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/apperr"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/auth"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/config"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/gate"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/logger"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/model"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/ratelimit"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/repository"
)

// Store is the persistence the HTTP layer needs; *repository.Store satisfies it.
type Store interface {
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, userID string) (model.User, error)
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	ListUsers(ctx context.Context, filter repository.UserFilter) ([]model.User, error)
	ApproveUser(ctx context.Context, userID string) (model.User, error)
	RejectUser(ctx context.Context, userID string) (model.User, error)
	ListCourses(ctx context.Context) ([]model.Course, error)
	GetCourse(ctx context.Context, courseID string) (model.Course, error)
	CreateCourse(ctx context.Context, course model.Course) (model.Course, error)
	CreateEnrollment(ctx context.Context, courseID, studentID string) (model.Enrollment, error)
	ListEnrollmentsByCourse(ctx context.Context, courseID string) ([]model.Enrollment, error)
	ListEnrollmentsByStudent(ctx context.Context, studentID string) ([]model.Enrollment, error)
}

type Deps struct {
	Revoker *auth.Revoker
	Limiter *ratelimit.Limiter
	Logger  *zap.Logger
}

type Server struct {
	cfg     config.Config
	store   Store
	codec   *auth.Codec
	guard   *auth.Guard
	gate    *gate.Gate
	revoker *auth.Revoker
	limiter *ratelimit.Limiter
	log     *zap.Logger
}

func NewServer(cfg config.Config, store Store, deps Deps) (*Server, error) {
	codec, err := auth.NewCodec(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	resolver := auth.NewResolver(codec, store, deps.Revoker)
	return &Server{
		cfg:     cfg,
		store:   store,
		codec:   codec,
		guard:   auth.NewGuard(resolver, log),
		gate:    gate.New(gate.Options{}),
		revoker: deps.Revoker,
		limiter: deps.Limiter,
		log:     log,
	}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, r, http.StatusNotFound, "not_found")
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
			r.Post("/register", s.handleRegister)
			r.Post("/teacher-application", s.handleTeacherApplication)
			r.Get("/me", s.handleGetMe)
		})

		r.Route("/admin/users", func(r chi.Router) {
			r.Get("/", s.handleListUsers)
			r.Post("/{userId}/approve", s.handleApproveUser)
			r.Post("/{userId}/reject", s.handleRejectUser)
		})

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", s.handleListCourses)
			r.Post("/", s.handleCreateCourse)
			r.Get("/{courseId}", s.handleGetCourse)
			r.Get("/{courseId}/enrollments", s.handleListCourseEnrollments)
			r.Post("/{courseId}/enrollments", s.handleEnroll)
		})

		r.Get("/students/{studentId}/enrollments", s.handleListStudentEnrollments)
	})

	r.Handle("/*", s.gate.Wrap(s.pages()))
	return r
}

// pages serves the web bundle when one is configured.
func (s *Server) pages() http.Handler {
	if s.cfg.WebDir == "" {
		return http.NotFoundHandler()
	}
	return http.FileServer(http.Dir(s.cfg.WebDir))
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := s.log.With(zap.String("request_id", middleware.GetReqID(r.Context())))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), log)))

		log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// fail maps err to its status and code. Internal causes are logged, never returned.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.As(err)
	status := apperr.Status(appErr)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context(), s.log).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(appErr.Unwrap()),
		)
	}
	writeError(w, r, status, appErr.Code)
}

func (s *Server) secureCookies() bool {
	return s.cfg.Production()
}

type userSummary struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             *string   `json:"name,omitempty"`
	DisplayName      string    `json:"displayName"`
	Role             string    `json:"role"`
	IsApproved       bool      `json:"isApproved"`
	OnboardingStatus string    `json:"onboardingStatus"`
	CreatedAt        time.Time `json:"createdAt"`
}

func mapUser(user model.User) userSummary {
	return userSummary{
		ID:               user.ID,
		Email:            user.Email,
		Name:             user.Name,
		DisplayName:      user.DisplayName(),
		Role:             string(user.Role),
		IsApproved:       user.IsApproved,
		OnboardingStatus: string(user.OnboardingStatus),
		CreatedAt:        user.CreatedAt,
	}
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string) {
	writeJSON(w, status, map[string]string{
		"error":   code,
		"message": localize(r, status, code),
	})
}

// clientIP is the socket peer. Forwarding headers only count when TRUST_PROXY_HEADERS
// enables middleware.RealIP, which rewrites RemoteAddr before this runs.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
