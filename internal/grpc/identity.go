package grpc

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/apperr"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/model"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/repository"
)

type UserStore interface {
	GetUserByID(ctx context.Context, userID string) (model.User, error)
}

type IdentityServer struct {
	store UserStore
	log   *zap.Logger
}

func NewIdentityServer(store UserStore, log *zap.Logger) *IdentityServer {
	if log == nil {
		log = zap.NewNop()
	}
	return &IdentityServer{store: store, log: log}
}

func (s *IdentityServer) GetUserLite(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	userID := strings.TrimSpace(req.GetValue())
	if userID == "" {
		return nil, status.Error(codes.InvalidArgument, "user_id required")
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, s.toStatus(err)
	}

	fields := map[string]interface{}{
		"id":               user.ID,
		"email":            user.Email,
		"displayName":      user.DisplayName(),
		"role":             string(user.Role),
		"isApproved":       user.IsApproved,
		"onboardingStatus": string(user.OnboardingStatus),
	}
	if user.Name != nil {
		fields["name"] = *user.Name
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return out, nil
}

func (s *IdentityServer) Exists(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	userID := strings.TrimSpace(req.GetValue())
	if userID == "" {
		return nil, status.Error(codes.InvalidArgument, "user_id required")
	}
	_, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return wrapperspb.Bool(false), nil
	}
	if err != nil {
		return nil, s.toStatus(err)
	}
	return wrapperspb.Bool(true), nil
}

// toStatus maps store and classified errors onto gRPC codes without exposing causes.
func (s *IdentityServer) toStatus(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return status.Error(codes.NotFound, "user not found")
	}
	switch apperr.As(err).Kind {
	case apperr.KindUnauthenticated:
		return status.Error(codes.Unauthenticated, "unauthenticated")
	case apperr.KindForbidden:
		return status.Error(codes.PermissionDenied, "forbidden")
	case apperr.KindNotFound:
		return status.Error(codes.NotFound, "not found")
	case apperr.KindInvalid:
		return status.Error(codes.InvalidArgument, "invalid request")
	default:
		s.log.Error("identity lookup failed", zap.Error(err))
		return status.Error(codes.Internal, "lookup failed")
	}
}
