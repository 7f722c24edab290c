package grpc

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const ServiceTokenHeader = "x-service-token"

// NewServiceAuthUnaryInterceptor admits calls carrying any of the accepted service
// tokens. More than one token is accepted so callers can rotate without downtime.
func NewServiceAuthUnaryInterceptor(accepted ...string) (grpc.UnaryServerInterceptor, error) {
	tokens := make([][]byte, 0, len(accepted))
	for _, token := range accepted {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, []byte(token))
		}
	}
	if len(tokens) == 0 {
		return nil, errors.New("service auth token required")
	}

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		presented := incomingServiceToken(ctx)
		if presented == "" {
			return nil, status.Error(codes.Unauthenticated, "missing_service_token")
		}
		if !acceptsToken(tokens, []byte(presented)) {
			return nil, status.Error(codes.PermissionDenied, "invalid_service_token")
		}
		return handler(ctx, req)
	}, nil
}

// acceptsToken compares against every candidate so timing does not reveal which one matched.
func acceptsToken(tokens [][]byte, presented []byte) bool {
	matched := 0
	for _, token := range tokens {
		matched |= subtle.ConstantTimeCompare(token, presented)
	}
	return matched == 1
}

func incomingServiceToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, value := range md.Get(ServiceTokenHeader) {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}
