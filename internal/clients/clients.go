package clients

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	portalgrpc "github.com/Abdelwahab08/islamic-projectttt-sub002/internal/grpc"
)

type Clients struct {
	IdentityConn *grpc.ClientConn
	Identity     *portalgrpc.IdentityQueryServiceClient
}

func New(ctx context.Context, identityAddr, serviceToken string, timeout time.Duration, opts ...grpc.DialOption) (*Clients, error) {
	identityConn, err := dial(ctx, identityAddr, serviceToken, timeout, opts...)
	if err != nil {
		return nil, err
	}
	return &Clients{
		IdentityConn: identityConn,
		Identity:     portalgrpc.NewIdentityQueryServiceClient(identityConn),
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.IdentityConn != nil {
		_ = c.IdentityConn.Close()
	}
}

func dial(ctx context.Context, addr, serviceToken string, timeout time.Duration, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(serviceTokenInterceptor(serviceToken)),
	}
	return grpc.DialContext(ctx, addr, append(dialOpts, opts...)...)
}

func serviceTokenInterceptor(token string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if token != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, portalgrpc.ServiceTokenHeader, token)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}
