package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	IdentityServiceName = "eduportal.identity.v1.IdentityQueryService"

	GetUserLiteMethod = "/" + IdentityServiceName + "/GetUserLite"
	ExistsMethod      = "/" + IdentityServiceName + "/Exists"
)

// IdentityQueryServiceServer answers identity lookups for other internal services.
// Messages are protobuf well-known types: the user id travels as a StringValue.
type IdentityQueryServiceServer interface {
	GetUserLite(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	Exists(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
}

func RegisterIdentityQueryServiceServer(s grpc.ServiceRegistrar, srv IdentityQueryServiceServer) {
	s.RegisterService(&IdentityQueryServiceDesc, srv)
}

var IdentityQueryServiceDesc = grpc.ServiceDesc{
	ServiceName: IdentityServiceName,
	HandlerType: (*IdentityQueryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetUserLite", Handler: getUserLiteHandler},
		{MethodName: "Exists", Handler: existsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "eduportal/identity/v1/identity.proto",
}

func getUserLiteHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdentityQueryServiceServer).GetUserLite(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetUserLiteMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IdentityQueryServiceServer).GetUserLite(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func existsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdentityQueryServiceServer).Exists(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ExistsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IdentityQueryServiceServer).Exists(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

type IdentityQueryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewIdentityQueryServiceClient(cc grpc.ClientConnInterface) *IdentityQueryServiceClient {
	return &IdentityQueryServiceClient{cc: cc}
}

func (c *IdentityQueryServiceClient) GetUserLite(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetUserLiteMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *IdentityQueryServiceClient) Exists(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, ExistsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
