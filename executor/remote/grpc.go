package remote

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ExecutorServer is the server API for the Executor gRPC service.
//
// Requests and replies are SCALE-encoded wire structs carried in protobuf
// BytesValue wrappers, so no protoc toolchain is needed.
type ExecutorServer interface {
	Call(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Engine(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

// UnimplementedExecutorServer can be embedded to have forward compatible implementations.
type UnimplementedExecutorServer struct{}

func (UnimplementedExecutorServer) Call(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Call not implemented")
}
func (UnimplementedExecutorServer) Engine(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Engine not implemented")
}

// RegisterExecutorServer registers the Executor service on a gRPC server.
func RegisterExecutorServer(s grpc.ServiceRegistrar, srv ExecutorServer) {
	s.RegisterService(&Executor_ServiceDesc, srv)
}

// ExecutorClient is the client API for the Executor gRPC service.
type ExecutorClient interface {
	Call(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Engine(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
}

type executorClient struct{ cc grpc.ClientConnInterface }

func NewExecutorClient(cc grpc.ClientConnInterface) ExecutorClient { return &executorClient{cc: cc} }

const (
	serviceName      = "nftbridge.executor.v1.Executor"
	callMethodName   = "/" + serviceName + "/Call"
	engineMethodName = "/" + serviceName + "/Engine"
)

func (c *executorClient) Call(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, callMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *executorClient) Engine(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, engineMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _Executor_Call_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExecutorServer).Call(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: callMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExecutorServer).Call(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Executor_Engine_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExecutorServer).Engine(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: engineMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExecutorServer).Engine(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Executor_ServiceDesc is the grpc.ServiceDesc for the Executor service.
var Executor_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ExecutorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Call", Handler: _Executor_Call_Handler},
		{MethodName: "Engine", Handler: _Executor_Engine_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "executor.proto",
}
