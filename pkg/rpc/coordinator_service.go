package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// CoordinatorServer is implemented by the membership-registry RPC adapter.
type CoordinatorServer interface {
	RegisterWorker(context.Context, *RegisterWorkerRequest) (*RegisterWorkerResponse, error)
	Heartbeat(context.Context, *HeartbeatRequest) (*HeartbeatResponse, error)
	ListWorkers(context.Context, *ListWorkersRequest) (*ListWorkersResponse, error)
	GetAggregatorAddress(context.Context, *GetAggregatorAddressRequest) (*GetAggregatorAddressResponse, error)
}

// CoordinatorClient is the worker-facing stub for the registry service.
type CoordinatorClient interface {
	RegisterWorker(ctx context.Context, in *RegisterWorkerRequest, opts ...grpc.CallOption) (*RegisterWorkerResponse, error)
	Heartbeat(ctx context.Context, in *HeartbeatRequest, opts ...grpc.CallOption) (*HeartbeatResponse, error)
	ListWorkers(ctx context.Context, in *ListWorkersRequest, opts ...grpc.CallOption) (*ListWorkersResponse, error)
	GetAggregatorAddress(ctx context.Context, in *GetAggregatorAddressRequest, opts ...grpc.CallOption) (*GetAggregatorAddressResponse, error)
}

type coordinatorClient struct {
	cc *grpc.ClientConn
}

// NewCoordinatorClient wraps conn in a client stub pinned to the JSON
// codec.
func NewCoordinatorClient(conn *grpc.ClientConn) CoordinatorClient {
	return &coordinatorClient{cc: conn}
}

func (c *coordinatorClient) RegisterWorker(ctx context.Context, in *RegisterWorkerRequest, opts ...grpc.CallOption) (*RegisterWorkerResponse, error) {
	out := new(RegisterWorkerResponse)
	opts = append(opts, CallOption)
	if err := c.cc.Invoke(ctx, "/rpc.Coordinator/RegisterWorker", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *coordinatorClient) Heartbeat(ctx context.Context, in *HeartbeatRequest, opts ...grpc.CallOption) (*HeartbeatResponse, error) {
	out := new(HeartbeatResponse)
	opts = append(opts, CallOption)
	if err := c.cc.Invoke(ctx, "/rpc.Coordinator/Heartbeat", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *coordinatorClient) ListWorkers(ctx context.Context, in *ListWorkersRequest, opts ...grpc.CallOption) (*ListWorkersResponse, error) {
	out := new(ListWorkersResponse)
	opts = append(opts, CallOption)
	if err := c.cc.Invoke(ctx, "/rpc.Coordinator/ListWorkers", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *coordinatorClient) GetAggregatorAddress(ctx context.Context, in *GetAggregatorAddressRequest, opts ...grpc.CallOption) (*GetAggregatorAddressResponse, error) {
	out := new(GetAggregatorAddressResponse)
	opts = append(opts, CallOption)
	if err := c.cc.Invoke(ctx, "/rpc.Coordinator/GetAggregatorAddress", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _Coordinator_RegisterWorker_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RegisterWorkerRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).RegisterWorker(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/rpc.Coordinator/RegisterWorker"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).RegisterWorker(ctx, req.(*RegisterWorkerRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Coordinator_Heartbeat_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(HeartbeatRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).Heartbeat(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/rpc.Coordinator/Heartbeat"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).Heartbeat(ctx, req.(*HeartbeatRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Coordinator_ListWorkers_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListWorkersRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).ListWorkers(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/rpc.Coordinator/ListWorkers"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).ListWorkers(ctx, req.(*ListWorkersRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Coordinator_GetAggregatorAddress_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetAggregatorAddressRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServer).GetAggregatorAddress(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/rpc.Coordinator/GetAggregatorAddress"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CoordinatorServer).GetAggregatorAddress(ctx, req.(*GetAggregatorAddressRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// CoordinatorServiceDesc is the hand-built grpc.ServiceDesc standing in for
// what protoc-gen-go-grpc would otherwise generate from a .proto file.
var CoordinatorServiceDesc = grpc.ServiceDesc{
	ServiceName: "rpc.Coordinator",
	HandlerType: (*CoordinatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RegisterWorker", Handler: _Coordinator_RegisterWorker_Handler},
		{MethodName: "Heartbeat", Handler: _Coordinator_Heartbeat_Handler},
		{MethodName: "ListWorkers", Handler: _Coordinator_ListWorkers_Handler},
		{MethodName: "GetAggregatorAddress", Handler: _Coordinator_GetAggregatorAddress_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rpc/coordinator.proto",
}

// RegisterCoordinatorServer registers srv's methods on s under the service
// name expected by CoordinatorClient.
func RegisterCoordinatorServer(s grpc.ServiceRegistrar, srv CoordinatorServer) {
	s.RegisterService(&CoordinatorServiceDesc, srv)
}
