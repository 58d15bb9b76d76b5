package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// AggregatorServer is implemented by the parameter-server RPC adapter.
type AggregatorServer interface {
	PushGradients(context.Context, *PushGradientsRequest) (*PushGradientsResponse, error)
	PullParameters(context.Context, *PullParametersRequest) (*PullParametersResponse, error)
	CheckSyncStatus(context.Context, *CheckSyncStatusRequest) (*CheckSyncStatusResponse, error)
	SaveCheckpoint(context.Context, *SaveCheckpointRequest) (*SaveCheckpointResponse, error)
	LoadCheckpoint(context.Context, *LoadCheckpointRequest) (*LoadCheckpointResponse, error)
}

// AggregatorClient is the worker-facing stub for the parameter-server
// service.
type AggregatorClient interface {
	PushGradients(ctx context.Context, in *PushGradientsRequest, opts ...grpc.CallOption) (*PushGradientsResponse, error)
	PullParameters(ctx context.Context, in *PullParametersRequest, opts ...grpc.CallOption) (*PullParametersResponse, error)
	CheckSyncStatus(ctx context.Context, in *CheckSyncStatusRequest, opts ...grpc.CallOption) (*CheckSyncStatusResponse, error)
	SaveCheckpoint(ctx context.Context, in *SaveCheckpointRequest, opts ...grpc.CallOption) (*SaveCheckpointResponse, error)
	LoadCheckpoint(ctx context.Context, in *LoadCheckpointRequest, opts ...grpc.CallOption) (*LoadCheckpointResponse, error)
}

type aggregatorClient struct {
	cc *grpc.ClientConn
}

// NewAggregatorClient wraps conn in a client stub. Every call is pinned to
// the JSON codec via CallOption.
func NewAggregatorClient(conn *grpc.ClientConn) AggregatorClient {
	return &aggregatorClient{cc: conn}
}

func (c *aggregatorClient) PushGradients(ctx context.Context, in *PushGradientsRequest, opts ...grpc.CallOption) (*PushGradientsResponse, error) {
	out := new(PushGradientsResponse)
	opts = append(opts, CallOption)
	if err := c.cc.Invoke(ctx, "/rpc.Aggregator/PushGradients", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *aggregatorClient) PullParameters(ctx context.Context, in *PullParametersRequest, opts ...grpc.CallOption) (*PullParametersResponse, error) {
	out := new(PullParametersResponse)
	opts = append(opts, CallOption)
	if err := c.cc.Invoke(ctx, "/rpc.Aggregator/PullParameters", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *aggregatorClient) CheckSyncStatus(ctx context.Context, in *CheckSyncStatusRequest, opts ...grpc.CallOption) (*CheckSyncStatusResponse, error) {
	out := new(CheckSyncStatusResponse)
	opts = append(opts, CallOption)
	if err := c.cc.Invoke(ctx, "/rpc.Aggregator/CheckSyncStatus", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *aggregatorClient) SaveCheckpoint(ctx context.Context, in *SaveCheckpointRequest, opts ...grpc.CallOption) (*SaveCheckpointResponse, error) {
	out := new(SaveCheckpointResponse)
	opts = append(opts, CallOption)
	if err := c.cc.Invoke(ctx, "/rpc.Aggregator/SaveCheckpoint", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *aggregatorClient) LoadCheckpoint(ctx context.Context, in *LoadCheckpointRequest, opts ...grpc.CallOption) (*LoadCheckpointResponse, error) {
	out := new(LoadCheckpointResponse)
	opts = append(opts, CallOption)
	if err := c.cc.Invoke(ctx, "/rpc.Aggregator/LoadCheckpoint", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _Aggregator_PushGradients_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(PushGradientsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AggregatorServer).PushGradients(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/rpc.Aggregator/PushGradients"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AggregatorServer).PushGradients(ctx, req.(*PushGradientsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Aggregator_PullParameters_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(PullParametersRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AggregatorServer).PullParameters(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/rpc.Aggregator/PullParameters"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AggregatorServer).PullParameters(ctx, req.(*PullParametersRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Aggregator_CheckSyncStatus_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CheckSyncStatusRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AggregatorServer).CheckSyncStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/rpc.Aggregator/CheckSyncStatus"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AggregatorServer).CheckSyncStatus(ctx, req.(*CheckSyncStatusRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Aggregator_SaveCheckpoint_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SaveCheckpointRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AggregatorServer).SaveCheckpoint(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/rpc.Aggregator/SaveCheckpoint"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AggregatorServer).SaveCheckpoint(ctx, req.(*SaveCheckpointRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Aggregator_LoadCheckpoint_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(LoadCheckpointRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AggregatorServer).LoadCheckpoint(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/rpc.Aggregator/LoadCheckpoint"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AggregatorServer).LoadCheckpoint(ctx, req.(*LoadCheckpointRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// AggregatorServiceDesc is the hand-built grpc.ServiceDesc standing in for
// what protoc-gen-go-grpc would otherwise generate from a .proto file.
var AggregatorServiceDesc = grpc.ServiceDesc{
	ServiceName: "rpc.Aggregator",
	HandlerType: (*AggregatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "PushGradients", Handler: _Aggregator_PushGradients_Handler},
		{MethodName: "PullParameters", Handler: _Aggregator_PullParameters_Handler},
		{MethodName: "CheckSyncStatus", Handler: _Aggregator_CheckSyncStatus_Handler},
		{MethodName: "SaveCheckpoint", Handler: _Aggregator_SaveCheckpoint_Handler},
		{MethodName: "LoadCheckpoint", Handler: _Aggregator_LoadCheckpoint_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rpc/aggregator.proto",
}

// RegisterAggregatorServer registers srv's methods on s under the service
// name expected by AggregatorClient.
func RegisterAggregatorServer(s grpc.ServiceRegistrar, srv AggregatorServer) {
	s.RegisterService(&AggregatorServiceDesc, srv)
}
