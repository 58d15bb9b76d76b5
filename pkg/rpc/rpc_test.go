package rpc

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/syncfl/control-plane/pkg/tensor"
)

type stubAggregatorServer struct{}

func (stubAggregatorServer) PushGradients(ctx context.Context, in *PushGradientsRequest) (*PushGradientsResponse, error) {
	return &PushGradientsResponse{
		Success:             true,
		Iteration:           in.Iteration,
		AggregationComplete: in.WorkerID == 1,
		WorkersReceived:     2,
		TotalWorkers:        2,
	}, nil
}

func (stubAggregatorServer) PullParameters(ctx context.Context, in *PullParametersRequest) (*PullParametersResponse, error) {
	return &PullParametersResponse{
		Iteration:  in.Iteration,
		Ready:      true,
		Parameters: tensor.Set{{Name: "w", Shape: []int32{2}, Data: []float32{1, 2}}},
	}, nil
}

func (stubAggregatorServer) CheckSyncStatus(ctx context.Context, in *CheckSyncStatusRequest) (*CheckSyncStatusResponse, error) {
	return &CheckSyncStatusResponse{Iteration: in.Iteration, Ready: true, WorkersReceived: 2, TotalWorkers: 2}, nil
}

func (stubAggregatorServer) SaveCheckpoint(ctx context.Context, in *SaveCheckpointRequest) (*SaveCheckpointResponse, error) {
	return &SaveCheckpointResponse{Success: true, CheckpointPath: "checkpoint_epoch_1.ckpt"}, nil
}

func (stubAggregatorServer) LoadCheckpoint(ctx context.Context, in *LoadCheckpointRequest) (*LoadCheckpointResponse, error) {
	return &LoadCheckpointResponse{Success: true, Epoch: 4}, nil
}

func dialAggregator(t *testing.T) AggregatorClient {
	t.Helper()
	listener := bufconn.Listen(1024 * 1024)

	server := grpc.NewServer()
	RegisterAggregatorServer(server, stubAggregatorServer{})
	go server.Serve(listener)
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("grpc.NewClient() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return NewAggregatorClient(conn)
}

func TestAggregatorClient_PushGradientsOverJSONCodec(t *testing.T) {
	client := dialAggregator(t)

	resp, err := client.PushGradients(context.Background(), &PushGradientsRequest{
		WorkerID:  1,
		Iteration: 0,
		Gradients: tensor.Set{{Name: "w", Shape: []int32{2}, Data: []float32{0.1, 0.2}}},
	})
	if err != nil {
		t.Fatalf("PushGradients() error = %v", err)
	}
	if !resp.AggregationComplete {
		t.Errorf("PushGradients() AggregationComplete = false, want true")
	}
	if resp.WorkersReceived != 2 || resp.TotalWorkers != 2 {
		t.Errorf("PushGradients() progress = %d/%d, want 2/2", resp.WorkersReceived, resp.TotalWorkers)
	}
}

func TestAggregatorClient_PullParametersOverJSONCodec(t *testing.T) {
	client := dialAggregator(t)

	resp, err := client.PullParameters(context.Background(), &PullParametersRequest{Iteration: 0})
	if err != nil {
		t.Fatalf("PullParameters() error = %v", err)
	}
	if len(resp.Parameters) != 1 || resp.Parameters[0].Name != "w" {
		t.Errorf("PullParameters() = %+v, want one tensor named w", resp.Parameters)
	}
}

func TestAggregatorClient_CheckSyncStatusOverJSONCodec(t *testing.T) {
	client := dialAggregator(t)

	resp, err := client.CheckSyncStatus(context.Background(), &CheckSyncStatusRequest{Iteration: 0})
	if err != nil {
		t.Fatalf("CheckSyncStatus() error = %v", err)
	}
	if resp.WorkersReceived != 2 || !resp.Ready {
		t.Errorf("CheckSyncStatus() = %+v, want 2 received and ready", resp)
	}
}
