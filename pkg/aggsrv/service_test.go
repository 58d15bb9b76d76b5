package aggsrv

import (
	"context"
	"testing"

	"github.com/syncfl/control-plane/pkg/aggregator"
	"github.com/syncfl/control-plane/pkg/checkpoint"
	"github.com/syncfl/control-plane/pkg/rpc"
	"github.com/syncfl/control-plane/pkg/tensor"
)

func TestPushGradients_CompletesBarrierAtTotalWorkers(t *testing.T) {
	svc := New(aggregator.New(2), nil, 0)
	ctx := context.Background()

	resp, err := svc.PushGradients(ctx, &rpc.PushGradientsRequest{
		WorkerID: 0, Iteration: 0,
		Gradients: tensor.Set{{Name: "w", Shape: []int32{1}, Data: []float32{1}}},
	})
	if err != nil {
		t.Fatalf("PushGradients() error = %v", err)
	}
	if resp.AggregationComplete {
		t.Fatalf("PushGradients() AggregationComplete = true after 1 of 2 workers, want false")
	}
	if resp.WorkersReceived != 1 || resp.TotalWorkers != 2 {
		t.Fatalf("PushGradients() progress = %d/%d, want 1/2", resp.WorkersReceived, resp.TotalWorkers)
	}

	resp, err = svc.PushGradients(ctx, &rpc.PushGradientsRequest{
		WorkerID: 1, Iteration: 0,
		Gradients: tensor.Set{{Name: "w", Shape: []int32{1}, Data: []float32{3}}},
	})
	if err != nil {
		t.Fatalf("PushGradients() error = %v", err)
	}
	if !resp.AggregationComplete {
		t.Fatalf("PushGradients() AggregationComplete = false after 2 of 2 workers, want true")
	}
	if resp.WorkersReceived != 2 {
		t.Fatalf("PushGradients() WorkersReceived = %d, want 2", resp.WorkersReceived)
	}
}

func TestSaveCheckpoint_NoStoreConfiguredReturnsNotOk(t *testing.T) {
	svc := New(aggregator.New(1), nil, 0)
	resp, err := svc.SaveCheckpoint(context.Background(), &rpc.SaveCheckpointRequest{Epoch: 1})
	if err != nil {
		t.Fatalf("SaveCheckpoint() error = %v", err)
	}
	if resp.Success {
		t.Errorf("SaveCheckpoint() Success = true with no store configured, want false")
	}
}

func TestPushGradients_AutoCheckpointsAtInterval(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	agg := aggregator.New(1)
	agg.Initialize(tensor.Set{{Name: "w", Shape: []int32{1}, Data: []float32{10}}})
	svc := New(agg, store, 2)
	ctx := context.Background()

	svc.PushGradients(ctx, &rpc.PushGradientsRequest{
		WorkerID: 0, Iteration: 1,
		Gradients: tensor.Set{{Name: "w", Shape: []int32{1}, Data: []float32{1}}},
	})
	svc.PushGradients(ctx, &rpc.PushGradientsRequest{
		WorkerID: 0, Iteration: 2,
		Gradients: tensor.Set{{Name: "w", Shape: []int32{1}, Data: []float32{1}}},
	})

	if _, _, err := store.Load(checkpoint.DefaultPath(2)); err != nil {
		t.Errorf("expected checkpoint at iteration 2 to have been auto-saved, Load() error = %v", err)
	}
}

func TestPullParameters_FreshAggregatorNotReady(t *testing.T) {
	svc := New(aggregator.New(2), nil, 0)

	resp, err := svc.PullParameters(context.Background(), &rpc.PullParametersRequest{Iteration: 0})
	if err != nil {
		t.Fatalf("PullParameters() error = %v", err)
	}
	if resp.Ready || len(resp.Parameters) != 0 {
		t.Errorf("PullParameters() before init = ready=%v %+v, want not ready and empty", resp.Ready, resp.Parameters)
	}
}

func TestPullParameters_ReturnsCurrentParameters(t *testing.T) {
	agg := aggregator.New(1)
	agg.Initialize(tensor.Set{{Name: "w", Shape: []int32{1}, Data: []float32{5}}})
	svc := New(agg, nil, 0)

	resp, err := svc.PullParameters(context.Background(), &rpc.PullParametersRequest{})
	if err != nil {
		t.Fatalf("PullParameters() error = %v", err)
	}
	if !resp.Ready || len(resp.Parameters) != 1 || resp.Parameters[0].Data[0] != 5 {
		t.Errorf("PullParameters() = ready=%v %+v, want ready with [{w [1] [5]}]", resp.Ready, resp.Parameters)
	}
}
