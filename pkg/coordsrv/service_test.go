package coordsrv

import (
	"context"
	"testing"
	"time"

	"github.com/syncfl/control-plane/pkg/coordinator"
	"github.com/syncfl/control-plane/pkg/rpc"
)

func TestRegisterWorker_ReturnsAggregatorEndpoint(t *testing.T) {
	svc := New(coordinator.New("10.0.0.5", 50051))

	resp, err := svc.RegisterWorker(context.Background(), &rpc.RegisterWorkerRequest{WorkerID: 0, Address: "10.0.0.9", Port: 9000})
	if err != nil {
		t.Fatalf("RegisterWorker() error = %v", err)
	}
	if resp.AggregatorAddress != "10.0.0.5" || resp.AggregatorPort != 50051 || resp.TotalWorkers != 1 {
		t.Errorf("RegisterWorker() = %+v, want {10.0.0.5 50051 1}", resp)
	}
}

func TestHeartbeat_UnregisteredWorkerReturnsNotOk(t *testing.T) {
	svc := New(coordinator.New("localhost", 50051))
	resp, err := svc.Heartbeat(context.Background(), &rpc.HeartbeatRequest{WorkerID: 42})
	if err != nil {
		t.Fatalf("Heartbeat() error = %v", err)
	}
	if resp.Success {
		t.Errorf("Heartbeat() Success = true for unregistered worker, want false")
	}
}

func TestListWorkers_ReflectsRegistrations(t *testing.T) {
	svc := New(coordinator.New("localhost", 50051))
	svc.RegisterWorker(context.Background(), &rpc.RegisterWorkerRequest{WorkerID: 3, Hostname: "node-3"})

	resp, err := svc.ListWorkers(context.Background(), &rpc.ListWorkersRequest{})
	if err != nil {
		t.Fatalf("ListWorkers() error = %v", err)
	}
	if len(resp.Workers) != 1 || resp.Workers[0].WorkerID != 3 || resp.Workers[0].Hostname != "node-3" {
		t.Errorf("ListWorkers() = %+v, want one worker with id 3", resp.Workers)
	}
}

func TestStartEvictionSweep_EvictsStaleWorkers(t *testing.T) {
	coord := coordinator.New("localhost", 50051)
	coord.RegisterWorker(coordinator.Entry{WorkerID: 1})
	svc := New(coord)

	stop := svc.StartEvictionSweep(10*time.Millisecond, 5*time.Millisecond)
	defer close(stop)

	deadline := time.After(500 * time.Millisecond)
	for {
		if len(coord.ListWorkers()) == 0 {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("worker was not evicted within the deadline")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestHeartbeat_RegisteredWorkerStampsTimestamp(t *testing.T) {
	svc := New(coordinator.New("localhost", 50051))
	svc.RegisterWorker(context.Background(), &rpc.RegisterWorkerRequest{WorkerID: 5})

	resp, err := svc.Heartbeat(context.Background(), &rpc.HeartbeatRequest{WorkerID: 5, Status: 1})
	if err != nil {
		t.Fatalf("Heartbeat() error = %v", err)
	}
	if !resp.Success || resp.Timestamp == 0 {
		t.Errorf("Heartbeat() = %+v, want success with a timestamp", resp)
	}
}
