// Package coordsrv adapts pkg/coordinator.Coordinator onto the gRPC wire
// contract defined in pkg/rpc and layers in request metrics and the
// background eviction sweep.
package coordsrv

import (
	"context"
	"time"

	"github.com/syncfl/control-plane/pkg/coordinator"
	"github.com/syncfl/control-plane/pkg/metrics"
	"github.com/syncfl/control-plane/pkg/rpc"
)

// Service implements rpc.CoordinatorServer over a *coordinator.Coordinator.
type Service struct {
	coord *coordinator.Coordinator
}

// New wraps coord for gRPC service registration.
func New(coord *coordinator.Coordinator) *Service {
	return &Service{coord: coord}
}

// StartEvictionSweep launches the coordinator's background stale-worker
// sweep and keeps RegisteredWorkers/WorkersEvictedTotal current. It
// returns a stop channel the caller closes to end the sweep at shutdown.
func (s *Service) StartEvictionSweep(interval, timeout time.Duration) chan<- struct{} {
	stop := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				evicted := s.coord.RemoveStale(timeout)
				if evicted > 0 {
					metrics.WorkersEvictedTotal.Add(float64(evicted))
				}
				metrics.RegisteredWorkers.Set(float64(len(s.coord.ListWorkers())))
			case <-stop:
				return
			}
		}
	}()
	return stop
}

func observe(method string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RPCRequestsTotal.WithLabelValues("Coordinator", method, status).Inc()
	metrics.RPCRequestDuration.WithLabelValues("Coordinator", method).Observe(time.Since(start).Seconds())
}

// RegisterWorker implements rpc.CoordinatorServer.
func (s *Service) RegisterWorker(ctx context.Context, req *rpc.RegisterWorkerRequest) (resp *rpc.RegisterWorkerResponse, err error) {
	defer func(start time.Time) { observe("RegisterWorker", start, err) }(time.Now())

	address, port, total := s.coord.RegisterWorker(coordinator.Entry{
		WorkerID:   req.WorkerID,
		InstanceID: req.InstanceID,
		Address:    req.Address,
		Port:       req.Port,
		Hostname:   req.Hostname,
	})
	metrics.RegisteredWorkers.Set(float64(total))
	return &rpc.RegisterWorkerResponse{
		Success:           true,
		Message:           "worker registered",
		AggregatorAddress: address,
		AggregatorPort:    port,
		TotalWorkers:      int32(total),
	}, nil
}

// Heartbeat implements rpc.CoordinatorServer.
func (s *Service) Heartbeat(ctx context.Context, req *rpc.HeartbeatRequest) (resp *rpc.HeartbeatResponse, err error) {
	defer func(start time.Time) { observe("Heartbeat", start, err) }(time.Now())
	ok := s.coord.Heartbeat(req.WorkerID, coordinator.Status(req.Status))
	return &rpc.HeartbeatResponse{Success: ok, Timestamp: time.Now().Unix()}, nil
}

// ListWorkers implements rpc.CoordinatorServer.
func (s *Service) ListWorkers(ctx context.Context, req *rpc.ListWorkersRequest) (resp *rpc.ListWorkersResponse, err error) {
	defer func(start time.Time) { observe("ListWorkers", start, err) }(time.Now())

	entries := s.coord.ListWorkers()
	workers := make([]rpc.WorkerInfo, len(entries))
	for i, e := range entries {
		workers[i] = rpc.ToWorkerInfo(e)
	}
	return &rpc.ListWorkersResponse{Workers: workers, TotalWorkers: int32(len(workers))}, nil
}

// GetAggregatorAddress implements rpc.CoordinatorServer.
func (s *Service) GetAggregatorAddress(ctx context.Context, req *rpc.GetAggregatorAddressRequest) (resp *rpc.GetAggregatorAddressResponse, err error) {
	defer func(start time.Time) { observe("GetAggregatorAddress", start, err) }(time.Now())
	address, port := s.coord.GetAggregatorAddress()
	return &rpc.GetAggregatorAddressResponse{Address: address, Port: port}, nil
}
