// Package aggsrv adapts pkg/aggregator.Aggregator onto the gRPC wire
// contract defined in pkg/rpc, and layers on the process-level concerns a
// bare library does not have: checkpoint scheduling and request metrics.
package aggsrv

import (
	"context"
	"log"
	"time"

	"github.com/syncfl/control-plane/pkg/aggregator"
	"github.com/syncfl/control-plane/pkg/checkpoint"
	"github.com/syncfl/control-plane/pkg/metrics"
	"github.com/syncfl/control-plane/pkg/rpc"
)

// Service implements rpc.AggregatorServer over an *aggregator.Aggregator.
// When store is non-nil, every checkpointInterval-th completed iteration
// (skipping iteration 0) is persisted automatically; checkpointInterval<=0
// disables automatic checkpointing, leaving SaveCheckpoint/LoadCheckpoint
// as explicit operator actions.
type Service struct {
	agg                *aggregator.Aggregator
	store              checkpoint.Store
	checkpointInterval int32
	onComplete         func(iteration int32)
}

// New wraps agg for gRPC service registration.
func New(agg *aggregator.Aggregator, store checkpoint.Store, checkpointInterval int32) *Service {
	return &Service{agg: agg, store: store, checkpointInterval: checkpointInterval}
}

// OnIterationComplete registers a callback invoked whenever a barrier
// closes, after checkpointing. Intended for the monitor dashboard's
// WebSocket broadcast; nil by default.
func (s *Service) OnIterationComplete(f func(iteration int32)) {
	s.onComplete = f
}

func observe(method string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RPCRequestsTotal.WithLabelValues("Aggregator", method, status).Inc()
	metrics.RPCRequestDuration.WithLabelValues("Aggregator", method).Observe(time.Since(start).Seconds())
}

// PushGradients implements rpc.AggregatorServer.
func (s *Service) PushGradients(ctx context.Context, req *rpc.PushGradientsRequest) (resp *rpc.PushGradientsResponse, err error) {
	defer func(start time.Time) { observe("PushGradients", start, err) }(time.Now())

	received, complete := s.agg.ReceiveGradients(req.WorkerID, req.Iteration, req.Gradients)
	message := "gradients recorded"
	if complete {
		message = "aggregation complete"
		metrics.GradientAggregationsTotal.Inc()
		metrics.CurrentIteration.Set(float64(s.agg.CurrentIteration()))
		s.maybeCheckpoint(req.Iteration)
		if s.onComplete != nil {
			s.onComplete(req.Iteration)
		}
	}
	return &rpc.PushGradientsResponse{
		Success:             true,
		Message:             message,
		Iteration:           req.Iteration,
		AggregationComplete: complete,
		WorkersReceived:     int32(received),
		TotalWorkers:        int32(s.agg.TotalWorkers()),
	}, nil
}

// PullParameters implements rpc.AggregatorServer.
func (s *Service) PullParameters(ctx context.Context, req *rpc.PullParametersRequest) (resp *rpc.PullParametersResponse, err error) {
	defer func(start time.Time) { observe("PullParameters", start, err) }(time.Now())
	params := s.agg.ServeParameters(req.Iteration)
	return &rpc.PullParametersResponse{
		Iteration:  req.Iteration,
		Ready:      len(params) > 0,
		Parameters: params,
	}, nil
}

// CheckSyncStatus implements rpc.AggregatorServer.
func (s *Service) CheckSyncStatus(ctx context.Context, req *rpc.CheckSyncStatusRequest) (resp *rpc.CheckSyncStatusResponse, err error) {
	defer func(start time.Time) { observe("CheckSyncStatus", start, err) }(time.Now())
	received, aggregated := s.agg.CheckSyncStatus(req.Iteration)
	return &rpc.CheckSyncStatusResponse{
		Iteration:       req.Iteration,
		Ready:           aggregated,
		WorkersReceived: int32(received),
		TotalWorkers:    int32(s.agg.TotalWorkers()),
	}, nil
}

// SaveCheckpoint implements rpc.AggregatorServer.
func (s *Service) SaveCheckpoint(ctx context.Context, req *rpc.SaveCheckpointRequest) (resp *rpc.SaveCheckpointResponse, err error) {
	defer func(start time.Time) { observe("SaveCheckpoint", start, err) }(time.Now())

	if s.store == nil {
		return &rpc.SaveCheckpointResponse{Success: false, Message: "no checkpoint store configured"}, nil
	}
	ok, path := s.agg.SaveCheckpoint(req.Epoch, req.Path, s.store)
	if !ok {
		return &rpc.SaveCheckpointResponse{Success: false, Message: "checkpoint save failed"}, nil
	}
	metrics.CheckpointsSavedTotal.Inc()
	return &rpc.SaveCheckpointResponse{Success: true, Message: "checkpoint saved", CheckpointPath: path}, nil
}

// LoadCheckpoint implements rpc.AggregatorServer.
func (s *Service) LoadCheckpoint(ctx context.Context, req *rpc.LoadCheckpointRequest) (resp *rpc.LoadCheckpointResponse, err error) {
	defer func(start time.Time) { observe("LoadCheckpoint", start, err) }(time.Now())

	if s.store == nil {
		return &rpc.LoadCheckpointResponse{Success: false, Message: "no checkpoint store configured"}, nil
	}
	ok, epoch := s.agg.LoadCheckpoint(req.Path, s.store)
	if !ok {
		return &rpc.LoadCheckpointResponse{Success: false, Message: "checkpoint restore failed"}, nil
	}
	return &rpc.LoadCheckpointResponse{
		Success:    true,
		Message:    "checkpoint restored",
		Epoch:      epoch,
		Parameters: s.agg.ServeParameters(0),
	}, nil
}

// maybeCheckpoint saves a checkpoint when iteration is a positive multiple
// of checkpointInterval. Iteration 0 is never auto-checkpointed — it is
// the cold-start round, before any meaningful averaging has happened.
func (s *Service) maybeCheckpoint(iteration int32) {
	if s.store == nil || s.checkpointInterval <= 0 || iteration == 0 {
		return
	}
	if iteration%s.checkpointInterval != 0 {
		return
	}
	ok, path := s.agg.SaveCheckpoint(iteration, "", s.store)
	if !ok {
		log.Printf("aggsrv: checkpoint at iteration %d failed", iteration)
		return
	}
	metrics.CheckpointsSavedTotal.Inc()
	log.Printf("aggsrv: checkpoint saved at iteration %d -> %s", iteration, path)
}
