// Package worker implements the iteration loop driven by a training
// worker process: discover the aggregator through the coordinator,
// register, heartbeat in the background, then repeatedly pull parameters,
// compute gradients, push them, and wait out the barrier.
package worker

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/syncfl/control-plane/pkg/coordinator"
	"github.com/syncfl/control-plane/pkg/rpc"
	"github.com/syncfl/control-plane/pkg/tensor"
)

// Config controls one worker's participation in the cohort. Zero-valued
// fields fall back to the loop's standard constants.
type Config struct {
	WorkerID            int32
	InstanceID          string
	CoordinatorAddress  string
	Hostname            string
	Address             string
	Port                int32
	Iterations          int
	MaxIterationRetries int           // default 3
	RetryDelay          time.Duration // default 1s, between whole-iteration attempts
	PollInterval        time.Duration // default 50ms
	MaxPolls            int           // default 200
	HeartbeatInterval   time.Duration // default 5s
}

func (c Config) withDefaults() Config {
	if c.MaxIterationRetries <= 0 {
		c.MaxIterationRetries = 3
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Second
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 50 * time.Millisecond
	}
	if c.MaxPolls <= 0 {
		c.MaxPolls = 200
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = 5 * time.Second
	}
	return c
}

// discoveryBackoff is the retry policy for startup RPCs against the
// coordinator: 100ms base, doubling, five attempts total.
const (
	discoveryAttempts    = 5
	discoveryBackoffBase = 100 * time.Millisecond
)

// Worker runs the pull/compute/push/wait loop against a discovered
// aggregator, and reports liveness to the coordinator.
type Worker struct {
	cfg Config

	coordConn *grpc.ClientConn
	coord     rpc.CoordinatorClient

	aggConn *grpc.ClientConn
	agg     rpc.AggregatorClient

	reducer LocalReducer
	compute func(tensor.Set) tensor.Set

	status       atomic.Int32 // coordinator.Status, read by the heartbeat loop
	totalWorkers int32
}

// New creates a worker with the given config. Compute defaults to the
// reference gradient generator and reducer defaults to NoOpReducer — see
// reduce.go.
func New(cfg Config) *Worker {
	cfg = cfg.withDefaults()
	return &Worker{
		cfg:     cfg,
		reducer: NoOpReducer{},
		compute: ComputeGradients,
	}
}

// SetComputeFunc overrides the gradient computation step, primarily for
// tests.
func (w *Worker) SetComputeFunc(f func(tensor.Set) tensor.Set) {
	w.compute = f
}

// SetReducer overrides the local pre-reduce step used before gradients are
// pushed to the aggregator.
func (w *Worker) SetReducer(r LocalReducer) {
	w.reducer = r
}

// Status returns the worker's current self-reported activity state, as
// carried on its heartbeats.
func (w *Worker) Status() coordinator.Status {
	return coordinator.Status(w.status.Load())
}

func (w *Worker) setStatus(s coordinator.Status) {
	w.status.Store(int32(s))
}

// withBackoff runs call up to discoveryAttempts times, sleeping
// discoveryBackoffBase, then twice that, and so on, between attempts.
func withBackoff(ctx context.Context, call func() error) error {
	backoff := discoveryBackoffBase
	var err error
	for attempt := 0; attempt < discoveryAttempts; attempt++ {
		if err = call(); err == nil {
			return nil
		}
		if attempt == discoveryAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}

// Discover performs the startup protocol: look up the aggregator endpoint
// via the coordinator, register this worker, and dial the aggregator the
// registration response names. The registration response is authoritative
// — if it differs from the looked-up endpoint, the response wins. Both
// coordinator calls retry with exponential backoff, five attempts each.
func (w *Worker) Discover(ctx context.Context) error {
	coordConn, err := grpc.NewClient(w.cfg.CoordinatorAddress, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("worker: dial coordinator: %w", err)
	}
	w.coordConn = coordConn
	w.coord = rpc.NewCoordinatorClient(coordConn)

	var addrResp *rpc.GetAggregatorAddressResponse
	err = withBackoff(ctx, func() error {
		var callErr error
		addrResp, callErr = w.coord.GetAggregatorAddress(ctx, &rpc.GetAggregatorAddressRequest{})
		if callErr != nil {
			log.Printf("⏳ worker %d: aggregator lookup failed: %v", w.cfg.WorkerID, callErr)
		}
		return callErr
	})
	if err != nil {
		return fmt.Errorf("worker: resolve aggregator address: %w", err)
	}
	aggAddress, aggPort := addrResp.Address, addrResp.Port

	var regResp *rpc.RegisterWorkerResponse
	err = withBackoff(ctx, func() error {
		var callErr error
		regResp, callErr = w.coord.RegisterWorker(ctx, &rpc.RegisterWorkerRequest{
			WorkerID:   w.cfg.WorkerID,
			InstanceID: w.cfg.InstanceID,
			Address:    w.cfg.Address,
			Port:       w.cfg.Port,
			Hostname:   w.cfg.Hostname,
		})
		if callErr != nil {
			log.Printf("⏳ worker %d: registration failed: %v", w.cfg.WorkerID, callErr)
		}
		return callErr
	})
	if err != nil {
		return fmt.Errorf("worker: register with coordinator: %w", err)
	}

	if regResp.AggregatorAddress != "" && (regResp.AggregatorAddress != aggAddress || regResp.AggregatorPort != aggPort) {
		log.Printf("📋 worker %d: adopting aggregator %s:%d from registration response",
			w.cfg.WorkerID, regResp.AggregatorAddress, regResp.AggregatorPort)
		aggAddress, aggPort = regResp.AggregatorAddress, regResp.AggregatorPort
	}
	w.totalWorkers = regResp.TotalWorkers
	w.setStatus(coordinator.Idle)

	aggConn, err := grpc.NewClient(
		fmt.Sprintf("%s:%d", aggAddress, aggPort),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return fmt.Errorf("worker: dial aggregator: %w", err)
	}
	w.aggConn = aggConn
	w.agg = rpc.NewAggregatorClient(aggConn)
	log.Printf("📋 worker %d registered, aggregator at %s:%d, cohort size %d",
		w.cfg.WorkerID, aggAddress, aggPort, regResp.TotalWorkers)
	return nil
}

// RunHeartbeat sends the worker's current status every HeartbeatInterval
// until ctx is cancelled. Failures are swallowed — if they persist, the
// coordinator's stale-eviction sweep cleans the entry up. Intended to run
// in its own goroutine.
func (w *Worker) RunHeartbeat(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.coord.Heartbeat(ctx, &rpc.HeartbeatRequest{WorkerID: w.cfg.WorkerID, Status: int32(w.Status())}); err != nil {
				log.Printf("worker %d: heartbeat failed: %v", w.cfg.WorkerID, err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Close releases the client connections opened by Discover.
func (w *Worker) Close() error {
	if w.aggConn != nil {
		w.aggConn.Close()
	}
	if w.coordConn != nil {
		w.coordConn.Close()
	}
	return nil
}

// pullParametersColdStart pulls the current parameter set, retrying up to
// 3 attempts (sleeping 500ms between) while the aggregator reports an
// empty set. After the retry budget is exhausted it synthesizes a
// placeholder tensor — a cold-start debugging convenience for a
// newly-booted aggregator, not a production behavior.
func (w *Worker) pullParametersColdStart(ctx context.Context, iteration int32) (tensor.Set, error) {
	const maxAttempts = 3
	const retryDelay = 500 * time.Millisecond

	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := w.agg.PullParameters(ctx, &rpc.PullParametersRequest{WorkerID: w.cfg.WorkerID, Iteration: iteration})
		if err != nil {
			return nil, fmt.Errorf("worker: pull parameters: %w", err)
		}
		if resp.Ready && len(resp.Parameters) > 0 {
			return resp.Parameters, nil
		}
		if attempt == maxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return coldStartParameters(), nil
}

// RunIteration runs one full synchronous step: pull parameters, compute
// and locally reduce gradients, push them, and — unless the push itself
// completed the barrier — poll CheckSyncStatus until the barrier closes
// or MaxPolls is exhausted. Mirrors the original run_iteration control
// flow exactly, including its every-20th-poll extra status probe.
func (w *Worker) RunIteration(ctx context.Context, iteration int32) (done bool, err error) {
	params, err := w.pullParametersColdStart(ctx, iteration)
	if err != nil {
		return false, err
	}

	grads := w.reducer.Reduce(w.compute(params))

	pushResp, err := w.agg.PushGradients(ctx, &rpc.PushGradientsRequest{
		WorkerID: w.cfg.WorkerID, Iteration: iteration, Gradients: grads,
	})
	if err != nil {
		return false, fmt.Errorf("worker: push gradients: %w", err)
	}
	log.Printf("worker %d iter %d: %d/%d gradients in", w.cfg.WorkerID, iteration,
		pushResp.WorkersReceived, pushResp.TotalWorkers)
	if pushResp.AggregationComplete {
		return true, nil
	}

	for poll := 0; poll < w.cfg.MaxPolls; poll++ {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(w.cfg.PollInterval):
		}

		statusResp, err := w.agg.CheckSyncStatus(ctx, &rpc.CheckSyncStatusRequest{Iteration: iteration})
		if err != nil {
			return false, fmt.Errorf("worker: check sync status: %w", err)
		}
		if statusResp.Ready {
			return true, nil
		}
		if (poll+1)%20 == 0 {
			w.agg.CheckSyncStatus(ctx, &rpc.CheckSyncStatusRequest{Iteration: iteration})
		}
	}
	return false, nil
}

// RunIterationWithRetries drives one iteration to completion: status goes
// Running for the duration and back to Idle on either success or final
// failure. A poll budget that drains without the barrier closing is a
// transient failure — sleep RetryDelay, retry the whole iteration, up to
// MaxIterationRetries attempts.
func (w *Worker) RunIterationWithRetries(ctx context.Context, iteration int32) (bool, error) {
	w.setStatus(coordinator.Running)
	defer w.setStatus(coordinator.Idle)

	var lastErr error
	for attempt := 0; attempt < w.cfg.MaxIterationRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(w.cfg.RetryDelay):
			}
		}
		done, err := w.RunIteration(ctx, iteration)
		if err != nil {
			lastErr = err
			continue
		}
		if done {
			return true, nil
		}
	}
	return false, lastErr
}

// coldStartParameters synthesizes the placeholder tensor a worker uses
// when the aggregator has no parameters yet: a single 10x10 float32
// tensor named "weight", filled with zeros.
func coldStartParameters() tensor.Set {
	data := make([]float32, 100)
	return tensor.Set{{Name: "weight", Shape: []int32{10, 10}, DType: tensor.Float32, Data: data}}
}
