// Package aggregator implements the parameter server: the authoritative
// store of the current parameter set and the per-iteration synchronization
// barrier across a fixed cohort of workers.
package aggregator

import (
	"sync"

	"github.com/syncfl/control-plane/pkg/checkpoint"
	"github.com/syncfl/control-plane/pkg/tensor"
)

// iterationState tracks the submissions seen for one iteration index.
// aggregated transitions exactly once from false to true.
type iterationState struct {
	submitters map[int32]tensor.Set
	aggregated bool
}

// Aggregator is the parameter server. It is safe for concurrent use by
// multiple RPC handlers.
//
// Two disjoint locks guard its state: paramsLock guards parameters, and
// stateLock guards iterations and currentIteration. ReceiveGradients holds
// stateLock for its entire submission-and-possibly-aggregate critical
// section and, only when it performs the aggregation step, acquires
// paramsLock inside that region. No path acquires the locks in the
// opposite order, which keeps the pair deadlock-free.
type Aggregator struct {
	totalWorkers int

	paramsLock sync.Mutex
	parameters tensor.Set

	stateLock        sync.Mutex
	iterations       map[int32]*iterationState
	currentIteration int32
}

// New creates an aggregator expecting totalWorkers distinct submissions per
// iteration before it completes a barrier.
func New(totalWorkers int) *Aggregator {
	return &Aggregator{
		totalWorkers: totalWorkers,
		iterations:   make(map[int32]*iterationState),
	}
}

// TotalWorkers returns the fixed cohort size this aggregator was started
// with.
func (a *Aggregator) TotalWorkers() int {
	return a.totalWorkers
}

// Initialize installs the initial parameter set, overwriting any prior
// parameters. Safe to call before any gradient has arrived.
func (a *Aggregator) Initialize(initial tensor.Set) {
	a.paramsLock.Lock()
	defer a.paramsLock.Unlock()
	a.parameters = tensor.Clone(initial)
}

// ReceiveGradients records gradients under (iteration, workerID). If this
// submission makes the count of distinct workers for this iteration equal
// TotalWorkers(), the aggregator atomically performs the averaging-and-
// update step and returns complete=true. Re-submission by the same worker
// for the same iteration overwrites the prior submission without advancing
// progress. workersReceived is the distinct-submitter count observed
// inside the same critical section, so callers relaying barrier progress
// never see a count that contradicts complete.
func (a *Aggregator) ReceiveGradients(workerID, iteration int32, gradients tensor.Set) (workersReceived int, complete bool) {
	a.stateLock.Lock()
	defer a.stateLock.Unlock()

	if iteration > a.currentIteration {
		a.currentIteration = iteration
	}

	state, ok := a.iterations[iteration]
	if !ok {
		state = &iterationState{submitters: make(map[int32]tensor.Set)}
		a.iterations[iteration] = state
	}
	state.submitters[workerID] = tensor.Clone(gradients)

	if state.aggregated || len(state.submitters) != a.totalWorkers {
		return len(state.submitters), false
	}

	a.paramsLock.Lock()
	a.applyAggregation(state.submitters)
	a.paramsLock.Unlock()

	state.aggregated = true
	return len(state.submitters), true
}

// applyAggregation subtracts the elementwise mean of the submitted
// gradients from the parameters. Callers must hold both paramsLock and
// stateLock.
func (a *Aggregator) applyAggregation(submitters map[int32]tensor.Set) {
	averaged := a.average(submitters)

	if len(a.parameters) == 0 {
		a.parameters = averaged
		return
	}

	for i := range a.parameters {
		if i >= len(averaged) {
			break
		}
		if !tensor.Compatible(a.parameters[i], averaged[i]) {
			continue
		}
		a.parameters[i] = tensor.Sub(a.parameters[i], averaged[i])
	}
}

// average computes, for each parameter position, the elementwise mean of
// the compatible submitted tensors at that position, always dividing by
// the fixed cohort size rather than the count that passed the
// compatibility filter. Submissions with a different tensor count than
// the parameter set are averaged only over positions present in both;
// incompatible tensors are skipped for their position.
func (a *Aggregator) average(submitters map[int32]tensor.Set) tensor.Set {
	positions := 0
	for _, g := range submitters {
		if len(g) > positions {
			positions = len(g)
		}
	}
	if len(a.parameters) > 0 && len(a.parameters) < positions {
		positions = len(a.parameters)
	}

	out := make(tensor.Set, positions)
	for p := 0; p < positions; p++ {
		hasParam := p < len(a.parameters)
		var ref tensor.Tensor
		if hasParam {
			ref = a.parameters[p]
		}

		var contributions []tensor.Tensor
		for _, g := range submitters {
			if p >= len(g) {
				continue
			}
			// Before initialization there is nothing to compare the
			// incoming tensor against, so every submission at a new
			// position is accepted as-is; the first one seen fixes the
			// position's name/shape for this round.
			if hasParam && !tensor.Compatible(ref, g[p]) {
				continue
			}
			if !hasParam {
				ref = g[p]
				hasParam = true
			}
			contributions = append(contributions, g[p])
		}
		out[p] = tensor.Mean(ref, contributions, a.totalWorkers)
	}
	return out
}

// ServeParameters returns a deep copy of the current parameter set. The
// iteration argument is advisory — reads are never gated on that iteration
// having completed.
func (a *Aggregator) ServeParameters(iteration int32) tensor.Set {
	a.paramsLock.Lock()
	defer a.paramsLock.Unlock()
	return tensor.Clone(a.parameters)
}

// CheckSyncStatus reports progress on iteration. Returns (0, false) if no
// submissions have arrived for that iteration.
func (a *Aggregator) CheckSyncStatus(iteration int32) (workersReceived int, aggregated bool) {
	a.stateLock.Lock()
	defer a.stateLock.Unlock()

	state, ok := a.iterations[iteration]
	if !ok {
		return 0, false
	}
	return len(state.submitters), state.aggregated
}

// CurrentIteration returns the highest iteration index observed in any
// ReceiveGradients call.
func (a *Aggregator) CurrentIteration() int32 {
	a.stateLock.Lock()
	defer a.stateLock.Unlock()
	return a.currentIteration
}

// Snapshot copies the current parameter set under paramsLock, for a caller
// (e.g. the periodic checkpointer) that needs to serialize it outside the
// lock, so checkpoint I/O never stalls gradient application.
func (a *Aggregator) Snapshot() tensor.Set {
	return a.ServeParameters(0)
}

// SaveCheckpoint copies the current parameter set under paramsLock, then
// serializes that copy through store outside the lock so a slow backend
// never stalls in-flight gradient accumulation. An empty path selects the
// store's default template.
func (a *Aggregator) SaveCheckpoint(epoch int32, path string, store checkpoint.Store) (ok bool, savedPath string) {
	snapshot := a.Snapshot()
	p, err := store.Save(epoch, path, snapshot)
	if err != nil {
		return false, ""
	}
	return true, p
}

// LoadCheckpoint restores the parameter set from store and installs it as
// the current parameters.
func (a *Aggregator) LoadCheckpoint(path string, store checkpoint.Store) (ok bool, epoch int32) {
	e, params, err := store.Load(path)
	if err != nil {
		return false, 0
	}
	a.Initialize(params)
	return true, e
}
