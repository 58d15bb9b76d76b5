package worker

import "github.com/syncfl/control-plane/pkg/tensor"

// LocalReducer pre-reduces gradients across a worker's local device group
// (e.g. multiple GPUs) before they are pushed to the aggregator.
type LocalReducer interface {
	Reduce(tensor.Set) tensor.Set
}

// NoOpReducer is the single-device default: it returns its input
// unchanged. A real multi-GPU reducer would sum gradients across local
// devices — never average them, since the aggregator's own barrier step
// already divides by worker count; averaging at both levels double-counts
// the divisor and silently shrinks the effective learning rate.
type NoOpReducer struct{}

func (NoOpReducer) Reduce(g tensor.Set) tensor.Set {
	return g
}
