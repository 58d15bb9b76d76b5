package worker

import "github.com/syncfl/control-plane/pkg/tensor"

// ComputeGradients is the reference gradient generator: same shape as
// params, every element 0.01. Real deployments inject their own training
// step via SetComputeFunc; this stands in for it so the loop is fully
// exercisable without a model.
func ComputeGradients(params tensor.Set) tensor.Set {
	out := make(tensor.Set, len(params))
	for i, p := range params {
		data := make([]float32, len(p.Data))
		for j := range data {
			data[j] = 0.01
		}
		out[i] = tensor.Tensor{
			Name:  p.Name,
			Shape: append([]int32(nil), p.Shape...),
			Data:  data,
			DType: p.DType,
		}
	}
	return out
}
