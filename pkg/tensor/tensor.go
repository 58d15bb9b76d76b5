// Package tensor defines the named, typed, shaped arrays that flow between
// workers and the aggregator, and the ordered sequences of them that make up
// a parameter set or a gradient set.
package tensor

// DType tags the floating point width a Tensor's payload is expressed in.
type DType int32

const (
	Float32 DType = 0
	Float64 DType = 1
)

// Tensor is a named, typed, shaped array of floating-point values. Shape is
// an ordered sequence of dimension sizes; Data is the flat payload whose
// length equals the product of Shape.
type Tensor struct {
	Name  string    `json:"name"`
	Shape []int32   `json:"shape"`
	Data  []float32 `json:"data"`
	DType DType     `json:"dtype"`
}

// Set is an ordered sequence of tensors — a parameter set or a gradient set
// depending on context.
type Set []Tensor

// Clone returns a deep copy of the set.
func Clone(s Set) Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	for i, t := range s {
		out[i] = Tensor{
			Name:  t.Name,
			Shape: append([]int32(nil), t.Shape...),
			Data:  append([]float32(nil), t.Data...),
			DType: t.DType,
		}
	}
	return out
}

// Compatible reports whether a and b have the same name and the same shape,
// element-wise.
func Compatible(a, b Tensor) bool {
	if a.Name != b.Name {
		return false
	}
	if len(a.Shape) != len(b.Shape) {
		return false
	}
	for i := range a.Shape {
		if a.Shape[i] != b.Shape[i] {
			return false
		}
	}
	return true
}

// Mean sums a collection of tensors all assumed compatible with ref and
// divides by cohort — the fixed worker count, not the number of tensors
// that survived compatibility filtering, so a skipped contribution dilutes
// the average instead of inflating it. Truncates per-element to the
// shortest payload present so a straggler reshape degrades instead of
// panicking. Returns a tensor shaped like ref.
func Mean(ref Tensor, contributions []Tensor, cohort int) Tensor {
	out := Tensor{Name: ref.Name, Shape: append([]int32(nil), ref.Shape...), DType: ref.DType}
	out.Data = make([]float32, len(ref.Data))
	if len(contributions) == 0 || cohort <= 0 {
		return out
	}
	for _, c := range contributions {
		n := len(c.Data)
		if n > len(out.Data) {
			n = len(out.Data)
		}
		for i := 0; i < n; i++ {
			out.Data[i] += c.Data[i]
		}
	}
	inv := 1.0 / float32(cohort)
	for i := range out.Data {
		out.Data[i] *= inv
	}
	return out
}

// Sub applies a -= b elementwise, truncating to the shorter payload, and
// returns a.
func Sub(a, b Tensor) Tensor {
	n := len(a.Data)
	if len(b.Data) < n {
		n = len(b.Data)
	}
	for i := 0; i < n; i++ {
		a.Data[i] -= b.Data[i]
	}
	return a
}
