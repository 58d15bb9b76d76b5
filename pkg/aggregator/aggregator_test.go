package aggregator

import (
	"math"
	"testing"

	"github.com/syncfl/control-plane/pkg/tensor"
)

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

// Two-worker cohort, single iteration: second push closes the barrier and
// applies the averaged update.
func TestReceiveGradients_TwoWorkerBarrier(t *testing.T) {
	agg := New(2)
	agg.Initialize(tensor.Set{{Name: "w", Shape: []int32{2}, Data: []float32{1.0, 2.0}}})

	grad := tensor.Set{{Name: "w", Shape: []int32{2}, Data: []float32{0.1, 0.1}}}

	if n, complete := agg.ReceiveGradients(0, 0, grad); n != 1 || complete {
		t.Fatalf("first submission: received=%d complete=%v, want 1 false", n, complete)
	}
	received, aggregated := agg.CheckSyncStatus(0)
	if received != 1 || aggregated {
		t.Fatalf("after 1st submission: received=%d aggregated=%v, want 1 false", received, aggregated)
	}

	if n, complete := agg.ReceiveGradients(1, 0, grad); n != 2 || !complete {
		t.Fatalf("second submission: received=%d complete=%v, want 2 true", n, complete)
	}

	params := agg.ServeParameters(0)
	want := []float32{0.9, 1.9}
	for i, v := range want {
		if !approxEqual(params[0].Data[i], v) {
			t.Errorf("params[0].Data[%d] = %v, want %v", i, params[0].Data[i], v)
		}
	}
}

// Staggered arrivals across three workers still average order-independently.
func TestReceiveGradients_StaggeredArrivals(t *testing.T) {
	agg := New(3)
	agg.Initialize(tensor.Set{{Name: "w", Shape: []int32{1}, Data: []float32{10.0}}})

	two := tensor.Set{{Name: "w", Shape: []int32{1}, Data: []float32{2.0}}}
	four := tensor.Set{{Name: "w", Shape: []int32{1}, Data: []float32{4.0}}}

	agg.ReceiveGradients(0, 5, two)
	agg.ReceiveGradients(1, 5, two)
	_, complete := agg.ReceiveGradients(2, 5, four)
	if !complete {
		t.Fatalf("third distinct submission did not complete the barrier")
	}

	params := agg.ServeParameters(5)
	want := float32(10.0 - (2.0+2.0+4.0)/3.0)
	if !approxEqual(params[0].Data[0], want) {
		t.Errorf("params[0].Data[0] = %v, want %v", params[0].Data[0], want)
	}
}

// Duplicate submission by the same worker does not advance the barrier.
func TestReceiveGradients_DuplicateSubmissionDoesNotAdvance(t *testing.T) {
	agg := New(2)
	grad := tensor.Set{{Name: "w", Shape: []int32{1}, Data: []float32{1.0}}}

	agg.ReceiveGradients(0, 0, grad)
	agg.ReceiveGradients(0, 0, grad)

	received, aggregated := agg.CheckSyncStatus(0)
	if received != 1 || aggregated {
		t.Errorf("CheckSyncStatus(0) = (%d, %v), want (1, false)", received, aggregated)
	}
}

// A fresh aggregator serves an empty parameter set before initialization.
func TestServeParameters_EmptyBeforeInit(t *testing.T) {
	agg := New(2)
	params := agg.ServeParameters(0)
	if len(params) != 0 {
		t.Errorf("ServeParameters() before init = %v, want empty", params)
	}
	received, aggregated := agg.CheckSyncStatus(0)
	if received != 0 || aggregated {
		t.Errorf("CheckSyncStatus(0) on fresh aggregator = (%d, %v), want (0, false)", received, aggregated)
	}
}

func TestReceiveGradients_IsolationBetweenIterations(t *testing.T) {
	agg := New(2)
	grad := tensor.Set{{Name: "w", Shape: []int32{1}, Data: []float32{1.0}}}

	agg.ReceiveGradients(0, 7, grad)
	agg.ReceiveGradients(1, 9, grad)

	received, aggregated := agg.CheckSyncStatus(7)
	if received != 1 || aggregated {
		t.Errorf("iteration 7 state polluted by iteration 9 submission: (%d, %v)", received, aggregated)
	}
}

func TestReceiveGradients_BarrierCompletesExactlyOnce(t *testing.T) {
	agg := New(3)
	grad := tensor.Set{{Name: "w", Shape: []int32{1}, Data: []float32{1.0}}}

	completions := 0
	for w := int32(0); w < 3; w++ {
		if _, done := agg.ReceiveGradients(w, 0, grad); done {
			completions++
		}
	}
	if completions != 1 {
		t.Errorf("barrier reported complete=true %d times, want exactly 1", completions)
	}

	_, aggregated := agg.CheckSyncStatus(0)
	if !aggregated {
		t.Errorf("CheckSyncStatus after barrier completion reports aggregated=false")
	}
}

func TestReceiveGradients_ColdStartInstallsAveragedGradient(t *testing.T) {
	agg := New(2) // no Initialize call
	grad := tensor.Set{{Name: "w", Shape: []int32{1}, Data: []float32{3.0}}}

	agg.ReceiveGradients(0, 0, grad)
	agg.ReceiveGradients(1, 0, grad)

	params := agg.ServeParameters(0)
	if len(params) != 1 || params[0].Data[0] != 3.0 {
		t.Errorf("ServeParameters() = %v, want the averaged gradient installed verbatim", params)
	}
}

func TestReceiveGradients_IncompatibleTensorSkippedAtPosition(t *testing.T) {
	agg := New(2)
	agg.Initialize(tensor.Set{{Name: "w", Shape: []int32{1}, Data: []float32{5.0}}})

	ok := tensor.Set{{Name: "w", Shape: []int32{1}, Data: []float32{1.0}}}
	mismatched := tensor.Set{{Name: "w", Shape: []int32{2}, Data: []float32{1.0, 1.0}}}

	agg.ReceiveGradients(0, 0, ok)
	agg.ReceiveGradients(1, 0, mismatched)

	params := agg.ServeParameters(0)
	// Only the compatible submission contributes to the sum, but the
	// divisor stays the cohort size: 5 - 1.0/2 = 4.5.
	if !approxEqual(params[0].Data[0], 4.5) {
		t.Errorf("params[0].Data[0] = %v, want 4.5", params[0].Data[0])
	}
}
