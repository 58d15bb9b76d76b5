package monitor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/syncfl/control-plane/pkg/aggregator"
	"github.com/syncfl/control-plane/pkg/coordinator"
	"github.com/syncfl/control-plane/pkg/tensor"
)

func TestHandleHealth(t *testing.T) {
	s := New(nil, nil, Config{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success {
		t.Errorf("Success = false, want true")
	}
}

func TestHandleIteration_NoAggregatorReturns404(t *testing.T) {
	s := New(nil, nil, Config{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/iteration", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleIteration_ReportsAggregatorProgress(t *testing.T) {
	agg := aggregator.New(2)
	agg.ReceiveGradients(0, 0, tensor.Set{{Name: "w", Shape: []int32{1}, Data: []float32{1}}})

	s := New(agg, nil, Config{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/iteration", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp APIResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	data := resp.Data.(map[string]interface{})
	if data["workers_received"].(float64) != 1 {
		t.Errorf("workers_received = %v, want 1", data["workers_received"])
	}
}

func TestHandleWorkers_ReturnsRegistry(t *testing.T) {
	coord := coordinator.New("localhost", 50051)
	coord.RegisterWorker(coordinator.Entry{WorkerID: 1})

	s := New(nil, coord, Config{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workers", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestNotifyIteration_DoesNotBlockWithoutSubscribers(t *testing.T) {
	s := New(nil, nil, Config{})
	s.NotifyIteration(5)
}
