package rpc

import (
	"github.com/syncfl/control-plane/pkg/coordinator"
	"github.com/syncfl/control-plane/pkg/tensor"
)

// PushGradientsRequest carries one worker's gradient submission for one
// iteration.
type PushGradientsRequest struct {
	WorkerID  int32      `json:"worker_id"`
	Iteration int32      `json:"iteration"`
	Gradients tensor.Set `json:"gradients"`
}

// PushGradientsResponse reports barrier progress after this submission.
// AggregationComplete is true only on the single submission that closed
// the barrier for Iteration.
type PushGradientsResponse struct {
	Success             bool   `json:"success"`
	Message             string `json:"message,omitempty"`
	Iteration           int32  `json:"iteration"`
	AggregationComplete bool   `json:"aggregation_complete"`
	WorkersReceived     int32  `json:"workers_received"`
	TotalWorkers        int32  `json:"total_workers"`
}

// PullParametersRequest asks for the current parameter set. Iteration is
// advisory only — see Aggregator.ServeParameters.
type PullParametersRequest struct {
	WorkerID  int32 `json:"worker_id"`
	Iteration int32 `json:"iteration"`
}

// PullParametersResponse carries the current parameter set. Ready is false
// while the aggregator has no parameters yet (fresh boot, before any
// initialization or completed aggregation).
type PullParametersResponse struct {
	Iteration  int32      `json:"iteration"`
	Ready      bool       `json:"ready"`
	Parameters tensor.Set `json:"parameters"`
}

// CheckSyncStatusRequest asks how many distinct workers have submitted for
// Iteration.
type CheckSyncStatusRequest struct {
	Iteration int32 `json:"iteration"`
}

// CheckSyncStatusResponse reports barrier progress for the requested
// iteration. Ready mirrors the aggregated flag: it never reverts to false
// once true.
type CheckSyncStatusResponse struct {
	Iteration       int32 `json:"iteration"`
	Ready           bool  `json:"ready"`
	WorkersReceived int32 `json:"workers_received"`
	TotalWorkers    int32 `json:"total_workers"`
}

// SaveCheckpointRequest asks the aggregator to persist its current
// parameters under Epoch. Path is optional; empty selects the store's
// default template.
type SaveCheckpointRequest struct {
	Epoch int32  `json:"epoch"`
	Path  string `json:"path,omitempty"`
}

// SaveCheckpointResponse reports where (if anywhere) the checkpoint landed.
type SaveCheckpointResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message,omitempty"`
	CheckpointPath string `json:"checkpoint_path,omitempty"`
}

// LoadCheckpointRequest asks the aggregator to restore parameters from
// Path.
type LoadCheckpointRequest struct {
	Path string `json:"path"`
}

// LoadCheckpointResponse carries the restored epoch and parameter set, if
// any.
type LoadCheckpointResponse struct {
	Success    bool       `json:"success"`
	Message    string     `json:"message,omitempty"`
	Epoch      int32      `json:"epoch"`
	Parameters tensor.Set `json:"parameters,omitempty"`
}

// RegisterWorkerRequest is a worker's initial contact with the coordinator.
type RegisterWorkerRequest struct {
	WorkerID   int32  `json:"worker_id"`
	InstanceID string `json:"instance_id"`
	Address    string `json:"address"`
	Port       int32  `json:"port"`
	Hostname   string `json:"hostname"`
}

// RegisterWorkerResponse tells the newly registered worker how to reach
// the aggregator and how large the cohort currently is. The coordinator's
// aggregator address is authoritative; a worker that discovered a
// different endpoint adopts this one.
type RegisterWorkerResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message,omitempty"`
	AggregatorAddress string `json:"aggregator_address"`
	AggregatorPort    int32  `json:"aggregator_port"`
	TotalWorkers      int32  `json:"total_workers"`
}

// HeartbeatRequest reports a worker's current status to the coordinator.
type HeartbeatRequest struct {
	WorkerID int32 `json:"worker_id"`
	Status   int32 `json:"status"`
}

// HeartbeatResponse reports whether the heartbeat was accepted. Success is
// false if the worker was not (or no longer) registered. Timestamp is the
// coordinator's receipt time in Unix seconds.
type HeartbeatResponse struct {
	Success   bool  `json:"success"`
	Timestamp int64 `json:"timestamp"`
}

// ListWorkersRequest takes no parameters.
type ListWorkersRequest struct{}

// WorkerInfo mirrors coordinator.Entry for wire transport. LastHeartbeatUnix
// is a Unix timestamp in seconds since time.Time does not round-trip
// through JSON the way this codec's callers expect for the rest of the
// fields.
type WorkerInfo struct {
	WorkerID          int32  `json:"worker_id"`
	InstanceID        string `json:"instance_id"`
	Address           string `json:"address"`
	Port              int32  `json:"port"`
	Hostname          string `json:"hostname"`
	Status            int32  `json:"status"`
	LastHeartbeatUnix int64  `json:"last_heartbeat_unix"`
}

// ListWorkersResponse carries a snapshot of the registry.
type ListWorkersResponse struct {
	Workers      []WorkerInfo `json:"workers"`
	TotalWorkers int32        `json:"total_workers"`
}

// GetAggregatorAddressRequest takes no parameters.
type GetAggregatorAddressRequest struct{}

// GetAggregatorAddressResponse carries the aggregator's advertised
// endpoint.
type GetAggregatorAddressResponse struct {
	Address string `json:"address"`
	Port    int32  `json:"port"`
}

// ToWorkerInfo converts a registry entry to its wire representation.
func ToWorkerInfo(e coordinator.Entry) WorkerInfo {
	return WorkerInfo{
		WorkerID:          e.WorkerID,
		InstanceID:        e.InstanceID,
		Address:           e.Address,
		Port:              e.Port,
		Hostname:          e.Hostname,
		Status:            int32(e.Status),
		LastHeartbeatUnix: e.LastHeartbeat.Unix(),
	}
}
