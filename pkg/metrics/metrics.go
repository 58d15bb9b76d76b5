// Package metrics defines the Prometheus instruments exported by the
// aggregator and coordinator processes on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RPCRequestsTotal counts every unary RPC handled, labeled by service,
	// method, and outcome.
	RPCRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "control_plane_rpc_requests_total",
			Help: "Total number of RPCs handled, by service, method, and status.",
		},
		[]string{"service", "method", "status"},
	)

	// RPCRequestDuration observes handler latency, labeled by service and
	// method.
	RPCRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "control_plane_rpc_request_duration_seconds",
			Help:    "RPC handler latency in seconds, by service and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method"},
	)

	// GradientAggregationsTotal counts completed barrier aggregations.
	GradientAggregationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "control_plane_gradient_aggregations_total",
			Help: "Total number of iterations whose barrier completed and were aggregated.",
		},
	)

	// CurrentIteration tracks the aggregator's highest observed iteration
	// index.
	CurrentIteration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "control_plane_current_iteration",
			Help: "Highest iteration index observed by the aggregator.",
		},
	)

	// CheckpointsSavedTotal counts successful checkpoint writes.
	CheckpointsSavedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "control_plane_checkpoints_saved_total",
			Help: "Total number of checkpoints successfully persisted.",
		},
	)

	// RegisteredWorkers tracks the coordinator's live registry size.
	RegisteredWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "control_plane_registered_workers",
			Help: "Number of workers currently registered with the coordinator.",
		},
	)

	// WorkersEvictedTotal counts stale-timeout evictions performed by the
	// coordinator's sweep.
	WorkersEvictedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "control_plane_workers_evicted_total",
			Help: "Total number of workers evicted from the registry for missed heartbeats.",
		},
	)
)
