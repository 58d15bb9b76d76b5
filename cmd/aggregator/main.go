package main

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	"github.com/syncfl/control-plane/pkg/aggregator"
	"github.com/syncfl/control-plane/pkg/aggsrv"
	"github.com/syncfl/control-plane/pkg/checkpoint"
	"github.com/syncfl/control-plane/pkg/config"
	"github.com/syncfl/control-plane/pkg/monitor"
	"github.com/syncfl/control-plane/pkg/rpc"
)

func main() {
	serverAddress := "0.0.0.0:50051"
	totalWorkers := 2
	checkpointInterval := envInt("CHECKPOINT_INTERVAL", 0)
	checkpointBackend := envOr("CHECKPOINT_BACKEND", "file")
	checkpointPath := envOr("CHECKPOINT_PATH", "checkpoints")
	metricsAddr := envOr("METRICS_ADDR", ":9090")
	monitorPort := envInt("MONITOR_PORT", 0)
	restoreCheckpoint := os.Getenv("RESTORE_CHECKPOINT")

	// A config file, if named by CONFIG_FILE, supplies defaults beneath
	// whatever the environment and positional arguments go on to set —
	// operators running from a plan file shouldn't have to repeat it on
	// every invocation's command line.
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		cfg, err := config.LoadAggregatorConfig(path)
		if err != nil {
			log.Fatalf("aggregator: %v", err)
		}
		if cfg.ServerAddress != "" {
			serverAddress = cfg.ServerAddress
		}
		if cfg.TotalWorkers != 0 {
			totalWorkers = cfg.TotalWorkers
		}
		if cfg.CheckpointInterval != 0 && os.Getenv("CHECKPOINT_INTERVAL") == "" {
			checkpointInterval = int(cfg.CheckpointInterval)
		}
		if cfg.Checkpoint.Backend != "" && os.Getenv("CHECKPOINT_BACKEND") == "" {
			checkpointBackend = cfg.Checkpoint.Backend
		}
		if cfg.Checkpoint.Dir != "" && os.Getenv("CHECKPOINT_PATH") == "" {
			checkpointPath = cfg.Checkpoint.Dir
		}
		if cfg.MetricsAddress != "" && os.Getenv("METRICS_ADDR") == "" {
			metricsAddr = cfg.MetricsAddress
		}
		if cfg.MonitorPort != 0 && os.Getenv("MONITOR_PORT") == "" {
			monitorPort = cfg.MonitorPort
		}
		if restoreCheckpoint == "" {
			restoreCheckpoint = cfg.RestoreCheckpoint
		}
	}

	if len(os.Args) > 1 {
		serverAddress = os.Args[1]
	}
	if len(os.Args) > 2 {
		n, err := fmt.Sscanf(os.Args[2], "%d", &totalWorkers)
		if err != nil || n != 1 {
			log.Fatalf("aggregator: invalid total_workers %q", os.Args[2])
		}
	}
	if len(os.Args) > 3 {
		n, err := fmt.Sscanf(os.Args[3], "%d", &checkpointInterval)
		if err != nil || n != 1 {
			log.Fatalf("aggregator: invalid checkpoint_interval %q", os.Args[3])
		}
	}

	store, err := checkpoint.New(checkpoint.Config{
		Backend: checkpointBackend,
		Dir:     checkpointPath,
	})
	if err != nil {
		log.Printf("⚠️  checkpoint store unavailable (%v); continuing without automatic checkpointing", err)
		store = nil
	}

	agg := aggregator.New(totalWorkers)
	if restoreCheckpoint != "" {
		if store == nil {
			log.Fatalf("aggregator: RESTORE_CHECKPOINT set but no checkpoint store available")
		}
		ok, epoch := agg.LoadCheckpoint(restoreCheckpoint, store)
		if !ok {
			log.Fatalf("aggregator: restore from %q failed", restoreCheckpoint)
		}
		log.Printf("💾 restored checkpoint %q (epoch %d)", restoreCheckpoint, epoch)
	}
	service := aggsrv.New(agg, store, int32(checkpointInterval))

	lis, err := net.Listen("tcp", serverAddress)
	if err != nil {
		log.Fatalf("aggregator: listen on %s: %v", serverAddress, err)
	}

	server := grpc.NewServer()
	rpc.RegisterAggregatorServer(server, service)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		log.Printf("📊 metrics listening on %s/metrics", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			log.Printf("aggregator: metrics server stopped: %v", err)
		}
	}()

	if monitorPort > 0 {
		monitorCfg := monitor.Config{Port: monitorPort}
		if path := os.Getenv("MONITOR_CONFIG"); path != "" {
			loaded, err := monitor.LoadConfig(path)
			if err != nil {
				log.Fatalf("aggregator: %v", err)
			}
			monitorCfg = loaded
			if monitorPort > 0 {
				monitorCfg.Port = monitorPort
			}
		}
		dash := monitor.New(agg, nil, monitorCfg)
		service.OnIterationComplete(dash.NotifyIteration)
		go func() {
			if err := dash.Start(); err != nil {
				log.Printf("aggregator: monitor dashboard stopped: %v", err)
			}
		}()
	}

	log.Printf("🚀 aggregator listening on %s, cohort size %d", serverAddress, totalWorkers)
	if err := server.Serve(lis); err != nil {
		log.Fatalf("aggregator: serve: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return fallback
	}
	return n
}
