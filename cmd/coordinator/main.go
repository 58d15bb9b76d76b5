package main

import (
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	"github.com/syncfl/control-plane/pkg/config"
	"github.com/syncfl/control-plane/pkg/coordinator"
	"github.com/syncfl/control-plane/pkg/coordsrv"
	"github.com/syncfl/control-plane/pkg/monitor"
	"github.com/syncfl/control-plane/pkg/rpc"
)

func main() {
	serverAddress := "0.0.0.0:50052"
	aggregatorAddress := "localhost"
	aggregatorPort := int32(50051)
	heartbeatTimeout := envDuration("HEARTBEAT_TIMEOUT", 30*time.Second)
	sweepInterval := envDuration("SWEEP_INTERVAL", 10*time.Second)
	metricsAddr := envOr("METRICS_ADDR", ":9091")
	monitorPort := envInt("MONITOR_PORT", 0)

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		cfg, err := config.LoadCoordinatorConfig(path)
		if err != nil {
			log.Fatalf("coordinator: %v", err)
		}
		if cfg.ServerAddress != "" {
			serverAddress = cfg.ServerAddress
		}
		if cfg.AggregatorAddress != "" {
			aggregatorAddress = cfg.AggregatorAddress
		}
		if cfg.AggregatorPort != 0 {
			aggregatorPort = cfg.AggregatorPort
		}
		if cfg.HeartbeatTimeout != 0 && os.Getenv("HEARTBEAT_TIMEOUT") == "" {
			heartbeatTimeout = cfg.HeartbeatTimeout
		}
		if cfg.SweepInterval != 0 && os.Getenv("SWEEP_INTERVAL") == "" {
			sweepInterval = cfg.SweepInterval
		}
		if cfg.MetricsAddress != "" && os.Getenv("METRICS_ADDR") == "" {
			metricsAddr = cfg.MetricsAddress
		}
		if cfg.MonitorPort != 0 && os.Getenv("MONITOR_PORT") == "" {
			monitorPort = cfg.MonitorPort
		}
	}

	if len(os.Args) > 1 {
		serverAddress = os.Args[1]
	}
	if len(os.Args) > 2 {
		aggregatorAddress = os.Args[2]
		if idx := strings.LastIndex(aggregatorAddress, ":"); idx != -1 {
			port, err := strconv.Atoi(aggregatorAddress[idx+1:])
			if err != nil {
				log.Fatalf("coordinator: invalid aggregator address %q", os.Args[2])
			}
			aggregatorPort = int32(port)
			aggregatorAddress = aggregatorAddress[:idx]
		}
	}

	coord := coordinator.New(aggregatorAddress, aggregatorPort)
	service := coordsrv.New(coord)
	stop := service.StartEvictionSweep(sweepInterval, heartbeatTimeout)
	defer close(stop)

	lis, err := net.Listen("tcp", serverAddress)
	if err != nil {
		log.Fatalf("coordinator: listen on %s: %v", serverAddress, err)
	}

	server := grpc.NewServer()
	rpc.RegisterCoordinatorServer(server, service)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		log.Printf("📊 metrics listening on %s/metrics", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			log.Printf("coordinator: metrics server stopped: %v", err)
		}
	}()

	if monitorPort > 0 {
		monitorCfg := monitor.Config{Port: monitorPort}
		if path := os.Getenv("MONITOR_CONFIG"); path != "" {
			loaded, err := monitor.LoadConfig(path)
			if err != nil {
				log.Fatalf("coordinator: %v", err)
			}
			monitorCfg = loaded
			if monitorPort > 0 {
				monitorCfg.Port = monitorPort
			}
		}
		dash := monitor.New(nil, coord, monitorCfg)
		go func() {
			if err := dash.Start(); err != nil {
				log.Printf("coordinator: monitor dashboard stopped: %v", err)
			}
		}()
	}

	log.Printf("🤝 coordinator listening on %s, aggregator at %s:%d", serverAddress, aggregatorAddress, aggregatorPort)
	if err := server.Serve(lis); err != nil {
		log.Fatalf("coordinator: serve: %v", err)
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
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
