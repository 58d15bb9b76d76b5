package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/syncfl/control-plane/pkg/config"
	w "github.com/syncfl/control-plane/pkg/worker"
)

func main() {
	os.Exit(run())
}

func run() int {
	coordinatorAddress := "localhost:50052"
	workerID := 0
	iterations := 1
	advertisedAddr := ""
	advertisedPort := 0

	var fileCfg *config.WorkerConfig
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		cfg, err := config.LoadWorkerConfig(path)
		if err != nil {
			log.Fatalf("worker: %v", err)
		}
		fileCfg = cfg
		if cfg.CoordinatorAddress != "" {
			coordinatorAddress = cfg.CoordinatorAddress
		}
		if cfg.WorkerID != 0 {
			workerID = int(cfg.WorkerID)
		}
		if cfg.Iterations != 0 {
			iterations = cfg.Iterations
		}
	}

	if len(os.Args) > 1 {
		coordinatorAddress = os.Args[1]
	}
	if len(os.Args) > 2 {
		id, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatalf("worker: invalid worker_id %q", os.Args[2])
		}
		workerID = id
	}
	if len(os.Args) > 3 {
		n, err := strconv.Atoi(os.Args[3])
		if err != nil {
			log.Fatalf("worker: invalid iterations %q", os.Args[3])
		}
		iterations = n
	}
	if len(os.Args) > 4 {
		advertisedAddr = os.Args[4]
	}
	if len(os.Args) > 5 {
		port, err := strconv.Atoi(os.Args[5])
		if err != nil {
			log.Fatalf("worker: invalid advertised_port %q", os.Args[5])
		}
		advertisedPort = port
	}

	hostname, _ := os.Hostname()

	workerCfg := w.Config{
		WorkerID:           int32(workerID),
		InstanceID:         uuid.NewString(),
		CoordinatorAddress: coordinatorAddress,
		Hostname:           hostname,
		Address:            advertisedAddr,
		Port:               int32(advertisedPort),
	}
	if fileCfg != nil {
		workerCfg.MaxIterationRetries = fileCfg.MaxIterationRetries
		workerCfg.RetryDelay = fileCfg.RetryDelay
		workerCfg.PollInterval = fileCfg.PollInterval
		workerCfg.MaxPolls = fileCfg.MaxPolls
		workerCfg.HeartbeatInterval = fileCfg.HeartbeatInterval
	}

	worker := w.New(workerCfg)
	defer worker.Close()

	ctx := context.Background()
	if err := worker.Discover(ctx); err != nil {
		log.Fatalf("worker %d: discovery failed: %v", workerID, err)
	}
	go worker.RunHeartbeat(ctx)

	exitCode := 0
	for it := 0; it < iterations; it++ {
		done, err := worker.RunIterationWithRetries(ctx, int32(it))
		if err != nil {
			log.Printf("⚠️  worker %d iter %d error: %v", workerID, it, err)
		}
		if !done {
			exitCode = 1
		}
		fmt.Printf("✅ worker %d iter %d done=%t\n", workerID, it, done)
	}
	fmt.Printf("🎉 worker %d finished %d iterations\n", workerID, iterations)
	return exitCode
}
