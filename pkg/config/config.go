// Package config loads the YAML process configuration files for the
// three control-plane binaries. Command-line flags and environment
// variables, where a binary supports them, always take precedence over a
// loaded file — the file supplies defaults, not overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/syncfl/control-plane/pkg/checkpoint"
)

// AggregatorConfig is the aggregator process's on-disk configuration.
type AggregatorConfig struct {
	ServerAddress      string            `yaml:"server_address"`
	TotalWorkers       int               `yaml:"total_workers"`
	CheckpointInterval int32             `yaml:"checkpoint_interval"`
	Checkpoint         checkpoint.Config `yaml:"checkpoint"`
	RestoreCheckpoint  string            `yaml:"restore_checkpoint"`
	MetricsAddress     string            `yaml:"metrics_address"`
	MonitorPort        int               `yaml:"monitor_port"`
}

// CoordinatorConfig is the coordinator process's on-disk configuration.
type CoordinatorConfig struct {
	ServerAddress     string        `yaml:"server_address"`
	AggregatorAddress string        `yaml:"aggregator_address"`
	AggregatorPort    int32         `yaml:"aggregator_port"`
	HeartbeatTimeout  time.Duration `yaml:"heartbeat_timeout"`
	SweepInterval     time.Duration `yaml:"sweep_interval"`
	MetricsAddress    string        `yaml:"metrics_address"`
	MonitorPort       int           `yaml:"monitor_port"`
}

// WorkerConfig is a training worker process's on-disk configuration.
type WorkerConfig struct {
	WorkerID            int32         `yaml:"worker_id"`
	CoordinatorAddress  string        `yaml:"coordinator_address"`
	Iterations          int           `yaml:"iterations"`
	MaxIterationRetries int           `yaml:"max_iteration_retries"`
	RetryDelay          time.Duration `yaml:"retry_delay"`
	PollInterval        time.Duration `yaml:"poll_interval"`
	MaxPolls            int           `yaml:"max_polls"`
	HeartbeatInterval   time.Duration `yaml:"heartbeat_interval"`
}

// LoadAggregatorConfig reads and parses an aggregator YAML file.
func LoadAggregatorConfig(path string) (*AggregatorConfig, error) {
	var cfg AggregatorConfig
	if err := load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadCoordinatorConfig reads and parses a coordinator YAML file.
func LoadCoordinatorConfig(path string) (*CoordinatorConfig, error) {
	var cfg CoordinatorConfig
	if err := load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWorkerConfig reads and parses a worker YAML file.
func LoadWorkerConfig(path string) (*WorkerConfig, error) {
	var cfg WorkerConfig
	if err := load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func load(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}
