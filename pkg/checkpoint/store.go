// Package checkpoint persists and restores the aggregator's parameter set
// together with an epoch tag. The store is pluggable: the aggregator only
// ever calls Save/Load through the Store interface and never cares what
// backend sits behind it.
package checkpoint

import (
	"encoding/json"
	"fmt"

	"github.com/syncfl/control-plane/pkg/tensor"
)

// Store is an opaque snapshot/restore oracle for the parameter set plus an
// epoch tag. Implementations must round-trip (epoch, parameter set)
// exactly. An empty path on Save selects DefaultPath(epoch).
type Store interface {
	Save(epoch int32, path string, params tensor.Set) (savedPath string, err error)
	Load(path string) (epoch int32, params tensor.Set, err error)
	Close() error
}

// record is the serialized shape persisted by every backend in this
// package; only the bytes framing differs per backend.
type record struct {
	Epoch  int32      `json:"epoch"`
	Params tensor.Set `json:"params"`
}

func encode(epoch int32, params tensor.Set) ([]byte, error) {
	return json.Marshal(record{Epoch: epoch, Params: params})
}

func decode(data []byte) (int32, tensor.Set, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return 0, nil, fmt.Errorf("checkpoint: decode: %w", err)
	}
	return r.Epoch, r.Params, nil
}

// DefaultPath renders the default checkpoint name template,
// "checkpoint_epoch_<N>.ckpt".
func DefaultPath(epoch int32) string {
	return fmt.Sprintf("checkpoint_epoch_%d.ckpt", epoch)
}

// resolvePath picks the caller's path when given, the default template
// otherwise.
func resolvePath(epoch int32, path string) string {
	if path != "" {
		return path
	}
	return DefaultPath(epoch)
}

// Config selects and configures a checkpoint backend.
type Config struct {
	Backend  string         `yaml:"backend"` // file, memory, redis, postgres, sqlite
	Dir      string         `yaml:"dir"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres DatabaseConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
}

// New creates a Store backend based on config. Defaults to a file-backed
// store rooted at config.Dir (or the working directory).
func New(config Config) (Store, error) {
	switch config.Backend {
	case "", "file":
		return NewFileStore(config.Dir), nil
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(config.Redis)
	case "postgres", "postgresql":
		return NewPostgresStore(config.Postgres)
	case "sqlite":
		return NewSQLiteStore(config.SQLite)
	default:
		return nil, fmt.Errorf("checkpoint: unsupported backend %q", config.Backend)
	}
}
