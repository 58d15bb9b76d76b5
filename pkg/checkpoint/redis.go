package checkpoint

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/syncfl/control-plane/pkg/tensor"
)

// RedisConfig configures the Redis-backed checkpoint store.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	Database int    `yaml:"database"`
	PoolSize int    `yaml:"pool_size"`
}

// RedisStore persists checkpoints as Redis string values, one key per
// checkpoint path. There is no default TTL; checkpoints are kept until an
// operator evicts them.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisStore(config RedisConfig) (*RedisStore, error) {
	opts := &redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.Database,
	}
	if config.PoolSize > 0 {
		opts.PoolSize = config.PoolSize
	}

	client := redis.NewClient(opts)
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("checkpoint: connect redis: %w", err)
	}

	return &RedisStore{client: client, ctx: ctx}, nil
}

func (r *RedisStore) key(path string) string {
	return fmt.Sprintf("checkpoint:%s", path)
}

func (r *RedisStore) Save(epoch int32, path string, params tensor.Set) (string, error) {
	data, err := encode(epoch, params)
	if err != nil {
		return "", err
	}
	path = resolvePath(epoch, path)
	if err := r.client.Set(r.ctx, r.key(path), data, 0).Err(); err != nil {
		return "", fmt.Errorf("checkpoint: redis set: %w", err)
	}
	return path, nil
}

func (r *RedisStore) Load(path string) (int32, tensor.Set, error) {
	data, err := r.client.Get(r.ctx, r.key(path)).Bytes()
	if err != nil {
		return 0, nil, fmt.Errorf("checkpoint: redis get: %w", err)
	}
	return decode(data)
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
