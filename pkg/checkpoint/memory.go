package checkpoint

import (
	"fmt"
	"sync"

	"github.com/syncfl/control-plane/pkg/tensor"
)

// MemoryStore keeps checkpoints in process memory. Useful for tests and for
// harnesses that never need checkpoints to outlive the aggregator process.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Save(epoch int32, path string, params tensor.Set) (string, error) {
	data, err := encode(epoch, params)
	if err != nil {
		return "", err
	}
	path = resolvePath(epoch, path)

	m.mu.Lock()
	m.data[path] = data
	m.mu.Unlock()
	return path, nil
}

func (m *MemoryStore) Load(path string) (int32, tensor.Set, error) {
	m.mu.RLock()
	data, ok := m.data[path]
	m.mu.RUnlock()
	if !ok {
		return 0, nil, fmt.Errorf("checkpoint: no such checkpoint %q", path)
	}
	return decode(data)
}

func (m *MemoryStore) Close() error { return nil }
