package store

import (
	"context"
	"sync"
)

// Op is one write in a batch: either a full replacement of a slice or its removal.
type Op struct {
	Key    string
	Value  []byte
	Delete bool
}

// Storage is the durable backing of a device namespace. Apply must be
// all-or-nothing across the ops of a single call.
type Storage interface {
	// Get returns the value stored under key. A missing key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Apply(ctx context.Context, ops []Op) error
}

// MemoryStorage keeps slices in a map. It is used in tests and when no
// database is configured.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryStorage) Apply(_ context.Context, ops []Op) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, op := range ops {
		if op.Delete {
			delete(m.data, op.Key)
			continue
		}
		m.data[op.Key] = append([]byte(nil), op.Value...)
	}
	return nil
}

// Keys lists the keys currently stored.
func (m *MemoryStorage) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}
