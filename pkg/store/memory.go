package store

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store for single-process deployments
// and tests. The mutex only protects map access; cache-level write
// races are acceptable per the engine's last-writer-wins policy.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string][]byte),
	}
}

// Get returns the value stored under (namespace, key).
func (s *MemoryStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ns, ok := s.data[namespace]
	if !ok {
		return nil, ErrNotFound
	}
	value, ok := ns[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores value under (namespace, key), replacing any prior entry.
func (s *MemoryStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.data[namespace]
	if !ok {
		ns = make(map[string][]byte)
		s.data[namespace] = ns
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	ns[key] = stored
	return nil
}

// Clear removes every entry in a namespace.
func (s *MemoryStore) Clear(ctx context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, namespace)
	return nil
}
