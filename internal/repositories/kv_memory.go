package repositories

import (
	"context"
	"sync"
)

type memoryKVRepository struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryKVRepository() KeyValueRepository {
	return &memoryKVRepository{entries: make(map[string][]byte)}
}

// Get implements KeyValueRepository.
func (r *memoryKVRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set implements KeyValueRepository.
func (r *memoryKVRepository) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	r.mu.Lock()
	r.entries[key] = stored
	r.mu.Unlock()
	return nil
}

// Clear implements KeyValueRepository.
func (r *memoryKVRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	r.entries = make(map[string][]byte)
	r.mu.Unlock()
	return nil
}
