package persistence

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// MemoryAdapter keeps values in process memory. It is used in tests and
// for throwaway sessions.
type MemoryAdapter struct {
	storage map[string][]byte
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMemoryAdapter creates an empty in-memory adapter
func NewMemoryAdapter(logger *zap.Logger) *MemoryAdapter {
	return &MemoryAdapter{
		storage: make(map[string][]byte),
		logger:  logger,
	}
}

// Get returns a copy of the stored value
func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	value, ok := a.storage[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

// Set replaces the value under key
func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.storage[key] = append([]byte(nil), value...)

	if a.logger != nil {
		a.logger.Debug("memory: value stored",
			zap.String("key", key),
			zap.Int("size_bytes", len(value)),
		)
	}
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (a *MemoryAdapter) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.storage, key)
	return nil
}
