package identity

import (
	"context"
	"sync"
)

// Slot is a tiny string key-value store that survives restarts.
// Load reports ok=false when the key is absent.
type Slot interface {
	Load(ctx context.Context, key string) (value string, ok bool, err error)
	Store(ctx context.Context, key, value string) error
	Clear(ctx context.Context, key string) error
}

// MemorySlot keeps values in process memory. Useful in tests.
type MemorySlot struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemorySlot returns an empty MemorySlot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: map[string]string{}}
}

var _ Slot = (*MemorySlot)(nil)

func (s *MemorySlot) Load(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemorySlot) Store(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemorySlot) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
