package settings

import (
	"context"
	"sync"
)

// InMemoryStore holds the active mode in memory.
type InMemoryStore struct {
	mu   sync.RWMutex
	mode string
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) ActiveMode(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode, nil
}

func (s *InMemoryStore) SetActiveMode(_ context.Context, mode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	return nil
}
