package methods

import (
	"context"
	"fmt"
	"sync"

	"shiprestrict/internal/restriction/models"
	"shiprestrict/pkg/platform/sentinel"
)

// InMemoryStore holds shipping methods seeded at construction.
type InMemoryStore struct {
	mu      sync.RWMutex
	methods []models.ShippingMethod
}

func NewMemory(seed ...models.ShippingMethod) *InMemoryStore {
	return &InMemoryStore{methods: append([]models.ShippingMethod{}, seed...)}
}

func (s *InMemoryStore) List(_ context.Context) ([]models.ShippingMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ShippingMethod{}, s.methods...), nil
}

func (s *InMemoryStore) GetByID(_ context.Context, id int) (*models.ShippingMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.methods {
		if m.ID == id {
			copied := m
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("shipping method %d: %w", id, sentinel.ErrNotFound)
}

func (s *InMemoryStore) SyncEnablement(_ context.Context, modeKey int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.methods {
		s.methods[i].IsEnabled = modeKey == models.GlobalModeKey || s.methods[i].ID == modeKey
	}
	return nil
}
