package rules

import (
	"context"
	"sync"

	"shiprestrict/internal/restriction/models"
	"shiprestrict/pkg/requestcontext"
)

// InMemoryStore keeps rule records in a map. Used in tests and as the
// fallback when no database is configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[int]*models.RuleRecord
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{records: make(map[int]*models.RuleRecord)}
}

func (s *InMemoryStore) Get(_ context.Context, modeKey int) (*models.RuleSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[modeKey]
	if !ok {
		return models.EmptyRuleSet(modeKey), nil
	}
	return record.RuleSet(), nil
}

func (s *InMemoryStore) Put(ctx context.Context, modeKey int, rs *models.RuleSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := requestcontext.Now(ctx)
	record, ok := s.records[modeKey]
	if !ok {
		record = &models.RuleRecord{MethodID: modeKey, CreatedAt: now}
		s.records[modeKey] = record
	}
	record.AllowedCountries = append([]string{}, rs.Allowed...)
	record.ExcludedCountries = append([]string{}, rs.Excluded...)
	record.UpdatedAt = now
	return nil
}

// Record exposes the stored row for tests asserting created_at/updated_at.
func (s *InMemoryStore) Record(modeKey int) (*models.RuleRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[modeKey]
	if !ok {
		return nil, false
	}
	copied := *record
	return &copied, true
}

// Len reports how many mode keys have a stored record.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
