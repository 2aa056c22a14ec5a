package auditlog

import (
	"context"
	"fmt"
	"sync"

	"shiprestrict/internal/restriction/models"
)

// InMemoryStore keeps audit entries in insertion order.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []*models.AuditEntry
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, entry *models.AuditEntry) error {
	if entry == nil {
		return fmt.Errorf("audit entry is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *entry
	copied.Allowed = append([]string{}, entry.Allowed...)
	copied.Excluded = append([]string{}, entry.Excluded...)
	s.entries = append(s.entries, &copied)
	return nil
}

// Len reports the number of stored entries. Test helper.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]*models.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		return []*models.AuditEntry{}, nil
	}

	n := len(s.entries)
	if limit > n {
		limit = n
	}
	// Newest first: walk the tail backwards.
	out := make([]*models.AuditEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		copied := *s.entries[i]
		out = append(out, &copied)
	}
	return out, nil
}
