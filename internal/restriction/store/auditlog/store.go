// Package auditlog persists the append-only record of per-order restriction
// decisions. Entries are written once at order-creation time and never
// updated or deleted by this service.
package auditlog

import (
	"context"

	"shiprestrict/internal/restriction/models"
)

// Store is the audit persistence contract. ListRecent returns at most limit
// entries, newest first, for the admin report page and CSV export.
type Store interface {
	Append(ctx context.Context, entry *models.AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]*models.AuditEntry, error)
}
