package auditlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"shiprestrict/internal/restriction/models"
)

// PostgresStore persists audit entries in PostgreSQL. Rows are insert-only;
// there is no update path by design.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed audit log store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, entry *models.AuditEntry) error {
	if entry == nil {
		return fmt.Errorf("audit entry is required")
	}

	allowedJSON, err := json.Marshal(entry.Allowed)
	if err != nil {
		return fmt.Errorf("encode allowed snapshot: %w", err)
	}
	excludedJSON, err := json.Marshal(entry.Excluded)
	if err != nil {
		return fmt.Errorf("encode excluded snapshot: %w", err)
	}

	query := `
		INSERT INTO restriction_audit_log
			(id, order_id, country, allowed_countries, excluded_countries, mode_key, method_label, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(ctx, query,
		entry.ID,
		entry.OrderID,
		entry.Country,
		allowedJSON,
		excludedJSON,
		entry.ModeKey,
		entry.MethodLabel,
		entry.Status,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]*models.AuditEntry, error) {
	if limit <= 0 {
		return []*models.AuditEntry{}, nil
	}

	query := `
		SELECT id, order_id, country, allowed_countries, excluded_countries, mode_key, method_label, status, created_at
		FROM restriction_audit_log
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.AuditEntry, 0, limit)
	for rows.Next() {
		var entry models.AuditEntry
		var allowedJSON, excludedJSON []byte
		err := rows.Scan(
			&entry.ID,
			&entry.OrderID,
			&entry.Country,
			&allowedJSON,
			&excludedJSON,
			&entry.ModeKey,
			&entry.MethodLabel,
			&entry.Status,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if err := json.Unmarshal(allowedJSON, &entry.Allowed); err != nil {
			return nil, fmt.Errorf("decode allowed snapshot: %w", err)
		}
		if err := json.Unmarshal(excludedJSON, &entry.Excluded); err != nil {
			return nil, fmt.Errorf("decode excluded snapshot: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}
