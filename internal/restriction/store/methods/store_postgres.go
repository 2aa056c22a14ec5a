package methods

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shiprestrict/internal/restriction/models"
	"shiprestrict/pkg/platform/sentinel"
	txcontext "shiprestrict/pkg/platform/tx"
)

// PostgresStore reads and toggles shipping methods in the platform's
// shipping_methods table. This service never inserts or deletes rows there;
// the commerce platform owns the table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed shipping method store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) List(ctx context.Context) ([]models.ShippingMethod, error) {
	query := `
		SELECT id, title, type, is_enabled
		FROM shipping_methods
		ORDER BY id
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list shipping methods: %w", err)
	}
	defer rows.Close()

	var out []models.ShippingMethod
	for rows.Next() {
		var m models.ShippingMethod
		if err := rows.Scan(&m.ID, &m.Title, &m.Type, &m.IsEnabled); err != nil {
			return nil, fmt.Errorf("scan shipping method: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shipping methods: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id int) (*models.ShippingMethod, error) {
	query := `
		SELECT id, title, type, is_enabled
		FROM shipping_methods
		WHERE id = $1
	`
	var m models.ShippingMethod
	err := s.execer(ctx).QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Title, &m.Type, &m.IsEnabled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("shipping method %d: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get shipping method: %w", err)
	}
	return &m, nil
}

func (s *PostgresStore) SyncEnablement(ctx context.Context, modeKey int) error {
	query := `
		UPDATE shipping_methods
		SET is_enabled = ($1 = 0 OR id = $1)
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, modeKey); err != nil {
		return fmt.Errorf("sync method enablement: %w", err)
	}
	return nil
}
