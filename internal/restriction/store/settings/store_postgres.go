package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	txcontext "shiprestrict/pkg/platform/tx"
	"shiprestrict/pkg/requestcontext"
)

const modeSettingName = "restriction_mode"

// PostgresStore keeps service settings in a small name/value table, mirroring
// how the commerce platform stores options.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed settings store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) ActiveMode(ctx context.Context) (string, error) {
	var mode string
	query := `SELECT value FROM restriction_settings WHERE name = $1`
	err := s.execer(ctx).QueryRowContext(ctx, query, modeSettingName).Scan(&mode)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read active mode: %w", err)
	}
	return mode, nil
}

func (s *PostgresStore) SetActiveMode(ctx context.Context, mode string) error {
	query := `
		INSERT INTO restriction_settings (name, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, modeSettingName, mode, requestcontext.Now(ctx)); err != nil {
		return fmt.Errorf("write active mode: %w", err)
	}
	return nil
}
