package rules

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"shiprestrict/internal/restriction/models"
	txcontext "shiprestrict/pkg/platform/tx"
	"shiprestrict/pkg/requestcontext"
)

// PostgresStore persists rule records in PostgreSQL. The primary key on
// method_id makes Put an atomic compare-or-insert, so concurrent saves for
// the same mode key cannot produce duplicate rows.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed rule store.
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

func (s *PostgresStore) Get(ctx context.Context, modeKey int) (*models.RuleSet, error) {
	query := `
		SELECT allowed_countries, excluded_countries
		FROM restriction_rules
		WHERE method_id = $1
	`
	var allowedJSON, excludedJSON []byte
	err := s.execer(ctx).QueryRowContext(ctx, query, modeKey).Scan(&allowedJSON, &excludedJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return models.EmptyRuleSet(modeKey), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rule record: %w", err)
	}

	rs := models.EmptyRuleSet(modeKey)
	if err := json.Unmarshal(allowedJSON, &rs.Allowed); err != nil {
		return nil, fmt.Errorf("decode allowed countries: %w", err)
	}
	if err := json.Unmarshal(excludedJSON, &rs.Excluded); err != nil {
		return nil, fmt.Errorf("decode excluded countries: %w", err)
	}
	return rs, nil
}

func (s *PostgresStore) Put(ctx context.Context, modeKey int, rs *models.RuleSet) error {
	if rs == nil {
		return fmt.Errorf("rule set is required")
	}

	allowedJSON, err := json.Marshal(rs.Allowed)
	if err != nil {
		return fmt.Errorf("encode allowed countries: %w", err)
	}
	excludedJSON, err := json.Marshal(rs.Excluded)
	if err != nil {
		return fmt.Errorf("encode excluded countries: %w", err)
	}

	now := requestcontext.Now(ctx)
	query := `
		INSERT INTO restriction_rules (method_id, allowed_countries, excluded_countries, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (method_id) DO UPDATE SET
			allowed_countries = EXCLUDED.allowed_countries,
			excluded_countries = EXCLUDED.excluded_countries,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, modeKey, allowedJSON, excludedJSON, now); err != nil {
		return fmt.Errorf("upsert rule record: %w", err)
	}
	return nil
}
