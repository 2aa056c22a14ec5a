// Package postgres opens the shared database handle and provides the
// transaction runner used by the settings save path.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	txcontext "shiprestrict/pkg/platform/tx"
)

// DB wraps *sql.DB with the transaction-runner contract services depend on.
type DB struct {
	*sql.DB
}

// Open connects and verifies the connection. Returns nil when no URL is
// configured (database not in use).
func Open(url string) (*DB, error) {
	if url == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return &DB{DB: db}, nil
}

// RunInTx executes fn inside one transaction, threading it through context
// so every store touched by fn shares it. Any error rolls everything back.
func (d *DB) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Health checks if the database connection is healthy.
func (d *DB) Health(ctx context.Context) error {
	return d.PingContext(ctx)
}
