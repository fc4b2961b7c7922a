package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const kvSchema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key        VARCHAR(255) PRIMARY KEY,
		value      BYTEA NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	)
`

// PostgresAdapter keeps values in a single key/value table
type PostgresAdapter struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresAdapter creates a PostgresAdapter on an existing pool
func NewPostgresAdapter(db *pgxpool.Pool, logger *zap.Logger) *PostgresAdapter {
	return &PostgresAdapter{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the kv_store table if it does not exist
func (a *PostgresAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.Exec(ctx, kvSchema); err != nil {
		a.logger.Error("failed to create kv_store table", zap.Error(err))
		return fmt.Errorf("failed to create kv_store table: %w", err)
	}
	return nil
}

// Get retrieves the value stored under key
func (a *PostgresAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM kv_store WHERE key = $1`

	var value []byte
	err := a.db.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		a.logger.Error("failed to get value",
			zap.Error(err),
			zap.String("key", key),
		)
		return nil, fmt.Errorf("failed to get value: %w", err)
	}

	return value, nil
}

// Set upserts the value stored under key
func (a *PostgresAdapter) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := a.db.Exec(ctx, query, key, value); err != nil {
		a.logger.Error("failed to set value",
			zap.Error(err),
			zap.String("key", key),
		)
		return fmt.Errorf("failed to set value: %w", err)
	}

	return nil
}

// Delete removes the value stored under key
func (a *PostgresAdapter) Delete(ctx context.Context, key string) error {
	if _, err := a.db.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		a.logger.Error("failed to delete value",
			zap.Error(err),
			zap.String("key", key),
		)
		return fmt.Errorf("failed to delete value: %w", err)
	}
	return nil
}
