package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vcscsvcscs/hope/apps/backend/internal/config"
	"github.com/vcscsvcscs/hope/apps/backend/internal/security"
	"go.uber.org/zap"
)

// Backend is an opened adapter together with the resources behind it
type Backend struct {
	Adapter
	Name string
	// Pool is set for the postgres backend so other components can share it
	Pool    *pgxpool.Pool
	closers []func()
}

// Close releases connections held by the backend
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// Ping checks that the backend answers reads. A missing key counts as healthy.
func (b *Backend) Ping(ctx context.Context, key string) error {
	_, err := b.Get(ctx, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// Open builds the adapter selected by cfg.Backend, wrapping it with
// encryption when an encryption key is configured
func Open(ctx context.Context, cfg config.PersistenceConfig, logger *zap.Logger) (*Backend, error) {
	backend := &Backend{Name: cfg.Backend}

	switch cfg.Backend {
	case config.BackendMemory:
		backend.Adapter = NewMemoryAdapter(logger)

	case config.BackendFile:
		adapter, err := NewFileAdapter(cfg.FilePath, logger)
		if err != nil {
			return nil, err
		}
		backend.Adapter = adapter

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		adapter := NewPostgresAdapter(pool, logger)
		if err := adapter.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		backend.Adapter = adapter
		backend.Pool = pool
		backend.closers = append(backend.closers, pool.Close)

	case config.BackendRedis:
		adapter, err := NewRedisAdapter(ctx, RedisConfig{URL: cfg.RedisURL, KeyPrefix: "hope:"}, logger)
		if err != nil {
			return nil, err
		}
		backend.Adapter = adapter
		backend.closers = append(backend.closers, func() {
			if err := adapter.Close(); err != nil {
				logger.Warn("failed to close redis client", zap.Error(err))
			}
		})

	case config.BackendBlob:
		adapter, err := NewBlobAdapter(cfg.Blob.AccountName, cfg.Blob.AccountKey, cfg.Blob.ContainerName, logger)
		if err != nil {
			return nil, err
		}
		backend.Adapter = adapter

	default:
		return nil, fmt.Errorf("unknown persistence backend %q", cfg.Backend)
	}

	if cfg.EncryptionKey != "" {
		encryptor, err := security.NewEncryptorFromBase64(cfg.EncryptionKey)
		if err != nil {
			backend.Close()
			return nil, fmt.Errorf("failed to create encryptor: %w", err)
		}
		backend.Adapter = NewEncryptedAdapter(backend.Adapter, encryptor)
	}

	logger.Info("persistence backend opened",
		zap.String("backend", cfg.Backend),
		zap.Bool("encrypted", cfg.EncryptionKey != ""),
	)

	return backend, nil
}
