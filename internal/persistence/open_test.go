package persistence

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/hope/apps/backend/internal/config"
	"go.uber.org/zap"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("memory", func(t *testing.T) {
		backend, err := Open(ctx, config.PersistenceConfig{Backend: config.BackendMemory}, logger)
		require.NoError(t, err)
		defer backend.Close()

		assert.IsType(t, &MemoryAdapter{}, backend.Adapter)
		assert.NoError(t, backend.Ping(ctx, "hope-app-store"))
	})

	t.Run("file", func(t *testing.T) {
		backend, err := Open(ctx, config.PersistenceConfig{Backend: config.BackendFile, FilePath: t.TempDir()}, logger)
		require.NoError(t, err)
		defer backend.Close()

		assert.IsType(t, &FileAdapter{}, backend.Adapter)
	})

	t.Run("encrypted file", func(t *testing.T) {
		backend, err := Open(ctx, config.PersistenceConfig{
			Backend:       config.BackendFile,
			FilePath:      t.TempDir(),
			EncryptionKey: base64.StdEncoding.EncodeToString(make([]byte, 32)),
		}, logger)
		require.NoError(t, err)
		defer backend.Close()

		assert.IsType(t, &EncryptedAdapter{}, backend.Adapter)
		require.NoError(t, backend.Set(ctx, "hope-app-store", []byte("{}")))
		value, err := backend.Get(ctx, "hope-app-store")
		require.NoError(t, err)
		assert.Equal(t, []byte("{}"), value)
	})

	t.Run("bad encryption key", func(t *testing.T) {
		_, err := Open(ctx, config.PersistenceConfig{
			Backend:       config.BackendMemory,
			EncryptionKey: "not-a-key",
		}, logger)
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open(ctx, config.PersistenceConfig{Backend: "sqlite"}, logger)
		assert.Error(t, err)
	})
}
