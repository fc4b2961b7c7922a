package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileAdapter(t *testing.T) {
	adapter, err := NewFileAdapter(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	testAdapterContract(t, adapter)
}

func TestFileAdapter_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")

	adapter, err := NewFileAdapter(dir, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, adapter.Set(context.Background(), "hope-app-store", []byte("{}")))

	_, err = os.Stat(filepath.Join(dir, "hope-app-store.json"))
	assert.NoError(t, err)
}

func TestFileAdapter_RejectsUnsafeKeys(t *testing.T) {
	adapter, err := NewFileAdapter(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", ".", "..", "../escape", "nested/key", `nested\key`} {
		t.Run(key, func(t *testing.T) {
			assert.Error(t, adapter.Set(ctx, key, []byte("x")))
			_, err := adapter.Get(ctx, key)
			assert.Error(t, err)
			assert.NotErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestFileAdapter_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFileAdapter(dir, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "hope-app-store", []byte(`{"current_role":"doctor"}`)))

	second, err := NewFileAdapter(dir, zap.NewNop())
	require.NoError(t, err)
	value, err := second.Get(ctx, "hope-app-store")
	require.NoError(t, err)
	assert.JSONEq(t, `{"current_role":"doctor"}`, string(value))
}
