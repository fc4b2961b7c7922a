package persistence

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/hope/apps/backend/internal/security"
)

func newTestEncryptor(t *testing.T, fill byte) *security.Encryptor {
	t.Helper()
	key := make([]byte, 32)
	for i := range key {
		key[i] = fill
	}
	encryptor, err := security.NewEncryptor(key)
	require.NoError(t, err)
	return encryptor
}

func TestEncryptedAdapter(t *testing.T) {
	testAdapterContract(t, NewEncryptedAdapter(NewMemoryAdapter(nil), newTestEncryptor(t, 7)))
}

func TestEncryptedAdapter_StoresCiphertext(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryAdapter(nil)
	adapter := NewEncryptedAdapter(inner, newTestEncryptor(t, 7))

	plaintext := []byte(`{"current_user":{"name":"Alex Chen"}}`)
	require.NoError(t, adapter.Set(ctx, "hope-app-store", plaintext))

	raw, err := inner.Get(ctx, "hope-app-store")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Alex Chen")

	_, err = base64.StdEncoding.DecodeString(string(raw))
	assert.NoError(t, err)
}

func TestEncryptedAdapter_WrongKey(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryAdapter(nil)

	require.NoError(t, NewEncryptedAdapter(inner, newTestEncryptor(t, 1)).Set(ctx, "k", []byte("secret")))

	_, err := NewEncryptedAdapter(inner, newTestEncryptor(t, 2)).Get(ctx, "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestEncryptedAdapter_ValueBoundToKey(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryAdapter(nil)
	adapter := NewEncryptedAdapter(inner, newTestEncryptor(t, 3))
	require.NoError(t, adapter.Set(ctx, "hope-app-store", []byte(`{"schema_version":1}`)))

	// copy the sealed value under another key behind the adapter's back
	raw, err := inner.Get(ctx, "hope-app-store")
	require.NoError(t, err)
	require.NoError(t, inner.Set(ctx, "hope-app-store-copy", raw))

	_, err = adapter.Get(ctx, "hope-app-store-copy")
	assert.ErrorContains(t, err, "failed to decrypt persisted value")
}
