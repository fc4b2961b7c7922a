package persistence

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testAdapterContract runs the behaviour every adapter must share
func testAdapterContract(t *testing.T, adapter Adapter) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key returns ErrNotFound", func(t *testing.T) {
		_, err := adapter.Get(ctx, "missing-key")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set then get returns the value", func(t *testing.T) {
		require.NoError(t, adapter.Set(ctx, "hope-app-store", []byte(`{"schema_version":1}`)))

		value, err := adapter.Get(ctx, "hope-app-store")
		require.NoError(t, err)
		assert.JSONEq(t, `{"schema_version":1}`, string(value))
	})

	t.Run("set replaces the previous value", func(t *testing.T) {
		require.NoError(t, adapter.Set(ctx, "replace-key", []byte("first")))
		require.NoError(t, adapter.Set(ctx, "replace-key", []byte("second")))

		value, err := adapter.Get(ctx, "replace-key")
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), value)
	})

	t.Run("delete removes the value and tolerates missing keys", func(t *testing.T) {
		require.NoError(t, adapter.Set(ctx, "delete-key", []byte("value")))
		require.NoError(t, adapter.Delete(ctx, "delete-key"))
		require.NoError(t, adapter.Delete(ctx, "delete-key"))

		_, err := adapter.Get(ctx, "delete-key")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryAdapter(t *testing.T) {
	testAdapterContract(t, NewMemoryAdapter(nil))
}

func TestMemoryAdapter_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter(nil)

	value := []byte("original")
	require.NoError(t, adapter.Set(ctx, "key", value))
	value[0] = 'X'

	got, err := adapter.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got)

	got[0] = 'Y'
	again, err := adapter.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}

// Property: any byte payload written to an adapter is read back unchanged
func TestProperty_MemoryAdapterRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	adapter := NewMemoryAdapter(nil)
	ctx := context.Background()

	properties.Property("get returns what set stored", prop.ForAll(
		func(key, value string) bool {
			if err := adapter.Set(ctx, key, []byte(value)); err != nil {
				return false
			}
			got, err := adapter.Get(ctx, key)
			return err == nil && string(got) == value
		},
		gen.Identifier(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
