package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// setupTestRedis starts a Redis container and returns its URL
func setupTestRedis(t *testing.T) (string, func()) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return fmt.Sprintf("redis://%s:%s/0", host, port.Port()), cleanup
}

func TestRedisAdapter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	url, cleanup := setupTestRedis(t)
	defer cleanup()

	adapter, err := NewRedisAdapter(context.Background(), RedisConfig{
		URL:       url,
		PoolSize:  4,
		KeyPrefix: "hope:",
	}, zap.NewNop())
	require.NoError(t, err)
	defer adapter.Close()

	testAdapterContract(t, adapter)
}

func TestNewRedisAdapter_InvalidURL(t *testing.T) {
	_, err := NewRedisAdapter(context.Background(), RedisConfig{URL: "not a url"}, zap.NewNop())
	assert.Error(t, err)
}

func TestRedisAdapter_KeyPrefix(t *testing.T) {
	adapter := &RedisAdapter{prefix: "hope:"}
	assert.Equal(t, "hope:hope-app-store", adapter.key("hope-app-store"))
}
