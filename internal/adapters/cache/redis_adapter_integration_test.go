//go:build integration

package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/providers"
	redisclient "github.com/guiomkt/cheff-guio-sub000/internal/infrastructure/clients/redis"
	"github.com/guiomkt/cheff-guio-sub000/pkg/config"
)

func TestRedisAdapter_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	client, err := redisclient.NewClient(ctx, &config.RedisConfig{Host: host, Port: portNum})
	require.NoError(t, err)
	defer client.Close()

	adapter := NewRedisAdapter(client, "cheff")

	_, err = adapter.Get(ctx, "waiting_list:r-1")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)

	require.NoError(t, adapter.Set(ctx, "waiting_list:r-1", []byte(`[{"id":"e-1"}]`), time.Minute))

	value, err := adapter.Get(ctx, "waiting_list:r-1")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"e-1"}]`, string(value))

	// keys are namespaced by the prefix
	raw, err := client.Client().Get(ctx, "cheff:waiting_list:r-1").Result()
	require.NoError(t, err)
	assert.NotEmpty(t, raw)

	ttl, err := client.Client().TTL(ctx, "cheff:waiting_list:r-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, adapter.Set(ctx, "waiting_list:r-2", []byte(`[]`), 0))
	require.NoError(t, adapter.Invalidate(ctx, "waiting_list:r-1", "waiting_list:r-2", "waiting_list:missing"))
	require.NoError(t, adapter.Invalidate(ctx))

	n, err := client.Client().Exists(ctx, "cheff:waiting_list:r-1", "cheff:waiting_list:r-2").Result()
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = adapter.Get(ctx, "waiting_list:r-2")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}
