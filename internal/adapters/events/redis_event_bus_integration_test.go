//go:build integration

package events

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/providers"
	redisclient "github.com/guiomkt/cheff-guio-sub000/internal/infrastructure/clients/redis"
	"github.com/guiomkt/cheff-guio-sub000/pkg/config"
)

func newTestRedisClient(t *testing.T) *redisclient.Client {
	t.Helper()

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
	require.NoError(t, err, "Failed to start redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	client, err := redisclient.NewClient(ctx, &config.RedisConfig{Host: host, Port: portNum})
	require.NoError(t, err, "Failed to create redis client")
	t.Cleanup(func() { client.Close() })
	return client
}

func waitForQueueEvent(t *testing.T, ch <-chan *entities.QueueEvent) *entities.QueueEvent {
	t.Helper()
	select {
	case ev := <-ch:
		require.NotNil(t, ev)
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestRedisEventBus_Integration_Fanout(t *testing.T) {
	client := newTestRedisClient(t)

	bus := NewRedisEventBus(client)
	defer bus.Close()

	channel := providers.GetWaitingListChannel("restaurant-1")
	ctx1, cancel1 := context.WithCancel(context.Background())
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel1()
	defer cancel2()

	sub1, err := bus.Subscribe(ctx1, channel)
	require.NoError(t, err)
	sub2, err := bus.Subscribe(ctx2, channel)
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	entry := &entities.WaitingEntry{ID: "entry-1", RestaurantID: "restaurant-1", CustomerName: "Ana", PartySize: 2, QueueNumber: 1, Status: entities.WaitingStatusWaiting}
	event := entities.NewWaitingListEvent("restaurant-1", entities.QueueEventEntryAdded, entry, entities.WaitingListStats{ActiveCount: 1})
	require.NoError(t, bus.Publish(context.Background(), channel, event))

	received1 := waitForQueueEvent(t, sub1)
	received2 := waitForQueueEvent(t, sub2)

	assert.Equal(t, event.ID, received1.ID)
	assert.Equal(t, event.ID, received2.ID)
	assert.Equal(t, entities.QueueEventEntryAdded, received1.EventType)
	require.NotNil(t, received1.Entry)
	assert.Equal(t, "Ana", received1.Entry.CustomerName)
	require.NotNil(t, received1.Stats)
	assert.Equal(t, 1, received1.Stats.ActiveCount)
}

func TestRedisEventBus_Integration_CancelledSubscriberStopsReceiving(t *testing.T) {
	client := newTestRedisClient(t)

	bus := NewRedisEventBus(client)
	defer bus.Close()

	channel := providers.GetAreaChannel("area-1")
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := bus.Subscribe(ctx, channel)
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	cancel()

	// the subscription channel is closed once the context is done
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-sub:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 20*time.Millisecond)
}
