package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guiomkt/cheff-guio-sub000/internal/application/services"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/providers"
)

func TestWaitingListRegistry_For(t *testing.T) {
	repo := newFakeWaitingListRepo(time.Now)
	repo.seed(&entities.WaitingEntry{ID: "e-1", RestaurantID: restaurantID, QueueNumber: 1, Status: entities.WaitingStatusWaiting, CreatedAt: time.Now(), UpdatedAt: time.Now()})

	created := 0
	registry := services.NewWaitingListRegistry(func(id string) *services.WaitingList {
		created++
		return services.NewWaitingList(id, repo, nil, nil)
	})

	engine, err := registry.For(context.Background(), restaurantID)
	require.NoError(t, err)
	assert.Len(t, engine.Entries(), 1)

	again, err := registry.For(context.Background(), restaurantID)
	require.NoError(t, err)
	assert.Same(t, engine, again)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, repo.callCount("ListByRestaurant"))

	registry.Invalidate(restaurantID)
	assert.Equal(t, 0, registry.Loaded())

	reloaded, err := registry.For(context.Background(), restaurantID)
	require.NoError(t, err)
	assert.NotSame(t, engine, reloaded)
	assert.Equal(t, 2, repo.callCount("ListByRestaurant"))
}

func TestWaitingListRegistry_LoadFailureIsNotCached(t *testing.T) {
	repo := newFakeWaitingListRepo(time.Now)
	repo.failNext = assert.AnError
	registry := services.NewWaitingListRegistry(func(id string) *services.WaitingList {
		return services.NewWaitingList(id, repo, nil, nil)
	})

	_, err := registry.For(context.Background(), restaurantID)
	assert.Error(t, err)
	assert.Equal(t, 0, registry.Loaded())
}

func TestWaitingListRegistry_WaitNotifications(t *testing.T) {
	repo := newFakeWaitingListRepo(time.Now)
	notifier := new(MockCustomerNotifier)
	delivered := make(chan struct{}, 1)
	notifier.On("SendQueueConfirmation", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { delivered <- struct{}{} }).
		Return(nil)
	registry := services.NewWaitingListRegistry(func(id string) *services.WaitingList {
		return services.NewWaitingList(id, repo, nil, notifier)
	})

	engine, err := registry.For(context.Background(), restaurantID)
	require.NoError(t, err)
	_, err = engine.AddEntry(context.Background(), draft("Ana", entities.PriorityLow))
	require.NoError(t, err)

	registry.WaitNotifications()
	select {
	case <-delivered:
	default:
		t.Fatal("queue confirmation still pending after WaitNotifications")
	}
}

func TestWaitingListSyncService_DropsEnginesChangedElsewhere(t *testing.T) {
	repo := newFakeWaitingListRepo(time.Now)
	registry := services.NewWaitingListRegistry(func(id string) *services.WaitingList {
		return services.NewWaitingList(id, repo, nil, nil)
	})
	_, err := registry.For(context.Background(), restaurantID)
	require.NoError(t, err)

	bus := NewMockEventBus()
	sync := services.NewWaitingListSyncService(registry, bus, "instance-a")
	require.NoError(t, sync.Start())
	defer sync.Stop()

	// own echo and reload notices are ignored
	bus.Send(providers.EventChannelWaitingListUpdates, &entities.QueueEvent{EventType: entities.QueueEventEntryAdded, RestaurantID: restaurantID, Origin: "instance-a"})
	bus.Send(providers.EventChannelWaitingListUpdates, &entities.QueueEvent{EventType: entities.QueueEventStatsUpdated, RestaurantID: restaurantID, Origin: "instance-b"})
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, registry.Loaded())

	bus.Send(providers.EventChannelWaitingListUpdates, &entities.QueueEvent{EventType: entities.QueueEventEntryUpdated, RestaurantID: restaurantID, Origin: "instance-b"})
	assert.Eventually(t, func() bool { return registry.Loaded() == 0 }, time.Second, 10*time.Millisecond)
}
