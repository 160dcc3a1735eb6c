package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/providers"
)

// WaitingListSyncService keeps engines consistent across API instances. It
// listens on the global waiting-list channel and drops the local engine of any
// restaurant another instance changed, so the next request reloads it.
type WaitingListSyncService struct {
	registry *WaitingListRegistry
	eventBus providers.EventBus
	origin   string
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewWaitingListSyncService creates a new sync service. origin must match the
// one given to the engines of this process.
func NewWaitingListSyncService(registry *WaitingListRegistry, eventBus providers.EventBus, origin string) *WaitingListSyncService {
	ctx, cancel := context.WithCancel(context.Background())
	return &WaitingListSyncService{
		registry: registry,
		eventBus: eventBus,
		origin:   origin,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for events
func (s *WaitingListSyncService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelWaitingListUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to waiting list updates: %w", err)
	}

	go s.processEvents(eventChan)
	log.Info().Str("origin", s.origin).Msg("Waiting list sync service started")
	return nil
}

// Stop stops the sync service
func (s *WaitingListSyncService) Stop() {
	s.cancel()
	log.Info().Msg("Waiting list sync service stopped")
}

func (s *WaitingListSyncService) processEvents(eventChan <-chan *entities.QueueEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			s.handleEvent(event)
		}
	}
}

func (s *WaitingListSyncService) handleEvent(event *entities.QueueEvent) {
	if event == nil || event.Origin == s.origin || event.RestaurantID == "" {
		return
	}
	// Reloads and manual reorders change no stored data.
	switch event.EventType {
	case entities.QueueEventStatsUpdated, entities.QueueEventListReordered:
		return
	}

	s.registry.Invalidate(event.RestaurantID)
	log.Debug().
		Str("restaurant_id", event.RestaurantID).
		Str("event_type", string(event.EventType)).
		Str("from", event.Origin).
		Msg("Dropped stale waiting list engine")
}
