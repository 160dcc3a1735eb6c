package providers

import (
	"context"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to floor events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.QueueEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.QueueEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelWaitingListUpdates carries every waiting-list event of every restaurant
	EventChannelWaitingListUpdates = "waiting_list:updates"

	// EventChannelWaitingListPrefix is the prefix for restaurant waiting-list channels
	EventChannelWaitingListPrefix = "waiting_list:"

	// EventChannelAreaPrefix is the prefix for floor-plan area channels
	EventChannelAreaPrefix = "area:"
)

// GetWaitingListChannel returns the channel name for a restaurant's waiting list
func GetWaitingListChannel(restaurantID string) string {
	return EventChannelWaitingListPrefix + restaurantID
}

// GetAreaChannel returns the channel name for a floor-plan area
func GetAreaChannel(areaID string) string {
	return EventChannelAreaPrefix + areaID
}
