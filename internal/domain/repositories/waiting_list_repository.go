package repositories

import (
	"context"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
)

// WaitingListRepository defines the persistence operations for waiting-list entries.
// Every mutation is scoped by restaurant so a caching decorator knows which list to drop.
type WaitingListRepository interface {
	// ListByRestaurant returns all entries of a restaurant ordered by created_at ascending
	ListByRestaurant(ctx context.Context, restaurantID string) ([]*entities.WaitingEntry, error)

	// NextQueueNumber returns max(queue_number)+1 for the restaurant, or 1 when empty
	NextQueueNumber(ctx context.Context, restaurantID string) (int, error)

	// Create inserts an entry and returns the stored row
	Create(ctx context.Context, entry *entities.WaitingEntry) (*entities.WaitingEntry, error)

	// Update applies an edit and returns the stored row
	Update(ctx context.Context, restaurantID, id string, patch entities.WaitingEntryPatch) (*entities.WaitingEntry, error)

	// Transition writes a status change and returns the stored row
	Transition(ctx context.Context, restaurantID, id string, change entities.StatusChange) (*entities.WaitingEntry, error)

	// Delete removes an entry
	Delete(ctx context.Context, restaurantID, id string) error
}

// NotificationRepository records outbound customer messages
type NotificationRepository interface {
	// Record stores one delivery attempt
	Record(ctx context.Context, n *entities.WaitingListNotification) error

	// ListByEntry returns the attempts for an entry, newest first
	ListByEntry(ctx context.Context, entryID string) ([]*entities.WaitingListNotification, error)
}
