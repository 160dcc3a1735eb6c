package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/providers"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/repositories"
)

// CachedWaitingListAdapter wraps a WaitingListRepository with a read-through
// cache of each restaurant's full list. Every mutation drops that restaurant's key.
type CachedWaitingListAdapter struct {
	adapter repositories.WaitingListRepository
	cache   providers.CacheProvider
	ttl     time.Duration
}

// NewCachedWaitingListAdapter creates a new cached waiting list adapter. ttl
// is raised to one second so a snapshot can never outlive a missed invalidation
// indefinitely.
func NewCachedWaitingListAdapter(adapter repositories.WaitingListRepository, cache providers.CacheProvider, ttl time.Duration) repositories.WaitingListRepository {
	if ttl < time.Second {
		ttl = time.Second
	}
	return &CachedWaitingListAdapter{
		adapter: adapter,
		cache:   cache,
		ttl:     ttl,
	}
}

func waitingListCacheKey(restaurantID string) string {
	return fmt.Sprintf("waiting_list:%s", restaurantID)
}

// ListByRestaurant serves from cache when possible
func (a *CachedWaitingListAdapter) ListByRestaurant(ctx context.Context, restaurantID string) ([]*entities.WaitingEntry, error) {
	key := waitingListCacheKey(restaurantID)

	cached, err := a.cache.Get(ctx, key)
	switch {
	case err == nil:
		var entries []*entities.WaitingEntry
		if err := json.Unmarshal(cached, &entries); err == nil {
			return entries, nil
		}
		log.Warn().Err(err).Str("restaurant_id", restaurantID).Msg("Discarding unreadable cached waiting list")
	case !errors.Is(err, providers.ErrCacheMiss):
		log.Warn().Err(err).Str("restaurant_id", restaurantID).Msg("Waiting list cache read failed")
	}

	entries, err := a.adapter.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(entries); err == nil {
		if err := a.cache.Set(ctx, key, data, a.ttl); err != nil {
			log.Warn().Err(err).Str("restaurant_id", restaurantID).Msg("Failed to cache waiting list")
		}
	}

	return entries, nil
}

// NextQueueNumber always reads through to the database
func (a *CachedWaitingListAdapter) NextQueueNumber(ctx context.Context, restaurantID string) (int, error) {
	return a.adapter.NextQueueNumber(ctx, restaurantID)
}

// Create inserts and invalidates
func (a *CachedWaitingListAdapter) Create(ctx context.Context, entry *entities.WaitingEntry) (*entities.WaitingEntry, error) {
	created, err := a.adapter.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	a.invalidate(ctx, entry.RestaurantID)
	return created, nil
}

// Update edits and invalidates
func (a *CachedWaitingListAdapter) Update(ctx context.Context, restaurantID, id string, patch entities.WaitingEntryPatch) (*entities.WaitingEntry, error) {
	updated, err := a.adapter.Update(ctx, restaurantID, id, patch)
	if err != nil {
		return nil, err
	}
	a.invalidate(ctx, restaurantID)
	return updated, nil
}

// Transition writes a status change and invalidates
func (a *CachedWaitingListAdapter) Transition(ctx context.Context, restaurantID, id string, change entities.StatusChange) (*entities.WaitingEntry, error) {
	updated, err := a.adapter.Transition(ctx, restaurantID, id, change)
	if err != nil {
		return nil, err
	}
	a.invalidate(ctx, restaurantID)
	return updated, nil
}

// Delete removes and invalidates
func (a *CachedWaitingListAdapter) Delete(ctx context.Context, restaurantID, id string) error {
	if err := a.adapter.Delete(ctx, restaurantID, id); err != nil {
		return err
	}
	a.invalidate(ctx, restaurantID)
	return nil
}

func (a *CachedWaitingListAdapter) invalidate(ctx context.Context, restaurantID string) {
	if err := a.cache.Invalidate(ctx, waitingListCacheKey(restaurantID)); err != nil {
		log.Warn().Err(err).Str("restaurant_id", restaurantID).Msg("Failed to invalidate waiting list cache")
	}
}
