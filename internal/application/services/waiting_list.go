package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/providers"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/repositories"
	apperrors "github.com/guiomkt/cheff-guio-sub000/pkg/errors"
	"github.com/guiomkt/cheff-guio-sub000/pkg/retry"
)

// notifyTimeout bounds one outbound customer message sent after the request returned
const notifyTimeout = 15 * time.Second

// CustomerNotifier sends the outbound messages a waiting-list transition triggers
type CustomerNotifier interface {
	SendQueueConfirmation(ctx context.Context, entry *entities.WaitingEntry) error
	SendTableReady(ctx context.Context, entry *entities.WaitingEntry) error
}

// TableStatusUpdater changes a table's service status
type TableStatusUpdater interface {
	SetStatus(ctx context.Context, tableID string, status entities.TableStatus) (*entities.Table, error)
}

// WaitingList holds the authoritative in-memory order of one restaurant's
// waiting list. Every operation is serialized and the lock is held across the
// persistence call, so in-memory state only changes after a successful write.
type WaitingList struct {
	mu            sync.Mutex
	notifications sync.WaitGroup
	restaurantID  string
	origin        string
	repo          repositories.WaitingListRepository
	tables        TableStatusUpdater
	notifier      CustomerNotifier
	events        providers.EventBus
	now           func() time.Time

	entries []*entities.WaitingEntry
	stats   entities.WaitingListStats
}

// NewWaitingList creates an empty engine; call Refresh to load it.
// tables and notifier may be nil.
func NewWaitingList(restaurantID string, repo repositories.WaitingListRepository, tables TableStatusUpdater, notifier CustomerNotifier) *WaitingList {
	return &WaitingList{
		restaurantID: restaurantID,
		repo:         repo,
		tables:       tables,
		notifier:     notifier,
		now:          time.Now,
		entries:      make([]*entities.WaitingEntry, 0),
	}
}

// SetEventBus enables realtime events. origin identifies this process so
// other instances can ignore their own echoes.
func (w *WaitingList) SetEventBus(bus providers.EventBus, origin string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = bus
	w.origin = origin
}

// SetClock replaces the time source used for notification_time and statistics
func (w *WaitingList) SetClock(now func() time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.now = now
}

// RestaurantID returns the restaurant this engine serves
func (w *WaitingList) RestaurantID() string {
	return w.restaurantID
}

// Entries returns a copy of the current order
func (w *WaitingList) Entries() []*entities.WaitingEntry {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]*entities.WaitingEntry, len(w.entries))
	for i, e := range w.entries {
		out[i] = e.Clone()
	}
	return out
}

// Stats returns the current statistics snapshot
func (w *WaitingList) Stats() entities.WaitingListStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Refresh reloads the list from the store, re-sorts it and recomputes statistics.
// Any manual reordering is discarded.
func (w *WaitingList) Refresh(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries, err := w.repo.ListByRestaurant(ctx, w.restaurantID)
	if err != nil {
		return asPersistenceError("could not load waiting list", err)
	}

	SortWaitingEntries(entries)
	w.entries = entries
	w.recompute()
	w.publish(ctx, entities.QueueEventStatsUpdated, nil)
	return nil
}

// AddEntry puts a new party at the end of its priority bucket
func (w *WaitingList) AddEntry(ctx context.Context, draft entities.WaitingEntryDraft) (*entities.WaitingEntry, error) {
	if errs := draft.Validate(); len(errs) > 0 {
		return nil, apperrors.NewValidationError(strings.Join(errs, "; "))
	}

	created, err := w.addEntry(ctx, draft)
	if err != nil {
		return nil, err
	}

	if w.notifier != nil {
		w.sendInBackground(ctx, created.Clone(), "queue confirmation", w.notifier.SendQueueConfirmation)
	}
	return created, nil
}

func (w *WaitingList) addEntry(ctx context.Context, draft entities.WaitingEntryDraft) (*entities.WaitingEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	priority := draft.Priority
	if priority == "" {
		priority = entities.PriorityLow
	}

	// A concurrent insert from another process can take the same number;
	// the unique index turns that into a conflict and we recompute.
	var created *entities.WaitingEntry
	err := retry.Do(ctx, retry.WriteConfig(), func() error {
		next, err := w.repo.NextQueueNumber(ctx, w.restaurantID)
		if err != nil {
			return retry.Permanent(err)
		}

		created, err = w.repo.Create(ctx, &entities.WaitingEntry{
			RestaurantID:      w.restaurantID,
			CustomerName:      strings.TrimSpace(draft.CustomerName),
			PhoneNumber:       strings.TrimSpace(draft.PhoneNumber),
			PartySize:         draft.PartySize,
			QueueNumber:       next,
			Status:            entities.WaitingStatusWaiting,
			Priority:          priority,
			AreaPreference:    draft.AreaPreference,
			EstimatedWaitTime: draft.EstimatedWaitTime,
			Notes:             draft.Notes,
		})
		if err != nil && !apperrors.IsConflict(err) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, asPersistenceError("could not add customer to queue", err)
	}

	w.entries = append(w.entries, created)
	SortWaitingEntries(w.entries)
	w.recompute()
	w.publish(ctx, entities.QueueEventEntryAdded, created)
	return created.Clone(), nil
}

// UpdateEntry edits the mutable fields of an entry in place
func (w *WaitingList) UpdateEntry(ctx context.Context, id string, patch entities.WaitingEntryPatch) (*entities.WaitingEntry, error) {
	if errs := patch.Validate(); len(errs) > 0 {
		return nil, apperrors.NewValidationError(strings.Join(errs, "; "))
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	updated, err := w.repo.Update(ctx, w.restaurantID, id, patch)
	if err != nil {
		return nil, asPersistenceError("could not update queue entry", err)
	}

	w.replace(updated)
	w.recompute()
	w.publish(ctx, entities.QueueEventEntryUpdated, updated)
	return updated.Clone(), nil
}

// RemoveEntry deletes an entry
func (w *WaitingList) RemoveEntry(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.repo.Delete(ctx, w.restaurantID, id); err != nil {
		return asPersistenceError("could not remove customer from queue", err)
	}

	var removed *entities.WaitingEntry
	if i := w.indexOf(id); i >= 0 {
		removed = w.entries[i]
		w.entries = append(w.entries[:i], w.entries[i+1:]...)
	}
	w.recompute()
	if removed == nil {
		removed = &entities.WaitingEntry{ID: id, RestaurantID: w.restaurantID}
	}
	w.publish(ctx, entities.QueueEventEntryRemoved, removed)
	return nil
}

// NotifyCustomer tells a waiting party their table is ready. Only entries
// still in the waiting status can be notified.
func (w *WaitingList) NotifyCustomer(ctx context.Context, id string) (*entities.WaitingEntry, error) {
	updated, err := w.transition(ctx, id, func(now time.Time) entities.StatusChange {
		return entities.StatusChange{Status: entities.WaitingStatusNotified, NotificationTime: &now}
	})
	if err != nil {
		return nil, err
	}

	if w.notifier != nil {
		w.sendInBackground(ctx, updated.Clone(), "table ready", w.notifier.SendTableReady)
	}
	return updated, nil
}

// sendInBackground delivers a customer message without holding up the
// caller. Failures are logged only; the entry is already persisted.
func (w *WaitingList) sendInBackground(ctx context.Context, entry *entities.WaitingEntry, kind string, send func(context.Context, *entities.WaitingEntry) error) {
	w.notifications.Add(1)
	go func() {
		defer w.notifications.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := send(sendCtx, entry); err != nil {
			log.Warn().Err(err).Str("entry_id", entry.ID).Str("message", kind).Msg("Customer message not delivered")
		}
	}()
}

// WaitNotifications blocks until every customer message already handed off
// has been attempted
func (w *WaitingList) WaitNotifications() {
	w.notifications.Wait()
}

// MarkAsSeated closes an entry as seated and, when a table is given, marks
// the table occupied. A failed table write does not undo the seating: the
// seated entry is returned together with a partial failure error.
func (w *WaitingList) MarkAsSeated(ctx context.Context, id string, tableID *string) (*entities.WaitingEntry, error) {
	updated, err := w.transition(ctx, id, func(time.Time) entities.StatusChange {
		return entities.StatusChange{Status: entities.WaitingStatusSeated, TableID: tableID}
	})
	if err != nil {
		return nil, err
	}

	if tableID != nil && *tableID != "" && w.tables != nil {
		if _, err := w.tables.SetStatus(ctx, *tableID, entities.TableStatusOccupied); err != nil {
			log.Warn().Err(err).Str("entry_id", id).Str("table_id", *tableID).Msg("Entry seated but table status not updated")
			return updated, apperrors.NewPartialFailureError(
				fmt.Sprintf("customer seated but table %s could not be marked occupied", *tableID), err)
		}
	}
	return updated, nil
}

// MarkAsNoShow closes an entry as a no-show
func (w *WaitingList) MarkAsNoShow(ctx context.Context, id string) (*entities.WaitingEntry, error) {
	return w.transition(ctx, id, func(time.Time) entities.StatusChange {
		return entities.StatusChange{Status: entities.WaitingStatusNoShow}
	})
}

func (w *WaitingList) transition(ctx context.Context, id string, build func(now time.Time) entities.StatusChange) (*entities.WaitingEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.indexOf(id)
	if i < 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("waiting entry with id %s not found", id))
	}

	change := build(w.now())
	current := w.entries[i].Status
	if !current.CanTransitionTo(change.Status) {
		return nil, apperrors.NewInvalidTransitionError(
			fmt.Sprintf("cannot move entry from %s to %s", current, change.Status))
	}

	updated, err := w.repo.Transition(ctx, w.restaurantID, id, change)
	if err != nil {
		return nil, asPersistenceError(fmt.Sprintf("could not mark customer as %s", change.Status), err)
	}

	w.replace(updated)
	w.recompute()
	w.publish(ctx, entities.QueueEventEntryUpdated, updated)
	return updated.Clone(), nil
}

// MoveEntryUp swaps an entry with the one before it. The override lives only
// in memory and is discarded by the next Refresh.
func (w *WaitingList) MoveEntryUp(ctx context.Context, id string) error {
	return w.move(ctx, id, -1)
}

// MoveEntryDown swaps an entry with the one after it
func (w *WaitingList) MoveEntryDown(ctx context.Context, id string) error {
	return w.move(ctx, id, 1)
}

func (w *WaitingList) move(ctx context.Context, id string, delta int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.indexOf(id)
	if i < 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("waiting entry with id %s not found", id))
	}

	j := i + delta
	if j < 0 || j >= len(w.entries) {
		return nil
	}

	w.entries[i], w.entries[j] = w.entries[j], w.entries[i]
	w.publish(ctx, entities.QueueEventListReordered, w.entries[j])
	return nil
}

func (w *WaitingList) indexOf(id string) int {
	for i, e := range w.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// replace swaps in the stored row. When its status bucket or priority
// changed the entry is moved to where the ordering rule puts it; every other
// entry, manual overrides included, keeps its relative order.
func (w *WaitingList) replace(updated *entities.WaitingEntry) {
	i := w.indexOf(updated.ID)
	if i >= 0 && !orderKeyChanged(w.entries[i], updated) {
		w.entries[i] = updated
		return
	}
	if i >= 0 {
		w.entries = append(w.entries[:i], w.entries[i+1:]...)
	}
	w.entries = insertOrdered(w.entries, updated)
}

func (w *WaitingList) recompute() {
	w.stats = ComputeWaitingListStats(w.entries, w.now())
}

func (w *WaitingList) publish(ctx context.Context, eventType entities.QueueEventType, entry *entities.WaitingEntry) {
	if w.events == nil {
		return
	}

	event := entities.NewWaitingListEvent(w.restaurantID, eventType, entry, w.stats)
	event.Origin = w.origin

	for _, channel := range []string{
		providers.GetWaitingListChannel(w.restaurantID),
		providers.EventChannelWaitingListUpdates,
	} {
		if err := w.events.Publish(ctx, channel, event); err != nil {
			log.Warn().Err(err).Str("channel", channel).Str("event_type", string(eventType)).Msg("Failed to publish waiting list event")
		}
	}
}

// asPersistenceError keeps typed errors from the store and wraps anything else
func asPersistenceError(message string, err error) error {
	if apperrors.TypeOf(err) != "" {
		return err
	}
	return apperrors.NewPersistenceError(message, err)
}
