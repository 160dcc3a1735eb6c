package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/repositories"
	"github.com/guiomkt/cheff-guio-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/guiomkt/cheff-guio-sub000/pkg/errors"
)

const waitingListTable = "waiting_list"

var waitingListColumns = []interface{}{
	"id", "restaurant_id", "customer_name", "phone_number", "party_size",
	"queue_number", "status", "priority", "area_preference", "estimated_wait_time",
	"notification_time", "table_id", "notes", "created_at", "updated_at",
}

// WaitingListAdapter implements the WaitingListRepository interface
type WaitingListAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewWaitingListAdapter creates a new waiting list adapter
func NewWaitingListAdapter(client *postgres.Client) repositories.WaitingListRepository {
	return &WaitingListAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWaitingEntry(row rowScanner) (*entities.WaitingEntry, error) {
	entry := &entities.WaitingEntry{}
	var areaPreference, tableID, notes sql.NullString
	var estimatedWait sql.NullInt64
	var notificationTime sql.NullTime
	var status, priority string

	err := row.Scan(
		&entry.ID,
		&entry.RestaurantID,
		&entry.CustomerName,
		&entry.PhoneNumber,
		&entry.PartySize,
		&entry.QueueNumber,
		&status,
		&priority,
		&areaPreference,
		&estimatedWait,
		&notificationTime,
		&tableID,
		&notes,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Status = entities.WaitingStatus(status)
	entry.Priority = entities.WaitingPriority(priority)
	entry.AreaPreference = stringFromNull(areaPreference)
	entry.EstimatedWaitTime = intFromNull(estimatedWait)
	entry.NotificationTime = timeFromNull(notificationTime)
	entry.TableID = stringFromNull(tableID)
	entry.Notes = stringFromNull(notes)

	return entry, nil
}

// ListByRestaurant returns every entry of a restaurant, oldest first
func (a *WaitingListAdapter) ListByRestaurant(ctx context.Context, restaurantID string) ([]*entities.WaitingEntry, error) {
	query, args, err := a.db.From(waitingListTable).
		Select(waitingListColumns...).
		Where(goqu.Ex{"restaurant_id": restaurantID}).
		Order(goqu.I("created_at").Asc(), goqu.I("queue_number").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to list waiting list", err)
	}
	defer rows.Close()

	entries := make([]*entities.WaitingEntry, 0)
	for rows.Next() {
		entry, err := scanWaitingEntry(rows)
		if err != nil {
			return nil, apperrors.NewPersistenceError("failed to scan waiting entry", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("failed to iterate waiting list", err)
	}

	return entries, nil
}

// NextQueueNumber returns one more than the restaurant's highest queue number
func (a *WaitingListAdapter) NextQueueNumber(ctx context.Context, restaurantID string) (int, error) {
	query, args, err := a.db.From(waitingListTable).
		Select(goqu.COALESCE(goqu.MAX("queue_number"), 0)).
		Where(goqu.Ex{"restaurant_id": restaurantID}).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build query", err)
	}

	var current int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&current); err != nil {
		return 0, apperrors.NewPersistenceError("failed to read queue number", err)
	}

	return current + 1, nil
}

// Create inserts an entry and returns the stored row
func (a *WaitingListAdapter) Create(ctx context.Context, entry *entities.WaitingEntry) (*entities.WaitingEntry, error) {
	id := entry.ID
	if id == "" {
		id = uuid.New().String()
	}

	record := goqu.Record{
		"id":                  id,
		"restaurant_id":       entry.RestaurantID,
		"customer_name":       entry.CustomerName,
		"phone_number":        entry.PhoneNumber,
		"party_size":          entry.PartySize,
		"queue_number":        entry.QueueNumber,
		"status":              string(entry.Status),
		"priority":            string(entry.Priority),
		"area_preference":     nullString(entry.AreaPreference),
		"estimated_wait_time": nullInt(entry.EstimatedWaitTime),
		"notes":               nullString(entry.Notes),
		"created_at":          goqu.L("NOW()"),
		"updated_at":          goqu.L("NOW()"),
	}

	query, args, err := a.db.Insert(waitingListTable).
		Rows(record).
		Returning(waitingListColumns...).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build insert query", err)
	}

	created, err := scanWaitingEntry(a.client.DB().QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, classifyWriteError(err, "failed to create waiting entry")
	}

	return created, nil
}

// Update applies an edit and returns the stored row
func (a *WaitingListAdapter) Update(ctx context.Context, restaurantID, id string, patch entities.WaitingEntryPatch) (*entities.WaitingEntry, error) {
	record := goqu.Record{"updated_at": goqu.L("NOW()")}
	if patch.CustomerName != nil {
		record["customer_name"] = *patch.CustomerName
	}
	if patch.PhoneNumber != nil {
		record["phone_number"] = *patch.PhoneNumber
	}
	if patch.PartySize != nil {
		record["party_size"] = *patch.PartySize
	}
	if patch.Priority != nil {
		record["priority"] = string(*patch.Priority)
	}
	if patch.AreaPreference != nil {
		record["area_preference"] = nullString(patch.AreaPreference)
	}
	if patch.EstimatedWaitTime != nil {
		record["estimated_wait_time"] = nullInt(patch.EstimatedWaitTime)
	}
	if patch.Notes != nil {
		record["notes"] = nullString(patch.Notes)
	}

	return a.updateReturning(ctx, restaurantID, id, record, "failed to update waiting entry")
}

// Transition writes a status change and returns the stored row
func (a *WaitingListAdapter) Transition(ctx context.Context, restaurantID, id string, change entities.StatusChange) (*entities.WaitingEntry, error) {
	record := goqu.Record{
		"status":     string(change.Status),
		"updated_at": goqu.L("NOW()"),
	}
	if change.NotificationTime != nil {
		record["notification_time"] = *change.NotificationTime
	}
	if change.TableID != nil {
		record["table_id"] = *change.TableID
	}

	return a.updateReturning(ctx, restaurantID, id, record, fmt.Sprintf("failed to mark waiting entry %s", change.Status))
}

func (a *WaitingListAdapter) updateReturning(ctx context.Context, restaurantID, id string, record goqu.Record, message string) (*entities.WaitingEntry, error) {
	query, args, err := a.db.Update(waitingListTable).
		Set(record).
		Where(goqu.Ex{"id": id, "restaurant_id": restaurantID}).
		Returning(waitingListColumns...).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build update query", err)
	}

	updated, err := scanWaitingEntry(a.client.DB().QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, classifyWriteError(err, message)
	}

	return updated, nil
}

// Delete removes an entry
func (a *WaitingListAdapter) Delete(ctx context.Context, restaurantID, id string) error {
	query, args, err := a.db.Delete(waitingListTable).
		Where(goqu.Ex{"id": id, "restaurant_id": restaurantID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewPersistenceError("failed to delete waiting entry", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewPersistenceError("failed to delete waiting entry", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("waiting entry with id %s not found", id))
	}

	return nil
}
