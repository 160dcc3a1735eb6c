package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/repositories"
	apperrors "github.com/guiomkt/cheff-guio-sub000/pkg/errors"
)

// NotificationAdapter records outbound customer messages through sqlx
type NotificationAdapter struct {
	db *sqlx.DB
}

// NewNotificationAdapter creates a new notification adapter
func NewNotificationAdapter(db *sqlx.DB) repositories.NotificationRepository {
	return &NotificationAdapter{db: db}
}

// Record stores one delivery attempt
func (a *NotificationAdapter) Record(ctx context.Context, n *entities.WaitingListNotification) error {
	query := `
		INSERT INTO waiting_list_notifications
		(id, entry_id, restaurant_id, notification_type, recipient, body, status,
		 message_id, error_message, sent_at, created_at, updated_at)
		VALUES (:id, :entry_id, :restaurant_id, :notification_type, :recipient, :body, :status,
		 :message_id, :error_message, :sent_at, :created_at, :updated_at)
	`
	if _, err := a.db.NamedExecContext(ctx, query, n); err != nil {
		return apperrors.NewPersistenceError("failed to record notification", err)
	}
	return nil
}

// ListByEntry returns the attempts for an entry, newest first
func (a *NotificationAdapter) ListByEntry(ctx context.Context, entryID string) ([]*entities.WaitingListNotification, error) {
	var notifications []*entities.WaitingListNotification
	query := `SELECT * FROM waiting_list_notifications WHERE entry_id = $1 ORDER BY created_at DESC`
	if err := a.db.SelectContext(ctx, &notifications, query, entryID); err != nil {
		return nil, apperrors.NewPersistenceError("failed to list notifications", err)
	}
	return notifications, nil
}
