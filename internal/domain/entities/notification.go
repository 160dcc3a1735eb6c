package entities

import "time"

// NotificationType represents the purpose of a customer message
type NotificationType string

const (
	NotificationQueueConfirmation NotificationType = "queue_confirmation"
	NotificationTableReady        NotificationType = "table_ready"
)

// NotificationStatus represents the delivery status
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// WaitingListNotification records one outbound message attempt for a waiting entry
type WaitingListNotification struct {
	ID               string             `json:"id" db:"id"`
	EntryID          string             `json:"entry_id" db:"entry_id"`
	RestaurantID     string             `json:"restaurant_id" db:"restaurant_id"`
	NotificationType NotificationType   `json:"notification_type" db:"notification_type"`
	Recipient        string             `json:"recipient" db:"recipient"`
	Body             string             `json:"body" db:"body"`
	Status           NotificationStatus `json:"status" db:"status"`
	MessageID        *string            `json:"message_id,omitempty" db:"message_id"`
	ErrorMessage     *string            `json:"error_message,omitempty" db:"error_message"`
	SentAt           *time.Time         `json:"sent_at,omitempty" db:"sent_at"`
	CreatedAt        time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" db:"updated_at"`
}
