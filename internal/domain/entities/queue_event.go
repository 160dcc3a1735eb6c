package entities

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// QueueEventType represents the type of a realtime floor event
type QueueEventType string

const (
	QueueEventEntryAdded         QueueEventType = "entry_added"
	QueueEventEntryUpdated       QueueEventType = "entry_updated"
	QueueEventEntryRemoved       QueueEventType = "entry_removed"
	QueueEventStatsUpdated       QueueEventType = "stats_updated"
	QueueEventListReordered      QueueEventType = "list_reordered"
	QueueEventTableMoved         QueueEventType = "table_moved"
	QueueEventTableStatusChanged QueueEventType = "table_status_changed"
)

// QueueEvent is published after a successful waiting-list or table mutation
type QueueEvent struct {
	ID           string            `json:"id"`
	EventType    QueueEventType    `json:"event_type"`
	Origin       string            `json:"origin,omitempty"`
	RestaurantID string            `json:"restaurant_id,omitempty"`
	AreaID       string            `json:"area_id,omitempty"`
	EntryID      string            `json:"entry_id,omitempty"`
	Entry        *WaitingEntry     `json:"entry,omitempty"`
	Table        *Table            `json:"table,omitempty"`
	Stats        *WaitingListStats `json:"stats,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
}

// NewWaitingListEvent creates an event scoped to a restaurant's waiting list
func NewWaitingListEvent(restaurantID string, eventType QueueEventType, entry *WaitingEntry, stats WaitingListStats) *QueueEvent {
	ev := &QueueEvent{
		ID:           generateEventID(),
		EventType:    eventType,
		RestaurantID: restaurantID,
		Entry:        entry.Clone(),
		Stats:        &stats,
		Timestamp:    time.Now(),
	}
	if entry != nil {
		ev.EntryID = entry.ID
	}
	return ev
}

// NewTableEvent creates an event scoped to a floor-plan area
func NewTableEvent(eventType QueueEventType, table *Table) *QueueEvent {
	t := *table
	return &QueueEvent{
		ID:        generateEventID(),
		EventType: eventType,
		AreaID:    table.AreaID,
		Table:     &t,
		Timestamp: time.Now(),
	}
}

func generateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomString(8)
}

func randomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		return time.Now().Format("150405.000")
	}
	return hex.EncodeToString(bytes)[:length]
}
