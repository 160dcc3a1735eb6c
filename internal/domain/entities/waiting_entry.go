package entities

import (
	"strings"
	"time"
)

// WaitingStatus represents where a party is in the waiting-list lifecycle
type WaitingStatus string

const (
	WaitingStatusWaiting  WaitingStatus = "waiting"
	WaitingStatusNotified WaitingStatus = "notified"
	WaitingStatusSeated   WaitingStatus = "seated"
	WaitingStatusNoShow   WaitingStatus = "no_show"
)

// Valid reports whether s is a known status
func (s WaitingStatus) Valid() bool {
	switch s {
	case WaitingStatusWaiting, WaitingStatusNotified, WaitingStatusSeated, WaitingStatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from s
func (s WaitingStatus) IsTerminal() bool {
	return s == WaitingStatusSeated || s == WaitingStatusNoShow
}

// CanTransitionTo reports whether the waiting-list state machine allows s -> next.
// waiting -> notified; waiting|notified -> seated|no_show.
func (s WaitingStatus) CanTransitionTo(next WaitingStatus) bool {
	switch next {
	case WaitingStatusNotified:
		return s == WaitingStatusWaiting
	case WaitingStatusSeated, WaitingStatusNoShow:
		return s == WaitingStatusWaiting || s == WaitingStatusNotified
	}
	return false
}

// WaitingPriority is the manual urgency class of a party
type WaitingPriority string

const (
	PriorityHigh   WaitingPriority = "high"
	PriorityMedium WaitingPriority = "medium"
	PriorityLow    WaitingPriority = "low"
)

// Valid reports whether p is a known priority
func (p WaitingPriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank orders priorities: high sorts first. Unknown values sort with low.
func (p WaitingPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	}
	return 2
}

// WaitingEntry is one party's row in a restaurant's waiting list
type WaitingEntry struct {
	ID                string          `json:"id" db:"id"`
	RestaurantID      string          `json:"restaurant_id" db:"restaurant_id"`
	CustomerName      string          `json:"customer_name" db:"customer_name"`
	PhoneNumber       string          `json:"phone_number" db:"phone_number"`
	PartySize         int             `json:"party_size" db:"party_size"`
	QueueNumber       int             `json:"queue_number" db:"queue_number"`
	Status            WaitingStatus   `json:"status" db:"status"`
	Priority          WaitingPriority `json:"priority" db:"priority"`
	AreaPreference    *string         `json:"area_preference,omitempty" db:"area_preference"`
	EstimatedWaitTime *int            `json:"estimated_wait_time,omitempty" db:"estimated_wait_time"`
	NotificationTime  *time.Time      `json:"notification_time,omitempty" db:"notification_time"`
	TableID           *string         `json:"table_id,omitempty" db:"table_id"`
	Notes             *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// Clone returns a deep copy so callers never share pointer fields with the engine
func (e *WaitingEntry) Clone() *WaitingEntry {
	if e == nil {
		return nil
	}
	c := *e
	c.AreaPreference = cloneString(e.AreaPreference)
	c.Notes = cloneString(e.Notes)
	c.TableID = cloneString(e.TableID)
	if e.EstimatedWaitTime != nil {
		v := *e.EstimatedWaitTime
		c.EstimatedWaitTime = &v
	}
	if e.NotificationTime != nil {
		v := *e.NotificationTime
		c.NotificationTime = &v
	}
	return &c
}

// WaitingEntryDraft carries the fields a host types in when adding a party
type WaitingEntryDraft struct {
	CustomerName      string          `json:"customer_name"`
	PhoneNumber       string          `json:"phone_number"`
	PartySize         int             `json:"party_size"`
	Priority          WaitingPriority `json:"priority,omitempty"`
	AreaPreference    *string         `json:"area_preference,omitempty"`
	EstimatedWaitTime *int            `json:"estimated_wait_time,omitempty"`
	Notes             *string         `json:"notes,omitempty"`
}

// Validate returns one message per invalid field
func (d WaitingEntryDraft) Validate() []string {
	var errors []string

	if strings.TrimSpace(d.CustomerName) == "" {
		errors = append(errors, "customer_name is required")
	}
	if strings.TrimSpace(d.PhoneNumber) == "" {
		errors = append(errors, "phone_number is required")
	}
	if d.PartySize <= 0 {
		errors = append(errors, "party_size must be greater than 0")
	}
	if d.Priority != "" && !d.Priority.Valid() {
		errors = append(errors, "invalid priority")
	}
	if d.EstimatedWaitTime != nil && *d.EstimatedWaitTime < 0 {
		errors = append(errors, "estimated_wait_time cannot be negative")
	}

	return errors
}

// WaitingEntryPatch is the closed set of fields an edit may touch.
// Status, queue number and table assignment only change through StatusChange.
type WaitingEntryPatch struct {
	CustomerName      *string          `json:"customer_name,omitempty"`
	PhoneNumber       *string          `json:"phone_number,omitempty"`
	PartySize         *int             `json:"party_size,omitempty"`
	Priority          *WaitingPriority `json:"priority,omitempty"`
	AreaPreference    *string          `json:"area_preference,omitempty"`
	EstimatedWaitTime *int             `json:"estimated_wait_time,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p WaitingEntryPatch) IsEmpty() bool {
	return p.CustomerName == nil && p.PhoneNumber == nil && p.PartySize == nil &&
		p.Priority == nil && p.AreaPreference == nil && p.EstimatedWaitTime == nil && p.Notes == nil
}

// Validate returns one message per invalid field
func (p WaitingEntryPatch) Validate() []string {
	var errors []string

	if p.IsEmpty() {
		errors = append(errors, "patch has no fields")
	}
	if p.CustomerName != nil && strings.TrimSpace(*p.CustomerName) == "" {
		errors = append(errors, "customer_name cannot be empty")
	}
	if p.PhoneNumber != nil && strings.TrimSpace(*p.PhoneNumber) == "" {
		errors = append(errors, "phone_number cannot be empty")
	}
	if p.PartySize != nil && *p.PartySize <= 0 {
		errors = append(errors, "party_size must be greater than 0")
	}
	if p.Priority != nil && !p.Priority.Valid() {
		errors = append(errors, "invalid priority")
	}
	if p.EstimatedWaitTime != nil && *p.EstimatedWaitTime < 0 {
		errors = append(errors, "estimated_wait_time cannot be negative")
	}

	return errors
}

// Apply copies the set fields onto e
func (p WaitingEntryPatch) Apply(e *WaitingEntry) {
	if p.CustomerName != nil {
		e.CustomerName = *p.CustomerName
	}
	if p.PhoneNumber != nil {
		e.PhoneNumber = *p.PhoneNumber
	}
	if p.PartySize != nil {
		e.PartySize = *p.PartySize
	}
	if p.Priority != nil {
		e.Priority = *p.Priority
	}
	if p.AreaPreference != nil {
		e.AreaPreference = cloneString(p.AreaPreference)
	}
	if p.EstimatedWaitTime != nil {
		v := *p.EstimatedWaitTime
		e.EstimatedWaitTime = &v
	}
	if p.Notes != nil {
		e.Notes = cloneString(p.Notes)
	}
}

// StatusChange is the only write shape that moves an entry through the state machine
type StatusChange struct {
	Status           WaitingStatus `json:"status"`
	NotificationTime *time.Time    `json:"notification_time,omitempty"`
	TableID          *string       `json:"table_id,omitempty"`
}

// Apply copies the change onto e
func (c StatusChange) Apply(e *WaitingEntry) {
	e.Status = c.Status
	if c.NotificationTime != nil {
		v := *c.NotificationTime
		e.NotificationTime = &v
	}
	if c.TableID != nil {
		e.TableID = cloneString(c.TableID)
	}
}

// WaitingListStats is the derived snapshot shown above the queue
type WaitingListStats struct {
	ActiveCount            int     `json:"active_count"`
	NotifiedCount          int     `json:"notified_count"`
	SeatedTodayCount       int     `json:"seated_today_count"`
	NoShowTodayCount       int     `json:"no_show_today_count"`
	TotalPeopleWaiting     int     `json:"total_people_waiting"`
	TotalPeopleSeatedToday int     `json:"total_people_seated_today"`
	AverageWaitTime        float64 `json:"average_wait_time"`
	TodayAverageWaitTime   float64 `json:"today_average_wait_time"`
	NoShowPercentage       int     `json:"no_show_percentage"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
