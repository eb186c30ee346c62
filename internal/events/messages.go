package events

import (
	"encoding/json"
	"time"
)

// Record mutation kinds carried on the events exchange.
const (
	EventRecordCreated = "record.created"
	EventRecordUpdated = "record.updated"
	EventRecordDeleted = "record.deleted"

	EventUserRegistered = "user.registered"
	EventUserLoggedIn   = "user.logged_in"
	EventUserLoggedOut  = "user.logged_out"
)

// RecordEvent announces a mutation of one stored record. Consumers
// fetch the current state themselves, the event carries identity only.
type RecordEvent struct {
	Event      string    `json:"event"`
	RecordKind string    `json:"record_kind"`
	RecordID   string    `json:"record_id"`
	UserID     string    `json:"user_id"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewRecordEvent(event, recordKind, recordID, userID string) *RecordEvent {
	return &RecordEvent{
		Event:      event,
		RecordKind: recordKind,
		RecordID:   recordID,
		UserID:     userID,
		Timestamp:  time.Now(),
	}
}

func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var e RecordEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ReminderMessage is queued for every bill or subscription the due
// scan finds overdue or inside its due-soon window.
type ReminderMessage struct {
	UserID     string    `json:"user_id"`
	RecordKind string    `json:"record_kind"`
	RecordID   string    `json:"record_id"`
	Name       string    `json:"name"`
	AmountDue  string    `json:"amount_due"`
	DueDate    string    `json:"due_date"`
	Status     string    `json:"status"`
	DaysUntil  int       `json:"days_until"`
	Timestamp  time.Time `json:"timestamp"`
}

func (m *ReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReminderMessageFromJSON(data []byte) (*ReminderMessage, error) {
	var m ReminderMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
