package worker

import (
	"context"
	"testing"

	"fintrack/internal/events"
)

func TestHandleMessageNeverRequeues(t *testing.T) {
	w := NewReminderWorker(nil)
	ctx := context.Background()

	reminder, err := (&events.ReminderMessage{
		UserID: "u1", RecordKind: "bill", RecordID: "b1",
		Name: "Rent", AmountDue: "800.00", DueDate: "2025-07-01",
		Status: "due-soon", DaysUntil: 2,
	}).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	event, err := events.NewRecordEvent(events.EventRecordCreated, "expense", "e1", "u1").ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	tests := []struct {
		name string
		body []byte
	}{
		{"reminder message", reminder},
		{"record event", event},
		{"garbage", []byte("not json at all")},
		{"empty object", []byte("{}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := w.HandleMessage(ctx, tt.body); err != nil {
				t.Errorf("HandleMessage() error = %v, want nil", err)
			}
		})
	}
}
