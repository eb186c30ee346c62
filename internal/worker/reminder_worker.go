// Package worker consumes the events queue and delivers payment
// reminders. Delivery is a structured log line; mail or push channels
// would hang off the same handler.
package worker

import (
	"context"
	"log/slog"

	"fintrack/internal/events"
	applog "fintrack/internal/log"
)

type ReminderWorker struct {
	logger *slog.Logger
}

func NewReminderWorker(logger *slog.Logger) *ReminderWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReminderWorker{logger: logger}
}

// HandleMessage processes one queue delivery. The queue carries both
// reminder messages and record events; bodies that decode as neither
// are dropped, because requeueing them would loop forever.
func (w *ReminderWorker) HandleMessage(ctx context.Context, body []byte) error {
	if msg, err := events.ReminderMessageFromJSON(body); err == nil && msg.RecordKind != "" && msg.Status != "" {
		w.deliverReminder(ctx, msg)
		return nil
	}

	if event, err := events.RecordEventFromJSON(body); err == nil && event.Event != "" {
		w.logger.InfoContext(ctx, "record event",
			applog.FieldOperation, applog.OpConsume,
			"event", event.Event,
			applog.FieldRecordKind, event.RecordKind,
			applog.FieldRecordID, event.RecordID,
			applog.FieldUserID, event.UserID)
		return nil
	}

	w.logger.WarnContext(ctx, "dropping undecodable message", "bytes", len(body))
	return nil
}

func (w *ReminderWorker) deliverReminder(ctx context.Context, msg *events.ReminderMessage) {
	w.logger.InfoContext(ctx, "payment reminder",
		"user_id", msg.UserID,
		"record_kind", msg.RecordKind,
		"record_id", msg.RecordID,
		"name", msg.Name,
		"amount_due", msg.AmountDue,
		"due_date", msg.DueDate,
		"status", msg.Status,
		"days_until", msg.DaysUntil)
}
