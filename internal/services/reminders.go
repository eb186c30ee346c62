package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/events"
	applog "fintrack/internal/log"
	"fintrack/internal/store"
)

// ReminderPublisher is the slice of the events client the scan needs.
type ReminderPublisher interface {
	PublishReminder(ctx context.Context, msg *events.ReminderMessage) error
}

// ReminderService walks every account and publishes one reminder per
// unpaid bill or active subscription that is overdue or inside its
// due-soon window.
type ReminderService struct {
	store     store.Store
	publisher ReminderPublisher
	logger    *slog.Logger
}

func NewReminderService(st store.Store, publisher ReminderPublisher, logger *slog.Logger) *ReminderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReminderService{
		store:     st,
		publisher: publisher,
		logger:    logger,
	}
}

// Scan runs one pass over all users. It returns the number of
// reminders published; per-user store errors abort the scan, publish
// errors are logged and skip only the affected message.
func (s *ReminderService) Scan(ctx context.Context, now time.Time) (int, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	published := 0
	for _, u := range users {
		n, err := s.scanUser(ctx, u.ID, now)
		if err != nil {
			return published, fmt.Errorf("scan user %s: %w", u.ID, err)
		}
		published += n
	}

	s.logger.InfoContext(ctx, "reminder scan complete",
		applog.FieldOperation, applog.OpScan, "users", len(users), "published", published)
	return published, nil
}

func (s *ReminderService) scanUser(ctx context.Context, userID string, now time.Time) (int, error) {
	bills, err := s.store.ListBills(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list bills: %w", err)
	}
	subs, err := s.store.ListSubscriptions(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list subscriptions: %w", err)
	}

	published := 0
	for _, b := range bills {
		status := b.Status(now)
		if status != core.StatusOverdue && status != core.StatusDueSoon {
			continue
		}
		if s.deliver(ctx, &events.ReminderMessage{
			UserID:     userID,
			RecordKind: KindBill,
			RecordID:   b.ID,
			Name:       b.Name,
			AmountDue:  b.Amount.Decimal(),
			DueDate:    b.DueDate.Format("2006-01-02"),
			Status:     string(status),
			DaysUntil:  core.DaysUntil(b.DueDate, now),
			Timestamp:  now,
		}) {
			published++
		}
	}
	for _, sub := range subs {
		status := sub.PaymentStatus(now)
		if status != core.StatusOverdue && status != core.StatusDueSoon {
			continue
		}
		if s.deliver(ctx, &events.ReminderMessage{
			UserID:     userID,
			RecordKind: KindSubscription,
			RecordID:   sub.ID,
			Name:       sub.Name,
			AmountDue:  sub.Amount.Decimal(),
			DueDate:    sub.NextPayment.Format("2006-01-02"),
			Status:     string(status),
			DaysUntil:  core.DaysUntil(sub.NextPayment, now),
			Timestamp:  now,
		}) {
			published++
		}
	}
	return published, nil
}

func (s *ReminderService) deliver(ctx context.Context, msg *events.ReminderMessage) bool {
	if s.publisher == nil {
		return false
	}
	if err := s.publisher.PublishReminder(ctx, msg); err != nil {
		fields := applog.NewFields().
			WithOperation(applog.OpPublish).
			WithRecord(msg.RecordKind, msg.RecordID).
			WithUser(msg.UserID).
			WithError(err)
		s.logger.ErrorContext(ctx, "failed to publish reminder", fields.ToSlice()...)
		return false
	}
	return true
}
