// Package services provides business logic and orchestration on top of
// the record store.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/events"
	applog "fintrack/internal/log"
	"fintrack/internal/store"
)

// Record kinds used in events and log fields.
const (
	KindExpense      = "expense"
	KindBill         = "bill"
	KindSubscription = "subscription"
	KindBudget       = "budget"
)

// EventPublisher is the slice of the events client record writes need.
type EventPublisher interface {
	PublishRecordEvent(ctx context.Context, event *events.RecordEvent) error
}

// RecordService orchestrates record writes across the store and the
// events exchange. Publishing is best-effort: the store is the source
// of truth and a broker outage never fails a request.
type RecordService struct {
	store     store.Store
	publisher EventPublisher
}

func NewRecordService(st store.Store, publisher EventPublisher) *RecordService {
	return &RecordService{
		store:     st,
		publisher: publisher,
	}
}

func (s *RecordService) Store() store.Store {
	return s.store
}

func (s *RecordService) publish(ctx context.Context, event, kind, id, userID string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRecordEvent(ctx, events.NewRecordEvent(event, kind, id, userID)); err != nil {
		fields := applog.NewFields().
			WithOperation(applog.OpPublish).
			WithRecord(kind, id).
			WithUser(userID).
			WithError(err)
		slog.ErrorContext(ctx, "failed to publish record event", fields.ToSlice()...)
	}
}

// --- expenses ---

func (s *RecordService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	created, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	s.publish(ctx, events.EventRecordCreated, KindExpense, created.ID, created.UserID)
	return created, nil
}

func (s *RecordService) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	updated, err := s.store.UpdateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, err
	}
	s.publish(ctx, events.EventRecordUpdated, KindExpense, updated.ID, updated.UserID)
	return updated, nil
}

func (s *RecordService) DeleteExpense(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteExpense(ctx, userID, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventRecordDeleted, KindExpense, id, userID)
	return nil
}

// --- bills ---

func (s *RecordService) CreateBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	if err := b.Validate(); err != nil {
		return core.Bill{}, err
	}
	created, err := s.store.CreateBill(ctx, b)
	if err != nil {
		return core.Bill{}, fmt.Errorf("create bill: %w", err)
	}
	s.publish(ctx, events.EventRecordCreated, KindBill, created.ID, created.UserID)
	return created, nil
}

func (s *RecordService) UpdateBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	if err := b.Validate(); err != nil {
		return core.Bill{}, err
	}
	updated, err := s.store.UpdateBill(ctx, b)
	if err != nil {
		return core.Bill{}, err
	}
	s.publish(ctx, events.EventRecordUpdated, KindBill, updated.ID, updated.UserID)
	return updated, nil
}

func (s *RecordService) SetBillPaid(ctx context.Context, userID, id string, paid bool) (core.Bill, error) {
	updated, err := s.store.SetBillPaid(ctx, userID, id, paid)
	if err != nil {
		return core.Bill{}, err
	}
	s.publish(ctx, events.EventRecordUpdated, KindBill, updated.ID, updated.UserID)
	return updated, nil
}

func (s *RecordService) DeleteBill(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteBill(ctx, userID, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventRecordDeleted, KindBill, id, userID)
	return nil
}

// --- subscriptions ---

func (s *RecordService) CreateSubscription(ctx context.Context, sub core.Subscription) (core.Subscription, error) {
	if err := sub.Validate(); err != nil {
		return core.Subscription{}, err
	}
	created, err := s.store.CreateSubscription(ctx, sub)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("create subscription: %w", err)
	}
	s.publish(ctx, events.EventRecordCreated, KindSubscription, created.ID, created.UserID)
	return created, nil
}

func (s *RecordService) UpdateSubscription(ctx context.Context, sub core.Subscription) (core.Subscription, error) {
	if err := sub.Validate(); err != nil {
		return core.Subscription{}, err
	}
	updated, err := s.store.UpdateSubscription(ctx, sub)
	if err != nil {
		return core.Subscription{}, err
	}
	s.publish(ctx, events.EventRecordUpdated, KindSubscription, updated.ID, updated.UserID)
	return updated, nil
}

func (s *RecordService) SetSubscriptionActive(ctx context.Context, userID, id string, active bool) (core.Subscription, error) {
	updated, err := s.store.SetSubscriptionActive(ctx, userID, id, active)
	if err != nil {
		return core.Subscription{}, err
	}
	s.publish(ctx, events.EventRecordUpdated, KindSubscription, updated.ID, updated.UserID)
	return updated, nil
}

func (s *RecordService) DeleteSubscription(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteSubscription(ctx, userID, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventRecordDeleted, KindSubscription, id, userID)
	return nil
}

// --- budgets ---

func (s *RecordService) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	created, err := s.store.CreateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	s.publish(ctx, events.EventRecordCreated, KindBudget, created.ID, created.UserID)
	return created, nil
}

func (s *RecordService) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	updated, err := s.store.UpdateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, err
	}
	s.publish(ctx, events.EventRecordUpdated, KindBudget, updated.ID, updated.UserID)
	return updated, nil
}

func (s *RecordService) DeleteBudget(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteBudget(ctx, userID, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventRecordDeleted, KindBudget, id, userID)
	return nil
}
