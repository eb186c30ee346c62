// Package store defines the ports every record store implements.
// All record operations are scoped to the owning user: a lookup with
// the wrong owner behaves exactly like a missing record.
package store

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already registered")
)

type (
	ExpenseStore interface {
		CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		ListExpenses(ctx context.Context, userID string) ([]core.Expense, error)
		GetExpense(ctx context.Context, userID, id string) (core.Expense, error)
		UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		DeleteExpense(ctx context.Context, userID, id string) error
	}

	BillStore interface {
		CreateBill(ctx context.Context, b core.Bill) (core.Bill, error)
		ListBills(ctx context.Context, userID string) ([]core.Bill, error)
		GetBill(ctx context.Context, userID, id string) (core.Bill, error)
		UpdateBill(ctx context.Context, b core.Bill) (core.Bill, error)
		SetBillPaid(ctx context.Context, userID, id string, paid bool) (core.Bill, error)
		DeleteBill(ctx context.Context, userID, id string) error
	}

	SubscriptionStore interface {
		CreateSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error)
		ListSubscriptions(ctx context.Context, userID string) ([]core.Subscription, error)
		GetSubscription(ctx context.Context, userID, id string) (core.Subscription, error)
		UpdateSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error)
		SetSubscriptionActive(ctx context.Context, userID, id string, active bool) (core.Subscription, error)
		DeleteSubscription(ctx context.Context, userID, id string) error
	}

	BudgetStore interface {
		CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
		GetBudget(ctx context.Context, userID, id string) (core.Budget, error)
		UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		DeleteBudget(ctx context.Context, userID, id string) error
	}

	UserStore interface {
		CreateUser(ctx context.Context, u core.User) (core.User, error)
		GetUser(ctx context.Context, id string) (core.User, error)
		GetUserByEmail(ctx context.Context, email string) (core.User, error)
	}

	// UserLister enumerates owners for background scans; the reminder
	// service uses it to walk every account.
	UserLister interface {
		ListUsers(ctx context.Context) ([]core.User, error)
	}
)

// Store is the unified port a backend provides.
type Store interface {
	ExpenseStore
	BillStore
	SubscriptionStore
	BudgetStore
	UserStore
	UserLister
	Close() error
}
