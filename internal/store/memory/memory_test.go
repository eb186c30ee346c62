package memory

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func TestExpenseCRUD(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateExpense(ctx, core.Expense{
		Purpose:  "groceries",
		Amount:   core.Money{Cents: 1250},
		Category: "Food",
		Date:     core.NewDate(2025, 3, 1),
		UserID:   "u1",
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a generated id")
	}

	got, err := s.GetExpense(ctx, "u1", created.ID)
	if err != nil {
		t.Fatalf("GetExpense: %v", err)
	}
	if got.Purpose != "groceries" {
		t.Errorf("purpose = %s, want groceries", got.Purpose)
	}

	got.Amount = core.Money{Cents: 1500}
	if _, err := s.UpdateExpense(ctx, got); err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}
	got, _ = s.GetExpense(ctx, "u1", created.ID)
	if got.Amount.Cents != 1500 {
		t.Errorf("amount after update = %d, want 1500", got.Amount.Cents)
	}

	if err := s.DeleteExpense(ctx, "u1", created.ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if _, err := s.GetExpense(ctx, "u1", created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestOwnerScoping(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateExpense(ctx, core.Expense{
		Purpose:  "private",
		Amount:   core.Money{Cents: 100},
		Category: "Other",
		Date:     core.NewDate(2025, 1, 1),
		UserID:   "owner",
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	// Another user's lookup behaves like a missing record.
	if _, err := s.GetExpense(ctx, "intruder", created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("cross-owner get should be not-found, got %v", err)
	}
	if err := s.DeleteExpense(ctx, "intruder", created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("cross-owner delete should be not-found, got %v", err)
	}

	list, err := s.ListExpenses(ctx, "intruder")
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("cross-owner list should be empty, got %d records", len(list))
	}
}

func TestListExpensesOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, d := range []core.Date{core.NewDate(2025, 1, 5), core.NewDate(2025, 3, 1), core.NewDate(2025, 2, 10)} {
		if _, err := s.CreateExpense(ctx, core.Expense{
			Purpose: "x", Amount: core.Money{Cents: 1}, Category: "Other", Date: d, UserID: "u1",
		}); err != nil {
			t.Fatalf("CreateExpense: %v", err)
		}
	}

	list, err := s.ListExpenses(ctx, "u1")
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 expenses, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].Date.After(list[i-1].Date.Time) {
			t.Fatalf("expenses not in newest-first order: %v before %v", list[i-1].Date, list[i].Date)
		}
	}
}

func TestBillPaidToggle(t *testing.T) {
	s := New()
	ctx := context.Background()

	b, err := s.CreateBill(ctx, core.Bill{
		Name: "rent", Amount: core.Money{Cents: 90000}, Category: "Housing",
		DueDate: core.NewDate(2025, 4, 1), UserID: "u1",
	})
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}

	toggled, err := s.SetBillPaid(ctx, "u1", b.ID, true)
	if err != nil {
		t.Fatalf("SetBillPaid: %v", err)
	}
	if !toggled.IsPaid {
		t.Error("expected bill to be paid after toggle")
	}

	if _, err := s.SetBillPaid(ctx, "u2", b.ID, true); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("cross-owner toggle should be not-found, got %v", err)
	}
}

func TestSubscriptionActiveToggle(t *testing.T) {
	s := New()
	ctx := context.Background()

	sub, err := s.CreateSubscription(ctx, core.Subscription{
		Name: "news", Amount: core.Money{Cents: 999}, BillingCycle: core.Monthly,
		Category: "News", NextPayment: core.NewDate(2025, 5, 1), IsActive: true, UserID: "u1",
	})
	if err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}

	off, err := s.SetSubscriptionActive(ctx, "u1", sub.ID, false)
	if err != nil {
		t.Fatalf("SetSubscriptionActive: %v", err)
	}
	if off.IsActive {
		t.Error("expected subscription to be inactive after toggle")
	}
}

func TestUserUniqueEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, core.User{Email: "A@Example.com", PasswordHash: "h"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := s.CreateUser(ctx, core.User{Email: "a@example.com", PasswordHash: "h"}); !errors.Is(err, store.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	u, err := s.GetUserByEmail(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if u.Email != "a@example.com" {
		t.Errorf("email stored as %s, want lowercased", u.Email)
	}
}
