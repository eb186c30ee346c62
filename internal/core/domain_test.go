package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	if err := NewDate(2025, 1, 1).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Date{Time: time.Time{}}).Validate(); err == nil {
		t.Fatalf("expected error for zero date")
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 0}).Validate(); err != nil {
		t.Fatalf("zero is a valid amount, got %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Purpose:  "groceries",
		Amount:   Money{Cents: 1250},
		Category: "Food",
		Date:     NewDate(2025, 3, 14),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Purpose: "x", Amount: Money{Cents: 1}, Category: "Food"},                                 // zero date
		{Purpose: "", Amount: Money{Cents: 1}, Category: "Food", Date: NewDate(2025, 1, 1)},      // empty purpose
		{Purpose: "x", Amount: Money{Cents: -1}, Category: "Food", Date: NewDate(2025, 1, 1)},    // negative
		{Purpose: "x", Amount: Money{Cents: 1}, Category: "Groceries", Date: NewDate(2025, 1, 1)}, // unknown category
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}

	long := good
	long.Purpose = strings.Repeat("x", 201)
	if err := long.Validate(); !errors.Is(err, ErrPurposeTooLong) {
		t.Fatalf("expected ErrPurposeTooLong, got %v", err)
	}
}

func TestBillValidate(t *testing.T) {
	good := Bill{Name: "rent", Amount: Money{Cents: 90000}, Category: "Housing", DueDate: NewDate(2025, 4, 1)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := Bill{Name: "rent", Amount: Money{Cents: 90000}, Category: "Food", DueDate: NewDate(2025, 4, 1)}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for bill category outside the bill set")
	}
}

func TestSubscriptionValidate(t *testing.T) {
	good := Subscription{
		Name:         "news site",
		Amount:       Money{Cents: 999},
		BillingCycle: Monthly,
		Category:     "News",
		NextPayment:  NewDate(2025, 5, 1),
		IsActive:     true,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.BillingCycle = "fortnightly"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for unknown billing cycle")
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Category: "Food", Amount: Money{Cents: 30000}, Period: "monthly"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := Budget{Category: "Food", Amount: Money{Cents: 30000}, Period: "weekly"}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for unknown period")
	}
}

func TestValidCycle(t *testing.T) {
	for _, c := range []BillingCycle{Weekly, Monthly, Quarterly, Yearly} {
		if !ValidCycle(c) {
			t.Fatalf("%s should be valid", c)
		}
	}
	if ValidCycle("biweekly") {
		t.Fatalf("biweekly should not be valid")
	}
}
