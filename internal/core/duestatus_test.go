package core

import (
	"testing"
	"time"
)

func TestDaysUntil(t *testing.T) {
	// Midday "now": the count is calendar days, not 24h periods.
	now := time.Date(2025, 3, 15, 13, 45, 0, 0, time.UTC)

	cases := []struct {
		due  Date
		want int
	}{
		{NewDate(2025, 3, 15), 0},
		{NewDate(2025, 3, 16), 1},
		{NewDate(2025, 3, 14), -1},
		{NewDate(2025, 4, 15), 31},
	}
	for _, tc := range cases {
		if got := DaysUntil(tc.due, now); got != tc.want {
			t.Errorf("DaysUntil(%s) = %d, want %d", tc.due.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestClassifyDue(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		due      Date
		settled  bool
		soonDays int
		want     DueStatus
	}{
		{"paid wins regardless of date", NewDate(2020, 1, 1), true, BillSoonDays, StatusPaid},
		{"due yesterday is overdue", NewDate(2025, 3, 14), false, BillSoonDays, StatusOverdue},
		{"due today is due-soon", NewDate(2025, 3, 15), false, BillSoonDays, StatusDueSoon},
		{"due at window edge is due-soon", NewDate(2025, 3, 18), false, BillSoonDays, StatusDueSoon},
		{"due past window is upcoming", NewDate(2025, 3, 19), false, BillSoonDays, StatusUpcoming},
		{"due in 10 days is upcoming", NewDate(2025, 3, 25), false, BillSoonDays, StatusUpcoming},
		{"7-day window keeps day 7 soon", NewDate(2025, 3, 22), false, SubscriptionSoonDays, StatusDueSoon},
		{"7-day window ends at day 8", NewDate(2025, 3, 23), false, SubscriptionSoonDays, StatusUpcoming},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyDue(tt.due, tt.settled, now, tt.soonDays)
			if got != tt.want {
				t.Errorf("ClassifyDue() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBillStatus(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	paid := Bill{DueDate: NewDate(2025, 3, 1), IsPaid: true}
	if got := paid.Status(now); got != StatusPaid {
		t.Errorf("paid bill status = %s, want paid", got)
	}

	overdue := Bill{DueDate: NewDate(2025, 3, 1)}
	if got := overdue.Status(now); got != StatusOverdue {
		t.Errorf("overdue bill status = %s, want overdue", got)
	}
}

func TestSubscriptionPaymentStatus(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	active := Subscription{NextPayment: NewDate(2025, 3, 20), IsActive: true}
	if got := active.PaymentStatus(now); got != StatusDueSoon {
		t.Errorf("renewal in 5 days = %s, want due-soon under the 7-day window", got)
	}

	inactive := Subscription{NextPayment: NewDate(2025, 3, 1), IsActive: false}
	if got := inactive.PaymentStatus(now); got != StatusPaid {
		t.Errorf("inactive subscription = %s, want paid", got)
	}
}
