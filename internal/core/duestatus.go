package core

import "time"

// DueStatus classifies a payable item relative to the current day.
type DueStatus string

const (
	StatusPaid     DueStatus = "paid"
	StatusOverdue  DueStatus = "overdue"
	StatusDueSoon  DueStatus = "due-soon"
	StatusUpcoming DueStatus = "upcoming"
)

// Due-soon windows, in calendar days. Bills and subscriptions use
// different windows on purpose: a bill three days out needs action, a
// subscription renewal a week out is only a heads-up.
const (
	BillSoonDays         = 3
	SubscriptionSoonDays = 7
)

// DaysUntil is the midnight-to-midnight calendar-day count from now to
// due. Negative when the due date is in the past.
func DaysUntil(due Date, now time.Time) int {
	nowDay := DateOf(now)
	return int(due.Time.Sub(nowDay.Time).Hours() / 24)
}

// ClassifyDue maps a due date to a status, in priority order:
// settled items are paid regardless of date; past-due items are overdue;
// items due within soonDays (inclusive, counting today) are due-soon;
// everything else is upcoming.
func ClassifyDue(due Date, settled bool, now time.Time, soonDays int) DueStatus {
	if settled {
		return StatusPaid
	}
	days := DaysUntil(due, now)
	switch {
	case days < 0:
		return StatusOverdue
	case days <= soonDays:
		return StatusDueSoon
	default:
		return StatusUpcoming
	}
}

// Status classifies the bill with the bill due-soon window.
func (b Bill) Status(now time.Time) DueStatus {
	return ClassifyDue(b.DueDate, b.IsPaid, now, BillSoonDays)
}

// PaymentStatus classifies the next payment with the subscription
// window. Inactive subscriptions classify as paid: nothing is owed.
func (s Subscription) PaymentStatus(now time.Time) DueStatus {
	return ClassifyDue(s.NextPayment, !s.IsActive, now, SubscriptionSoonDays)
}
