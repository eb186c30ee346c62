package services

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// DueItem is a bill or subscription annotated with its payment status.
type DueItem struct {
	ID        string
	Kind      string
	Name      string
	Amount    core.Money
	DueDate   core.Date
	Status    core.DueStatus
	DaysUntil int
}

// Summary is the dashboard payload: the current month at a glance.
type Summary struct {
	MonthTotal       core.Money
	CategoryTotals   map[string]core.Money
	Trend            []core.TrendBucket
	SubscriptionCost core.Money
	AnnualCost       core.Money
	Upcoming         []DueItem
}

// Analytics is the reporting payload behind /api/analytics.
type Analytics struct {
	Breakdown []core.CategoryShare
	Trend     []core.TrendBucket
	Budgets   []core.BudgetUsage
	Insights  []string
}

// DashboardService assembles read models from raw records.
type DashboardService struct {
	store store.Store
}

func NewDashboardService(st store.Store) *DashboardService {
	return &DashboardService{store: st}
}

// monthExpenses filters expenses to the calendar month of now.
func monthExpenses(expenses []core.Expense, now time.Time) []core.Expense {
	var out []core.Expense
	for _, e := range expenses {
		if e.Date.Year() == now.UTC().Year() && e.Date.Month() == int(now.UTC().Month()) {
			out = append(out, e)
		}
	}
	return out
}

func (s *DashboardService) Summary(ctx context.Context, userID string, now time.Time) (Summary, error) {
	expenses, err := s.store.ListExpenses(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("load expenses: %w", err)
	}
	bills, err := s.store.ListBills(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("load bills: %w", err)
	}
	subs, err := s.store.ListSubscriptions(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("load subscriptions: %w", err)
	}

	month := monthExpenses(expenses, now)

	var upcoming []DueItem
	for _, b := range bills {
		status := b.Status(now)
		if status == core.StatusPaid {
			continue
		}
		upcoming = append(upcoming, DueItem{
			ID:        b.ID,
			Kind:      KindBill,
			Name:      b.Name,
			Amount:    b.Amount,
			DueDate:   b.DueDate,
			Status:    status,
			DaysUntil: core.DaysUntil(b.DueDate, now),
		})
	}
	for _, sub := range subs {
		status := sub.PaymentStatus(now)
		if status == core.StatusPaid || status == core.StatusUpcoming {
			continue
		}
		upcoming = append(upcoming, DueItem{
			ID:        sub.ID,
			Kind:      KindSubscription,
			Name:      sub.Name,
			Amount:    sub.Amount,
			DueDate:   sub.NextPayment,
			Status:    status,
			DaysUntil: core.DaysUntil(sub.NextPayment, now),
		})
	}

	return Summary{
		MonthTotal:       core.TotalAmount(month),
		CategoryTotals:   core.SumByCategory(month),
		Trend:            core.MonthlyTrend(now, expenses),
		SubscriptionCost: core.MonthlyEquivalent(subs),
		AnnualCost:       core.AnnualEquivalent(subs),
		Upcoming:         upcoming,
	}, nil
}

func (s *DashboardService) Analytics(ctx context.Context, userID string, now time.Time) (Analytics, error) {
	expenses, err := s.store.ListExpenses(ctx, userID)
	if err != nil {
		return Analytics{}, fmt.Errorf("load expenses: %w", err)
	}
	budgets, err := s.store.ListBudgets(ctx, userID)
	if err != nil {
		return Analytics{}, fmt.Errorf("load budgets: %w", err)
	}
	subs, err := s.store.ListSubscriptions(ctx, userID)
	if err != nil {
		return Analytics{}, fmt.Errorf("load subscriptions: %w", err)
	}

	month := monthExpenses(expenses, now)
	totals := core.SumByCategory(month)
	usage := core.BudgetConsumption(budgets, totals)

	return Analytics{
		Breakdown: core.CategoryBreakdown(totals),
		Trend:     core.MonthlyTrend(now, expenses),
		Budgets:   usage,
		Insights:  Insights(totals, usage, core.MonthlyEquivalent(subs)),
	}, nil
}
