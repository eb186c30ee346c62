package http

import (
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

// Amounts travel as two-decimal strings, dates as YYYY-MM-DD.

type expenseRequest struct {
	Purpose     string `json:"purpose"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type expenseResponse struct {
	ID          string    `json:"id"`
	Purpose     string    `json:"purpose"`
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Purpose:     e.Purpose,
		Amount:      e.Amount.Decimal(),
		Category:    e.Category,
		Date:        e.Date.Format(dayFormat),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

type billRequest struct {
	Name     string `json:"name"`
	Amount   string `json:"amount"`
	DueDate  string `json:"due_date"`
	Category string `json:"category"`
	IsPaid   bool   `json:"is_paid"`
}

type billResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Amount    string    `json:"amount"`
	DueDate   string    `json:"due_date"`
	Category  string    `json:"category"`
	IsPaid    bool      `json:"is_paid"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toBillResponse(b core.Bill, now time.Time) billResponse {
	return billResponse{
		ID:        b.ID,
		Name:      b.Name,
		Amount:    b.Amount.Decimal(),
		DueDate:   b.DueDate.Format(dayFormat),
		Category:  b.Category,
		IsPaid:    b.IsPaid,
		Status:    string(b.Status(now)),
		CreatedAt: b.CreatedAt,
	}
}

type subscriptionRequest struct {
	Name         string `json:"name"`
	Amount       string `json:"amount"`
	BillingCycle string `json:"billing_cycle"`
	NextPayment  string `json:"next_payment"`
	Category     string `json:"category"`
	IsActive     bool   `json:"is_active"`
}

type subscriptionResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Amount       string    `json:"amount"`
	BillingCycle string    `json:"billing_cycle"`
	NextPayment  string    `json:"next_payment"`
	Category     string    `json:"category"`
	IsActive     bool      `json:"is_active"`
	MonthlyCost  string    `json:"monthly_cost"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func toSubscriptionResponse(s core.Subscription, now time.Time) subscriptionResponse {
	return subscriptionResponse{
		ID:           s.ID,
		Name:         s.Name,
		Amount:       s.Amount.Decimal(),
		BillingCycle: string(s.BillingCycle),
		NextPayment:  s.NextPayment.Format(dayFormat),
		Category:     s.Category,
		IsActive:     s.IsActive,
		MonthlyCost:  core.MonthlyCost(s.Amount, s.BillingCycle).Decimal(),
		Status:       string(s.PaymentStatus(now)),
		CreatedAt:    s.CreatedAt,
	}
}

type budgetRequest struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Period   string `json:"period"`
}

type budgetResponse struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Amount    string    `json:"amount"`
	Period    string    `json:"period"`
	CreatedAt time.Time `json:"created_at"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:        b.ID,
		Category:  b.Category,
		Amount:    b.Amount.Decimal(),
		Period:    b.Period,
		CreatedAt: b.CreatedAt,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u core.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

type trendPointResponse struct {
	Label string `json:"label"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Total string `json:"total"`
}

func toTrendResponse(trend []core.TrendBucket) []trendPointResponse {
	out := make([]trendPointResponse, 0, len(trend))
	for _, b := range trend {
		out = append(out, trendPointResponse{
			Label: b.Label,
			Year:  b.Year,
			Month: b.Month,
			Total: b.Total.Decimal(),
		})
	}
	return out
}

type dueItemResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	DueDate   string `json:"due_date"`
	Status    string `json:"status"`
	DaysUntil int    `json:"days_until"`
}

type summaryResponse struct {
	MonthTotal       string               `json:"month_total"`
	CategoryTotals   map[string]string    `json:"category_totals"`
	Trend            []trendPointResponse `json:"trend"`
	SubscriptionCost string               `json:"subscription_monthly_cost"`
	AnnualCost       string               `json:"subscription_annual_cost"`
	Upcoming         []dueItemResponse    `json:"upcoming"`
}

func toSummaryResponse(s services.Summary) summaryResponse {
	totals := make(map[string]string, len(s.CategoryTotals))
	for category, amount := range s.CategoryTotals {
		totals[category] = amount.Decimal()
	}
	upcoming := make([]dueItemResponse, 0, len(s.Upcoming))
	for _, item := range s.Upcoming {
		upcoming = append(upcoming, dueItemResponse{
			ID:        item.ID,
			Kind:      item.Kind,
			Name:      item.Name,
			Amount:    item.Amount.Decimal(),
			DueDate:   item.DueDate.Format(dayFormat),
			Status:    string(item.Status),
			DaysUntil: item.DaysUntil,
		})
	}
	return summaryResponse{
		MonthTotal:       s.MonthTotal.Decimal(),
		CategoryTotals:   totals,
		Trend:            toTrendResponse(s.Trend),
		SubscriptionCost: s.SubscriptionCost.Decimal(),
		AnnualCost:       s.AnnualCost.Decimal(),
		Upcoming:         upcoming,
	}
}

type categoryShareResponse struct {
	Category string  `json:"category"`
	Amount   string  `json:"amount"`
	Percent  float64 `json:"percent"`
}

type budgetUsageResponse struct {
	Category string  `json:"category"`
	Limit    string  `json:"limit"`
	Spent    string  `json:"spent"`
	Percent  float64 `json:"percent"`
}

type analyticsResponse struct {
	Breakdown []categoryShareResponse `json:"breakdown"`
	Trend     []trendPointResponse    `json:"trend"`
	Budgets   []budgetUsageResponse   `json:"budgets"`
	Insights  []string                `json:"insights"`
}

func toAnalyticsResponse(a services.Analytics) analyticsResponse {
	breakdown := make([]categoryShareResponse, 0, len(a.Breakdown))
	for _, s := range a.Breakdown {
		breakdown = append(breakdown, categoryShareResponse{
			Category: s.Category,
			Amount:   s.Amount.Decimal(),
			Percent:  s.Percent,
		})
	}
	budgets := make([]budgetUsageResponse, 0, len(a.Budgets))
	for _, u := range a.Budgets {
		budgets = append(budgets, budgetUsageResponse{
			Category: u.Category,
			Limit:    u.Limit.Decimal(),
			Spent:    u.Spent.Decimal(),
			Percent:  u.Percent,
		})
	}
	insights := a.Insights
	if insights == nil {
		insights = []string{}
	}
	return analyticsResponse{
		Breakdown: breakdown,
		Trend:     toTrendResponse(a.Trend),
		Budgets:   budgets,
		Insights:  insights,
	}
}
