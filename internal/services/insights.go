package services

import (
	"fmt"

	"fintrack/internal/core"
)

// budgetAlertThreshold is the consumption percentage above which a
// budget shows up in the insights list.
const budgetAlertThreshold = 90.0

// Insights renders templated observations from the month's numbers.
// The output is fully determined by its inputs; empty inputs produce
// an empty slice.
func Insights(totals map[string]core.Money, usage []core.BudgetUsage, subscriptionCost core.Money) []string {
	var out []string

	if top, amount, ok := core.TopCategory(totals); ok {
		total := core.Money{}
		for _, m := range totals {
			total = total.Add(m)
		}
		share := 0.0
		if total.Cents > 0 {
			share = float64(amount.Cents) / float64(total.Cents) * 100
		}
		out = append(out, fmt.Sprintf("Most spending went to %s: %s (%.0f%% of the month).", top, amount.Decimal(), share))
	}

	for _, u := range usage {
		if u.Percent >= budgetAlertThreshold {
			out = append(out, fmt.Sprintf("Budget for %s is at %.0f%% (%s of %s).", u.Category, u.Percent, u.Spent.Decimal(), u.Limit.Decimal()))
		}
	}

	if subscriptionCost.Cents > 0 {
		out = append(out, fmt.Sprintf("Active subscriptions cost %s per month.", subscriptionCost.Decimal()))
	}

	return out
}
