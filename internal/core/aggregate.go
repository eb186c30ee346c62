package core

import "sort"

// SumByCategory groups expenses by category and sums their amounts.
// An empty input yields an empty (non-nil) map. Sums are exact cent
// arithmetic, so the total of the output always equals the total of the
// input.
func SumByCategory(expenses []Expense) map[string]Money {
	totals := make(map[string]Money, len(expenses))
	for _, e := range expenses {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals
}

// TotalAmount sums all expense amounts.
func TotalAmount(expenses []Expense) Money {
	var total Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// TopCategory returns the category with the largest aggregate amount.
// Ties break on category name so the result is deterministic. The third
// return is false when totals is empty.
func TopCategory(totals map[string]Money) (string, Money, bool) {
	var (
		best   string
		amount Money
		found  bool
	)
	for name, m := range totals {
		if !found || m.Cents > amount.Cents || (m.Cents == amount.Cents && name < best) {
			best, amount, found = name, m, true
		}
	}
	return best, amount, found
}

// CategoryShare is a category total with its share of the overall total.
type CategoryShare struct {
	Category string
	Amount   Money
	Percent  float64
}

// CategoryBreakdown turns per-category totals into shares of the grand
// total, sorted by amount descending (name ascending on ties). A zero
// grand total yields zero percentages.
func CategoryBreakdown(totals map[string]Money) []CategoryShare {
	var grand int64
	for _, m := range totals {
		grand += m.Cents
	}
	shares := make([]CategoryShare, 0, len(totals))
	for name, m := range totals {
		s := CategoryShare{Category: name, Amount: m}
		if grand > 0 {
			s.Percent = float64(m.Cents) / float64(grand) * 100
		}
		shares = append(shares, s)
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Amount.Cents != shares[j].Amount.Cents {
			return shares[i].Amount.Cents > shares[j].Amount.Cents
		}
		return shares[i].Category < shares[j].Category
	})
	return shares
}

// BudgetUsage reports how much of a budget's limit the matching category
// spending has consumed.
type BudgetUsage struct {
	Category string
	Limit    Money
	Spent    Money
	Percent  float64
}

// BudgetConsumption matches budgets against per-category spending totals.
// Categories without a budget are ignored; budgets without spending show
// zero usage. Output is sorted by category name. A zero limit reports
// 0% regardless of spending.
func BudgetConsumption(budgets []Budget, totals map[string]Money) []BudgetUsage {
	usage := make([]BudgetUsage, 0, len(budgets))
	for _, b := range budgets {
		u := BudgetUsage{Category: b.Category, Limit: b.Amount, Spent: totals[b.Category]}
		if b.Amount.Cents > 0 {
			u.Percent = float64(u.Spent.Cents) / float64(b.Amount.Cents) * 100
		}
		usage = append(usage, u)
	}
	sort.Slice(usage, func(i, j int) bool { return usage[i].Category < usage[j].Category })
	return usage
}
