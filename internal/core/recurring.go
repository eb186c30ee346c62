package core

// cycleRate expresses a billing cycle's monthly multiplier as the
// rational num/den, keeping normalization in exact integer math until
// the single half-up division per subscription.
type cycleRate struct {
	num, den int64
}

// monthlyRates maps billing cycles to their average monthly rate.
// Weekly uses 4.33, the mean number of weeks per month.
var monthlyRates = map[BillingCycle]cycleRate{
	Weekly:    {433, 100},
	Monthly:   {1, 1},
	Quarterly: {1, 3},
	Yearly:    {1, 12},
}

// MonthlyCost normalizes one charge to its average monthly rate.
// An unrecognized cycle falls back to monthly so the engine stays total;
// callers that want to reject unknown cycles check ValidCycle up front.
func MonthlyCost(amount Money, cycle BillingCycle) Money {
	rate, ok := monthlyRates[cycle]
	if !ok {
		rate = monthlyRates[Monthly]
	}
	return Money{Cents: divRoundHalfUp(amount.Cents*rate.num, rate.den)}
}

// MonthlyEquivalent sums the normalized monthly cost of all active
// subscriptions. Inactive subscriptions contribute nothing.
func MonthlyEquivalent(subs []Subscription) Money {
	var total Money
	for _, s := range subs {
		if !s.IsActive {
			continue
		}
		total = total.Add(MonthlyCost(s.Amount, s.BillingCycle))
	}
	return total
}

// AnnualEquivalent is the monthly equivalent projected over a year.
func AnnualEquivalent(subs []Subscription) Money {
	m := MonthlyEquivalent(subs)
	return Money{Cents: m.Cents * 12}
}
