package core

import "time"

// TrendMonths is the fixed length of the monthly trend series.
const TrendMonths = 6

// TrendBucket is one calendar month of summed expense amounts.
type TrendBucket struct {
	Year  int
	Month int // 1-12
	Label string
	Total Money
}

// MonthlyTrend buckets expenses into the TrendMonths calendar months
// ending with the month of now, oldest first. Months without expenses
// produce zero buckets; the series always has exactly TrendMonths
// entries. Grouping is on (year, month), never on the label, which is
// display-only ("Jan 2006").
func MonthlyTrend(now time.Time, expenses []Expense) []TrendBucket {
	// First day of the oldest bucket; time.Date normalizes month underflow.
	start := time.Date(now.Year(), now.Month()-TrendMonths+1, 1, 0, 0, 0, 0, time.UTC)

	buckets := make([]TrendBucket, TrendMonths)
	for i := range buckets {
		m := start.AddDate(0, i, 0)
		buckets[i] = TrendBucket{
			Year:  m.Year(),
			Month: int(m.Month()),
			Label: m.Format("Jan 2006"),
		}
	}

	for _, e := range expenses {
		idx := (e.Date.Year()-start.Year())*12 + e.Date.Month() - int(start.Month())
		if idx >= 0 && idx < TrendMonths {
			buckets[idx].Total = buckets[idx].Total.Add(e.Amount)
		}
	}
	return buckets
}
