package core

import "testing"

func TestMonthlyCost(t *testing.T) {
	cases := []struct {
		name  string
		cents int64
		cycle BillingCycle
		want  int64
	}{
		{"weekly 10.00 -> 43.30", 1000, Weekly, 4330},
		{"monthly passes through", 1500, Monthly, 1500},
		{"quarterly 30.00 -> 10.00", 3000, Quarterly, 1000},
		{"yearly 120.00 -> 10.00", 12000, Yearly, 1000},
		{"quarterly rounds half-up", 1000, Quarterly, 333}, // 333.33 cents
		{"yearly rounds half-up", 1000, Yearly, 83},        // 83.33 cents
		{"unknown cycle falls back to monthly", 1000, "fortnightly", 1000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MonthlyCost(Money{Cents: tc.cents}, tc.cycle)
			if got.Cents != tc.want {
				t.Errorf("MonthlyCost(%d, %s) = %d, want %d", tc.cents, tc.cycle, got.Cents, tc.want)
			}
		})
	}
}

func TestMonthlyEquivalent(t *testing.T) {
	subs := []Subscription{
		{Name: "gym", Amount: Money{Cents: 1000}, BillingCycle: Weekly, IsActive: true},
		{Name: "news", Amount: Money{Cents: 12000}, BillingCycle: Yearly, IsActive: true},
		{Name: "old box", Amount: Money{Cents: 99900}, BillingCycle: Monthly, IsActive: false},
	}

	monthly := MonthlyEquivalent(subs)
	if monthly.Cents != 4330+1000 {
		t.Fatalf("monthly equivalent = %d, want %d", monthly.Cents, 4330+1000)
	}

	annual := AnnualEquivalent(subs)
	if annual.Cents != monthly.Cents*12 {
		t.Fatalf("annual equivalent = %d, want %d", annual.Cents, monthly.Cents*12)
	}
}

func TestMonthlyEquivalentEmpty(t *testing.T) {
	if got := MonthlyEquivalent(nil); got.Cents != 0 {
		t.Fatalf("empty input should cost nothing, got %d", got.Cents)
	}
}
