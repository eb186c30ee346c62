package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"0", 0, false},
		{"0.00", 0, false},
		{"10.005", 1001, false}, // half-up on the third decimal
		{"10.004", 1000, false},
		{"12.344", 1234, false},
		{"120", 12000, false},
		{".5", 50, false},
		{"-1.00", 0, true},
		{"+1.00", 0, true},
		{"", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDecimalToCents(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDecimalToCents(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMoneyDecimal(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{0, "0.00"},
		{5, "0.05"},
		{4330, "43.30"},
		{-150, "-1.50"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).Decimal(); got != tc.want {
			t.Errorf("Decimal(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestDivRoundHalfUp(t *testing.T) {
	cases := []struct {
		n, d, want int64
	}{
		{10, 3, 3},
		{11, 3, 4}, // 3.67 rounds up
		{15, 10, 2},
		{14, 10, 1},
		{12000, 12, 1000},
	}
	for _, tc := range cases {
		if got := divRoundHalfUp(tc.n, tc.d); got != tc.want {
			t.Errorf("divRoundHalfUp(%d, %d) = %d, want %d", tc.n, tc.d, got, tc.want)
		}
	}
}
