package game

import "testing"

func TestUpgradePriceCurve(t *testing.T) {
	cases := []struct {
		base  float64
		level int64
		mult  float64
		want  float64
	}{
		{100, 0, 1.2, 100},
		{100, 1, 1.2, 120},
		{100, 2, 1.2, 144},
		{200, 0, 1.7, 200},
		{200, 1, 1.7, 340},
		{200, 2, 1.7, 578},
		{1000, 3, 1.2, 1728},
	}

	for _, tc := range cases {
		if got := UpgradePrice(tc.base, tc.level, tc.mult); got != tc.want {
			t.Fatalf("UpgradePrice(%v,%d,%v) = %v; want %v", tc.base, tc.level, tc.mult, got, tc.want)
		}
	}
}

func TestUpgradePriceStrictlyIncreasing(t *testing.T) {
	prev := -1.0
	for level := int64(0); level < 20; level++ {
		price := UpgradePrice(200, level, 1.7)
		if price <= prev {
			t.Fatalf("price at level %d = %v, not greater than previous %v", level, price, prev)
		}
		prev = price
	}
}

func TestPassiveIncomeAndClickBoost(t *testing.T) {
	if got := PassiveIncome(0.1, 0); got != 0 {
		t.Fatalf("PassiveIncome at level 0 = %v; want 0", got)
	}
	if got := PassiveIncome(0.1, 5); got != 0.5 {
		t.Fatalf("PassiveIncome(0.1, 5) = %v; want 0.5", got)
	}
	if got := ClickBoost(5, 3); got != 15 {
		t.Fatalf("ClickBoost(5, 3) = %d; want 15", got)
	}
}
