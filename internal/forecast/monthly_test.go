package forecast

import (
	"testing"

	"bilancio/internal/core"
)

func TestMonthlyEquivalent(t *testing.T) {
	cases := []struct {
		name string
		item core.RecurringItem
		want int64
	}{
		{"monthly full amount", expense("rent", 80000, 1, core.Monthly), 80000},
		{"quarterly default spread", expense("insurance", 12000, 15, core.Quarterly), 4000},
		{"quarterly two months", expense("fee", 12000, 1, core.Quarterly, 3, 9), 2000},
		{"yearly default spread", expense("tax", 60000, 20, core.Yearly), 5000},
		{"one_time has no weight", oneTime("laptop", 150000, core.NewDate(2025, 7, 8)), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MonthlyEquivalent(tc.item); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestBuildOverview(t *testing.T) {
	items := []core.RecurringItem{
		income("salary", 250000, 5, core.Monthly),
		expense("rent", 80000, 1, core.Monthly),
		expense("car insurance", 12000, 15, core.Quarterly),
	}
	items[0].Category = "work"
	items[1].Category = "housing"
	items[2].Category = "car"

	ov := BuildOverview(items)

	if ov.MonthlyIncome.Cents != 250000 {
		t.Fatalf("expected income 250000, got %d", ov.MonthlyIncome.Cents)
	}
	if ov.MonthlyExpense.Cents != 84000 {
		t.Fatalf("expected expense 84000, got %d", ov.MonthlyExpense.Cents)
	}
	if len(ov.ExpenseByCat) != 2 || ov.ExpenseByCat[0].Name != "housing" {
		t.Fatalf("expected housing first, got %+v", ov.ExpenseByCat)
	}
}
