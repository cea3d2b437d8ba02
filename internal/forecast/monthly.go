package forecast

import (
	"sort"

	"bilancio/internal/core"
)

// MonthlyEquivalent spreads a recurring item's yearly total evenly over
// twelve months, in cents. Quarterly and yearly items count one
// occurrence per applicable month; one-time items have no recurring
// weight. This is a display figure for overviews only and must never be
// used for balance or projection arithmetic, which work on actual
// occurrence dates.
func MonthlyEquivalent(item core.RecurringItem) int64 {
	switch item.Frequency {
	case core.Monthly:
		return item.Amount.Cents
	case core.Quarterly, core.Yearly:
		n := int64(len(effectiveMonths(item)))
		return item.Amount.Cents * n / 12
	}
	return 0
}

// BuildOverview aggregates the monthly-equivalent weight of all items
// into per-kind totals and category breakdowns, categories sorted by
// descending amount.
func BuildOverview(items []core.RecurringItem) core.RecurringOverview {
	var ov core.RecurringOverview
	incomeByCat := make(map[string]int64)
	expenseByCat := make(map[string]int64)

	for _, item := range items {
		eq := MonthlyEquivalent(item)
		if eq == 0 {
			continue
		}
		switch item.Kind {
		case core.Income:
			ov.MonthlyIncome.Cents += eq
			incomeByCat[item.Category] += eq
		case core.Expense:
			ov.MonthlyExpense.Cents += eq
			expenseByCat[item.Category] += eq
		}
	}

	ov.IncomeByCat = sortedCategories(incomeByCat)
	ov.ExpenseByCat = sortedCategories(expenseByCat)
	return ov
}

func sortedCategories(byCat map[string]int64) []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0, len(byCat))
	for name, cents := range byCat {
		out = append(out, core.CategoryAmount{Name: name, Amount: core.Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}
