// Package forecast implements the budget calculation core: occurrence
// evaluation for recurring items, current-balance aggregation and the
// forward day-by-day projection.
//
// The package is pure. It performs no I/O, takes validated input and
// works exclusively in integer cents, so every computation is exact and
// deterministic. Callers load data and hand it in as plain slices.
package forecast

import (
	"time"

	"bilancio/internal/core"
)

// effectiveMonths resolves the month set an item actually occurs in,
// falling back to the frequency defaults when none is configured.
func effectiveMonths(item core.RecurringItem) []int {
	if len(item.Months) > 0 {
		return item.Months
	}
	return core.DefaultMonths(item.Frequency)
}

func monthInSet(month int, months []int) bool {
	for _, m := range months {
		if m == month {
			return true
		}
	}
	return false
}

// effectiveDay clamps an item's day of month to the last day of the
// given month, so a day-31 item still occurs in February.
func effectiveDay(item core.RecurringItem, year, month int) int {
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if item.DayOfMonth > last {
		return last
	}
	return item.DayOfMonth
}

// OccurredAmount returns the cents of item that have already occurred in
// the period containing ref, as of ref itself (the reference day counts
// as elapsed).
//
// Monthly items occur once per month on their day of month. Quarterly and
// yearly items occur only in their applicable months. One-time items occur
// exactly on their date. An unrecognized frequency contributes nothing;
// the evaluator never fails.
func OccurredAmount(item core.RecurringItem, ref core.Date) int64 {
	switch item.Frequency {
	case core.Monthly:
		if effectiveDay(item, ref.Year(), ref.Month()) <= ref.Day() {
			return item.Amount.Cents
		}
	case core.Quarterly, core.Yearly:
		if monthInSet(ref.Month(), effectiveMonths(item)) &&
			effectiveDay(item, ref.Year(), ref.Month()) <= ref.Day() {
			return item.Amount.Cents
		}
	case core.OneTime:
		if !item.OneTimeDate.IsEmpty() && item.OneTimeDate.SameDay(ref) {
			return item.Amount.Cents
		}
	}
	return 0
}

// DueOn reports whether item comes due exactly on day. It shares the
// month-set and day-clamping rules with OccurredAmount so the projection
// walk and the balance aggregation can never disagree.
func DueOn(item core.RecurringItem, day core.Date) bool {
	switch item.Frequency {
	case core.Monthly:
		return effectiveDay(item, day.Year(), day.Month()) == day.Day()
	case core.Quarterly, core.Yearly:
		return monthInSet(day.Month(), effectiveMonths(item)) &&
			effectiveDay(item, day.Year(), day.Month()) == day.Day()
	case core.OneTime:
		return !item.OneTimeDate.IsEmpty() && item.OneTimeDate.SameDay(day)
	}
	return false
}
