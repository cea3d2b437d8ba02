package forecast

import "bilancio/internal/core"

// LedgerLine is the per-item detail behind a balance figure. Applied
// means the item has already occurred in the current period as of the
// reference date.
type LedgerLine struct {
	ItemID      int64
	Label       string
	Category    string
	AmountCents int64
	Applied     bool
}

// PlannedSummary buckets planned expenses around the reference date.
// Past expenses (date on or before the reference) are split by their
// Spent flag; neither bucket moves the current balance, the split is
// purely informational.
type PlannedSummary struct {
	PastSpentCents   int64
	PastPendingCents int64
	UpcomingCents    int64
}

// BalanceResult is the full current-balance picture for a reference date.
// The invariant CurrentBalanceCents = InitialCents + IncomeAppliedCents -
// ExpenseAppliedCents always holds, and the line items reconcile exactly
// with the applied totals.
type BalanceResult struct {
	AsOf                core.Date
	InitialCents        int64
	IncomeAppliedCents  int64
	ExpenseAppliedCents int64
	CurrentBalanceCents int64
	Incomes             []LedgerLine
	Expenses            []LedgerLine
	Planned             PlannedSummary
}

// ComputeBalance aggregates all recurring items and planned expenses
// into the balance as of ref. initialCents is the configured starting
// balance, manual adjustments already folded in by the caller.
func ComputeBalance(items []core.RecurringItem, planned []core.PlannedExpense, initialCents int64, ref core.Date) BalanceResult {
	res := BalanceResult{AsOf: ref, InitialCents: initialCents}

	for _, item := range items {
		occurred := OccurredAmount(item, ref)
		line := LedgerLine{
			ItemID:      item.ID,
			Label:       item.Label,
			Category:    item.Category,
			AmountCents: item.Amount.Cents,
			Applied:     occurred != 0,
		}
		switch item.Kind {
		case core.Income:
			res.IncomeAppliedCents += occurred
			res.Incomes = append(res.Incomes, line)
		case core.Expense:
			res.ExpenseAppliedCents += occurred
			res.Expenses = append(res.Expenses, line)
		}
	}

	for _, pe := range planned {
		switch {
		case pe.Date.After(ref.Time):
			res.Planned.UpcomingCents += pe.Amount.Cents
		case pe.Spent:
			res.Planned.PastSpentCents += pe.Amount.Cents
		default:
			res.Planned.PastPendingCents += pe.Amount.Cents
		}
	}

	res.CurrentBalanceCents = initialCents + res.IncomeAppliedCents - res.ExpenseAppliedCents
	return res
}
