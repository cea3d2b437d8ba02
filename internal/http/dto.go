package http

import (
	"bilancio/internal/core"
	"bilancio/internal/forecast"
)

// Wire representations. Dates travel as YYYY-MM-DD strings, amounts as
// integer cents plus a pre-formatted decimal string for display.

type recurringItemDTO struct {
	ID           int64  `json:"id"`
	Kind         string `json:"kind"`
	Label        string `json:"label"`
	Category     string `json:"category,omitempty"`
	AmountCents  int64  `json:"amount_cents"`
	Amount       string `json:"amount"`
	DayOfMonth   int    `json:"day_of_month"`
	Frequency    string `json:"frequency"`
	Months       []int  `json:"months,omitempty"`
	OneTimeDate  string `json:"one_time_date,omitempty"`
	MonthlyCents int64  `json:"monthly_equivalent_cents"`
}

type plannedExpenseDTO struct {
	ID          int64  `json:"id"`
	Label       string `json:"label"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Spent       bool   `json:"spent"`
}

type adjustmentDTO struct {
	ID          int64  `json:"id"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Reason      string `json:"reason,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type ledgerLineDTO struct {
	ItemID      int64  `json:"item_id"`
	Label       string `json:"label"`
	Category    string `json:"category,omitempty"`
	AmountCents int64  `json:"amount_cents"`
	Applied     bool   `json:"applied"`
}

type plannedSummaryDTO struct {
	PastSpentCents   int64 `json:"past_spent_cents"`
	PastPendingCents int64 `json:"past_pending_cents"`
	UpcomingCents    int64 `json:"upcoming_cents"`
}

type balanceDTO struct {
	AsOf                string            `json:"as_of"`
	InitialCents        int64             `json:"initial_cents"`
	IncomeAppliedCents  int64             `json:"income_applied_cents"`
	ExpenseAppliedCents int64             `json:"expense_applied_cents"`
	CurrentBalanceCents int64             `json:"current_balance_cents"`
	CurrentBalance      string            `json:"current_balance"`
	Incomes             []ledgerLineDTO   `json:"incomes"`
	Expenses            []ledgerLineDTO   `json:"expenses"`
	Planned             plannedSummaryDTO `json:"planned"`
}

type projectionEventDTO struct {
	Source     string `json:"source"`
	Label      string `json:"label"`
	DeltaCents int64  `json:"delta_cents"`
}

type projectionPointDTO struct {
	Date         string               `json:"date"`
	BalanceCents int64                `json:"balance_cents"`
	Balance      string               `json:"balance"`
	Events       []projectionEventDTO `json:"events,omitempty"`
}

type categoryAmountDTO struct {
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
}

type overviewDTO struct {
	MonthlyIncomeCents  int64               `json:"monthly_income_cents"`
	MonthlyExpenseCents int64               `json:"monthly_expense_cents"`
	IncomeByCategory    []categoryAmountDTO `json:"income_by_category"`
	ExpenseByCategory   []categoryAmountDTO `json:"expense_by_category"`
}

type snapshotDTO struct {
	ID           int64  `json:"id"`
	AsOf         string `json:"as_of"`
	BalanceCents int64  `json:"balance_cents"`
	IncomeCents  int64  `json:"income_cents"`
	ExpenseCents int64  `json:"expense_cents"`
	TakenAt      string `json:"taken_at"`
}

type createdDTO struct {
	ID int64 `json:"id"`
}

type initialBalanceDTO struct {
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
}

func dateString(d core.Date) string {
	if d.IsEmpty() {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

func toRecurringDTO(item core.RecurringItem) recurringItemDTO {
	return recurringItemDTO{
		ID:           item.ID,
		Kind:         string(item.Kind),
		Label:        item.Label,
		Category:     item.Category,
		AmountCents:  item.Amount.Cents,
		Amount:       core.FormatCents(item.Amount.Cents),
		DayOfMonth:   item.DayOfMonth,
		Frequency:    string(item.Frequency),
		Months:       item.Months,
		OneTimeDate:  dateString(item.OneTimeDate),
		MonthlyCents: forecast.MonthlyEquivalent(item),
	}
}

func toRecurringDTOs(items []core.RecurringItem) []recurringItemDTO {
	out := make([]recurringItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toRecurringDTO(item))
	}
	return out
}

func toPlannedDTO(pe core.PlannedExpense) plannedExpenseDTO {
	return plannedExpenseDTO{
		ID:          pe.ID,
		Label:       pe.Label,
		AmountCents: pe.Amount.Cents,
		Amount:      core.FormatCents(pe.Amount.Cents),
		Date:        dateString(pe.Date),
		Spent:       pe.Spent,
	}
}

func toPlannedDTOs(list []core.PlannedExpense) []plannedExpenseDTO {
	out := make([]plannedExpenseDTO, 0, len(list))
	for _, pe := range list {
		out = append(out, toPlannedDTO(pe))
	}
	return out
}

func toAdjustmentDTOs(list []core.Adjustment) []adjustmentDTO {
	out := make([]adjustmentDTO, 0, len(list))
	for _, a := range list {
		out = append(out, adjustmentDTO{
			ID:          a.ID,
			AmountCents: a.AmountCents,
			Amount:      core.FormatCents(a.AmountCents),
			Description: a.Description,
			Reason:      a.Reason,
			CreatedAt:   a.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return out
}

func toLedgerDTOs(lines []forecast.LedgerLine) []ledgerLineDTO {
	out := make([]ledgerLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, ledgerLineDTO{
			ItemID:      l.ItemID,
			Label:       l.Label,
			Category:    l.Category,
			AmountCents: l.AmountCents,
			Applied:     l.Applied,
		})
	}
	return out
}

func toBalanceDTO(res forecast.BalanceResult) balanceDTO {
	return balanceDTO{
		AsOf:                dateString(res.AsOf),
		InitialCents:        res.InitialCents,
		IncomeAppliedCents:  res.IncomeAppliedCents,
		ExpenseAppliedCents: res.ExpenseAppliedCents,
		CurrentBalanceCents: res.CurrentBalanceCents,
		CurrentBalance:      core.FormatCents(res.CurrentBalanceCents),
		Incomes:             toLedgerDTOs(res.Incomes),
		Expenses:            toLedgerDTOs(res.Expenses),
		Planned: plannedSummaryDTO{
			PastSpentCents:   res.Planned.PastSpentCents,
			PastPendingCents: res.Planned.PastPendingCents,
			UpcomingCents:    res.Planned.UpcomingCents,
		},
	}
}

func toProjectionDTOs(points []forecast.ProjectionPoint) []projectionPointDTO {
	out := make([]projectionPointDTO, 0, len(points))
	for _, p := range points {
		dto := projectionPointDTO{
			Date:         dateString(p.Date),
			BalanceCents: p.BalanceCents,
			Balance:      core.FormatCents(p.BalanceCents),
		}
		for _, ev := range p.Events {
			dto.Events = append(dto.Events, projectionEventDTO{
				Source:     string(ev.Source),
				Label:      ev.Label,
				DeltaCents: ev.DeltaCents,
			})
		}
		out = append(out, dto)
	}
	return out
}

func toCategoryDTOs(cats []core.CategoryAmount) []categoryAmountDTO {
	out := make([]categoryAmountDTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryAmountDTO{Name: c.Name, AmountCents: c.Amount.Cents})
	}
	return out
}

func toOverviewDTO(ov core.RecurringOverview) overviewDTO {
	return overviewDTO{
		MonthlyIncomeCents:  ov.MonthlyIncome.Cents,
		MonthlyExpenseCents: ov.MonthlyExpense.Cents,
		IncomeByCategory:    toCategoryDTOs(ov.IncomeByCat),
		ExpenseByCategory:   toCategoryDTOs(ov.ExpenseByCat),
	}
}

func toSnapshotDTOs(list []core.BalanceSnapshot) []snapshotDTO {
	out := make([]snapshotDTO, 0, len(list))
	for _, s := range list {
		out = append(out, snapshotDTO{
			ID:           s.ID,
			AsOf:         dateString(s.AsOf),
			BalanceCents: s.BalanceCents,
			IncomeCents:  s.IncomeCents,
			ExpenseCents: s.ExpenseCents,
			TakenAt:      s.TakenAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return out
}
