package forecast

import "bilancio/internal/core"

// EventSource identifies what produced a projection event.
type EventSource string

const (
	SourceRecurring EventSource = "recurring"
	SourcePlanned   EventSource = "planned"
)

// ProjectionEvent is a single money movement attributed to a projection
// day. DeltaCents is signed: positive for income, negative for outgoing.
type ProjectionEvent struct {
	Source     EventSource
	Label      string
	DeltaCents int64
}

// ProjectionPoint is the projected end-of-day balance for one calendar
// day, with the events that moved it.
type ProjectionPoint struct {
	Date         core.Date
	BalanceCents int64
	Events       []ProjectionEvent
}

func recurringDelta(item core.RecurringItem) int64 {
	if item.Kind == core.Expense {
		return -item.Amount.Cents
	}
	return item.Amount.Cents
}

// Project walks the balance forward day by day from start, returning
// exactly horizonDays points with consecutive ascending dates. The first
// point falls on start itself and its balance (before planned expenses
// due that day) equals ComputeBalance for the same input.
//
// Recurring items due on the start day are already inside the anchor
// balance, so the walk records them as events without applying them
// again. Planned expenses are applied on their exact date from start
// onward, whether or not they are marked spent: the projection shows
// what the account will look like once every plan is executed.
//
// A non-positive horizon yields an empty projection.
func Project(items []core.RecurringItem, planned []core.PlannedExpense, initialCents int64, start core.Date, horizonDays int) []ProjectionPoint {
	if horizonDays <= 0 {
		return nil
	}

	anchor := ComputeBalance(items, planned, initialCents, start)
	balance := anchor.CurrentBalanceCents

	points := make([]ProjectionPoint, 0, horizonDays)
	for d := 0; d < horizonDays; d++ {
		day := start.AddDays(d)
		point := ProjectionPoint{Date: day}

		for _, item := range items {
			if !DueOn(item, day) {
				continue
			}
			delta := recurringDelta(item)
			point.Events = append(point.Events, ProjectionEvent{
				Source:     SourceRecurring,
				Label:      item.Label,
				DeltaCents: delta,
			})
			if d > 0 {
				balance += delta
			}
		}

		for _, pe := range planned {
			if !pe.Date.SameDay(day) {
				continue
			}
			point.Events = append(point.Events, ProjectionEvent{
				Source:     SourcePlanned,
				Label:      pe.Label,
				DeltaCents: -pe.Amount.Cents,
			})
			balance -= pe.Amount.Cents
		}

		point.BalanceCents = balance
		points = append(points, point)
	}
	return points
}
