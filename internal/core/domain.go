package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
	OneTime   Frequency = "one_time"
)

const (
	Income  ItemKind = "income"
	Expense ItemKind = "expense"
)

type (
	// Frequency describes how often a recurring item occurs.
	Frequency string

	// ItemKind distinguishes incoming money from outgoing money.
	ItemKind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// RecurringItem is an income or expense that repeats on a schedule.
	// Months narrows quarterly and yearly items to specific months; when
	// empty the defaults apply (Jan/Apr/Jul/Oct for quarterly, Jan for
	// yearly). OneTimeDate is set only for one_time items.
	RecurringItem struct {
		ID          int64
		Kind        ItemKind
		Label       string
		Category    string
		Amount      Money
		DayOfMonth  int
		Frequency   Frequency
		Months      []int
		OneTimeDate Date
	}

	// PlannedExpense is a one-off expense anticipated on a specific date.
	// Spent marks whether the money has actually left the account.
	PlannedExpense struct {
		ID     int64
		Label  string
		Amount Money
		Date   Date
		Spent  bool
	}

	// Adjustment is a manual signed correction to the running balance.
	Adjustment struct {
		ID          int64
		AmountCents int64
		Description string
		Reason      string
		CreatedAt   time.Time
	}

	// BalanceSnapshot is a point-in-time record of the computed balance,
	// written by the snapshot worker for history charts.
	BalanceSnapshot struct {
		ID           int64
		AsOf         Date
		BalanceCents int64
		IncomeCents  int64
		ExpenseCents int64
		TakenAt      time.Time
	}
)

var (
	ErrInvalidDay       = errors.New("invalid day of month")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("invalid item kind")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrEmptyLabel       = errors.New("empty label")
	ErrMissingDate      = errors.New("missing date")
)

// DefaultMonths returns the month set a frequency falls back to when the
// item does not carry an explicit one.
func DefaultMonths(f Frequency) []int {
	switch f {
	case Quarterly:
		return []int{1, 4, 7, 10}
	case Yearly:
		return []int{1}
	default:
		return nil
	}
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

// SameDay reports whether two dates fall on the same calendar day.
func (d Date) SameDay(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month() && d.Day() == other.Day()
}

// IsEmpty returns true if the date is zero (optional dates)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrMissingDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (k ItemKind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (ri RecurringItem) Validate() error {
	if err := ri.Kind.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(ri.Label)) == 0 {
		return ErrEmptyLabel
	}
	if len(ri.Label) > 200 {
		return errors.New("label too long (max 200 characters)")
	}
	if err := ri.Amount.Validate(); err != nil {
		return err
	}
	switch ri.Frequency {
	case Monthly, Quarterly, Yearly:
		if ri.DayOfMonth < 1 || ri.DayOfMonth > 31 {
			return ErrInvalidDay
		}
		for _, m := range ri.Months {
			if m < 1 || m > 12 {
				return ErrInvalidMonth
			}
		}
	case OneTime:
		if err := ri.OneTimeDate.Validate(); err != nil {
			return errors.New("one_time item needs a date: " + err.Error())
		}
	default:
		return ErrInvalidFrequency
	}
	return nil
}

func (pe PlannedExpense) Validate() error {
	if len(strings.TrimSpace(pe.Label)) == 0 {
		return ErrEmptyLabel
	}
	if len(pe.Label) > 200 {
		return errors.New("label too long (max 200 characters)")
	}
	if err := pe.Amount.Validate(); err != nil {
		return err
	}
	if err := pe.Date.Validate(); err != nil {
		return err
	}
	return nil
}

func (a Adjustment) Validate() error {
	if a.AmountCents == 0 {
		return ErrInvalidAmount
	}
	if len(strings.TrimSpace(a.Description)) == 0 {
		return ErrEmptyLabel
	}
	return nil
}
