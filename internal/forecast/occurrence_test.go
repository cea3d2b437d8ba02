package forecast

import (
	"testing"

	"bilancio/internal/core"
)

func expense(label string, cents int64, day int, freq core.Frequency, months ...int) core.RecurringItem {
	return core.RecurringItem{
		Kind:       core.Expense,
		Label:      label,
		Amount:     core.Money{Cents: cents},
		DayOfMonth: day,
		Frequency:  freq,
		Months:     months,
	}
}

func income(label string, cents int64, day int, freq core.Frequency, months ...int) core.RecurringItem {
	item := expense(label, cents, day, freq, months...)
	item.Kind = core.Income
	return item
}

func oneTime(label string, cents int64, date core.Date) core.RecurringItem {
	return core.RecurringItem{
		Kind:        core.Expense,
		Label:       label,
		Amount:      core.Money{Cents: cents},
		Frequency:   core.OneTime,
		OneTimeDate: date,
	}
}

func TestOccurredAmount(t *testing.T) {
	july8 := core.NewDate(2025, 7, 8)

	cases := []struct {
		name string
		item core.RecurringItem
		ref  core.Date
		want int64
	}{
		{"monthly before due day", expense("rent", 80000, 15, core.Monthly), july8, 0},
		{"monthly on due day", expense("rent", 80000, 8, core.Monthly), july8, 80000},
		{"monthly after due day", expense("rent", 80000, 1, core.Monthly), july8, 80000},
		{"quarterly default months, applicable month, day passed",
			expense("insurance", 12000, 5, core.Quarterly), july8, 12000},
		{"quarterly default months, applicable month, day not reached",
			expense("insurance", 12000, 15, core.Quarterly), july8, 0},
		{"quarterly non-applicable month",
			expense("insurance", 12000, 5, core.Quarterly), core.NewDate(2025, 8, 28), 0},
		{"quarterly explicit months",
			expense("fee", 9000, 1, core.Quarterly, 2, 5, 8, 11), core.NewDate(2025, 5, 3), 9000},
		{"yearly default january",
			expense("tax", 60000, 20, core.Yearly), core.NewDate(2025, 1, 25), 60000},
		{"yearly non-applicable month",
			expense("tax", 60000, 20, core.Yearly, 10), july8, 0},
		{"one_time exact date", oneTime("laptop", 150000, july8), july8, 150000},
		{"one_time other date", oneTime("laptop", 150000, core.NewDate(2025, 7, 9)), july8, 0},
		{"one_time earlier date not counted", oneTime("laptop", 150000, core.NewDate(2025, 7, 1)), july8, 0},
		{"unknown frequency degrades to zero",
			core.RecurringItem{Kind: core.Expense, Amount: core.Money{Cents: 100}, DayOfMonth: 1, Frequency: "weekly"}, july8, 0},
		{"day 31 clamps to end of february",
			expense("subscription", 1500, 31, core.Monthly), core.NewDate(2025, 2, 28), 1500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := OccurredAmount(tc.item, tc.ref)
			if got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
			// pure function: a second call must agree
			if again := OccurredAmount(tc.item, tc.ref); again != got {
				t.Fatalf("not idempotent: %d then %d", got, again)
			}
		})
	}
}

func TestDueOnAgreesWithOccurredAmount(t *testing.T) {
	// An item exactly due on a date must also count as occurred on it.
	items := []core.RecurringItem{
		expense("rent", 80000, 1, core.Monthly),
		expense("insurance", 12000, 15, core.Quarterly),
		expense("tax", 60000, 20, core.Yearly, 10),
		oneTime("laptop", 150000, core.NewDate(2025, 7, 8)),
	}
	start := core.NewDate(2025, 1, 1)
	for d := 0; d < 365; d++ {
		day := start.AddDays(d)
		for _, item := range items {
			if DueOn(item, day) && OccurredAmount(item, day) != item.Amount.Cents {
				t.Fatalf("%s due on %v but not occurred", item.Label, day)
			}
		}
	}
}

func TestDueOnClampsShortMonths(t *testing.T) {
	sub := expense("subscription", 1500, 31, core.Monthly)
	if !DueOn(sub, core.NewDate(2025, 2, 28)) {
		t.Fatal("day-31 item should come due on Feb 28")
	}
	if DueOn(sub, core.NewDate(2025, 2, 27)) {
		t.Fatal("not due before the clamped day")
	}
	if !DueOn(sub, core.NewDate(2024, 2, 29)) {
		t.Fatal("leap year clamps to Feb 29")
	}
}
