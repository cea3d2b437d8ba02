package core

import "testing"

func TestRecurringItemValidate(t *testing.T) {
	base := RecurringItem{
		Kind:       Expense,
		Label:      "rent",
		Category:   "housing",
		Amount:     Money{Cents: 80000},
		DayOfMonth: 1,
		Frequency:  Monthly,
	}

	cases := []struct {
		name   string
		mutate func(*RecurringItem)
		ok     bool
	}{
		{"valid monthly", func(ri *RecurringItem) {}, true},
		{"valid quarterly with months", func(ri *RecurringItem) {
			ri.Frequency = Quarterly
			ri.Months = []int{2, 5, 8, 11}
		}, true},
		{"valid yearly default months", func(ri *RecurringItem) {
			ri.Frequency = Yearly
		}, true},
		{"valid one_time", func(ri *RecurringItem) {
			ri.Frequency = OneTime
			ri.DayOfMonth = 0
			ri.OneTimeDate = NewDate(2025, 7, 15)
		}, true},
		{"bad kind", func(ri *RecurringItem) { ri.Kind = "transfer" }, false},
		{"empty label", func(ri *RecurringItem) { ri.Label = "  " }, false},
		{"zero amount", func(ri *RecurringItem) { ri.Amount = Money{} }, false},
		{"negative amount", func(ri *RecurringItem) { ri.Amount = Money{Cents: -100} }, false},
		{"day zero", func(ri *RecurringItem) { ri.DayOfMonth = 0 }, false},
		{"day 32", func(ri *RecurringItem) { ri.DayOfMonth = 32 }, false},
		{"month 13 in set", func(ri *RecurringItem) {
			ri.Frequency = Quarterly
			ri.Months = []int{1, 13}
		}, false},
		{"unknown frequency", func(ri *RecurringItem) { ri.Frequency = "weekly" }, false},
		{"one_time without date", func(ri *RecurringItem) {
			ri.Frequency = OneTime
		}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ri := base
			tc.mutate(&ri)
			err := ri.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestPlannedExpenseValidate(t *testing.T) {
	valid := PlannedExpense{Label: "car service", Amount: Money{Cents: 30000}, Date: NewDate(2025, 9, 12)}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	noDate := valid
	noDate.Date = Date{}
	if err := noDate.Validate(); err == nil {
		t.Fatal("expected error for missing date")
	}

	noLabel := valid
	noLabel.Label = ""
	if err := noLabel.Validate(); err == nil {
		t.Fatal("expected error for empty label")
	}
}

func TestAdjustmentValidate(t *testing.T) {
	if err := (Adjustment{AmountCents: -5000, Description: "bank fee correction"}).Validate(); err != nil {
		t.Fatalf("negative adjustments are allowed, got %v", err)
	}
	if err := (Adjustment{AmountCents: 0, Description: "noop"}).Validate(); err == nil {
		t.Fatal("expected error for zero amount")
	}
	if err := (Adjustment{AmountCents: 100}).Validate(); err == nil {
		t.Fatal("expected error for empty description")
	}
}

func TestDefaultMonths(t *testing.T) {
	q := DefaultMonths(Quarterly)
	if len(q) != 4 || q[0] != 1 || q[1] != 4 || q[2] != 7 || q[3] != 10 {
		t.Fatalf("quarterly defaults wrong: %v", q)
	}
	y := DefaultMonths(Yearly)
	if len(y) != 1 || y[0] != 1 {
		t.Fatalf("yearly defaults wrong: %v", y)
	}
	if DefaultMonths(Monthly) != nil {
		t.Fatal("monthly has no month set")
	}
}

func TestDateHelpers(t *testing.T) {
	d := NewDate(2025, 7, 31)
	if d.Year() != 2025 || d.Month() != 7 || d.Day() != 31 {
		t.Fatalf("unexpected components: %v", d)
	}
	next := d.AddDays(1)
	if next.Month() != 8 || next.Day() != 1 {
		t.Fatalf("AddDays should roll the month: %v", next)
	}
	if !d.SameDay(NewDate(2025, 7, 31)) {
		t.Fatal("SameDay should match identical dates")
	}
	if d.SameDay(next) {
		t.Fatal("SameDay should reject different days")
	}
}
