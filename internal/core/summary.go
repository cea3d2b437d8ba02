package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// RecurringOverview is the monthly-equivalent summary of all active
// recurring items, split by kind and broken down by category. It is a
// display aid only and never feeds balance or projection math.
type RecurringOverview struct {
	MonthlyIncome  Money
	MonthlyExpense Money
	IncomeByCat    []CategoryAmount
	ExpenseByCat   []CategoryAmount
}
