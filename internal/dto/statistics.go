package dto

import "github.com/shopspring/decimal"

// PeriodStats holds the aggregates of one reporting window.
type PeriodStats struct {
	Savings             decimal.Decimal `json:"savings"`
	Expenses            decimal.Decimal `json:"expenses"`
	Income              decimal.Decimal `json:"income"`
	SavingsRatio        decimal.Decimal `json:"savingsRatio"`
	TransactionCount    int             `json:"transactionCount"`
	DaysWithoutSpending int             `json:"daysWithoutSpending"`
}

// PeriodChanges holds percentage deltas against the immediately preceding
// window of equal duration. A zero previous-period denominator yields 0.
type PeriodChanges struct {
	SavingsChange          decimal.Decimal `json:"savingsChange"`
	ExpensesChange         decimal.Decimal `json:"expensesChange"`
	TransactionCountChange decimal.Decimal `json:"transactionCountChange"`
}

// MonthlyStatsResponse is the payload of GET /analytics/monthly-stats.
type MonthlyStatsResponse struct {
	CurrentPeriod  PeriodStats   `json:"currentPeriod"`
	PreviousPeriod PeriodStats   `json:"previousPeriod"`
	Changes        PeriodChanges `json:"changes"`
}

// CategoryShare is one slice of the expense distribution.
type CategoryShare struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// ExpenseEvolutionResponse is the payload of GET /analytics/expenses-evolution:
// one row per trailing month, one column per category, zero-filled.
type ExpenseEvolutionResponse struct {
	Categories []string              `json:"categories"`
	Rows       []ExpenseEvolutionRow `json:"data"`
}

// ExpenseEvolutionRow is the per-month breakdown of expenses by category.
type ExpenseEvolutionRow struct {
	Month   string                     `json:"month"`
	Amounts map[string]decimal.Decimal `json:"amounts"`
}

// MonthBalance is the recorded balance at the end of one calendar month.
// Balance is nil while there is no known history yet.
type MonthBalance struct {
	Month   int              `json:"month"`
	Balance *decimal.Decimal `json:"balance"`
}

// YearBalances is the balance evolution of one calendar year.
type YearBalances struct {
	Year int            `json:"year"`
	Data []MonthBalance `json:"data"`
}

// BalanceEvolutionResponse is the payload of GET /statistics/balance-evolution.
type BalanceEvolutionResponse struct {
	CurrentYear YearBalances `json:"currentYear"`
	LastYear    YearBalances `json:"lastYear"`
}

// OverviewResponse is the payload of GET /statistics: current-month totals
// plus the balance carried by the most recent transaction.
type OverviewResponse struct {
	TotalExpenses  decimal.Decimal `json:"totalExpenses"`
	TotalIncome    decimal.Decimal `json:"totalIncome"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
}
