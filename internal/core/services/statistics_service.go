package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nicolasgrk/gestion-budget-ia/internal/apperrors"
	"github.com/nicolasgrk/gestion-budget-ia/internal/core/domain"
	"github.com/nicolasgrk/gestion-budget-ia/internal/core/ports"
	portssvc "github.com/nicolasgrk/gestion-budget-ia/internal/core/ports/services"
	"github.com/nicolasgrk/gestion-budget-ia/internal/dto"
	"github.com/nicolasgrk/gestion-budget-ia/internal/models"
)

var oneHundred = decimal.NewFromInt(100)

// statisticsService implements the transaction aggregator. All aggregates are
// derived on each request; nothing is cached server-side.
type statisticsService struct {
	BaseService
	transactionRepo ports.TransactionRepository
	now             func() time.Time
}

// StatisticsServiceOption is a functional option for configuring the service.
type StatisticsServiceOption func(*statisticsService)

// WithStatisticsClock overrides the clock, used by tests for stable windows.
func WithStatisticsClock(now func() time.Time) StatisticsServiceOption {
	return func(s *statisticsService) {
		s.now = now
	}
}

// NewStatisticsService creates the aggregator service.
func NewStatisticsService(transactionRepo ports.TransactionRepository, options ...StatisticsServiceOption) portssvc.StatisticsSvcFacade {
	svc := &statisticsService{
		transactionRepo: transactionRepo,
		now:             time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.StatisticsSvcFacade = (*statisticsService)(nil)

// loadWindow fetches all transactions within the period.
func (s *statisticsService) loadWindow(ctx context.Context, p domain.Period) ([]models.Transaction, error) {
	txns, err := s.transactionRepo.ListTransactions(ctx, ports.TransactionFilter{From: &p.Start, To: &p.End})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load transactions: %v", apperrors.ErrDataUnavailable, err)
	}
	return txns, nil
}

// periodStats is the one-pass reduction over a window's transactions.
func periodStats(txns []models.Transaction, days int) dto.PeriodStats {
	income := decimal.Zero
	expenses := decimal.Zero
	expenseDays := make(map[string]struct{})

	for _, txn := range txns {
		if txn.IsExpense() {
			expenses = expenses.Add(txn.Amount.Abs())
			expenseDays[txn.DateOp.Format("2006-01-02")] = struct{}{}
		} else {
			income = income.Add(txn.Amount)
		}
	}

	savings := income.Sub(expenses)
	ratio := decimal.Zero
	if !income.IsZero() {
		ratio = savings.Div(income).Mul(oneHundred).Round(2)
	}

	return dto.PeriodStats{
		Savings:             savings,
		Expenses:            expenses,
		Income:              income,
		SavingsRatio:        ratio,
		TransactionCount:    len(txns),
		DaysWithoutSpending: days - len(expenseDays),
	}
}

// percentChange computes (current-previous)/previous as a percentage.
// A zero previous-period denominator yields 0, not a division error.
func percentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(oneHundred).Round(2)
}

// savingsChange uses the absolute value of the previous savings as
// denominator. The previous savings can be negative, and dividing by the
// signed value flips the sign of the delta in a way nobody expects on a
// dashboard.
func savingsChange(current, previous decimal.Decimal) decimal.Decimal {
	denom := previous.Abs()
	if denom.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(denom).Mul(oneHundred).Round(2)
}

// MonthlyStats computes income/expense aggregates for the window and
// percentage deltas against the immediately preceding window of equal length.
func (s *statisticsService) MonthlyStats(ctx context.Context, p domain.Period) (*dto.MonthlyStatsResponse, error) {
	current, err := s.loadWindow(ctx, p)
	if err != nil {
		s.LogError(ctx, err, "Failed to load current period transactions")
		return nil, err
	}

	prev := p.Previous()
	previous, err := s.loadWindow(ctx, prev)
	if err != nil {
		s.LogError(ctx, err, "Failed to load previous period transactions")
		return nil, err
	}

	currentStats := periodStats(current, p.Days())
	previousStats := periodStats(previous, prev.Days())

	resp := &dto.MonthlyStatsResponse{
		CurrentPeriod:  currentStats,
		PreviousPeriod: previousStats,
		Changes: dto.PeriodChanges{
			SavingsChange:  savingsChange(currentStats.Savings, previousStats.Savings),
			ExpensesChange: percentChange(currentStats.Expenses, previousStats.Expenses),
			TransactionCountChange: percentChange(
				decimal.NewFromInt(int64(currentStats.TransactionCount)),
				decimal.NewFromInt(int64(previousStats.TransactionCount)),
			),
		},
	}

	s.LogInfo(ctx, "Monthly stats computed",
		slog.Time("start", p.Start),
		slog.Time("end", p.End),
		slog.Int("transaction_count", currentStats.TransactionCount))
	return resp, nil
}

// ExpenseDistribution groups the window's expenses by parent category and
// returns each group's share of the total, sorted by descending amount.
func (s *statisticsService) ExpenseDistribution(ctx context.Context, p domain.Period) ([]dto.CategoryShare, error) {
	txns, err := s.transactionRepo.ListTransactions(ctx, ports.TransactionFilter{
		From:         &p.Start,
		To:           &p.End,
		ExpensesOnly: true,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to load expenses for distribution")
		return nil, fmt.Errorf("%w: failed to load transactions: %v", apperrors.ErrDataUnavailable, err)
	}

	totals := make(map[string]decimal.Decimal)
	grandTotal := decimal.Zero
	for _, txn := range txns {
		parent := models.UncategorizedLabel
		if txn.CategoryParent != nil && *txn.CategoryParent != "" {
			parent = *txn.CategoryParent
		}
		amount := txn.Amount.Abs()
		totals[parent] = totals[parent].Add(amount)
		grandTotal = grandTotal.Add(amount)
	}

	shares := make([]dto.CategoryShare, 0, len(totals))
	for parent, amount := range totals {
		percentage := decimal.Zero
		if !grandTotal.IsZero() {
			percentage = amount.Div(grandTotal).Mul(oneHundred).Round(2)
		}
		shares = append(shares, dto.CategoryShare{
			Category:   parent,
			Amount:     amount.Round(2),
			Percentage: percentage,
		})
	}

	sort.Slice(shares, func(i, j int) bool {
		return shares[i].Amount.GreaterThan(shares[j].Amount)
	})
	return shares, nil
}

// ExpenseEvolution breaks down expenses by category over the trailing 12
// calendar months ending today, zero-filling categories absent in a month.
func (s *statisticsService) ExpenseEvolution(ctx context.Context) (*dto.ExpenseEvolutionResponse, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)

	txns, err := s.transactionRepo.ListTransactions(ctx, ports.TransactionFilter{
		From:         &start,
		To:           &now,
		ExpensesOnly: true,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to load expenses for evolution")
		return nil, fmt.Errorf("%w: failed to load transactions: %v", apperrors.ErrDataUnavailable, err)
	}

	categorySet := make(map[string]struct{})
	for _, txn := range txns {
		if txn.Category != nil && *txn.Category != "" {
			categorySet[*txn.Category] = struct{}{}
		}
	}
	categories := make([]string, 0, len(categorySet))
	for category := range categorySet {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	months := make([]string, 0, 12)
	monthly := make(map[string]map[string]decimal.Decimal, 12)
	for i := 0; i < 12; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		months = append(months, month)
		monthly[month] = make(map[string]decimal.Decimal, len(categories))
		for _, category := range categories {
			monthly[month][category] = decimal.Zero
		}
	}

	for _, txn := range txns {
		if txn.Category == nil || *txn.Category == "" {
			continue
		}
		month := txn.DateOp.Format("2006-01")
		if amounts, ok := monthly[month]; ok {
			amounts[*txn.Category] = amounts[*txn.Category].Add(txn.Amount.Abs())
		}
	}

	rows := make([]dto.ExpenseEvolutionRow, 0, len(months))
	for _, month := range months {
		amounts := make(map[string]decimal.Decimal, len(categories))
		for _, category := range categories {
			amounts[category] = monthly[month][category].Round(2)
		}
		rows = append(rows, dto.ExpenseEvolutionRow{Month: month, Amounts: amounts})
	}

	return &dto.ExpenseEvolutionResponse{Categories: categories, Rows: rows}, nil
}

// BalanceEvolution returns the month-end recorded balance of two years.
// Months without transactions carry the last known balance forward; the
// balance stays null until the first month with history.
func (s *statisticsService) BalanceEvolution(ctx context.Context, currentYear, lastYear int) (*dto.BalanceEvolutionResponse, error) {
	current, err := s.yearBalances(ctx, currentYear)
	if err != nil {
		return nil, err
	}
	last, err := s.yearBalances(ctx, lastYear)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceEvolutionResponse{
		CurrentYear: dto.YearBalances{Year: currentYear, Data: current},
		LastYear:    dto.YearBalances{Year: lastYear, Data: last},
	}, nil
}

func (s *statisticsService) yearBalances(ctx context.Context, year int) ([]dto.MonthBalance, error) {
	p := domain.Period{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local),
		End:   time.Date(year, time.December, 31, 23, 59, 59, domain.EndOfDayNanos, time.Local),
	}
	txns, err := s.loadWindow(ctx, p)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for balance evolution", slog.Int("year", year))
		return nil, err
	}

	// Transactions arrive most recent first: the first one seen for a month
	// is its chronologically last.
	lastBalance := make(map[int]*decimal.Decimal, 12)
	for _, txn := range txns {
		month := int(txn.DateOp.Month())
		if _, seen := lastBalance[month]; !seen {
			lastBalance[month] = txn.AccountBalance
		}
	}

	balances := make([]dto.MonthBalance, 0, 12)
	var carried *decimal.Decimal
	for month := 1; month <= 12; month++ {
		if balance, ok := lastBalance[month]; ok && balance != nil {
			carried = balance
		}
		balances = append(balances, dto.MonthBalance{Month: month, Balance: carried})
	}
	return balances, nil
}

// Overview reports the current month's totals and the balance carried by the
// most recent transaction.
func (s *statisticsService) Overview(ctx context.Context) (*dto.OverviewResponse, error) {
	now := s.now()
	p, err := domain.ResolvePeriod("", "", "", "", now)
	if err != nil {
		return nil, err
	}

	txns, err := s.loadWindow(ctx, p)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for overview")
		return nil, err
	}
	stats := periodStats(txns, p.Days())

	currentBalance := decimal.Zero
	latest, err := s.transactionRepo.FindLatestTransaction(ctx)
	switch {
	case err == nil:
		if latest.AccountBalance != nil {
			currentBalance = *latest.AccountBalance
		}
	case errors.Is(err, apperrors.ErrNotFound):
		// Empty store: balance stays zero.
	default:
		s.LogError(ctx, err, "Failed to load latest transaction")
		return nil, fmt.Errorf("%w: failed to load latest transaction: %v", apperrors.ErrDataUnavailable, err)
	}

	return &dto.OverviewResponse{
		TotalExpenses:  stats.Expenses,
		TotalIncome:    stats.Income,
		CurrentBalance: currentBalance,
	}, nil
}
