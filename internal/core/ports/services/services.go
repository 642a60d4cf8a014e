package services

import (
	"context"
	"io"

	"github.com/nicolasgrk/gestion-budget-ia/internal/core/domain"
	"github.com/nicolasgrk/gestion-budget-ia/internal/dto"
	"github.com/nicolasgrk/gestion-budget-ia/internal/models"
)

// StatisticsSvcFacade exposes the transaction aggregator to the handlers.
type StatisticsSvcFacade interface {
	MonthlyStats(ctx context.Context, p domain.Period) (*dto.MonthlyStatsResponse, error)
	ExpenseDistribution(ctx context.Context, p domain.Period) ([]dto.CategoryShare, error)
	ExpenseEvolution(ctx context.Context) (*dto.ExpenseEvolutionResponse, error)
	BalanceEvolution(ctx context.Context, currentYear, lastYear int) (*dto.BalanceEvolutionResponse, error)
	Overview(ctx context.Context) (*dto.OverviewResponse, error)
}

// TransactionSvcFacade exposes transaction listing, edition and CSV import.
type TransactionSvcFacade interface {
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, req dto.UpdateTransactionRequest) (*models.Transaction, error)
	ImportCSV(ctx context.Context, file io.Reader) (*dto.UploadResponse, error)
}

// CategorySvcFacade exposes the category taxonomy.
type CategorySvcFacade interface {
	ListCategoryGroups(ctx context.Context) ([]dto.CategoryGroup, error)
}

// CategorizationSvcFacade runs the LLM categorization pipeline over
// uncategorized transactions and reports how many were written.
type CategorizationSvcFacade interface {
	CategorizeAll(ctx context.Context) (int, error)
}

// SpendingAnalysisSvcFacade runs the 30-day spending-trend agent.
type SpendingAnalysisSvcFacade interface {
	AnalyzeSpending(ctx context.Context) (*dto.SpendingAnalysis, error)
}

// RecurringSvcFacade runs the recurring-payment detection agent.
type RecurringSvcFacade interface {
	DetectRecurringPayments(ctx context.Context) ([]dto.RecurringPayment, error)
}

// ForecastSvcFacade runs the purchase-feasibility agent.
type ForecastSvcFacade interface {
	AnalyzePurchase(ctx context.Context, plan dto.PurchasePlanRequest) (*dto.PurchaseFeasibility, error)
}

// ChatSvcFacade answers one free-text budget question. Each call is
// independent; no conversation state is kept server-side.
type ChatSvcFacade interface {
	Answer(ctx context.Context, message string) (string, error)
}

// ServiceContainer bundles every service facade handed to the router.
type ServiceContainer struct {
	Statistics     StatisticsSvcFacade
	Transaction    TransactionSvcFacade
	Category       CategorySvcFacade
	Categorization CategorizationSvcFacade
	Spending       SpendingAnalysisSvcFacade
	Recurring      RecurringSvcFacade
	Forecast       ForecastSvcFacade
	Chat           ChatSvcFacade
}
