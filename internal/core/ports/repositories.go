package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nicolasgrk/gestion-budget-ia/internal/models"
	"github.com/shopspring/decimal"
)

// TransactionFilter narrows a transaction read. Nil/zero fields are ignored.
type TransactionFilter struct {
	From         *time.Time
	To           *time.Time
	Category     *string
	ExpensesOnly bool
	IncomeOnly   bool
	Limit        int
}

// CategorySum is one grouped sum of transaction amounts.
type CategorySum struct {
	Category string
	Total    decimal.Decimal
}

// TransactionRepository defines the persistence operations for Transactions.
type TransactionRepository interface {
	// SaveTransactions inserts a batch of imported statement lines.
	SaveTransactions(ctx context.Context, txns []models.Transaction) (int, error)
	// ListTransactions returns transactions matching the filter, most recent first.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)
	// FindLatestTransaction returns the transaction with the most recent
	// operation date, or ErrNotFound when the store is empty.
	FindLatestTransaction(ctx context.Context) (*models.Transaction, error)
	// FindUncategorized returns transactions missing a category or a parent category.
	FindUncategorized(ctx context.Context) ([]models.Transaction, error)
	// UpdateTransaction updates the mutable fields of one transaction.
	UpdateTransaction(ctx context.Context, id int64, label string, category, categoryParent *string) (*models.Transaction, error)
	// SetCategory writes both category fields of one transaction.
	SetCategory(ctx context.Context, id int64, category, categoryParent string) error
	// MarkRecurring flags the given transactions as part of a recurring payment.
	MarkRecurring(ctx context.Context, ids []int64) error
	// SumAmountsByCategory returns per-category signed sums for the filter.
	SumAmountsByCategory(ctx context.Context, filter TransactionFilter) ([]CategorySum, error)
}

// CategoryRepository defines the persistence operations for the category taxonomy.
type CategoryRepository interface {
	// UpsertCategory inserts the category or overwrites its parent name.
	UpsertCategory(ctx context.Context, category models.Category) error
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// AnalysisRepository persists the append-only AI analysis audit records.
type AnalysisRepository interface {
	SaveAnalysis(ctx context.Context, analysisType string, content json.RawMessage) error
}
