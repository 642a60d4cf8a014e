package services_test

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/nicolasgrk/gestion-budget-ia/internal/core/ports"
	"github.com/nicolasgrk/gestion-budget-ia/internal/models"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) SaveTransactions(ctx context.Context, txns []models.Transaction) (int, error) {
	args := m.Called(ctx, txns)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, filter ports.TransactionFilter) ([]models.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindLatestTransaction(ctx context.Context) (*models.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindUncategorized(ctx context.Context) ([]models.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, id int64, label string, category, categoryParent *string) (*models.Transaction, error) {
	args := m.Called(ctx, id, label, category, categoryParent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SetCategory(ctx context.Context, id int64, category, categoryParent string) error {
	args := m.Called(ctx, id, category, categoryParent)
	return args.Error(0)
}

func (m *MockTransactionRepository) MarkRecurring(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockTransactionRepository) SumAmountsByCategory(ctx context.Context, filter ports.TransactionFilter) ([]ports.CategorySum, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.CategorySum), args.Error(1)
}

// --- Mock CategoryRepository ---
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) UpsertCategory(ctx context.Context, category models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

// --- Mock AnalysisRepository ---
type MockAnalysisRepository struct {
	mock.Mock
}

func (m *MockAnalysisRepository) SaveAnalysis(ctx context.Context, analysisType string, content json.RawMessage) error {
	args := m.Called(ctx, analysisType, content)
	return args.Error(0)
}

// --- Mock LLMClient ---
type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Complete(ctx context.Context, prompt string, opts ports.CompletionOptions) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}
