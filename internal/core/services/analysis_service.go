package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nicolasgrk/gestion-budget-ia/internal/apperrors"
	"github.com/nicolasgrk/gestion-budget-ia/internal/core/ports"
	portssvc "github.com/nicolasgrk/gestion-budget-ia/internal/core/ports/services"
	"github.com/nicolasgrk/gestion-budget-ia/internal/dto"
	"github.com/nicolasgrk/gestion-budget-ia/internal/llm"
	"github.com/nicolasgrk/gestion-budget-ia/internal/models"
)

const (
	spendingWindowDays  = 30
	spendingTemperature = 0.5
)

// spendingAnalysisService is the 30-day spending-trend agent.
type spendingAnalysisService struct {
	BaseService
	transactionRepo ports.TransactionRepository
	analysisRepo    ports.AnalysisRepository
	model           ports.LLMClient
	now             func() time.Time
}

// NewSpendingAnalysisService creates the spending-trend agent.
func NewSpendingAnalysisService(transactionRepo ports.TransactionRepository, analysisRepo ports.AnalysisRepository, model ports.LLMClient) portssvc.SpendingAnalysisSvcFacade {
	return &spendingAnalysisService{
		transactionRepo: transactionRepo,
		analysisRepo:    analysisRepo,
		model:           model,
		now:             time.Now,
	}
}

var _ portssvc.SpendingAnalysisSvcFacade = (*spendingAnalysisService)(nil)

// AnalyzeSpending summarizes the trailing 30 days of expenses, asks the model
// for a structured analysis and persists the audit record.
func (s *spendingAnalysisService) AnalyzeSpending(ctx context.Context) (*dto.SpendingAnalysis, error) {
	from := s.now().AddDate(0, 0, -spendingWindowDays)
	txns, err := s.transactionRepo.ListTransactions(ctx, ports.TransactionFilter{From: &from})
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for spending analysis")
		return nil, fmt.Errorf("%w: failed to load transactions: %v", apperrors.ErrDataUnavailable, err)
	}

	totalSpent := decimal.Zero
	spendingByCategory := make(map[string]decimal.Decimal)
	for _, txn := range txns {
		if !txn.IsExpense() {
			continue
		}
		parent := models.UncategorizedLabel
		if txn.CategoryParent != nil && *txn.CategoryParent != "" {
			parent = *txn.CategoryParent
		}
		amount := txn.Amount.Abs()
		totalSpent = totalSpent.Add(amount)
		spendingByCategory[parent] = spendingByCategory[parent].Add(amount)
	}

	response, err := s.model.Complete(ctx, spendingAnalysisPrompt(totalSpent, spendingByCategory), ports.CompletionOptions{
		Temperature: spendingTemperature,
		JSONMode:    true,
	})
	if err != nil {
		s.LogError(ctx, err, "Spending analysis model call failed")
		return nil, err
	}

	cleaned := llm.CleanModelJSON(response)
	var analysis dto.SpendingAnalysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		s.LogError(ctx, err, "Spending analysis response is not valid JSON")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAnalysisParse, err)
	}
	if err := analysis.Validate(); err != nil {
		s.LogError(ctx, err, "Spending analysis response is missing required keys")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAnalysisParse, err)
	}

	if err := s.analysisRepo.SaveAnalysis(ctx, models.AnalysisTypeSpending, json.RawMessage(cleaned)); err != nil {
		s.LogError(ctx, err, "Failed to persist spending analysis")
		return nil, fmt.Errorf("%w: failed to persist analysis: %v", apperrors.ErrDataUnavailable, err)
	}

	s.LogInfo(ctx, "Spending analysis completed",
		slog.String("total_spent", totalSpent.StringFixed(2)),
		slog.Int("categories", len(spendingByCategory)))
	return &analysis, nil
}
