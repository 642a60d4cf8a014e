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
	forecastWindowMonths = 3
	forecastTemperature  = 0.5
)

// forecastService is the purchase-feasibility agent.
type forecastService struct {
	BaseService
	transactionRepo ports.TransactionRepository
	analysisRepo    ports.AnalysisRepository
	model           ports.LLMClient
	now             func() time.Time
}

// NewForecastService creates the purchase-feasibility agent.
func NewForecastService(transactionRepo ports.TransactionRepository, analysisRepo ports.AnalysisRepository, model ports.LLMClient) portssvc.ForecastSvcFacade {
	return &forecastService{
		transactionRepo: transactionRepo,
		analysisRepo:    analysisRepo,
		model:           model,
		now:             time.Now,
	}
}

var _ portssvc.ForecastSvcFacade = (*forecastService)(nil)

// AnalyzePurchase computes 3-month average income and expenses, asks the
// model whether the purchase is feasible and persists the audit record.
func (s *forecastService) AnalyzePurchase(ctx context.Context, plan dto.PurchasePlanRequest) (*dto.PurchaseFeasibility, error) {
	from := s.now().AddDate(0, -forecastWindowMonths, 0)
	txns, err := s.transactionRepo.ListTransactions(ctx, ports.TransactionFilter{From: &from})
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for purchase forecast")
		return nil, fmt.Errorf("%w: failed to load transactions: %v", apperrors.ErrDataUnavailable, err)
	}

	income := decimal.Zero
	expenses := decimal.Zero
	for _, txn := range txns {
		if txn.IsExpense() {
			expenses = expenses.Add(txn.Amount.Abs())
		} else {
			income = income.Add(txn.Amount)
		}
	}
	months := decimal.NewFromInt(forecastWindowMonths)
	monthlyIncome := income.Div(months)
	monthlyExpenses := expenses.Div(months)

	prompt := forecastPrompt(plan.ItemName, plan.TargetPrice, plan.CurrentBalance, monthlyIncome, monthlyExpenses)
	response, err := s.model.Complete(ctx, prompt, ports.CompletionOptions{
		Temperature: forecastTemperature,
		JSONMode:    true,
	})
	if err != nil {
		s.LogError(ctx, err, "Purchase forecast model call failed")
		return nil, err
	}

	cleaned := llm.CleanModelJSON(response)
	var feasibility dto.PurchaseFeasibility
	if err := json.Unmarshal([]byte(cleaned), &feasibility); err != nil {
		s.LogError(ctx, err, "Purchase forecast response is not valid JSON")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAnalysisParse, err)
	}
	if err := feasibility.Validate(); err != nil {
		s.LogError(ctx, err, "Purchase forecast response is missing required keys")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrAnalysisParse, err)
	}

	content, err := json.Marshal(map[string]any{
		"item":     plan.ItemName,
		"price":    plan.TargetPrice,
		"analysis": feasibility,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize forecast analysis: %w", err)
	}
	if err := s.analysisRepo.SaveAnalysis(ctx, models.AnalysisTypeForecast, content); err != nil {
		s.LogError(ctx, err, "Failed to persist forecast analysis")
		return nil, fmt.Errorf("%w: failed to persist analysis: %v", apperrors.ErrDataUnavailable, err)
	}

	s.LogInfo(ctx, "Purchase forecast completed",
		slog.String("item", plan.ItemName),
		slog.String("target_price", plan.TargetPrice.StringFixed(2)))
	return &feasibility, nil
}
