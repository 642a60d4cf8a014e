package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/nicolasgrk/gestion-budget-ia/internal/apperrors"
	"github.com/nicolasgrk/gestion-budget-ia/internal/core/ports"
	portssvc "github.com/nicolasgrk/gestion-budget-ia/internal/core/ports/services"
	"github.com/nicolasgrk/gestion-budget-ia/internal/dto"
	"github.com/nicolasgrk/gestion-budget-ia/internal/llm"
	"github.com/nicolasgrk/gestion-budget-ia/internal/models"
)

const (
	recurringWindowMonths = 3
	recurringTemperature  = 0.3
)

// RecurringDetectionConfig holds the tunable heuristics of the detector.
// The defaults mirror observed behavior, not a derivation: at least two
// occurrences, at most two distinct amounts, model confidence above 0.7.
type RecurringDetectionConfig struct {
	MinOccurrences      int
	MaxDistinctAmounts  int
	ConfidenceThreshold float64
}

// recurringService is the recurring-payment detection agent.
type recurringService struct {
	BaseService
	transactionRepo ports.TransactionRepository
	analysisRepo    ports.AnalysisRepository
	model           ports.LLMClient
	config          RecurringDetectionConfig
	now             func() time.Time
}

// NewRecurringService creates the recurring-payment agent.
func NewRecurringService(transactionRepo ports.TransactionRepository, analysisRepo ports.AnalysisRepository, model ports.LLMClient, config RecurringDetectionConfig) portssvc.RecurringSvcFacade {
	if config.MinOccurrences < 2 {
		config.MinOccurrences = 2
	}
	if config.MaxDistinctAmounts < 1 {
		config.MaxDistinctAmounts = 2
	}
	if config.ConfidenceThreshold <= 0 || config.ConfidenceThreshold >= 1 {
		config.ConfidenceThreshold = 0.7
	}
	return &recurringService{
		transactionRepo: transactionRepo,
		analysisRepo:    analysisRepo,
		model:           model,
		config:          config,
		now:             time.Now,
	}
}

var _ portssvc.RecurringSvcFacade = (*recurringService)(nil)

// DetectRecurringPayments groups the trailing 3 months of transactions by
// normalized label, asks the model to judge each candidate group, and flags
// the accepted ones.
func (s *recurringService) DetectRecurringPayments(ctx context.Context) ([]dto.RecurringPayment, error) {
	from := s.now().AddDate(0, -recurringWindowMonths, 0)
	txns, err := s.transactionRepo.ListTransactions(ctx, ports.TransactionFilter{From: &from})
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for recurring detection")
		return nil, fmt.Errorf("%w: failed to load transactions: %v", apperrors.ErrDataUnavailable, err)
	}

	groups := make(map[string][]models.Transaction)
	for _, txn := range txns {
		key := strings.ToLower(strings.TrimSpace(txn.Label))
		groups[key] = append(groups[key], txn)
	}

	// Stable iteration order keeps logs and audit records reproducible.
	labels := make([]string, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	recurringPayments := make([]dto.RecurringPayment, 0)
	for _, label := range labels {
		group := groups[label]
		if len(group) < s.config.MinOccurrences {
			continue
		}

		distinctAmounts := make(map[string]struct{}, len(group))
		amounts := make([]string, 0, len(group))
		dates := make([]string, 0, len(group))
		ids := make([]int64, 0, len(group))
		for _, txn := range group {
			distinctAmounts[txn.Amount.String()] = struct{}{}
			amounts = append(amounts, txn.Amount.StringFixed(2))
			dates = append(dates, txn.DateOp.Format("2006-01-02"))
			ids = append(ids, txn.ID)
		}
		// Tolerate minor amount variance, but three distinct amounts is not a
		// recurring payment.
		if len(distinctAmounts) > s.config.MaxDistinctAmounts {
			continue
		}

		response, err := s.model.Complete(ctx, recurringPrompt(label, amounts, dates), ports.CompletionOptions{
			Temperature: recurringTemperature,
		})
		if err != nil {
			s.LogWarn(ctx, "Recurring detection model call failed, skipping group",
				slog.String("label", label), slog.String("error", err.Error()))
			continue
		}

		var verdict dto.RecurringVerdict
		if err := json.Unmarshal([]byte(llm.CleanModelJSON(response)), &verdict); err != nil {
			s.LogWarn(ctx, "Malformed recurring verdict, skipping group",
				slog.String("label", label), slog.String("error", err.Error()))
			continue
		}
		if err := verdict.Validate(); err != nil {
			s.LogWarn(ctx, "Invalid recurring verdict, skipping group",
				slog.String("label", label), slog.String("error", err.Error()))
			continue
		}

		if !verdict.IsRecurring || verdict.Confidence <= s.config.ConfidenceThreshold {
			continue
		}

		if err := s.transactionRepo.MarkRecurring(ctx, ids); err != nil {
			s.LogError(ctx, err, "Failed to flag recurring transactions", slog.String("label", label))
			continue
		}

		recurringPayments = append(recurringPayments, dto.RecurringPayment{
			Label:       label,
			Frequency:   verdict.Frequency,
			Amount:      group[0].Amount.Abs(),
			Explanation: verdict.Explanation,
		})
	}

	if len(recurringPayments) > 0 {
		content, err := json.Marshal(recurringPayments)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize recurring payments: %w", err)
		}
		if err := s.analysisRepo.SaveAnalysis(ctx, models.AnalysisTypeRecurring, content); err != nil {
			s.LogError(ctx, err, "Failed to persist recurring analysis")
			return nil, fmt.Errorf("%w: failed to persist analysis: %v", apperrors.ErrDataUnavailable, err)
		}
	}

	s.LogInfo(ctx, "Recurring detection finished",
		slog.Int("groups", len(groups)), slog.Int("recurring", len(recurringPayments)))
	return recurringPayments, nil
}
