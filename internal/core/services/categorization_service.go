package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicolasgrk/gestion-budget-ia/internal/apperrors"
	"github.com/nicolasgrk/gestion-budget-ia/internal/core/ports"
	portssvc "github.com/nicolasgrk/gestion-budget-ia/internal/core/ports/services"
	"github.com/nicolasgrk/gestion-budget-ia/internal/models"
)

const categorizationTemperature = 0.3

// categorizationService assigns a parent/sub category pair to every
// transaction that is missing one, one model round trip per transaction.
type categorizationService struct {
	BaseService
	transactionRepo ports.TransactionRepository
	categoryRepo    ports.CategoryRepository
	model           ports.LLMClient
}

// NewCategorizationService creates the categorization pipeline.
func NewCategorizationService(transactionRepo ports.TransactionRepository, categoryRepo ports.CategoryRepository, model ports.LLMClient) portssvc.CategorizationSvcFacade {
	return &categorizationService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		model:           model,
	}
}

var _ portssvc.CategorizationSvcFacade = (*categorizationService)(nil)

// parseCategoryPair splits a "parent | sub" model response on the first pipe.
// Both sides must be non-empty after trimming.
func parseCategoryPair(response string) (parent, sub string, ok bool) {
	left, right, found := strings.Cut(response, "|")
	if !found {
		return "", "", false
	}
	parent = strings.TrimSpace(left)
	sub = strings.TrimSpace(right)
	if parent == "" || sub == "" {
		return "", "", false
	}
	return parent, sub, true
}

// CategorizeAll processes every uncategorized transaction in sequence.
// A malformed response or a per-item failure skips that transaction and
// never aborts the batch. Returns the number of transactions written.
func (s *categorizationService) CategorizeAll(ctx context.Context) (int, error) {
	txns, err := s.transactionRepo.FindUncategorized(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load uncategorized transactions")
		return 0, fmt.Errorf("%w: failed to load uncategorized transactions: %v", apperrors.ErrDataUnavailable, err)
	}
	if len(txns) == 0 {
		return 0, nil
	}

	categorized := 0
	for _, txn := range txns {
		response, err := s.model.Complete(ctx, categorizationPrompt(txn.Label), ports.CompletionOptions{
			Temperature: categorizationTemperature,
		})
		if err != nil {
			s.LogWarn(ctx, "Categorization model call failed, skipping transaction",
				slog.Int64("transaction_id", txn.ID), slog.String("error", err.Error()))
			continue
		}

		parent, sub, ok := parseCategoryPair(strings.TrimSpace(response))
		if !ok {
			s.LogWarn(ctx, "Malformed categorization response, skipping transaction",
				slog.Int64("transaction_id", txn.ID), slog.String("response", response))
			continue
		}

		if err := s.transactionRepo.SetCategory(ctx, txn.ID, sub, parent); err != nil {
			s.LogError(ctx, err, "Failed to write category", slog.Int64("transaction_id", txn.ID))
			continue
		}
		categorized++

		if err := s.categoryRepo.UpsertCategory(ctx, models.Category{Name: sub, ParentName: parent}); err != nil {
			s.LogError(ctx, err, "Failed to upsert category taxonomy entry",
				slog.String("category", sub), slog.String("parent", parent))
		}
	}

	s.LogInfo(ctx, "Categorization pipeline finished",
		slog.Int("candidates", len(txns)), slog.Int("categorized", categorized))
	return categorized, nil
}
