package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/nicolasgrk/gestion-budget-ia/internal/apperrors"
	"github.com/nicolasgrk/gestion-budget-ia/internal/core/ports"
	portssvc "github.com/nicolasgrk/gestion-budget-ia/internal/core/ports/services"
	"github.com/nicolasgrk/gestion-budget-ia/internal/dto"
	"github.com/nicolasgrk/gestion-budget-ia/internal/models"
)

// transactionService implements transaction listing, edition and CSV import.
type transactionService struct {
	BaseService
	transactionRepo ports.TransactionRepository
	categorization  portssvc.CategorizationSvcFacade
}

// NewTransactionService creates the transaction service. The categorization
// facade is invoked synchronously after every CSV import.
func NewTransactionService(transactionRepo ports.TransactionRepository, categorization portssvc.CategorizationSvcFacade) portssvc.TransactionSvcFacade {
	return &transactionService{
		transactionRepo: transactionRepo,
		categorization:  categorization,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	txns, err := s.transactionRepo.ListTransactions(ctx, ports.TransactionFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, fmt.Errorf("%w: failed to list transactions: %v", apperrors.ErrDataUnavailable, err)
	}
	return txns, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, id int64, req dto.UpdateTransactionRequest) (*models.Transaction, error) {
	txn, err := s.transactionRepo.UpdateTransaction(ctx, id, req.Label, req.Category, req.CategoryParent)
	if err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.Int64("transaction_id", id))
		return nil, err
	}
	s.LogInfo(ctx, "Transaction updated", slog.Int64("transaction_id", id))
	return txn, nil
}

// ImportCSV parses a bank statement export, persists every line and then runs
// the categorization pipeline over the store. A categorization failure does
// not fail the import; the response reports it instead.
func (s *transactionService) ImportCSV(ctx context.Context, file io.Reader) (*dto.UploadResponse, error) {
	txns, err := parseStatementCSV(file)
	if err != nil {
		s.LogWarn(ctx, "Rejected CSV upload", slog.String("error", err.Error()))
		return nil, err
	}
	if len(txns) == 0 {
		return nil, fmt.Errorf("%w: aucune transaction dans le fichier", apperrors.ErrValidation)
	}

	count, err := s.transactionRepo.SaveTransactions(ctx, txns)
	if err != nil {
		s.LogError(ctx, err, "Failed to save imported transactions")
		return nil, fmt.Errorf("%w: failed to save transactions: %v", apperrors.ErrDataUnavailable, err)
	}
	s.LogInfo(ctx, "Imported transactions from CSV", slog.Int("count", count))

	categorization := "Transactions catégorisées avec succès"
	if _, err := s.categorization.CategorizeAll(ctx); err != nil {
		s.LogError(ctx, err, "Post-import categorization failed")
		categorization = "Erreur lors de la catégorisation"
	}

	return &dto.UploadResponse{
		Success:        true,
		Count:          count,
		Categorization: categorization,
	}, nil
}
