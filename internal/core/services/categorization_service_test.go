package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nicolasgrk/gestion-budget-ia/internal/apperrors"
	portssvc "github.com/nicolasgrk/gestion-budget-ia/internal/core/ports/services"
	"github.com/nicolasgrk/gestion-budget-ia/internal/core/services"
	"github.com/nicolasgrk/gestion-budget-ia/internal/models"
)

type CategorizationServiceTestSuite struct {
	suite.Suite
	mockTxnRepo      *MockTransactionRepository
	mockCategoryRepo *MockCategoryRepository
	mockModel        *MockLLMClient
	service          portssvc.CategorizationSvcFacade
}

func (suite *CategorizationServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.mockModel = new(MockLLMClient)
	suite.service = services.NewCategorizationService(suite.mockTxnRepo, suite.mockCategoryRepo, suite.mockModel)
}

func uncategorized(id int64, label string) models.Transaction {
	return models.Transaction{
		ID:     id,
		Label:  label,
		Amount: decimal.RequireFromString("-10"),
	}
}

func (suite *CategorizationServiceTestSuite) TestCategorizeAll_Success() {
	ctx := context.Background()
	txns := []models.Transaction{uncategorized(1, "CARREFOUR PARIS")}

	suite.mockTxnRepo.On("FindUncategorized", ctx).Return(txns, nil).Once()
	suite.mockModel.On("Complete", ctx, mock.Anything, mock.Anything).
		Return("Alimentation | Supermarché", nil).Once()
	suite.mockTxnRepo.On("SetCategory", ctx, int64(1), "Supermarché", "Alimentation").Return(nil).Once()
	suite.mockCategoryRepo.On("UpsertCategory", ctx, models.Category{
		Name:       "Supermarché",
		ParentName: "Alimentation",
	}).Return(nil).Once()

	count, err := suite.service.CategorizeAll(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, count)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockCategoryRepo.AssertExpectations(suite.T())
}

func (suite *CategorizationServiceTestSuite) TestCategorizeAll_MalformedResponseSkips() {
	ctx := context.Background()
	txns := []models.Transaction{
		uncategorized(1, "CARREFOUR PARIS"),
		uncategorized(2, "MYSTERY SHOP"),
	}

	suite.mockTxnRepo.On("FindUncategorized", ctx).Return(txns, nil).Once()
	// No pipe, then a pipe with an empty side: both skipped, nothing written.
	suite.mockModel.On("Complete", ctx, mock.Anything, mock.Anything).Return("Alimentation", nil).Once()
	suite.mockModel.On("Complete", ctx, mock.Anything, mock.Anything).Return("Achats | ", nil).Once()

	count, err := suite.service.CategorizeAll(ctx)

	suite.Require().NoError(err)
	suite.Equal(0, count)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SetCategory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockCategoryRepo.AssertNotCalled(suite.T(), "UpsertCategory", mock.Anything, mock.Anything)
}

func (suite *CategorizationServiceTestSuite) TestCategorizeAll_ModelFailureSkipsTransaction() {
	ctx := context.Background()
	txns := []models.Transaction{
		uncategorized(1, "CARREFOUR PARIS"),
		uncategorized(2, "SNCF BILLET"),
	}

	suite.mockTxnRepo.On("FindUncategorized", ctx).Return(txns, nil).Once()
	suite.mockModel.On("Complete", ctx, mock.Anything, mock.Anything).
		Return("", errors.New("model unavailable")).Once()
	suite.mockModel.On("Complete", ctx, mock.Anything, mock.Anything).
		Return("Transport | Train", nil).Once()
	suite.mockTxnRepo.On("SetCategory", ctx, int64(2), "Train", "Transport").Return(nil).Once()
	suite.mockCategoryRepo.On("UpsertCategory", ctx, mock.Anything).Return(nil).Once()

	count, err := suite.service.CategorizeAll(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, count)
}

func (suite *CategorizationServiceTestSuite) TestCategorizeAll_WriteFailureNotCounted() {
	ctx := context.Background()
	txns := []models.Transaction{uncategorized(1, "CARREFOUR PARIS")}

	suite.mockTxnRepo.On("FindUncategorized", ctx).Return(txns, nil).Once()
	suite.mockModel.On("Complete", ctx, mock.Anything, mock.Anything).
		Return("Alimentation | Supermarché", nil).Once()
	suite.mockTxnRepo.On("SetCategory", ctx, int64(1), "Supermarché", "Alimentation").
		Return(errors.New("db down")).Once()

	count, err := suite.service.CategorizeAll(ctx)

	suite.Require().NoError(err)
	suite.Equal(0, count)
	suite.mockCategoryRepo.AssertNotCalled(suite.T(), "UpsertCategory", mock.Anything, mock.Anything)
}

func (suite *CategorizationServiceTestSuite) TestCategorizeAll_NoCandidates() {
	ctx := context.Background()

	suite.mockTxnRepo.On("FindUncategorized", ctx).Return([]models.Transaction{}, nil).Once()

	count, err := suite.service.CategorizeAll(ctx)

	suite.Require().NoError(err)
	suite.Equal(0, count)
	suite.mockModel.AssertNotCalled(suite.T(), "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CategorizationServiceTestSuite) TestCategorizeAll_RepoFailure() {
	ctx := context.Background()

	suite.mockTxnRepo.On("FindUncategorized", ctx).Return(nil, errors.New("db down")).Once()

	_, err := suite.service.CategorizeAll(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDataUnavailable)
}

func TestCategorizationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CategorizationServiceTestSuite))
}
