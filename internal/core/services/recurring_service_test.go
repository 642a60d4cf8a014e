package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	portssvc "github.com/nicolasgrk/gestion-budget-ia/internal/core/ports/services"
	"github.com/nicolasgrk/gestion-budget-ia/internal/core/services"
	"github.com/nicolasgrk/gestion-budget-ia/internal/models"
)

type RecurringServiceTestSuite struct {
	suite.Suite
	mockTxnRepo      *MockTransactionRepository
	mockAnalysisRepo *MockAnalysisRepository
	mockModel        *MockLLMClient
	service          portssvc.RecurringSvcFacade
}

func (suite *RecurringServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAnalysisRepo = new(MockAnalysisRepository)
	suite.mockModel = new(MockLLMClient)
	suite.service = services.NewRecurringService(
		suite.mockTxnRepo,
		suite.mockAnalysisRepo,
		suite.mockModel,
		services.RecurringDetectionConfig{
			MinOccurrences:      2,
			MaxDistinctAmounts:  2,
			ConfidenceThreshold: 0.7,
		},
	)
}

func monthlyTxn(id int64, label, amount string, monthsAgo int) models.Transaction {
	return models.Transaction{
		ID:     id,
		DateOp: time.Now().AddDate(0, -monthsAgo, 0),
		Label:  label,
		Amount: decimal.RequireFromString(amount),
	}
}

func (suite *RecurringServiceTestSuite) TestDetect_AcceptedGroup() {
	ctx := context.Background()
	txns := []models.Transaction{
		monthlyTxn(1, "NETFLIX.COM", "-13.49", 0),
		monthlyTxn(2, "Netflix.com ", "-13.49", 1),
		monthlyTxn(3, "NETFLIX.COM", "-13.49", 2),
	}

	suite.mockTxnRepo.On("ListTransactions", ctx, mock.Anything).Return(txns, nil).Once()
	suite.mockModel.On("Complete", ctx, mock.Anything, mock.Anything).
		Return(`{"isRecurring": true, "confidence": 0.95, "frequency": "mensuel", "explanation": "Montant identique chaque mois"}`, nil).Once()
	suite.mockTxnRepo.On("MarkRecurring", ctx, []int64{1, 2, 3}).Return(nil).Once()
	suite.mockAnalysisRepo.On("SaveAnalysis", ctx, models.AnalysisTypeRecurring, mock.Anything).Return(nil).Once()

	payments, err := suite.service.DetectRecurringPayments(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(payments, 1)
	suite.Equal("netflix.com", payments[0].Label)
	suite.Equal("mensuel", payments[0].Frequency)
	suite.True(payments[0].Amount.Equal(decimal.RequireFromString("13.49")))
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAnalysisRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestDetect_ThreeDistinctAmountsNeverFlagged() {
	ctx := context.Background()
	txns := []models.Transaction{
		monthlyTxn(1, "EDF FACTURE", "-40.00", 0),
		monthlyTxn(2, "EDF FACTURE", "-55.00", 1),
		monthlyTxn(3, "EDF FACTURE", "-70.00", 2),
	}

	suite.mockTxnRepo.On("ListTransactions", ctx, mock.Anything).Return(txns, nil).Once()

	payments, err := suite.service.DetectRecurringPayments(ctx)

	suite.Require().NoError(err)
	suite.Empty(payments)
	suite.mockModel.AssertNotCalled(suite.T(), "Complete", mock.Anything, mock.Anything, mock.Anything)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "MarkRecurring", mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestDetect_LowConfidenceNeverFlagged() {
	ctx := context.Background()
	txns := []models.Transaction{
		monthlyTxn(1, "UBER EATS", "-22.00", 0),
		monthlyTxn(2, "UBER EATS", "-22.00", 1),
	}

	suite.mockTxnRepo.On("ListTransactions", ctx, mock.Anything).Return(txns, nil).Once()
	// Boundary confidence: acceptance requires strictly above the threshold.
	suite.mockModel.On("Complete", ctx, mock.Anything, mock.Anything).
		Return(`{"isRecurring": true, "confidence": 0.7, "frequency": "mensuel", "explanation": ""}`, nil).Once()

	payments, err := suite.service.DetectRecurringPayments(ctx)

	suite.Require().NoError(err)
	suite.Empty(payments)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "MarkRecurring", mock.Anything, mock.Anything)
	suite.mockAnalysisRepo.AssertNotCalled(suite.T(), "SaveAnalysis", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestDetect_SingleOccurrenceSkipped() {
	ctx := context.Background()
	txns := []models.Transaction{
		monthlyTxn(1, "FNAC PARIS", "-99.99", 0),
	}

	suite.mockTxnRepo.On("ListTransactions", ctx, mock.Anything).Return(txns, nil).Once()

	payments, err := suite.service.DetectRecurringPayments(ctx)

	suite.Require().NoError(err)
	suite.Empty(payments)
	suite.mockModel.AssertNotCalled(suite.T(), "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestDetect_MalformedVerdictSkipsGroup() {
	ctx := context.Background()
	txns := []models.Transaction{
		monthlyTxn(1, "SPOTIFY", "-9.99", 0),
		monthlyTxn(2, "SPOTIFY", "-9.99", 1),
	}

	suite.mockTxnRepo.On("ListTransactions", ctx, mock.Anything).Return(txns, nil).Once()
	suite.mockModel.On("Complete", ctx, mock.Anything, mock.Anything).
		Return("not json at all", nil).Once()

	payments, err := suite.service.DetectRecurringPayments(ctx)

	suite.Require().NoError(err)
	suite.Empty(payments)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "MarkRecurring", mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestDetect_FencedVerdictAccepted() {
	ctx := context.Background()
	txns := []models.Transaction{
		monthlyTxn(1, "BASIC FIT", "-29.99", 0),
		monthlyTxn(2, "BASIC FIT", "-29.99", 1),
	}

	suite.mockTxnRepo.On("ListTransactions", ctx, mock.Anything).Return(txns, nil).Once()
	suite.mockModel.On("Complete", ctx, mock.Anything, mock.Anything).
		Return("```json\n{\"isRecurring\": true, \"confidence\": 0.9, \"frequency\": \"mensuel\", \"explanation\": \"abonnement\"}\n```", nil).Once()
	suite.mockTxnRepo.On("MarkRecurring", ctx, []int64{1, 2}).Return(nil).Once()
	suite.mockAnalysisRepo.On("SaveAnalysis", ctx, models.AnalysisTypeRecurring, mock.Anything).Return(nil).Once()

	payments, err := suite.service.DetectRecurringPayments(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(payments, 1)
}

func TestRecurringServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecurringServiceTestSuite))
}
