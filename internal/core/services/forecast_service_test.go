package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nicolasgrk/gestion-budget-ia/internal/apperrors"
	portssvc "github.com/nicolasgrk/gestion-budget-ia/internal/core/ports/services"
	"github.com/nicolasgrk/gestion-budget-ia/internal/core/services"
	"github.com/nicolasgrk/gestion-budget-ia/internal/dto"
	"github.com/nicolasgrk/gestion-budget-ia/internal/models"
)

const validForecastJSON = `{
	"isFeasible": true,
	"recommendedDate": "2024-09-01",
	"savingRequired": 600,
	"monthlySavingTarget": 100,
	"risks": ["Dépenses imprévues"],
	"recommendations": ["Mettre 100 EUR de côté chaque mois"]
}`

type ForecastServiceTestSuite struct {
	suite.Suite
	mockTxnRepo      *MockTransactionRepository
	mockAnalysisRepo *MockAnalysisRepository
	mockModel        *MockLLMClient
	service          portssvc.ForecastSvcFacade
}

func (suite *ForecastServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAnalysisRepo = new(MockAnalysisRepository)
	suite.mockModel = new(MockLLMClient)
	suite.service = services.NewForecastService(suite.mockTxnRepo, suite.mockAnalysisRepo, suite.mockModel)
}

func purchasePlan() dto.PurchasePlanRequest {
	return dto.PurchasePlanRequest{
		ItemName:       "Vélo électrique",
		TargetPrice:    decimal.RequireFromString("1200"),
		CurrentBalance: decimal.RequireFromString("600"),
	}
}

func (suite *ForecastServiceTestSuite) TestAnalyzePurchase_Success() {
	ctx := context.Background()
	txns := []models.Transaction{
		{ID: 1, Label: "SALAIRE", Amount: decimal.RequireFromString("6000")},
		{ID: 2, Label: "LOYER", Amount: decimal.RequireFromString("-2400")},
	}

	suite.mockTxnRepo.On("ListTransactions", ctx, mock.Anything).Return(txns, nil).Once()
	suite.mockModel.On("Complete", ctx, mock.Anything, mock.Anything).Return(validForecastJSON, nil).Once()
	suite.mockAnalysisRepo.On("SaveAnalysis", ctx, models.AnalysisTypeForecast, mock.MatchedBy(func(content json.RawMessage) bool {
		var audit map[string]json.RawMessage
		if err := json.Unmarshal(content, &audit); err != nil {
			return false
		}
		_, hasItem := audit["item"]
		_, hasPrice := audit["price"]
		_, hasAnalysis := audit["analysis"]
		return hasItem && hasPrice && hasAnalysis
	})).Return(nil).Once()

	feasibility, err := suite.service.AnalyzePurchase(ctx, purchasePlan())

	suite.Require().NoError(err)
	suite.Require().NotNil(feasibility)
	suite.Require().NotNil(feasibility.IsFeasible)
	suite.True(*feasibility.IsFeasible)
	suite.Equal("2024-09-01", feasibility.RecommendedDate)
	suite.mockAnalysisRepo.AssertExpectations(suite.T())
}

func (suite *ForecastServiceTestSuite) TestAnalyzePurchase_MissingFeasibilityIsParseError() {
	ctx := context.Background()

	suite.mockTxnRepo.On("ListTransactions", ctx, mock.Anything).Return([]models.Transaction{}, nil).Once()
	suite.mockModel.On("Complete", ctx, mock.Anything, mock.Anything).
		Return(`{"recommendedDate": "2024-09-01", "risks": [], "recommendations": []}`, nil).Once()

	_, err := suite.service.AnalyzePurchase(ctx, purchasePlan())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAnalysisParse)
	suite.mockAnalysisRepo.AssertNotCalled(suite.T(), "SaveAnalysis", mock.Anything, mock.Anything, mock.Anything)
}

func TestForecastServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ForecastServiceTestSuite))
}
