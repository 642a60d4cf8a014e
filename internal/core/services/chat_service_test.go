package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nicolasgrk/gestion-budget-ia/internal/core/ports"
	portssvc "github.com/nicolasgrk/gestion-budget-ia/internal/core/ports/services"
	"github.com/nicolasgrk/gestion-budget-ia/internal/core/services"
	"github.com/nicolasgrk/gestion-budget-ia/internal/models"
)

type ChatServiceTestSuite struct {
	suite.Suite
	mockTxnRepo *MockTransactionRepository
	mockModel   *MockLLMClient
	service     portssvc.ChatSvcFacade
}

func (suite *ChatServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockModel = new(MockLLMClient)
	suite.service = services.NewChatService(suite.mockTxnRepo, suite.mockModel, 500)
}

func (suite *ChatServiceTestSuite) TestAnswer_ExpensesIntent() {
	ctx := context.Background()

	// Stage 1: classification at temperature 0 in JSON mode.
	suite.mockModel.On("Complete", ctx, mock.Anything, mock.MatchedBy(func(opts ports.CompletionOptions) bool {
		return opts.Temperature == 0 && opts.JSONMode
	})).Return(`{"type": "expenses", "timeRange": {"start": "2024-03-01", "end": "2024-03-31"}, "category": null, "limit": null, "aggregation": "sum"}`, nil).Once()

	suite.mockTxnRepo.On("ListTransactions", ctx, mock.MatchedBy(func(f ports.TransactionFilter) bool {
		return f.ExpensesOnly && f.From != nil && f.To != nil
	})).Return([]models.Transaction{
		{ID: 1, Label: "CARREFOUR", Amount: decimal.RequireFromString("-45.20")},
		{ID: 2, Label: "SNCF", Amount: decimal.RequireFromString("-30.00")},
	}, nil).Once()

	// Stage 2: the answer call embeds the aggregated total.
	suite.mockModel.On("Complete", ctx, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "total")
	}), mock.MatchedBy(func(opts ports.CompletionOptions) bool {
		return opts.Temperature == 0.7 && opts.MaxTokens == 500
	})).Return("Vous avez dépensé 75,20 EUR en mars.", nil).Once()

	answer, err := suite.service.Answer(ctx, "Combien ai-je dépensé en mars ?")

	suite.Require().NoError(err)
	suite.Equal("Vous avez dépensé 75,20 EUR en mars.", answer)
	suite.mockModel.AssertExpectations(suite.T())
}

func (suite *ChatServiceTestSuite) TestAnswer_ClassificationFailureFallsBackToGeneral() {
	ctx := context.Background()

	suite.mockModel.On("Complete", ctx, mock.Anything, mock.MatchedBy(func(opts ports.CompletionOptions) bool {
		return opts.JSONMode
	})).Return("pas du json", nil).Once()

	// General intent still fetches transactions with an empty filter.
	suite.mockTxnRepo.On("ListTransactions", ctx, mock.MatchedBy(func(f ports.TransactionFilter) bool {
		return !f.ExpensesOnly && !f.IncomeOnly && f.From == nil && f.Category == nil
	})).Return([]models.Transaction{}, nil).Once()

	suite.mockModel.On("Complete", ctx, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "general")
	}), mock.Anything).Return("Je peux vous aider avec vos finances.", nil).Once()

	answer, err := suite.service.Answer(ctx, "Bonjour ?")

	suite.Require().NoError(err)
	suite.Equal("Je peux vous aider avec vos finances.", answer)
}

func (suite *ChatServiceTestSuite) TestAnswer_CategoriesIntentUsesGroupedSums() {
	ctx := context.Background()

	suite.mockModel.On("Complete", ctx, mock.Anything, mock.MatchedBy(func(opts ports.CompletionOptions) bool {
		return opts.JSONMode
	})).Return(`{"type": "categories", "timeRange": null, "category": null, "limit": null, "aggregation": null}`, nil).Once()

	suite.mockTxnRepo.On("SumAmountsByCategory", ctx, mock.Anything).Return([]ports.CategorySum{
		{Category: "Alimentation", Total: decimal.RequireFromString("-320.50")},
	}, nil).Once()

	suite.mockModel.On("Complete", ctx, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Alimentation")
	}), mock.Anything).Return("Votre principale catégorie de dépenses est l'alimentation.", nil).Once()

	answer, err := suite.service.Answer(ctx, "Quelles sont mes catégories de dépenses ?")

	suite.Require().NoError(err)
	suite.NotEmpty(answer)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *ChatServiceTestSuite) TestAnswer_LimitIsForwarded() {
	ctx := context.Background()

	suite.mockModel.On("Complete", ctx, mock.Anything, mock.MatchedBy(func(opts ports.CompletionOptions) bool {
		return opts.JSONMode
	})).Return(`{"type": "transactions", "timeRange": null, "category": null, "limit": 5, "aggregation": null}`, nil).Once()

	suite.mockTxnRepo.On("ListTransactions", ctx, mock.MatchedBy(func(f ports.TransactionFilter) bool {
		return f.Limit == 5
	})).Return([]models.Transaction{}, nil).Once()

	suite.mockModel.On("Complete", ctx, mock.Anything, mock.MatchedBy(func(opts ports.CompletionOptions) bool {
		return opts.Temperature == 0.7
	})).Return("Voici vos dernières transactions.", nil).Once()

	_, err := suite.service.Answer(ctx, "Mes 5 dernières transactions ?")

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func TestChatServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ChatServiceTestSuite))
}
