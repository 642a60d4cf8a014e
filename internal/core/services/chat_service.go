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
	"github.com/nicolasgrk/gestion-budget-ia/internal/llm"
)

const (
	chatAnswerTemperature = 0.7
	defaultChatMaxTokens  = 500

	chatQueryTypeGeneral    = "general"
	chatQueryTypeExpenses   = "expenses"
	chatQueryTypeIncome     = "income"
	chatQueryTypeCategories = "categories"
)

// timeRange is the model-supplied date window of a classified question.
type timeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// queryAnalysis is the model's structured interpretation of a chat question.
// It only lives for the duration of one request.
type queryAnalysis struct {
	TimeRange   *timeRange `json:"timeRange"`
	Type        string     `json:"type"`
	Category    *string    `json:"category"`
	Limit       *int       `json:"limit"`
	Aggregation *string    `json:"aggregation"`
}

// chatTransaction is the reduced projection embedded in the answer prompt.
type chatTransaction struct {
	Label    string          `json:"label"`
	Amount   decimal.Decimal `json:"amount"`
	DateOp   time.Time       `json:"dateOp"`
	Category *string         `json:"category"`
}

// chatService answers free-text budget questions in two model round trips:
// classify the question into a typed intent, then answer over fetched data.
type chatService struct {
	BaseService
	transactionRepo ports.TransactionRepository
	model           ports.LLMClient
	maxTokens       int
}

// NewChatService creates the chat query agent. maxTokens caps the length of
// the natural-language answer.
func NewChatService(transactionRepo ports.TransactionRepository, model ports.LLMClient, maxTokens int) portssvc.ChatSvcFacade {
	if maxTokens <= 0 {
		maxTokens = defaultChatMaxTokens
	}
	return &chatService{
		transactionRepo: transactionRepo,
		model:           model,
		maxTokens:       maxTokens,
	}
}

var _ portssvc.ChatSvcFacade = (*chatService)(nil)

// classifyQuestion asks the model for a structured intent. A parse failure
// falls back to the general intent instead of failing the request.
func (s *chatService) classifyQuestion(ctx context.Context, question string) queryAnalysis {
	response, err := s.model.Complete(ctx, chatClassifyPrompt(question), ports.CompletionOptions{
		Temperature: 0,
		JSONMode:    true,
	})
	if err != nil {
		s.LogWarn(ctx, "Question classification failed, falling back to general intent",
			slog.String("error", err.Error()))
		return queryAnalysis{Type: chatQueryTypeGeneral}
	}

	var analysis queryAnalysis
	if err := json.Unmarshal([]byte(llm.CleanModelJSON(response)), &analysis); err != nil {
		s.LogWarn(ctx, "Malformed classification response, falling back to general intent",
			slog.String("error", err.Error()))
		return queryAnalysis{Type: chatQueryTypeGeneral}
	}
	if analysis.Type == "" {
		analysis.Type = chatQueryTypeGeneral
	}
	return analysis
}

// toFilter maps the intent to a concrete transaction fetch specification.
func (s *chatService) toFilter(ctx context.Context, analysis queryAnalysis) ports.TransactionFilter {
	filter := ports.TransactionFilter{
		Category:     analysis.Category,
		ExpensesOnly: analysis.Type == chatQueryTypeExpenses,
		IncomeOnly:   analysis.Type == chatQueryTypeIncome,
	}
	if analysis.TimeRange != nil {
		if from, err := time.Parse("2006-01-02", analysis.TimeRange.Start); err == nil {
			filter.From = &from
		} else {
			s.LogWarn(ctx, "Ignoring unparseable time range start", slog.String("start", analysis.TimeRange.Start))
		}
		if to, err := time.Parse("2006-01-02", analysis.TimeRange.End); err == nil {
			filter.To = &to
		} else {
			s.LogWarn(ctx, "Ignoring unparseable time range end", slog.String("end", analysis.TimeRange.End))
		}
	}
	if analysis.Limit != nil && *analysis.Limit > 0 {
		filter.Limit = *analysis.Limit
	}
	return filter
}

// fetchRelevantData executes the intent against the transaction store and
// returns a JSON document to embed in the answer prompt.
func (s *chatService) fetchRelevantData(ctx context.Context, analysis queryAnalysis) (string, error) {
	filter := s.toFilter(ctx, analysis)

	if analysis.Type == chatQueryTypeCategories {
		sums, err := s.transactionRepo.SumAmountsByCategory(ctx, filter)
		if err != nil {
			return "", fmt.Errorf("%w: failed to group by category: %v", apperrors.ErrDataUnavailable, err)
		}
		return marshalChatData(sums)
	}

	txns, err := s.transactionRepo.ListTransactions(ctx, filter)
	if err != nil {
		return "", fmt.Errorf("%w: failed to load transactions: %v", apperrors.ErrDataUnavailable, err)
	}

	if analysis.Aggregation != nil {
		total := decimal.Zero
		for _, txn := range txns {
			total = total.Add(txn.Amount)
		}
		switch *analysis.Aggregation {
		case "sum":
			return marshalChatData(map[string]decimal.Decimal{"total": total})
		case "average":
			average := decimal.Zero
			if len(txns) > 0 {
				average = total.Div(decimal.NewFromInt(int64(len(txns)))).Round(2)
			}
			return marshalChatData(map[string]decimal.Decimal{"average": average})
		case "count":
			return marshalChatData(map[string]int{"count": len(txns)})
		}
	}

	projected := make([]chatTransaction, 0, len(txns))
	for _, txn := range txns {
		projected = append(projected, chatTransaction{
			Label:    txn.Label,
			Amount:   txn.Amount,
			DateOp:   txn.DateOp,
			Category: txn.Category,
		})
	}
	return marshalChatData(projected)
}

func marshalChatData(data any) (string, error) {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize chat data: %w", err)
	}
	return string(raw), nil
}

// Answer handles one chat request end to end. No conversation state is kept
// server-side; each request is independent.
func (s *chatService) Answer(ctx context.Context, message string) (string, error) {
	analysis := s.classifyQuestion(ctx, message)

	data, err := s.fetchRelevantData(ctx, analysis)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch data for chat question", slog.String("type", analysis.Type))
		return "", err
	}

	answer, err := s.model.Complete(ctx, chatAnswerPrompt(message, data, analysis), ports.CompletionOptions{
		Temperature: chatAnswerTemperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		s.LogError(ctx, err, "Chat answer model call failed")
		return "", err
	}

	s.LogInfo(ctx, "Chat question answered", slog.String("type", analysis.Type))
	return answer, nil
}
