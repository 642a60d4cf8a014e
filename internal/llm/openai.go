// Package llm wraps the hosted language-model service behind the
// ports.LLMClient interface so agent services stay testable.
package llm

import (
	"context"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nicolasgrk/gestion-budget-ia/internal/apperrors"
	"github.com/nicolasgrk/gestion-budget-ia/internal/core/ports"
)

// OpenAIClient implements ports.LLMClient on top of the OpenAI
// chat-completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a client bound to one model.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

var _ ports.LLMClient = (*OpenAIClient)(nil)

// Complete sends a single user prompt and returns the raw text of the first
// choice. No retries: a transport failure is surfaced as ErrExternalService.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string, opts ports.CompletionOptions) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: requestTemperature(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	if opts.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", apperrors.ErrExternalService, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", apperrors.ErrExternalService)
	}
	return resp.Choices[0].Message.Content, nil
}

// requestTemperature maps an exact zero to the smallest positive float32.
// The request struct tags Temperature with omitempty, so a literal 0 would be
// dropped from the payload and the API would fall back to its default.
func requestTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}
