package ports

import "context"

// CompletionOptions tunes one language-model round trip.
type CompletionOptions struct {
	// Temperature of the sampling; agents use low values for
	// deterministic-leaning output.
	Temperature float32
	// MaxTokens caps the response length; 0 means the provider default.
	MaxTokens int
	// JSONMode requests a provider-enforced JSON object response.
	JSONMode bool
}

// LLMClient is the single prompt-and-parse surface of the hosted
// language-model service. Implementations do not retry: a failure or a
// malformed response is surfaced to the caller immediately.
type LLMClient interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
}
