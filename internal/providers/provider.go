package providers

import (
	"context"
	"fmt"
)

// Request contains the data sent to a model for one review.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	// RequestID is threaded through as an X-Request-ID header for
	// correlating a review with provider-side logs.
	RequestID string
}

// Streamer is the provider abstraction. Stream submits one request and
// calls emit for each text fragment in arrival order, returning once the
// model's stream ends, emit returns an error, or ctx is cancelled.
// Classified failures are *ModelError; anything else propagates as-is.
type Streamer interface {
	Stream(ctx context.Context, req Request, emit func(fragment string) error) error
	Name() string
}

// New creates a provider by name.
func New(provider, model string) (Streamer, error) {
	switch provider {
	case "anthropic":
		return NewAnthropic(model)
	case "openai":
		return NewOpenAI(model)
	case "ollama", "lmstudio":
		return NewOllama(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
