package llm

import (
	"context"

	"pantry-chef-api/internal/config"
)

// Usage reports the tokens consumed by one completion.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Completion is the raw text returned by a provider together with its metadata.
type Completion struct {
	Text  string
	Model string
	Usage *Usage
}

// Provider sends one system instruction and one user message to a completion model.
// Implementations make exactly one attempt per call.
type Provider interface {
	Complete(ctx context.Context, system, user string) (*Completion, error)
	Name() string
}

// Closer is implemented by providers that hold long-lived connections.
type Closer interface {
	Close() error
}

// New builds the provider selected in the configuration. It returns ErrNotConfigured
// when the credential for that provider is missing.
func New(ctx context.Context, cfg *config.LLMConfig) (Provider, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}

	if cfg.Provider == geminiProviderName {
		client, err := NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	client, err := NewOpenAIClient(cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}
