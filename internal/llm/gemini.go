package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pantry-chef-api/internal/config"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiProviderName = "gemini"

// GeminiClient is a Provider backed by the Google Gemini API.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

var (
	_ Provider = (*GeminiClient)(nil)
	_ Closer   = (*GeminiClient)(nil)
)

// NewGeminiClient creates a new Gemini API client.
func NewGeminiClient(ctx context.Context, cfg *config.LLMConfig) (*GeminiClient, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		model:       cfg.GeminiModel,
		temperature: cfg.Temperature,
	}, nil
}

// Name returns the provider name.
func (c *GeminiClient) Name() string {
	return geminiProviderName
}

// Complete generates one completion. The model handle is built per call so the system
// instruction never leaks between requests.
func (c *GeminiClient) Complete(ctx context.Context, system, user string) (*Completion, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(c.temperature)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		kind := KindOf(err)
		if errors.Is(err, context.Canceled) {
			kind = KindUnknown
		}
		return nil, &ProviderError{
			Provider: geminiProviderName,
			Kind:     kind,
			Message:  "failed to generate content",
			Err:      err,
		}
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return nil, &ProviderError{
			Provider: geminiProviderName,
			Kind:     KindEmpty,
			Message:  "no content generated",
		}
	}

	completion := &Completion{
		Text:  text,
		Model: c.model,
	}
	if u := resp.UsageMetadata; u != nil {
		completion.Usage = &Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}

	return completion, nil
}

// Close closes the underlying Gemini client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
