package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"pantry-chef-api/internal/config"
)

const openAIProviderName = "openai"

// maxErrorBody bounds how much of an upstream error body ends up in logs.
const maxErrorBody = 512

// OpenAIClient talks to any OpenAI-compatible chat completions API
// (Together AI, Groq, OpenRouter, DeepSeek).
type OpenAIClient struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float32
	httpClient  *http.Client
}

var _ Provider = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client from the LLM configuration.
func NewOpenAIClient(cfg *config.LLMConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	return &OpenAIClient{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Name returns the provider name.
func (c *OpenAIClient) Name() string {
	return openAIProviderName
}

// Complete sends a single non-streaming chat completion request.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (*Completion, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.temperature,
		Stream:      false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{
			Provider: openAIProviderName,
			Kind:     transportKind(err),
			Message:  "failed to send request",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		kind := kindForStatus(resp.StatusCode)
		if kind == KindUnknown {
			kind = classifyMessage(string(data))
		}
		return nil, &ProviderError{
			Provider:   openAIProviderName,
			Kind:       kind,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(data)),
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		kind := KindUnknown
		if transportKind(err) == KindTimeout {
			kind = KindTimeout
		}
		return nil, &ProviderError{
			Provider: openAIProviderName,
			Kind:     kind,
			Message:  "failed to decode response",
			Err:      err,
		}
	}

	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return nil, &ProviderError{
			Provider: openAIProviderName,
			Kind:     KindEmpty,
			Message:  "no content generated",
		}
	}

	completion := &Completion{
		Text:  parsed.Choices[0].Message.Content,
		Model: parsed.Model,
	}
	if completion.Model == "" {
		completion.Model = c.model
	}
	if parsed.Usage != nil {
		completion.Usage = &Usage{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
			TotalTokens:      parsed.Usage.TotalTokens,
		}
	}

	return completion, nil
}

// transportKind classifies errors that happened before a status code was available.
func transportKind(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindUnknown
	}
	return KindUnavailable
}
