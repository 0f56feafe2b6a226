package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	apperrors "scholarship-engine/internal/common/errors"
	commonhttp "scholarship-engine/internal/common/http"
	"scholarship-engine/internal/common/retry"
)

const DefaultChatModel = "gpt-4o-mini"

type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxRetries int
	RetryDelay time.Duration
}

// OpenAIGenerator drafts essays through the chat completions API.
type OpenAIGenerator struct {
	client     *openai.Client
	model      string
	maxRetries int
	retryDelay time.Duration
}

func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultChatModel
	}

	return &OpenAIGenerator{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      model,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

func (g *OpenAIGenerator) Name() string { return "openai" }

func (g *OpenAIGenerator) Generate(ctx context.Context, d Directive) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: RenderPrompt(d)},
		},
		Temperature: float32(d.Temperature),
		MaxTokens:   d.MaxTokens,
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if err := retry.Wait(ctx, retry.Backoff(g.retryDelay, attempt)); err != nil {
			return "", err
		}

		resp, err := g.client.CreateChatCompletion(ctx, req)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return "", err
			}
			if !temporaryOpenAIError(err) {
				return "", apperrors.NewGenerationFailedError(g.Name(), err)
			}
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("attempt %d: no choices returned", attempt+1)
			continue
		}

		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}

	return "", apperrors.NewGenerationFailedError(g.Name(), lastErr)
}

// temporaryOpenAIError mirrors commonhttp.StatusError.Temporary for the
// SDK's error types. Errors without a status are transport failures.
func temporaryOpenAIError(err error) bool {
	code := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		code = reqErr.HTTPStatusCode
	}
	if code == 0 {
		return true
	}
	return (&commonhttp.StatusError{StatusCode: code}).Temporary()
}
