package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "scholarship-engine/internal/common/errors"
	commonhttp "scholarship-engine/internal/common/http"
	"scholarship-engine/internal/common/retry"
)

type GenAIConfig struct {
	BaseURL    string
	APIKey     string
	MaxRetries int
	RetryDelay time.Duration
}

// GenAIGenerator calls an internal generation gateway:
// POST {base}/api/ai/generate with {"prompt", "context", "max_tokens",
// "temperature"} answering {"text"}.
type GenAIGenerator struct {
	config GenAIConfig
	client *commonhttp.Client
}

func NewGenAIGenerator(cfg GenAIConfig) (*GenAIGenerator, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("GenAI base URL is required")
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 100 * time.Millisecond
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	// No client timeout: the caller's context bounds every attempt.
	return &GenAIGenerator{config: cfg, client: commonhttp.NewClient(0)}, nil
}

func (g *GenAIGenerator) Name() string { return "genai" }

type genAIResponse struct {
	Text string `json:"text"`
}

func (g *GenAIGenerator) Generate(ctx context.Context, d Directive) (string, error) {
	body := map[string]interface{}{
		"prompt": systemPrompt + "\n\n" + RenderPrompt(d),
		"context": map[string]interface{}{
			"scholarship": d.ScholarshipName,
			"task":        "scholarship-essay",
		},
		"max_tokens":  d.MaxTokens,
		"temperature": d.Temperature,
	}

	var lastErr error
	for attempt := 0; attempt <= g.config.MaxRetries; attempt++ {
		if err := retry.Wait(ctx, retry.Backoff(g.config.RetryDelay, attempt)); err != nil {
			return "", err
		}

		text, err := g.post(ctx, body)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var statusErr *commonhttp.StatusError
		if errors.As(err, &statusErr) && !statusErr.Temporary() {
			return "", apperrors.NewGenerationFailedError(g.Name(), err)
		}
		lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
	}

	return "", apperrors.NewGenerationFailedError(g.Name(), lastErr)
}

func (g *GenAIGenerator) post(ctx context.Context, body map[string]interface{}) (string, error) {
	headers := map[string]string{}
	if g.config.APIKey != "" {
		headers["Authorization"] = "Bearer " + g.config.APIKey
	}

	var out genAIResponse
	if err := g.client.PostJSON(ctx, g.config.BaseURL+"/api/ai/generate", headers, body, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Text), nil
}
