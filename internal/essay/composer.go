// Package essay drafts the final essay for a chosen strategy.
package essay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "scholarship-engine/internal/common/errors"
	"scholarship-engine/internal/common/logger"
	"scholarship-engine/internal/common/metrics"
	"scholarship-engine/internal/generation"
	"scholarship-engine/internal/models"
	"scholarship-engine/internal/strategy"
)

const DefaultTimeout = 90 * time.Second

// Config bounds a single generation call.
type Config struct {
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// Composer turns a selection into an EssayResult with exactly one call to
// the generator. It does not retry and never calls the selector.
type Composer struct {
	generator generation.Generator
	config    Config
	logger    logger.Logger
}

func NewComposer(gen generation.Generator, cfg Config, log logger.Logger) *Composer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Composer{
		generator: gen,
		config:    cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "essay-composer", "provider": gen.Name()}),
	}
}

type outcome struct {
	text string
	err  error
}

// Compose drafts the essay. A call still running when the timeout fires is
// abandoned and reported as GENERATION_TIMEOUT; a call abandoned because ctx
// was cancelled is reported as INTERNAL.
func (c *Composer) Compose(ctx context.Context, sel *strategy.Selection, scholarshipText string, profile *models.Profile, scholarshipName string) (*models.EssayResult, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(scholarshipText) == "" {
		return nil, apperrors.NewInvalidRequestError("scholarship description is required")
	}

	directive := generation.NewDirective(sel.Selected, scholarshipName, scholarshipText, profile)
	directive.MaxTokens = c.config.MaxTokens
	directive.Temperature = c.config.Temperature

	callCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		text, err := c.generator.Generate(callCtx, directive)
		done <- outcome{text: text, err: err}
	}()

	var res outcome
	select {
	case res = <-done:
	case <-callCtx.Done():
		return nil, c.interrupted(start, callCtx.Err())
	}

	if res.err != nil {
		if errors.Is(res.err, context.DeadlineExceeded) || errors.Is(res.err, context.Canceled) {
			return nil, c.interrupted(start, res.err)
		}
		c.observe(start, "error")
		c.logger.Warn("generation failed", map[string]interface{}{"error": res.err.Error()})
		var stdErr *apperrors.StandardError
		if errors.As(res.err, &stdErr) {
			return nil, stdErr
		}
		return nil, apperrors.NewGenerationFailedError(c.generator.Name(), res.err)
	}

	text := Normalize(res.text)
	if text == "" {
		c.observe(start, "empty")
		return nil, apperrors.NewGenerationEmptyError("provider returned no text")
	}
	if !strings.Contains(text, "\n\n") {
		c.observe(start, "empty")
		return nil, apperrors.NewGenerationEmptyError("provider returned a single block with no paragraph breaks")
	}
	c.observe(start, "success")

	c.logger.Info("essay composed", map[string]interface{}{
		"clusterName": sel.Selected.ClusterName,
		"words":       len(strings.Fields(text)),
		"duration":    time.Since(start).String(),
	})

	return &models.EssayResult{
		Essay:            text,
		SelectedStrategy: sel.Selected,
		MatchingClusters: append([]string(nil), sel.MatchingClusters...),
		ScholarshipName:  scholarshipName,
	}, nil
}

// interrupted classifies a call stopped by its context. Only the composer's
// own deadline is a GENERATION_TIMEOUT; a cancelled caller is not retryable
// and is not counted as a timeout.
func (c *Composer) interrupted(start time.Time, err error) error {
	if errors.Is(err, context.Canceled) {
		c.observe(start, "cancelled")
		c.logger.Info("generation cancelled by caller", map[string]interface{}{"error": err.Error()})
		return apperrors.NewInternalError(fmt.Errorf("essay generation cancelled: %w", err))
	}
	c.observe(start, "timeout")
	return apperrors.NewGenerationTimeoutError(c.config.Timeout, err)
}

func (c *Composer) observe(start time.Time, status string) {
	metrics.GenerationDuration.WithLabelValues(c.generator.Name(), status).Observe(time.Since(start).Seconds())
}

// Normalize converts line endings to \n, strips trailing blanks from every
// line so whitespace-only lines become paragraph breaks, and trims the text.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
