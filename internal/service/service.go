// Package service coordinates ranking, strategy selection and essay
// composition for the transports (HTTP, Zeebe workers, CLI).
package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "scholarship-engine/internal/common/errors"
	"scholarship-engine/internal/common/logger"
	"scholarship-engine/internal/common/metrics"
	"scholarship-engine/internal/common/retry"
	"scholarship-engine/internal/corpus"
	"scholarship-engine/internal/essay"
	"scholarship-engine/internal/matching"
	"scholarship-engine/internal/models"
	"scholarship-engine/internal/strategy"
)

const (
	// DefaultScholarshipName is used when no name can be derived.
	DefaultScholarshipName = "Scholarship"
	maxNameRunes           = 100
)

// MatchRequest asks for a ranked shortlist.
type MatchRequest struct {
	StudentProfile *models.Profile `json:"studentProfile"`
	TopN           int             `json:"topN,omitempty"`
}

type MatchResponse struct {
	Matches []models.MatchResult `json:"matches"`
}

// EssayRequest asks for an essay for one scholarship.
type EssayRequest struct {
	ScholarshipDescription string          `json:"scholarshipDescription"`
	ScholarshipName        string          `json:"scholarshipName,omitempty"`
	StudentProfile         *models.Profile `json:"studentProfile"`
}

// Options tunes orchestration.
type Options struct {
	// EssayRetries is how many extra attempts a GENERATION_TIMEOUT earns.
	EssayRetries int
	RetryDelay   time.Duration
}

// ScholarshipService holds the immutable corpus snapshot and the three core
// components. It is safe for concurrent use.
type ScholarshipService struct {
	index    *corpus.Index
	engine   *matching.Engine
	selector *strategy.Selector
	composer *essay.Composer
	options  Options
	tracer   trace.Tracer
	logger   logger.Logger
}

func New(index *corpus.Index, engine *matching.Engine, selector *strategy.Selector, composer *essay.Composer, opts Options, log logger.Logger) *ScholarshipService {
	if opts.EssayRetries < 0 {
		opts.EssayRetries = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	return &ScholarshipService{
		index:    index,
		engine:   engine,
		selector: selector,
		composer: composer,
		options:  opts,
		tracer:   otel.Tracer("scholarship-engine/service"),
		logger:   log.WithFields(map[string]interface{}{"component": "scholarship-service"}),
	}
}

// CorpusSize reports how many scholarships are loaded.
func (s *ScholarshipService) CorpusSize() int {
	if s.index == nil {
		return 0
	}
	return s.index.Len()
}

// Match ranks the corpus once for the request's profile.
func (s *ScholarshipService) Match(ctx context.Context, req MatchRequest) (*MatchResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ScholarshipService.Match",
		trace.WithAttributes(attribute.Int("match.top_n", req.TopN)))
	defer span.End()

	if req.TopN < 0 {
		return nil, s.fail(span, metrics.MatchRequests, apperrors.NewInvalidRequestError("topN must not be negative"))
	}

	results, err := s.engine.Rank(ctx, req.StudentProfile, s.index, req.TopN)
	if err != nil {
		return nil, s.fail(span, metrics.MatchRequests, err)
	}

	metrics.MatchRequests.WithLabelValues("success", "").Inc()
	metrics.MatchResultsReturned.Observe(float64(len(results)))
	span.SetAttributes(attribute.Int("match.results", len(results)))

	s.logger.Info("scholarships matched", map[string]interface{}{
		"results": len(results),
		"topN":    req.TopN,
	})
	return &MatchResponse{Matches: results}, nil
}

// GenerateEssay selects a strategy and composes the essay. Selection runs
// once; composition is repeated only after a GENERATION_TIMEOUT, up to
// Options.EssayRetries more times.
func (s *ScholarshipService) GenerateEssay(ctx context.Context, req EssayRequest) (*models.EssayResult, error) {
	ctx, span := s.tracer.Start(ctx, "ScholarshipService.GenerateEssay")
	defer span.End()

	if strings.TrimSpace(req.ScholarshipDescription) == "" {
		return nil, s.fail(span, metrics.EssayRequests, apperrors.NewInvalidRequestError("scholarshipDescription is required"))
	}
	name := strings.TrimSpace(req.ScholarshipName)
	if name == "" {
		name = DeriveScholarshipName(req.ScholarshipDescription)
	}
	span.SetAttributes(attribute.String("essay.scholarship", name))

	sel, err := s.selector.Select(ctx, req.StudentProfile, req.ScholarshipDescription)
	if err != nil {
		return nil, s.fail(span, metrics.EssayRequests, err)
	}
	metrics.StrategySelections.WithLabelValues(sel.Selected.ClusterName).Inc()
	span.SetAttributes(attribute.String("essay.strategy", sel.Selected.ClusterName))

	var result *models.EssayResult
	for attempt := 0; ; attempt++ {
		if err = retry.Wait(ctx, retry.Backoff(s.options.RetryDelay, attempt)); err != nil {
			err = apperrors.NewGenerationTimeoutError(0, err)
			break
		}

		result, err = s.composer.Compose(ctx, sel, req.ScholarshipDescription, req.StudentProfile, name)
		if err == nil || !errors.Is(err, apperrors.ErrGenerationTimeout) || attempt >= s.options.EssayRetries {
			break
		}
		s.logger.Warn("essay generation timed out, retrying", map[string]interface{}{
			"attempt":     attempt + 1,
			"scholarship": name,
		})
	}
	if err != nil {
		return nil, s.fail(span, metrics.EssayRequests, err)
	}

	metrics.EssayRequests.WithLabelValues("success", "").Inc()
	s.logger.Info("essay generated", map[string]interface{}{
		"scholarship": name,
		"strategy":    sel.Selected.ClusterName,
	})
	return result, nil
}

func (s *ScholarshipService) fail(span trace.Span, counter *prometheus.CounterVec, err error) error {
	stdErr := apperrors.AsStandardError(err)
	counter.WithLabelValues("error", string(stdErr.Code)).Inc()

	span.RecordError(err)
	span.SetStatus(codes.Error, string(stdErr.Code))

	fields := map[string]interface{}{"errorCode": string(stdErr.Code), "error": err.Error()}
	if stdErr.Code == apperrors.ErrCodeInternal {
		s.logger.Error("request failed", fields)
	} else {
		s.logger.Warn("request failed", fields)
	}
	return stdErr
}

// DeriveScholarshipName uses the first non-blank line of the description,
// cut to 100 characters.
func DeriveScholarshipName(description string) string {
	for _, line := range strings.Split(strings.ReplaceAll(description, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > maxNameRunes {
			line = strings.TrimSpace(string([]rune(line)[:maxNameRunes]))
		}
		return line
	}
	return DefaultScholarshipName
}
