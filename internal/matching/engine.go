// Package matching ranks the scholarship corpus against a student profile.
package matching

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	apperrors "scholarship-engine/internal/common/errors"
	"scholarship-engine/internal/common/logger"
	"scholarship-engine/internal/corpus"
	"scholarship-engine/internal/embedding"
	"scholarship-engine/internal/models"
)

const (
	DefaultTopN    = 5
	DefaultMaxTopN = 50
)

// Config tunes ranking. Zero values fall back to the defaults.
type Config struct {
	TopN    int
	MaxTopN int
	// MaxDistance drops entries farther than it from the query, in the index
	// metric's units. 0 disables it.
	MaxDistance float64
}

// Engine ranks an Index for a profile. It holds no per-request state and is
// safe for concurrent use.
type Engine struct {
	embedder  embedding.Embedder
	explainer Explainer
	config    Config
	logger    logger.Logger
}

// NewEngine builds an Engine. A nil explainer leaves reasoning absent.
func NewEngine(embedder embedding.Embedder, explainer Explainer, cfg Config, log logger.Logger) *Engine {
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultTopN
	}
	if cfg.MaxTopN <= 0 {
		cfg.MaxTopN = DefaultMaxTopN
	}
	if cfg.TopN > cfg.MaxTopN {
		cfg.TopN = cfg.MaxTopN
	}

	return &Engine{
		embedder:  embedder,
		explainer: explainer,
		config:    cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "match-engine"}),
	}
}

type candidate struct {
	rec      models.ScholarshipRecord
	distance float64
}

// Rank returns at most topN results ordered by ascending distance. topN <= 0
// selects the configured default and values above MaxTopN are capped.
func (e *Engine) Rank(ctx context.Context, profile *models.Profile, index *corpus.Index, topN int) ([]models.MatchResult, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if index == nil || index.Len() == 0 {
		return nil, apperrors.NewEmptyCorpusError("the scholarship index has no entries")
	}

	if topN <= 0 {
		topN = e.config.TopN
	}
	if topN > e.config.MaxTopN {
		topN = e.config.MaxTopN
	}

	entries := index.Entries()
	survivors := make([]models.ScholarshipRecord, 0, len(entries))
	for _, rec := range entries {
		if eligible(profile, rec) {
			survivors = append(survivors, rec)
		}
	}
	if len(survivors) == 0 {
		return nil, apperrors.NewEmptyCorpusError(
			fmt.Sprintf("all %d scholarships were excluded by eligibility filters", len(entries)))
	}

	if m := index.Model(); m != "" && m != e.embedder.Model() {
		return nil, apperrors.NewEmbeddingFailedError(e.embedder.Model(),
			fmt.Errorf("query model %s does not match index model %s", e.embedder.Model(), m))
	}

	query, err := e.embedder.Embed(ctx, QueryText(profile))
	if err != nil {
		return nil, err
	}
	if len(query) != index.Dimension() {
		return nil, apperrors.NewEmbeddingFailedError(e.embedder.Model(),
			fmt.Errorf("query has %d dimensions, index has %d", len(query), index.Dimension()))
	}

	metric := index.Metric()
	candidates := make([]candidate, 0, len(survivors))
	for _, rec := range survivors {
		d := metric.Distance(query, rec.Embedding)
		if e.config.MaxDistance > 0 && d > e.config.MaxDistance {
			continue
		}
		candidates = append(candidates, candidate{rec: rec, distance: d})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	results := make([]models.MatchResult, len(candidates))
	for i, c := range candidates {
		results[i] = models.MatchResult{
			Scholarship: c.rec.Name,
			Distance:    c.distance,
			URL:         c.rec.URL,
			FullText:    c.rec.FullText,
			Metadata:    c.rec.Metadata,
			Rank:        i + 1,
			MatchScore:  Score(c.distance),
		}
		if e.explainer != nil {
			results[i].Reasoning = e.explainer.Explain(profile, c.rec)
		}
	}

	e.logger.Debug("ranked scholarships", map[string]interface{}{
		"corpusSize": len(entries),
		"eligible":   len(survivors),
		"returned":   len(results),
		"metric":     string(metric),
	})
	return results, nil
}

// Score maps a distance onto 0..100; smaller distances never score lower.
func Score(distance float64) int {
	s := math.Round((1 - distance) * 100)
	switch {
	case s < 0:
		return 0
	case s > 100:
		return 100
	default:
		return int(s)
	}
}

// QueryText renders the profile as the text that is embedded for ranking.
// Activities appear twice so they outweigh the structured attributes.
func QueryText(p *models.Profile) string {
	parts := []string{p.Activities, p.Activities, p.BackgroundStory, p.CareerGoals}
	if p.HasChallenges() {
		parts = append(parts, *p.Challenges)
	}
	if f := p.Field(); f != "" {
		parts = append(parts, "Field of study: "+f)
	}
	if p.DegreeLevel.Known() {
		parts = append(parts, "Degree level: "+string(p.DegreeLevel))
	}
	if c := p.Country(); c != "" {
		parts = append(parts, "Citizenship: "+c)
	}

	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, "\n")
}
