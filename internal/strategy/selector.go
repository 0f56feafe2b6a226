// Package strategy picks the essay archetype that best fits a scholarship
// and a student.
package strategy

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"scholarship-engine/internal/catalog"
	apperrors "scholarship-engine/internal/common/errors"
	"scholarship-engine/internal/common/logger"
	"scholarship-engine/internal/embedding"
	"scholarship-engine/internal/models"
)

// relevanceEpsilon treats relevance scores this close as tied.
const relevanceEpsilon = 1e-9

// Selection is the outcome of Select. Selected.ClusterName is always the
// first element of MatchingClusters.
type Selection struct {
	Selected         models.StrategyEntry `json:"selected"`
	MatchingClusters []string             `json:"matching_clusters"`
}

// Validate checks the selection invariant: a selected cluster that appears
// in a non-empty MatchingClusters.
func (s *Selection) Validate() error {
	if s == nil {
		return apperrors.NewInvalidRequestError("selection is required")
	}
	if len(s.MatchingClusters) == 0 {
		return apperrors.NewInvalidRequestError("selection has no matching clusters")
	}
	for _, name := range s.MatchingClusters {
		if name == s.Selected.ClusterName {
			return nil
		}
	}
	return apperrors.NewInvalidRequestError(
		fmt.Sprintf("selected strategy %q is not among the matching clusters", s.Selected.ClusterName))
}

// Options toggles optional selection behaviour.
type Options struct {
	// Feasibility orders archetypes the profile can support ahead of the rest.
	Feasibility bool
}

// Selector ranks the catalog's archetypes for a scholarship and a profile.
// Archetype vectors are computed once in NewSelector and never change.
type Selector struct {
	catalog  *catalog.Catalog
	embedder embedding.Embedder
	vectors  [][]float64
	options  Options
	logger   logger.Logger
}

func NewSelector(ctx context.Context, cat *catalog.Catalog, embedder embedding.Embedder, opts Options, log logger.Logger) (*Selector, error) {
	entries := cat.Entries()
	vectors := make([][]float64, len(entries))
	for i, e := range entries {
		vec, err := embedder.Embed(ctx, e.ClusterName+"\n"+e.DescriptionArchetype)
		if err != nil {
			return nil, fmt.Errorf("embed archetype %d (%s): %w", e.ClusterID, e.ClusterName, err)
		}
		vectors[i] = vec
	}

	return &Selector{
		catalog:  cat,
		embedder: embedder,
		vectors:  vectors,
		options:  opts,
		logger:   log.WithFields(map[string]interface{}{"component": "strategy-selector"}),
	}, nil
}

type scored struct {
	entry     models.StrategyEntry
	relevance float64
	feasible  bool
}

// Select orders every archetype and returns the best one. With feasibility
// enabled, feasible archetypes come first; when none is feasible the order
// falls back to relevance alone. Ties go to the lower cluster_id.
func (s *Selector) Select(ctx context.Context, profile *models.Profile, scholarshipText string) (*Selection, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	entries := s.catalog.Entries()
	if len(entries) == 0 {
		return nil, apperrors.NewEmptyCatalogError()
	}

	query, err := s.embedder.Embed(ctx, strings.TrimSpace(scholarshipText)+"\n"+profile.Narrative())
	if err != nil {
		return nil, err
	}

	ranked := make([]scored, len(entries))
	anyFeasible := false
	for i, e := range entries {
		ranked[i] = scored{
			entry:     e,
			relevance: embedding.CosineSimilarity(query, s.vectors[i]),
			feasible:  !s.options.Feasibility || Feasible(profile, e),
		}
		anyFeasible = anyFeasible || ranked[i].feasible
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if anyFeasible && a.feasible != b.feasible {
			return a.feasible
		}
		if math.Abs(a.relevance-b.relevance) > relevanceEpsilon {
			return a.relevance > b.relevance
		}
		return a.entry.ClusterID < b.entry.ClusterID
	})

	names := make([]string, len(ranked))
	for i, r := range ranked {
		names[i] = r.entry.ClusterName
	}

	s.logger.Debug("selected essay strategy", map[string]interface{}{
		"clusterId":   ranked[0].entry.ClusterID,
		"clusterName": ranked[0].entry.ClusterName,
		"relevance":   ranked[0].relevance,
		"feasible":    ranked[0].feasible,
		"anyFeasible": anyFeasible,
	})

	return &Selection{Selected: ranked[0].entry, MatchingClusters: names}, nil
}
