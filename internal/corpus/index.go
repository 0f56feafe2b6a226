// Package corpus holds the precomputed scholarship index and the sources
// it can be loaded from.
package corpus

import (
	"fmt"
	"strings"

	"scholarship-engine/internal/embedding"
	"scholarship-engine/internal/models"
)

// Metric is the distance function the index was built for.
type Metric string

const (
	MetricCosine Metric = "cosine"
	MetricL2     Metric = "l2"
)

// ParseMetric accepts "cosine", "l2" and the common aliases. Empty means cosine.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cosine", "cos":
		return MetricCosine, nil
	case "l2", "euclidean":
		return MetricL2, nil
	default:
		return "", fmt.Errorf("unknown distance metric %q", s)
	}
}

// Distance applies the metric to two vectors.
func (m Metric) Distance(a, b []float64) float64 {
	if m == MetricL2 {
		return embedding.EuclideanDistance(a, b)
	}
	return embedding.CosineDistance(a, b)
}

// Index is an immutable, ordered collection of scholarship records sharing
// one embedding space. It is built once and read concurrently.
type Index struct {
	entries   []models.ScholarshipRecord
	metric    Metric
	model     string
	dimension int
}

// NewIndex validates the records and freezes them. Every record needs a
// name and an embedding, and all embeddings must have the same length.
func NewIndex(records []models.ScholarshipRecord, metric Metric, model string) (*Index, error) {
	if metric == "" {
		metric = MetricCosine
	}

	entries := make([]models.ScholarshipRecord, len(records))
	dimension := 0
	for i, rec := range records {
		if strings.TrimSpace(rec.Name) == "" {
			return nil, fmt.Errorf("record %d: name is required", i)
		}
		if len(rec.Embedding) == 0 {
			return nil, fmt.Errorf("record %d (%s): embedding is required", i, rec.Name)
		}
		if dimension == 0 {
			dimension = len(rec.Embedding)
		} else if len(rec.Embedding) != dimension {
			return nil, fmt.Errorf("record %d (%s): embedding has %d dimensions, expected %d",
				i, rec.Name, len(rec.Embedding), dimension)
		}

		if rec.URL == "" {
			rec.URL = rec.Metadata.URL
		}
		vec := make([]float64, len(rec.Embedding))
		copy(vec, rec.Embedding)
		rec.Embedding = vec
		entries[i] = rec
	}

	return &Index{
		entries:   entries,
		metric:    metric,
		model:     model,
		dimension: dimension,
	}, nil
}

// Entries returns the records in corpus order. Callers must not modify them.
func (ix *Index) Entries() []models.ScholarshipRecord {
	return ix.entries
}

func (ix *Index) Len() int {
	return len(ix.entries)
}

func (ix *Index) Metric() Metric {
	return ix.metric
}

// Model names the embedding model that produced the vectors; "" if unknown.
func (ix *Index) Model() string {
	return ix.model
}

// Dimension is 0 for an empty index.
func (ix *Index) Dimension() int {
	return ix.dimension
}
