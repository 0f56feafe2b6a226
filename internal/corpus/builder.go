package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"scholarship-engine/internal/embedding"
	"scholarship-engine/internal/models"
)

// EmbeddingText is what the builder embeds for one record.
func EmbeddingText(rec models.ScholarshipRecord) string {
	return strings.TrimSpace(rec.Name + "\n" + rec.FullText)
}

// Build embeds every record with embedder and returns an Index in its space.
// Records that already carry a vector are re-embedded.
func Build(ctx context.Context, embedder embedding.Embedder, records []models.ScholarshipRecord, metric Metric) (*Index, error) {
	out := make([]models.ScholarshipRecord, len(records))
	for i, rec := range records {
		if strings.TrimSpace(rec.Name) == "" {
			return nil, fmt.Errorf("record %d: name is required", i)
		}
		vec, err := embedder.Embed(ctx, EmbeddingText(rec))
		if err != nil {
			return nil, fmt.Errorf("embed %q: %w", rec.Name, err)
		}
		rec.Embedding = vec
		out[i] = rec
	}
	return NewIndex(out, metric, embedder.Model())
}

// WriteFile stores ix in the format FileSource reads.
func WriteFile(path string, ix *Index) error {
	doc := fileDocument{
		Metric:       string(ix.Metric()),
		Model:        ix.Model(),
		Scholarships: ix.Entries(),
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write corpus file: %w", err)
	}
	return nil
}
