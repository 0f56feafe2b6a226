// internal/workers/scholarship/match-scholarships/activity.go
package matchscholarships

import (
	apperrors "scholarship-engine/internal/common/errors"
	"scholarship-engine/pkg/registry"
)

// Activity describes this worker for process modelers.
func Activity() registry.Activity {
	return registry.Activity{
		ID:          "scholarship.match",
		DisplayName: "Match Scholarships",
		Description: "Ranks the scholarship corpus for a student profile and returns the eligible shortlist.",
		Category:    "scholarship",
		TaskType:    TaskType,
		InputSchema: map[string]interface{}{
			"type":     "object",
			"required": []string{"studentProfile"},
			"properties": map[string]interface{}{
				"studentProfile": map[string]interface{}{"type": "object"},
				"topN":           map[string]interface{}{"type": "integer", "minimum": 0},
			},
		},
		OutputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"matches":    map[string]interface{}{"type": "array"},
				"matchCount": map[string]interface{}{"type": "integer"},
			},
		},
		ErrorCodes: []string{
			string(apperrors.ErrCodeInvalidProfile),
			string(apperrors.ErrCodeInvalidRequest),
			string(apperrors.ErrCodeEmptyCorpus),
			string(apperrors.ErrCodeEmbeddingFailed),
		},
		Timeout: defaultTimeout.String(),
		Retries: 3,
		Tags:    []string{"matching", "embeddings"},
	}
}
