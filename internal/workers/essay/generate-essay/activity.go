// internal/workers/essay/generate-essay/activity.go
package generateessay

import (
	apperrors "scholarship-engine/internal/common/errors"
	"scholarship-engine/pkg/registry"
)

func Activity() registry.Activity {
	return registry.Activity{
		ID:          "essay.generate",
		DisplayName: "Generate Scholarship Essay",
		Description: "Selects an essay strategy for the scholarship description and drafts an essay from the student profile.",
		Category:    "essay",
		TaskType:    TaskType,
		InputSchema: map[string]interface{}{
			"type":     "object",
			"required": []string{"scholarshipDescription", "studentProfile"},
			"properties": map[string]interface{}{
				"scholarshipDescription": map[string]interface{}{"type": "string"},
				"scholarshipName":        map[string]interface{}{"type": "string"},
				"studentProfile":         map[string]interface{}{"type": "object"},
			},
		},
		OutputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"essay":            map[string]interface{}{"type": "string"},
				"selectedStrategy": map[string]interface{}{"type": "object"},
				"matchingClusters": map[string]interface{}{"type": "array"},
				"scholarshipName":  map[string]interface{}{"type": "string"},
				"wordCount":        map[string]interface{}{"type": "integer"},
			},
		},
		ErrorCodes: []string{
			string(apperrors.ErrCodeInvalidProfile),
			string(apperrors.ErrCodeInvalidRequest),
			string(apperrors.ErrCodeEmptyCatalog),
			string(apperrors.ErrCodeGenerationTimeout),
			string(apperrors.ErrCodeGenerationEmpty),
			string(apperrors.ErrCodeGenerationFailed),
			string(apperrors.ErrCodeEmbeddingFailed),
		},
		Timeout: defaultTimeout.String(),
		Retries: 3,
		Tags:    []string{"essay", "llm"},
	}
}
