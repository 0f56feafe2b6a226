// internal/workers/essay/generate-essay/models.go
package generateessay

import "scholarship-engine/internal/models"

type Input struct {
	ScholarshipDescription string          `json:"scholarshipDescription"`
	ScholarshipName        string          `json:"scholarshipName,omitempty"`
	StudentProfile         *models.Profile `json:"studentProfile"`
}

type Output struct {
	Essay            string               `json:"essay"`
	SelectedStrategy models.StrategyEntry `json:"selectedStrategy"`
	MatchingClusters []string             `json:"matchingClusters"`
	ScholarshipName  string               `json:"scholarshipName"`
	WordCount        int                  `json:"wordCount"`
}
