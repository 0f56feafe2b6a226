// internal/workers/scholarship/match-scholarships/models.go
package matchscholarships

import "scholarship-engine/internal/models"

type Input struct {
	StudentProfile *models.Profile `json:"studentProfile"`
	TopN           int             `json:"topN,omitempty"`
}

type Output struct {
	Matches    []models.MatchResult `json:"matches"`
	MatchCount int                  `json:"matchCount"`
}
