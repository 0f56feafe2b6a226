// internal/models/scholarship.go
package models

// ScholarshipMetadata holds the optional structured facts extracted for a
// scholarship. Values are kept as the source wrote them.
type ScholarshipMetadata struct {
	URL           string `json:"url,omitempty"`
	AwardAmount   string `json:"award_amount,omitempty"`
	MinimumGPA    string `json:"minimum_gpa,omitempty"`
	DegreeLevels  string `json:"degree_levels,omitempty"`
	FieldsOfStudy string `json:"fields_of_study,omitempty"`
	EmphasisAreas string `json:"emphasis_areas,omitempty"`
	ValuesMission string `json:"values_mission,omitempty"`
}

// ScholarshipRecord is one precomputed corpus entry.
type ScholarshipRecord struct {
	Name      string              `json:"name"`
	FullText  string              `json:"full_text"`
	URL       string              `json:"url"`
	Metadata  ScholarshipMetadata `json:"metadata"`
	Embedding []float64           `json:"embedding,omitempty"`
}

// MatchResult is one ranked scholarship returned to the caller.
type MatchResult struct {
	Scholarship string              `json:"scholarship"`
	Distance    float64             `json:"distance"`
	URL         string              `json:"url"`
	FullText    string              `json:"full_text"`
	Metadata    ScholarshipMetadata `json:"metadata"`
	Rank        int                 `json:"rank"`
	MatchScore  int                 `json:"match_score"`
	Reasoning   string              `json:"reasoning,omitempty"`
}
