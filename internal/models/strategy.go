// internal/models/strategy.go
package models

// WritingStrategy is the guidance handed to the generator.
type WritingStrategy struct {
	BroadInstructions  string `json:"broad_instructions" yaml:"broad_instructions"`
	StructuralTemplate string `json:"structural_template" yaml:"structural_template"`
}

// StrategyEntry is one essay archetype in the strategy catalog.
type StrategyEntry struct {
	ClusterID            int             `json:"cluster_id" yaml:"cluster_id"`
	ClusterName          string          `json:"cluster_name" yaml:"cluster_name"`
	DescriptionArchetype string          `json:"description_archetype" yaml:"description_archetype"`
	WritingStrategy      WritingStrategy `json:"writing_strategy" yaml:"writing_strategy"`
	// Requirements name the evidence a profile must show for the archetype
	// to be writable, e.g. "challenges" or "research".
	Requirements []string `json:"requirements,omitempty" yaml:"requirements,omitempty"`
}

// EssayResult is the outcome of one essay generation request.
type EssayResult struct {
	Essay            string        `json:"essay"`
	SelectedStrategy StrategyEntry `json:"selected_strategy"`
	MatchingClusters []string      `json:"matching_clusters"`
	ScholarshipName  string        `json:"scholarship_name"`
}
