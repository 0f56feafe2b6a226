package strategy

import (
	"scholarship-engine/internal/catalog"
	"scholarship-engine/internal/embedding"
	"scholarship-engine/internal/models"
)

// evidence lists words whose presence in a profile shows it can support a
// requirement. Words are stemmed the same way as profile text.
var evidence = map[string][]string{
	catalog.RequireLeadership: {
		"lead", "led", "leader", "leadership", "president", "captain", "founded", "founder",
		"organized", "organizer", "chair", "director", "managed", "coordinated", "head",
	},
	catalog.RequireResearch: {
		"research", "researcher", "laboratory", "lab", "labs", "experiment", "published",
		"publication", "thesis", "hypothesis", "study", "investigation",
	},
	catalog.RequireCommunity: {
		"volunteer", "volunteered", "volunteering", "community", "service", "nonprofit",
		"charity", "tutor", "mentor", "outreach", "shelter", "donation",
	},
	catalog.RequireSTEM: {
		"engineering", "science", "math", "mathematics", "computer", "programming", "coding",
		"robotics", "physics", "chemistry", "biology", "software", "technology", "data",
	},
	catalog.RequireCreative: {
		"art", "arts", "music", "writing", "poetry", "painting", "design", "film", "theater",
		"theatre", "dance", "photography", "creative", "novel", "literary",
	},
}

var evidenceStems = func() map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{}, len(evidence))
	for req, words := range evidence {
		stems := make(map[string]struct{}, len(words))
		for _, w := range words {
			for _, tok := range embedding.Tokenize(w) {
				stems[tok] = struct{}{}
			}
		}
		out[req] = stems
	}
	return out
}()

// Feasible reports whether the profile shows evidence for every requirement
// of the entry. Entries without requirements are always feasible.
func Feasible(p *models.Profile, entry models.StrategyEntry) bool {
	if len(entry.Requirements) == 0 {
		return true
	}

	tokens := embedding.TokenSet(p.Narrative() + "\n" + p.Field())
	for _, req := range entry.Requirements {
		if !satisfies(p, tokens, req) {
			return false
		}
	}
	return true
}

func satisfies(p *models.Profile, tokens map[string]struct{}, req string) bool {
	if req == catalog.RequireChallenges {
		return p.HasChallenges()
	}

	stems, ok := evidenceStems[req]
	if !ok {
		return false
	}
	for tok := range stems {
		if _, hit := tokens[tok]; hit {
			return true
		}
	}
	return false
}
