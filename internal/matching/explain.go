package matching

import (
	"fmt"
	"strings"
	"unicode"

	"scholarship-engine/internal/embedding"
	"scholarship-engine/internal/models"
)

// Explainer produces a short justification for one match. An empty string
// means no reasoning is attached.
type Explainer interface {
	Explain(p *models.Profile, rec models.ScholarshipRecord) string
}

// TemplateExplainer builds reasoning from overlaps between the profile and
// the scholarship metadata. It is deterministic and makes no external calls.
type TemplateExplainer struct {
	// MaxThemes caps the shared themes named in one sentence.
	MaxThemes int
}

func NewTemplateExplainer() *TemplateExplainer {
	return &TemplateExplainer{MaxThemes: 3}
}

func (e *TemplateExplainer) Explain(p *models.Profile, rec models.ScholarshipRecord) string {
	var sentences []string

	if field := p.Field(); field != "" && overlaps(field, rec.Metadata.FieldsOfStudy) {
		sentences = append(sentences, fmt.Sprintf("Your study of %s fits its focus on %s.",
			field, strings.TrimSpace(rec.Metadata.FieldsOfStudy)))
	}

	themeSource := rec.Metadata.EmphasisAreas + " " + rec.Metadata.ValuesMission
	if themes := e.sharedThemes(p.Narrative(), themeSource); len(themes) > 0 {
		sentences = append(sentences, fmt.Sprintf("It values %s, which your experience reflects.", joinList(themes)))
	}

	if len(sentences) == 0 {
		return ""
	}
	if len(sentences) == 1 && strings.TrimSpace(rec.Metadata.AwardAmount) != "" {
		sentences = append(sentences, fmt.Sprintf("The award is %s.", strings.TrimSpace(rec.Metadata.AwardAmount)))
	}
	return strings.Join(sentences, " ")
}

// sharedThemes returns words of source, in source order, whose stems also
// occur in narrative.
func (e *TemplateExplainer) sharedThemes(narrative, source string) []string {
	limit := e.MaxThemes
	if limit <= 0 {
		limit = 3
	}

	have := embedding.TokenSet(narrative)
	seen := make(map[string]bool)
	var themes []string
	for _, word := range words(source) {
		toks := embedding.Tokenize(word)
		if len(toks) != 1 || seen[toks[0]] || len([]rune(word)) < 4 {
			continue
		}
		if _, ok := have[toks[0]]; !ok {
			continue
		}
		seen[toks[0]] = true
		themes = append(themes, strings.ToLower(word))
		if len(themes) == limit {
			break
		}
	}
	return themes
}

func overlaps(a, b string) bool {
	if strings.TrimSpace(b) == "" {
		return false
	}
	bs := embedding.TokenSet(b)
	for tok := range embedding.TokenSet(a) {
		if _, ok := bs[tok]; ok {
			return true
		}
	}
	return false
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\'' && r != '’'
	})
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
