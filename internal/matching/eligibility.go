package matching

import (
	"regexp"
	"strconv"
	"strings"

	"scholarship-engine/internal/models"
)

var (
	firstNumber    = regexp.MustCompile(`\d+(?:\.\d+)?|\.\d+`)
	levelSeparator = regexp.MustCompile(`\s*(?:[,;/|&+]|\band\b|\bor\b)\s*`)
)

// eligible reports whether rec survives the hard-incompatibility pre-pass.
// Only unambiguous metadata can exclude an entry; anything that does not
// parse cleanly is ignored.
func eligible(p *models.Profile, rec models.ScholarshipRecord) bool {
	if p.GPA != nil {
		if min, ok := parseMinimumGPA(rec.Metadata.MinimumGPA); ok && *p.GPA < min {
			return false
		}
	}

	if p.DegreeLevel.Known() {
		if levels, ok := parseDegreeLevels(rec.Metadata.DegreeLevels); ok && !levels[p.DegreeLevel] {
			return false
		}
	}

	return true
}

// parseMinimumGPA reads the first number of values such as "3.0",
// "3.5 on a 4.0 scale" or "Minimum GPA: 2.75". Numbers outside the 4.0
// scale are treated as a different scale and ignored.
func parseMinimumGPA(s string) (float64, bool) {
	m := firstNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || v <= 0 || v > 4 {
		return 0, false
	}
	return v, true
}

// parseDegreeLevels maps a free-text level list onto known levels. One
// unrecognised token (e.g. "all levels", "vocational") makes the whole
// field ambiguous.
func parseDegreeLevels(s string) (map[models.DegreeLevel]bool, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, false
	}

	levels := make(map[models.DegreeLevel]bool)
	for _, tok := range levelSeparator.Split(s, -1) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		level, ok := classifyLevel(tok)
		if !ok {
			return nil, false
		}
		levels[level] = true
	}
	if len(levels) == 0 {
		return nil, false
	}
	return levels, true
}

func classifyLevel(tok string) (models.DegreeLevel, bool) {
	switch {
	case strings.Contains(tok, "high school"), strings.Contains(tok, "secondary"):
		return models.DegreeHighSchool, true
	case strings.Contains(tok, "undergrad"), strings.Contains(tok, "bachelor"),
		strings.Contains(tok, "college"), strings.Contains(tok, "associate"):
		return models.DegreeUndergraduate, true
	case strings.Contains(tok, "graduate"), strings.Contains(tok, "master"),
		strings.Contains(tok, "phd"), strings.Contains(tok, "doctor"):
		return models.DegreeGraduate, true
	default:
		return "", false
	}
}
