// internal/models/profile.go
package models

import (
	"strings"

	apperrors "scholarship-engine/internal/common/errors"
	"scholarship-engine/internal/common/validation"
)

// DegreeLevel is the student's current level of study.
type DegreeLevel string

const (
	DegreeHighSchool    DegreeLevel = "high school"
	DegreeUndergraduate DegreeLevel = "undergraduate"
	DegreeGraduate      DegreeLevel = "graduate"
	DegreeUnknown       DegreeLevel = "unknown"
)

// Known reports whether the level carries eligibility signal.
func (d DegreeLevel) Known() bool {
	return d == DegreeHighSchool || d == DegreeUndergraduate || d == DegreeGraduate
}

// Profile is the student profile used for matching and essay generation.
// Nil pointers mean "not provided" and contribute no signal.
type Profile struct {
	Name            string      `json:"name"`
	GPA             *float64    `json:"gpa"`
	DegreeLevel     DegreeLevel `json:"degreeLevel"`
	FieldOfStudy    *string     `json:"fieldOfStudy"`
	Citizenship     *string     `json:"citizenship"`
	Age             *int        `json:"age"`
	Activities      string      `json:"activities"`
	BackgroundStory string      `json:"backgroundStory"`
	CareerGoals     string      `json:"careerGoals"`
	Challenges      *string     `json:"challenges"`
}

const profileSchemaJSON = `{
  "type": "object",
  "required": ["name", "degreeLevel", "activities", "backgroundStory", "careerGoals"],
  "properties": {
    "name":            {"type": "string", "minLength": 1, "pattern": "\\S"},
    "gpa":             {"type": ["number", "null"], "minimum": 0, "maximum": 4},
    "degreeLevel":     {"type": "string", "enum": ["high school", "undergraduate", "graduate", "unknown"]},
    "fieldOfStudy":    {"type": ["string", "null"]},
    "citizenship":     {"type": ["string", "null"]},
    "age":             {"type": ["integer", "null"], "minimum": 1},
    "activities":      {"type": "string", "minLength": 10, "pattern": "\\S"},
    "backgroundStory": {"type": "string", "minLength": 10, "pattern": "\\S"},
    "careerGoals":     {"type": "string", "minLength": 10, "pattern": "\\S"},
    "challenges":      {"type": ["string", "null"]}
  }
}`

var profileSchema = validation.MustCompile(profileSchemaJSON)

// Validate checks the profile against the profile schema. The returned
// error is an INVALID_PROFILE StandardError listing every problem.
func (p *Profile) Validate() error {
	if p == nil {
		return apperrors.NewInvalidProfileError([]string{"(root): profile is required"})
	}

	result := profileSchema.Validate(p)
	problems := result.Messages()

	// minLength counts runes, so whitespace padding still has to be caught.
	narrative := []struct{ field, value string }{
		{"activities", p.Activities},
		{"backgroundStory", p.BackgroundStory},
		{"careerGoals", p.CareerGoals},
	}
	for _, n := range narrative {
		if len(n.value) >= 10 && len([]rune(strings.TrimSpace(n.value))) < 10 {
			problems = append(problems, n.field+": must contain at least 10 non-blank characters")
		}
	}

	if len(problems) > 0 {
		return apperrors.NewInvalidProfileError(problems)
	}
	return nil
}

// HasChallenges reports whether the challenges narrative is present.
func (p *Profile) HasChallenges() bool {
	return p.Challenges != nil && strings.TrimSpace(*p.Challenges) != ""
}

// Narrative joins the free-text fields in a fixed order.
func (p *Profile) Narrative() string {
	parts := []string{p.Activities, p.BackgroundStory, p.CareerGoals}
	if p.HasChallenges() {
		parts = append(parts, *p.Challenges)
	}
	return strings.Join(parts, "\n")
}

// Field returns the field of study or "".
func (p *Profile) Field() string {
	return deref(p.FieldOfStudy)
}

// Country returns the citizenship or "".
func (p *Profile) Country() string {
	return deref(p.Citizenship)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// StringPtr, FloatPtr and IntPtr help build optional profile fields.
func StringPtr(s string) *string { return &s }

func FloatPtr(f float64) *float64 { return &f }

func IntPtr(i int) *int { return &i }
