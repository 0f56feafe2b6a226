package models

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "scholarship-engine/internal/common/errors"
)

func validProfile() *Profile {
	return &Profile{
		Name:            "Maya Chen",
		GPA:             FloatPtr(3.8),
		DegreeLevel:     DegreeUndergraduate,
		FieldOfStudy:    StringPtr("Environmental Engineering"),
		Citizenship:     StringPtr("United States"),
		Age:             IntPtr(20),
		Activities:      "Founded a campus water-quality monitoring club and tutor chemistry.",
		BackgroundStory: "Grew up in a farming town where well contamination was common.",
		CareerGoals:     "Design low-cost filtration systems for rural communities.",
	}
}

func TestProfile_Validate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(p *Profile)
		wantErr    bool
		wantDetail string
	}{
		{name: "valid", mutate: func(p *Profile) {}},
		{
			name:   "optional fields absent",
			mutate: func(p *Profile) { p.GPA, p.Age, p.FieldOfStudy, p.Citizenship = nil, nil, nil, nil },
		},
		{
			name:       "empty name",
			mutate:     func(p *Profile) { p.Name = "" },
			wantErr:    true,
			wantDetail: "name",
		},
		{
			name:       "blank name",
			mutate:     func(p *Profile) { p.Name = "   " },
			wantErr:    true,
			wantDetail: "name",
		},
		{
			name:       "gpa above scale",
			mutate:     func(p *Profile) { p.GPA = FloatPtr(4.3) },
			wantErr:    true,
			wantDetail: "gpa",
		},
		{
			name:       "negative gpa",
			mutate:     func(p *Profile) { p.GPA = FloatPtr(-0.5) },
			wantErr:    true,
			wantDetail: "gpa",
		},
		{
			name:       "unknown degree level",
			mutate:     func(p *Profile) { p.DegreeLevel = "postdoc" },
			wantErr:    true,
			wantDetail: "degreeLevel",
		},
		{
			name:       "zero age",
			mutate:     func(p *Profile) { p.Age = IntPtr(0) },
			wantErr:    true,
			wantDetail: "age",
		},
		{
			name:       "short activities",
			mutate:     func(p *Profile) { p.Activities = "chess" },
			wantErr:    true,
			wantDetail: "activities",
		},
		{
			name:       "whitespace padded career goals",
			mutate:     func(p *Profile) { p.CareerGoals = "   law      " },
			wantErr:    true,
			wantDetail: "careerGoals",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(p)

			err := p.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, stderrors.Is(err, apperrors.ErrInvalidProfile))
			assert.Contains(t, apperrors.AsStandardError(err).Details, tt.wantDetail)
		})
	}
}

func TestProfile_ValidateNil(t *testing.T) {
	var p *Profile
	assert.True(t, stderrors.Is(p.Validate(), apperrors.ErrInvalidProfile))
}

func TestProfile_DecodeNullOptionals(t *testing.T) {
	raw := `{
		"name": "Jordan",
		"gpa": null,
		"degreeLevel": "unknown",
		"fieldOfStudy": null,
		"citizenship": null,
		"age": null,
		"activities": "Volunteer EMT on weekends for three years.",
		"backgroundStory": "First in my family to attend college.",
		"careerGoals": "Become an emergency physician in my hometown.",
		"challenges": null
	}`

	var p Profile
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.NoError(t, p.Validate())
	assert.Nil(t, p.GPA)
	assert.False(t, p.HasChallenges())
	assert.Equal(t, "", p.Field())
	assert.False(t, p.DegreeLevel.Known())
}

func TestProfile_Narrative(t *testing.T) {
	p := validProfile()
	assert.NotContains(t, p.Narrative(), "flood")

	p.Challenges = StringPtr("Our house flooded during my junior year.")
	assert.True(t, p.HasChallenges())
	assert.Contains(t, p.Narrative(), "flooded")

	p.Challenges = StringPtr("   ")
	assert.False(t, p.HasChallenges())
}
