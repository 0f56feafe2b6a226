// Package generation adapts external text-generation providers to the
// essay pipeline.
package generation

import (
	"context"
	"fmt"
	"strings"

	"scholarship-engine/internal/models"
)

// Generator produces plain prose for a Directive. Implementations own their
// retry policy; callers invoke Generate once and bound it with ctx.
type Generator interface {
	Name() string
	Generate(ctx context.Context, d Directive) (string, error)
}

// Directive is everything a provider needs to draft one essay.
type Directive struct {
	ScholarshipName    string
	ScholarshipText    string
	BroadInstructions  string
	StructuralTemplate string

	StudentName     string
	FieldOfStudy    string
	DegreeLevel     string
	Activities      string
	BackgroundStory string
	CareerGoals     string
	Challenges      string

	MaxTokens   int
	Temperature float64
}

// NewDirective fills a Directive from a strategy, the scholarship and the
// profile's narrative fields.
func NewDirective(entry models.StrategyEntry, scholarshipName, scholarshipText string, p *models.Profile) Directive {
	d := Directive{
		ScholarshipName:    scholarshipName,
		ScholarshipText:    strings.TrimSpace(scholarshipText),
		BroadInstructions:  strings.TrimSpace(entry.WritingStrategy.BroadInstructions),
		StructuralTemplate: strings.TrimSpace(entry.WritingStrategy.StructuralTemplate),
		StudentName:        p.Name,
		FieldOfStudy:       p.Field(),
		Activities:         strings.TrimSpace(p.Activities),
		BackgroundStory:    strings.TrimSpace(p.BackgroundStory),
		CareerGoals:        strings.TrimSpace(p.CareerGoals),
	}
	if p.DegreeLevel.Known() {
		d.DegreeLevel = string(p.DegreeLevel)
	}
	if p.HasChallenges() {
		d.Challenges = strings.TrimSpace(*p.Challenges)
	}
	return d
}

const systemPrompt = "You are a skilled scholarship essay writer. You write authentic, personal essays " +
	"grounded only in the student's real experiences."

var essayRequirements = []string{
	"Write in the first person from the student's perspective.",
	"Strictly follow the structural template provided.",
	"Make it authentic and personal, drawing only on the student's actual experiences.",
	"Keep the tone professional yet engaging.",
	"Aim for 500-650 words.",
	"Include specific, vivid details that bring the story to life.",
	"End with a forward-looking conclusion that connects to the scholarship's goals.",
	"Separate paragraphs with a blank line.",
	"Do not include a title or any preamble, only the essay text.",
}

// RenderPrompt turns a Directive into the user prompt sent to a provider.
func RenderPrompt(d Directive) string {
	var b strings.Builder

	b.WriteString("Write a compelling essay for the following scholarship.\n\n")
	if d.ScholarshipName != "" {
		fmt.Fprintf(&b, "SCHOLARSHIP NAME:\n%s\n\n", d.ScholarshipName)
	}
	fmt.Fprintf(&b, "SCHOLARSHIP DESCRIPTION:\n%s\n\n", d.ScholarshipText)

	b.WriteString("STUDENT PROFILE:\n")
	writeField(&b, "Name", d.StudentName)
	writeField(&b, "Field of study", d.FieldOfStudy)
	writeField(&b, "Degree level", d.DegreeLevel)
	writeField(&b, "Activities", d.Activities)
	writeField(&b, "Background", d.BackgroundStory)
	writeField(&b, "Career goals", d.CareerGoals)
	writeField(&b, "Challenges", d.Challenges)
	b.WriteString("\n")

	fmt.Fprintf(&b, "WRITING STRATEGY TO FOLLOW:\n%s\n\n", d.BroadInstructions)
	fmt.Fprintf(&b, "STRUCTURAL TEMPLATE (YOU MUST FOLLOW THIS STRUCTURE):\n%s\n\n", d.StructuralTemplate)

	b.WriteString("REQUIREMENTS:\n")
	for i, r := range essayRequirements {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, value)
}
