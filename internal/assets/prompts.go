// Package assets provides embedded static assets for the application.
//
// Prompt templates are stored as text files under prompts/ and embedded at
// compile time, keeping multi-paragraph model instructions out of Go string
// literals.
package assets

import (
	"bytes"
	_ "embed"
	"text/template"
)

// --- Static prompts (no dynamic data) ---

// PlannerSystemPrompt frames the planning call: the model acts as a marketing
// art director and must answer with a raw JSON array of generation jobs.
//
//go:embed prompts/planner-system.txt
var PlannerSystemPrompt string

// FidelityPreamble is prepended to every image-generation prompt. It pins the
// product packaging and label fidelity constraints that apply regardless of
// the creative direction of an individual job.
//
//go:embed prompts/fidelity-preamble.txt
var FidelityPreamble string

// TrendFallbackSummary is returned by the trend researcher whenever the
// research call fails. Planning must proceed on generic guidance rather than
// block the run.
//
//go:embed prompts/trend-fallback.txt
var TrendFallbackSummary string

// --- Dynamic prompt templates ---

//go:embed prompts/planner-instruction.txt
var plannerInstructionTemplate string

//go:embed prompts/trend-research.txt
var trendResearchTemplate string

//go:embed prompts/studio-shot.txt
var studioShotTemplate string

// Pre-parsed templates. template.Must panics on malformed templates, catching
// errors at program startup rather than at call time.
var (
	plannerTmpl = template.Must(template.New("planner").Parse(plannerInstructionTemplate))
	trendTmpl   = template.Must(template.New("trend").Parse(trendResearchTemplate))
	studioTmpl  = template.Must(template.New("studio").Parse(studioShotTemplate))
)

// PlannerData holds the dynamic data injected into the planning instruction.
type PlannerData struct {
	Category     string
	Tone         string
	Notes        string
	Guidelines   string
	TrendSummary string
	ImageCount   int
	Bundle       bool
	TargetCount  int
	LayoutTags   []string
}

// RenderPlannerInstruction renders the planning instruction for one batch run.
func RenderPlannerInstruction(data PlannerData) string {
	return renderTemplate(plannerTmpl, data)
}

// TrendData holds the dynamic data for the trend research prompt.
type TrendData struct {
	Category string
}

// RenderTrendResearchPrompt renders the category-scoped trend research prompt.
func RenderTrendResearchPrompt(category string) string {
	return renderTemplate(trendTmpl, TrendData{Category: category})
}

// StudioShotData holds the dynamic data for the studio single-shot prompt.
type StudioShotData struct {
	ShotType           string
	Theme              string
	Lighting           string
	Composition        string
	Background         string
	Elements           []string
	CustomInstructions string
	Guidelines         string
	RenderText         string
	HasStyleReference  bool
}

// RenderStudioShotPrompt renders the single-shot generation prompt.
func RenderStudioShotPrompt(data StudioShotData) string {
	return renderTemplate(studioTmpl, data)
}

// renderTemplate executes a pre-parsed template with the given data.
func renderTemplate(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	// Template execution errors are not expected with these templates; return
	// whatever was rendered.
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}
