package plan

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/product-studio-cli/internal/assets"
	"github.com/fpang/product-studio-cli/internal/imagecodec"
	"github.com/fpang/product-studio-cli/internal/jsonutil"
)

// ErrPlanningFailed marks a planning call that produced no usable job list.
// Planning failure aborts the whole run before any generation starts; it is
// never silently converted into an empty or partial plan.
var ErrPlanningFailed = errors.New("planning failed")

// TextModel is the capability surface the planner needs: a structured-output
// text call carrying image and text parts.
type TextModel interface {
	GenerateJSON(ctx context.Context, parts []*genai.Part, system string) (string, error)
}

// Planner produces generation plans from reference images and a brief.
type Planner struct {
	model TextModel
}

// NewPlanner creates a planner on top of the given text capability.
func NewPlanner(model TextModel) *Planner {
	return &Planner{model: model}
}

// Plan asks the capability for an ordered list of generation jobs.
//
// The instruction adapts its wording when the reference set is a bundle
// (more than one image), embeds brand guidelines verbatim with override
// wording, and demands a raw JSON array. Responses are parsed defensively:
// markdown fences and surrounding prose are stripped before decoding, and
// anything that still does not decode into the job-record shape fails with
// ErrPlanningFailed.
func (p *Planner) Plan(ctx context.Context, images []imagecodec.ReferenceImage, brief StrategyBrief) ([]Job, error) {
	if err := brief.Validate(); err != nil {
		return nil, err
	}

	layoutTags := make([]string, len(LayoutTypes))
	for i, l := range LayoutTypes {
		layoutTags[i] = string(l)
	}

	instruction := assets.RenderPlannerInstruction(assets.PlannerData{
		Category:     brief.Category,
		Tone:         string(brief.Tone),
		Notes:        brief.Notes,
		Guidelines:   brief.Guidelines,
		TrendSummary: brief.TrendSummary,
		ImageCount:   len(images),
		Bundle:       len(images) > 1,
		TargetCount:  TargetJobCount,
		LayoutTags:   layoutTags,
	})

	parts := make([]*genai.Part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: img.MIME, Data: img.Data},
		})
	}
	parts = append(parts, &genai.Part{Text: instruction})

	log.Info().
		Str("category", brief.Category).
		Str("tone", string(brief.Tone)).
		Int("reference_images", len(images)).
		Bool("bundle", len(images) > 1).
		Bool("has_guidelines", brief.Guidelines != "").
		Bool("has_trends", brief.TrendSummary != "").
		Msg("Requesting generation plan")

	response, err := p.model.GenerateJSON(ctx, parts, assets.PlannerSystemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlanningFailed, err)
	}
	if response == "" {
		return nil, fmt.Errorf("%w: capability returned no text", ErrPlanningFailed)
	}

	jobs, err := parsePlanResponse(response)
	if err != nil {
		return nil, err
	}

	log.Info().Int("jobs", len(jobs)).Msg("Generation plan ready")
	return jobs, nil
}

// parsePlanResponse decodes the model's response into jobs.
func parsePlanResponse(response string) ([]Job, error) {
	jobs, err := jsonutil.ParseList[Job](response)
	if err != nil {
		log.Error().Err(err).Str("response", truncateForLog(response)).Msg("Failed to parse plan response")
		return nil, fmt.Errorf("%w: %v", ErrPlanningFailed, err)
	}
	for i, job := range jobs {
		if job.VisualPrompt == "" {
			return nil, fmt.Errorf("%w: job %d has no visual prompt", ErrPlanningFailed, i)
		}
	}
	return jobs, nil
}

func truncateForLog(s string) string {
	if len(s) <= 300 {
		return s
	}
	return s[:300] + "..."
}
