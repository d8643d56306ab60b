// Package sequencer executes a generation plan one job at a time, pacing the
// calls, isolating per-job failures, and publishing every success as soon as
// it lands.
package sequencer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fpang/product-studio-cli/internal/generator"
	"github.com/fpang/product-studio-cli/internal/imagecodec"
	"github.com/fpang/product-studio-cli/internal/plan"
	"github.com/fpang/product-studio-cli/internal/store"
)

// DefaultPacingInterval is the fixed wait inserted between consecutive jobs
// to stay under upstream per-caller rate limits. No wait before the first
// job.
const DefaultPacingInterval = 1500 * time.Millisecond

// ErrAllGenerationsFailed is the run-level failure raised when every job in
// a non-empty plan failed. It signals a systemic problem (for example no
// quota at all) rather than a content-specific refusal; partial success is
// reported as a completed run.
var ErrAllGenerationsFailed = errors.New("all generations failed")

// AssetMaker is the per-job generation capability.
type AssetMaker interface {
	Generate(ctx context.Context, images []imagecodec.ReferenceImage, prompt string) (*generator.Result, error)
}

// Progress receives run events. OnResult fires incrementally, once per
// success, so callers can render partial results while later jobs run.
type Progress interface {
	OnProgress(current, total int)
	OnResult(asset store.Asset)
	OnJobError(index int, job plan.Job, err error)
}

// Runner drives a plan through the asset maker, strictly sequentially.
type Runner struct {
	maker    AssetMaker
	progress Progress
	interval time.Duration
}

// New creates a runner with the default pacing interval.
func New(maker AssetMaker, progress Progress) *Runner {
	return &Runner{maker: maker, progress: progress, interval: DefaultPacingInterval}
}

// NewWithInterval creates a runner with a custom pacing interval. Used by
// tests to keep runs fast.
func NewWithInterval(maker AssetMaker, progress Progress, interval time.Duration) *Runner {
	return &Runner{maker: maker, progress: progress, interval: interval}
}

// Run executes the jobs in plan order, one at a time. Job i+1 does not start
// until job i has settled, and the pacing interval elapses between the two.
// A failing job is reported through the observer and skipped; the sequence
// continues. Returns the number of successes, and ErrAllGenerationsFailed
// when a non-empty plan produced none.
func (r *Runner) Run(ctx context.Context, images []imagecodec.ReferenceImage, jobs []plan.Job) (int, error) {
	total := len(jobs)
	succeeded := 0

	log.Info().
		Int("jobs", total).
		Int("reference_images", len(images)).
		Msg("Starting generation run")

	for i, job := range jobs {
		if i > 0 {
			select {
			case <-time.After(r.interval):
			case <-ctx.Done():
				return succeeded, ctx.Err()
			}
		}

		r.progress.OnProgress(i, total)
		log.Info().
			Int("job", i+1).
			Int("of", total).
			Str("category", job.Category).
			Str("layout", string(job.Layout)).
			Msg("Generating")

		result, err := r.maker.Generate(ctx, images, job.VisualPrompt)
		if err != nil {
			var refusal *generator.RefusalError
			if errors.As(err, &refusal) {
				log.Warn().Int("job", i+1).Str("reason", refusal.Reason).Msg("Job refused by capability")
			} else {
				log.Error().Err(err).Int("job", i+1).Msg("Job failed")
			}
			r.progress.OnJobError(i, job, err)
			continue
		}

		asset := store.Asset{
			ID:        uuid.NewString(),
			ImageURI:  imagecodec.EncodeDataURI(result.Data, result.MIME),
			Prompt:    job.VisualPrompt,
			Category:  job.Category,
			Layout:    string(job.Layout),
			CreatedAt: time.Now(),
		}
		r.progress.OnResult(asset)
		succeeded++
	}

	if total > 0 && succeeded == 0 {
		log.Error().Int("jobs", total).Msg("Every job in the run failed")
		return 0, ErrAllGenerationsFailed
	}

	log.Info().
		Int("succeeded", succeeded).
		Int("failed", total-succeeded).
		Msg("Generation run complete")
	return succeeded, nil
}
