package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/product-studio-cli/internal/imagecodec"
	"github.com/fpang/product-studio-cli/internal/plan"
	"github.com/fpang/product-studio-cli/internal/sequencer"
	"github.com/fpang/product-studio-cli/internal/store"
	"github.com/fpang/product-studio-cli/internal/trends"
)

var (
	expressImageFlags []string
	expressPickFlag   bool
	expressCategory   string
	expressTone       string
	expressNotes      string
	expressSkipTrends bool
	expressOutDir     string
)

var expressCmd = &cobra.Command{
	Use:   "express",
	Short: "Research, plan, and generate a full set of marketing images",
	Long: `Express mode runs the full pipeline: trend research for the category,
a generation plan from the reference images and brief, then one paced
generation call per planned job. Successes appear as they complete; a
failing job is skipped and the run continues.`,
	Run: runExpress,
}

func init() {
	expressCmd.Flags().StringArrayVarP(&expressImageFlags, "image", "i", nil, "Reference product image (repeatable, order matters)")
	expressCmd.Flags().BoolVar(&expressPickFlag, "pick", false, "Pick reference images with a native file dialog")
	expressCmd.Flags().StringVarP(&expressCategory, "category", "c", "", "Product category (required)")
	expressCmd.Flags().StringVarP(&expressTone, "tone", "t", string(plan.ToneVibrant), "Campaign tone: vibrant, minimal, luxury, playful")
	expressCmd.Flags().StringVarP(&expressNotes, "notes", "n", "", "Freeform campaign notes")
	expressCmd.Flags().BoolVar(&expressSkipTrends, "skip-trends", false, "Skip trend research")
	expressCmd.Flags().StringVarP(&expressOutDir, "out-dir", "o", "studio-output", "Directory for generated images (empty to skip writing files)")
	rootCmd.AddCommand(expressCmd)
}

func runExpress(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	paths := expressImageFlags
	if expressPickFlag {
		selected, err := zenity.SelectFileMultiple(
			zenity.Title("Select product photos"),
			zenity.FileFilters{
				{Name: "Images", Patterns: []string{"*.jpg", "*.jpeg", "*.png", "*.webp"}},
			},
		)
		if err != nil {
			if errors.Is(err, zenity.ErrCanceled) {
				fmt.Println("Canceled.")
				return
			}
			fail("file picker failed: %v", err)
		}
		paths = append(paths, selected...)
	}

	images, err := loadReferenceImages(paths)
	if err != nil {
		fail("%v", err)
	}

	app, err := newCapabilityApp(ctx)
	if err != nil {
		fail("%v", err)
	}

	brief := plan.StrategyBrief{
		Category:   expressCategory,
		Tone:       plan.Tone(expressTone),
		Notes:      expressNotes,
		Guidelines: app.state.Guidelines(),
	}
	if err := brief.Validate(); err != nil {
		fail("%v", err)
	}

	if !expressSkipTrends {
		fmt.Printf("Researching visual trends for %q...\n", brief.Category)
		brief.TrendSummary = trends.NewResearcher(app.text).Research(ctx, brief.Category)
	}

	fmt.Println("Planning image concepts...")
	jobs, err := plan.NewPlanner(app.text).Plan(ctx, images.Snapshot(), brief)
	if err != nil {
		fail("%v", err)
	}
	fmt.Printf("Planned %d concepts.\n", len(jobs))

	publisher := &runPublisher{store: app.store, outDir: expressOutDir}
	runner := sequencer.New(app.gen, publisher)

	succeeded, err := runner.Run(ctx, images.Snapshot(), jobs)
	if err != nil {
		fail("%v", err)
	}
	fmt.Printf("Done: %d of %d images generated.\n", succeeded, len(jobs))
}

// runPublisher feeds sequencer events into the asset store and the terminal,
// and optionally writes each image to the output directory as it lands.
type runPublisher struct {
	store  *store.Store
	outDir string
}

func (p *runPublisher) OnProgress(current, total int) {
	fmt.Printf("[%d/%d] generating...\n", current+1, total)
}

func (p *runPublisher) OnResult(asset store.Asset) {
	p.store.Publish(asset)
	fmt.Printf("  ✓ %s  %s (%s)\n", asset.ID, asset.Category, asset.Layout)

	if p.outDir == "" {
		return
	}
	if err := writeAssetFile(p.outDir, asset); err != nil {
		log.Warn().Err(err).Str("id", asset.ID).Msg("Failed to write image file")
	}
}

func (p *runPublisher) OnJobError(index int, job plan.Job, err error) {
	fmt.Printf("  ✗ %s: %v\n", job.Category, err)
}

// writeAssetFile decodes the asset's data URI and writes it under dir, named
// by asset id with an extension matching the MIME type.
func writeAssetFile(dir string, asset store.Asset) error {
	data, mime, err := imagecodec.DecodeDataURI(asset.ImageURI)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	ext := ".png"
	if mime == "image/jpeg" {
		ext = ".jpg"
	}
	path := filepath.Join(dir, asset.ID+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("    saved %s\n", path)
	return nil
}
