package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fpang/product-studio-cli/internal/imagecodec"
	"github.com/fpang/product-studio-cli/internal/store"
	"github.com/fpang/product-studio-cli/internal/studio"
)

var (
	studioImageFlags  []string
	studioShotType    string
	studioTheme       string
	studioLighting    string
	studioComposition string
	studioBackground  string
	studioElements    []string
	studioStyleRef    string
	studioCustom      string
	studioRenderText  string
	studioBrandVibe   bool
	studioOutDir      string
)

var studioCmd = &cobra.Command{
	Use:   "studio",
	Short: "Generate a single fully-specified product shot",
	Long: `Studio mode generates one image from an explicit shot specification
instead of a planned batch. Every control has a fixed option set; run with
an invalid value to see the valid choices.`,
	Run: runStudio,
}

func init() {
	studioCmd.Flags().StringArrayVarP(&studioImageFlags, "image", "i", nil, "Reference product image (repeatable, order matters)")
	studioCmd.Flags().StringVar(&studioShotType, "shot", string(studio.ShotPackshot), "Shot type: packshot, lifestyle, editorial")
	studioCmd.Flags().StringVar(&studioTheme, "theme", "studio", "Scene theme")
	studioCmd.Flags().StringVar(&studioLighting, "lighting", "softbox", "Lighting style")
	studioCmd.Flags().StringVar(&studioComposition, "composition", "centered", "Composition")
	studioCmd.Flags().StringVar(&studioBackground, "background", "plain", "Background treatment")
	studioCmd.Flags().StringArrayVar(&studioElements, "element", nil, "Scene element to include (repeatable)")
	studioCmd.Flags().StringVar(&studioStyleRef, "style-ref", "", "Style reference image file")
	studioCmd.Flags().StringVar(&studioCustom, "custom", "", "Freeform instructions appended to the prompt")
	studioCmd.Flags().StringVar(&studioRenderText, "render-text", "", "Exact text the image must contain")
	studioCmd.Flags().BoolVar(&studioBrandVibe, "brand-vibe", false, "Apply saved brand guidelines to the shot")
	studioCmd.Flags().StringVarP(&studioOutDir, "out-dir", "o", "studio-output", "Directory for the generated image (empty to skip writing files)")
	rootCmd.AddCommand(studioCmd)
}

func runStudio(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	images, err := loadReferenceImages(studioImageFlags)
	if err != nil {
		fail("%v", err)
	}

	cfg := studio.ShotConfig{
		Theme:              studioTheme,
		Lighting:           studioLighting,
		Composition:        studioComposition,
		Background:         studioBackground,
		CustomInstructions: studioCustom,
		MatchBrandVibe:     studioBrandVibe,
	}
	for _, e := range studioElements {
		cfg = cfg.ToggleElement(e)
	}
	if studioStyleRef != "" {
		data, err := os.ReadFile(studioStyleRef)
		if err != nil {
			fail("failed to read style reference %s: %v", studioStyleRef, err)
		}
		cfg.ReferenceImage = &imagecodec.ReferenceImage{Data: data, MIME: imagecodec.SniffMIME(data)}
	}

	app, err := newCapabilityApp(ctx)
	if err != nil {
		fail("%v", err)
	}

	prompt, err := studio.BuildPrompt(cfg, studio.ShotType(studioShotType), studioRenderText, app.state.Guidelines())
	if err != nil {
		fail("%v", err)
	}

	fmt.Println("Generating studio shot...")
	result, err := app.gen.GenerateParts(ctx, studio.BuildParts(images.Snapshot(), cfg), prompt)
	if err != nil {
		fail("%v", err)
	}

	asset := store.Asset{
		ID:        uuid.NewString(),
		ImageURI:  imagecodec.EncodeDataURI(result.Data, result.MIME),
		Prompt:    prompt,
		Category:  "studio shot",
		Layout:    "studio",
		CreatedAt: time.Now(),
	}
	app.store.Publish(asset)
	fmt.Printf("Generated %s\n", asset.ID)

	if studioOutDir != "" {
		if err := writeAssetFile(studioOutDir, asset); err != nil {
			fail("failed to write image: %v", err)
		}
	}
}
