package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fpang/product-studio-cli/internal/plan"
)

var (
	regenPrompt    string
	regenText      string
	regenTextIndex int
	regenImages    []string
	regenOutDir    string
)

var regenerateCmd = &cobra.Command{
	Use:   "regenerate <asset-id>",
	Short: "Re-run generation for one existing asset",
	Long: `Regenerate replaces one asset's image in place. The prompt can be
edited wholesale with --prompt, or only its on-image text can be swapped
with --text, which rewrites the matching "Render the text" marker and
leaves the rest of the prompt untouched. If generation fails the previous
image is kept.`,
	Args: cobra.ExactArgs(1),
	Run:  runRegenerate,
}

func init() {
	regenerateCmd.Flags().StringVarP(&regenPrompt, "prompt", "p", "", "Replacement visual prompt")
	regenerateCmd.Flags().StringVar(&regenText, "text", "", "Replacement for the on-image text literal")
	regenerateCmd.Flags().IntVar(&regenTextIndex, "text-index", 0, "Which on-image text marker --text replaces")
	regenerateCmd.Flags().StringArrayVarP(&regenImages, "image", "i", nil, "Reference product image (repeatable, order matters)")
	regenerateCmd.Flags().StringVarP(&regenOutDir, "out-dir", "o", "studio-output", "Directory for the regenerated image (empty to skip writing files)")
	rootCmd.AddCommand(regenerateCmd)
}

func runRegenerate(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	id := args[0]

	if regenPrompt != "" && regenText != "" {
		fail("--prompt and --text are mutually exclusive")
	}

	images, err := loadReferenceImages(regenImages)
	if err != nil {
		fail("%v", err)
	}

	app, err := newCapabilityApp(ctx)
	if err != nil {
		fail("%v", err)
	}

	asset, ok := app.store.Get(id)
	if !ok {
		fail("unknown asset id %s", id)
	}

	prompt := asset.Prompt
	switch {
	case regenPrompt != "":
		prompt = regenPrompt
	case regenText != "":
		spans := plan.ParsePromptText(prompt)
		if len(spans) == 0 {
			fail("asset %s has no on-image text to replace", id)
		}
		prompt, _, err = plan.ReplaceLiteral(prompt, spans, regenTextIndex, regenText)
		if err != nil {
			fail("%v", err)
		}
	}

	if err := app.store.BeginRegenerate(id, prompt); err != nil {
		fail("%v", err)
	}

	fmt.Printf("Regenerating %s...\n", id)
	result, err := app.gen.Generate(ctx, images.Snapshot(), prompt)
	if err != nil {
		app.store.FailRegenerate(id)
		fail("%v", err)
	}

	app.store.CompleteRegenerate(id, result.Data, result.MIME)
	fmt.Printf("Regenerated %s\n", id)

	if regenOutDir != "" {
		updated, ok := app.store.Get(id)
		if !ok {
			return
		}
		if err := writeAssetFile(regenOutDir, updated); err != nil {
			fail("failed to write image: %v", err)
		}
	}
}
