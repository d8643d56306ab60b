package studio

import (
	"fmt"
	"strings"

	"github.com/fpang/product-studio-cli/internal/assets"
	"github.com/fpang/product-studio-cli/internal/gemini"
	"github.com/fpang/product-studio-cli/internal/imagecodec"
)

// BuildPrompt renders the generation prompt for a single studio shot.
//
// renderText, when non-empty, becomes a literal text marker so the image
// model renders the exact wording. guidelines are appended with override
// wording only when the config opts into matching the brand vibe.
func BuildPrompt(cfg ShotConfig, shotType ShotType, renderText, guidelines string) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	valid := false
	for _, known := range ShotTypes {
		if shotType == known {
			valid = true
		}
	}
	if !valid {
		return "", fmt.Errorf("studio config: unknown shot type %q (valid: %v)", shotType, ShotTypes)
	}

	if !cfg.MatchBrandVibe {
		guidelines = ""
	}

	prompt := assets.RenderStudioShotPrompt(assets.StudioShotData{
		ShotType:           string(shotType),
		Theme:              cfg.Theme,
		Lighting:           cfg.Lighting,
		Composition:        cfg.Composition,
		Background:         cfg.Background,
		Elements:           cfg.ElementList(),
		CustomInstructions: cfg.CustomInstructions,
		Guidelines:         guidelines,
		RenderText:         strings.ReplaceAll(renderText, `"`, ""),
		HasStyleReference:  cfg.ReferenceImage != nil,
	})
	return prompt, nil
}

// BuildParts assembles the reference parts for a studio shot: the product
// images first, then the optional style-reference image from the config.
func BuildParts(images []imagecodec.ReferenceImage, cfg ShotConfig) []gemini.Part {
	parts := make([]gemini.Part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, gemini.ImagePart(img.Data, img.MIME))
	}
	if cfg.ReferenceImage != nil {
		parts = append(parts, gemini.ImagePart(cfg.ReferenceImage.Data, cfg.ReferenceImage.MIME))
	}
	return parts
}
