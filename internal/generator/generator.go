// Package generator produces one marketing image per prompt through the
// Gemini image models, classifying failures into refusal, quota exhaustion,
// and everything else.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fpang/product-studio-cli/internal/assets"
	"github.com/fpang/product-studio-cli/internal/gemini"
	"github.com/fpang/product-studio-cli/internal/imagecodec"
)

// RefusalError is a capability response carrying explanatory text instead of
// image bytes: a deliberate decline, not a transport or quota failure.
type RefusalError struct {
	Reason string
}

func (e *RefusalError) Error() string {
	reason := strings.TrimSpace(e.Reason)
	if reason == "" {
		reason = "no reason given"
	}
	return "generation refused: " + reason
}

// qualityHint is appended to the prompt when falling back to the lower image
// tier, nudging it toward the primary tier's output quality.
const qualityHint = "\n\nRender at the highest quality and detail you can produce: sharp focus, professional product photography."

// ImageModel is the capability surface the generator needs.
type ImageModel interface {
	GenerateImage(ctx context.Context, model string, parts []gemini.Part) (*gemini.ImageResult, error)
}

// Result is one successfully generated image.
type Result struct {
	Data []byte
	MIME string
}

// Generator invokes the image capability with product-fidelity framing and a
// two-tier model fallback.
type Generator struct {
	model    ImageModel
	primary  string
	fallback string
}

// New creates a generator using the default primary/fallback model tiers.
func New(model ImageModel) *Generator {
	return &Generator{
		model:    model,
		primary:  gemini.ModelImagePrimary,
		fallback: gemini.ModelImageFallback,
	}
}

// Generate produces one image for the prompt using the given reference
// images.
func (g *Generator) Generate(ctx context.Context, images []imagecodec.ReferenceImage, prompt string) (*Result, error) {
	parts := make([]gemini.Part, 0, len(images))
	for _, img := range images {
		parts = append(parts, gemini.ImagePart(img.Data, img.MIME))
	}
	return g.GenerateParts(ctx, parts, prompt)
}

// GenerateParts is the pre-built-parts overload used by Studio mode, where
// the reference parts may include a style-reference image beyond the product
// photos. The prompt is wrapped with the fidelity preamble and appended as
// the final part.
//
// The primary tier is tried first. Only a quota-exhaustion signal (HTTP 429
// or a RESOURCE_EXHAUSTED marker) triggers one retry against the fallback
// tier, with a quality hint appended to the prompt; every other primary
// failure propagates as-is. A response carrying text but no image part is a
// refusal. Identical prompts are always re-sent: the capability is not
// idempotent and no caching happens here.
func (g *Generator) GenerateParts(ctx context.Context, refParts []gemini.Part, prompt string) (*Result, error) {
	wrapped := assets.FidelityPreamble + prompt

	result, err := g.callModel(ctx, g.primary, refParts, wrapped)
	if err == nil {
		return result, nil
	}

	var apiErr *gemini.APIError
	if errors.As(err, &apiErr) && apiErr.QuotaExhausted() {
		log.Warn().
			Str("primary", g.primary).
			Str("fallback", g.fallback).
			Msg("Primary image tier quota exhausted, retrying on fallback tier")

		result, fbErr := g.callModel(ctx, g.fallback, refParts, wrapped+qualityHint)
		if fbErr != nil {
			return nil, fmt.Errorf("generation failed on fallback tier: %w", fbErr)
		}
		return result, nil
	}

	return nil, err
}

// callModel performs one capability call and classifies the response.
func (g *Generator) callModel(ctx context.Context, model string, refParts []gemini.Part, prompt string) (*Result, error) {
	parts := make([]gemini.Part, 0, len(refParts)+1)
	parts = append(parts, refParts...)
	parts = append(parts, gemini.TextPart(prompt))

	resp, err := g.model.GenerateImage(ctx, model, parts)
	if err != nil {
		return nil, err
	}

	if resp.ImageData == nil {
		if resp.Text != "" {
			return nil, &RefusalError{Reason: resp.Text}
		}
		return nil, fmt.Errorf("generation failed: capability returned neither image nor text")
	}

	return &Result{Data: resp.ImageData, MIME: resp.ImageMIMEType}, nil
}
