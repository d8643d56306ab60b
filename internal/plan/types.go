// Package plan holds the strategy model for a batch run and the planner that
// turns reference images plus a brief into an ordered list of generation jobs.
package plan

import "fmt"

// Tone is the overall mood requested for a campaign.
type Tone string

// The four campaign tones offered by the studio.
const (
	ToneVibrant Tone = "vibrant"
	ToneMinimal Tone = "minimal"
	ToneLuxury  Tone = "luxury"
	TonePlayful Tone = "playful"
)

// Tones lists every valid tone, in display order.
var Tones = []Tone{ToneVibrant, ToneMinimal, ToneLuxury, TonePlayful}

// Valid reports whether t is one of the fixed tones.
func (t Tone) Valid() bool {
	for _, known := range Tones {
		if t == known {
			return true
		}
	}
	return false
}

// LayoutType tags a generation job with the marketing surface it targets.
type LayoutType string

// The eight layout tags the planner may assign.
const (
	LayoutSquarePost LayoutType = "square_post"
	LayoutStory      LayoutType = "story"
	LayoutBanner     LayoutType = "banner"
	LayoutLifestyle  LayoutType = "lifestyle"
	LayoutFlatLay    LayoutType = "flat_lay"
	LayoutCloseup    LayoutType = "closeup"
	LayoutUGCStyle   LayoutType = "ugc_style"
	LayoutPromoText  LayoutType = "promo_text"
)

// LayoutTypes lists every known layout tag, in the order shown to the model.
var LayoutTypes = []LayoutType{
	LayoutSquarePost, LayoutStory, LayoutBanner, LayoutLifestyle,
	LayoutFlatLay, LayoutCloseup, LayoutUGCStyle, LayoutPromoText,
}

// Valid reports whether l is one of the known layout tags. Unknown tags from
// the model are tolerated downstream; Valid exists for flag validation.
func (l LayoutType) Valid() bool {
	for _, known := range LayoutTypes {
		if l == known {
			return true
		}
	}
	return false
}

// StrategyBrief is the immutable input snapshot for one planning call.
type StrategyBrief struct {
	// Category is the product category (required).
	Category string
	// Tone is one of the fixed campaign tones.
	Tone Tone
	// Notes is freeform campaign direction from the user; may be empty.
	Notes string
	// Guidelines is persisted brand-guideline text; embedded verbatim into
	// the planning instruction with override-everything wording. May be empty.
	Guidelines string
	// TrendSummary is the researcher's output; empty until research completes.
	TrendSummary string
}

// Validate checks the required fields of a brief.
func (b StrategyBrief) Validate() error {
	if b.Category == "" {
		return fmt.Errorf("strategy brief: category is required")
	}
	if b.Tone != "" && !b.Tone.Valid() {
		return fmt.Errorf("strategy brief: unknown tone %q (valid: %v)", b.Tone, Tones)
	}
	return nil
}

// Job is one planned generation: a concept label, the full visual prompt for
// the image model, and the layout tag it targets.
type Job struct {
	Category     string     `json:"category"`
	VisualPrompt string     `json:"visualPrompt"`
	Layout       LayoutType `json:"layoutType"`
}

// TargetJobCount is the number of jobs the planner asks for. The count is a
// prompt convention, not a hard bound: the model may return fewer or more and
// the sequencer tolerates any length.
const TargetJobCount = 7
