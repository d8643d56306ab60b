// Package studio implements the single-shot authoring mode: one fully
// user-specified product shot instead of a planned batch.
package studio

import (
	"fmt"
	"sort"

	"github.com/fpang/product-studio-cli/internal/imagecodec"
)

// ShotType selects the photographic genre of a single shot.
type ShotType string

// The studio shot types.
const (
	ShotPackshot  ShotType = "packshot"
	ShotLifestyle ShotType = "lifestyle"
	ShotEditorial ShotType = "editorial"
)

// ShotTypes lists every valid shot type.
var ShotTypes = []ShotType{ShotPackshot, ShotLifestyle, ShotEditorial}

// Fixed option sets for the studio controls. The UI replaces the whole
// config value on each edit; nothing is merged.
var (
	Themes       = []string{"studio", "outdoor", "urban", "seasonal", "abstract"}
	Lightings    = []string{"softbox", "golden_hour", "dramatic", "neon", "natural"}
	Compositions = []string{"centered", "rule_of_thirds", "top_down", "macro"}
	Backgrounds  = []string{"plain", "gradient", "textured", "environmental"}
)

// ShotConfig is the full specification of one studio shot. Each UI edit
// produces a complete replacement value.
type ShotConfig struct {
	Theme              string
	Lighting           string
	Composition        string
	Background         string
	Elements           map[string]bool // set membership, toggled by the UI
	ReferenceImage     *imagecodec.ReferenceImage
	CustomInstructions string
	MatchBrandVibe     bool
}

// ToggleElement flips membership of an element and returns the new config,
// leaving the receiver untouched.
func (c ShotConfig) ToggleElement(element string) ShotConfig {
	elements := make(map[string]bool, len(c.Elements)+1)
	for k, v := range c.Elements {
		elements[k] = v
	}
	if elements[element] {
		delete(elements, element)
	} else {
		elements[element] = true
	}
	c.Elements = elements
	return c
}

// ElementList returns the enabled elements in stable order.
func (c ShotConfig) ElementList() []string {
	out := make([]string, 0, len(c.Elements))
	for e, on := range c.Elements {
		if on {
			out = append(out, e)
		}
	}
	sort.Strings(out)
	return out
}

// Validate checks that every one-of field holds a known option.
func (c ShotConfig) Validate() error {
	checks := []struct {
		name    string
		value   string
		options []string
	}{
		{"theme", c.Theme, Themes},
		{"lighting", c.Lighting, Lightings},
		{"composition", c.Composition, Compositions},
		{"background", c.Background, Backgrounds},
	}
	for _, check := range checks {
		if !contains(check.options, check.value) {
			return fmt.Errorf("studio config: unknown %s %q (valid: %v)", check.name, check.value, check.options)
		}
	}
	return nil
}

func contains(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
