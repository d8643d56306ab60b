package studio

import (
	"strings"
	"testing"
)

func validConfig() ShotConfig {
	return ShotConfig{
		Theme:       "studio",
		Lighting:    "softbox",
		Composition: "centered",
		Background:  "plain",
	}
}

func TestShotConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ShotConfig)
		wantErr string
	}{
		{"valid", func(c *ShotConfig) {}, ""},
		{"bad theme", func(c *ShotConfig) { c.Theme = "cyberpunk" }, "theme"},
		{"bad lighting", func(c *ShotConfig) { c.Lighting = "strobe" }, "lighting"},
		{"bad composition", func(c *ShotConfig) { c.Composition = "diagonal" }, "composition"},
		{"bad background", func(c *ShotConfig) { c.Background = "void" }, "background"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestToggleElement(t *testing.T) {
	cfg := validConfig()

	on := cfg.ToggleElement("props")
	if !on.Elements["props"] {
		t.Error("element not enabled after toggle")
	}
	if cfg.Elements["props"] {
		t.Error("toggle mutated the original config")
	}

	off := on.ToggleElement("props")
	if off.Elements["props"] {
		t.Error("element still enabled after second toggle")
	}
	if !on.Elements["props"] {
		t.Error("second toggle mutated the intermediate config")
	}
}

func TestElementListSorted(t *testing.T) {
	cfg := validConfig().
		ToggleElement("steam").
		ToggleElement("beans").
		ToggleElement("cup")

	got := cfg.ElementList()
	want := []string{"beans", "cup", "steam"}
	if len(got) != len(want) {
		t.Fatalf("ElementList() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ElementList() = %v, want %v", got, want)
		}
	}
}

func TestBuildPromptGuidelinesGating(t *testing.T) {
	guidelines := "always warm earth tones"

	cfg := validConfig()
	prompt, err := BuildPrompt(cfg, ShotPackshot, "", guidelines)
	if err != nil {
		t.Fatalf("BuildPrompt() unexpected error: %v", err)
	}
	if strings.Contains(prompt, guidelines) {
		t.Error("guidelines leaked into the prompt without brand-vibe opt-in")
	}

	cfg.MatchBrandVibe = true
	prompt, err = BuildPrompt(cfg, ShotPackshot, "", guidelines)
	if err != nil {
		t.Fatalf("BuildPrompt() unexpected error: %v", err)
	}
	if !strings.Contains(prompt, guidelines) {
		t.Error("guidelines missing despite brand-vibe opt-in")
	}
}

func TestBuildPromptRenderText(t *testing.T) {
	prompt, err := BuildPrompt(validConfig(), ShotEditorial, `Summer "Sale"`, "")
	if err != nil {
		t.Fatalf("BuildPrompt() unexpected error: %v", err)
	}
	if !strings.Contains(prompt, "Summer Sale") {
		t.Errorf("prompt missing the render text (quotes stripped): %q", prompt)
	}
}

func TestBuildPromptRejectsInvalidInput(t *testing.T) {
	if _, err := BuildPrompt(validConfig(), "portrait", "", ""); err == nil {
		t.Error("BuildPrompt() expected error for unknown shot type")
	}

	bad := validConfig()
	bad.Theme = "cyberpunk"
	if _, err := BuildPrompt(bad, ShotPackshot, "", ""); err == nil {
		t.Error("BuildPrompt() expected error for invalid config")
	}
}
