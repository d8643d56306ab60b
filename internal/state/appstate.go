// Package state holds the small per-user application state that survives
// sessions, loaded at startup and saved on every change through an injected
// persistence collaborator. There is deliberately no package-level singleton.
package state

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/fpang/product-studio-cli/internal/store"
)

// guidelinesKey is the persistence key for brand-guideline text.
const guidelinesKey = "guidelines"

// AppState is the persisted per-user state: currently the brand guidelines
// that planning and studio prompts embed verbatim.
type AppState struct {
	guidelines string
	kv         store.KeyValueStore
}

// Load reads persisted state from kv. A read failure starts with empty
// state; guidelines are convenience data, not worth failing startup over.
func Load(kv store.KeyValueStore) *AppState {
	s := &AppState{kv: kv}

	data, err := kv.Get(guidelinesKey)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load guidelines, starting empty")
		return s
	}
	s.guidelines = string(data)
	return s
}

// Guidelines returns the current brand-guideline text; empty when unset.
func (s *AppState) Guidelines() string {
	return s.guidelines
}

// SetGuidelines replaces the guideline text and persists it immediately.
func (s *AppState) SetGuidelines(text string) error {
	s.guidelines = text
	if err := s.kv.Set(guidelinesKey, []byte(text)); err != nil {
		return fmt.Errorf("failed to persist guidelines: %w", err)
	}
	return nil
}

// ClearGuidelines removes the guideline text from memory and disk.
func (s *AppState) ClearGuidelines() error {
	s.guidelines = ""
	if err := s.kv.Remove(guidelinesKey); err != nil {
		return fmt.Errorf("failed to remove guidelines: %w", err)
	}
	return nil
}
