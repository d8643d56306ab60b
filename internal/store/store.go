package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/product-studio-cli/internal/imagecodec"
)

// HistoryLimit caps the on-device history at the 20 most recent assets.
const HistoryLimit = 20

// historyKey is the persistence key for the serialized history list.
const historyKey = "history"

// ErrUnknownAsset is returned when a regeneration targets an id the store
// has never published. Regenerating a job that a running batch has not yet
// published is rejected explicitly rather than raced.
var ErrUnknownAsset = errors.New("unknown asset id")

// Store holds the session gallery and the bounded history.
//
// The two collections are independent copies that share ids when entries
// originated from the same job. Every create/update writes both, matched
// independently by id, and an id missing from one collection is a silent
// no-op there. All mutations are scoped to a single id: a batch run and an
// out-of-band regeneration may touch the store concurrently.
type Store struct {
	mu      sync.Mutex
	gallery []Asset
	history []Asset // most-recent-first
	kv      KeyValueStore
}

// New creates a store and loads any persisted history from kv.
func New(kv KeyValueStore) *Store {
	s := &Store{kv: kv}
	s.loadHistory()
	return s
}

// Publish records a newly generated asset: appended to the gallery, prepended
// to history, history trimmed to the bound, history persisted best-effort.
// A missing thumbnail is derived from the image before storing.
func (s *Store) Publish(asset Asset) {
	if asset.ThumbURI == "" {
		asset.ThumbURI = deriveThumb(asset.ImageURI)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.gallery = append(s.gallery, asset)
	s.history = append([]Asset{asset}, s.history...)
	if len(s.history) > HistoryLimit {
		s.history = s.history[:HistoryLimit]
	}

	log.Debug().
		Str("id", asset.ID).
		Str("category", asset.Category).
		Int("gallery_size", len(s.gallery)).
		Int("history_size", len(s.history)).
		Msg("Asset published")

	s.saveHistoryLocked()
}

// BeginRegenerate marks the asset as regenerating and overwrites its stored
// prompt in both collections. Returns ErrUnknownAsset when the id exists in
// neither collection.
func (s *Store) BeginRegenerate(id, newPrompt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, list := range [][]Asset{s.gallery, s.history} {
		for i := range list {
			if list[i].ID == id {
				list[i].Regenerating = true
				list[i].Prompt = newPrompt
				found = true
			}
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, id)
	}

	s.saveHistoryLocked()
	return nil
}

// CompleteRegenerate replaces the asset's image bytes, clears the
// regenerating flag, and refreshes the timestamp, in both collections.
func (s *Store) CompleteRegenerate(id string, imageData []byte, mimeType string) {
	imageURI := imagecodec.EncodeDataURI(imageData, mimeType)
	thumbURI := deriveThumb(imageURI)
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, list := range [][]Asset{s.gallery, s.history} {
		for i := range list {
			if list[i].ID == id {
				list[i].ImageURI = imageURI
				list[i].ThumbURI = thumbURI
				list[i].Regenerating = false
				list[i].CreatedAt = now
			}
		}
	}

	log.Debug().Str("id", id).Msg("Regeneration applied")
	s.saveHistoryLocked()
}

// FailRegenerate clears only the regenerating flag, leaving the prior image
// bytes and prompt intact. A failed regeneration must never destroy the
// previous good asset, and the flag must always be resettable.
func (s *Store) FailRegenerate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, list := range [][]Asset{s.gallery, s.history} {
		for i := range list {
			if list[i].ID == id {
				list[i].Regenerating = false
			}
		}
	}

	s.saveHistoryLocked()
}

// ClearHistory empties the history only; the gallery is unaffected. The
// surrounding UI owns user confirmation.
func (s *Store) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = nil
	if err := s.kv.Remove(historyKey); err != nil {
		log.Warn().Err(err).Msg("Failed to remove persisted history")
	}
}

// Gallery returns a copy of the session gallery in publish order.
func (s *Store) Gallery() []Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Asset(nil), s.gallery...)
}

// History returns a copy of the history, most recent first.
func (s *Store) History() []Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Asset(nil), s.history...)
}

// Get looks an asset up by id, preferring the gallery copy.
func (s *Store) Get(id string) (Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.gallery {
		if s.gallery[i].ID == id {
			return s.gallery[i], true
		}
	}
	for i := range s.history {
		if s.history[i].ID == id {
			return s.history[i], true
		}
	}
	return Asset{}, false
}

// loadHistory restores persisted history. Any failure starts the session
// with an empty history; persistence is a best-effort cache, not a source of
// truth worth failing startup over.
func (s *Store) loadHistory() {
	data, err := s.kv.Get(historyKey)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load history, starting empty")
		return
	}
	if data == nil {
		return
	}

	var history []Asset
	if err := json.Unmarshal(data, &history); err != nil {
		log.Warn().Err(err).Msg("Persisted history is corrupt, starting empty")
		return
	}
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}
	s.history = history
	log.Debug().Int("entries", len(history)).Msg("History loaded")
}

// saveHistoryLocked persists the history, degrading on capacity errors by
// trimming to half and retrying once. The store keeps operating in memory
// when persistence is unavailable. Caller must hold s.mu.
func (s *Store) saveHistoryLocked() {
	err := s.writeHistoryLocked()
	if err == nil {
		return
	}
	if !errors.Is(err, ErrCapacity) {
		log.Warn().Err(err).Msg("Failed to persist history")
		return
	}

	s.history = s.history[:len(s.history)/2]
	log.Warn().
		Int("trimmed_to", len(s.history)).
		Msg("History persistence hit capacity, trimmed and retrying")

	if err := s.writeHistoryLocked(); err != nil {
		log.Warn().Err(err).Msg("History persistence still failing, continuing in memory")
	}
}

func (s *Store) writeHistoryLocked() error {
	data, err := json.Marshal(s.history)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	return s.kv.Set(historyKey, data)
}

// deriveThumb builds a thumbnail data URI from a full-size image data URI.
// Thumbnail failure is not worth failing a publish; an empty ThumbURI tells
// the caller to fall back to the full image.
func deriveThumb(imageURI string) string {
	data, _, err := imagecodec.DecodeDataURI(imageURI)
	if err != nil {
		return ""
	}
	thumb, mime, err := Thumbnail(data, DefaultThumbnailMaxDimension)
	if err != nil {
		log.Debug().Err(err).Msg("Thumbnail generation failed, using full image")
		return ""
	}
	return imagecodec.EncodeDataURI(thumb, mime)
}
