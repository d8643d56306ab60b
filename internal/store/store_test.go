package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fpang/product-studio-cli/internal/imagecodec"
)

// memKV is an in-memory KeyValueStore with a switchable capacity failure.
type memKV struct {
	values   map[string][]byte
	failSets int // next N Set calls fail with ErrCapacity
	sets     int
}

func newMemKV() *memKV {
	return &memKV{values: make(map[string][]byte)}
}

func (m *memKV) Get(key string) ([]byte, error) {
	v, ok := m.values[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (m *memKV) Set(key string, value []byte) error {
	m.sets++
	if m.failSets > 0 {
		m.failSets--
		return fmt.Errorf("%w: simulated", ErrCapacity)
	}
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Remove(key string) error {
	delete(m.values, key)
	return nil
}

func testAsset(id string) Asset {
	return Asset{
		ID:        id,
		ImageURI:  imagecodec.EncodeDataURI([]byte("img-"+id), "image/png"),
		Prompt:    "prompt for " + id,
		Category:  "hero",
		Layout:    "square_post",
		CreatedAt: time.Now(),
	}
}

func TestPublishAppearsInBothCollections(t *testing.T) {
	s := New(newMemKV())
	s.Publish(testAsset("a"))
	s.Publish(testAsset("b"))

	gallery := s.Gallery()
	if len(gallery) != 2 || gallery[0].ID != "a" || gallery[1].ID != "b" {
		t.Errorf("gallery order = %v", ids(gallery))
	}

	history := s.History()
	if len(history) != 2 || history[0].ID != "b" || history[1].ID != "a" {
		t.Errorf("history order = %v, want most recent first", ids(history))
	}
}

func TestHistoryBound(t *testing.T) {
	s := New(newMemKV())
	for i := 0; i < HistoryLimit+5; i++ {
		s.Publish(testAsset(fmt.Sprintf("a%02d", i)))
	}

	history := s.History()
	if len(history) != HistoryLimit {
		t.Fatalf("history holds %d entries, want %d", len(history), HistoryLimit)
	}
	if history[0].ID != "a24" {
		t.Errorf("newest entry = %s, want a24", history[0].ID)
	}
	if history[HistoryLimit-1].ID != "a05" {
		t.Errorf("oldest kept entry = %s, want a05", history[HistoryLimit-1].ID)
	}

	// The gallery is not bounded.
	if len(s.Gallery()) != HistoryLimit+5 {
		t.Errorf("gallery holds %d entries, want %d", len(s.Gallery()), HistoryLimit+5)
	}
}

func TestHistoryPersistsAcrossSessions(t *testing.T) {
	kv := newMemKV()
	s := New(kv)
	s.Publish(testAsset("a"))
	s.Publish(testAsset("b"))

	reloaded := New(kv)
	history := reloaded.History()
	if len(history) != 2 || history[0].ID != "b" {
		t.Errorf("reloaded history = %v", ids(history))
	}
	// The gallery is session-scoped and starts empty.
	if len(reloaded.Gallery()) != 0 {
		t.Error("gallery must not be persisted")
	}
}

func TestRegenerateKeepsIdentity(t *testing.T) {
	s := New(newMemKV())
	original := testAsset("a")
	s.Publish(original)

	if err := s.BeginRegenerate("a", "a darker scene"); err != nil {
		t.Fatalf("BeginRegenerate() unexpected error: %v", err)
	}
	mid, _ := s.Get("a")
	if !mid.Regenerating {
		t.Error("asset not flagged as regenerating")
	}
	if mid.Prompt != "a darker scene" {
		t.Errorf("prompt = %q, want the replacement", mid.Prompt)
	}
	if mid.ImageURI != original.ImageURI {
		t.Error("image must be untouched until regeneration completes")
	}

	s.CompleteRegenerate("a", []byte("new-bytes"), "image/png")
	after, ok := s.Get("a")
	if !ok {
		t.Fatal("asset vanished after regeneration")
	}
	if after.ID != "a" {
		t.Errorf("id changed to %q", after.ID)
	}
	if after.Regenerating {
		t.Error("regenerating flag not cleared")
	}
	if after.ImageURI == original.ImageURI {
		t.Error("image bytes not replaced")
	}
	if !after.CreatedAt.After(original.CreatedAt) {
		t.Error("timestamp not refreshed")
	}

	// Both collections carry the update.
	history := s.History()
	if history[0].ImageURI != after.ImageURI {
		t.Error("history entry not updated")
	}
}

func TestFailedRegenerationKeepsPreviousImage(t *testing.T) {
	s := New(newMemKV())
	original := testAsset("a")
	s.Publish(original)

	if err := s.BeginRegenerate("a", "new prompt"); err != nil {
		t.Fatalf("BeginRegenerate() unexpected error: %v", err)
	}
	s.FailRegenerate("a")

	after, _ := s.Get("a")
	if after.Regenerating {
		t.Error("regenerating flag must clear on failure")
	}
	if after.ImageURI != original.ImageURI {
		t.Error("previous image must survive a failed regeneration")
	}
}

func TestRegenerateUnknownID(t *testing.T) {
	s := New(newMemKV())
	s.Publish(testAsset("a"))

	err := s.BeginRegenerate("missing", "prompt")
	if !errors.Is(err, ErrUnknownAsset) {
		t.Errorf("BeginRegenerate() error = %v, want ErrUnknownAsset", err)
	}
}

func TestClearHistoryLeavesGallery(t *testing.T) {
	kv := newMemKV()
	s := New(kv)
	s.Publish(testAsset("a"))
	s.Publish(testAsset("b"))

	s.ClearHistory()

	if len(s.History()) != 0 {
		t.Error("history not cleared")
	}
	if len(s.Gallery()) != 2 {
		t.Error("gallery must survive a history clear")
	}
	if v, _ := kv.Get(historyKey); v != nil {
		t.Error("persisted history not removed")
	}
}

func TestCapacityDegradation(t *testing.T) {
	kv := newMemKV()
	s := New(kv)
	for i := 0; i < 9; i++ {
		s.Publish(testAsset(fmt.Sprintf("a%d", i)))
	}

	// The next persistence attempt hits capacity once; the store trims to
	// half and retries.
	kv.failSets = 1
	s.Publish(testAsset("a9"))

	history := s.History()
	if len(history) != 5 {
		t.Fatalf("history holds %d entries after trim, want 5", len(history))
	}
	if history[0].ID != "a9" {
		t.Errorf("newest entry = %s, want a9", history[0].ID)
	}

	var persisted []Asset
	data, _ := kv.Get(historyKey)
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("persisted history unreadable: %v", err)
	}
	if len(persisted) != 5 {
		t.Errorf("persisted history holds %d entries, want 5", len(persisted))
	}
}

func TestCapacityPersistentFailureKeepsMemoryState(t *testing.T) {
	kv := newMemKV()
	s := New(kv)
	kv.failSets = 1 << 30

	s.Publish(testAsset("a"))
	s.Publish(testAsset("b"))

	// Persistence never succeeds; the in-memory session keeps working and
	// publishes never error.
	if len(s.Gallery()) != 2 {
		t.Error("gallery must keep accepting assets")
	}
}

func TestCorruptHistoryStartsEmpty(t *testing.T) {
	kv := newMemKV()
	kv.values[historyKey] = []byte("{not json")

	s := New(kv)
	if len(s.History()) != 0 {
		t.Error("corrupt history must load as empty")
	}
}

func ids(assets []Asset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.ID
	}
	return out
}
