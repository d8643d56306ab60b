package state

import (
	"errors"
	"testing"
)

// memKV is a minimal in-memory KeyValueStore for state tests.
type memKV struct {
	values map[string][]byte
	getErr error
}

func newMemKV() *memKV {
	return &memKV{values: make(map[string][]byte)}
}

func (m *memKV) Get(key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (m *memKV) Set(key string, value []byte) error {
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Remove(key string) error {
	delete(m.values, key)
	return nil
}

func TestGuidelinesLifecycle(t *testing.T) {
	kv := newMemKV()
	s := Load(kv)
	if s.Guidelines() != "" {
		t.Errorf("fresh state guidelines = %q, want empty", s.Guidelines())
	}

	if err := s.SetGuidelines("warm earth tones only"); err != nil {
		t.Fatalf("SetGuidelines() unexpected error: %v", err)
	}
	if s.Guidelines() != "warm earth tones only" {
		t.Errorf("Guidelines() = %q", s.Guidelines())
	}

	// A new session sees the persisted value.
	if got := Load(kv).Guidelines(); got != "warm earth tones only" {
		t.Errorf("reloaded guidelines = %q", got)
	}

	if err := s.ClearGuidelines(); err != nil {
		t.Fatalf("ClearGuidelines() unexpected error: %v", err)
	}
	if s.Guidelines() != "" {
		t.Error("guidelines not cleared in memory")
	}
	if got := Load(kv).Guidelines(); got != "" {
		t.Errorf("guidelines survived a clear: %q", got)
	}
}

func TestLoadToleratesReadFailure(t *testing.T) {
	kv := newMemKV()
	kv.getErr = errors.New("disk on fire")

	s := Load(kv)
	if s == nil {
		t.Fatal("Load() returned nil on read failure")
	}
	if s.Guidelines() != "" {
		t.Errorf("guidelines = %q, want empty after failed load", s.Guidelines())
	}
}
