package imagecodec

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

// pngHeader is enough of a PNG signature for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestDataURIRoundTrip(t *testing.T) {
	uri := EncodeDataURI(pngHeader, "image/png")
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("EncodeDataURI() = %q", uri)
	}

	data, mime, err := DecodeDataURI(uri)
	if err != nil {
		t.Fatalf("DecodeDataURI() unexpected error: %v", err)
	}
	if !bytes.Equal(data, pngHeader) {
		t.Error("payload did not round-trip")
	}
	if mime != "image/png" {
		t.Errorf("mime = %q, want image/png", mime)
	}
}

func TestEncodeDataURISniffsMissingMIME(t *testing.T) {
	uri := EncodeDataURI(pngHeader, "")
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("EncodeDataURI() = %q, want sniffed image/png", uri)
	}
}

func TestDecodeDataURIBareBase64(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString(pngHeader)

	data, mime, err := DecodeDataURI(payload)
	if err != nil {
		t.Fatalf("DecodeDataURI() unexpected error: %v", err)
	}
	if !bytes.Equal(data, pngHeader) {
		t.Error("payload did not decode")
	}
	if mime != "image/png" {
		t.Errorf("mime = %q, want sniffed image/png", mime)
	}
}

func TestDecodeDataURIErrors(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{"no payload separator", "data:image/png;base64"},
		{"invalid base64", "data:image/png;base64,!!!not-base64!!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := DecodeDataURI(tt.uri); err == nil {
				t.Errorf("DecodeDataURI(%q) expected error", tt.uri)
			}
		})
	}
}

func TestStripDataURIPrefix(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"with prefix", "data:image/png;base64,AAAA", "AAAA"},
		{"bare payload", "AAAA", "AAAA"},
		{"comma without data prefix", "a,b", "a,b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripDataURIPrefix(tt.input); got != tt.expected {
				t.Errorf("StripDataURIPrefix(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestReferenceSetOrderAndRemoval(t *testing.T) {
	set := &ReferenceSet{}
	set.Add([]byte("one"), "image/png")
	set.Add([]byte("two"), "image/jpeg")
	set.Add([]byte("three"), "image/png")

	if set.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", set.Len())
	}

	if err := set.RemoveAt(1); err != nil {
		t.Fatalf("RemoveAt() unexpected error: %v", err)
	}
	snap := set.Snapshot()
	if string(snap[0].Data) != "one" || string(snap[1].Data) != "three" {
		t.Errorf("order after removal = %q, %q", snap[0].Data, snap[1].Data)
	}

	if err := set.RemoveAt(5); err == nil {
		t.Error("RemoveAt() expected error for out-of-range index")
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	set := &ReferenceSet{}
	set.Add([]byte("one"), "image/png")

	snap := set.Snapshot()
	set.Add([]byte("two"), "image/png")
	if len(snap) != 1 {
		t.Error("snapshot grew with the set")
	}

	snap[0].Data[0] = 'X'
	fresh := set.Snapshot()
	if fresh[0].Data[0] == 'X' {
		t.Error("mutating a snapshot leaked into the set")
	}
}
