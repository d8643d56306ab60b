package store

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func decodeDimensions(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode thumbnail: %v", err)
	}
	return cfg.Width, cfg.Height
}

func TestThumbnailDownscales(t *testing.T) {
	data := encodeTestPNG(t, 1024, 512)

	thumb, mime, err := Thumbnail(data, 256)
	if err != nil {
		t.Fatalf("Thumbnail() unexpected error: %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("mime = %q, want image/jpeg", mime)
	}

	w, h := decodeDimensions(t, thumb)
	if w != 256 || h != 128 {
		t.Errorf("thumbnail = %dx%d, want 256x128", w, h)
	}
}

func TestThumbnailKeepsSmallImages(t *testing.T) {
	data := encodeTestPNG(t, 100, 80)

	thumb, _, err := Thumbnail(data, 256)
	if err != nil {
		t.Fatalf("Thumbnail() unexpected error: %v", err)
	}
	w, h := decodeDimensions(t, thumb)
	if w != 100 || h != 80 {
		t.Errorf("thumbnail = %dx%d, want 100x80 unchanged", w, h)
	}
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	if _, _, err := Thumbnail([]byte("not an image"), 256); err == nil {
		t.Error("Thumbnail() expected error for non-image bytes")
	}
}

func TestThumbnailDimensions(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"wide", 1000, 500, 250, 250, 125},
		{"tall", 500, 1000, 250, 125, 250},
		{"square", 600, 600, 300, 300, 300},
		{"already small", 200, 100, 256, 200, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := thumbnailDimensions(tt.w, tt.h, tt.max)
			if gotW != tt.wantW || gotH != tt.wantH {
				t.Errorf("thumbnailDimensions(%d, %d, %d) = %d, %d, want %d, %d",
					tt.w, tt.h, tt.max, gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}
}
