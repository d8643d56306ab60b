package store

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// DefaultThumbnailMaxDimension is the maximum dimension (width or height)
// for gallery/history thumbnails.
const DefaultThumbnailMaxDimension = 256

// Thumbnail downscales raw image bytes to a JPEG thumbnail whose longest
// side is at most maxDimension. Images already within the bound are
// re-encoded without resizing so listings carry a consistent format.
func Thumbnail(data []byte, maxDimension int) ([]byte, string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	newWidth, newHeight := thumbnailDimensions(bounds.Dx(), bounds.Dy(), maxDimension)

	out := img
	if newWidth != bounds.Dx() || newHeight != bounds.Dy() {
		resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
		out = resized
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: 80}); err != nil {
		return nil, "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// thumbnailDimensions calculates new dimensions maintaining aspect ratio.
func thumbnailDimensions(width, height, maxDimension int) (int, int) {
	if width <= maxDimension && height <= maxDimension {
		return width, height
	}

	if width > height {
		return maxDimension, int(float64(height) * float64(maxDimension) / float64(width))
	}
	return int(float64(width) * float64(maxDimension) / float64(height)), maxDimension
}
