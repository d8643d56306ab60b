package imagecodec

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
)

// ImageInfo describes a reference image for logging and validation.
type ImageInfo struct {
	Width       int
	Height      int
	CameraMake  string
	CameraModel string
	DateTaken   time.Time
	HasDate     bool
}

// Inspect extracts pixel dimensions and EXIF camera metadata from raw image
// bytes. Either source may be missing (screenshots, exports); whatever is
// found is returned and the rest left zero. Inspection never fails the
// caller; a photo that cannot be parsed is still a valid reference image.
func Inspect(data []byte) ImageInfo {
	var info ImageInfo

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		info.Width = cfg.Width
		info.Height = cfg.Height
	} else {
		log.Debug().Err(err).Msg("Could not decode image dimensions")
	}

	exifData, err := imagemeta.Decode(bytes.NewReader(data))
	if err != nil {
		log.Debug().Err(err).Msg("Could not decode EXIF metadata")
		return info
	}

	info.CameraMake = strings.TrimSpace(exifData.Make)
	info.CameraModel = strings.TrimSpace(exifData.Model)
	if !exifData.DateTimeOriginal().IsZero() {
		info.DateTaken = exifData.DateTimeOriginal()
		info.HasDate = true
	} else if !exifData.CreateDate().IsZero() {
		info.DateTaken = exifData.CreateDate()
		info.HasDate = true
	}

	return info
}

// LogReferenceAdded emits a structured record for a newly added reference
// image, including whatever Inspect recovered.
func LogReferenceAdded(index int, data []byte, mimeType string) {
	info := Inspect(data)
	evt := log.Info().
		Int("index", index).
		Int("bytes", len(data)).
		Str("mime", mimeType)
	if info.Width > 0 {
		evt = evt.Int("width", info.Width).Int("height", info.Height)
	}
	if info.CameraMake != "" || info.CameraModel != "" {
		evt = evt.Str("camera", strings.TrimSpace(info.CameraMake+" "+info.CameraModel))
	}
	if info.HasDate {
		evt = evt.Time("taken", info.DateTaken)
	}
	evt.Msg("Reference image added")
}
