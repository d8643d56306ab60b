package imagecodec

import "fmt"

// ReferenceImage is one user-supplied product photo.
type ReferenceImage struct {
	Data []byte
	MIME string
}

// ReferenceSet is the ordered sequence of reference images for a session.
// Insertion order is meaningful: images are shown to the user with index
// labels and sent to the capability in the same order.
type ReferenceSet struct {
	images []ReferenceImage
}

// Add appends an image to the set, sniffing its MIME type when absent.
func (s *ReferenceSet) Add(data []byte, mimeType string) {
	if mimeType == "" {
		mimeType = SniffMIME(data)
	}
	s.images = append(s.images, ReferenceImage{Data: data, MIME: mimeType})
}

// RemoveAt deletes the image at index i, preserving the order of the rest.
func (s *ReferenceSet) RemoveAt(i int) error {
	if i < 0 || i >= len(s.images) {
		return fmt.Errorf("reference image index %d out of range (%d images)", i, len(s.images))
	}
	s.images = append(s.images[:i], s.images[i+1:]...)
	return nil
}

// Len returns the number of images in the set.
func (s *ReferenceSet) Len() int {
	return len(s.images)
}

// Snapshot returns a deep copy of the current images. A run operates on the
// snapshot so later edits to the set cannot change images mid-run.
func (s *ReferenceSet) Snapshot() []ReferenceImage {
	out := make([]ReferenceImage, len(s.images))
	for i, img := range s.images {
		data := make([]byte, len(img.Data))
		copy(data, img.Data)
		out[i] = ReferenceImage{Data: data, MIME: img.MIME}
	}
	return out
}
