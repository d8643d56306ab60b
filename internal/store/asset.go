// Package store keeps the generated assets of a session in two independent
// projections, the session gallery and a size-bounded on-device history, and
// persists the history best-effort through a key-value collaborator.
package store

import "time"

// Asset is one generated marketing image.
//
// ID is assigned at creation and never reused; regeneration mutates the
// asset in place (image, prompt, timestamp) so UI references and history
// entries keep addressing the same identity.
type Asset struct {
	ID           string    `json:"id"`
	ImageURI     string    `json:"imageUri"`
	ThumbURI     string    `json:"thumbUri,omitempty"`
	Prompt       string    `json:"prompt"`
	Category     string    `json:"category"`
	Layout       string    `json:"layoutType,omitempty"`
	Regenerating bool      `json:"isRegenerating"`
	CreatedAt    time.Time `json:"createdAt"`
}
