// Package imagecodec converts between raw image bytes and the data-URI form
// the generation capability and the local stores exchange.
package imagecodec

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// EncodeDataURI wraps raw image bytes in a data URI. An empty mimeType is
// sniffed from the payload.
func EncodeDataURI(data []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = SniffMIME(data)
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// DecodeDataURI strips the data-URI envelope and returns the raw bytes and
// MIME type. Bare base64 without a prefix is accepted and sniffed, since the
// capability occasionally returns unwrapped payloads.
func DecodeDataURI(uri string) ([]byte, string, error) {
	payload := uri
	mimeType := ""

	if strings.HasPrefix(uri, "data:") {
		comma := strings.IndexByte(uri, ',')
		if comma == -1 {
			return nil, "", fmt.Errorf("malformed data URI: no payload separator")
		}
		header := uri[len("data:"):comma]
		payload = uri[comma+1:]
		if semi := strings.IndexByte(header, ';'); semi >= 0 {
			mimeType = header[:semi]
		} else {
			mimeType = header
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode base64 payload: %w", err)
	}

	if mimeType == "" {
		mimeType = SniffMIME(data)
	}
	return data, mimeType, nil
}

// StripDataURIPrefix returns only the base64 payload of a data URI, or the
// input unchanged when no prefix is present. The generation capability wants
// bare base64 in its inlineData blocks.
func StripDataURIPrefix(uri string) string {
	if idx := strings.IndexByte(uri, ','); idx >= 0 && strings.HasPrefix(uri, "data:") {
		return uri[idx+1:]
	}
	return uri
}

// SniffMIME detects the MIME type of raw image bytes from content.
func SniffMIME(data []byte) string {
	return http.DetectContentType(data)
}
