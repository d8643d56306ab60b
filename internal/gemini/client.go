// Package gemini talks to the Gemini generateContent API.
//
// Image generation goes through a direct REST client rather than the Go SDK:
// the raw response is needed to distinguish quota exhaustion from other
// failures and to collect inline image parts alongside any explanatory text.
// Text-only calls (planning, trend research) use the official SDK; see
// text.go.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the Gemini REST API base URL.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Model IDs used by the studio.
const (
	// ModelImagePrimary is the higher-quality image generation model.
	ModelImagePrimary = "gemini-3-pro-image-preview"

	// ModelImageFallback is the lower-tier image model used when the primary
	// tier signals quota exhaustion.
	ModelImageFallback = "gemini-2.5-flash-image"

	// ModelText is the text model used for planning and research.
	ModelText = "gemini-3-flash-preview"
)

// Client calls the Gemini generateContent REST API for image generation.
// A client-side limiter spaces requests out below the free-tier per-minute
// allowance, independent of any pacing the caller adds between jobs.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a REST client for image generation.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // Image generation can take 10-30s
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// NewClientWithBaseURL creates a client against a non-default endpoint.
// Used by tests to point at a local server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// Part is one element of a request turn: either text or inline image data.
type Part struct {
	Text       string
	InlineData *Blob
}

// Blob is base64-encoded inline media.
type Blob struct {
	MIMEType string
	Data     string
}

// TextPart builds a text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// ImagePart builds an inline-data part from raw image bytes.
func ImagePart(data []byte, mimeType string) Part {
	return Part{InlineData: &Blob{
		MIMEType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(data),
	}}
}

// --- REST API request/response types ---

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *geminiBlobData `json:"inlineData,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiBlobData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64 encoded
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// APIError is a non-OK response from the Gemini API, preserving enough of the
// error payload to classify quota exhaustion.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini API returned status %d (%s): %s", e.StatusCode, e.Status, e.Message)
}

// QuotaExhausted reports whether this error is a quota/rate-limit signal:
// HTTP 429 or a RESOURCE_EXHAUSTED marker in the error payload.
func (e *APIError) QuotaExhausted() bool {
	if e.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return strings.Contains(e.Status, "RESOURCE_EXHAUSTED") ||
		strings.Contains(e.Message, "RESOURCE_EXHAUSTED")
}

// ImageResult holds the content parts of one generation response.
type ImageResult struct {
	// ImageData is the raw bytes of the first inline image part, or nil when
	// the model returned no image.
	ImageData []byte
	// ImageMIMEType is the MIME type of the output image.
	ImageMIMEType string
	// Text is the concatenation of any text parts. When ImageData is nil this
	// is the model's explanation for declining.
	Text string
}

// GenerateImage sends prompt and reference parts to the given image model and
// returns whatever content parts came back. A response without an image part
// is not an error here: classification (refusal vs failure) belongs to the
// caller, which sees both the text and the absence of image data.
func (c *Client) GenerateImage(ctx context.Context, model string, parts []Part) (*ImageResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait canceled: %w", err)
	}

	startTime := time.Now()
	log.Info().
		Str("model", model).
		Int("parts", len(parts)).
		Msg("Sending generation request to Gemini")

	reqParts := make([]geminiPart, 0, len(parts))
	for _, p := range parts {
		gp := geminiPart{Text: p.Text}
		if p.InlineData != nil {
			gp.InlineData = &geminiBlobData{MIMEType: p.InlineData.MIMEType, Data: p.InlineData.Data}
		}
		reqParts = append(reqParts, gp)
	}

	req := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: reqParts}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := classifyError(resp.StatusCode, respBody)
		log.Error().
			Int("status", resp.StatusCode).
			Str("api_status", apiErr.Status).
			Str("body", truncate(apiErr.Message, 500)).
			Msg("Gemini generation API returned error")
		return nil, apiErr
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if geminiResp.Error != nil {
		return nil, &APIError{
			StatusCode: geminiResp.Error.Code,
			Status:     geminiResp.Error.Status,
			Message:    geminiResp.Error.Message,
		}
	}

	result := &ImageResult{}
	for _, candidate := range geminiResp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && result.ImageData == nil {
				decoded, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
				if err != nil {
					return nil, fmt.Errorf("failed to decode image data: %w", err)
				}
				result.ImageData = decoded
				result.ImageMIMEType = part.InlineData.MIMEType
			}
			if part.Text != "" {
				result.Text += part.Text
			}
		}
	}

	log.Info().
		Str("model", model).
		Bool("has_image", result.ImageData != nil).
		Int("output_bytes", len(result.ImageData)).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini generation call complete")

	return result, nil
}

// classifyError builds an APIError from a non-OK HTTP response, parsing the
// standard Google error envelope when present.
func classifyError(statusCode int, body []byte) *APIError {
	var envelope struct {
		Error geminiError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return &APIError{
			StatusCode: statusCode,
			Status:     envelope.Error.Status,
			Message:    envelope.Error.Message,
		}
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    truncate(strings.TrimSpace(string(body)), 200),
	}
}

// truncate shortens a string to at most maxLen bytes, cutting on a rune
// boundary and appending "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
