package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// TextClient wraps the official Gemini SDK for the text-only calls the
// studio makes: prompt planning (structured JSON) and trend research
// (grounded in web search).
type TextClient struct {
	client *genai.Client
	model  string
}

// NewTextClient creates an SDK-backed text client.
func NewTextClient(ctx context.Context, apiKey string) (*TextClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &TextClient{client: client, model: ModelText}, nil
}

// GenerateJSON sends the given parts with a system instruction and asks for a
// JSON response body. Returns the raw response text; the caller owns parsing.
func (t *TextClient) GenerateJSON(ctx context.Context, parts []*genai.Part, system string) (string, error) {
	startTime := time.Now()
	log.Debug().
		Str("model", t.model).
		Int("parts", len(parts)).
		Msg("Sending structured planning request to Gemini")

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	contents := []*genai.Content{{Role: "user", Parts: parts}}
	resp, err := t.client.Models.GenerateContent(ctx, t.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("received empty response from Gemini API")
	}

	text := resp.Text()
	log.Debug().
		Int("response_length", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Planning response received")
	return text, nil
}

// SearchSummary sends a text prompt with the Google Search tool enabled and
// returns the response text.
func (t *TextClient) SearchSummary(ctx context.Context, prompt string) (string, error) {
	startTime := time.Now()
	log.Debug().
		Str("model", t.model).
		Msg("Sending web-search research request to Gemini")

	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}
	resp, err := t.client.Models.GenerateContent(ctx, t.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("received empty response from Gemini API")
	}

	text := resp.Text()
	log.Debug().
		Int("response_length", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Research response received")
	return text, nil
}
