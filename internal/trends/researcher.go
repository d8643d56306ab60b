// Package trends summarizes current visual marketing trends for a product
// category, grounded in web search.
//
// Research is strictly best-effort: a failed or empty research call falls
// back to canned guidance and never blocks or fails the pipeline.
package trends

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/fpang/product-studio-cli/internal/assets"
)

// SearchModel is the capability surface the researcher needs: a text call
// with the web-search tool enabled.
type SearchModel interface {
	SearchSummary(ctx context.Context, prompt string) (string, error)
}

// cacheTTL bounds how long a trend summary is reused for the same category.
const cacheTTL = 30 * time.Minute

// Researcher produces trend summaries with a per-category TTL cache.
type Researcher struct {
	model SearchModel
	cache *gocache.Cache
	group singleflight.Group
}

// NewResearcher creates a researcher on top of the given search capability.
func NewResearcher(model SearchModel) *Researcher {
	return &Researcher{
		model: model,
		cache: gocache.New(cacheTTL, 2*cacheTTL),
	}
}

// Research returns a 3-bullet visual-trend summary for the category.
//
// One upstream attempt per invocation, no retries. Any failure (transport,
// API error, empty response) logs a warning and returns the fallback
// summary so planning proceeds on generic guidance. Concurrent calls for the
// same category are collapsed into a single upstream request.
func (r *Researcher) Research(ctx context.Context, category string) string {
	key := strings.ToLower(strings.TrimSpace(category))
	if key == "" {
		return assets.TrendFallbackSummary
	}

	if cached, found := r.cache.Get(key); found {
		log.Debug().Str("category", category).Msg("Trend summary served from cache")
		return cached.(string)
	}

	summary, _, _ := r.group.Do(key, func() (any, error) {
		return r.fetch(ctx, category, key), nil
	})
	return summary.(string)
}

// fetch performs the single upstream research attempt and caches a success.
func (r *Researcher) fetch(ctx context.Context, category, key string) string {
	startTime := time.Now()
	prompt := assets.RenderTrendResearchPrompt(category)

	text, err := r.model.SearchSummary(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Str("category", category).Msg("Trend research failed, using fallback summary")
		return assets.TrendFallbackSummary
	}
	text = strings.TrimSpace(text)
	if text == "" {
		log.Warn().Str("category", category).Msg("Trend research returned empty text, using fallback summary")
		return assets.TrendFallbackSummary
	}

	log.Info().
		Str("category", category).
		Int("summary_length", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Trend research complete")

	r.cache.Set(key, text, gocache.DefaultExpiration)
	return text
}
