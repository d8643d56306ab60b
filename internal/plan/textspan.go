package plan

import (
	"fmt"
	"regexp"
	"strings"
)

// Visual prompts request on-image text through a literal marker convention so
// the generation model renders exact wording. Prompt editing works on the
// parsed token list rather than re-scanning the string for markers on every
// edit.

// TextMarkerPrefix is the literal marker the planner is instructed to use for
// any on-image text request.
const TextMarkerPrefix = `Render the text: `

var textMarkerRe = regexp.MustCompile(TextMarkerPrefix + `"([^"]*)"`)

// TextSpan is one on-image text request inside a visual prompt: the literal
// to render plus the byte range of the whole marker in the source string.
type TextSpan struct {
	Literal string
	Start   int
	End     int
}

// Marker serializes the span back to the marker syntax.
func (s TextSpan) Marker() string {
	return TextMarkerPrefix + `"` + s.Literal + `"`
}

// ParsePromptText tokenizes every text marker in a visual prompt, in source
// order. A prompt with no markers yields an empty slice.
func ParsePromptText(prompt string) []TextSpan {
	matches := textMarkerRe.FindAllStringSubmatchIndex(prompt, -1)
	spans := make([]TextSpan, 0, len(matches))
	for _, m := range matches {
		spans = append(spans, TextSpan{
			Literal: prompt[m[2]:m[3]],
			Start:   m[0],
			End:     m[1],
		})
	}
	return spans
}

// ReplaceLiteral rewrites the i-th text marker of prompt with a new literal
// and returns the updated prompt together with re-parsed spans. Double quotes
// in the new literal are dropped: the marker syntax cannot carry them and the
// planner never emits them.
func ReplaceLiteral(prompt string, spans []TextSpan, i int, newLiteral string) (string, []TextSpan, error) {
	if i < 0 || i >= len(spans) {
		return "", nil, fmt.Errorf("text span index %d out of range (%d spans)", i, len(spans))
	}
	span := spans[i]
	if span.Start < 0 || span.End > len(prompt) || span.Start > span.End {
		return "", nil, fmt.Errorf("text span %d does not match prompt (stale spans?)", i)
	}

	replacement := TextSpan{Literal: strings.ReplaceAll(newLiteral, `"`, "")}
	updated := prompt[:span.Start] + replacement.Marker() + prompt[span.End:]
	return updated, ParsePromptText(updated), nil
}
