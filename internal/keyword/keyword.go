// Package keyword turns a free-text query into a short list of search
// keywords using a text-generation capability.
package keyword

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/paperchase/paperchase/internal/generate"
)

// promptTemplate is the fixed instruction given to the generation model.
const promptTemplate = "Extract 3-6 concise technical keywords from the following query:\n\n%s\n\nKeywords:"

// enumerationPrefix matches leading list markers like "1. ", "2) " or "- ".
var enumerationPrefix = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*•])\s+`)

// Extractor produces search keywords from a user query.
type Extractor struct {
	generator generate.Generator
}

// NewExtractor creates an extractor backed by the given generator.
func NewExtractor(generator generate.Generator) *Extractor {
	return &Extractor{generator: generator}
}

// Extract returns a comma-separated keyword list for the query. Raw model
// output is unreliable, so it is cleaned before use: markdown emphasis and
// leading enumeration are stripped, empty lines dropped, and surviving lines
// joined with ", ". No retry happens at this layer; that policy belongs to
// the caller.
func (e *Extractor) Extract(ctx context.Context, query string) (string, error) {
	raw, err := e.generator.Generate(ctx, fmt.Sprintf(promptTemplate, query))
	if err != nil {
		return "", fmt.Errorf("extracting keywords: %w", err)
	}
	return Clean(raw), nil
}

// Clean normalizes raw model output into a flat keyword list.
func Clean(raw string) string {
	var keywords []string
	for _, line := range strings.Split(raw, "\n") {
		line = enumerationPrefix.ReplaceAllString(line, "")
		line = strings.NewReplacer("**", "", "*", "", "__", "", "`", "").Replace(line)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		keywords = append(keywords, line)
	}
	return strings.Join(keywords, ", ")
}
