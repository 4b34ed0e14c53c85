// Package reader produces cached per-paper annotations: a concise summary
// plus a relevance rationale for the user's query.
package reader

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/paperchase/paperchase/internal/corpus"
	"github.com/paperchase/paperchase/internal/generate"
	"github.com/paperchase/paperchase/internal/metrics"
)

// promptTemplate is the fixed annotation prompt. It embeds the query and the
// paper's title, year, and abstract.
const promptTemplate = `You are a research assistant.
Query: %s
Paper: %s (%d)
Abstract: %s
---
1. Give a concise 3-sentence summary.
2. Explain why this paper is helpful for the query; cite exact sections or line numbers.`

// Annotator generates annotations through a cache keyed by (query, paper id).
type Annotator struct {
	generator generate.Generator
	cache     Cache
}

// NewAnnotator creates an annotator using the given generator and cache.
// The cache is injected so its lifecycle is explicit: one per process in
// production, one per test in tests.
func NewAnnotator(generator generate.Generator, cache Cache) *Annotator {
	return &Annotator{generator: generator, cache: cache}
}

// CacheKey returns the deterministic cache key for a (query, paper id) pair.
func CacheKey(query, paperID string) string {
	h := sha1.Sum([]byte(query + ":" + paperID))
	return hex.EncodeToString(h[:])
}

// Annotate returns the annotation for (query, doc), generating it on first
// use. Repeat calls with the same pair return the cached text without
// invoking the model again. Failed generations are not cached, so the next
// call retries.
func (a *Annotator) Annotate(ctx context.Context, query string, doc corpus.Document) (string, error) {
	key := CacheKey(query, doc.ID)

	if note, ok := a.cache.Get(key); ok {
		metrics.AnnotationCacheTotal.WithLabelValues("hit").Inc()
		return note, nil
	}
	metrics.AnnotationCacheTotal.WithLabelValues("miss").Inc()

	prompt := fmt.Sprintf(promptTemplate, query, doc.Title, doc.Year, doc.Abstract)
	note, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("annotating %q: %w", doc.ID, err)
	}

	if err := a.cache.Put(key, note); err != nil {
		return "", fmt.Errorf("caching annotation for %q: %w", doc.ID, err)
	}
	return note, nil
}
