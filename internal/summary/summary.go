// Package summary produces on-demand per-paper summaries.
package summary

import (
	"context"
	"fmt"

	"github.com/paperchase/paperchase/internal/corpus"
	"github.com/paperchase/paperchase/internal/generate"
)

const promptTemplate = `Write a concise summary of the following paper for a computer-science researcher.

Title: %s
Abstract: %s

Summary:`

// Summarizer generates a short summary of one paper.
type Summarizer struct {
	generator generate.Generator
}

// NewSummarizer creates a summarizer backed by the given generator.
func NewSummarizer(generator generate.Generator) *Summarizer {
	return &Summarizer{generator: generator}
}

// Summarize returns a model-written summary of the paper.
func (s *Summarizer) Summarize(ctx context.Context, doc corpus.Document) (string, error) {
	out, err := s.generator.Generate(ctx, fmt.Sprintf(promptTemplate, doc.Title, doc.Abstract))
	if err != nil {
		return "", fmt.Errorf("summarizing %q: %w", doc.ID, err)
	}
	return out, nil
}
