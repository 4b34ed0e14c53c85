// Package generate abstracts the text-generation capability used for keyword
// extraction, per-paper annotation, and summarization.
package generate

import (
	"context"
	"errors"
)

// ErrGeneration is returned when a generation backend fails.
var ErrGeneration = errors.New("generation failed")

// Generator produces free text from a prompt.
type Generator interface {
	// Generate returns the model completion for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// ModelName returns the name of the generation model.
	ModelName() string
}
