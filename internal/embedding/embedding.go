// Package embedding provides vector embedding generation for text.
package embedding

import "errors"

// ErrEmbedding is returned when an embedding backend is unreachable or fails.
var ErrEmbedding = errors.New("embedding failed")

// Embedding represents a vector embedding of text.
type Embedding struct {
	Vector []float32 // The embedding vector (e.g., 384 dimensions for all-minilm)
}

// Dimensions returns the dimensionality of the embedding.
func (e Embedding) Dimensions() int {
	return len(e.Vector)
}
