// Package semantic provides the persistent vector index used for
// similarity search over fetched papers.
package semantic

import "time"

// Entry is one indexed paper: its stable id, embedding vector, metadata,
// and raw text. Entries are created once per id and never updated in place;
// identical content re-derives the identical id, so presence already implies
// content equality.
type Entry struct {
	PaperID   string    `json:"id"`
	Vector    []float32 `json:"-"`
	Title     string    `json:"title"`
	Published string    `json:"published"`
	Abstract  string    `json:"abstract,omitempty"`
	Text      string    `json:"text,omitempty"`
	Year      int       `json:"year,omitempty"`
	URL       string    `json:"url,omitempty"`
}

// Index is the serialized form of the vector index.
type Index struct {
	// Version is the format version for compatibility checking.
	// Check against CurrentIndexVersion when loading.
	Version int `json:"version"`

	// Metadata about the index
	ModelName  string    `json:"model_name"`
	Dimensions int       `json:"dimensions"`
	CreatedAt  time.Time `json:"created_at"`

	// Entries maps stable paper ids to their indexed entries
	Entries map[string]Entry `json:"-"` // Not included in JSON output
}

// Match is a paper found by similarity search.
type Match struct {
	Entry      Entry   `json:"entry"`
	Similarity float32 `json:"similarity"`
}
