package semantic

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{
			name:     "identical vectors",
			a:        []float32{1, 0, 0},
			b:        []float32{1, 0, 0},
			expected: 1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1, 0},
			b:        []float32{0, 1},
			expected: 0.0,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1, 0},
			b:        []float32{-1, 0},
			expected: -1.0,
		},
		{
			name:     "similar vectors",
			a:        []float32{1, 1},
			b:        []float32{1, 0},
			expected: 0.7071067, // cos(45 degrees)
		},
		{
			name:     "empty vectors",
			a:        []float32{},
			b:        []float32{},
			expected: 0.0,
		},
		{
			name:     "different lengths",
			a:        []float32{1, 0},
			b:        []float32{1, 0, 0},
			expected: 0.0,
		},
		{
			name:     "zero vector",
			a:        []float32{0, 0, 0},
			b:        []float32{1, 0, 0},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(float64(got-tt.expected)) > 0.0001 {
				t.Errorf("CosineSimilarity(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestIndexSearch_ScopeConfinement(t *testing.T) {
	idx := NewIndex("test-model", 2)
	idx.Entries["in-scope"] = Entry{PaperID: "in-scope", Vector: []float32{0, 1}}
	idx.Entries["out-of-scope"] = Entry{PaperID: "out-of-scope", Vector: []float32{1, 0}}

	// The out-of-scope entry matches the query perfectly, but must never
	// appear in scoped results.
	scope := map[string]struct{}{"in-scope": {}}
	matches := idx.search([]float32{1, 0}, 10, scope)

	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Entry.PaperID != "in-scope" {
		t.Errorf("match = %s, want in-scope", matches[0].Entry.PaperID)
	}
}

func TestIndexSearch_TopK(t *testing.T) {
	idx := NewIndex("test-model", 2)
	idx.Entries["a"] = Entry{PaperID: "a", Vector: []float32{1, 0}}
	idx.Entries["b"] = Entry{PaperID: "b", Vector: []float32{0.9, 0.1}}
	idx.Entries["c"] = Entry{PaperID: "c", Vector: []float32{0, 1}}

	matches := idx.search([]float32{1, 0}, 2, nil)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].Entry.PaperID != "a" || matches[1].Entry.PaperID != "b" {
		t.Errorf("matches = [%s %s], want [a b]",
			matches[0].Entry.PaperID, matches[1].Entry.PaperID)
	}
	if matches[0].Similarity < matches[1].Similarity {
		t.Error("matches not sorted descending by similarity")
	}
}

func TestIndexSearch_DimensionMismatch(t *testing.T) {
	idx := NewIndex("test-model", 3)
	idx.Entries["a"] = Entry{PaperID: "a", Vector: []float32{1, 0, 0}}

	if matches := idx.search([]float32{1, 0}, 5, nil); matches != nil {
		t.Errorf("expected nil for mismatched query dimensions, got %v", matches)
	}
}
