package semantic

import (
	"math"
	"sort"
)

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical direction.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	denominator := float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB)))
	if denominator == 0 {
		return 0
	}

	return dot / denominator
}

// search ranks entries by similarity to the query vector, restricted to the
// given id scope. A nil scope means every indexed entry is eligible.
func (idx *Index) search(query []float32, k int, scope map[string]struct{}) []Match {
	if idx.Entries == nil || len(query) != idx.Dimensions {
		return nil
	}

	matches := make([]Match, 0, len(idx.Entries))
	for id, entry := range idx.Entries {
		if scope != nil {
			if _, ok := scope[id]; !ok {
				continue
			}
		}
		matches = append(matches, Match{
			Entry:      entry,
			Similarity: CosineSimilarity(query, entry.Vector),
		})
	}

	// Sort by similarity descending, ties by id for determinism
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Entry.PaperID < matches[j].Entry.PaperID
	})

	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}

	return matches
}
