// Package eval computes retrieval quality metrics against a gold set.
package eval

import (
	"encoding/json"
	"fmt"
	"os"
)

// Example is one gold-set entry: a query and the paper ids a good
// retrieval run should surface for it.
type Example struct {
	Query   string   `json:"query"`
	GoldIDs []string `json:"gold_ids"`
}

// LoadSet reads a gold set from a JSON file holding an array of examples.
func LoadSet(path string) ([]Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading gold set: %w", err)
	}
	var examples []Example
	if err := json.Unmarshal(data, &examples); err != nil {
		return nil, fmt.Errorf("parsing gold set %s: %w", path, err)
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("gold set %s holds no examples", path)
	}
	return examples, nil
}

// Aggregate averages per-example score maps into one report. Every map is
// expected to carry the same keys; missing keys count as zero for that
// example.
func Aggregate(scores []map[string]float64) map[string]float64 {
	if len(scores) == 0 {
		return nil
	}
	sums := make(map[string]float64)
	for _, s := range scores {
		for k, v := range s {
			sums[k] += v
		}
	}
	out := make(map[string]float64, len(sums))
	for k, sum := range sums {
		out[k] = sum / float64(len(scores))
	}
	return out
}

// PrecisionAtK is the fraction of the top-k predictions that appear in the
// gold set. The denominator is always k, so short prediction lists are
// penalized.
func PrecisionAtK(pred, gold []string, k int) float64 {
	if k <= 0 {
		return 0
	}
	goldSet := toSet(gold)
	hits := 0
	for _, p := range head(pred, k) {
		if _, ok := goldSet[p]; ok {
			hits++
		}
	}
	return float64(hits) / float64(k)
}

// RecallAtK is the fraction of the gold set covered by the top-k
// predictions. An empty gold set counts as fully recalled.
func RecallAtK(pred, gold []string, k int) float64 {
	if len(gold) == 0 {
		return 1.0
	}
	if k <= 0 {
		return 0
	}
	goldSet := toSet(gold)
	hits := 0
	for _, p := range head(pred, k) {
		if _, ok := goldSet[p]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(gold))
}

// MRRAtK is the reciprocal rank of the first relevant prediction within the
// top k, or 0 when none is relevant.
func MRRAtK(pred, gold []string, k int) float64 {
	goldSet := toSet(gold)
	for i, p := range head(pred, k) {
		if _, ok := goldSet[p]; ok {
			return 1.0 / float64(i+1)
		}
	}
	return 0
}

// RetrievalScores bundles the standard report: precision@5, recall@5, mrr@10.
func RetrievalScores(pred, gold []string) map[string]float64 {
	return map[string]float64{
		"precision@5": PrecisionAtK(pred, gold, 5),
		"recall@5":    RecallAtK(pred, gold, 5),
		"mrr@10":      MRRAtK(pred, gold, 10),
	}
}

func head(s []string, k int) []string {
	if k < len(s) {
		return s[:k]
	}
	return s
}

func toSet(s []string) map[string]struct{} {
	set := make(map[string]struct{}, len(s))
	for _, v := range s {
		set[v] = struct{}{}
	}
	return set
}
