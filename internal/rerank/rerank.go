// Package rerank refines lexical rankings with a cross-encoder relevance
// model that jointly scores each (query, document) pair.
package rerank

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Errors returned by reranking operations.
var (
	// ErrScoring is returned when the cross-encoder backend fails.
	ErrScoring = errors.New("cross-encoder scoring failed")

	// ErrEmptyBatch is returned when a scorer is handed zero texts. It
	// matches ErrScoring so callers map it with the rest of the scoring
	// failures.
	ErrEmptyBatch = fmt.Errorf("%w: empty batch", ErrScoring)
)

// Scorer computes cross-encoder relevance scores for a batch of texts
// against one query. Scores must be pairwise-independent of batch
// composition; batching is a throughput concern, not a correctness one.
type Scorer interface {
	Score(ctx context.Context, query string, texts []string) ([]float64, error)
}

// Candidate is one input to reranking: a paper, its scoring text, and the
// lexical score it arrived with.
type Candidate struct {
	PaperID   string
	Text      string
	ScoreBM25 float64
}

// Reranked is one output of reranking. CrossScore is the authoritative
// ranking key; the lexical score is carried through for inspection only.
type Reranked struct {
	PaperID    string  `json:"id"`
	ScoreBM25  float64 `json:"score_bm25"`
	CrossScore float64 `json:"score_cross"`
}

// Reranker sorts candidates by cross-encoder relevance.
type Reranker struct {
	scorer Scorer
}

// NewReranker creates a reranker backed by the given scorer.
func NewReranker(scorer Scorer) *Reranker {
	return &Reranker{scorer: scorer}
}

// Rerank scores every candidate in one batch and returns them sorted
// descending by cross-encoder score. The sort is stable, so candidates with
// equal cross scores keep their lexical order. Output length always equals
// input length; an empty input yields an empty output. Callers must not
// truncate before calling Rerank: cross-encoder order can differ
// substantially from lexical order, so top-K selection belongs after it.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []Candidate) ([]Reranked, error) {
	if len(candidates) == 0 {
		return []Reranked{}, nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}

	scores, err := r.scorer.Score(ctx, query, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScoring, err)
	}
	if len(scores) != len(candidates) {
		return nil, fmt.Errorf("%w: got %d scores for %d candidates", ErrScoring, len(scores), len(candidates))
	}

	reranked := make([]Reranked, len(candidates))
	for i, c := range candidates {
		reranked[i] = Reranked{
			PaperID:    c.PaperID,
			ScoreBM25:  c.ScoreBM25,
			CrossScore: scores[i],
		}
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].CrossScore > reranked[j].CrossScore
	})

	return reranked, nil
}
