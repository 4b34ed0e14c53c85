// Package pipeline composes retrieval, reranking, annotation, and the
// online discovery flow into single request-to-response operations.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/paperchase/paperchase/internal/corpus"
	"github.com/paperchase/paperchase/internal/lexical"
	"github.com/paperchase/paperchase/internal/rerank"
	"github.com/paperchase/paperchase/internal/semantic"
)

// ErrNoCandidates is returned when an upstream stage yields zero results.
// It is fatal to the request: the pipeline must never proceed to a
// meaningless downstream call on an empty candidate set.
var ErrNoCandidates = errors.New("no candidate documents")

const (
	// RetrieveLimit is the lexical candidate count fed to the reranker.
	// Reranking must see the full lexical set, not a pre-truncated one,
	// because cross-encoder order can differ substantially from lexical
	// order.
	RetrieveLimit = 100

	// FetchLimit is the number of papers requested from the external source.
	FetchLimit = 20

	// DefaultTopK is the result count when the caller does not specify one.
	DefaultTopK = 5

	// UnavailableNote is the degraded annotation used when generation fails
	// for one paper. A single failed annotation never aborts the result list.
	UnavailableNote = "(annotation unavailable)"
)

// Result is the unit returned to callers of the offline search.
type Result struct {
	PaperID    string  `json:"paper_id"`
	Title      string  `json:"title"`
	ScoreBM25  float64 `json:"score_bm25"`
	ScoreCross float64 `json:"score_cross"`
	LLMNote    string  `json:"llm_note"`
}

// Retriever fetches lexical candidates for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, limit int) ([]lexical.ScoredCandidate, error)
}

// DocumentLoader resolves a paper id to its document.
type DocumentLoader interface {
	Load(id string) (corpus.Document, error)
}

// Reranker reorders candidates by cross-encoder relevance.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []rerank.Candidate) ([]rerank.Reranked, error)
}

// Annotator produces a cached per-paper note for a query.
type Annotator interface {
	Annotate(ctx context.Context, query string, doc corpus.Document) (string, error)
}

// KeywordExtractor turns a free-text query into search keywords.
type KeywordExtractor interface {
	Extract(ctx context.Context, query string) (string, error)
}

// Fetcher retrieves candidate papers from an external source.
type Fetcher interface {
	Fetch(ctx context.Context, keywords string, limit int) ([]corpus.Document, error)
}

// VectorStore persists embedded papers and searches them by similarity.
type VectorStore interface {
	Upsert(ctx context.Context, docs []corpus.Document) (int, error)
	SimilaritySearch(ctx context.Context, query string, k int, scope []string) ([]semantic.Match, error)
}

// Config wires the pipeline's collaborators. Retriever, DocumentLoader,
// Reranker, and Annotator serve the offline mode; KeywordExtractor, Fetcher,
// and VectorStore serve the online mode. A mode's fields may be left nil if
// that mode is never invoked.
type Config struct {
	Retriever Retriever
	Documents DocumentLoader
	Reranker  Reranker
	Annotator Annotator

	Keywords KeywordExtractor
	Fetcher  Fetcher
	Vectors  VectorStore

	Logger *zap.Logger
}

// Pipeline runs one query through retrieval, ranking, and annotation.
type Pipeline struct {
	retriever Retriever
	documents DocumentLoader
	reranker  Reranker
	annotator Annotator

	keywords KeywordExtractor
	fetcher  Fetcher
	vectors  VectorStore

	logger *zap.Logger
}

// New creates a pipeline from the given collaborators.
func New(cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		retriever: cfg.Retriever,
		documents: cfg.Documents,
		reranker:  cfg.Reranker,
		annotator: cfg.Annotator,
		keywords:  cfg.Keywords,
		fetcher:   cfg.Fetcher,
		vectors:   cfg.Vectors,
		logger:    logger,
	}
}

// Search runs the offline pipeline: lexical retrieval over the local corpus,
// cross-encoder reranking of the full candidate set, truncation to k, then
// per-paper annotation. Results preserve rerank order. Truncation always
// happens after reranking, never on the coarser lexical score.
func (p *Pipeline) Search(ctx context.Context, query string, k int) ([]Result, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	hits, err := p.retriever.Retrieve(ctx, query, RetrieveLimit)
	if err != nil {
		return nil, fmt.Errorf("lexical retrieval: %w", err)
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("lexical retrieval for %q: %w", query, ErrNoCandidates)
	}
	p.logger.Debug("lexical retrieval done", zap.String("query", query), zap.Int("hits", len(hits)))

	// Load texts for reranking. A missing document degrades that one
	// candidate, not the batch.
	loaded := make(map[string]corpus.Document, len(hits))
	candidates := make([]rerank.Candidate, 0, len(hits))
	for _, hit := range hits {
		doc, err := p.documents.Load(hit.PaperID)
		if err != nil {
			p.logger.Warn("skipping unloadable candidate", zap.String("id", hit.PaperID), zap.Error(err))
			continue
		}
		loaded[hit.PaperID] = doc
		candidates = append(candidates, rerank.Candidate{
			PaperID:   hit.PaperID,
			Text:      doc.ScoringText(),
			ScoreBM25: hit.Score,
		})
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("loading candidates for %q: %w", query, ErrNoCandidates)
	}

	reranked, err := p.reranker.Rerank(ctx, query, candidates)
	if err != nil {
		return nil, fmt.Errorf("reranking: %w", err)
	}
	if len(reranked) > k {
		reranked = reranked[:k]
	}

	results := make([]Result, 0, len(reranked))
	for _, r := range reranked {
		doc := loaded[r.PaperID]

		note, err := p.annotator.Annotate(ctx, query, doc)
		if err != nil {
			p.logger.Warn("annotation failed, degrading entry",
				zap.String("id", r.PaperID), zap.Error(err))
			note = UnavailableNote
		}

		results = append(results, Result{
			PaperID:    r.PaperID,
			Title:      doc.Title,
			ScoreBM25:  r.ScoreBM25,
			ScoreCross: r.CrossScore,
			LLMNote:    note,
		})
	}
	return results, nil
}

// Discover runs the online pipeline: keyword extraction, external fetch,
// upsert into the semantic index, then similarity search scoped to this
// run's candidate ids. An empty fetch fails with ErrNoCandidates before any
// index operation is attempted.
func (p *Pipeline) Discover(ctx context.Context, query string, k int) ([]semantic.Match, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	keywords, err := p.keywords.Extract(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("keyword extraction: %w", err)
	}
	p.logger.Debug("extracted keywords", zap.String("query", query), zap.String("keywords", keywords))

	docs, err := p.fetcher.Fetch(ctx, keywords, FetchLimit)
	if err != nil {
		return nil, fmt.Errorf("fetching candidates: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("fetch for %q: %w", keywords, ErrNoCandidates)
	}

	inserted, err := p.vectors.Upsert(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("upserting candidates: %w", err)
	}
	p.logger.Debug("upserted candidates", zap.Int("fetched", len(docs)), zap.Int("inserted", inserted))

	scope := make([]string, len(docs))
	for i, doc := range docs {
		scope[i] = doc.ID
	}

	matches, err := p.vectors.SimilaritySearch(ctx, query, k, scope)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	return matches, nil
}
