package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paperchase/paperchase/internal/corpus"
	"github.com/paperchase/paperchase/internal/lexical"
	"github.com/paperchase/paperchase/internal/rerank"
	"github.com/paperchase/paperchase/internal/semantic"
)

// fixedScorer scores texts containing a marker substring higher.
type fixedScorer struct {
	scores map[string]float64
}

func (f *fixedScorer) Score(_ context.Context, _ string, texts []string) ([]float64, error) {
	out := make([]float64, len(texts))
	for i, text := range texts {
		for marker, score := range f.scores {
			if strings.Contains(text, marker) {
				out[i] = score
			}
		}
	}
	return out, nil
}

// staticAnnotator returns a constant note, or an error for listed ids.
type staticAnnotator struct {
	note    string
	failIDs map[string]bool
	calls   int
}

func (s *staticAnnotator) Annotate(_ context.Context, _ string, doc corpus.Document) (string, error) {
	s.calls++
	if s.failIDs[doc.ID] {
		return "", errors.New("generation backend down")
	}
	return s.note, nil
}

func buildOfflineFixture(t *testing.T) (*lexical.Retriever, *corpus.Store) {
	t.Helper()

	dir := t.TempDir()
	store := corpus.NewStore(filepath.Join(dir, "processed"))
	docs := []corpus.Document{
		{
			ID:       "d1",
			Title:    "Retrieval Augmented Generation",
			Abstract: "Since the dawn of humanity, we have struggled over retrieval.",
			Text:     "We propose combining dense and sparse retrieval.",
			Year:     2020,
		},
		{
			ID:       "d2",
			Title:    "BM25 Ranking Explained",
			Abstract: "A survey of BM25 variations.",
			Text:     "Sometimes, sparse is best.",
			Year:     2018,
		},
	}
	for _, doc := range docs {
		if err := store.Save(doc); err != nil {
			t.Fatalf("Save(%s): %v", doc.ID, err)
		}
	}

	indexPath := filepath.Join(dir, "bm25.db")
	if _, err := lexical.Build(store, indexPath); err != nil {
		t.Fatalf("Build: %v", err)
	}
	retriever, err := lexical.Open(indexPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { retriever.Close() })

	return retriever, store
}

func TestSearch_EndToEnd(t *testing.T) {
	retriever, store := buildOfflineFixture(t)

	p := New(Config{
		Retriever: retriever,
		Documents: store,
		Reranker: rerank.NewReranker(&fixedScorer{scores: map[string]float64{
			"dense": 0.9,
			"BM25":  0.3,
		}}),
		Annotator: &staticAnnotator{note: "dummy-llm-note"},
	})

	results, err := p.Search(context.Background(), "retrieval augmented generation", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	first := results[0]
	if first.PaperID != "d1" {
		t.Errorf("top result = %s, want d1", first.PaperID)
	}
	if first.Title == "" {
		t.Error("title missing")
	}
	if first.ScoreBM25 == 0 {
		t.Error("lexical score missing")
	}
	if first.ScoreCross != 0.9 {
		t.Errorf("cross score = %v, want 0.9", first.ScoreCross)
	}
	if first.LLMNote != "dummy-llm-note" {
		t.Errorf("llm note = %q", first.LLMNote)
	}
}

func TestSearch_TruncatesAfterRerank(t *testing.T) {
	retriever, store := buildOfflineFixture(t)

	// The cross-encoder disagrees with lexical order: d2 scores higher.
	// Top-1 must be d2, proving truncation happens after reranking.
	p := New(Config{
		Retriever: retriever,
		Documents: store,
		Reranker: rerank.NewReranker(&fixedScorer{scores: map[string]float64{
			"dense": 0.1,
			"BM25":  0.8,
		}}),
		Annotator: &staticAnnotator{note: "n"},
	})

	results, err := p.Search(context.Background(), "retrieval", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].PaperID != "d2" {
		t.Errorf("results = %+v, want single d2", results)
	}
}

func TestSearch_AnnotationFailureDegrades(t *testing.T) {
	retriever, store := buildOfflineFixture(t)

	p := New(Config{
		Retriever: retriever,
		Documents: store,
		Reranker: rerank.NewReranker(&fixedScorer{scores: map[string]float64{
			"dense": 0.9, "BM25": 0.3,
		}}),
		Annotator: &staticAnnotator{note: "ok", failIDs: map[string]bool{"d1": true}},
	})

	results, err := p.Search(context.Background(), "retrieval", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) < 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].LLMNote != UnavailableNote {
		t.Errorf("failed annotation note = %q, want %q", results[0].LLMNote, UnavailableNote)
	}
	if results[1].LLMNote != "ok" {
		t.Errorf("healthy annotation note = %q, want ok", results[1].LLMNote)
	}
}

func TestSearch_NoHits(t *testing.T) {
	retriever, store := buildOfflineFixture(t)

	p := New(Config{
		Retriever: retriever,
		Documents: store,
		Reranker:  rerank.NewReranker(&fixedScorer{}),
		Annotator: &staticAnnotator{note: "n"},
	})

	_, err := p.Search(context.Background(), "quantum chromodynamics lattice", 5)
	if !errors.Is(err, ErrNoCandidates) {
		t.Errorf("expected ErrNoCandidates, got %v", err)
	}
}

// Online-mode fakes.

type fakeExtractor struct{ keywords string }

func (f *fakeExtractor) Extract(_ context.Context, _ string) (string, error) {
	return f.keywords, nil
}

type fakeFetcher struct {
	docs []corpus.Document
	err  error
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string, _ int) ([]corpus.Document, error) {
	return f.docs, f.err
}

type recordingVectorStore struct {
	upserts  int
	searches int
	scope    []string
	matches  []semantic.Match
}

func (r *recordingVectorStore) Upsert(_ context.Context, docs []corpus.Document) (int, error) {
	r.upserts++
	return len(docs), nil
}

func (r *recordingVectorStore) SimilaritySearch(_ context.Context, _ string, _ int, scope []string) ([]semantic.Match, error) {
	r.searches++
	r.scope = scope
	return r.matches, nil
}

func TestDiscover(t *testing.T) {
	fetched := []corpus.Document{
		{ID: "a1", Title: "Paper A"},
		{ID: "b2", Title: "Paper B"},
	}
	vectors := &recordingVectorStore{matches: []semantic.Match{
		{Entry: semantic.Entry{PaperID: "a1", Title: "Paper A"}, Similarity: 0.9},
	}}

	p := New(Config{
		Keywords: &fakeExtractor{keywords: "rag, retrieval"},
		Fetcher:  &fakeFetcher{docs: fetched},
		Vectors:  vectors,
	})

	matches, err := p.Discover(context.Background(), "what is rag?", 5)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(matches) != 1 || matches[0].Entry.PaperID != "a1" {
		t.Errorf("matches = %+v", matches)
	}
	if vectors.upserts != 1 {
		t.Errorf("upsert called %d times, want 1", vectors.upserts)
	}
	// Search must be scoped to exactly this run's fetched ids.
	if len(vectors.scope) != 2 || vectors.scope[0] != "a1" || vectors.scope[1] != "b2" {
		t.Errorf("scope = %v, want [a1 b2]", vectors.scope)
	}
}

func TestDiscover_EmptyFetchFailsBeforeIndexOps(t *testing.T) {
	vectors := &recordingVectorStore{}

	p := New(Config{
		Keywords: &fakeExtractor{keywords: "kw"},
		Fetcher:  &fakeFetcher{docs: nil},
		Vectors:  vectors,
	})

	_, err := p.Discover(context.Background(), "anything", 5)
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
	if vectors.upserts != 0 || vectors.searches != 0 {
		t.Errorf("index operations attempted on empty fetch: upserts=%d searches=%d",
			vectors.upserts, vectors.searches)
	}
}
