package semantic

import (
	"context"
	"fmt"
	"sync"

	"github.com/paperchase/paperchase/internal/corpus"
	"github.com/paperchase/paperchase/internal/embedding"
)

// Store is a vector index bound to an embedding provider and a file path.
// It is safe for concurrent use: the check for an existing id and the insert
// happen under one lock, so two simultaneous upserts of the same new paper
// cannot both insert.
type Store struct {
	mu       sync.Mutex
	idx      *Index
	path     string
	provider embedding.Provider
}

// Open loads the index at path, or creates an empty one if none exists.
func Open(path string, provider embedding.Provider) (*Store, error) {
	idx, err := LoadIndex(path)
	if err == ErrIndexNotFound {
		idx = NewIndex(provider.ModelName(), provider.Dimensions())
	} else if err != nil {
		return nil, err
	}

	if idx.ModelName != provider.ModelName() {
		return nil, fmt.Errorf("index was built with model %q, provider is %q (rebuild required)",
			idx.ModelName, provider.ModelName())
	}

	return &Store{idx: idx, path: path, provider: provider}, nil
}

// Upsert inserts each document whose stable id is not already present,
// embedding only the newcomers. Already-present ids are skipped without an
// embedding call: identical content always re-derives the identical id, so
// presence implies content equality and re-embedding would be wasted cost.
// An empty slice is a no-op. Returns the number of documents inserted.
func (s *Store) Upsert(ctx context.Context, docs []corpus.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	inserted := 0
	for _, doc := range docs {
		s.mu.Lock()
		_, exists := s.idx.Entries[doc.ID]
		s.mu.Unlock()
		if exists {
			continue
		}

		text := embedText(doc)
		emb, err := s.provider.Embed(ctx, text)
		if err != nil {
			return inserted, fmt.Errorf("embedding %q: %w", doc.ID, err)
		}

		s.mu.Lock()
		// Re-check under the lock: a concurrent upsert may have won the race
		// while we were embedding. Both writers computed the same id from the
		// same content, so dropping the duplicate is safe.
		if _, exists := s.idx.Entries[doc.ID]; !exists {
			s.idx.Entries[doc.ID] = Entry{
				PaperID:   doc.ID,
				Vector:    emb.Vector,
				Title:     doc.Title,
				Published: doc.Published,
				Abstract:  doc.Abstract,
				Text:      doc.Text,
				Year:      doc.Year,
				URL:       doc.URL,
			}
			inserted++
		}
		s.mu.Unlock()
	}

	return inserted, nil
}

// SimilaritySearch embeds the query and returns the top-k most similar
// previously-upserted papers, restricted to the given id scope. Scoping to
// the current run's candidate ids keeps unrelated papers that share the
// persistent index out of the results. A nil scope searches everything.
func (s *Store) SimilaritySearch(ctx context.Context, query string, k int, scope []string) ([]Match, error) {
	emb, err := s.provider.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	var scopeSet map[string]struct{}
	if scope != nil {
		scopeSet = make(map[string]struct{}, len(scope))
		for _, id := range scope {
			scopeSet[id] = struct{}{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx.search(emb.Vector, k, scopeSet), nil
}

// Has reports whether the given id is indexed.
func (s *Store) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.idx.Entries[id]
	return ok
}

// Len returns the number of indexed papers.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.idx.Entries)
}

// Save persists the index to its path.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx.Save(s.path)
}

// embedText selects and truncates the text embedded for a document.
func embedText(doc corpus.Document) string {
	text := doc.Title
	if doc.Abstract != "" {
		text += "\n" + doc.Abstract
	}
	if len(text) > MaxEmbedLength {
		text = text[:MaxEmbedLength]
	}
	return text
}
