// Package lexical provides BM25 retrieval over a SQLite FTS5 index of the
// paper corpus.
package lexical

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrIndexUnavailable is returned when the lexical index cannot be opened.
var ErrIndexUnavailable = errors.New("lexical index unavailable")

// IndexFileName is the name of the lexical index database file.
const IndexFileName = "bm25.db"

// ScoredCandidate is a single lexical hit. Scores are not normalized or
// bounded; only relative order within one query's result set is meaningful.
// Higher is better.
type ScoredCandidate struct {
	PaperID string  `json:"id"`
	Score   float64 `json:"score"`
}

// IndexPath returns the path to the lexical index under root.
func IndexPath(root string) string {
	return filepath.Join(root, "index", IndexFileName)
}

// Retriever executes BM25 searches against the FTS5 index.
type Retriever struct {
	db *sql.DB
}

// Open opens the lexical index at the given path. Returns ErrIndexUnavailable
// when the file does not exist or cannot be opened.
func Open(path string) (*Retriever, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrIndexUnavailable, path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	return &Retriever{db: db}, nil
}

// Close closes the underlying database.
func (r *Retriever) Close() error {
	return r.db.Close()
}

// Retrieve executes a BM25 search and returns up to limit candidates sorted
// descending by score. Ties are broken by insertion order, which is
// deterministic for a fixed index snapshot. No side effects.
func (r *Retriever) Retrieve(ctx context.Context, query string, limit int) ([]ScoredCandidate, error) {
	if limit <= 0 {
		return nil, nil
	}

	// FTS5 bm25() ranks lower-is-better, so negate to get the conventional
	// higher-is-better score.
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, -bm25(papers_fts) AS score
		FROM papers_fts
		WHERE papers_fts MATCH ?
		ORDER BY score DESC, rowid ASC
		LIMIT ?`, prepareFTSQuery(query), limit)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}
	defer rows.Close()

	var hits []ScoredCandidate
	for rows.Next() {
		var hit ScoredCandidate
		if err := rows.Scan(&hit.PaperID, &hit.Score); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading hits: %w", err)
	}
	return hits, nil
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// If query contains special chars, quote it
	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
