package lexical

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paperchase/paperchase/internal/corpus"
)

// BuildStats reports the outcome of an index build.
type BuildStats struct {
	Indexed int `json:"indexed"`
	Skipped int `json:"skipped"`
}

// Build creates (or rebuilds) the lexical index at path from every document
// in the corpus store. Documents without a title are skipped.
func Build(store *corpus.Store, path string) (BuildStats, error) {
	var stats BuildStats

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return stats, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return stats, fmt.Errorf("opening index database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	// Drop and recreate so stale entries and stale schemas never survive
	// a rebuild. The id column is stored for result mapping but excluded
	// from matching: scoring runs on title/abstract/body only.
	schema := `
		DROP TABLE IF EXISTS papers;
		DROP TABLE IF EXISTS papers_fts;

		CREATE TABLE papers (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			pub_year INTEGER
		);

		CREATE VIRTUAL TABLE papers_fts USING fts5(
			id UNINDEXED,
			title,
			abstract,
			body
		);
	`
	if _, err := db.Exec(schema); err != nil {
		return stats, fmt.Errorf("creating schema: %w", err)
	}

	ids, err := store.List()
	if err != nil {
		return stats, fmt.Errorf("listing corpus: %w", err)
	}

	paperStmt, err := db.Prepare("INSERT INTO papers (id, title, pub_year) VALUES (?, ?, ?)")
	if err != nil {
		return stats, fmt.Errorf("preparing papers insert: %w", err)
	}
	defer paperStmt.Close()

	ftsStmt, err := db.Prepare("INSERT INTO papers_fts (id, title, abstract, body) VALUES (?, ?, ?, ?)")
	if err != nil {
		return stats, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, id := range ids {
		doc, err := store.Load(id)
		if err != nil || doc.Title == "" {
			stats.Skipped++
			continue
		}
		if _, err := paperStmt.Exec(doc.ID, doc.Title, doc.Year); err != nil {
			return stats, fmt.Errorf("inserting paper %s: %w", doc.ID, err)
		}
		if _, err := ftsStmt.Exec(doc.ID, doc.Title, doc.Abstract, doc.Text); err != nil {
			return stats, fmt.Errorf("inserting fts for %s: %w", doc.ID, err)
		}
		stats.Indexed++
	}

	return stats, nil
}

// Count returns the number of papers in the index at path.
func Count(path string) (int, error) {
	r, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM papers").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}
