// Package corpus defines the paper document model and the file-backed
// document store used by the search pipeline.
package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when a paper id has no document on disk.
var ErrNotFound = errors.New("document not found")

// ProcessedDir is the corpus directory relative to the repository root.
const ProcessedDir = "data/processed"

// Document is a single paper with its metadata and text.
type Document struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Abstract  string `json:"abstract,omitempty"`
	Text      string `json:"text,omitempty"`
	Year      int    `json:"year,omitempty"`
	Venue     string `json:"venue,omitempty"`
	Published string `json:"published,omitempty"`
	URL       string `json:"url,omitempty"`
}

// ScoringText returns the text used for relevance scoring: full text when
// available, otherwise title plus abstract.
func (d Document) ScoringText() string {
	if d.Text != "" {
		return d.Text
	}
	if d.Abstract != "" {
		return d.Title + "\n" + d.Abstract
	}
	return d.Title
}

// Store resolves paper ids to documents stored as one JSON file per paper.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. Documents live at dir/<id>.json.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultStore creates a store at the conventional corpus path under root.
func DefaultStore(root string) *Store {
	return NewStore(filepath.Join(root, ProcessedDir))
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// Load reads the document for the given paper id.
func (s *Store) Load(id string) (Document, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, fmt.Errorf("paper %q: %w", id, ErrNotFound)
		}
		return Document{}, fmt.Errorf("reading document %q: %w", id, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decoding document %q: %w", id, err)
	}
	if doc.ID == "" {
		doc.ID = id
	}
	return doc, nil
}

// Save writes a document to the store, creating the directory if needed.
func (s *Store) Save(doc Document) error {
	if doc.ID == "" {
		return errors.New("document has no id")
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating corpus directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document %q: %w", doc.ID, err)
	}
	if err := os.WriteFile(s.path(doc.ID), data, 0644); err != nil {
		return fmt.Errorf("writing document %q: %w", doc.ID, err)
	}
	return nil
}

// List returns the ids of all documents in the store.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading corpus directory: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		ids = append(ids, e.Name()[:len(e.Name())-len(".json")])
	}
	return ids, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
