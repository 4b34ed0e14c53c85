package pdf

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/paperchase/paperchase/internal/corpus"
)

// Import extracts a document from a PDF file and writes it to the corpus
// store. The document id is derived from the extracted title; the publish
// date is unknown for local files.
func Import(path string, store *corpus.Store) (corpus.Document, error) {
	title, err := ExtractTitle(path)
	if err != nil {
		return corpus.Document{}, fmt.Errorf("extracting title from %s: %w", path, err)
	}
	if title == "" {
		// Fall back to the filename so the document stays addressable.
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	text, err := ExtractText(path, 0)
	if err != nil {
		return corpus.Document{}, fmt.Errorf("extracting text from %s: %w", path, err)
	}

	doc := corpus.Document{
		ID:    corpus.DeriveID(title, ""),
		Title: title,
		Text:  text,
	}
	if err := store.Save(doc); err != nil {
		return corpus.Document{}, fmt.Errorf("saving imported document: %w", err)
	}
	return doc, nil
}
