// Package importer loads papers from external export formats into the
// corpus.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paperchase/paperchase/internal/corpus"
)

// columnAliases maps canonical field names to accepted header spellings.
// Raw exports are inconsistent about naming, so matching is case-insensitive
// and alias-aware.
var columnAliases = map[string][]string{
	"title":     {"title", "paper_title"},
	"abstract":  {"abstract", "summary", "summaries"},
	"published": {"published", "date", "publication_date"},
	"url":       {"url", "link", "pdf_url"},
	"venue":     {"venue", "journal"},
	"year":      {"year"},
}

// ParseCSV reads a paper export and returns one document per usable row.
// Rows without a title are reported as errors and skipped; the rest of the
// file is still imported. Ids are derived from title and publish date.
func ParseCSV(r io.Reader) ([]corpus.Document, []error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, []error{fmt.Errorf("reading header: %w", err)}
	}
	cols := mapColumns(header)
	if _, ok := cols["title"]; !ok {
		return nil, []error{fmt.Errorf("no title column in header %v", header)}
	}

	var docs []corpus.Document
	var errs []error
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}

		doc, err := recordToDocument(record, cols)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		docs = append(docs, doc)
	}
	return docs, errs
}

// ImportCSV parses a paper export and saves every usable row to the store.
// Returns the number of documents saved plus per-row errors.
func ImportCSV(r io.Reader, store *corpus.Store) (int, []error) {
	docs, errs := ParseCSV(r)
	saved := 0
	for _, doc := range docs {
		if err := store.Save(doc); err != nil {
			errs = append(errs, fmt.Errorf("saving %s: %w", doc.ID, err))
			continue
		}
		saved++
	}
	return saved, errs
}

func mapColumns(header []string) map[string]int {
	cols := make(map[string]int)
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		for canonical, aliases := range columnAliases {
			for _, alias := range aliases {
				if name == alias {
					cols[canonical] = i
				}
			}
		}
	}
	return cols
}

func recordToDocument(record []string, cols map[string]int) (corpus.Document, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	title := field("title")
	if title == "" {
		return corpus.Document{}, fmt.Errorf("missing title")
	}

	published := field("published")
	if published == "" {
		published = corpus.UnknownPublished
	}
	doc := corpus.Document{
		ID:        corpus.DeriveID(title, published),
		Title:     title,
		Abstract:  field("abstract"),
		Published: published,
		URL:       field("url"),
		Venue:     field("venue"),
	}
	if y := field("year"); y != "" {
		if year, err := strconv.Atoi(y); err == nil {
			doc.Year = year
		}
	}
	if doc.Year == 0 && len(published) >= 4 {
		if year, err := strconv.Atoi(published[:4]); err == nil {
			doc.Year = year
		}
	}
	return doc, nil
}
