package arxiv

import (
	"strings"

	"github.com/paperchase/paperchase/internal/corpus"
)

// Field labels appearing in summary-block records.
const (
	labelTitle     = "Title:"
	labelPublished = "Published:"
	labelSummary   = "Summary:"
)

// ParseSummaryBlocks parses a raw block of text where each paper is a
// blank-line-delimited record with labeled Title/Published/Summary fields.
// Missing fields are defaulted ("unknown" published, empty summary) rather
// than failing the record; records without a title are skipped. Each parsed
// document gets the stable derived id.
func ParseSummaryBlocks(raw string) []corpus.Document {
	var docs []corpus.Document
	for _, block := range strings.Split(raw, "\n\n") {
		doc, ok := parseBlock(block)
		if !ok {
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

// parseBlock parses one labeled record. Unlabeled lines continue the
// summary, matching how the upstream wrapper folds paragraphs.
func parseBlock(block string) (corpus.Document, bool) {
	var title, published string
	var summary []string

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, labelTitle):
			title = strings.TrimSpace(strings.TrimPrefix(line, labelTitle))
		case strings.HasPrefix(line, labelPublished):
			published = strings.TrimSpace(strings.TrimPrefix(line, labelPublished))
		case strings.HasPrefix(line, labelSummary):
			if s := strings.TrimSpace(strings.TrimPrefix(line, labelSummary)); s != "" {
				summary = append(summary, s)
			}
		default:
			summary = append(summary, line)
		}
	}

	if title == "" {
		return corpus.Document{}, false
	}
	if published == "" {
		published = corpus.UnknownPublished
	}

	return corpus.Document{
		ID:        corpus.DeriveID(title, published),
		Title:     title,
		Abstract:  strings.Join(summary, " "),
		Published: published,
	}, true
}

// collapseWhitespace flattens newlines and runs of spaces, which the arXiv
// API inserts freely inside titles and abstracts.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
