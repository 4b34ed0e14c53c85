package arxiv

import (
	"testing"

	"github.com/paperchase/paperchase/internal/corpus"
)

func TestParseSummaryBlocks(t *testing.T) {
	raw := "Title: Retrieval Augmented Generation\n" +
		"Published: 2020-05-22\n" +
		"Summary: Combines dense and sparse retrieval\n" +
		"with a generative reader.\n" +
		"\n" +
		"Title: BM25 Ranking Explained\n" +
		"Published: 2018-01-01\n" +
		"Summary: A survey of BM25 variations."

	docs := ParseSummaryBlocks(raw)
	if len(docs) != 2 {
		t.Fatalf("parsed %d documents, want 2", len(docs))
	}

	first := docs[0]
	if first.Title != "Retrieval Augmented Generation" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Published != "2020-05-22" {
		t.Errorf("published = %q", first.Published)
	}
	if first.Abstract != "Combines dense and sparse retrieval with a generative reader." {
		t.Errorf("abstract = %q", first.Abstract)
	}
	if first.ID != corpus.DeriveID(first.Title, first.Published) {
		t.Errorf("id not derived from content: %s", first.ID)
	}
}

func TestParseSummaryBlocks_MissingPublished(t *testing.T) {
	raw := "Title: Untitled Preprint\nSummary: Some abstract text."

	docs := ParseSummaryBlocks(raw)
	if len(docs) != 1 {
		t.Fatalf("parsed %d documents, want 1", len(docs))
	}
	if docs[0].Published != corpus.UnknownPublished {
		t.Errorf("published = %q, want %q", docs[0].Published, corpus.UnknownPublished)
	}
	if docs[0].Abstract != "Some abstract text." {
		t.Errorf("abstract = %q", docs[0].Abstract)
	}
}

func TestParseSummaryBlocks_MalformedRecordSkipped(t *testing.T) {
	raw := "Published: 2021-01-01\nSummary: No title on this one.\n" +
		"\n" +
		"Title: Valid Paper\nPublished: 2022-02-02\nSummary: Fine."

	docs := ParseSummaryBlocks(raw)
	if len(docs) != 1 {
		t.Fatalf("parsed %d documents, want 1 (malformed record skipped)", len(docs))
	}
	if docs[0].Title != "Valid Paper" {
		t.Errorf("surviving title = %q", docs[0].Title)
	}
}

func TestParseSummaryBlocks_DeterministicIDs(t *testing.T) {
	raw := "Title: Same Paper\nPublished: 2020-01-01\nSummary: Abstract."

	a := ParseSummaryBlocks(raw)
	b := ParseSummaryBlocks(raw)
	if a[0].ID != b[0].ID {
		t.Errorf("re-parsing identical record changed id: %s vs %s", a[0].ID, b[0].ID)
	}
}

func TestParseSummaryBlocks_Empty(t *testing.T) {
	if docs := ParseSummaryBlocks(""); len(docs) != 0 {
		t.Errorf("expected no documents from empty input, got %d", len(docs))
	}
}
