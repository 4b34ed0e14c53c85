package importer

import (
	"strings"
	"testing"

	"github.com/paperchase/paperchase/internal/corpus"
)

func TestParseCSV(t *testing.T) {
	input := `title,summary,published,link
"Attention Is All You Need","The dominant sequence transduction models...",2017-06-12,https://arxiv.org/abs/1706.03762
"BERT: Pre-training of Deep Bidirectional Transformers","We introduce a new language representation model.",2018-10-11,
`
	docs, errs := ParseCSV(strings.NewReader(input))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}

	first := docs[0]
	if first.Title != "Attention Is All You Need" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Abstract == "" {
		t.Error("abstract not mapped from summary column")
	}
	if first.Published != "2017-06-12" {
		t.Errorf("published = %q", first.Published)
	}
	if first.Year != 2017 {
		t.Errorf("year = %d, want 2017", first.Year)
	}
	if first.URL != "https://arxiv.org/abs/1706.03762" {
		t.Errorf("url = %q", first.URL)
	}
	if first.ID != corpus.DeriveID(first.Title, first.Published) {
		t.Errorf("id = %q, want derived id", first.ID)
	}
}

func TestParseCSVMissingPublishedIsUnknown(t *testing.T) {
	input := `title,summary
"Undated Paper","no date column at all"
`
	docs, errs := ParseCSV(strings.NewReader(input))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}
	if docs[0].Published != corpus.UnknownPublished {
		t.Errorf("published = %q, want %q", docs[0].Published, corpus.UnknownPublished)
	}
	if docs[0].ID != corpus.DeriveID("Undated Paper", "") {
		t.Errorf("id = %q, want the same id an empty date derives", docs[0].ID)
	}
}

func TestParseCSVSkipsTitlelessRows(t *testing.T) {
	input := `title,summary
"Good Paper","fine"
"","no title here"
"Another Paper","also fine"
`
	docs, errs := ParseCSV(strings.NewReader(input))
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if !strings.Contains(errs[0].Error(), "missing title") {
		t.Errorf("error = %v", errs[0])
	}
}

func TestParseCSVRequiresTitleColumn(t *testing.T) {
	_, errs := ParseCSV(strings.NewReader("a,b\n1,2\n"))
	if len(errs) == 0 {
		t.Fatal("expected error for missing title column")
	}
}

func TestImportCSV(t *testing.T) {
	store := corpus.NewStore(t.TempDir())
	input := `title,published
"Stable Paper",2020-01-01
`
	saved, errs := ImportCSV(strings.NewReader(input), store)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if saved != 1 {
		t.Fatalf("saved = %d, want 1", saved)
	}

	id := corpus.DeriveID("Stable Paper", "2020-01-01")
	doc, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Title != "Stable Paper" {
		t.Errorf("title = %q", doc.Title)
	}
}
