package corpus

import (
	"errors"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	doc := Document{
		ID:       "d1",
		Title:    "Retrieval Augmented Generation",
		Abstract: "Since the dawn of humanity, we have struggled over retrieval.",
		Text:     "We propose combining dense and sparse retrieval.",
		Year:     2020,
	}
	if err := store.Save(doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load("d1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Title != doc.Title || got.Year != doc.Year || got.Text != doc.Text {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, doc)
	}
}

func TestStoreLoad_NotFound(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Load("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreSave_NoID(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.Save(Document{Title: "no id"}); err == nil {
		t.Error("expected error saving document without id")
	}
}

func TestStoreList(t *testing.T) {
	store := NewStore(t.TempDir())

	for _, id := range []string{"d1", "d2", "d3"} {
		if err := store.Save(Document{ID: id, Title: id}); err != nil {
			t.Fatalf("Save(%s): %v", id, err)
		}
	}

	ids, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("expected 3 ids, got %d: %v", len(ids), ids)
	}
}

func TestScoringText(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{
			name: "full text preferred",
			doc:  Document{Title: "T", Abstract: "A", Text: "full body"},
			want: "full body",
		},
		{
			name: "title plus abstract",
			doc:  Document{Title: "T", Abstract: "A"},
			want: "T\nA",
		},
		{
			name: "title only",
			doc:  Document{Title: "T"},
			want: "T",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.doc.ScoringText(); got != tt.want {
				t.Errorf("ScoringText() = %q, want %q", got, tt.want)
			}
		})
	}
}
