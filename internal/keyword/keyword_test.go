package keyword

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/paperchase/paperchase/internal/generate"
)

// fakeGenerator returns a canned completion.
type fakeGenerator struct {
	output string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

func (f *fakeGenerator) ModelName() string { return "fake" }

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain comma list",
			raw:  "transformers, attention, efficiency",
			want: "transformers, attention, efficiency",
		},
		{
			name: "numbered lines",
			raw:  "1. transformers\n2. attention\n3. efficiency",
			want: "transformers, attention, efficiency",
		},
		{
			name: "markdown emphasis",
			raw:  "**transformers**\n*attention*\n`efficiency`",
			want: "transformers, attention, efficiency",
		},
		{
			name: "bulleted with blanks",
			raw:  "- transformers\n\n- attention\n\n",
			want: "transformers, attention",
		},
		{
			name: "parenthesized enumeration",
			raw:  "1) sparse retrieval\n2) dense retrieval",
			want: "sparse retrieval, dense retrieval",
		},
		{
			name: "surrounding whitespace",
			raw:  "  transformers  \n  attention  ",
			want: "transformers, attention",
		},
		{
			name: "empty output",
			raw:  "\n\n",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.raw); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	gen := &fakeGenerator{output: "1. model compression\n2. pruning"}
	e := NewExtractor(gen)

	got, err := e.Extract(context.Background(), "how do I shrink a transformer?")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "model compression, pruning" {
		t.Errorf("Extract() = %q, want %q", got, "model compression, pruning")
	}
	if !strings.Contains(gen.prompt, "how do I shrink a transformer?") {
		t.Errorf("prompt does not embed the query: %q", gen.prompt)
	}
}

func TestExtract_BackendFailure(t *testing.T) {
	gen := &fakeGenerator{err: generate.ErrGeneration}
	e := NewExtractor(gen)

	_, err := e.Extract(context.Background(), "anything")
	if !errors.Is(err, generate.ErrGeneration) {
		t.Errorf("expected ErrGeneration, got %v", err)
	}
}
