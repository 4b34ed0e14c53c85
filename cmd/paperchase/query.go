package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/paperchase/paperchase/internal/corpus"
	"github.com/paperchase/paperchase/internal/pipeline"
	"github.com/paperchase/paperchase/internal/summary"
)

var (
	queryTop     int
	querySummary bool
)

func init() {
	queryCmd.Flags().IntVar(&queryTop, "top", pipeline.DefaultTopK, "Number of results to return")
	queryCmd.Flags().BoolVar(&querySummary, "summary", false, "Generate an LLM summary for each result")
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Discover papers on arXiv",
	Long: `Extract keywords from a question, fetch matching papers from arXiv,
index the newcomers, and return the most similar papers.

Fetched papers are embedded once; papers already seen are recognized by
their content-derived id and skipped.

Examples:
  paperchase query "how do transformers handle long context?"
  paperchase query --top 3 --summary "state space models"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

// DiscoverResult is one paper in the query command output.
type DiscoverResult struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Published  string  `json:"published"`
	Similarity float32 `json:"similarity"`
	URL        string  `json:"url,omitempty"`
	Summary    string  `json:"summary,omitempty"`
}

// DiscoverResponse is the JSON envelope for the query command.
type DiscoverResponse struct {
	Query   string           `json:"query"`
	Results []DiscoverResult `json:"results"`
	Total   int              `json:"total"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := mustLoadConfig()
	logger := newLogger()
	defer logger.Sync()

	pipe, store := buildDiscoverPipeline(cfg, logger)

	query := args[0]
	matches, err := pipe.Discover(ctx, query, queryTop)
	if err != nil {
		exitWithError(ExitError, "discovering: %v", err)
	}

	// Persist the run's upserts so the next run skips their embeddings.
	if err := store.Save(); err != nil {
		exitWithError(ExitError, "saving semantic index: %v", err)
	}

	var summarizer *summary.Summarizer
	if querySummary {
		summarizer = summary.NewSummarizer(newGenerator(cfg))
	}

	results := make([]DiscoverResult, len(matches))
	for i, m := range matches {
		results[i] = DiscoverResult{
			ID:         m.Entry.PaperID,
			Title:      m.Entry.Title,
			Published:  m.Entry.Published,
			Similarity: m.Similarity,
			URL:        m.Entry.URL,
		}
		if summarizer != nil {
			doc := corpus.Document{
				ID:       m.Entry.PaperID,
				Title:    m.Entry.Title,
				Abstract: m.Entry.Abstract,
				Year:     m.Entry.Year,
			}
			text, err := summarizer.Summarize(ctx, doc)
			if err != nil {
				logger.Warn("summary failed, leaving result unsummarized",
					zap.String("id", m.Entry.PaperID), zap.Error(err))
			} else {
				results[i].Summary = text
			}
		}
	}

	if humanOutput {
		printDiscoverResults(query, results)
	} else {
		outputJSON(DiscoverResponse{Query: query, Results: results, Total: len(results)})
	}
	return nil
}

func printDiscoverResults(query string, results []DiscoverResult) {
	if len(results) == 0 {
		fmt.Println("No papers found")
		return
	}
	fmt.Printf("Found %d papers for %q:\n\n", len(results), query)
	for i, r := range results {
		fmt.Printf("[%d] %s\n", i+1, truncateString(r.Title, SummaryTitleMaxLen))
		fmt.Printf("    published=%s similarity=%.3f\n", r.Published, r.Similarity)
		if r.URL != "" {
			fmt.Printf("    %s\n", r.URL)
		}
		if r.Summary != "" {
			fmt.Printf("    %s\n", r.Summary)
		}
		fmt.Println()
	}
}
