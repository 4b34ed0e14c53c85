package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperchase/paperchase/internal/pipeline"
)

var searchTop int

func init() {
	searchCmd.Flags().IntVar(&searchTop, "top", pipeline.DefaultTopK, "Number of results to return")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the local corpus",
	Long: `Search the local corpus with BM25 retrieval, rerank the candidates
with a cross-encoder, and annotate each result with an LLM note.

Requires the lexical index; run 'paperchase index build' first.

Examples:
  paperchase search "retrieval augmented generation"
  paperchase search --top 10 --human "graph neural networks"`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

// SearchResponse is the JSON envelope for the search command.
type SearchResponse struct {
	Query   string            `json:"query"`
	Results []pipeline.Result `json:"results"`
	Total   int               `json:"total"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := mustLoadConfig()
	logger := newLogger()
	defer logger.Sync()

	pipe, closeIndex := buildSearchPipeline(cfg, logger)
	defer closeIndex()

	query := args[0]
	results, err := pipe.Search(ctx, query, searchTop)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	if humanOutput {
		printResults(query, results)
	} else {
		outputJSON(SearchResponse{Query: query, Results: results, Total: len(results)})
	}
	return nil
}

func printResults(query string, results []pipeline.Result) {
	if len(results) == 0 {
		fmt.Println("No papers found")
		return
	}
	fmt.Printf("Found %d papers for %q:\n\n", len(results), query)
	for i, r := range results {
		fmt.Printf("[%d] %s\n", i+1, truncateString(r.Title, SummaryTitleMaxLen))
		fmt.Printf("    bm25=%.3f cross=%.3f\n", r.ScoreBM25, r.ScoreCross)
		if r.LLMNote != "" {
			fmt.Printf("    %s\n", r.LLMNote)
		}
		fmt.Println()
	}
}
