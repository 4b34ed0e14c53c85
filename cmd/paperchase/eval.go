package main

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/paperchase/paperchase/internal/eval"
	"github.com/paperchase/paperchase/internal/pipeline"
)

var evalTop int

func init() {
	evalCmd.Flags().IntVar(&evalTop, "top", 10, "Number of results to retrieve per query")
	rootCmd.AddCommand(evalCmd)
}

var evalCmd = &cobra.Command{
	Use:   "eval <gold-set>",
	Short: "Score retrieval quality against a gold set",
	Long: `Run every query in a gold-set file through the search pipeline and
report precision, recall, and MRR averaged over the set.

The gold set is a JSON array of {"query": ..., "gold_ids": [...]} objects.

Requires the lexical index; run 'paperchase index build' first.

Examples:
  paperchase eval goldset.json
  paperchase eval --top 20 --human goldset.json`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

// EvalResult is the JSON envelope for the eval command.
type EvalResult struct {
	Examples int                `json:"examples"`
	Metrics  map[string]float64 `json:"metrics"`
}

func runEval(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := mustLoadConfig()
	logger := newLogger()
	defer logger.Sync()

	examples, err := eval.LoadSet(args[0])
	if err != nil {
		exitWithError(ExitDataError, "loading gold set: %v", err)
	}

	pipe, closeIndex := buildSearchPipeline(cfg, logger)
	defer closeIndex()

	scores := make([]map[string]float64, 0, len(examples))
	for _, ex := range examples {
		results, err := pipe.Search(ctx, ex.Query, evalTop)
		if err != nil && !errors.Is(err, pipeline.ErrNoCandidates) {
			exitWithError(ExitError, "searching %q: %v", ex.Query, err)
		}
		// A query with zero candidates scores against an empty prediction
		// list rather than aborting the run.
		pred := make([]string, len(results))
		for i, r := range results {
			pred[i] = r.PaperID
		}
		scores = append(scores, eval.RetrievalScores(pred, ex.GoldIDs))
		logger.Debug("scored example", zap.String("query", ex.Query), zap.Int("predictions", len(pred)))
	}

	result := EvalResult{Examples: len(examples), Metrics: eval.Aggregate(scores)}

	if humanOutput {
		fmt.Printf("Evaluated %d queries:\n", result.Examples)
		keys := make([]string, 0, len(result.Metrics))
		for k := range result.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %-12s %.3f\n", k, result.Metrics[k])
		}
	} else {
		outputJSON(result)
	}
	return nil
}
