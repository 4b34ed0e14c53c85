package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/paperchase/paperchase/internal/corpus"
	"github.com/paperchase/paperchase/internal/embedding"
	"github.com/paperchase/paperchase/internal/lexical"
	"github.com/paperchase/paperchase/internal/semantic"
)

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexStatusCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the search indexes",
	Long:  `Commands for building and inspecting the lexical and semantic indexes.`,
}

// IndexBuildResult is the response for the index build command.
type IndexBuildResult struct {
	Status          string  `json:"status"`
	PapersIndexed   int     `json:"papers_indexed"`
	PapersSkipped   int     `json:"papers_skipped"`
	SemanticEntries int     `json:"semantic_entries"`
	DurationSeconds float64 `json:"duration_seconds"`
	Model           string  `json:"model"`
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build or rebuild both indexes from the corpus",
	Long: `Build the BM25 lexical index and the semantic vector index from
every document in the corpus.

The semantic half requires a running embedding backend. With the local
backend, start Ollama and pull the embedding model first.`,
	RunE: runIndexBuild,
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := mustLoadConfig()
	start := time.Now()

	store := corpus.DefaultStore(cfg.Root)

	stats, err := lexical.Build(store, lexical.IndexPath(cfg.Root))
	if err != nil {
		exitWithError(ExitError, "building lexical index: %v", err)
	}

	provider := newEmbedder(cfg)
	if local, ok := provider.(*embedding.OllamaProvider); ok {
		if err := local.IsAvailable(ctx); err != nil {
			exitWithError(ExitBackendError, "Ollama is not running\n\nStart Ollama with 'ollama serve' or install from https://ollama.ai")
		}
		hasModel, err := local.HasModel(ctx)
		if err != nil {
			exitWithError(ExitError, "checking model availability: %v", err)
		}
		if !hasModel {
			exitWithError(ExitBackendError, "Embedding model '%s' not found\n\nRun 'ollama pull %s' to download it.",
				local.ModelName(), local.ModelName())
		}
	}

	vectors, err := semantic.Open(semantic.IndexPath(cfg.Root), provider)
	if err != nil {
		exitWithError(ExitError, "opening semantic index: %v", err)
	}

	ids, err := store.List()
	if err != nil {
		exitWithError(ExitDataError, "listing corpus: %v", err)
	}

	var docs []corpus.Document
	for _, id := range ids {
		doc, err := store.Load(id)
		if err != nil {
			if humanOutput {
				fmt.Fprintf(os.Stderr, "skipping %s: %v\n", id, err)
			}
			continue
		}
		docs = append(docs, doc)
	}

	if _, err := vectors.Upsert(ctx, docs); err != nil {
		exitWithError(ExitError, "embedding corpus: %v", err)
	}
	if err := vectors.Save(); err != nil {
		exitWithError(ExitError, "saving semantic index: %v", err)
	}

	result := IndexBuildResult{
		Status:          "complete",
		PapersIndexed:   stats.Indexed,
		PapersSkipped:   stats.Skipped,
		SemanticEntries: vectors.Len(),
		DurationSeconds: time.Since(start).Seconds(),
		Model:           provider.ModelName(),
	}

	if humanOutput {
		fmt.Printf("Build complete:\n")
		fmt.Printf("  Papers indexed: %d\n", result.PapersIndexed)
		fmt.Printf("  Papers skipped: %d (no title)\n", result.PapersSkipped)
		fmt.Printf("  Semantic entries: %d\n", result.SemanticEntries)
		fmt.Printf("  Time elapsed: %.1fs\n", result.DurationSeconds)
		fmt.Printf("  Model: %s\n", result.Model)
	} else {
		outputJSON(result)
	}
	return nil
}

// IndexStatusResult is the response for the index status command.
type IndexStatusResult struct {
	LexicalPresent  bool   `json:"lexical_present"`
	LexicalPapers   int    `json:"lexical_papers"`
	SemanticPresent bool   `json:"semantic_present"`
	SemanticEntries int    `json:"semantic_entries"`
	SemanticModel   string `json:"semantic_model,omitempty"`
	CorpusSize      int    `json:"corpus_size"`
}

var indexStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index freshness and size",
	RunE:  runIndexStatus,
}

func runIndexStatus(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	var status IndexStatusResult

	if n, err := lexical.Count(lexical.IndexPath(cfg.Root)); err == nil {
		status.LexicalPresent = true
		status.LexicalPapers = n
	}

	idx, err := semantic.LoadIndex(semantic.IndexPath(cfg.Root))
	if err == nil {
		status.SemanticPresent = true
		status.SemanticEntries = len(idx.Entries)
		status.SemanticModel = idx.ModelName
	}

	ids, err := corpus.DefaultStore(cfg.Root).List()
	if err == nil {
		status.CorpusSize = len(ids)
	}

	if humanOutput {
		fmt.Printf("Corpus: %d papers\n", status.CorpusSize)
		fmt.Printf("Lexical index: %s", presence(status.LexicalPresent))
		if status.LexicalPresent {
			fmt.Printf(" (%d papers)", status.LexicalPapers)
		}
		fmt.Println()
		fmt.Printf("Semantic index: %s", presence(status.SemanticPresent))
		if status.SemanticPresent {
			fmt.Printf(" (%d entries, model %s)", status.SemanticEntries, status.SemanticModel)
		}
		fmt.Println()
	} else {
		outputJSON(status)
	}
	return nil
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "missing"
}
