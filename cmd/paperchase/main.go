// Package main provides the paperchase CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// configPath is the config file location, overridable with --config
var configPath string

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "paperchase",
	Short: "Retrieval-augmented search over a corpus of CS papers",
	Long: `paperchase searches a local corpus of computer science papers with
BM25 retrieval, cross-encoder reranking, and LLM annotation, and can
discover new papers from arXiv by semantic similarity.

All commands output JSON by default for easy integration with other
tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "paperchase.yml", "Path to config file")
	rootCmd.Version = Version
}
