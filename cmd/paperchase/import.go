package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paperchase/paperchase/internal/arxiv"
	"github.com/paperchase/paperchase/internal/corpus"
	"github.com/paperchase/paperchase/internal/importer"
	"github.com/paperchase/paperchase/internal/pdf"
)

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.AddCommand(importPDFCmd)
	importCmd.AddCommand(importCSVCmd)
	importCmd.AddCommand(importSummariesCmd)
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import papers into the corpus",
	Long:  `Commands for importing papers from PDFs, CSV exports, and summary text files.`,
}

// ImportResult is the response for import commands.
type ImportResult struct {
	Status   string   `json:"status"`
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	IDs      []string `json:"ids,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

var importPDFCmd = &cobra.Command{
	Use:   "pdf <file>...",
	Short: "Import papers from PDF files",
	Long: `Extract title and text from each PDF and add it to the corpus.
Document ids are derived from the extracted title, so re-importing the
same paper is a no-op.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImportPDF,
}

func runImportPDF(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	store := corpus.DefaultStore(cfg.Root)

	var result ImportResult
	for _, path := range args {
		doc, err := pdf.Import(path, store)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Imported++
		result.IDs = append(result.IDs, doc.ID)
		if humanOutput {
			fmt.Printf("imported %s  %s\n", doc.ID[:12], truncateString(doc.Title, SummaryTitleMaxLen))
		}
	}
	finishImport(result)
	return nil
}

var importCSVCmd = &cobra.Command{
	Use:   "csv <file>",
	Short: "Import papers from a CSV export",
	Long: `Import papers from a CSV export with a header row. Recognized
columns include title, summary/abstract, published, url, and year.
Rows without a title are skipped and reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runImportCSV,
}

func runImportCSV(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	store := corpus.DefaultStore(cfg.Root)

	f, err := os.Open(args[0])
	if err != nil {
		exitWithError(ExitDataError, "opening %s: %v", args[0], err)
	}
	defer f.Close()

	saved, errs := importer.ImportCSV(f, store)
	result := ImportResult{Imported: saved, Failed: len(errs)}
	for _, e := range errs {
		result.Errors = append(result.Errors, e.Error())
	}
	finishImport(result)
	return nil
}

var importSummariesCmd = &cobra.Command{
	Use:   "summaries <file>",
	Short: "Import papers from a summary text file",
	Long: `Import papers from a plain-text file of blank-line-separated
records with Title:, Published:, and Summary: fields.`,
	Args: cobra.ExactArgs(1),
	RunE: runImportSummaries,
}

func runImportSummaries(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	store := corpus.DefaultStore(cfg.Root)

	data, err := os.ReadFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", args[0], err)
	}

	docs := arxiv.ParseSummaryBlocks(string(data))
	var result ImportResult
	for _, doc := range docs {
		if err := store.Save(doc); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("saving %s: %v", doc.ID, err))
			continue
		}
		result.Imported++
		result.IDs = append(result.IDs, doc.ID)
	}
	finishImport(result)
	return nil
}

func finishImport(result ImportResult) {
	result.Status = "complete"
	if result.Imported == 0 && result.Failed > 0 {
		result.Status = "failed"
	}

	if humanOutput {
		fmt.Printf("Imported %d papers (%d failed)\n", result.Imported, result.Failed)
		for _, msg := range result.Errors {
			fmt.Fprintf(os.Stderr, "  %s\n", msg)
		}
	} else {
		outputJSON(result)
	}

	if result.Status == "failed" {
		os.Exit(ExitDataError)
	}
}
