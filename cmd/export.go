package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tuyet3005/english-vocab-tracker/loader"
	"github.com/Tuyet3005/english-vocab-tracker/output"
	"github.com/Tuyet3005/english-vocab-tracker/vocab"
)

const (
	exportModeWords  = "words"
	exportModeTopics = "topics"
)

var (
	exportFormat  string
	exportMode    string
	exportOutput  string
	exportSheets  string
	exportRefresh bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the vocabulary of the configured workbook to CSV/Excel/JSON",
	Long: `Load the configured workbook (through the cache) and export it.

Modes:
- words: one row per word with worksheet, topic, flag and learning status
- topics: one row per topic with word counts by flag

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export all words to CSV
  vocabtracker export --output ./words.csv

  # Export words of two worksheets to Excel, bypassing the cache
  vocabtracker export --sheets "Week 1,Week 2" --refresh --output ./words.xlsx

  # Export per-topic progress
  vocabtracker export --mode topics --output ./topics.csv

  # Force Excel format independent of extension
  vocabtracker export --format excel --output ./words.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := normalizeExportMode(exportMode)
		if err != nil {
			return err
		}
		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}

		app, err := openApp(slog.Default())
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		doc, err := app.service.Load(ctx, loader.ParseSheetList(exportSheets), exportRefresh)
		if err != nil {
			return err
		}
		return writeDocument(doc, exportOutput, format, mode)
	},
}

func normalizeExportMode(value string) (string, error) {
	switch mode := strings.TrimSpace(strings.ToLower(value)); mode {
	case "", exportModeWords:
		return exportModeWords, nil
	case exportModeTopics:
		return exportModeTopics, nil
	default:
		return "", fmt.Errorf("unsupported export mode: %s (supported: words, topics)", value)
	}
}

// writeDocument writes doc in the given mode and reports what was written.
func writeDocument(doc *vocab.Document, path, format, mode string) error {
	if path == "-" && (mode == exportModeTopics || strings.ToLower(strings.TrimSpace(format)) != "json") {
		return fmt.Errorf("standard output only supports the json format in words mode")
	}

	switch mode {
	case exportModeTopics:
		summaries := output.BuildTopicSummaries(doc)
		if err := output.WriteTopicSummaries(path, format, summaries); err != nil {
			return err
		}
		fmt.Printf("Export completed. Topics: %d, Mode: topics, Format: %s, File: %s\n", len(summaries), format, path)
	default:
		writer, err := output.WriterForFormat(format)
		if err != nil {
			return err
		}
		if err := writer.Write(path, doc); err != nil {
			return err
		}
		if path == "-" {
			return nil
		}
		fmt.Printf("Export completed. Words: %d, Mode: words, Format: %s, File: %s\n", countWords(doc), format, path)
	}
	return nil
}

func countWords(doc *vocab.Document) int {
	if doc == nil {
		return 0
	}
	total := 0
	for _, sheet := range doc.Worksheets {
		total += sheet.Statistics.TotalWords
	}
	return total
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv", "tsv":
		return ext
	case "xlsx", "xlsm", "xls":
		return "excel"
	case "json":
		return "json"
	default:
		if path == "-" {
			return "json"
		}
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", exportModeWords, "Export mode: words|topics")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|tsv|excel|json (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportSheets, "sheets", "", "Comma-separated worksheet names (default: sheets from config, else all)")
	exportCmd.Flags().BoolVar(&exportRefresh, "refresh", false, "Bypass the cache and fetch fresh data")

	_ = exportCmd.MarkFlagRequired("output")
}
