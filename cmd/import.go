package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tuyet3005/english-vocab-tracker/loader"
	"github.com/Tuyet3005/english-vocab-tracker/vocab"
	"github.com/Tuyet3005/english-vocab-tracker/workbook"
)

var (
	importInputs       []string
	importFormat       string
	importSheets       string
	importOutput       string
	importOutputFormat string
	importMode         string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Convert local vocabulary workbooks without network access or cache",
	Long: `Read local spreadsheet files, group their rows into topics and words, and write the
result as JSON, CSV or Excel.

When --format is omitted, the input format is inferred from each file extension.
Worksheets of several input files are combined into one document in input order.`,
	Example: `
  # Print the structured document of a local workbook
  vocabtracker import -i ./English-vocab.xlsx

  # Convert two worksheets to a word list in Excel
  vocabtracker import -i ./English-vocab.xlsx --sheets "Week 1,Week 2" --output ./words.xlsx

  # Per-topic progress of a CSV export
  vocabtracker import -i ./week1.csv --mode topics --output ./topics.csv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := normalizeExportMode(importMode)
		if err != nil {
			return err
		}

		raw, err := readInputs(importInputs, importFormat, loader.ParseSheetList(importSheets))
		if err != nil {
			return err
		}
		doc := vocab.Transform(raw)

		format := importOutputFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(importOutput)
		}
		if err := writeDocument(doc, importOutput, format, mode); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Import completed. Files: %d, Worksheets: %d, Words: %d\n", len(importInputs), len(doc.Worksheets), countWords(doc))
		return nil
	},
}

// readInputs reads every input file and concatenates their worksheets. The
// file name and size of a single input are kept; several inputs are summed.
func readInputs(paths []string, format string, sheets []string) (*vocab.RawDocument, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("at least one input file is required")
	}

	combined := &vocab.RawDocument{Worksheets: []vocab.RawWorksheet{}}
	names := make([]string, 0, len(paths))
	for _, path := range paths {
		inputFormat := format
		if strings.TrimSpace(inputFormat) == "" {
			inferred, err := workbook.InferFormat(path)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			inputFormat = inferred
		}
		reader, err := workbook.ReaderForFormat(inputFormat)
		if err != nil {
			return nil, err
		}

		doc, err := reader.Read(path, sheets)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		names = append(names, doc.FileName)
		combined.FileSize += doc.FileSize
		combined.Worksheets = append(combined.Worksheets, doc.Worksheets...)
	}
	combined.FileName = strings.Join(names, ", ")
	return combined, nil
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVar(&importFormat, "format", "", "Input format: csv|tsv|excel (optional, inferred from extension)")
	importCmd.Flags().StringVar(&importSheets, "sheets", "", "Comma-separated worksheet names (default: all)")
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "-", "Output file path (- for JSON on stdout)")
	importCmd.Flags().StringVar(&importOutputFormat, "output-format", "", "Output format: csv|tsv|excel|json (optional, inferred from output extension)")
	importCmd.Flags().StringVar(&importMode, "mode", exportModeWords, "Output mode for csv/excel: words|topics")

	_ = importCmd.MarkFlagRequired("input")
}
