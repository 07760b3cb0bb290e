package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tuyet3005/english-vocab-tracker/loader"
	"github.com/Tuyet3005/english-vocab-tracker/output"
)

var (
	fetchSheets  string
	fetchRefresh bool
	fetchRaw     bool
	fetchOutput  string
	fetchCompact bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Load the configured workbook and print it as JSON",
	Long: `Load the configured workbook through the cache and print the structured document
(topics, words and statistics per worksheet) as JSON.

With --raw the untransformed worksheet payload is printed instead. Worksheets that
failed to load appear as {"name", "error"} entries in both forms.`,
	Example: `
  # Print all default worksheets
  vocabtracker fetch

  # Fetch two worksheets fresh from OneDrive into a file
  vocabtracker fetch --sheets "Week 1,Week 2" --refresh --output ./vocab.json

  # Print the raw cell grid
  vocabtracker fetch --raw --sheets "Week 1"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(slog.Default())
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sheets := loader.ParseSheetList(fetchSheets)
		var payload any
		if fetchRaw {
			payload, err = app.service.LoadRaw(ctx, sheets, fetchRefresh)
		} else {
			payload, err = app.service.Load(ctx, sheets, fetchRefresh)
		}
		if err != nil {
			return err
		}

		writer := &output.JSONWriter{Indent: !fetchCompact}
		if fetchOutput == "" || fetchOutput == "-" {
			return writer.Encode(os.Stdout, payload)
		}

		file, err := os.Create(fetchOutput)
		if err != nil {
			return fmt.Errorf("create output %s: %w", fetchOutput, err)
		}
		defer file.Close()
		if err := writer.Encode(file, payload); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Written: %s\n", fetchOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchSheets, "sheets", "", "Comma-separated worksheet names (default: sheets from config, else all)")
	fetchCmd.Flags().BoolVar(&fetchRefresh, "refresh", false, "Bypass the cache and fetch fresh data")
	fetchCmd.Flags().BoolVar(&fetchRaw, "raw", false, "Print the raw worksheet payload instead of the structured document")
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "-", "Output file path (- for stdout)")
	fetchCmd.Flags().BoolVar(&fetchCompact, "compact", false, "Print compact JSON")
}
