package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Tuyet3005/english-vocab-tracker/loader"
)

var cacheClearSheets string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached worksheet payloads.",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached worksheets so the next load fetches them again.",
	Example: `
  # Drop every cached worksheet
  vocabtracker cache clear

  # Drop two worksheets only
  vocabtracker cache clear --sheets "Week 1,Week 2"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(slog.Default())
		if err != nil {
			return err
		}
		defer app.Close()

		removed, err := app.service.Invalidate(context.Background(), loader.ParseSheetList(cacheClearSheets))
		if err != nil {
			return err
		}
		fmt.Printf("Cache entries removed: %d\n", removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	cacheClearCmd.Flags().StringVar(&cacheClearSheets, "sheets", "", "Comma-separated worksheet names (default: all cached entries)")
}
