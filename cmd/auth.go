package cmd

import "github.com/spf13/cobra"

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate against Microsoft Graph with a device code.",
	Long: `Authentication helpers for reading the vocabulary workbook from OneDrive.

Use "auth login" to sign in with a device code and store a refreshable token.
Use "auth status" to inspect the stored token and "auth logout" to remove it.`,
}

func init() {
	rootCmd.AddCommand(authCmd)
}
