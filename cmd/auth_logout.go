package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored Graph token.",
	Example: `
  vocabtracker auth logout
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireGraphSource()
		if err != nil {
			return err
		}
		auth, err := newAuthenticator(cfg, slog.Default())
		if err != nil {
			return err
		}
		if err := auth.Logout(); err != nil {
			return err
		}

		fmt.Printf("Signed out. Removed %s\n", auth.TokenPath())
		return nil
	},
}

func init() {
	authCmd.AddCommand(authLogoutCmd)
}
