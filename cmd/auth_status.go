package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tuyet3005/english-vocab-tracker/graph"
)

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a usable Graph token is stored.",
	Example: `
  vocabtracker auth status
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

		fmt.Printf("Token file: %s\n", auth.TokenPath())
		fmt.Print(formatAuthStatus(auth.Status(), time.Now()))
		return nil
	},
}

func formatAuthStatus(status graph.Status, now time.Time) string {
	if !status.Authenticated {
		return "Authenticated: no (run `vocabtracker auth login`)\n"
	}

	out := "Authenticated: yes\n"
	if status.ExpiresAt != nil {
		remaining := status.ExpiresAt.Sub(now).Round(time.Second)
		if remaining > 0 {
			out += fmt.Sprintf("Access token expires in: %s\n", remaining)
		} else {
			out += "Access token expired\n"
		}
	}
	if status.CanRefresh {
		out += "Refresh token: present\n"
	} else {
		out += "Refresh token: missing\n"
	}
	return out
}

func init() {
	authCmd.AddCommand(authStatusCmd)
}
