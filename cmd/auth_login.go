package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var authLoginTimeout time.Duration

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with a device code and save the token.",
	Long: `Request a device code from the Microsoft identity platform, print the code and
verification URL, and wait until the sign-in is confirmed in a browser.

The token (including its refresh token) is stored in graph.token_file, by default
$HOME/.vocabtracker/graph-token.json, readable only by the current user.`,
	Example: `
  # Sign in and wait up to 15 minutes for confirmation
  vocabtracker auth login

  # Give up after 5 minutes
  vocabtracker auth login --timeout 5m
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

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if authLoginTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, authLoginTimeout)
			defer cancel()
		}

		login, err := auth.StartDeviceLogin(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("To sign in, open %s and enter the code %s\n", login.VerificationURI, login.UserCode)
		if login.VerificationURIComplete != "" {
			fmt.Printf("Or open: %s\n", login.VerificationURIComplete)
		}
		fmt.Printf("Waiting for confirmation (code expires %s)...\n", login.ExpiresAt.Local().Format(time.Kitchen))

		if err := auth.CompleteDeviceLogin(ctx, login); err != nil {
			return err
		}

		fmt.Printf("Signed in. Token saved: %s\n", auth.TokenPath())
		return nil
	},
}

func init() {
	authCmd.AddCommand(authLoginCmd)

	authLoginCmd.Flags().DurationVar(&authLoginTimeout, "timeout", 15*time.Minute, "Maximum time to wait for the sign-in to be confirmed")
}
