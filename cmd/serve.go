package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tuyet3005/english-vocab-tracker/vocab"
	"github.com/Tuyet3005/english-vocab-tracker/web"
)

var (
	servePort            int
	serveRefreshInterval time.Duration
	serveNoOpen          bool
	serveWarm            bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web UI and JSON API",
	Long: `Start a local HTTP server that shows the vocabulary grouped by worksheet and topic.

The page embeds the cached document so it renders without contacting OneDrive. The
JSON API loads fresh data on request, and a device login can be started from the page.
While the server runs, the stored Graph token is refreshed ahead of its expiry.`,
	Example: `
  # Start local server on the configured port
  vocabtracker serve

  # Custom port, no browser
  vocabtracker serve --port 9090 --no-open

  # Fill the cache right away so the page has data on first load
  vocabtracker serve --warm
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()
		app, err := openApp(logger)
		if err != nil {
			return err
		}
		defer app.Close()

		port := app.cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}
		refreshInterval := app.cfg.Server.RefreshInterval
		if cmd.Flags().Changed("refresh-interval") {
			refreshInterval = serveRefreshInterval
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// A nil *graph.Authenticator must stay a nil interface.
		var auth web.DeviceAuthenticator
		if app.auth != nil {
			auth = app.auth
			go app.auth.RefreshLoop(ctx, refreshInterval)
		}

		if serveWarm {
			go warmCache(ctx, logger, app.service)
		}

		server := &http.Server{
			Addr: fmt.Sprintf(":%d", port),
			Handler: web.NewServer(app.service, auth, web.Options{
				Logger:      logger,
				BaseContext: ctx,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		listenURL := fmt.Sprintf("http://localhost:%d", port)
		fmt.Printf("Listening on %s\n", listenURL)
		if !serveNoOpen {
			if openErr := browserCommand(runtime.GOOS, listenURL).Start(); openErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", openErr)
			}
		}

		return runServer(ctx, server, 10*time.Second)
	},
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, server *http.Server, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type documentLoader interface {
	Load(ctx context.Context, sheetNames []string, refresh bool) (*vocab.Document, error)
}

// warmCache loads the default worksheets once so the first page view has
// data to embed. Failures are only logged.
func warmCache(ctx context.Context, logger *slog.Logger, service documentLoader) {
	doc, err := service.Load(ctx, nil, false)
	if err != nil {
		logger.Warn("cache warm-up failed", "error", err)
		return
	}
	logger.Info("cache warmed", "worksheets", len(doc.Worksheets), "words", countWords(doc))
}

func browserCommand(goos, rawURL string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", rawURL)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return exec.Command("xdg-open", rawURL)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port for the local web server (overrides server.port)")
	serveCmd.Flags().DurationVar(&serveRefreshInterval, "refresh-interval", 30*time.Minute, "How often to check the Graph token for refresh (overrides server.refresh_interval, 0 disables)")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open browser automatically")
	serveCmd.Flags().BoolVar(&serveWarm, "warm", false, "Load the default worksheets in the background at startup")
}
