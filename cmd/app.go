package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Tuyet3005/english-vocab-tracker/cache"
	"github.com/Tuyet3005/english-vocab-tracker/config"
	"github.com/Tuyet3005/english-vocab-tracker/graph"
	"github.com/Tuyet3005/english-vocab-tracker/loader"
	"github.com/Tuyet3005/english-vocab-tracker/workbook"
)

const userAgent = "vocabtracker/1.0"

// vocabApp bundles the collaborators a command needs for one run.
type vocabApp struct {
	cfg     *config.Config
	service *loader.Service
	store   cache.Store
	// auth is nil when the workbook is read from a local file.
	auth *graph.Authenticator
}

func (a *vocabApp) Close() error {
	return a.store.Close()
}

func appDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".vocabtracker"), nil
}

func resolveCachePath(backend, explicitPath string) (string, error) {
	if strings.TrimSpace(explicitPath) != "" {
		return explicitPath, nil
	}
	base, err := appDir()
	if err != nil {
		return "", err
	}
	switch backend {
	case cache.BackendSQLite:
		return filepath.Join(base, "cache.db"), nil
	default:
		return filepath.Join(base, "cache"), nil
	}
}

func newAuthenticator(cfg *config.Config, logger *slog.Logger) (*graph.Authenticator, error) {
	return graph.NewAuthenticator(graph.AuthConfig{
		TenantID:     cfg.Graph.TenantID,
		ClientID:     cfg.Graph.ClientID,
		AuthorityURL: cfg.Graph.AuthorityURL,
		Scopes:       cfg.Graph.Scopes,
		TokenPath:    cfg.Graph.TokenFile,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
		Logger:       logger,
	})
}

// requireGraphSource loads the configuration for commands that only make
// sense against Microsoft Graph.
func requireGraphSource() (*config.Config, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, err
	}
	if cfg.Source.Kind != config.SourceGraph {
		return nil, fmt.Errorf("source.kind is %q; authentication is only used with %q", cfg.Source.Kind, config.SourceGraph)
	}
	return cfg, nil
}

// openApp wires the configured source, cache and loader.
func openApp(logger *slog.Logger) (*vocabApp, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, err
	}

	var (
		source    loader.Source
		namespace string
		auth      *graph.Authenticator
	)
	switch cfg.Source.Kind {
	case config.SourceFile:
		fileSource, err := workbook.NewFileSource(cfg.Source.Path, cfg.Source.Format)
		if err != nil {
			return nil, err
		}
		absolute, err := filepath.Abs(fileSource.Path())
		if err != nil {
			return nil, fmt.Errorf("resolve source path: %w", err)
		}
		source = fileSource
		namespace = "file:" + absolute
	case config.SourceGraph:
		auth, err = newAuthenticator(cfg, logger)
		if err != nil {
			return nil, err
		}
		client, err := graph.NewClient(graph.ClientConfig{
			BaseURL:    cfg.Graph.BaseURL,
			FilePath:   cfg.Graph.FilePath,
			UserAgent:  userAgent,
			HTTPClient: auth.HTTPClient(&http.Client{Timeout: 60 * time.Second}),
		})
		if err != nil {
			return nil, err
		}
		source = client
		namespace = "graph:" + cfg.Graph.FilePath
	default:
		return nil, errors.New("unsupported source kind: " + cfg.Source.Kind)
	}

	cachePath := cfg.Cache.Path
	if cfg.Cache.Backend == cache.BackendFile || cfg.Cache.Backend == cache.BackendSQLite {
		cachePath, err = resolveCachePath(cfg.Cache.Backend, cfg.Cache.Path)
		if err != nil {
			return nil, err
		}
	}
	store, err := cache.Open(cfg.Cache.Backend, cachePath)
	if err != nil {
		return nil, err
	}

	service := loader.NewService(source, store, loader.Options{
		TTL:           cfg.Cache.TTL,
		Namespace:     namespace,
		DefaultSheets: cfg.Sheets,
		Logger:        logger,
	})

	return &vocabApp{cfg: cfg, service: service, store: store, auth: auth}, nil
}

func ensureParentDir(path string, mode os.FileMode) error {
	parent := filepath.Dir(path)
	if err := os.MkdirAll(parent, mode); err != nil {
		return fmt.Errorf("create directory %q: %w", parent, err)
	}
	return nil
}
