package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Tuyet3005/english-vocab-tracker/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  vocabtracker config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		} else {
			fmt.Println("No config file loaded; using defaults and environment.")
		}
		fmt.Println("Configuration:")
		printConfig(os.Stdout, cfg)
	},
}

func printConfig(w io.Writer, cfg *config.Config) {
	clientID := cfg.Graph.ClientID
	if clientID == "" {
		clientID = "(not set)"
	}

	fmt.Fprintf(w, "source.kind: %s\n", cfg.Source.Kind)
	if cfg.Source.Kind == config.SourceFile {
		fmt.Fprintf(w, "source.path: %s\n", cfg.Source.Path)
		fmt.Fprintf(w, "source.format: %s\n", valueOrAuto(cfg.Source.Format))
	} else {
		fmt.Fprintf(w, "graph.tenant_id: %s\n", cfg.Graph.TenantID)
		fmt.Fprintf(w, "graph.client_id: %s\n", clientID)
		fmt.Fprintf(w, "graph.file_path: %s\n", cfg.Graph.FilePath)
		fmt.Fprintf(w, "graph.scopes: %s\n", strings.Join(cfg.Graph.Scopes, ", "))
		fmt.Fprintf(w, "graph.token_file: %s\n", valueOrAuto(cfg.Graph.TokenFile))
	}
	sheets := "(all)"
	if len(cfg.Sheets) > 0 {
		sheets = strings.Join(cfg.Sheets, ", ")
	}
	fmt.Fprintf(w, "sheets: %s\n", sheets)
	fmt.Fprintf(w, "cache.backend: %s\n", cfg.Cache.Backend)
	fmt.Fprintf(w, "cache.path: %s\n", valueOrAuto(cfg.Cache.Path))
	fmt.Fprintf(w, "cache.ttl: %s\n", cfg.Cache.TTL)
	fmt.Fprintf(w, "server.port: %d\n", cfg.Server.Port)
	fmt.Fprintf(w, "server.refresh_interval: %s\n", cfg.Server.RefreshInterval)
	fmt.Fprintf(w, "log.level: %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "log.format: %s\n", cfg.Log.Format)
}

func valueOrAuto(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(default)"
	}
	return value
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
