package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vocabtracker configuration file values.",
	Long: `Create, edit, display, and delete the vocabtracker configuration file.

The configuration stores:
- source.kind / source.path / source.format (graph or local file)
- graph.client_id / graph.tenant_id / graph.file_path / graph.scopes
- sheets (worksheets loaded by default)
- cache.backend / cache.path / cache.ttl
- server.port / server.refresh_interval
- log.level / log.format

Every key can also be set from the environment with the VOCAB_ prefix, for example
VOCAB_GRAPH_CLIENT_ID, optionally through a .env file.`,
	Example: `
  # Create default config in $HOME/.vocabtracker.yaml
  vocabtracker config create

  # Config for a local workbook
  vocabtracker config create --source-path ./English-vocab.xlsx

  # Show active config and source file
  vocabtracker config show

  # Open active config in editor (creates example if missing)
  vocabtracker config edit

  # Delete active config file together with token and caches
  vocabtracker config delete --purge
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
