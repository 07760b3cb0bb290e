package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	createSourcePath string
	createClientID   string
	createForce      bool
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write a new configuration file.",
	Long: `Write a configuration file based on the example template.

Without flags the file targets OneDrive and still needs a graph.client_id.
With --source-path the file reads a local workbook instead and is ready to use.
An existing file is kept unless --force is given.`,
	Example: `
  # OneDrive workbook, fill in the client id afterwards
  vocabtracker config create

  # OneDrive workbook with a known app registration
  vocabtracker config create --client-id 11111111-2222-3333-4444-555555555555

  # Local workbook, no sign-in needed
  vocabtracker config create --source-path ./English-vocab.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configTarget()
		if err != nil {
			return err
		}
		content, err := configTemplate(templateOptions{SourcePath: createSourcePath, ClientID: createClientID})
		if err != nil {
			return err
		}
		written, err := writeConfigFile(path, content, createForce)
		if err != nil {
			return err
		}
		if !written {
			fmt.Printf("Config file already exists at %s (use --force to replace it)\n", path)
			return nil
		}
		fmt.Printf("Config file written to %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configCreateCmd)

	configCreateCmd.Flags().StringVar(&createSourcePath, "source-path", "", "Read a local .xlsx/.csv workbook instead of OneDrive")
	configCreateCmd.Flags().StringVar(&createClientID, "client-id", "", "Application (client) id used for Microsoft Graph sign-in")
	configCreateCmd.Flags().BoolVar(&createForce, "force", false, "Replace an existing config file")
}
