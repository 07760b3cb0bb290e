package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var deletePurge bool

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file vocabtracker loaded.

With --purge the ~/.vocabtracker directory is removed as well, which drops the
stored Microsoft Graph token and every cached worksheet.`,
	Example: `
  vocabtracker config delete
  vocabtracker --configFile ./work.yaml config delete
  vocabtracker config delete --purge
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = viper.ConfigFileUsed()
		}
		if path == "" && !deletePurge {
			return errors.New("no configuration file in use")
		}

		if path != "" {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("delete config %s: %w", path, err)
			}
			fmt.Printf("Deleted config %s\n", path)
		}

		if deletePurge {
			dir, err := purgeAppDir()
			if err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", dir)
		}
		return nil
	},
}

// purgeAppDir removes the directory holding the token file and caches.
func purgeAppDir() (string, error) {
	dir, err := appDir()
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("remove %s: %w", dir, err)
	}
	return dir, nil
}

func init() {
	configCmd.AddCommand(configDeleteCmd)

	configDeleteCmd.Flags().BoolVar(&deletePurge, "purge", false, "Also remove the stored token and caches in ~/.vocabtracker")
}
