/*
Copyright © 2026 Tuyet3005

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Tuyet3005/english-vocab-tracker/config"
)

var (
	cfgFile   string
	envFile   string
	logLevel  string
	logFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vocabtracker",
	Short: "Turn an English vocabulary spreadsheet into topics, words and learning statistics.",
	Long: `
**********************************************
*          ENGLISH VOCAB TRACKER             *
**********************************************

This CLI reads a vocabulary workbook from OneDrive (Microsoft Graph) or from a local
file, groups its rows into topics and words, and counts learning progress by flag.

Results can be printed as JSON, exported to CSV or Excel, or browsed in a local web UI.

Supported local input formats:
- Excel: .xlsx, .xlsm
- CSV: .csv, .tsv
`,
	Example: `
  # Create configuration file
  vocabtracker config create

  # Sign in to Microsoft Graph with a device code
  vocabtracker auth login

  # Print the structured vocabulary for two worksheets
  vocabtracker fetch --sheets "Week 1,Week 2"

  # Export all words to Excel
  vocabtracker export --output ./vocab.xlsx

  # Convert a local workbook without any network access
  vocabtracker import -i ./English-vocab.xlsx --output ./vocab.json

  # Start the local web UI
  vocabtracker serve
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		newLogger(viper.GetString(config.KeyLogLevel), viper.GetString(config.KeyLogFormat))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.vocabtracker.yaml, then ./.vocabtracker.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before the configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides log.level)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text|json (overrides log.format)")

	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig reads in the dotenv file, the config file and ENV variables if set.
func initConfig() {
	if err := loadEnvFile(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".vocabtracker" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vocabtracker")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: vocabtracker config create")
	}
}

// loadEnvFile exports the variables of a dotenv file without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
