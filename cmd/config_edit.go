package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tuyet3005/english-vocab-tracker/config"
)

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the configuration file in an editor and validate it.",
	Long: `Open the configuration file with $VISUAL, $EDITOR or vi.

A missing file is created from the example template first. The edited file is
validated when the editor exits; an invalid file is reported but left in place
so it can be fixed with another edit.`,
	Example: `
  vocabtracker config edit
  EDITOR="code --wait" vocabtracker config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configTarget()
		if err != nil {
			return err
		}
		created, err := writeConfigFile(path, config.ExampleYAML(), false)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("Created example config at %s\n", path)
		}

		argv := editorArgv(os.Getenv, path)
		editor := exec.Command(argv[0], argv[1:]...)
		editor.Stdin, editor.Stdout, editor.Stderr = os.Stdin, os.Stdout, os.Stderr
		if err := editor.Run(); err != nil {
			return fmt.Errorf("run editor %s: %w", argv[0], err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		if _, err := config.ValidateYAMLContent(content); err != nil {
			return fmt.Errorf("%s is not a valid config: %w", path, err)
		}
		fmt.Printf("Config %s is valid\n", path)
		return nil
	},
}

// editorArgv splits the configured editor command and appends path.
func editorArgv(getenv func(string) string, path string) []string {
	command := "vi"
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if value := strings.TrimSpace(getenv(key)); value != "" {
			command = value
			break
		}
	}
	return append(strings.Fields(command), path)
}

func init() {
	configCmd.AddCommand(configEditCmd)
}
