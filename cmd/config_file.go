package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/Tuyet3005/english-vocab-tracker/config"
)

const configFileName = ".vocabtracker.yaml"

// configTarget is the file the config subcommands act on.
func configTarget() (string, error) {
	return pickConfigPath(cfgFile, viper.ConfigFileUsed(), os.UserHomeDir)
}

// pickConfigPath prefers the --configFile flag, then the file viper loaded,
// then $HOME/.vocabtracker.yaml.
func pickConfigPath(flagValue, loaded string, home func() (string, error)) (string, error) {
	for _, candidate := range []string{flagValue, loaded} {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			return candidate, nil
		}
	}
	dir, err := home()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(dir, configFileName), nil
}

type templateOptions struct {
	SourcePath string
	ClientID   string
}

// configTemplate fills the example configuration with the given source. A
// template with a source or client id must already be a valid config.
func configTemplate(opts templateOptions) (string, error) {
	content := config.ExampleYAML()
	if opts.SourcePath == "" && opts.ClientID == "" {
		return content, nil
	}
	if opts.SourcePath != "" {
		content = strings.Replace(content, `kind: "graph"`, `kind: "file"`, 1)
		content = strings.Replace(content, `path: ""`, "path: "+strconv.Quote(opts.SourcePath), 1)
	}
	if opts.ClientID != "" {
		content = strings.Replace(content, `client_id: ""`, "client_id: "+strconv.Quote(opts.ClientID), 1)
	}
	if _, err := config.ValidateYAMLContent([]byte(content)); err != nil {
		return "", err
	}
	return content, nil
}

// writeConfigFile reports false when the file exists and overwrite is off.
func writeConfigFile(path, content string, overwrite bool) (bool, error) {
	if !overwrite {
		_, err := os.Stat(path)
		if err == nil {
			return false, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("stat config %s: %w", path, err)
		}
	}
	if err := ensureParentDir(path, 0o700); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return false, fmt.Errorf("write config %s: %w", path, err)
	}
	return true, nil
}
