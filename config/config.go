package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeySourceKind   = "source.kind"
	KeySourcePath   = "source.path"
	KeySourceFormat = "source.format"

	KeyGraphTenantID     = "graph.tenant_id"
	KeyGraphClientID     = "graph.client_id"
	KeyGraphAuthorityURL = "graph.authority_url"
	KeyGraphBaseURL      = "graph.base_url"
	KeyGraphFilePath     = "graph.file_path"
	KeyGraphScopes       = "graph.scopes"
	KeyGraphTokenFile    = "graph.token_file"

	KeySheets = "sheets"

	KeyCacheBackend = "cache.backend"
	KeyCachePath    = "cache.path"
	KeyCacheTTL     = "cache.ttl"

	KeyServerPort            = "server.port"
	KeyServerRefreshInterval = "server.refresh_interval"

	KeyLogLevel  = "log.level"
	KeyLogFormat = "log.format"
)

const (
	SourceGraph = "graph"
	SourceFile  = "file"
)

// EnvPrefix is prepended to every key when read from the environment, e.g.
// VOCAB_GRAPH_CLIENT_ID.
const EnvPrefix = "VOCAB"

type Config struct {
	Source SourceConfig `mapstructure:"source" validate:"required"`
	Graph  GraphConfig  `mapstructure:"graph"`
	Sheets []string     `mapstructure:"sheets"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// SourceConfig selects where the workbook comes from: Microsoft Graph or a
// local spreadsheet file.
type SourceConfig struct {
	Kind   string `mapstructure:"kind" validate:"required,oneof=graph file"`
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=csv tsv excel xlsx xlsm"`
}

type GraphConfig struct {
	TenantID     string   `mapstructure:"tenant_id"`
	ClientID     string   `mapstructure:"client_id"`
	AuthorityURL string   `mapstructure:"authority_url" validate:"omitempty,url"`
	BaseURL      string   `mapstructure:"base_url" validate:"omitempty,url"`
	FilePath     string   `mapstructure:"file_path"`
	Scopes       []string `mapstructure:"scopes"`
	TokenFile    string   `mapstructure:"token_file"`
}

type CacheConfig struct {
	Backend string        `mapstructure:"backend" validate:"required,oneof=file sqlite memory none"`
	Path    string        `mapstructure:"path"`
	TTL     time.Duration `mapstructure:"ttl" validate:"min=0"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval" validate:"min=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`
}

// SetDefaults sets default values and environment binding on the global
// viper instance.
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# vocabtracker configuration
source:
  # graph: read the workbook from OneDrive through Microsoft Graph
  # file: read a local .xlsx/.csv file (set path)
  kind: "graph"
  path: ""
  format: ""

graph:
  tenant_id: "common"
  # Application (client) id of an app registration that allows public client flows.
  # Can also be set with VOCAB_GRAPH_CLIENT_ID or in a .env file.
  client_id: ""
  file_path: "Documents/English vocab.xlsx"
  scopes:
    - "Files.Read"
    - "offline_access"

# Worksheets to load when none are requested explicitly (empty = all).
sheets: []

cache:
  # file, sqlite, memory or none
  backend: "file"
  path: ""
  # 0 keeps cached worksheets until they are refreshed explicitly.
  ttl: "0s"

server:
  port: 8080
  refresh_interval: "30m"

log:
  level: "info"
  format: "text"
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	normalize(&cfg)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateSource(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeySourceKind, SourceGraph)
	v.SetDefault(KeySourcePath, "")
	v.SetDefault(KeySourceFormat, "")
	v.SetDefault(KeyGraphTenantID, "common")
	v.SetDefault(KeyGraphClientID, "")
	v.SetDefault(KeyGraphAuthorityURL, "https://login.microsoftonline.com")
	v.SetDefault(KeyGraphBaseURL, "https://graph.microsoft.com/v1.0")
	v.SetDefault(KeyGraphFilePath, "Documents/English vocab.xlsx")
	v.SetDefault(KeyGraphScopes, []string{"Files.Read", "offline_access"})
	v.SetDefault(KeyGraphTokenFile, "")
	v.SetDefault(KeySheets, []string{})
	v.SetDefault(KeyCacheBackend, "file")
	v.SetDefault(KeyCachePath, "")
	v.SetDefault(KeyCacheTTL, "0s")
	v.SetDefault(KeyServerPort, 8080)
	v.SetDefault(KeyServerRefreshInterval, "30m")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
}

func normalize(cfg *Config) {
	cfg.Source.Kind = strings.ToLower(strings.TrimSpace(cfg.Source.Kind))
	cfg.Source.Format = strings.ToLower(strings.TrimSpace(cfg.Source.Format))
	cfg.Source.Path = strings.TrimSpace(cfg.Source.Path)
	cfg.Graph.ClientID = strings.TrimSpace(cfg.Graph.ClientID)
	cfg.Graph.FilePath = strings.TrimSpace(cfg.Graph.FilePath)
	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	sheets := make([]string, 0, len(cfg.Sheets))
	for _, sheet := range cfg.Sheets {
		if sheet = strings.TrimSpace(sheet); sheet != "" {
			sheets = append(sheets, sheet)
		}
	}
	cfg.Sheets = sheets
}

func validateSource(cfg Config) error {
	switch cfg.Source.Kind {
	case SourceGraph:
		if cfg.Graph.ClientID == "" {
			return fmt.Errorf("validation failed: graph.client_id is required when source.kind is %q", SourceGraph)
		}
		if cfg.Graph.FilePath == "" {
			return fmt.Errorf("validation failed: graph.file_path is required when source.kind is %q", SourceGraph)
		}
	case SourceFile:
		if cfg.Source.Path == "" {
			return fmt.Errorf("validation failed: source.path is required when source.kind is %q", SourceFile)
		}
	}
	return nil
}
