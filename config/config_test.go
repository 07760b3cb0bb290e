package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidateYAMLContent_ExampleIsValidOnceClientIDIsSet(t *testing.T) {
	t.Parallel()

	_, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err == nil || !strings.Contains(err.Error(), "graph.client_id is required") {
		t.Fatalf("expected missing client id error, got %v", err)
	}

	content := strings.Replace(ExampleYAML(), `client_id: ""`, `client_id: "11111111-2222-3333-4444-555555555555"`, 1)
	cfg, err := ValidateYAMLContent([]byte(content))
	if err != nil {
		t.Fatalf("expected example config to validate: %v", err)
	}
	if cfg.Source.Kind != SourceGraph || cfg.Graph.FilePath != "Documents/English vocab.xlsx" {
		t.Fatalf("unexpected source settings: %+v %+v", cfg.Source, cfg.Graph)
	}
	if cfg.Cache.Backend != "file" || cfg.Cache.TTL != 0 {
		t.Fatalf("unexpected cache settings: %+v", cfg.Cache)
	}
	if cfg.Server.Port != 8080 || cfg.Server.RefreshInterval != 30*time.Minute {
		t.Fatalf("unexpected server settings: %+v", cfg.Server)
	}
	if len(cfg.Graph.Scopes) != 2 || cfg.Graph.Scopes[1] != "offline_access" {
		t.Fatalf("unexpected scopes: %v", cfg.Graph.Scopes)
	}
}

func TestValidateYAMLContent_FileSource(t *testing.T) {
	t.Parallel()

	content := []byte(`source:
  kind: "FILE"
  path: " ./vocab.xlsx "
sheets: ["Week 1", " ", "Week 2"]
cache:
  backend: "sqlite"
  ttl: "2h"
log:
  format: "JSON"
`)

	cfg, err := ValidateYAMLContent(content)
	if err != nil {
		t.Fatalf("expected file source config to validate: %v", err)
	}
	if cfg.Source.Kind != SourceFile || cfg.Source.Path != "./vocab.xlsx" {
		t.Fatalf("unexpected source: %+v", cfg.Source)
	}
	if strings.Join(cfg.Sheets, "|") != "Week 1|Week 2" {
		t.Fatalf("unexpected sheets: %q", cfg.Sheets)
	}
	if cfg.Cache.Backend != "sqlite" || cfg.Cache.TTL != 2*time.Hour {
		t.Fatalf("unexpected cache: %+v", cfg.Cache)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Fatalf("unexpected log settings: %+v", cfg.Log)
	}
}

func TestValidateYAMLContent_RejectsInvalidValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "unknown source kind",
			content: "source:\n  kind: \"s3\"\n",
			want:    "validation failed",
		},
		{
			name:    "file source without path",
			content: "source:\n  kind: \"file\"\n",
			want:    "source.path is required",
		},
		{
			name:    "unsupported cache backend",
			content: "source:\n  kind: \"file\"\n  path: \"a.csv\"\ncache:\n  backend: \"redis\"\n",
			want:    "Backend",
		},
		{
			name:    "port out of range",
			content: "source:\n  kind: \"file\"\n  path: \"a.csv\"\nserver:\n  port: 70000\n",
			want:    "Port",
		},
		{
			name:    "bad authority url",
			content: "graph:\n  client_id: \"abc\"\n  authority_url: \"not a url\"\n",
			want:    "AuthorityURL",
		},
		{
			name:    "bad log level",
			content: "source:\n  kind: \"file\"\n  path: \"a.csv\"\nlog:\n  level: \"trace\"\n",
			want:    "Level",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ValidateYAMLContent([]byte(tc.content))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateYAMLContent_RejectsMalformedYAML(t *testing.T) {
	t.Parallel()

	if _, err := ValidateYAMLContent([]byte("source: [unterminated")); err == nil {
		t.Fatal("expected parse error")
	}
}
