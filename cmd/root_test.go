package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("VOCAB_TEST_CLIENT_ID=from-dotenv\nVOCAB_TEST_KEEP=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("VOCAB_TEST_KEEP", "from-env")
	t.Setenv("VOCAB_TEST_CLIENT_ID", "")
	os.Unsetenv("VOCAB_TEST_CLIENT_ID")

	if err := loadEnvFile(path); err != nil {
		t.Fatalf("load env file: %v", err)
	}
	if got := os.Getenv("VOCAB_TEST_CLIENT_ID"); got != "from-dotenv" {
		t.Fatalf("expected value from dotenv, got %q", got)
	}
	if got := os.Getenv("VOCAB_TEST_KEEP"); got != "from-env" {
		t.Fatalf("existing variables must win, got %q", got)
	}

	if err := loadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}
	if err := loadEnvFile(""); err != nil {
		t.Fatalf("empty path should be ignored: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for value, want := range tests {
		if got := parseLevel(value); got != want {
			t.Fatalf("%q: expected %v, got %v", value, want, got)
		}
	}
}
