package cmd

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Tuyet3005/english-vocab-tracker/vocab"
)

func TestRunServer_StopsWhenContextIsCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- runServer(ctx, server, time.Second) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunServer_ReportsListenError(t *testing.T) {
	t.Parallel()

	server := &http.Server{Addr: "127.0.0.1:-1"}
	if err := runServer(context.Background(), server, time.Second); err == nil {
		t.Fatal("expected listen error")
	}
}

func TestBrowserCommand(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"darwin":  "open",
		"windows": "rundll32",
		"linux":   "xdg-open",
	}
	for goos, want := range cases {
		cmd := browserCommand(goos, "http://localhost:8080")
		if cmd.Args[0] != want || cmd.Args[len(cmd.Args)-1] != "http://localhost:8080" {
			t.Fatalf("%s: unexpected args %v", goos, cmd.Args)
		}
	}
}

type stubLoader struct {
	doc *vocab.Document
	err error
}

func (s stubLoader) Load(context.Context, []string, bool) (*vocab.Document, error) {
	return s.doc, s.err
}

func TestWarmCache_LogsOutcome(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	doc := &vocab.Document{Worksheets: []vocab.Worksheet{{Name: "Week 1", Statistics: vocab.WorksheetStatistics{Statistics: vocab.Statistics{TotalWords: 3}}}}}
	warmCache(context.Background(), logger, stubLoader{doc: doc})
	if !strings.Contains(buf.String(), "cache warmed") || !strings.Contains(buf.String(), "words=3") {
		t.Fatalf("unexpected log: %s", buf.String())
	}

	buf.Reset()
	warmCache(context.Background(), logger, stubLoader{err: errors.New("offline")})
	if !strings.Contains(buf.String(), "cache warm-up failed") || !strings.Contains(buf.String(), "offline") {
		t.Fatalf("unexpected log: %s", buf.String())
	}
}
