package cmd

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tuyet3005/english-vocab-tracker/vocab"
)

func TestNormalizeExportMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		want    string
		wantErr bool
	}{
		{value: "", want: exportModeWords},
		{value: " Words ", want: exportModeWords},
		{value: "TOPICS", want: exportModeTopics},
		{value: "daily", wantErr: true},
	}

	for _, tt := range tests {
		got, err := normalizeExportMode(tt.value)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.value)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("%q: expected %q, got %q (%v)", tt.value, tt.want, got, err)
		}
	}
}

func TestDetectExportFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"./words.csv":   "csv",
		"./words.tsv":   "tsv",
		"./words.XLSX":  "excel",
		"./vocab.json":  "json",
		"-":             "json",
		"./words.out":   "csv",
		"./words.xlsm":  "excel",
		"./no-ext-file": "csv",
	}
	for path, want := range tests {
		if got := detectExportFormat(path); got != want {
			t.Fatalf("%s: expected %q, got %q", path, want, got)
		}
	}
}

func testDocument() *vocab.Document {
	return vocab.Transform(&vocab.RawDocument{
		FileName: "vocab.xlsx",
		Worksheets: []vocab.RawWorksheet{{
			Name: "Week 1",
			Values: [][]vocab.Cell{
				{vocab.NumberCell(1), vocab.StringCell("Food"), vocab.StringCell("n"), vocab.StringCell("apple")},
				{vocab.NumberCell(2), vocab.StringCell(""), vocab.StringCell("y"), vocab.StringCell("bread")},
				{vocab.NumberCell(3), vocab.StringCell("Travel"), vocab.StringCell("?"), vocab.StringCell("visa")},
			},
		}},
	})
}

func TestWriteDocument_Modes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := testDocument()

	wordsPath := filepath.Join(dir, "words.csv")
	if err := writeDocument(doc, wordsPath, "csv", exportModeWords); err != nil {
		t.Fatalf("write words: %v", err)
	}
	if rows := readCSV(t, wordsPath); len(rows) != 4 {
		t.Fatalf("expected header + 3 words, got %d rows", len(rows))
	}

	topicsPath := filepath.Join(dir, "topics.csv")
	if err := writeDocument(doc, topicsPath, "csv", exportModeTopics); err != nil {
		t.Fatalf("write topics: %v", err)
	}
	rows := readCSV(t, topicsPath)
	if len(rows) != 3 || rows[1][1] != "Food" || rows[2][1] != "Travel" {
		t.Fatalf("unexpected topic rows: %v", rows)
	}

	if err := writeDocument(doc, "-", "csv", exportModeWords); err == nil {
		t.Fatal("expected stdout to reject csv output")
	}
	if countWords(doc) != 3 || countWords(nil) != 0 {
		t.Fatalf("unexpected word count %d", countWords(doc))
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}
