package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/Tuyet3005/english-vocab-tracker/vocab"
)

// CSVWriter writes one row per word across all parsed worksheets. Comma
// defaults to ',' and is '\t' for tsv output.
type CSVWriter struct {
	Comma rune
}

func (w *CSVWriter) Write(path string, doc *vocab.Document) error {
	rows := [][]string{wordHeaders}
	for _, sheet := range parsedWorksheets(doc) {
		for _, topic := range sheet.Topics {
			for _, word := range topic.Words {
				rows = append(rows, wordRow(sheet.Name, topic.Name, word))
			}
		}
	}
	return writeDelimitedFile(path, w.Comma, rows)
}

func writeDelimitedFile(path string, comma rune, rows [][]string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output %s: %w", path, closeErr)
		}
	}()
	return encodeDelimited(file, comma, rows)
}

func encodeDelimited(out io.Writer, comma rune, rows [][]string) error {
	writer := csv.NewWriter(out)
	if comma != 0 {
		writer.Comma = comma
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write delimited rows: %w", err)
	}
	return nil
}
