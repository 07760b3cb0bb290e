package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Tuyet3005/english-vocab-tracker/vocab"
)

// JSONWriter writes the structured document as JSON. Path "-" writes to
// standard output.
type JSONWriter struct {
	Indent bool
}

func (w *JSONWriter) Write(path string, doc *vocab.Document) error {
	if path == "-" {
		return w.Encode(os.Stdout, doc)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json output %s: %w", path, err)
	}
	defer file.Close()

	return w.Encode(file, doc)
}

func (w *JSONWriter) Encode(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	if w.Indent {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encode json output: %w", err)
	}
	return nil
}
