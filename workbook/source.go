package workbook

import (
	"context"
	"fmt"
	"strings"

	"github.com/Tuyet3005/english-vocab-tracker/vocab"
)

// FileSource serves a local workbook through the same interface as the
// remote Graph client, for offline use.
type FileSource struct {
	path   string
	reader Reader
}

// NewFileSource picks a reader from format, or from the file extension when
// format is empty.
func NewFileSource(path, format string) (*FileSource, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("input file path is required")
	}

	if strings.TrimSpace(format) == "" {
		inferred, err := InferFormat(path)
		if err != nil {
			return nil, err
		}
		format = inferred
	}

	reader, err := ReaderForFormat(format)
	if err != nil {
		return nil, err
	}
	return &FileSource{path: path, reader: reader}, nil
}

func (s *FileSource) Path() string {
	return s.path
}

func (s *FileSource) FetchWorkbook(ctx context.Context, sheetNames []string) (*vocab.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.reader.Read(s.path, sheetNames)
}

func (s *FileSource) WorksheetNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.reader.SheetNames(s.path)
}
