package workbook

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Tuyet3005/english-vocab-tracker/vocab"
)

// Reader loads a local spreadsheet file into the raw worksheet payload the
// transformer consumes. With no sheet names every worksheet is read.
type Reader interface {
	Read(path string, sheetNames []string) (*vocab.RawDocument, error)
	SheetNames(path string) ([]string, error)
}

func ReaderForFormat(format string) (Reader, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return &CSVReader{}, nil
	case "tsv":
		return &CSVReader{Comma: '\t'}, nil
	case "excel", "xlsx", "xlsm":
		return &ExcelReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// InferFormat derives the reader format from a file extension.
func InferFormat(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return "csv", nil
	case ".tsv", ".txt":
		return "tsv", nil
	case ".xlsx", ".xlsm":
		return "excel", nil
	default:
		return "", fmt.Errorf("cannot infer format from extension %q", ext)
	}
}

const errWorksheetNotFound = "worksheet not found"

// selectSheets returns the worksheet names to emit, in request order when
// names were requested and in workbook order otherwise.
func selectSheets(available, requested []string) []string {
	if len(requested) == 0 {
		return available
	}
	return requested
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

// toCells converts string rows into a rectangular cell grid.
func toCells(rows [][]string) ([][]vocab.Cell, int) {
	columns := 0
	for _, row := range rows {
		if len(row) > columns {
			columns = len(row)
		}
	}

	values := make([][]vocab.Cell, 0, len(rows))
	for _, row := range rows {
		cells := make([]vocab.Cell, columns)
		for i := range cells {
			if i < len(row) {
				cells[i] = vocab.StringCell(row[i])
			} else {
				cells[i] = vocab.StringCell("")
			}
		}
		values = append(values, cells)
	}
	return values, columns
}

// quoteSheetName quotes a worksheet name the way range addresses do.
func quoteSheetName(name string) string {
	if strings.ContainsAny(name, " '!-") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return name
}
