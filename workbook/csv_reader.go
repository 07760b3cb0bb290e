package workbook

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Tuyet3005/english-vocab-tracker/vocab"
)

// CSVReader reads a delimited export as a single worksheet named after the
// file. UTF-8 and UTF-16 input are both accepted when they carry a BOM.
type CSVReader struct {
	Comma rune
}

func (r *CSVReader) SheetNames(path string) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat csv file %s: %w", path, err)
	}
	return []string{sheetNameFromPath(path)}, nil
}

func (r *CSVReader) Read(path string, sheetNames []string) (*vocab.RawDocument, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat csv file %s: %w", path, err)
	}

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(file, decoder))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if r.Comma != 0 {
		reader.Comma = r.Comma
	}

	rows := make([][]string, 0, 128)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, row)
	}

	name := sheetNameFromPath(path)
	worksheets := make([]vocab.RawWorksheet, 0, 1)
	for _, requested := range selectSheets([]string{name}, sheetNames) {
		if requested != name {
			worksheets = append(worksheets, vocab.RawWorksheet{Name: requested, Error: errWorksheetNotFound})
			continue
		}
		sheet, err := csvWorksheet(name, rows)
		if err != nil {
			return nil, err
		}
		worksheets = append(worksheets, sheet)
	}

	return &vocab.RawDocument{
		FileName:   filepath.Base(path),
		FileSize:   info.Size(),
		Worksheets: worksheets,
	}, nil
}

func csvWorksheet(name string, rows [][]string) (vocab.RawWorksheet, error) {
	values, columns := toCells(rows)
	if len(values) == 0 || columns == 0 {
		return vocab.RawWorksheet{Name: name}, nil
	}

	last, err := excelize.CoordinatesToCellName(columns, len(values))
	if err != nil {
		return vocab.RawWorksheet{}, fmt.Errorf("build range for %s: %w", name, err)
	}
	return vocab.RawWorksheet{
		Name:        name,
		Range:       quoteSheetName(name) + "!A1:" + last,
		RowCount:    len(values),
		ColumnCount: columns,
		Values:      values,
	}, nil
}

func sheetNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
