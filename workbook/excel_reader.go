package workbook

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/Tuyet3005/english-vocab-tracker/vocab"
)

// ExcelReader reads formatted cell values from .xlsx workbooks.
type ExcelReader struct{}

func (r *ExcelReader) SheetNames(path string) ([]string, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	return file.GetSheetList(), nil
}

func (r *ExcelReader) Read(path string, sheetNames []string) (*vocab.RawDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat excel file %s: %w", path, err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	available := file.GetSheetList()
	if len(available) == 0 {
		return nil, fmt.Errorf("excel file has no sheets: %s", path)
	}

	names := selectSheets(available, sheetNames)
	worksheets := make([]vocab.RawWorksheet, 0, len(names))
	for _, name := range names {
		if !contains(available, name) {
			worksheets = append(worksheets, vocab.RawWorksheet{Name: name, Error: errWorksheetNotFound})
			continue
		}

		rows, err := file.GetRows(name)
		if err != nil {
			worksheets = append(worksheets, vocab.RawWorksheet{
				Name:  name,
				Error: fmt.Sprintf("read rows from sheet %s: %v", name, err),
			})
			continue
		}

		sheet, err := excelWorksheet(name, rows)
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

func excelWorksheet(name string, rows [][]string) (vocab.RawWorksheet, error) {
	values, columns := toCells(rows)
	if len(values) == 0 || columns == 0 {
		return vocab.RawWorksheet{Name: name, Range: quoteSheetName(name) + "!A1"}, nil
	}

	last, err := excelize.CoordinatesToCellName(columns, len(values))
	if err != nil {
		return vocab.RawWorksheet{}, fmt.Errorf("build range for sheet %s: %w", name, err)
	}

	return vocab.RawWorksheet{
		Name:        name,
		Range:       quoteSheetName(name) + "!A1:" + last,
		RowCount:    len(values),
		ColumnCount: columns,
		Values:      values,
	}, nil
}
