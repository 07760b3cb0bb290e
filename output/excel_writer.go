package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Tuyet3005/english-vocab-tracker/vocab"
)

const summarySheet = "Summary"

// ExcelWriter writes a Summary sheet followed by one sheet of words per
// parsed worksheet.
type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, doc *vocab.Document) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), summarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := writeSummarySheet(file, summarySheet, BuildTopicSummaries(doc)); err != nil {
		return err
	}

	used := map[string]bool{strings.ToLower(summarySheet): true}
	for _, sheet := range parsedWorksheets(doc) {
		name := uniqueSheetName(sheet.Name, used)
		if _, err := file.NewSheet(name); err != nil {
			return fmt.Errorf("create excel sheet %s: %w", name, err)
		}
		if err := writeRow(file, name, 1, wordHeaders); err != nil {
			return err
		}

		row := 2
		for _, topic := range sheet.Topics {
			for _, word := range topic.Words {
				if err := writeRow(file, name, row, wordRow(sheet.Name, topic.Name, word)); err != nil {
					return err
				}
				row++
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}

func writeRow(file *excelize.File, sheet string, row int, values []string) error {
	for col, value := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		if err := file.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("set excel value %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// uniqueSheetName trims a worksheet name to Excel's limits and makes it
// unique among used (case-insensitive).
func uniqueSheetName(name string, used map[string]bool) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	cleaned = strings.Trim(cleaned, "'")
	if cleaned == "" {
		cleaned = "Sheet"
	}

	candidate := truncateRunes(cleaned, excelize.MaxSheetNameLength)
	for i := 2; used[strings.ToLower(candidate)]; i++ {
		suffix := " (" + strconv.Itoa(i) + ")"
		candidate = truncateRunes(cleaned, excelize.MaxSheetNameLength-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
