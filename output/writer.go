package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Tuyet3005/english-vocab-tracker/vocab"
)

type Writer interface {
	Write(path string, doc *vocab.Document) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv", "tsv":
		return &CSVWriter{Comma: delimiter(normalizeFormat(format))}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	case "json":
		return &JSONWriter{Indent: true}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

func delimiter(format string) rune {
	if format == "tsv" {
		return '\t'
	}
	return ','
}

var wordHeaders = []string{
	"Worksheet", "Topic", "Row", "Order", "Flag", "Status", "Word", "PartOfSpeech",
	"Pronunciation", "Meaning", "ExampleSentence", "Synonyms", "DayOfWeek", "Date",
}

// wordRow flattens one word into export columns.
func wordRow(worksheet, topic string, word vocab.WordRecord) []string {
	status := ""
	if bucket, ok := vocab.ClassifyFlag(word.Flag); ok {
		status = string(bucket)
	}
	return []string{
		worksheet,
		topic,
		strconv.Itoa(word.RowNumber),
		word.Order,
		word.Flag,
		status,
		word.Word,
		word.PartOfSpeech,
		word.Pronunciation,
		word.Meaning,
		word.ExampleSentence,
		word.Synonyms,
		word.DayOfWeek,
		word.Date,
	}
}

// parsedWorksheets skips worksheets that bypassed parsing.
func parsedWorksheets(doc *vocab.Document) []vocab.Worksheet {
	if doc == nil {
		return nil
	}
	out := make([]vocab.Worksheet, 0, len(doc.Worksheets))
	for _, sheet := range doc.Worksheets {
		if _, skipped := sheet.Passthrough(); skipped {
			continue
		}
		out = append(out, sheet)
	}
	return out
}
