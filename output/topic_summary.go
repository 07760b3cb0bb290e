package output

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/Tuyet3005/english-vocab-tracker/vocab"
)

// TopicSummary is one row of the per-topic progress report. Worksheets that
// failed upstream appear once with Error set.
type TopicSummary struct {
	Worksheet  string
	Topic      string
	StartRow   int
	TotalWords int
	New        int
	Known      int
	Forgotten  int
	Learned    int
	Error      string
}

var summaryHeaders = []string{"Worksheet", "Topic", "StartRow", "TotalWords", "New", "Known", "Forgotten", "Learned", "Error"}

func BuildTopicSummaries(doc *vocab.Document) []TopicSummary {
	if doc == nil {
		return []TopicSummary{}
	}

	summaries := make([]TopicSummary, 0, len(doc.Worksheets)*4)
	for _, sheet := range doc.Worksheets {
		if raw, skipped := sheet.Passthrough(); skipped {
			if raw.Error != "" {
				summaries = append(summaries, TopicSummary{Worksheet: raw.Name, Error: raw.Error})
			}
			continue
		}
		for _, topic := range sheet.Topics {
			summaries = append(summaries, TopicSummary{
				Worksheet:  sheet.Name,
				Topic:      topic.Name,
				StartRow:   topic.StartRow,
				TotalWords: topic.Statistics.TotalWords,
				New:        topic.Statistics.ByFlag.New,
				Known:      topic.Statistics.ByFlag.Known,
				Forgotten:  topic.Statistics.ByFlag.Forgotten,
				Learned:    topic.Statistics.ByFlag.Learned,
			})
		}
	}
	return summaries
}

func (s TopicSummary) values() []string {
	if s.Error != "" {
		return []string{s.Worksheet, "", "", "", "", "", "", "", s.Error}
	}
	return []string{
		s.Worksheet,
		s.Topic,
		strconv.Itoa(s.StartRow),
		strconv.Itoa(s.TotalWords),
		strconv.Itoa(s.New),
		strconv.Itoa(s.Known),
		strconv.Itoa(s.Forgotten),
		strconv.Itoa(s.Learned),
		"",
	}
}

func WriteTopicSummaries(path, format string, summaries []TopicSummary) error {
	switch format = normalizeFormat(format); format {
	case "csv", "tsv":
		rows := make([][]string, 0, len(summaries)+1)
		rows = append(rows, summaryHeaders)
		for _, summary := range summaries {
			rows = append(rows, summary.values())
		}
		return writeDelimitedFile(path, delimiter(format), rows)
	case "excel", "xlsx":
		return writeTopicSummariesExcel(path, summaries)
	default:
		return fmt.Errorf("unsupported output format for topic summaries: %s", format)
	}
}

func writeTopicSummariesExcel(path string, summaries []TopicSummary) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	if err := writeSummarySheet(file, sheet, summaries); err != nil {
		return err
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}
	return nil
}

func writeSummarySheet(file *excelize.File, sheet string, summaries []TopicSummary) error {
	if err := writeRow(file, sheet, 1, summaryHeaders); err != nil {
		return err
	}
	for i, summary := range summaries {
		if err := writeRow(file, sheet, i+2, summary.values()); err != nil {
			return err
		}
	}
	return nil
}
