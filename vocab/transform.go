package vocab

// Transform reshapes a raw workbook payload into topics and statistics.
//
// A nil payload yields nil. Worksheets that carry an upstream error or have
// no values are copied through unchanged. Cache metadata is propagated as is.
// Transform never fails and keeps no state between calls.
func Transform(raw *RawDocument) *Document {
	if raw == nil {
		return nil
	}

	doc := &Document{
		FileName: raw.FileName,
		FileSize: raw.FileSize,
		Meta:     raw.Meta,
	}
	if raw.Worksheets == nil {
		return doc
	}

	doc.Worksheets = make([]Worksheet, 0, len(raw.Worksheets))
	for _, sheet := range raw.Worksheets {
		doc.Worksheets = append(doc.Worksheets, TransformWorksheet(sheet))
	}
	return doc
}

// TransformWorksheet parses one worksheet, or passes it through when it
// failed upstream or is empty.
func TransformWorksheet(sheet RawWorksheet) Worksheet {
	if sheet.Error != "" || len(sheet.Values) == 0 {
		return passthroughWorksheet(sheet)
	}

	topics := ParseTopics(sheet.Values)
	stats := SummarizeTopics(topics)
	for i := range topics {
		topics[i].Statistics = SummarizeWords(topics[i].Words)
	}

	return Worksheet{
		Name:        sheet.Name,
		Range:       sheet.Range,
		RowCount:    sheet.RowCount,
		ColumnCount: sheet.ColumnCount,
		Topics:      topics,
		Statistics:  stats,
	}
}
