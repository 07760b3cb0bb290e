package vocab

// Fixed column layout of a vocabulary worksheet (0-indexed, A..K).
const (
	ColumnOrder = iota
	ColumnTopic
	ColumnFlag
	ColumnWord
	ColumnPartOfSpeech
	ColumnPronunciation
	ColumnMeaning
	ColumnExampleSentence
	ColumnSynonyms
	ColumnDayOfWeek
	ColumnDate
)

// ExtractWord maps one data row to a WordRecord. The second return value is
// false when the word cell is empty.
func ExtractWord(row []Cell, rowNumber int) (WordRecord, bool) {
	word := cellAt(row, ColumnWord)
	if word == "" {
		return WordRecord{}, false
	}

	return WordRecord{
		RowNumber:       rowNumber,
		Order:           cellAt(row, ColumnOrder),
		Flag:            cellAt(row, ColumnFlag),
		Word:            word,
		PartOfSpeech:    cellAt(row, ColumnPartOfSpeech),
		Pronunciation:   cellAt(row, ColumnPronunciation),
		Meaning:         cellAt(row, ColumnMeaning),
		ExampleSentence: cellAt(row, ColumnExampleSentence),
		Synonyms:        cellAt(row, ColumnSynonyms),
		DayOfWeek:       cellAt(row, ColumnDayOfWeek),
		Date:            cellAt(row, ColumnDate),
	}, true
}
