package vocab

import "strings"

// UncategorizedTopic names the topic that collects words appearing before
// the first topic marker.
const UncategorizedTopic = "Uncategorized"

// ParseTopics groups the rows of one worksheet into topics in a single pass.
// A non-empty column B starts a new topic; the same row may carry the
// topic's first word. Topics without words are kept. Statistics are left
// zero; see SummarizeTopics.
func ParseTopics(values [][]Cell) []Topic {
	topics := make([]Topic, 0, 16)

	start := 0
	if len(values) > 0 && isHeaderRow(values[0]) {
		start = 1
	}

	var current *Topic
	for i := start; i < len(values); i++ {
		row := values[i]
		if isBlankRow(row) {
			continue
		}
		rowNumber := i + 1

		if name := cellAt(row, ColumnTopic); name != "" {
			if current != nil {
				topics = append(topics, *current)
			}
			current = newTopic(name, rowNumber)
		} else if current == nil {
			current = newTopic(UncategorizedTopic, rowNumber)
		}

		if word, ok := ExtractWord(row, rowNumber); ok {
			current.Words = append(current.Words, word)
		}
	}

	if current != nil {
		topics = append(topics, *current)
	}
	return topics
}

func newTopic(name string, startRow int) *Topic {
	return &Topic{
		Name:     name,
		StartRow: startRow,
		Words:    make([]WordRecord, 0, 8),
	}
}

func isHeaderRow(row []Cell) bool {
	if strings.EqualFold(cellAt(row, ColumnOrder), "order") {
		return true
	}
	second := cellAt(row, ColumnTopic)
	return strings.EqualFold(second, "topic") || strings.EqualFold(second, "session")
}
