package vocab

import "testing"

func rows(values ...[]any) [][]Cell {
	out := make([][]Cell, 0, len(values))
	for _, row := range values {
		cells := make([]Cell, 0, len(row))
		for _, value := range row {
			switch v := value.(type) {
			case nil:
				cells = append(cells, NullCell())
			case string:
				cells = append(cells, StringCell(v))
			case int:
				cells = append(cells, NumberCell(float64(v)))
			case float64:
				cells = append(cells, NumberCell(v))
			case bool:
				cells = append(cells, BoolCell(v))
			default:
				panic("unsupported test cell")
			}
		}
		out = append(out, cells)
	}
	return out
}

func TestParseTopics_TopicStartRowCarriesFirstWord(t *testing.T) {
	t.Parallel()

	topics := ParseTopics(rows(
		[]any{1, "T1", "N", "apple"},
		[]any{2, "", "Y", "banana"},
	))

	if len(topics) != 1 {
		t.Fatalf("expected 1 topic, got %d", len(topics))
	}
	topic := topics[0]
	if topic.Name != "T1" || topic.StartRow != 1 {
		t.Fatalf("unexpected topic: %+v", topic)
	}
	if len(topic.Words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(topic.Words))
	}
	if topic.Words[0].Word != "apple" || topic.Words[1].Word != "banana" {
		t.Fatalf("unexpected word order: %q, %q", topic.Words[0].Word, topic.Words[1].Word)
	}
	if topic.Words[0].Order != "1" {
		t.Errorf("order = %q, want %q", topic.Words[0].Order, "1")
	}
}

func TestParseTopics_WordsBeforeTopicGoToUncategorized(t *testing.T) {
	t.Parallel()

	topics := ParseTopics(rows([]any{1, "", "N", "apple"}))

	if len(topics) != 1 {
		t.Fatalf("expected 1 topic, got %d", len(topics))
	}
	if topics[0].Name != UncategorizedTopic {
		t.Fatalf("topic name = %q, want %q", topics[0].Name, UncategorizedTopic)
	}
	if topics[0].StartRow != 1 {
		t.Errorf("start row = %d, want 1", topics[0].StartRow)
	}
	if len(topics[0].Words) != 1 || topics[0].Words[0].Word != "apple" {
		t.Fatalf("unexpected words: %+v", topics[0].Words)
	}
}

func TestParseTopics_BlankRowsAreSkipped(t *testing.T) {
	t.Parallel()

	topics := ParseTopics(rows(
		[]any{"", "", "", ""},
		[]any{1, "T1", "ok", "apple"},
		[]any{nil, "  ", nil},
		[]any{2, "", "n", "pear"},
	))

	if len(topics) != 1 {
		t.Fatalf("expected 1 topic, got %d", len(topics))
	}
	if topics[0].StartRow != 2 {
		t.Errorf("start row = %d, want 2", topics[0].StartRow)
	}
	if len(topics[0].Words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(topics[0].Words))
	}
}

func TestParseTopics_HeaderRowSkipped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header []any
	}{
		{name: "order in column A", header: []any{"Order", "Topic", "Flag", "Word"}},
		{name: "topic in column B", header: []any{"#", "TOPIC", "Flag", "Word"}},
		{name: "session in column B", header: []any{"", " session ", "Flag", "Word"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topics := ParseTopics(rows(tt.header, []any{1, "T1", "n", "apple"}))
			if len(topics) != 1 {
				t.Fatalf("expected 1 topic, got %d: %+v", len(topics), topics)
			}
			if topics[0].Name != "T1" {
				t.Fatalf("topic name = %q, want T1", topics[0].Name)
			}
			if topics[0].StartRow != 2 {
				t.Errorf("start row = %d, want 2", topics[0].StartRow)
			}
		})
	}
}

func TestParseTopics_HeaderOnlyCheckedOnFirstRow(t *testing.T) {
	t.Parallel()

	topics := ParseTopics(rows(
		[]any{1, "T1", "n", "apple"},
		[]any{"Order", "Topic", "Flag", "Word"},
	))

	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(topics))
	}
	if topics[1].Name != "Topic" {
		t.Fatalf("second topic = %q, want %q", topics[1].Name, "Topic")
	}
}

func TestParseTopics_EmptyTopicsAreKept(t *testing.T) {
	t.Parallel()

	topics := ParseTopics(rows(
		[]any{nil, "Empty session"},
		[]any{1, "T2", "n", "apple"},
		[]any{nil, "Trailing"},
	))

	if len(topics) != 3 {
		t.Fatalf("expected 3 topics, got %d", len(topics))
	}
	if len(topics[0].Words) != 0 || len(topics[2].Words) != 0 {
		t.Fatalf("expected first and last topic to be empty: %+v", topics)
	}
	if topics[0].Words == nil {
		t.Fatalf("empty topic should have a non-nil word list")
	}
	if len(topics[1].Words) != 1 {
		t.Fatalf("expected middle topic to hold one word")
	}
}

func TestParseTopics_RowNumbersMatchOriginalGrid(t *testing.T) {
	t.Parallel()

	topics := ParseTopics(rows(
		[]any{"Order", "Topic", "Flag", "Word"},
		[]any{},
		[]any{1, "T1", "n", "apple"},
		[]any{"", "", "", ""},
		[]any{2, "", "y", "banana"},
		[]any{3, "T2", "", ""},
		[]any{4, "", "?", "cherry"},
	))

	want := map[string]int{"apple": 3, "banana": 5, "cherry": 7}
	seen := 0
	for _, topic := range topics {
		for _, word := range topic.Words {
			if word.RowNumber != want[word.Word] {
				t.Errorf("%s row = %d, want %d", word.Word, word.RowNumber, want[word.Word])
			}
			seen++
		}
	}
	if seen != len(want) {
		t.Fatalf("expected %d words, got %d", len(want), seen)
	}
	if topics[1].StartRow != 6 {
		t.Errorf("T2 start row = %d, want 6", topics[1].StartRow)
	}
}

func TestParseTopics_EmptyInput(t *testing.T) {
	t.Parallel()

	if topics := ParseTopics(nil); len(topics) != 0 {
		t.Fatalf("expected no topics, got %d", len(topics))
	}
	if topics := ParseTopics(rows([]any{"Order", "Topic"})); len(topics) != 0 {
		t.Fatalf("expected header-only sheet to produce no topics, got %d", len(topics))
	}
}

func TestExtractWord(t *testing.T) {
	t.Parallel()

	row := rows([]any{7, "T", " ok ", " serendipity ", "n.", "/ˌser.ənˈdɪp.ə.ti/", "luck", "Pure serendipity.", "chance", "Mon", 45000})[0]
	word, ok := ExtractWord(row, 12)
	if !ok {
		t.Fatal("expected word to be extracted")
	}
	want := WordRecord{
		RowNumber:       12,
		Order:           "7",
		Flag:            "ok",
		Word:            "serendipity",
		PartOfSpeech:    "n.",
		Pronunciation:   "/ˌser.ənˈdɪp.ə.ti/",
		Meaning:         "luck",
		ExampleSentence: "Pure serendipity.",
		Synonyms:        "chance",
		DayOfWeek:       "Mon",
		Date:            "45000",
	}
	if word != want {
		t.Fatalf("unexpected record:\n got %+v\nwant %+v", word, want)
	}
}

func TestExtractWord_ShortRowDefaultsToEmpty(t *testing.T) {
	t.Parallel()

	word, ok := ExtractWord(rows([]any{nil, nil, "n", "cat"})[0], 3)
	if !ok {
		t.Fatal("expected word to be extracted")
	}
	if word.Order != "" || word.Meaning != "" || word.Date != "" {
		t.Fatalf("expected missing cells to default to empty: %+v", word)
	}
}

func TestExtractWord_BlankWord(t *testing.T) {
	t.Parallel()

	if _, ok := ExtractWord(rows([]any{1, "T", "n", "   "})[0], 1); ok {
		t.Fatal("expected whitespace word to be rejected")
	}
	if _, ok := ExtractWord(rows([]any{1, "T", "n"})[0], 1); ok {
		t.Fatal("expected missing word cell to be rejected")
	}
}
