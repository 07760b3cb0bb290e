package vocab

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestTransform_NilAndEmpty(t *testing.T) {
	t.Parallel()

	if got := Transform(nil); got != nil {
		t.Fatalf("expected nil document, got %+v", got)
	}

	raw := &RawDocument{FileName: "vocab.xlsx", FileSize: 42, Worksheets: []RawWorksheet{}}
	doc := Transform(raw)
	if doc.FileName != "vocab.xlsx" || doc.FileSize != 42 {
		t.Fatalf("unexpected document metadata: %+v", doc)
	}
	if doc.Worksheets == nil || len(doc.Worksheets) != 0 {
		t.Fatalf("expected empty worksheet list, got %+v", doc.Worksheets)
	}
}

func TestTransform_BuildsTopicsAndStatistics(t *testing.T) {
	t.Parallel()

	raw := &RawDocument{
		FileName: "vocab.xlsx",
		FileSize: 1024,
		Worksheets: []RawWorksheet{{
			Name:        "Week 1",
			Range:       "'Week 1'!A1:D3",
			RowCount:    3,
			ColumnCount: 4,
			Values: rows(
				[]any{1, "T1", "N", "apple"},
				[]any{2, "", "Y", "banana"},
				[]any{3, "T2", "maybe", "cherry"},
			),
		}},
	}

	doc := Transform(raw)
	if len(doc.Worksheets) != 1 {
		t.Fatalf("expected 1 worksheet, got %d", len(doc.Worksheets))
	}
	sheet := doc.Worksheets[0]
	if _, ok := sheet.Passthrough(); ok {
		t.Fatal("expected worksheet to be parsed")
	}
	if sheet.Range != "'Week 1'!A1:D3" || sheet.RowCount != 3 || sheet.ColumnCount != 4 {
		t.Fatalf("worksheet metadata not copied: %+v", sheet)
	}
	if len(sheet.Topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(sheet.Topics))
	}

	want := WorksheetStatistics{TotalTopics: 2, Statistics: Statistics{TotalWords: 3, ByFlag: FlagCounts{New: 1, Known: 1}}}
	if sheet.Statistics != want {
		t.Fatalf("worksheet stats = %+v, want %+v", sheet.Statistics, want)
	}

	t1 := sheet.Topics[0].Statistics
	if t1.TotalWords != 2 || t1.ByFlag.New != 1 || t1.ByFlag.Known != 1 {
		t.Fatalf("unexpected T1 statistics: %+v", t1)
	}
	t2 := sheet.Topics[1].Statistics
	if t2.TotalWords != 1 || t2.ByFlag != (FlagCounts{}) {
		t.Fatalf("unexpected T2 statistics: %+v", t2)
	}
}

func TestTransform_TotalWordsMatchesTopicWords(t *testing.T) {
	t.Parallel()

	raw := &RawDocument{Worksheets: []RawWorksheet{{
		Name: "S",
		Values: rows(
			[]any{"Order", "Topic", "Flag", "Word"},
			[]any{1, "", "n", "early"},
			[]any{2, "A", "y", "alpha"},
			[]any{3, "", "", ""},
			[]any{4, "B", "", ""},
			[]any{5, "", "ok", "beta"},
			[]any{6, "", "?", "gamma"},
		),
	}}}

	sheet := Transform(raw).Worksheets[0]
	sum := 0
	for _, topic := range sheet.Topics {
		sum += len(topic.Words)
	}
	if sum != sheet.Statistics.TotalWords {
		t.Fatalf("sum of topic words %d != totalWords %d", sum, sheet.Statistics.TotalWords)
	}
	if sheet.Statistics.TotalTopics != 3 {
		t.Fatalf("totalTopics = %d, want 3", sheet.Statistics.TotalTopics)
	}
}

func TestTransform_PassesThroughFailedAndEmptyWorksheets(t *testing.T) {
	t.Parallel()

	raw := &RawDocument{
		FileName: "vocab.xlsx",
		Worksheets: []RawWorksheet{
			{Name: "X", Error: "boom"},
			{Name: "Empty", Range: "Empty!A1", RowCount: 1, ColumnCount: 1},
		},
	}

	doc := Transform(raw)
	failed, ok := doc.Worksheets[0].Passthrough()
	if !ok || failed.Name != "X" || failed.Error != "boom" {
		t.Fatalf("expected failed worksheet to pass through, got %+v", doc.Worksheets[0])
	}
	if _, ok := doc.Worksheets[1].Passthrough(); !ok {
		t.Fatalf("expected empty worksheet to pass through")
	}

	encoded, err := json.Marshal(doc.Worksheets[0])
	if err != nil {
		t.Fatalf("marshal worksheet: %v", err)
	}
	if string(encoded) != `{"name":"X","error":"boom"}` {
		t.Fatalf("unexpected pass-through JSON: %s", encoded)
	}
}

func TestTransform_PropagatesCacheMetadata(t *testing.T) {
	t.Parallel()

	cached := true
	cachedAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	raw := &RawDocument{
		FileName:   "vocab.xlsx",
		Worksheets: []RawWorksheet{{Name: "S", Values: rows([]any{1, "T", "n", "a"})}},
		Meta:       Meta{Cached: &cached, CachedAt: &cachedAt},
	}

	doc := Transform(raw)
	if doc.Cached == nil || !*doc.Cached {
		t.Fatalf("expected _cached to propagate")
	}
	if doc.CachedAt == nil || !doc.CachedAt.Equal(cachedAt) {
		t.Fatalf("expected _cachedAt to propagate, got %v", doc.CachedAt)
	}
	if doc.FetchedAt != nil {
		t.Fatalf("expected _fetchedAt to stay unset")
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	text := string(encoded)
	if !strings.Contains(text, `"_cached":true`) || !strings.Contains(text, `"_cachedAt":"2026-03-01T08:00:00Z"`) {
		t.Fatalf("metadata missing from JSON: %s", text)
	}
	if strings.Contains(text, "_fetchedAt") {
		t.Fatalf("unexpected _fetchedAt in JSON: %s", text)
	}
}

func TestTransform_DecodesUpstreamJSON(t *testing.T) {
	t.Parallel()

	payload := `{
		"fileName": "vocab.xlsx",
		"fileSize": 2048,
		"worksheets": [
			{"name": "Week 1", "range": "'Week 1'!A1:K3", "rowCount": 3, "columnCount": 11,
			 "values": [["Order","Topic","Flag","Word"],[1,"Reading 1","N","apple",null,"","fruit"],[2,"",true,"banana"]]},
			{"name": "Broken", "error": "ItemNotFound"}
		],
		"_fetchedAt": "2026-03-02T10:00:00Z"
	}`

	var raw RawDocument
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	doc := Transform(&raw)
	sheet := doc.Worksheets[0]
	if len(sheet.Topics) != 1 || len(sheet.Topics[0].Words) != 2 {
		t.Fatalf("unexpected topics: %+v", sheet.Topics)
	}
	apple := sheet.Topics[0].Words[0]
	if apple.Meaning != "fruit" || apple.PartOfSpeech != "" || apple.RowNumber != 2 {
		t.Fatalf("unexpected apple record: %+v", apple)
	}
	if flag := sheet.Topics[0].Words[1].Flag; flag != "true" {
		t.Fatalf("boolean flag normalized to %q, want %q", flag, "true")
	}
	if doc.FetchedAt == nil {
		t.Fatalf("expected _fetchedAt to be decoded and propagated")
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	var roundTrip Document
	if err := json.Unmarshal(encoded, &roundTrip); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if _, ok := roundTrip.Worksheets[1].Passthrough(); !ok {
		t.Fatalf("expected error worksheet to decode as pass-through")
	}
	if roundTrip.Worksheets[0].Statistics.TotalWords != 2 {
		t.Fatalf("statistics lost in round trip: %+v", roundTrip.Worksheets[0].Statistics)
	}
}

func TestTransform_PassThroughWorksheetsAreCopiedVerbatim(t *testing.T) {
	t.Parallel()

	input := `{"fileName":"vocab.xlsx","fileSize":7,"worksheets":[null,{"name":"E","values":[]},{"name":"Broken","error":"ItemNotFound","code":404}]}`
	var raw RawDocument
	if err := json.Unmarshal([]byte(input), &raw); err != nil {
		t.Fatalf("decode raw document: %v", err)
	}
	if !raw.Worksheets[0].IsNull() || raw.Worksheets[1].IsNull() {
		t.Fatalf("null entry not recognised: %+v", raw.Worksheets)
	}

	encoded, err := json.Marshal(Transform(&raw))
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	want := `"worksheets":[null,{"name":"E","values":[]},{"name":"Broken","error":"ItemNotFound","code":404}]`
	if !strings.Contains(string(encoded), want) {
		t.Fatalf("pass-through worksheets changed:\n got %s\nwant %s", encoded, want)
	}

	var decoded Document
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if sheet, ok := decoded.Worksheets[0].Passthrough(); !ok || !sheet.IsNull() {
		t.Fatalf("expected null worksheet after round trip, got %+v", decoded.Worksheets[0])
	}
}

func TestTransform_ConstructedNullAndEmptyWorksheets(t *testing.T) {
	t.Parallel()

	doc := Transform(&RawDocument{Worksheets: []RawWorksheet{
		NullWorksheet(),
		{Name: "E", Values: [][]Cell{}},
		{Name: "Missing"},
	}})
	encoded, err := json.Marshal(doc.Worksheets)
	if err != nil {
		t.Fatalf("marshal worksheets: %v", err)
	}
	if got, want := string(encoded), `[null,{"name":"E","values":[]},{"name":"Missing"}]`; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}
