package vocab

import (
	"bytes"
	"encoding/json"
	"time"
)

// Meta carries cache bookkeeping that the transformer passes through untouched.
type Meta struct {
	Cached    *bool      `json:"_cached,omitempty"`
	CachedAt  *time.Time `json:"_cachedAt,omitempty"`
	FetchedAt *time.Time `json:"_fetchedAt,omitempty"`
}

// RawWorksheet is one worksheet as returned by the fetch layer. Error is set
// instead of Values when the worksheet could not be loaded upstream.
//
// A worksheet decoded from JSON remembers its source bytes, and a null entry
// stays null, so pass-through worksheets are written back unchanged.
type RawWorksheet struct {
	Name        string   `json:"name"`
	Range       string   `json:"range,omitempty"`
	RowCount    int      `json:"rowCount,omitempty"`
	ColumnCount int      `json:"columnCount,omitempty"`
	Values      [][]Cell `json:"values,omitempty"`
	Error       string   `json:"error,omitempty"`

	null   bool
	source json.RawMessage
}

// NullWorksheet is the placeholder for a missing worksheet entry.
func NullWorksheet() RawWorksheet {
	return RawWorksheet{null: true}
}

func (w RawWorksheet) IsNull() bool {
	return w.null
}

var jsonNull = []byte("null")

func (w RawWorksheet) MarshalJSON() ([]byte, error) {
	if w.null {
		return jsonNull, nil
	}
	type plain RawWorksheet
	out := struct {
		plain
		// Values is re-declared so an empty, non-nil slice keeps its key.
		Values *[][]Cell `json:"values,omitempty"`
	}{plain: plain(w)}
	if w.Values != nil {
		out.Values = &w.Values
	}
	return json.Marshal(out)
}

func (w *RawWorksheet) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*w = NullWorksheet()
		return nil
	}
	type plain RawWorksheet
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*w = RawWorksheet(decoded)
	w.source = append(json.RawMessage(nil), data...)
	return nil
}

// RawDocument is the multi-worksheet payload consumed by Transform.
type RawDocument struct {
	FileName   string         `json:"fileName"`
	FileSize   int64          `json:"fileSize"`
	Worksheets []RawWorksheet `json:"worksheets"`
	Meta
}

type WordRecord struct {
	RowNumber       int    `json:"rowNumber"`
	Order           string `json:"order"`
	Flag            string `json:"flag"`
	Word            string `json:"word"`
	PartOfSpeech    string `json:"partOfSpeech"`
	Pronunciation   string `json:"pronunciation"`
	Meaning         string `json:"meaning"`
	ExampleSentence string `json:"exampleSentence"`
	Synonyms        string `json:"synonyms"`
	DayOfWeek       string `json:"dayOfWeek"`
	Date            string `json:"date"`
}

type FlagCounts struct {
	New       int `json:"new"`
	Known     int `json:"known"`
	Forgotten int `json:"forgotten"`
	Learned   int `json:"learned"`
}

type Statistics struct {
	TotalWords int        `json:"totalWords"`
	ByFlag     FlagCounts `json:"byFlag"`
}

type WorksheetStatistics struct {
	TotalTopics int `json:"totalTopics"`
	Statistics
}

type Topic struct {
	Name       string       `json:"name"`
	StartRow   int          `json:"startRow"`
	Words      []WordRecord `json:"words"`
	Statistics Statistics   `json:"statistics"`
}

// Worksheet is the structured form of a RawWorksheet. Worksheets that were
// not parsed keep their raw form and marshal exactly like the input.
type Worksheet struct {
	Name        string              `json:"name"`
	Range       string              `json:"range"`
	RowCount    int                 `json:"rowCount"`
	ColumnCount int                 `json:"columnCount"`
	Topics      []Topic             `json:"topics"`
	Statistics  WorksheetStatistics `json:"statistics"`

	passthrough *RawWorksheet
}

// Passthrough returns the raw worksheet when it bypassed parsing.
func (w Worksheet) Passthrough() (RawWorksheet, bool) {
	if w.passthrough == nil {
		return RawWorksheet{}, false
	}
	return *w.passthrough, true
}

func (w Worksheet) MarshalJSON() ([]byte, error) {
	if w.passthrough != nil {
		if !w.passthrough.null && w.passthrough.source != nil {
			return w.passthrough.source, nil
		}
		return json.Marshal(w.passthrough)
	}
	type plain Worksheet
	return json.Marshal(plain(w))
}

func (w *Worksheet) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*w = passthroughWorksheet(NullWorksheet())
		return nil
	}
	var shape struct {
		Topics json.RawMessage `json:"topics"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return err
	}
	if shape.Topics == nil {
		var raw RawWorksheet
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*w = passthroughWorksheet(raw)
		return nil
	}

	type plain Worksheet
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*w = Worksheet(decoded)
	return nil
}

// Document is the transformer output.
type Document struct {
	FileName   string      `json:"fileName"`
	FileSize   int64       `json:"fileSize"`
	Worksheets []Worksheet `json:"worksheets"`
	Meta
}

func passthroughWorksheet(raw RawWorksheet) Worksheet {
	copied := raw
	return Worksheet{Name: raw.Name, passthrough: &copied}
}
