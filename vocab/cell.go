package vocab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CellKind identifies which scalar a Cell holds.
type CellKind int

const (
	CellNull CellKind = iota
	CellString
	CellNumber
	CellBool
)

// Cell is one spreadsheet cell value as delivered by the workbook API.
type Cell struct {
	kind CellKind
	str  string
	num  float64
	b    bool
}

func StringCell(value string) Cell {
	return Cell{kind: CellString, str: value}
}

func NumberCell(value float64) Cell {
	return Cell{kind: CellNumber, num: value}
}

func BoolCell(value bool) Cell {
	return Cell{kind: CellBool, b: value}
}

func NullCell() Cell {
	return Cell{}
}

func (c Cell) Kind() CellKind {
	return c.kind
}

// Normalize converts the cell to a trimmed string; null cells become "".
func (c Cell) Normalize() string {
	switch c.kind {
	case CellString:
		return strings.TrimSpace(c.str)
	case CellNumber:
		return formatNumber(c.num)
	case CellBool:
		return strconv.FormatBool(c.b)
	default:
		return ""
	}
}

// formatNumber prints the shortest decimal form, switching to exponent
// notation below 1e-6 and from 1e21 up. Negative zero prints as "0".
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		mantissa, exponent, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
		return mantissa + "e" + exponent[:1] + strings.TrimLeft(exponent[1:], "0")
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsBlank reports whether the cell normalizes to the empty string.
func (c Cell) IsBlank() bool {
	return c.Normalize() == ""
}

func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case CellString:
		return json.Marshal(c.str)
	case CellNumber:
		return json.Marshal(c.num)
	case CellBool:
		return json.Marshal(c.b)
	default:
		return []byte("null"), nil
	}
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	text := bytes.TrimSpace(data)
	if len(text) == 0 || bytes.Equal(text, []byte("null")) {
		*c = NullCell()
		return nil
	}

	switch text[0] {
	case '"':
		var value string
		if err := json.Unmarshal(text, &value); err != nil {
			return fmt.Errorf("decode string cell: %w", err)
		}
		*c = StringCell(value)
	case 't', 'f':
		var value bool
		if err := json.Unmarshal(text, &value); err != nil {
			return fmt.Errorf("decode boolean cell: %w", err)
		}
		*c = BoolCell(value)
	default:
		var value float64
		if err := json.Unmarshal(text, &value); err != nil {
			return fmt.Errorf("unsupported cell value %s", string(text))
		}
		*c = NumberCell(value)
	}
	return nil
}

// cellAt returns the normalized value at index, or "" when the row is shorter.
func cellAt(row []Cell, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index].Normalize()
}

func isBlankRow(row []Cell) bool {
	for _, cell := range row {
		if !cell.IsBlank() {
			return false
		}
	}
	return true
}
