package vocab

import (
	"encoding/json"
	"math"
	"testing"
)

func TestCell_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{name: "null", cell: NullCell(), want: ""},
		{name: "string trimmed", cell: StringCell("  apple \t"), want: "apple"},
		{name: "integer", cell: NumberCell(12), want: "12"},
		{name: "fraction", cell: NumberCell(1.5), want: "1.5"},
		{name: "large serial", cell: NumberCell(45292), want: "45292"},
		{name: "below exponent threshold", cell: NumberCell(1e20), want: "100000000000000000000"},
		{name: "large exponent", cell: NumberCell(1e21), want: "1e+21"},
		{name: "large exponent fraction", cell: NumberCell(-1.5e22), want: "-1.5e+22"},
		{name: "small decimal", cell: NumberCell(0.000001), want: "0.000001"},
		{name: "small exponent", cell: NumberCell(1e-7), want: "1e-7"},
		{name: "small exponent fraction", cell: NumberCell(2.5e-10), want: "2.5e-10"},
		{name: "negative zero", cell: NumberCell(math.Copysign(0, -1)), want: "0"},
		{name: "true", cell: BoolCell(true), want: "true"},
		{name: "false", cell: BoolCell(false), want: "false"},
	}

	for _, tt := range tests {
		if got := tt.cell.Normalize(); got != tt.want {
			t.Errorf("%s: Normalize() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCell_JSONKeepsScalarType(t *testing.T) {
	t.Parallel()

	input := `["a",1.25,true,null,""]`
	var cells []Cell
	if err := json.Unmarshal([]byte(input), &cells); err != nil {
		t.Fatalf("decode cells: %v", err)
	}

	kinds := []CellKind{CellString, CellNumber, CellBool, CellNull, CellString}
	for i, kind := range kinds {
		if cells[i].Kind() != kind {
			t.Errorf("cell %d kind = %v, want %v", i, cells[i].Kind(), kind)
		}
	}

	encoded, err := json.Marshal(cells)
	if err != nil {
		t.Fatalf("encode cells: %v", err)
	}
	if string(encoded) != input {
		t.Fatalf("round trip = %s, want %s", encoded, input)
	}
}

func TestCell_RejectsNestedValues(t *testing.T) {
	t.Parallel()

	var cell Cell
	if err := json.Unmarshal([]byte(`{"a":1}`), &cell); err == nil {
		t.Fatal("expected object cell to be rejected")
	}
}
