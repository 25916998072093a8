package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCellContext builds a two-sheet workbook for A1-style evaluation:
// columns A/B/C, three data rows on the current sheet.
func newCellContext() *EvalContext {
	columns := []Column{
		{Key: "a", Label: "Alpha"},
		{Key: "b", Label: "Beta"},
		{Key: "c", Label: "Gamma"},
	}
	sheets := []*SheetData{
		{
			ID:    "data",
			Label: "Data",
			Rows: []Row{
				{"a": 10.0, "b": 2.0, "c": "$5"},
				{"a": 20.0, "b": 4.0, "c": ""},
				{"a": 30.5, "b": 6.0, "c": "oops"},
			},
		},
		{
			ID:    "feb",
			Label: "Feb",
			Rows: []Row{
				{"a": 100.0, "b": 7.0, "c": nil},
			},
		},
	}
	return NewEvalContext("data", sheets, columns, "")
}

func TestEvalCellArithmetic(t *testing.T) {
	ctx := newCellContext()

	tests := []struct {
		formula string
		want    float64
		format  Format
	}{
		{"=42", 42, FormatPlain},
		{"=1.5+2.5", 4, FormatPlain},
		{"=2+3*4", 14, FormatPlain},
		{"=(2+3)*4", 20, FormatPlain},
		{"=-A1", -10, FormatPlain},
		{"=A1+B1", 12, FormatPlain},
		{"=C1+3", 8, FormatCurrency},
		{"=C1*2", 10, FormatCurrency},
		{"=C2+1", 1, FormatPlain}, // empty cell coerces to 0
		{"=A9+1", 1, FormatPlain}, // missing row is an empty cell
	}

	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			v, err := EvaluateCellFormula(tt.formula, ctx)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, v.Number, 1e-9)
			assert.Equal(t, tt.format, v.Format)
		})
	}
}

func TestEvalCellAggregates(t *testing.T) {
	ctx := newCellContext()

	tests := []struct {
		formula string
		want    float64
	}{
		{"=SUM(A1:B2)", 36},
		{"=SUM(B2:A1)", 36}, // corners normalize per axis
		{"=SUM(A1:A3)", 60.5},
		{"=AVERAGE(B1:B3)", 4},
		{"=MIN(A1:A3)", 10},
		{"=MAX(A1:A3)", 30.5},
		{"=COUNT(A1:B3)", 6},
		{"=COUNT(C1:C3)", 1},   // only "$5" is numeric
		{"=SUM(A8:B9)", 0},     // rows past the data are empty
		{"=COUNT(A8:B9)", 0},
		{"=SUM()", 0},
		{"=AVERAGE(A9:A9)", 0}, // empty input is 0, never NaN
		{"=SUM(A1:A2, B1, 3)", 35},
		{"=ROUND(SUM(A1:A3)/3, 2)", 20.17},
		{"=ROUND(2.5)", 3}, // half rounds away from zero
		{"=ABS(A1-A2)", 10},
	}

	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			v, err := EvaluateCellFormula(tt.formula, ctx)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, v.Number, 1e-9)
		})
	}
}

func TestEvalCellCrossSheet(t *testing.T) {
	ctx := newCellContext()

	v, err := EvaluateCellFormula("='Feb'!A1", ctx)
	require.NoError(t, err)
	assert.Equal(t, 100.0, v.Number)

	v, err = EvaluateCellFormula("=SUM('Feb'!A1:B1)+A1", ctx)
	require.NoError(t, err)
	assert.Equal(t, 117.0, v.Number)
}

func TestEvalCellErrors(t *testing.T) {
	ctx := newCellContext()

	tests := []struct {
		formula string
		kind    ErrorKind
		substr  string
	}{
		{"=1/0", KindArithmetic, "division by zero"},
		{"=A1/C2", KindArithmetic, "division by zero"}, // empty divisor is 0
		{"=C3+1", KindConversion, `"oops"`},
		{"='Mar'!A1", KindResolution, `"Mar"`},
		{"=Z1", KindResolution, "out of range"},
		{"=ABS(1, 2)", KindArity, "ABS"},
		{"=ROUND()", KindArity, "ROUND"},
		{"=FOO(1)", KindParse, "unknown function"},
		{"=A1:B2", KindParse, "function argument"},
	}

	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			_, err := EvaluateCellFormula(tt.formula, ctx)
			require.Error(t, err)
			ee := asEvalError(err)
			assert.Equal(t, tt.kind, ee.Kind)
			if tt.substr != "" {
				assert.Contains(t, ee.Error(), tt.substr)
			}
		})
	}
}

func TestEvalCellReusableAST(t *testing.T) {
	ctx := newCellContext()
	ast, _, err := ParseCellFormula("=SUM(A1:A3)")
	require.NoError(t, err)

	// one parse, many evaluations
	for i := 0; i < 3; i++ {
		v, err := EvalCell(ast, ctx)
		require.NoError(t, err)
		assert.Equal(t, 60.5, v.Number)
	}
}
