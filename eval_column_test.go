package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var namedColumns = []Column{
	{Key: "id", Label: "ID"},
	{Key: "revenue", Label: "Revenue", Type: "currency"},
	{Key: "cost", Label: "Cost", Type: "currency"},
	{Key: "units", Label: "Units"},
}

func namedSheets() []*SheetData {
	return []*SheetData{
		{
			ID:    "jan",
			Label: "Jan",
			Rows: []Row{
				{"id": "x", "revenue": "$1,200.00", "cost": 300.0, "units": 40.0},
				{"id": "y", "revenue": "$800.00", "cost": 200.0, "units": nil},
			},
		},
		{
			ID:    "feb",
			Label: "Feb",
			Rows: []Row{
				{"id": "X", "revenue": 100.0, "cost": 25.0},
				{"id": "y", "revenue": 50.0, "cost": 10.0},
			},
		},
	}
}

func newColumnContext() *EvalContext {
	return NewEvalContext("jan", namedSheets(), namedColumns, "id")
}

func TestEvalColumnCurrentRow(t *testing.T) {
	ctx := newColumnContext()
	row := ctx.CurrentSheet().Rows[0]

	v, err := EvaluateColumnFormula("{Revenue} - {Cost}", ctx, row)
	require.NoError(t, err)
	assert.Equal(t, 900.0, v.Number)
	assert.Equal(t, FormatCurrency, v.Format)

	// labels match case-insensitively, keys work too
	v, err = EvaluateColumnFormula("{revenue} / {units}", ctx, row)
	require.NoError(t, err)
	assert.Equal(t, 30.0, v.Number)

	// nil cell coerces to 0
	v, err = EvaluateColumnFormula("{Units} + 1", ctx, ctx.CurrentSheet().Rows[1])
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Number)
}

func TestEvalColumnCrossSheet(t *testing.T) {
	ctx := newColumnContext()
	row := ctx.CurrentSheet().Rows[0]

	// identity "x" matches "X" on Feb: lookup is normalized
	v, err := EvaluateColumnFormula("{Feb.Revenue}", ctx, row)
	require.NoError(t, err)
	assert.Equal(t, 100.0, v.Number)

	v, err = EvaluateColumnFormula("{Revenue} - {Feb.Revenue}", ctx, row)
	require.NoError(t, err)
	assert.Equal(t, 1100.0, v.Number)
	assert.Equal(t, FormatCurrency, v.Format)
}

func TestEvalColumnCrossSheetLegacyScan(t *testing.T) {
	// no identity key configured: fall back to scanning the target sheet
	// for any field matching the current row's id-like value
	ctx := NewEvalContext("jan", namedSheets(), namedColumns, "")
	row := ctx.CurrentSheet().Rows[1]

	v, err := EvaluateColumnFormula("{Feb.Cost}", ctx, row)
	require.NoError(t, err)
	assert.Equal(t, 10.0, v.Number)
}

func TestEvalColumnErrors(t *testing.T) {
	ctx := newColumnContext()
	row := ctx.CurrentSheet().Rows[0]

	tests := []struct {
		formula string
		kind    ErrorKind
		substr  string
	}{
		{"{Bogus} + 1", KindResolution, `"Bogus"`},
		{"{Mar.Revenue}", KindResolution, `"Mar"`},
		{"{Revenue} / ({Cost} - {Cost})", KindArithmetic, "division by zero"},
		{"SUM({column})", KindResolution, "{column}"},
	}

	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			_, err := EvaluateColumnFormula(tt.formula, ctx, row)
			require.Error(t, err)
			ee := asEvalError(err)
			assert.Equal(t, tt.kind, ee.Kind)
			assert.Contains(t, ee.Error(), tt.substr)
		})
	}

	// a row with no counterpart on the target sheet
	orphan := Row{"id": "zzz", "revenue": 1.0}
	_, err := EvaluateColumnFormula("{Feb.Revenue}", ctx, orphan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"zzz"`)
}

func TestEvalRowAggregates(t *testing.T) {
	ctx := newColumnContext()

	v, err := EvaluateRowFormula("SUM({column})", ctx, "Revenue")
	require.NoError(t, err)
	assert.Equal(t, 2000.0, v.Number)
	assert.Equal(t, FormatCurrency, v.Format)

	v, err = EvaluateRowFormula("AVERAGE({column})", ctx, "Cost")
	require.NoError(t, err)
	assert.Equal(t, 250.0, v.Number)

	// empty cells are skipped, so the count reflects populated rows only
	v, err = EvaluateRowFormula("COUNT({column})", ctx, "Units")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Number)

	v, err = EvaluateRowFormula("MAX({column}) - MIN({column})", ctx, "cost")
	require.NoError(t, err)
	assert.Equal(t, 100.0, v.Number)
}

func TestEvalRowLabelReference(t *testing.T) {
	ctx := newColumnContext()

	// a plain name addresses an individual row by identity value
	v, err := EvaluateRowFormula("{x} - {y}", ctx, "Cost")
	require.NoError(t, err)
	assert.Equal(t, 100.0, v.Number)

	_, err = EvaluateRowFormula("{zzz}", ctx, "Cost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"zzz"`)
}

func TestEvalRowErrors(t *testing.T) {
	ctx := newColumnContext()

	_, err := EvaluateRowFormula("SUM({column})", ctx, "Bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Bogus"`)

	// sheet qualifiers have no meaning when aggregating one column
	_, err = EvaluateRowFormula("SUM({column}) + {Feb.Revenue}", ctx, "Revenue")
	require.Error(t, err)
	assert.Equal(t, KindResolution, asEvalError(err).Kind)

	// the allow-list rejects unknown functions before evaluation
	_, err = EvaluateRowFormula("MEDIAN({column})", ctx, "Revenue")
	require.Error(t, err)
	assert.Equal(t, KindParse, asEvalError(err).Kind)
}

func TestEvalRowLegacyColumnSum(t *testing.T) {
	// without an identity key a plain name reads as another column,
	// summed across all rows
	ctx := NewEvalContext("jan", namedSheets(), namedColumns, "")

	v, err := EvaluateRowFormula("SUM({column}) - {Cost}", ctx, "Revenue")
	require.NoError(t, err)
	assert.Equal(t, 1500.0, v.Number)
}

func TestEvalRowNonNumericValue(t *testing.T) {
	sheets := []*SheetData{
		{
			ID:    "jan",
			Label: "Jan",
			Rows: []Row{
				{"id": "x", "revenue": "n/a"},
			},
		},
	}
	ctx := NewEvalContext("jan", sheets, namedColumns, "id")

	// a populated value that is not a number is an error, not a zero
	_, err := EvaluateRowFormula("SUM({column})", ctx, "Revenue")
	require.Error(t, err)
	assert.Equal(t, KindConversion, asEvalError(err).Kind)
}
