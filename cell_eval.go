package formula

// cellResolver resolves A1-style references against a context: row and
// column indices address the target sheet's row list and the shared
// visible column order.
type cellResolver struct {
	ctx *EvalContext
}

func (r *cellResolver) resolveRef(n Node) (Value, error) {
	cell, ok := n.(*CellNode)
	if !ok {
		return Value{}, newEvalError(KindOther, "unexpected reference node in cell formula")
	}

	sheet, err := r.targetSheet(cell.Ref.Sheet)
	if err != nil {
		return Value{}, err
	}

	ref := cell.Ref
	if ref.Col < 0 || ref.Col >= len(r.ctx.colKeyByIndex) {
		return Value{}, newEvalError(KindResolution, "column %s is out of range", columnLetters(ref.Col))
	}

	// a missing row is an empty cell, not an error
	if ref.Row < 0 || ref.Row >= len(sheet.Rows) {
		return Value{}, nil
	}

	key := r.ctx.colKeyByIndex[ref.Col]
	raw := sheet.Rows[ref.Row][key]
	return coerceValue(raw, "cell \""+ref.String()+"\"")
}

// expandRange normalizes the rectangle's corners independently per axis,
// so A1:B2 and B2:A1 expand identically, then iterates row-major.
// Non-numeric cells inside a range are silently skipped.
func (r *cellResolver) expandRange(n *RangeNode) ([]Value, error) {
	sheet, err := r.targetSheet(n.Sheet)
	if err != nil {
		return nil, err
	}

	startRow := min(n.Start.Row, n.End.Row)
	endRow := max(n.Start.Row, n.End.Row)
	startCol := min(n.Start.Col, n.End.Col)
	endCol := max(n.Start.Col, n.End.Col)

	if startCol < 0 || endCol >= len(r.ctx.colKeyByIndex) {
		return nil, newEvalError(KindResolution, "range %s extends past the last column", n)
	}

	var values []Value
	for row := startRow; row <= endRow; row++ {
		if row < 0 || row >= len(sheet.Rows) {
			continue // missing rows are empty cells
		}
		record := sheet.Rows[row]
		for col := startCol; col <= endCol; col++ {
			raw := record[r.ctx.colKeyByIndex[col]]
			if v, ok := rangeValue(raw); ok {
				values = append(values, v)
			}
		}
	}
	return values, nil
}

func (r *cellResolver) expandAggregateSelf(n *AggregateSelfNode) ([]Value, error) {
	return nil, newEvalError(KindParse, "the {column} placeholder is not valid in cell formulas")
}

// targetSheet resolves a sheet qualifier to sheet data, defaulting to the
// current sheet when the reference carries none
func (r *cellResolver) targetSheet(label string) (*SheetData, error) {
	if label == "" {
		sheet := r.ctx.CurrentSheet()
		if sheet == nil {
			return nil, newEvalError(KindResolution, "no current sheet in context")
		}
		return sheet, nil
	}
	id, ok := r.ctx.resolveSheetLabel(label)
	if !ok {
		return nil, newEvalError(KindResolution, "unknown sheet %q", label)
	}
	return r.ctx.sheets[id], nil
}
