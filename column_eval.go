package formula

// columnRowResolver resolves named-column references for a single row.
// Unqualified references read the current row; sheet-qualified references
// locate the matching row on the other sheet by shared identity.
type columnRowResolver struct {
	ctx *EvalContext
	row Row
}

func (r *columnRowResolver) resolveRef(n Node) (Value, error) {
	col, ok := n.(*ColumnNode)
	if !ok {
		return Value{}, newEvalError(KindOther, "unexpected reference node in column formula")
	}

	if col.Sheet == "" {
		key, ok := r.ctx.resolveColumnName(col.Name)
		if !ok {
			return Value{}, newEvalError(KindResolution, "unknown column %q", col.Name)
		}
		return coerceValue(r.row[key], "column \""+col.Name+"\"")
	}

	id, ok := r.ctx.resolveSheetLabel(col.Sheet)
	if !ok {
		return Value{}, newEvalError(KindResolution, "unknown sheet %q", col.Sheet)
	}
	target := r.ctx.sheets[id]

	match, err := r.matchRow(target, col.Sheet)
	if err != nil {
		return Value{}, err
	}

	key, ok := r.ctx.resolveColumnName(col.Name)
	if !ok {
		return Value{}, newEvalError(KindResolution, "unknown column %q", col.Name)
	}
	return coerceValue(match[key], "column \""+col.Sheet+"."+col.Name+"\"")
}

// matchRow finds the row on the target sheet that shares the current
// row's identity. With an identity key configured this is an index
// lookup; without one it falls back to scanning every row for a field
// whose normalized value matches.
func (r *columnRowResolver) matchRow(target *SheetData, label string) (Row, error) {
	if r.ctx.identityKey != "" {
		identity, ok := r.ctx.identityOf(r.row)
		if !ok {
			return nil, newEvalError(KindResolution, "current row has no %q value to match against sheet %q", r.ctx.identityKey, label)
		}
		index := r.ctx.identityIndex[target.ID]
		match, ok := index[identity]
		if !ok {
			return nil, newEvalError(KindResolution, "no row on sheet %q matches %q", label, identity)
		}
		return match, nil
	}

	// Legacy path: no identity key configured. Guess an identity-like
	// field on the current row and scan the target sheet for any field
	// with the same normalized value, first match wins.
	identity, ok := legacyIdentityOf(r.row)
	if !ok {
		return nil, newEvalError(KindResolution, "current row has no identity field to match against sheet %q", label)
	}
	want := normalizeIdentity(identity)
	for _, candidate := range target.Rows {
		for _, raw := range candidate {
			if normalizeIdentity(stringifyIdentity(raw)) == want {
				return candidate, nil
			}
		}
	}
	return nil, newEvalError(KindResolution, "no row on sheet %q matches %q", label, identity)
}

func (r *columnRowResolver) expandRange(n *RangeNode) ([]Value, error) {
	return nil, newEvalError(KindParse, "cell ranges are not valid in column formulas")
}

func (r *columnRowResolver) expandAggregateSelf(n *AggregateSelfNode) ([]Value, error) {
	return nil, newEvalError(KindResolution, "the {column} placeholder is only valid in row formulas")
}

// rowAggregateResolver resolves named-column references for a row formula
// aggregating a single target column across every row of the current
// sheet. The {column} placeholder expands to that column's values; a
// plain name addresses an individual row by its identity value.
type rowAggregateResolver struct {
	ctx       *EvalContext
	columnKey string
}

// expandAggregateSelf collects the target column's value from every row
// of the current sheet. Empty cells are skipped so COUNT reflects only
// populated rows; any populated value that cannot be read as a number is
// an error rather than a silent zero.
func (r *rowAggregateResolver) expandAggregateSelf(n *AggregateSelfNode) ([]Value, error) {
	sheet := r.ctx.CurrentSheet()
	if sheet == nil {
		return nil, newEvalError(KindResolution, "no current sheet in context")
	}

	var values []Value
	for _, row := range sheet.Rows {
		raw, ok := row[r.columnKey]
		if !ok || raw == nil {
			continue
		}
		if s, isString := raw.(string); isString && len(cleanNumericString(s)) == 0 {
			continue
		}
		v, err := coerceValue(raw, "column \""+r.columnKey+"\"")
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func (r *rowAggregateResolver) resolveRef(n Node) (Value, error) {
	col, ok := n.(*ColumnNode)
	if !ok {
		return Value{}, newEvalError(KindOther, "unexpected reference node in row formula")
	}
	if col.Sheet != "" {
		return Value{}, newEvalError(KindResolution, "sheet-qualified references are not valid in row formulas")
	}

	sheet := r.ctx.CurrentSheet()
	if sheet == nil {
		return Value{}, newEvalError(KindResolution, "no current sheet in context")
	}

	if r.ctx.identityKey != "" {
		// treat the name as a row label and read that row's target column
		want := normalizeIdentity(col.Name)
		for _, row := range sheet.Rows {
			identity, ok := r.ctx.identityOf(row)
			if ok && identity == want {
				return coerceValue(row[r.columnKey], "row \""+col.Name+"\"")
			}
		}
		return Value{}, newEvalError(KindResolution, "no row labeled %q", col.Name)
	}

	// Legacy path: without an identity key the name is read as another
	// column, summed over all rows.
	key, ok := r.ctx.resolveColumnName(col.Name)
	if !ok {
		return Value{}, newEvalError(KindResolution, "unknown column %q", col.Name)
	}
	total := Value{}
	for _, row := range sheet.Rows {
		v, ok := rangeValue(row[key])
		if !ok {
			continue
		}
		total.Number += v.Number
		total.Format = mergeFormat(total.Format, v.Format)
	}
	return total, nil
}

func (r *rowAggregateResolver) expandRange(n *RangeNode) ([]Value, error) {
	return nil, newEvalError(KindParse, "cell ranges are not valid in row formulas")
}
