package formula

import "strings"

// Row is one record of a sheet: column key to primitive value. Values may
// be numbers, strings, booleans, or nil for empty cells.
type Row map[string]any

// Column describes one column of the tabular data: a stable key, a
// human-readable label, and an optional declared type. Labels are what
// named-column formulas reference; keys are what rows store values under.
type Column struct {
	Key   string
	Label string
	Type  string
}

// SheetData is one addressable dataset snapshot: a stable id, a display
// label, and an ordered sequence of rows.
type SheetData struct {
	ID    string
	Label string
	Rows  []Row
}

// EvalContext holds the immutable lookup structures one evaluation call
// resolves references against. It is built fresh per call from
// caller-supplied sheet data and is never mutated afterwards, so a single
// context may serve any number of Eval calls and distinct contexts may be
// used concurrently without locking.
type EvalContext struct {
	currentSheet string

	sheets       map[string]*SheetData // sheet id -> sheet
	sheetByLabel map[string]string     // normalized label -> sheet id

	columns       []Column
	colKeyByIndex []string          // visible column order (A1 addressing)
	colIndexByKey map[string]int    // column key -> 0-based index
	colKeyByLabel map[string]string // normalized label -> column key

	identityKey string
	// sheet id -> normalized identity value -> first row seen
	identityIndex map[string]map[string]Row
}

// NewEvalContext builds an evaluation context. currentSheetID selects the
// sheet unqualified references resolve against. columns supplies both the
// key/label mapping for named references and the visible column order for
// A1 addressing. identityKey is the column key used for cross-sheet row
// matching; pass "" when no identity key is configured (cross-sheet
// references then fall back to the legacy full-row scan).
func NewEvalContext(currentSheetID string, sheets []*SheetData, columns []Column, identityKey string) *EvalContext {
	ctx := &EvalContext{
		currentSheet:  currentSheetID,
		sheets:        make(map[string]*SheetData, len(sheets)),
		sheetByLabel:  make(map[string]string, len(sheets)),
		columns:       columns,
		colKeyByIndex: make([]string, 0, len(columns)),
		colIndexByKey: make(map[string]int, len(columns)),
		colKeyByLabel: make(map[string]string, len(columns)),
		identityKey:   identityKey,
	}

	for _, sheet := range sheets {
		ctx.sheets[sheet.ID] = sheet
		ctx.sheetByLabel[normalizeIdentity(sheet.Label)] = sheet.ID
	}

	for i, col := range columns {
		ctx.colKeyByIndex = append(ctx.colKeyByIndex, col.Key)
		ctx.colIndexByKey[col.Key] = i
		ctx.colKeyByLabel[normalizeIdentity(col.Label)] = col.Key
	}

	if identityKey != "" {
		ctx.identityIndex = buildIdentityIndex(sheets, identityKey)
	}

	return ctx
}

// CurrentSheet returns the sheet unqualified references resolve against,
// or nil if the context was built without it
func (ctx *EvalContext) CurrentSheet() *SheetData {
	return ctx.sheets[ctx.currentSheet]
}

// resolveSheetLabel maps a display label to a sheet id
func (ctx *EvalContext) resolveSheetLabel(label string) (string, bool) {
	id, ok := ctx.sheetByLabel[normalizeIdentity(label)]
	return id, ok
}

// resolveColumnName maps a column reference, matched case-insensitively by
// label first and by key second, to the column key rows store values under
func (ctx *EvalContext) resolveColumnName(name string) (string, bool) {
	if key, ok := ctx.colKeyByLabel[normalizeIdentity(name)]; ok {
		return key, true
	}
	if _, ok := ctx.colIndexByKey[name]; ok {
		return name, true
	}
	return "", false
}

// normalizeIdentity is the canonical form used for identity values, sheet
// labels, and column labels: trimmed and lowercased
func normalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// buildIdentityIndex precomputes, for each sheet, a map from normalized
// identity value to row. The first row seen for a given value wins; later
// duplicates are ignored rather than reported, so lookups are stable even
// on sheets with repeated identity values.
func buildIdentityIndex(sheets []*SheetData, identityKey string) map[string]map[string]Row {
	index := make(map[string]map[string]Row, len(sheets))
	for _, sheet := range sheets {
		byIdentity := make(map[string]Row, len(sheet.Rows))
		for _, row := range sheet.Rows {
			raw, ok := row[identityKey]
			if !ok || raw == nil {
				continue
			}
			norm := normalizeIdentity(stringifyIdentity(raw))
			if norm == "" {
				continue
			}
			if _, seen := byIdentity[norm]; !seen {
				byIdentity[norm] = row
			}
		}
		index[sheet.ID] = byIdentity
	}
	return index
}

// identityOf reads and normalizes a row's identity value under the
// configured key. ok is false when the row has no usable identity.
func (ctx *EvalContext) identityOf(row Row) (string, bool) {
	if ctx.identityKey == "" {
		return "", false
	}
	raw, ok := row[ctx.identityKey]
	if !ok || raw == nil {
		return "", false
	}
	norm := normalizeIdentity(stringifyIdentity(raw))
	return norm, norm != ""
}

// legacyIdentityOf approximates a row's identity when no identity key is
// configured: the value of an "id" field, falling back to "name". This
// feeds the legacy cross-sheet scan only.
func legacyIdentityOf(row Row) (string, bool) {
	for _, candidate := range []string{"id", "name"} {
		for key, raw := range row {
			if strings.EqualFold(key, candidate) && raw != nil {
				norm := normalizeIdentity(stringifyIdentity(raw))
				if norm != "" {
					return norm, true
				}
			}
		}
	}
	return "", false
}
